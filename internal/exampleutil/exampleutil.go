// Package exampleutil holds the sample records shared by the examples and
// scripts.
package exampleutil

import (
	"html"
	"strings"
)

// Task is the child record used by the examples.
type Task struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Type  string `json:"type"`
}

// Project is the parent record.
type Project struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Tasks []Task `json:"tasks"`
}

// SampleProject returns a project with two saved tasks.
func SampleProject() Project {
	return Project{
		ID:   1,
		Name: "Apollo",
		Tasks: []Task{
			{ID: 11, Title: "Write docs", Type: "Task"},
			{ID: 12, Title: "Ship release", Type: "UrgentTask"},
		},
	}
}

// Children converts the project's tasks for builder.FieldsFor.
func (p Project) Children() []any {
	out := make([]any, 0, len(p.Tasks))
	for _, task := range p.Tasks {
		out = append(out, task)
	}
	return out
}

// NewTask is the object factory registered for the tasks association.
func NewTask(any) any {
	return &Task{Type: "Task"}
}

// Page wraps body in a minimal HTML document.
func Page(title, body string) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>")
	b.WriteString(html.EscapeString(title))
	b.WriteString("</title></head>\n<body>\n")
	b.WriteString(body)
	b.WriteString("\n</body></html>\n")
	return b.String()
}
