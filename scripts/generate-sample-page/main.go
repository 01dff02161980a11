package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	nestedform "github.com/goliatone/go-nestedform"
	"github.com/goliatone/go-nestedform/internal/exampleutil"
	"github.com/goliatone/go-nestedform/pkg/builder"
)

// Writes the sample project form to a file so it can be fed to
// nestedform-cli.
func main() {
	output := flag.String("output", "sample_project.html", "destination file")
	identifier := flag.String("identifier", "", "controller identifier")
	flag.Parse()

	if err := run(context.Background(), *output, *identifier); err != nil {
		fmt.Fprintf(os.Stderr, "generate-sample-page: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, output, identifier string) error {
	objects := builder.NewObjectRegistry()
	objects.MustRegister("tasks", exampleutil.NewTask)

	b, err := nestedform.NewBuilder(nil, builder.WithObjects(objects), builder.WithIdentifier(identifier))
	if err != nil {
		return err
	}

	project := exampleutil.SampleProject()
	form, err := nestedform.RenderForm(ctx, b, nestedform.FormConfig{
		ID:          "project",
		Action:      "/projects/1",
		FieldClass:  "nested-fields",
		Scope:       builder.NewScope("project", project),
		Association: "tasks",
		Children:    project.Children(),
		AddLabel:    "Add task",
		Render: nestedform.RenderOptions{
			Locals: map[string]any{"fields": []string{"title", "type"}},
		},
	})
	if err != nil {
		return err
	}

	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(output, []byte(exampleutil.Page("Project", form)), 0o644); err != nil {
		return err
	}
	fmt.Printf("Sample page written to %s\n", output)
	return nil
}
