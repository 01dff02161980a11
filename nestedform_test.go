package nestedform_test

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/html"

	nestedform "github.com/goliatone/go-nestedform"
	"github.com/goliatone/go-nestedform/pkg/builder"
	"github.com/goliatone/go-nestedform/pkg/dom"
	"github.com/goliatone/go-nestedform/pkg/fields"
	"github.com/goliatone/go-nestedform/pkg/submission"
	"github.com/goliatone/go-nestedform/pkg/testsupport"
)

func renderProjectPage(t *testing.T) *html.Node {
	t.Helper()

	b, err := nestedform.NewBuilder(nil)
	if err != nil {
		t.Fatalf("new builder: %v", err)
	}
	form, err := nestedform.RenderForm(context.Background(), b, nestedform.FormConfig{
		ID:          "project",
		Action:      "/projects/1",
		FieldClass:  "nested-fields",
		Scope:       builder.NewScope("project", map[string]any{"id": 1}),
		Association: "tasks",
		Children:    []any{map[string]any{"id": 12, "title": "Write docs"}},
		AddLabel:    "Add task",
		Render: nestedform.RenderOptions{
			Locals: map[string]any{"fields": []string{"title"}},
		},
	})
	if err != nil {
		t.Fatalf("render form: %v", err)
	}
	return testsupport.MustParseDocument(t, "<!DOCTYPE html><html><body>"+form+"</body></html>")
}

func byClass(root *html.Node, classes ...string) []*html.Node {
	return dom.FindAll(root, func(n *html.Node) bool {
		for _, class := range classes {
			if !dom.HasClass(n, class) {
				return false
			}
		}
		return true
	})
}

func TestRenderedFormRoundTrip(t *testing.T) {
	ctx := testsupport.Context()
	doc := renderProjectPage(t)
	ctrl := nestedform.NewController(fields.WithIDSource(fields.NewCounterSource(1700000000000)))

	addLinks := byClass(doc, "add_fields")
	if len(addLinks) != 1 {
		t.Fatalf("expected one add link, got %d", len(addLinks))
	}

	var ids []string
	for range 2 {
		outcome, err := ctrl.Dispatch(ctx, fields.NewClick(addLinks[0]))
		if err != nil {
			t.Fatalf("add: %v", err)
		}
		if outcome.Added == nil || !outcome.Added.Substituted {
			t.Fatalf("expected a substituted block, got %+v", outcome)
		}
		ids = append(ids, outcome.Added.ID)
	}
	if diff := cmp.Diff([]string{"1700000000001", "1700000000002"}, ids); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}

	existing := byClass(doc, "remove_fields", "existing")
	if len(existing) != 1 {
		t.Fatalf("expected one existing remove link, got %d", len(existing))
	}
	outcome, err := ctrl.Dispatch(ctx, fields.NewClick(existing[0]))
	if err != nil {
		t.Fatalf("remove existing: %v", err)
	}
	if outcome.Removed.State != fields.StateMarkedForDeletion {
		t.Fatalf("existing block state = %v", outcome.Removed.State)
	}
	if !dom.Hidden(outcome.Removed.Block.Node) {
		t.Fatalf("existing block should be hidden")
	}

	dynamic := byClass(doc, "remove_fields", "dynamic")
	if len(dynamic) != 2 {
		t.Fatalf("expected two dynamic remove links, got %d", len(dynamic))
	}
	outcome, err = ctrl.Dispatch(ctx, fields.NewClick(dynamic[1]))
	if err != nil {
		t.Fatalf("remove dynamic: %v", err)
	}
	if outcome.Removed.State != fields.StateAbsent {
		t.Fatalf("dynamic block state = %v", outcome.Removed.State)
	}

	values := dom.FormValues(dom.GetElementByID(doc, "project"))
	for name := range values {
		if strings.Contains(name, "new_task") {
			t.Fatalf("placeholder index leaked into submission: %s", name)
		}
	}

	entries, err := submission.Parse(values, "project", "tasks")
	if err != nil {
		t.Fatalf("parse submission: %v", err)
	}
	want := []submission.Entry{
		{Index: "0", Attributes: map[string]string{"id": "12", "title": "Write docs"}, Destroy: true},
		{Index: "1700000000001", Attributes: map[string]string{"title": ""}},
	}
	if diff := cmp.Diff(want, entries); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}

	create, update, destroy := submission.Partition(entries)
	if len(create) != 1 || len(update) != 0 || len(destroy) != 1 {
		t.Fatalf("partition = %d/%d/%d", len(create), len(update), len(destroy))
	}
}

func TestRenderedFormMarkup(t *testing.T) {
	doc := renderProjectPage(t)

	form := testsupport.MustGetElementByID(t, doc, "project")
	got := map[string]string{
		"controller":  dom.AttrValue(form, "data-controller"),
		"field class": dom.AttrValue(form, "data-nested-form-field-class-value"),
		"action":      dom.AttrValue(form, "action"),
	}
	want := map[string]string{
		"controller":  "nested-form",
		"field class": "nested-fields",
		"action":      "/projects/1",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("form attributes mismatch (-want +got):\n%s", diff)
	}

	tpl := testsupport.MustGetElementByID(t, doc, "task_fields_template")
	inner, err := dom.InnerHTML(tpl)
	if err != nil {
		t.Fatalf("inner html: %v", err)
	}
	if !strings.Contains(inner, `<label for="project_tasks_attributes_new_task_title">Title</label>`) {
		t.Fatalf("embedded partial not used:\n%s", inner)
	}

	if diff := testsupport.CompareFormValues(map[string][]string{
		"project[tasks_attributes][0][title]":    {"Write docs"},
		"project[tasks_attributes][0][_destroy]": {"false"},
		"project[tasks_attributes][0][id]":       {"12"},
	}, form); diff != "" {
		t.Fatalf("initial submission mismatch (-want +got):\n%s", diff)
	}
}

func TestNewBuilderPrefersCallerPartials(t *testing.T) {
	partials := fstest.MapFS{
		"nested_fields.tpl": {Data: []byte(`<li class="custom">{{ f.TextField("title")|safe }}</li>`)},
	}
	b, err := nestedform.NewBuilder(partials)
	if err != nil {
		t.Fatalf("new builder: %v", err)
	}
	out, err := b.FieldsFor(context.Background(), builder.NewScope("project", nil), "tasks", []any{nil},
		nestedform.RenderOptions{Partial: nestedform.DefaultPartial})
	if err != nil {
		t.Fatalf("fields for: %v", err)
	}
	if !strings.HasPrefix(out, `<li class="custom">`) {
		t.Fatalf("caller partial should override the embedded one, got %q", out)
	}
}

func TestNewControllerFromConfig(t *testing.T) {
	fsys := fstest.MapFS{
		"nested.yaml": {Data: []byte("identifier: tasks-form\nidSource: counter\ncounterStart: 41\n")},
	}
	ctrl, err := nestedform.NewControllerFromConfig(fsys, "nested.yaml", nil)
	if err != nil {
		t.Fatalf("controller from config: %v", err)
	}
	if ctrl.Identifier() != "tasks-form" {
		t.Fatalf("identifier = %q", ctrl.Identifier())
	}

	if _, err := nestedform.NewControllerFromConfig(fsys, "missing.yaml", nil); err == nil {
		t.Fatalf("expected missing config error")
	}
}

func TestRenderFormRequiresScope(t *testing.T) {
	b, err := nestedform.NewBuilder(nil)
	if err != nil {
		t.Fatalf("new builder: %v", err)
	}
	if _, err := nestedform.RenderForm(context.Background(), b, nestedform.FormConfig{Association: "tasks"}); err == nil {
		t.Fatalf("expected error without scope")
	}
}
