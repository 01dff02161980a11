package session_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/html"

	"github.com/goliatone/go-nestedform/internal/session"
	"github.com/goliatone/go-nestedform/pkg/dom"
	"github.com/goliatone/go-nestedform/pkg/fields"
	"github.com/goliatone/go-nestedform/pkg/testsupport"
)

const page = `<!DOCTYPE html><html><body>
<form id="project" data-controller="nested-form" data-nested-form-field-class-value="nested-fields">
  <div data-nested-form-target="fieldContain">
    <div class="nested-fields">
      <input type="text" name="project[tasks_attributes][0][title]" value="Old">
      <input type="hidden" name="project[tasks_attributes][0][_destroy]" value="false">
      <a href="" id="remove-0" class="remove_fields existing" data-field-state="existing" data-action="click->nested-form#removeField">Remove</a>
    </div>
  </div>
  <template data-nested-form-target="template">
    <div class="nested-fields">
      <input type="text" name="project[tasks_attributes][new_task][title]" value="">
      <a href="" class="remove_fields dynamic" data-field-state="dynamic" data-action="click->nested-form#removeField">Remove</a>
    </div>
  </template>
  <a href="" id="add" class="add_fields" data-association="task" data-associations="tasks" data-action="click->nested-form#addField">Add  task</a>
  <a href="" id="other" data-action="click->other#addField">Other</a>
</form>
</body></html>`

type scriptedPicker struct {
	choices []int
	seen    [][]string
}

func (p *scriptedPicker) Pick(_ context.Context, _ string, options []string) (int, error) {
	p.seen = append(p.seen, options)
	if len(p.choices) == 0 {
		return 0, session.ErrAborted
	}
	choice := p.choices[0]
	p.choices = p.choices[1:]
	return choice, nil
}

func newSession(t *testing.T) *session.Session {
	t.Helper()
	doc := testsupport.MustParseDocument(t, page)
	ctrl := fields.New(fields.WithIDSource(fields.NewCounterSource(100)))
	return session.New(doc, ctrl, nil)
}

func TestSelect(t *testing.T) {
	s := newSession(t)

	for _, selector := range []string{"#add", ".add_fields", "[data-association=task]", `[data-association="task"]`, "[data-associations]"} {
		n, err := s.Select(selector)
		if err != nil {
			t.Fatalf("select %q: %v", selector, err)
		}
		if dom.AttrValue(n, "id") != "add" {
			t.Fatalf("select %q matched %q", selector, dom.AttrValue(n, "id"))
		}
	}

	if _, err := s.Select("#missing"); !errors.Is(err, session.ErrNoMatch) {
		t.Fatalf("expected ErrNoMatch, got %v", err)
	}
	if _, err := s.Select("a"); err == nil {
		t.Fatalf("expected unsupported selector error")
	}
}

func TestClick(t *testing.T) {
	s := newSession(t)
	ctx := context.Background()

	outcome, err := s.Click(ctx, "#add")
	if err != nil {
		t.Fatalf("click add: %v", err)
	}
	if outcome.Added == nil || outcome.Added.ID != "101" {
		t.Fatalf("unexpected add outcome %+v", outcome)
	}

	outcome, err = s.Click(ctx, "#remove-0")
	if err != nil {
		t.Fatalf("click remove: %v", err)
	}
	if outcome.Removed == nil || outcome.Removed.State != fields.StateMarkedForDeletion {
		t.Fatalf("unexpected remove outcome %+v", outcome)
	}

	values := dom.FormValues(s.Document())
	if values.Get("project[tasks_attributes][101][title]") != "" || !values.Has("project[tasks_attributes][101][title]") {
		t.Fatalf("new block not submitted: %v", values)
	}
	if got := values.Get("project[tasks_attributes][0][_destroy]"); got != "1" {
		t.Fatalf("destroy marker = %q", got)
	}

	outcome, err = s.Click(ctx, "#other")
	if err != nil || outcome.Handled() {
		t.Fatalf("clicks for other controllers must be ignored, got %+v, %v", outcome, err)
	}
}

func TestTriggers(t *testing.T) {
	s := newSession(t)

	var got []string
	for _, trigger := range s.Triggers() {
		got = append(got, trigger.Label)
	}
	want := []string{
		"#remove-0 Remove (removeField existing)",
		"#add Add task (addField)",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("triggers mismatch (-want +got):\n%s", diff)
	}
}

func TestInteractive(t *testing.T) {
	s := newSession(t)
	picker := &scriptedPicker{choices: []int{1, 1, 2}}

	clicks, err := s.Interactive(context.Background(), picker)
	if err != nil {
		t.Fatalf("interactive: %v", err)
	}
	if clicks != 2 {
		t.Fatalf("clicks = %d", clicks)
	}

	// The added block's remove trigger shows up in the second prompt only.
	want := [][]string{
		{"#remove-0 Remove (removeField existing)", "#add Add task (addField)", "Done"},
		{"#remove-0 Remove (removeField existing)", "Remove (removeField dynamic)", "#add Add task (addField)", "Done"},
		{"#remove-0 Remove (removeField existing)", "#add Add task (addField)", "Done"},
	}
	if diff := cmp.Diff(want, picker.seen); diff != "" {
		t.Fatalf("prompts mismatch (-want +got):\n%s", diff)
	}
	if n := len(dom.FindAll(s.Document(), func(n *html.Node) bool { return dom.HasClass(n, "dynamic") })); n != 0 {
		t.Fatalf("expected the added block to be removed again, %d left", n)
	}
}

func TestInteractiveAbort(t *testing.T) {
	s := newSession(t)
	_, err := s.Interactive(context.Background(), &scriptedPicker{})
	if !errors.Is(err, session.ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}
