package fields

import "golang.org/x/net/html"

// Event is a user action on the headless DOM. Target is the node that was
// clicked; CurrentTarget is the element whose data-action routed the event
// (set by Dispatch).
type Event struct {
	Type          string
	Target        *html.Node
	CurrentTarget *html.Node

	defaultPrevented bool
}

// NewClick builds a click event on target.
func NewClick(target *html.Node) *Event {
	return &Event{Type: "click", Target: target}
}

// PreventDefault suppresses the trigger's default navigation.
func (e *Event) PreventDefault() {
	if e != nil {
		e.defaultPrevented = true
	}
}

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool {
	return e != nil && e.defaultPrevented
}

func (e *Event) trigger() *html.Node {
	if e == nil {
		return nil
	}
	if e.CurrentTarget != nil {
		return e.CurrentTarget
	}
	return e.Target
}
