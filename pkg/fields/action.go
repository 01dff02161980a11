package fields

import (
	"context"
	"strings"

	"golang.org/x/net/html"

	"github.com/goliatone/go-nestedform/pkg/contract"
	"github.com/goliatone/go-nestedform/pkg/dom"
)

// Action is one parsed data-action descriptor, "click->nested-form#addField".
type Action struct {
	Event      string
	Identifier string
	Method     string
}

// ParseActions splits a data-action value into descriptors. A descriptor
// without an event prefix defaults to click; malformed entries are skipped.
func ParseActions(raw string) []Action {
	var out []Action
	for _, token := range strings.Fields(raw) {
		event, rest, ok := strings.Cut(token, "->")
		if !ok {
			event, rest = "click", token
		}
		identifier, method, ok := strings.Cut(rest, "#")
		if !ok || identifier == "" || method == "" || event == "" {
			continue
		}
		out = append(out, Action{Event: event, Identifier: identifier, Method: method})
	}
	return out
}

// Outcome reports what Dispatch did with an event.
type Outcome struct {
	Method  string
	Added   *AddResult
	Removed *RemoveResult
}

// Handled reports whether a controller action ran.
func (o Outcome) Handled() bool {
	return o.Method != ""
}

// Dispatch routes ev to the controller action named by the data-action of the
// nearest element around the target that declares one for this identifier.
// Events that match no action are ignored.
func (c *Controller) Dispatch(ctx context.Context, ev *Event) (Outcome, error) {
	if ev == nil || ev.Target == nil {
		return Outcome{}, c.fail("dispatch", ErrNoTrigger, "")
	}
	eventType := ev.Type
	if eventType == "" {
		eventType = "click"
	}

	hasAction := func(n *html.Node) bool { return dom.HasAttr(n, contract.AttrAction) }
	for el := dom.Closest(ev.Target, hasAction); el != nil; el = dom.Closest(el.Parent, hasAction) {
		for _, action := range ParseActions(dom.AttrValue(el, contract.AttrAction)) {
			if action.Identifier != c.identifier || action.Event != eventType {
				continue
			}
			ev.CurrentTarget = el
			switch action.Method {
			case contract.ActionAdd:
				result, err := c.AddField(ctx, ev)
				if err != nil {
					return Outcome{}, err
				}
				return Outcome{Method: action.Method, Added: &result}, nil
			case contract.ActionRemove:
				result, err := c.RemoveField(ctx, ev)
				if err != nil {
					return Outcome{}, err
				}
				return Outcome{Method: action.Method, Removed: &result}, nil
			default:
				return Outcome{}, c.fail("dispatch", ErrUnknownAction, action.Method)
			}
		}
	}
	return Outcome{}, nil
}
