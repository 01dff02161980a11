// Package session replays clicks against a parsed document with a field
// controller. It backs the command line tool.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/net/html"

	"github.com/goliatone/go-nestedform/pkg/contract"
	"github.com/goliatone/go-nestedform/pkg/dom"
	"github.com/goliatone/go-nestedform/pkg/fields"
)

// ErrNoMatch is returned when a selector matches nothing in the document.
var ErrNoMatch = errors.New("session: selector matched no element")

// Trigger is an element that routes clicks to the controller.
type Trigger struct {
	Label  string
	Method string
	Node   *html.Node
}

// Session holds one document and the controller acting on it.
type Session struct {
	doc    *html.Node
	ctrl   *fields.Controller
	logger *slog.Logger
}

// New returns a session. logger may be nil.
func New(doc *html.Node, ctrl *fields.Controller, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Session{doc: doc, ctrl: ctrl, logger: logger}
}

// Document returns the document being edited.
func (s *Session) Document() *html.Node { return s.doc }

// Click dispatches a click on the first element matching selector. Selectors
// are "#id", ".class" or "[attr=value]".
func (s *Session) Click(ctx context.Context, selector string) (fields.Outcome, error) {
	target, err := s.Select(selector)
	if err != nil {
		return fields.Outcome{}, err
	}
	return s.click(ctx, target, selector)
}

func (s *Session) click(ctx context.Context, target *html.Node, label string) (fields.Outcome, error) {
	outcome, err := s.ctrl.Dispatch(ctx, fields.NewClick(target))
	if err != nil {
		return fields.Outcome{}, err
	}
	attrs := []any{slog.String("target", label), slog.String("method", outcome.Method)}
	switch {
	case outcome.Added != nil:
		attrs = append(attrs, slog.String("id", outcome.Added.ID), slog.String("association", outcome.Added.Association.Singular))
	case outcome.Removed != nil:
		attrs = append(attrs, slog.String("state", string(outcome.Removed.State)))
	}
	s.logger.Info("session: click", attrs...)
	return outcome, nil
}

// Select returns the first element matching selector.
func (s *Session) Select(selector string) (*html.Node, error) {
	selector = strings.TrimSpace(selector)
	var match dom.Matcher
	switch {
	case strings.HasPrefix(selector, "#"):
		if n := dom.GetElementByID(s.doc, selector[1:]); n != nil {
			return n, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrNoMatch, selector)
	case strings.HasPrefix(selector, "."):
		class := selector[1:]
		match = func(n *html.Node) bool { return dom.HasClass(n, class) }
	case strings.HasPrefix(selector, "[") && strings.HasSuffix(selector, "]"):
		key, value, hasValue := strings.Cut(selector[1:len(selector)-1], "=")
		value = strings.Trim(value, `"'`)
		match = func(n *html.Node) bool {
			got, ok := dom.Attr(n, key)
			return ok && (!hasValue || got == value)
		}
	default:
		return nil, fmt.Errorf("session: unsupported selector %q", selector)
	}
	if n := dom.Find(s.doc, match); n != nil {
		return n, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNoMatch, selector)
}

// Triggers lists the elements whose data-action routes clicks to the session's
// controller, in document order.
func (s *Session) Triggers() []Trigger {
	var out []Trigger
	for _, n := range dom.FindAll(s.doc, func(n *html.Node) bool { return dom.HasAttr(n, contract.AttrAction) }) {
		for _, action := range fields.ParseActions(dom.AttrValue(n, contract.AttrAction)) {
			if action.Identifier != s.ctrl.Identifier() || action.Event != "click" {
				continue
			}
			out = append(out, Trigger{Label: triggerLabel(n, action.Method), Method: action.Method, Node: n})
			break
		}
	}
	return out
}

func triggerLabel(n *html.Node, method string) string {
	text := strings.Join(strings.Fields(dom.TextContent(n)), " ")
	if id := dom.AttrValue(n, "id"); id != "" {
		text = "#" + id + " " + text
	}
	if state := dom.AttrValue(n, contract.AttrFieldState); state != "" {
		method += " " + state
	}
	return fmt.Sprintf("%s (%s)", strings.TrimSpace(text), method)
}
