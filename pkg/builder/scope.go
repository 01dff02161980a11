package builder

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

var idSanitizer = regexp.MustCompile(`\]\[|[^-a-zA-Z0-9:.]`)

// Scope binds an object to a form name prefix, the way a form builder does in
// server rendered templates. Child scopes come from FieldsFor.
type Scope struct {
	objectName string
	object     any
	index      string
}

// NewScope returns the root scope for objectName ("project").
func NewScope(objectName string, object any) *Scope {
	return &Scope{objectName: strings.TrimSpace(objectName), object: object}
}

// FieldsFor returns the child scope for one element of association, named
// parent[<association>_attributes][<index>].
func (s *Scope) FieldsFor(association string, object any, index string) *Scope {
	return &Scope{
		objectName: fmt.Sprintf("%s[%s_attributes][%s]", s.objectName, association, index),
		object:     object,
		index:      index,
	}
}

// ObjectName returns the name prefix of the scope.
func (s *Scope) ObjectName() string { return s.objectName }

// Object returns the bound object.
func (s *Scope) Object() any { return s.object }

// Index returns the child index, empty for root scopes.
func (s *Scope) Index() string { return s.index }

// Persisted reports whether the bound object is a saved record.
func (s *Scope) Persisted() bool { return IsPersisted(s.object) }

// Name returns the input name for attr.
func (s *Scope) Name(attr string) string {
	if s.objectName == "" {
		return attr
	}
	return s.objectName + "[" + attr + "]"
}

// ID returns the element id for attr: the name with brackets collapsed to
// underscores.
func (s *Scope) ID(attr string) string {
	prefix := strings.TrimSuffix(idSanitizer.ReplaceAllString(s.objectName, "_"), "_")
	if prefix == "" {
		return attr
	}
	return prefix + "_" + attr
}

// Value returns the bound object's attr formatted for an input value.
func (s *Scope) Value(attr string) string {
	value, ok := ReadAttribute(s.object, attr)
	if !ok || value == nil {
		return ""
	}
	return fmt.Sprint(value)
}

// HiddenField renders a hidden input for attr. Without an explicit value the
// bound object's value is used.
func (s *Scope) HiddenField(attr string, value ...string) string {
	v := s.Value(attr)
	if len(value) > 0 {
		v = value[0]
	}
	return inputTag("hidden", s.Name(attr), s.ID(attr), v, `autocomplete="off"`)
}

// TextField renders a text input for attr.
func (s *Scope) TextField(attr string) string {
	return inputTag("text", s.Name(attr), s.ID(attr), s.Value(attr), "")
}

// Label renders a label for attr. The text is escaped.
func (s *Scope) Label(attr, text string) string {
	return `<label for="` + html.EscapeString(s.ID(attr)) + `">` + html.EscapeString(text) + `</label>`
}

// inputTag writes attributes in a fixed order so rendered partials stay
// stable across runs.
func inputTag(kind, name, id, value, extra string) string {
	var b strings.Builder
	b.WriteString(`<input type="`)
	b.WriteString(kind)
	b.WriteString(`" name="`)
	b.WriteString(html.EscapeString(name))
	b.WriteString(`" id="`)
	b.WriteString(html.EscapeString(id))
	b.WriteString(`" value="`)
	b.WriteString(html.EscapeString(value))
	b.WriteString(`"`)
	if extra != "" {
		b.WriteString(" ")
		b.WriteString(extra)
	}
	b.WriteString(`>`)
	return b.String()
}
