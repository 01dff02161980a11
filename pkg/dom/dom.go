package dom

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Parse reads a complete HTML document.
func Parse(r io.Reader) (*html.Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("dom: parse document: %w", err)
	}
	return doc, nil
}

// ParseString is Parse for in-memory markup.
func ParseString(markup string) (*html.Node, error) {
	return Parse(strings.NewReader(markup))
}

// ParseFragment parses markup as the inner HTML of context. A nil context is
// treated as a <div>. The returned nodes are detached.
func ParseFragment(markup string, context *html.Node) ([]*html.Node, error) {
	if context == nil || context.Type != html.ElementNode {
		context = &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return nil, fmt.Errorf("dom: parse fragment: %w", err)
	}
	return nodes, nil
}

// Render serialises n and its subtree.
func Render(n *html.Node) (string, error) {
	if n == nil {
		return "", nil
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", fmt.Errorf("dom: render: %w", err)
	}
	return buf.String(), nil
}

// RenderNodes serialises a list of sibling nodes in order.
func RenderNodes(nodes []*html.Node) (string, error) {
	var buf bytes.Buffer
	for _, n := range nodes {
		if err := html.Render(&buf, n); err != nil {
			return "", fmt.Errorf("dom: render: %w", err)
		}
	}
	return buf.String(), nil
}

// InnerHTML serialises the children of n. Template contents are included, which
// is how an inert <template> fragment is read.
func InnerHTML(n *html.Node) (string, error) {
	if n == nil {
		return "", nil
	}
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", fmt.Errorf("dom: render inner html: %w", err)
		}
	}
	return buf.String(), nil
}

// AppendHTML parses markup in the context of parent and appends the result as
// the last children of parent (insertAdjacentHTML "beforeend").
func AppendHTML(parent *html.Node, markup string) ([]*html.Node, error) {
	if parent == nil {
		return nil, fmt.Errorf("dom: append html: parent is nil")
	}
	nodes, err := ParseFragment(markup, parent)
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
		parent.AppendChild(n)
	}
	return nodes, nil
}

// Remove detaches n from its parent. It reports false when n was already detached.
func Remove(n *html.Node) bool {
	if n == nil || n.Parent == nil {
		return false
	}
	n.Parent.RemoveChild(n)
	return true
}

// Root returns the topmost ancestor of n.
func Root(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	for n.Parent != nil {
		n = n.Parent
	}
	return n
}

// Attached reports whether n still hangs off a document node.
func Attached(n *html.Node) bool {
	root := Root(n)
	return root != nil && root.Type == html.DocumentNode
}

// TextContent concatenates the text nodes below n.
func TextContent(n *html.Node) string {
	if n == nil {
		return ""
	}
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(TextContent(c))
	}
	return b.String()
}

// FormValues collects the successful controls below root the way a browser
// builds a form submission: template contents and disabled controls are
// skipped, hidden blocks are not.
func FormValues(root *html.Node) url.Values {
	values := url.Values{}
	Walk(root, func(n *html.Node) bool {
		if !IsElement(n) {
			return true
		}
		if n.DataAtom == atom.Fieldset && HasAttr(n, "disabled") {
			return false
		}
		name := AttrValue(n, "name")
		if name == "" || HasAttr(n, "disabled") {
			return true
		}
		switch n.DataAtom {
		case atom.Input:
			switch strings.ToLower(AttrValue(n, "type")) {
			case "submit", "button", "image", "reset", "file":
			case "checkbox", "radio":
				if HasAttr(n, "checked") {
					value, ok := Attr(n, "value")
					if !ok {
						value = "on"
					}
					values.Add(name, value)
				}
			default:
				values.Add(name, AttrValue(n, "value"))
			}
		case atom.Textarea:
			values.Add(name, TextContent(n))
		case atom.Select:
			for _, value := range selectedOptions(n) {
				values.Add(name, value)
			}
			return false
		}
		return true
	})
	return values
}

func selectedOptions(sel *html.Node) []string {
	options := FindAll(sel, func(n *html.Node) bool {
		return n.DataAtom == atom.Option
	})
	var out []string
	for _, opt := range options {
		if HasAttr(opt, "selected") && !HasAttr(opt, "disabled") {
			out = append(out, optionValue(opt))
		}
	}
	if len(out) == 0 && !HasAttr(sel, "multiple") && len(options) > 0 {
		out = append(out, optionValue(options[0]))
	}
	return out
}

func optionValue(opt *html.Node) string {
	if value, ok := Attr(opt, "value"); ok {
		return value
	}
	return strings.TrimSpace(TextContent(opt))
}
