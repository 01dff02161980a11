package dom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Matcher selects element nodes during a search.
type Matcher func(*html.Node) bool

// IsElement reports whether n is an element node.
func IsElement(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode
}

// Walk visits the descendants of root in document order. Returning false from
// visit skips the children of that node. The contents of <template> elements
// are inert and never visited.
func Walk(root *html.Node, visit func(*html.Node) bool) {
	if root == nil {
		return
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if !visit(c) {
			continue
		}
		if c.Type == html.ElementNode && c.DataAtom == atom.Template {
			continue
		}
		Walk(c, visit)
	}
}

// Find returns the first descendant element of root accepted by match.
func Find(root *html.Node, match Matcher) *html.Node {
	var found *html.Node
	Walk(root, func(n *html.Node) bool {
		if found != nil {
			return false
		}
		if IsElement(n) && match(n) {
			found = n
			return false
		}
		return true
	})
	return found
}

// FindAll returns every descendant element of root accepted by match.
func FindAll(root *html.Node, match Matcher) []*html.Node {
	var out []*html.Node
	Walk(root, func(n *html.Node) bool {
		if IsElement(n) && match(n) {
			out = append(out, n)
		}
		return true
	})
	return out
}

// Closest returns n or its nearest ancestor element accepted by match.
func Closest(n *html.Node, match Matcher) *html.Node {
	for ; n != nil; n = n.Parent {
		if IsElement(n) && match(n) {
			return n
		}
	}
	return nil
}

// GetElementByID searches the tree n belongs to for an element with the id.
func GetElementByID(n *html.Node, id string) *html.Node {
	if id == "" {
		return nil
	}
	root := Root(n)
	if IsElement(root) && AttrValue(root, "id") == id {
		return root
	}
	return Find(root, func(el *html.Node) bool {
		return AttrValue(el, "id") == id
	})
}

// Attr returns the value of key on n.
func Attr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, attr := range n.Attr {
		if attr.Namespace == "" && attr.Key == key {
			return attr.Val, true
		}
	}
	return "", false
}

// AttrValue returns the value of key on n, or "" when absent.
func AttrValue(n *html.Node, key string) string {
	value, _ := Attr(n, key)
	return value
}

// HasAttr reports whether key is present on n.
func HasAttr(n *html.Node, key string) bool {
	_, ok := Attr(n, key)
	return ok
}

// SetAttr sets key on n, adding the attribute when missing.
func SetAttr(n *html.Node, key, value string) {
	if n == nil {
		return
	}
	for i := range n.Attr {
		if n.Attr[i].Namespace == "" && n.Attr[i].Key == key {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: value})
}

// RemoveAttr deletes key from n.
func RemoveAttr(n *html.Node, key string) {
	if n == nil {
		return
	}
	kept := n.Attr[:0]
	for _, attr := range n.Attr {
		if attr.Namespace == "" && attr.Key == key {
			continue
		}
		kept = append(kept, attr)
	}
	n.Attr = kept
}

// HasToken reports whether the whitespace separated list in key contains token.
func HasToken(n *html.Node, key, token string) bool {
	if token == "" {
		return false
	}
	for _, candidate := range strings.Fields(AttrValue(n, key)) {
		if candidate == token {
			return true
		}
	}
	return false
}

// HasClass reports whether n carries class.
func HasClass(n *html.Node, class string) bool {
	return HasToken(n, "class", class)
}

// ByAttrContains matches elements whose key attribute contains substr.
func ByAttrContains(tag atom.Atom, key, substr string) Matcher {
	return func(n *html.Node) bool {
		if tag != 0 && n.DataAtom != tag {
			return false
		}
		value, ok := Attr(n, key)
		return ok && strings.Contains(value, substr)
	}
}

// Hide sets display:none on n, keeping any other inline declarations.
func Hide(n *html.Node) {
	setStyleProperty(n, "display", "none")
}

// Hidden reports whether n is hidden through its inline style.
func Hidden(n *html.Node) bool {
	return styleProperty(n, "display") == "none"
}

func styleProperty(n *html.Node, property string) string {
	for _, decl := range strings.Split(AttrValue(n, "style"), ";") {
		name, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(name), property) {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

func setStyleProperty(n *html.Node, property, value string) {
	if n == nil {
		return
	}
	decls := strings.Split(AttrValue(n, "style"), ";")
	kept := make([]string, 0, len(decls)+1)
	for _, decl := range decls {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		name, _, _ := strings.Cut(decl, ":")
		if strings.EqualFold(strings.TrimSpace(name), property) {
			continue
		}
		kept = append(kept, decl)
	}
	kept = append(kept, property+": "+value)
	SetAttr(n, "style", strings.Join(kept, "; ")+";")
}
