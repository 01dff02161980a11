package testsupport

import (
	"context"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/html"

	"github.com/goliatone/go-nestedform/pkg/dom"
)

// MustParseDocument parses markup into a document node, failing the test on
// error. Keeps controller tests focused on behaviour rather than setup.
func MustParseDocument(t *testing.T, markup string) *html.Node {
	t.Helper()

	doc, err := dom.ParseString(markup)
	if err != nil {
		t.Fatalf("parse document: %v", err)
	}
	return doc
}

// MustGetElementByID returns the element with id or fails the test.
func MustGetElementByID(t *testing.T, root *html.Node, id string) *html.Node {
	t.Helper()

	n := dom.GetElementByID(root, id)
	if n == nil {
		t.Fatalf("element #%s not found", id)
	}
	return n
}

// CompareFormValues returns a diff between the expected submission and the
// values a browser would send for root.
func CompareFormValues(want url.Values, root *html.Node) string {
	return cmp.Diff(want, dom.FormValues(root))
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
