package fields

import (
	"golang.org/x/net/html"

	"github.com/goliatone/go-nestedform/pkg/contract"
	"github.com/goliatone/go-nestedform/pkg/dom"
)

// Association describes the collection an add trigger instantiates, as
// declared on the trigger or its nearest annotated ancestor.
type Association struct {
	Node       *html.Node
	Singular   string
	Plural     string
	TemplateID string
}

// ResolveAssociation walks up from n to the nearest element carrying either
// data-association or data-associations. The boolean is false when no such
// element exists.
func ResolveAssociation(n *html.Node) (Association, bool) {
	owner := dom.Closest(n, func(el *html.Node) bool {
		return dom.HasAttr(el, contract.AttrAssociation) || dom.HasAttr(el, contract.AttrAssociations)
	})
	if owner == nil {
		return Association{}, false
	}
	return Association{
		Node:       owner,
		Singular:   dom.AttrValue(owner, contract.AttrAssociation),
		Plural:     dom.AttrValue(owner, contract.AttrAssociations),
		TemplateID: dom.AttrValue(owner, contract.AttrTemplateID),
	}, true
}
