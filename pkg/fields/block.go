package fields

import (
	"golang.org/x/net/html"

	"github.com/goliatone/go-nestedform/pkg/contract"
	"github.com/goliatone/go-nestedform/pkg/dom"
)

// BlockKind tells a block added in this session apart from one rendered for a
// persisted record.
type BlockKind string

const (
	BlockDynamic  BlockKind = contract.ClassDynamic
	BlockExisting BlockKind = contract.ClassExisting
)

// ParseBlockKind maps the data-field-state spelling onto a BlockKind.
func ParseBlockKind(raw string) (BlockKind, bool) {
	switch BlockKind(raw) {
	case BlockDynamic, BlockExisting:
		return BlockKind(raw), true
	default:
		return "", false
	}
}

// BlockState is where a block ends up after a remove.
type BlockState string

const (
	// StateAbsent: a dynamic block was deleted from the DOM.
	StateAbsent BlockState = "absent"
	// StateMarkedForDeletion: an existing block was hidden and its destroy
	// input flipped; it is still submitted.
	StateMarkedForDeletion BlockState = "marked_for_deletion"
	// StateAlreadyAbsent: the trigger no longer belongs to the document,
	// typically a repeated click on a block that is already gone.
	StateAlreadyAbsent BlockState = "already_absent"
)

// FieldBlock is the subtree holding one sub-record's inputs.
type FieldBlock struct {
	Node *html.Node
	Kind BlockKind
}

// blockKind is read off the trigger: its data-field-state, then its "dynamic"
// or "existing" class. A data-field-state on the block only applies when the
// trigger carries none of these. Anything else is an existing record.
func blockKind(block, trigger *html.Node) BlockKind {
	if kind, ok := ParseBlockKind(dom.AttrValue(trigger, contract.AttrFieldState)); ok {
		return kind
	}
	switch {
	case dom.HasClass(trigger, contract.ClassDynamic):
		return BlockDynamic
	case dom.HasClass(trigger, contract.ClassExisting):
		return BlockExisting
	}
	if kind, ok := ParseBlockKind(dom.AttrValue(block, contract.AttrFieldState)); ok {
		return kind
	}
	return BlockExisting
}
