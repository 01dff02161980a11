package fields

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/goliatone/go-nestedform/pkg/contract"
	"github.com/goliatone/go-nestedform/pkg/dom"
)

const (
	opAdd    = "add field"
	opRemove = "remove field"
)

// Controller performs add and remove operations inside the form regions
// annotated with its identifier. Operations on one controller run one at a
// time; the DOM they mutate is not safe for concurrent use.
type Controller struct {
	mu sync.Mutex

	identifier   string
	fieldClass   string
	destroyToken string
	destroyValue string
	ids          IDSource
	logger       *slog.Logger
}

// AddResult describes one instantiated block.
type AddResult struct {
	Association   Association
	ID            string
	HTML          string
	Nodes         []*html.Node
	Substituted   bool
	Discriminated bool
}

// RemoveResult describes what a remove did to its block.
type RemoveResult struct {
	Block FieldBlock
	State BlockState
}

// New constructs a Controller applying options.
func New(options ...Option) *Controller {
	cfg := defaultConfig()
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.ids == nil {
		cfg.ids = NewClockSource(nil)
	}
	if cfg.logger == nil {
		cfg.logger = discardLogger()
	}
	return &Controller{
		identifier:   cfg.identifier,
		fieldClass:   cfg.fieldClass,
		destroyToken: cfg.destroyToken,
		destroyValue: cfg.destroyValue,
		ids:          cfg.ids,
		logger:       cfg.logger,
	}
}

// Identifier returns the controller identifier.
func (c *Controller) Identifier() string {
	return c.identifier
}

// AddField instantiates the association template declared around the event
// target and appends it to the field container of the enclosing scope.
func (c *Controller) AddField(ctx context.Context, ev *Event) (AddResult, error) {
	if err := ctx.Err(); err != nil {
		return AddResult{}, err
	}
	trigger := ev.trigger()
	if trigger == nil {
		return AddResult{}, c.fail(opAdd, ErrNoTrigger, "")
	}
	ev.PreventDefault()

	c.mu.Lock()
	defer c.mu.Unlock()

	scope := c.scopeOf(trigger)
	if scope == nil {
		return AddResult{}, c.fail(opAdd, ErrScopeNotFound, c.identifier)
	}
	container := c.target(scope, contract.TargetFieldContain, contract.TargetFieldContainAlias)
	if container == nil {
		return AddResult{}, c.fail(opAdd, ErrFieldContainerNotFound, contract.TargetAttr(c.identifier)+"="+contract.TargetFieldContain)
	}

	result, err := c.buildNewAssociation(scope, trigger, container)
	if err != nil {
		return AddResult{}, err
	}

	nodes, err := dom.AppendHTML(container, result.HTML)
	if err != nil {
		return AddResult{}, c.fail(opAdd, err, "insert template")
	}
	result.Nodes = nodes

	c.logger.Debug("fields: block added",
		"association", result.Association.Singular,
		"id", result.ID,
		"substituted", result.Substituted,
	)
	return result, nil
}

func (c *Controller) buildNewAssociation(scope, trigger, container *html.Node) (AddResult, error) {
	assoc, ok := ResolveAssociation(trigger)
	if !ok {
		return AddResult{}, c.fail(opAdd, ErrAssociationNotFound, "")
	}

	tmpl := c.resolveTemplate(scope, assoc)
	if tmpl == nil {
		detail := contract.TargetAttr(c.identifier) + "=" + contract.TargetTemplate
		if assoc.TemplateID != "" {
			detail = "id=" + assoc.TemplateID
		}
		return AddResult{}, c.fail(opAdd, ErrTemplateNotFound, detail)
	}

	content, err := dom.InnerHTML(tmpl)
	if err != nil {
		return AddResult{}, c.fail(opAdd, err, "read template")
	}

	id := c.ids.Next()
	out, substituted := Instantiate(content, assoc, id)
	if !substituted {
		c.logger.Debug("fields: template has no placeholder index",
			"association", assoc.Singular,
			"associations", assoc.Plural,
		)
	}

	result := AddResult{
		Association: assoc,
		ID:          id,
		Substituted: substituted,
	}

	field := dom.AttrValue(tmpl, contract.AttrDiscriminatorField)
	value := dom.AttrValue(tmpl, contract.AttrDiscriminatorValue)
	if field != "" && value != "" {
		stamped, ok, err := StampDiscriminator(out, field, value, container)
		if err != nil {
			return AddResult{}, c.fail(opAdd, err, "discriminator")
		}
		out = stamped
		result.Discriminated = ok
	}

	result.HTML = out
	return result, nil
}

func (c *Controller) resolveTemplate(scope *html.Node, assoc Association) *html.Node {
	if assoc.TemplateID != "" {
		return dom.GetElementByID(scope, assoc.TemplateID)
	}
	return c.target(scope, contract.TargetTemplate)
}

// StampDiscriminator parses content in the context of parent, sets the value
// of the first input whose name contains "[field]" and serialises the result.
// When no input matches, content is returned untouched and ok is false.
func StampDiscriminator(content, field, value string, parent *html.Node) (string, bool, error) {
	nodes, err := dom.ParseFragment(content, parent)
	if err != nil {
		return content, false, err
	}

	holder := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	for _, n := range nodes {
		holder.AppendChild(n)
	}

	input := dom.Find(holder, dom.ByAttrContains(atom.Input, "name", "["+field+"]"))
	if input == nil {
		return content, false, nil
	}
	dom.SetAttr(input, "value", value)

	out, err := dom.InnerHTML(holder)
	if err != nil {
		return content, false, err
	}
	return out, true, nil
}

// RemoveField removes the block owning the event target. Dynamic blocks leave
// the DOM; existing blocks are hidden with their destroy input set so the
// server deletes the record on submit.
func (c *Controller) RemoveField(ctx context.Context, ev *Event) (RemoveResult, error) {
	if err := ctx.Err(); err != nil {
		return RemoveResult{}, err
	}
	trigger := ev.trigger()
	if trigger == nil {
		return RemoveResult{}, c.fail(opRemove, ErrNoTrigger, "")
	}
	ev.PreventDefault()

	c.mu.Lock()
	defer c.mu.Unlock()

	if !dom.Attached(trigger) {
		c.logger.Debug("fields: remove on detached block ignored")
		return RemoveResult{State: StateAlreadyAbsent}, nil
	}

	scope := c.scopeOf(trigger)
	if scope == nil {
		return RemoveResult{}, c.fail(opRemove, ErrScopeNotFound, c.identifier)
	}

	block, detail := c.resolveBlock(scope, trigger)
	if block == nil {
		return RemoveResult{}, c.fail(opRemove, ErrBlockNotFound, detail)
	}

	fb := FieldBlock{Node: block, Kind: blockKind(block, trigger)}
	if fb.Kind == BlockDynamic {
		dom.Remove(block)
		return RemoveResult{Block: fb, State: StateAbsent}, nil
	}

	marker := dom.Find(block, dom.ByAttrContains(atom.Input, "name", c.destroyToken))
	if marker == nil {
		return RemoveResult{}, c.fail(opRemove, ErrDestroyInputNotFound, "name*="+c.destroyToken)
	}
	dom.SetAttr(marker, "value", c.destroyValue)
	dom.Hide(block)

	return RemoveResult{Block: fb, State: StateMarkedForDeletion}, nil
}

func (c *Controller) resolveBlock(scope, trigger *html.Node) (*html.Node, string) {
	class := c.fieldClassFor(scope)
	if class != "" {
		block := dom.Closest(trigger, func(n *html.Node) bool {
			return dom.HasClass(n, class)
		})
		return block, "class=" + class
	}
	if dom.IsElement(trigger.Parent) {
		return trigger.Parent, ""
	}
	return nil, "trigger has no parent element"
}

func (c *Controller) fieldClassFor(scope *html.Node) string {
	if c.fieldClass != "" {
		return c.fieldClass
	}
	if class := dom.AttrValue(scope, contract.FieldClassValueAttr(c.identifier)); class != "" {
		return class
	}
	return dom.AttrValue(scope, contract.AttrFieldClass)
}

func (c *Controller) scopeOf(n *html.Node) *html.Node {
	return dom.Closest(n, c.isScope)
}

func (c *Controller) isScope(n *html.Node) bool {
	return dom.HasToken(n, contract.AttrController, c.identifier)
}

// target finds the first element in scope listing one of names in its target
// attribute. Elements belonging to a nested scope of the same identifier are
// skipped.
func (c *Controller) target(scope *html.Node, names ...string) *html.Node {
	attr := contract.TargetAttr(c.identifier)
	return dom.Find(scope, func(n *html.Node) bool {
		for _, name := range names {
			if dom.HasToken(n, attr, name) {
				return c.scopeOf(n) == scope
			}
		}
		return false
	})
}

func (c *Controller) fail(op string, err error, detail string) error {
	cfgErr := &ConfigError{Op: op, Detail: detail, Err: err}
	c.logger.Error("fields: configuration error",
		"op", op,
		"error", err,
		"detail", detail,
	)
	return cfgErr
}
