package nestedform

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/goliatone/go-nestedform/pkg/builder"
	"github.com/goliatone/go-nestedform/pkg/fields"
	"github.com/goliatone/go-nestedform/pkg/render/template/gotemplate"
)

// DefaultPartial is the embedded partial that renders a list of text fields
// plus the remove trigger for one block.
const DefaultPartial = "nested_fields"

// Event aliases fields.Event for callers driving the controller.
type Event = fields.Event

// Scope aliases builder.Scope.
type Scope = builder.Scope

// RenderOptions aliases builder.RenderOptions.
type RenderOptions = builder.RenderOptions

// NewController exposes the field controller constructor from the top-level
// module.
func NewController(options ...fields.Option) *fields.Controller {
	return fields.New(options...)
}

// NewControllerFromConfig loads a JSON or YAML controller config from fsys.
// Options given here are applied after the file's.
func NewControllerFromConfig(fsys fs.FS, path string, now func() time.Time, options ...fields.Option) (*fields.Controller, error) {
	cfg, err := fields.LoadConfig(fsys, path)
	if err != nil {
		return nil, err
	}
	fromFile, err := cfg.Options(now)
	if err != nil {
		return nil, err
	}
	return fields.New(append(fromFile, options...)...), nil
}

// NewBuilder returns a builder whose partials are looked up in partials first
// and in the embedded templates after. partials may be nil.
func NewBuilder(partials fs.FS, options ...builder.Option) (*builder.Builder, error) {
	engineOpts := []gotemplate.Option{}
	if partials != nil {
		engineOpts = append(engineOpts, gotemplate.WithFS(partials))
	}
	engineOpts = append(engineOpts, gotemplate.WithFS(EmbeddedTemplates()))

	engine, err := gotemplate.New(engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("nestedform: template engine: %w", err)
	}
	return builder.New(append([]builder.Option{builder.WithRenderer(engine)}, options...)...), nil
}

// FormConfig describes a form holding one nested association.
type FormConfig struct {
	ID     string
	Action string
	// FieldClass is written as the controller's field class value so remove
	// triggers resolve their block by class.
	FieldClass  string
	Scope       *builder.Scope
	Association string
	Children    []any
	AddLabel    string
	// Before is trusted markup placed ahead of the association.
	Before string
	// Render applies to existing blocks and the template alike. Without a
	// partial or component the embedded DefaultPartial is used.
	Render builder.RenderOptions
}

// RenderForm renders a complete form: the controller scope, the blocks for
// existing children inside the field container, the template and the add
// trigger.
func RenderForm(ctx context.Context, b *builder.Builder, cfg FormConfig) (string, error) {
	if b == nil || b.Renderer() == nil {
		return "", errors.New("nestedform: builder with a template renderer is required")
	}
	if cfg.Scope == nil {
		return "", errors.New("nestedform: form scope is required")
	}
	ro := cfg.Render
	if ro.Partial == "" && ro.Component == nil {
		ro.Partial = DefaultPartial
	}
	label := cfg.AddLabel
	if strings.TrimSpace(label) == "" {
		label = "Add"
	}

	existing, err := b.FieldsFor(ctx, cfg.Scope, cfg.Association, cfg.Children, ro)
	if err != nil {
		return "", err
	}
	addLink, err := b.LinkToAddAssociation(ctx, cfg.Scope, label, cfg.Association, ro, nil)
	if err != nil {
		return "", err
	}

	id := cfg.ID
	if id == "" {
		id = cfg.Scope.ObjectName()
	}
	return b.Renderer().RenderTemplate("nested_form", map[string]any{
		"form_id":     id,
		"action":      cfg.Action,
		"identifier":  b.Identifier(),
		"field_class": cfg.FieldClass,
		"before":      cfg.Before,
		"existing":    existing,
		"add_link":    addLink,
	})
}
