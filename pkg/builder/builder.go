package builder

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/gobuffalo/flect"

	"github.com/goliatone/go-nestedform/pkg/contract"
	"github.com/goliatone/go-nestedform/pkg/render/template"
)

var (
	ErrNoRenderer              = errors.New("builder: no template renderer configured")
	ErrAssociationRequired     = errors.New("builder: association name is required")
	ErrIncompleteDiscriminator = errors.New("builder: discriminator field and value must be given together")
)

// Builder renders association blocks and their triggers.
type Builder struct {
	identifier string
	renderer   template.TemplateRenderer
	objects    *ObjectRegistry
	logger     *slog.Logger
}

// New constructs a Builder applying options.
func New(options ...Option) *Builder {
	cfg := defaultConfig()
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.objects == nil {
		cfg.objects = NewObjectRegistry()
	}
	if cfg.logger == nil {
		cfg.logger = defaultConfig().logger
	}
	return &Builder{
		identifier: cfg.identifier,
		renderer:   cfg.renderer,
		objects:    cfg.objects,
		logger:     cfg.logger,
	}
}

// Identifier returns the controller identifier the builder targets.
func (b *Builder) Identifier() string { return b.identifier }

// Renderer returns the engine used for partials, nil when only components
// are used.
func (b *Builder) Renderer() template.TemplateRenderer { return b.renderer }

// Objects returns the registry used for new child objects.
func (b *Builder) Objects() *ObjectRegistry { return b.objects }

// LinkToRemoveAssociation renders the hidden destroy input for f plus a remove
// trigger. The trigger is tagged dynamic when the bound object is not
// persisted and existing otherwise.
func (b *Builder) LinkToRemoveAssociation(f *Scope, label string, opts HTMLOptions) string {
	kind := contract.ClassDynamic
	if f.Persisted() {
		kind = contract.ClassExisting
	}

	var out strings.Builder
	out.WriteString(f.HiddenField(contract.DefaultDestroyToken, "false"))
	writeLink(&out, label, opts, []string{contract.ClassRemove, kind}, [][2]string{
		{contract.AttrFieldState, kind},
		{contract.AttrAction, contract.ActionDescriptor(b.identifier, contract.ActionRemove)},
	})
	return out.String()
}

// LinkToAddAssociation renders the inert template holding a new child block,
// indexed with the "new_<singular>" placeholder, followed by the add trigger.
func (b *Builder) LinkToAddAssociation(ctx context.Context, f *Scope, label, association string, ro RenderOptions, opts HTMLOptions) (string, error) {
	association = strings.TrimSpace(association)
	if association == "" {
		return "", ErrAssociationRequired
	}
	if (ro.DiscriminatorField == "") != (ro.DiscriminatorValue == "") {
		return "", fmt.Errorf("%w (association %q)", ErrIncompleteDiscriminator, association)
	}

	singular := flect.Singularize(association)
	plural := flect.Pluralize(association)

	object := b.newObject(association, f.Object(), ro)
	templateID := strings.TrimSpace(ro.TemplateID)
	if templateID == "" {
		model := ModelName(object)
		if model == "" {
			model = flect.Underscore(singular)
		}
		templateID = model + "_fields_template"
	}

	content, err := b.RenderAssociation(ctx, f, association, object, contract.Sentinel(singular), ro)
	if err != nil {
		return "", err
	}

	var out strings.Builder
	out.WriteString(`<template id="`)
	out.WriteString(html.EscapeString(templateID))
	out.WriteString(`" `)
	out.WriteString(contract.TargetAttr(b.identifier))
	out.WriteString(`="`)
	out.WriteString(contract.TargetTemplate)
	out.WriteString(`"`)
	if ro.DiscriminatorField != "" {
		writeAttr(&out, contract.AttrDiscriminatorField, ro.DiscriminatorField)
		writeAttr(&out, contract.AttrDiscriminatorValue, ro.DiscriminatorValue)
	}
	out.WriteString(`>`)
	out.WriteString(content)
	out.WriteString(`</template>`)

	data := [][2]string{
		{contract.AttrAssociation, singular},
		{contract.AttrAssociations, plural},
		{contract.AttrAction, contract.ActionDescriptor(b.identifier, contract.ActionAdd)},
	}
	if ro.TemplateID != "" {
		data = append(data, [2]string{contract.AttrTemplateID, templateID})
	}
	writeLink(&out, label, opts, []string{contract.ClassAdd}, data)

	b.logger.Debug("builder: rendered add trigger",
		slog.String("association", association),
		slog.String("template_id", templateID),
	)
	return out.String(), nil
}

// RenderAssociation renders one block of association for object at index,
// through ro.Component when set and the partial otherwise.
func (b *Builder) RenderAssociation(ctx context.Context, f *Scope, association string, object any, index string, ro RenderOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	child := f.FieldsFor(association, object, index)
	removeLink := func(label string) string {
		return b.LinkToRemoveAssociation(child, label, nil)
	}

	if ro.Component != nil {
		out, err := ro.Component.Render(ctx, ComponentData{
			Scope:       child,
			Object:      object,
			Association: association,
			Locals:      maps.Clone(ro.Locals),
			RemoveLink:  removeLink,
		})
		if err != nil {
			return "", fmt.Errorf("builder: render component for %q: %w", association, err)
		}
		return out, nil
	}

	if b.renderer == nil {
		return "", ErrNoRenderer
	}
	partial := strings.TrimSpace(ro.Partial)
	if partial == "" {
		partial = flect.Singularize(association) + "_fields"
	}

	payload := make(map[string]any, len(ro.Locals)+4)
	maps.Copy(payload, ro.Locals)
	payload["f"] = child
	payload["object"] = object
	payload["association"] = association
	payload["remove_link"] = removeLink

	out, err := b.renderer.RenderTemplate(partial, payload)
	if err != nil {
		return "", fmt.Errorf("builder: render partial %q: %w", partial, err)
	}
	return out, nil
}

// FieldsFor renders the blocks of existing children, indexed from 0. A hidden
// id input follows each persisted child.
func (b *Builder) FieldsFor(ctx context.Context, f *Scope, association string, children []any, ro RenderOptions) (string, error) {
	association = strings.TrimSpace(association)
	if association == "" {
		return "", ErrAssociationRequired
	}
	var out strings.Builder
	for i, child := range children {
		index := strconv.Itoa(i)
		block, err := b.RenderAssociation(ctx, f, association, child, index, ro)
		if err != nil {
			return "", err
		}
		out.WriteString(block)
		if IsPersisted(child) {
			out.WriteString(f.FieldsFor(association, child, index).HiddenField("id"))
		}
	}
	return out.String(), nil
}

func (b *Builder) newObject(association string, parent any, ro RenderOptions) any {
	var object any
	if ro.BuildObject != nil {
		object = ro.BuildObject(parent)
	} else if built, ok := b.objects.Build(association, parent); ok {
		object = built
	}
	if object == nil {
		object = map[string]any{}
	}
	for _, key := range slices.Sorted(maps.Keys(ro.ObjectParams)) {
		if !WriteAttribute(object, key, ro.ObjectParams[key]) {
			b.logger.Debug("builder: ignored object param",
				slog.String("association", association),
				slog.String("param", key),
			)
		}
	}
	return object
}

func writeLink(out *strings.Builder, label string, opts HTMLOptions, classes []string, data [][2]string) {
	if extra := strings.TrimSpace(opts["class"]); extra != "" {
		classes = append([]string{extra}, classes...)
	}
	out.WriteString(`<a href=""`)
	writeAttr(out, "class", strings.Join(classes, " "))
	for _, kv := range data {
		writeAttr(out, kv[0], kv[1])
	}
	for _, key := range slices.Sorted(maps.Keys(opts)) {
		if key == "class" || key == "href" || strings.TrimSpace(key) == "" {
			continue
		}
		writeAttr(out, key, opts[key])
	}
	out.WriteString(`>`)
	out.WriteString(sanitizeLabel(label))
	out.WriteString(`</a>`)
}

func writeAttr(out *strings.Builder, key, value string) {
	out.WriteString(" ")
	out.WriteString(key)
	out.WriteString(`="`)
	out.WriteString(html.EscapeString(value))
	out.WriteString(`"`)
}
