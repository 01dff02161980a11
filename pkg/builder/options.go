package builder

import (
	"io"
	"log/slog"
	"strings"

	"github.com/goliatone/go-nestedform/pkg/contract"
	"github.com/goliatone/go-nestedform/pkg/render/template"
)

// Option configures a Builder.
type Option func(*config)

type config struct {
	identifier string
	renderer   template.TemplateRenderer
	objects    *ObjectRegistry
	logger     *slog.Logger
}

// WithIdentifier sets the controller identifier written into targets and
// actions. Defaults to "nested-form".
func WithIdentifier(identifier string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(identifier); trimmed != "" {
			cfg.identifier = trimmed
		}
	}
}

// WithRenderer sets the engine used for partials.
func WithRenderer(renderer template.TemplateRenderer) Option {
	return func(cfg *config) {
		cfg.renderer = renderer
	}
}

// WithObjects sets the registry used to build new child objects.
func WithObjects(registry *ObjectRegistry) Option {
	return func(cfg *config) {
		cfg.objects = registry
	}
}

// WithLogger sets the logger. Defaults to a discarding logger.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

func defaultConfig() config {
	return config{
		identifier: contract.DefaultIdentifier,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// RenderOptions controls how an association's template block is rendered.
type RenderOptions struct {
	// Partial names the partial; defaults to "<singular>_fields".
	Partial string
	// Component renders the block in Go instead of a partial.
	Component Component
	// Locals are extra values passed to the partial or component.
	Locals map[string]any
	// BuildObject constructs the new child from the parent object.
	BuildObject ObjectFactory
	// ObjectParams are assigned to the new child; unknown keys are ignored.
	ObjectParams map[string]any

	DiscriminatorField string
	DiscriminatorValue string

	// TemplateID replaces the default "<model>_fields_template" id.
	TemplateID string
}

// HTMLOptions are extra attributes for a trigger link. A class entry is
// merged with the classes the builder adds.
type HTMLOptions map[string]string
