package builder

import "context"

// ComponentData is what a Component receives when rendering one block.
type ComponentData struct {
	Scope       *Scope
	Object      any
	Association string
	Locals      map[string]any
	// RemoveLink renders the remove trigger for the block's scope.
	RemoveLink func(label string) string
}

// Component renders the fields of one association block in Go instead of a
// partial.
type Component interface {
	Render(ctx context.Context, data ComponentData) (string, error)
}

// ComponentFunc adapts a function to Component.
type ComponentFunc func(ctx context.Context, data ComponentData) (string, error)

// Render calls f.
func (f ComponentFunc) Render(ctx context.Context, data ComponentData) (string, error) {
	return f(ctx, data)
}
