package template

// TemplateRenderer is the seam the markup builder renders association partials
// through. name is a partial name without extension; data holds the values the
// partial sees. The pongo2 adapter in the gotemplate subpackage is the default
// implementation; callers may supply their own.
type TemplateRenderer interface {
	RenderTemplate(name string, data map[string]any) (string, error)
}
