// Package template defines the renderer-agnostic contract used to render the
// partials that make up an association's fields. Concrete engines live in
// subpackages.
package template
