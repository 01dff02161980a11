// Package builder renders the server side of a nested association form: the
// blocks for existing children, the inert template a controller instantiates
// for new ones, and the add/remove triggers wired to that controller.
//
// Field names follow the fields_for convention used by Rails style backends:
//
//	project[tasks_attributes][0][title]
//	project[tasks_attributes][new_task][title]   (template sentinel)
//
// Partials are rendered through a template.TemplateRenderer; Go components can
// be used instead by setting RenderOptions.Component.
package builder
