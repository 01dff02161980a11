// Package contract holds the attribute names and tokens shared between the
// markup builder and the field controller. The two sides never call each other;
// they agree only on what is written into the HTML.
package contract

const (
	// DefaultIdentifier is the controller identifier used in data-controller,
	// data-action and target attributes when callers do not pick their own.
	DefaultIdentifier = "nested-form"

	AttrController = "data-controller"
	AttrAction     = "data-action"

	AttrAssociation  = "data-association"
	AttrAssociations = "data-associations"
	AttrTemplateID   = "data-template-id"

	AttrDiscriminatorField = "data-discriminator-field"
	AttrDiscriminatorValue = "data-discriminator-value"

	// AttrFieldState carries the explicit block kind ("dynamic" or "existing").
	AttrFieldState = "data-field-state"
	// AttrFieldClass is the identifier-free spelling of the field wrapper class value.
	AttrFieldClass = "data-field-class"

	ClassDynamic  = "dynamic"
	ClassExisting = "existing"
	ClassAdd      = "add_fields"
	ClassRemove   = "remove_fields"

	TargetTemplate          = "template"
	TargetFieldContain      = "fieldContain"
	TargetFieldContainAlias = "field-contain"

	ActionAdd    = "addField"
	ActionRemove = "removeField"

	DefaultDestroyToken = "_destroy"
	DefaultDestroyValue = "1"

	SentinelPrefix = "new_"
)

// Sentinel returns the placeholder index for an association name, e.g.
// "new_task". An empty name has no sentinel.
func Sentinel(association string) string {
	if association == "" {
		return ""
	}
	return SentinelPrefix + association
}

// TargetAttr returns the target attribute for a controller identifier.
func TargetAttr(identifier string) string {
	return "data-" + identifier + "-target"
}

// FieldClassValueAttr returns the value attribute naming the field wrapper class.
func FieldClassValueAttr(identifier string) string {
	return "data-" + identifier + "-field-class-value"
}

// ActionDescriptor returns a click action descriptor such as
// "click->nested-form#addField".
func ActionDescriptor(identifier, method string) string {
	return "click->" + identifier + "#" + method
}
