package builder

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gobuffalo/flect"
)

// Persister reports whether an object has already been saved.
type Persister interface {
	Persisted() bool
}

// AttributeReader exposes named attributes of an object.
type AttributeReader interface {
	Attribute(name string) (any, bool)
}

// AttributeWriter assigns named attributes. It returns false for attributes
// the object does not have.
type AttributeWriter interface {
	SetAttribute(name string, value any) bool
}

// ModelNamer overrides the model name derived from an object's type.
type ModelNamer interface {
	ModelName() string
}

// IsPersisted reports whether obj represents a saved record: a Persister says
// so, or it carries a non-zero id attribute.
func IsPersisted(obj any) bool {
	if obj == nil {
		return false
	}
	if p, ok := obj.(Persister); ok {
		return p.Persisted()
	}
	id, ok := ReadAttribute(obj, "id")
	if !ok || id == nil {
		return false
	}
	rv := reflect.ValueOf(id)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return false
		}
		rv = rv.Elem()
	}
	return !rv.IsZero()
}

// ReadAttribute returns the attribute name of obj. Maps are read by key;
// structs by json tag or by field name ignoring case and underscores.
func ReadAttribute(obj any, name string) (any, bool) {
	switch v := obj.(type) {
	case nil:
		return nil, false
	case AttributeReader:
		return v.Attribute(name)
	case map[string]any:
		value, ok := v[name]
		return value, ok
	case map[string]string:
		value, ok := v[name]
		return value, ok
	}

	rv := reflect.ValueOf(obj)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, false
	}
	field, ok := structField(rv, name)
	if !ok {
		return nil, false
	}
	return field.Interface(), true
}

// WriteAttribute assigns value to the attribute name of obj. Struct fields are
// only writable through a pointer. Values are converted when the types allow.
func WriteAttribute(obj any, name string, value any) bool {
	switch v := obj.(type) {
	case nil:
		return false
	case AttributeWriter:
		return v.SetAttribute(name, value)
	case map[string]any:
		v[name] = value
		return true
	case map[string]string:
		v[name] = fmt.Sprint(value)
		return true
	}

	rv := reflect.ValueOf(obj)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return false
	}
	rv = rv.Elem()
	if rv.Kind() != reflect.Struct {
		return false
	}
	field, ok := structField(rv, name)
	if !ok || !field.CanSet() {
		return false
	}
	if value == nil {
		field.Set(reflect.Zero(field.Type()))
		return true
	}
	in := reflect.ValueOf(value)
	switch {
	case in.Type().AssignableTo(field.Type()):
		field.Set(in)
	case in.Type().ConvertibleTo(field.Type()) && in.Kind() != reflect.String && field.Kind() != reflect.String:
		field.Set(in.Convert(field.Type()))
	case field.Kind() == reflect.String:
		field.SetString(fmt.Sprint(value))
	default:
		return false
	}
	return true
}

// ModelName returns the underscored model name of obj ("urgent_task" for an
// UrgentTask struct). Maps and other unnamed values yield "".
func ModelName(obj any) string {
	if obj == nil {
		return ""
	}
	if namer, ok := obj.(ModelNamer); ok {
		return strings.TrimSpace(namer.ModelName())
	}
	rt := reflect.TypeOf(obj)
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt.Kind() != reflect.Struct || rt.Name() == "" {
		return ""
	}
	return flect.Underscore(rt.Name())
}

func structField(rv reflect.Value, name string) (reflect.Value, bool) {
	rt := rv.Type()
	normalized := strings.ReplaceAll(name, "_", "")
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		if tag, _, _ := strings.Cut(sf.Tag.Get("json"), ","); tag != "" && tag != "-" {
			if tag == name {
				return rv.Field(i), true
			}
			continue
		}
		if strings.EqualFold(sf.Name, normalized) {
			return rv.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// ObjectFactory builds a new child object for an association. parent is the
// object bound to the enclosing form scope and may be nil.
type ObjectFactory func(parent any) any

// ObjectRegistry maps association names to the factories that build their
// children. Lookups accept singular or plural names.
type ObjectRegistry struct {
	mu        sync.RWMutex
	factories map[string]ObjectFactory
}

// NewObjectRegistry creates an empty registry.
func NewObjectRegistry() *ObjectRegistry {
	return &ObjectRegistry{factories: make(map[string]ObjectFactory)}
}

// Register associates a factory with an association. Existing entries are
// replaced.
func (r *ObjectRegistry) Register(association string, factory ObjectFactory) error {
	key := registryKey(association)
	if key == "" {
		return fmt.Errorf("builder: association name is required")
	}
	if factory == nil {
		return fmt.Errorf("builder: factory for %q is nil", association)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[key] = factory
	return nil
}

// MustRegister is like Register but panics on error.
func (r *ObjectRegistry) MustRegister(association string, factory ObjectFactory) {
	if err := r.Register(association, factory); err != nil {
		panic(err)
	}
}

// Lookup returns the factory registered for association.
func (r *ObjectRegistry) Lookup(association string) (ObjectFactory, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	factory, ok := r.factories[registryKey(association)]
	return factory, ok
}

// Build runs the factory registered for association.
func (r *ObjectRegistry) Build(association string, parent any) (any, bool) {
	factory, ok := r.Lookup(association)
	if !ok {
		return nil, false
	}
	return factory(parent), true
}

func registryKey(association string) string {
	trimmed := strings.TrimSpace(association)
	if trimmed == "" {
		return ""
	}
	return flect.Pluralize(flect.Underscore(trimmed))
}
