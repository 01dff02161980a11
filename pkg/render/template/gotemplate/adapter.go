package gotemplate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"reflect"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	"github.com/gobuffalo/flect"

	"github.com/goliatone/go-nestedform/pkg/render/template"
)

// Extension is appended to partial names before lookup.
const Extension = ".tpl"

// ErrNoPartials is returned by New when no filesystem was supplied.
var ErrNoPartials = errors.New("gotemplate: no partial filesystem configured")

// Option configures the pongo2 adapter before construction.
type Option func(*config)

type config struct {
	sources []fs.FS
}

// WithFS adds a filesystem to look partials up in. Filesystems are searched in
// the order they were added, so earlier ones override later ones.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.sources = append(cfg.sources, files)
		}
	}
}

// Engine renders association partials with a pongo2 template set. Parsed
// partials are cached by name.
type Engine struct {
	set *pongo2.TemplateSet

	mu    sync.RWMutex
	cache map[string]*pongo2.Template
}

var _ template.TemplateRenderer = (*Engine)(nil)

// New builds an Engine over the configured filesystems.
func New(options ...Option) (*Engine, error) {
	cfg := &config{}
	for _, opt := range options {
		if opt != nil {
			opt(cfg)
		}
	}
	if len(cfg.sources) == 0 {
		return nil, ErrNoPartials
	}

	loaders := make([]pongo2.TemplateLoader, 0, len(cfg.sources))
	for _, files := range cfg.sources {
		loaders = append(loaders, pongo2.NewFSLoader(files))
	}
	registerFilters()

	return &Engine{
		set:   pongo2.NewSet("nestedform", loaders...),
		cache: make(map[string]*pongo2.Template),
	}, nil
}

// RenderTemplate renders the partial name with data as its context.
func (e *Engine) RenderTemplate(name string, data map[string]any) (string, error) {
	if e == nil || e.set == nil {
		return "", errors.New("gotemplate: engine is nil")
	}
	tmpl, err := e.lookup(strings.TrimSuffix(name, Extension) + Extension)
	if err != nil {
		return "", err
	}
	viewContext, err := contextFor(data)
	if err != nil {
		return "", fmt.Errorf("gotemplate: convert data for %q: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(viewContext, &buf); err != nil {
		return "", fmt.Errorf("gotemplate: execute %q: %w", name, err)
	}
	return buf.String(), nil
}

func (e *Engine) lookup(path string) (*pongo2.Template, error) {
	e.mu.RLock()
	tmpl, ok := e.cache[path]
	e.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if tmpl, ok := e.cache[path]; ok {
		return tmpl, nil
	}
	tmpl, err := e.set.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("gotemplate: load partial %q: %w", path, err)
	}
	e.cache[path] = tmpl
	return tmpl, nil
}

// contextFor copies data into a pongo2 context. Pointers and functions pass
// through so a form scope keeps its Name and ID methods; other structs are
// decoded through JSON so their json tags name the fields partials read.
func contextFor(data map[string]any) (pongo2.Context, error) {
	out := make(pongo2.Context, len(data))
	for key, value := range data {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		converted, err := normalize(value)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		out[key] = converted
	}
	return out, nil
}

func normalize(value any) (any, error) {
	if value == nil || keepsIdentity(value) {
		return value, nil
	}
	if m, ok := value.(map[string]any); ok {
		return contextFor(m)
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, err
	}
	return decoded, nil
}

func keepsIdentity(value any) bool {
	switch value.(type) {
	case string, bool, int, int64, float64, *pongo2.Value:
		return true
	}
	switch reflect.ValueOf(value).Kind() {
	case reflect.Pointer, reflect.Func:
		return true
	}
	return false
}

func registerFilters() {
	if !pongo2.FilterExists("humanize") {
		_ = pongo2.RegisterFilter("humanize", filterHumanize)
	}
}

// humanize turns an attribute name into label text: "due_on" becomes "Due on".
func filterHumanize(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return pongo2.AsValue(flect.Humanize(in.String())), nil
}
