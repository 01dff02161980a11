// Package submission reads nested association collections back out of a
// submitted form, the server side counterpart of the markup builder.
package submission

import (
	"errors"
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/goliatone/go-nestedform/pkg/contract"
)

// ErrUnsubstitutedIndex reports a submitted field whose index still carries
// the template placeholder.
var ErrUnsubstitutedIndex = errors.New("submission: index still carries the template placeholder")

// Entry is one submitted child of an association.
type Entry struct {
	Index string
	// Attributes maps attribute paths to values. Nested collections use dotted
	// paths ("checks_attributes.0.label").
	Attributes map[string]string
	Destroy    bool
}

// ID returns the submitted id attribute, empty for new children.
func (e Entry) ID() string {
	return e.Attributes["id"]
}

// Persisted reports whether the entry refers to a saved record.
func (e Entry) Persisted() bool {
	return e.ID() != ""
}

// Option configures Parse.
type Option func(*config)

type config struct {
	destroyToken string
}

// WithDestroyToken overrides the attribute read as the destroy marker.
func WithDestroyToken(token string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(token); trimmed != "" {
			cfg.destroyToken = trimmed
		}
	}
}

// Parse collects the entries submitted for parent[<association>_attributes].
// Entries are ordered by numeric index; non numeric indices sort after them.
// When a field repeats, its last value wins.
func Parse(values url.Values, parent, association string, options ...Option) ([]Entry, error) {
	cfg := config{destroyToken: contract.DefaultDestroyToken}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	association = strings.TrimSpace(association)
	if association == "" {
		return nil, errors.New("submission: association is required")
	}
	if !strings.HasSuffix(association, "_attributes") {
		association += "_attributes"
	}
	prefix := association + "["
	if parent = strings.TrimSpace(parent); parent != "" {
		prefix = parent + "[" + association + "]["
	}

	byIndex := make(map[string]*Entry)
	for _, key := range slices.Sorted(maps.Keys(values)) {
		rest, ok := strings.CutPrefix(key, prefix)
		if !ok {
			continue
		}
		index, tail, ok := strings.Cut(rest, "]")
		if !ok || index == "" {
			continue
		}
		if strings.HasPrefix(index, contract.SentinelPrefix) {
			return nil, fmt.Errorf("%w: %s", ErrUnsubstitutedIndex, key)
		}
		path := attributePath(tail)
		if path == "" {
			continue
		}
		submitted := values[key]
		if len(submitted) == 0 {
			continue
		}
		value := submitted[len(submitted)-1]

		entry, ok := byIndex[index]
		if !ok {
			entry = &Entry{Index: index, Attributes: make(map[string]string)}
			byIndex[index] = entry
		}
		if path == cfg.destroyToken {
			entry.Destroy = truthy(value)
			continue
		}
		entry.Attributes[path] = value
	}

	entries := make([]Entry, 0, len(byIndex))
	for _, entry := range byIndex {
		entries = append(entries, *entry)
	}
	slices.SortFunc(entries, func(a, b Entry) int {
		return compareIndex(a.Index, b.Index)
	})
	return entries, nil
}

// Partition splits entries into records to create, update and destroy. New
// entries marked for destruction are dropped.
func Partition(entries []Entry) (create, update, destroy []Entry) {
	for _, entry := range entries {
		switch {
		case entry.Destroy && entry.Persisted():
			destroy = append(destroy, entry)
		case entry.Destroy:
			// never saved, nothing to delete
		case entry.Persisted():
			update = append(update, entry)
		default:
			create = append(create, entry)
		}
	}
	return create, update, destroy
}

func attributePath(tail string) string {
	replacer := strings.NewReplacer("[", ".", "]", "")
	clean := strings.Trim(replacer.Replace(tail), ".")
	if clean == "" {
		return ""
	}
	parts := strings.FieldsFunc(clean, func(r rune) bool { return r == '.' })
	return strings.Join(parts, ".")
}

func compareIndex(a, b string) int {
	ai, aerr := strconv.ParseInt(a, 10, 64)
	bi, berr := strconv.ParseInt(b, 10, 64)
	switch {
	case aerr == nil && berr == nil:
		switch {
		case ai < bi:
			return -1
		case ai > bi:
			return 1
		}
		return 0
	case aerr == nil:
		return -1
	case berr == nil:
		return 1
	}
	return strings.Compare(a, b)
}

func truthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "on":
		return true
	}
	return false
}
