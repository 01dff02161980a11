package fields

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the file form of the controller options.
type Config struct {
	Identifier   string `json:"identifier" yaml:"identifier"`
	FieldClass   string `json:"fieldClass" yaml:"fieldClass"`
	DestroyToken string `json:"destroyToken" yaml:"destroyToken"`
	DestroyValue string `json:"destroyValue" yaml:"destroyValue"`
	IDSource     string `json:"idSource" yaml:"idSource"`
	CounterStart int64  `json:"counterStart" yaml:"counterStart"`
}

const (
	IDSourceClock   = "clock"
	IDSourceCounter = "counter"
)

// LoadConfig reads a JSON or YAML config file from fsys.
func LoadConfig(fsys fs.FS, path string) (Config, error) {
	if fsys == nil {
		return Config{}, fmt.Errorf("fields: config filesystem is nil")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return Config{}, fmt.Errorf("fields: read config %s: %w", path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig decodes JSON, falling back to YAML.
func ParseConfig(data []byte, source string) (Config, error) {
	var cfg Config
	if len(strings.TrimSpace(string(data))) == 0 {
		return Config{}, fmt.Errorf("fields: config %s is empty", source)
	}
	if err := json.Unmarshal(data, &cfg); err == nil {
		return cfg, nil
	}
	cfg = Config{}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("fields: parse config %s: invalid JSON or YAML: %w", source, err)
	}
	return cfg, nil
}

// Options converts the config into controller options. now feeds the clock
// source and may be nil.
func (c Config) Options(now func() time.Time) ([]Option, error) {
	opts := []Option{
		WithIdentifier(c.Identifier),
		WithFieldClass(c.FieldClass),
		WithDestroyToken(c.DestroyToken),
		WithDestroyValue(c.DestroyValue),
	}

	switch strings.ToLower(strings.TrimSpace(c.IDSource)) {
	case "", IDSourceClock:
		opts = append(opts, WithIDSource(NewClockSource(now)))
	case IDSourceCounter:
		opts = append(opts, WithIDSource(NewCounterSource(c.CounterStart)))
	default:
		return nil, fmt.Errorf("fields: unknown idSource %q", c.IDSource)
	}
	return opts, nil
}
