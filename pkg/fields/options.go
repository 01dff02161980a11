package fields

import (
	"io"
	"log/slog"
	"strings"

	"github.com/goliatone/go-nestedform/pkg/contract"
)

// Option configures a Controller.
type Option func(*config)

type config struct {
	identifier   string
	fieldClass   string
	destroyToken string
	destroyValue string
	ids          IDSource
	logger       *slog.Logger
}

func defaultConfig() config {
	return config{
		identifier:   contract.DefaultIdentifier,
		destroyToken: contract.DefaultDestroyToken,
		destroyValue: contract.DefaultDestroyValue,
	}
}

// WithIdentifier sets the controller identifier used in data-controller,
// data-action and target attributes.
func WithIdentifier(identifier string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(identifier); trimmed != "" {
			cfg.identifier = trimmed
		}
	}
}

// WithFieldClass names the class of the element wrapping each field block.
// Without it the remove trigger's parent is taken as the block, unless the
// controller scope declares a field class value.
func WithFieldClass(class string) Option {
	return func(cfg *config) {
		cfg.fieldClass = strings.TrimSpace(class)
	}
}

// WithDestroyToken overrides the substring identifying the destroy input.
func WithDestroyToken(token string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(token); trimmed != "" {
			cfg.destroyToken = trimmed
		}
	}
}

// WithDestroyValue overrides the value written into the destroy input.
func WithDestroyValue(value string) Option {
	return func(cfg *config) {
		if value != "" {
			cfg.destroyValue = value
		}
	}
}

// WithIDSource injects the fresh identifier source. Defaults to a ClockSource.
func WithIDSource(source IDSource) Option {
	return func(cfg *config) {
		if source != nil {
			cfg.ids = source
		}
	}
}

// WithLogger routes configuration errors and diagnostics to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
