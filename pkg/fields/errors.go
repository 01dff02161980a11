package fields

import "errors"

var (
	ErrNoTrigger              = errors.New("event has no target")
	ErrScopeNotFound          = errors.New("no controller scope encloses the trigger")
	ErrAssociationNotFound    = errors.New("no element declares data-association or data-associations")
	ErrTemplateNotFound       = errors.New("template element not found")
	ErrFieldContainerNotFound = errors.New("field container target not found")
	ErrBlockNotFound          = errors.New("field block not found")
	ErrDestroyInputNotFound   = errors.New("existing block has no destroy input")
	ErrUnknownAction          = errors.New("unknown controller action")
)

// ConfigError reports a mismatch between the markup and what the controller
// expects. These are developer errors: the page was rendered without
// something the controller needs.
type ConfigError struct {
	Op     string
	Detail string
	Err    error
}

func (e *ConfigError) Error() string {
	msg := "fields: " + e.Op
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

func (e *ConfigError) Unwrap() error { return e.Err }
