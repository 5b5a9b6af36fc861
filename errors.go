package formcheck

import (
	"errors"
	"fmt"
)

///////////////////////////////////////////////////////////////////////////////
// Errors
///////////////////////////////////////////////////////////////////////////////

// Sentinels wrapped by ConfigurationError and SetupError. Use errors.Is to
// test for them.
var (
	ErrNoLengthBounds    = errors.New("length rule needs a minimum or a maximum length")
	ErrNegativeBound     = errors.New("length bound cannot be negative")
	ErrInvertedBounds    = errors.New("minimum length is greater than maximum length")
	ErrNilExpression     = errors.New("pattern rule needs a non-nil expression")
	ErrNilValue          = errors.New("value cannot be nil")
	ErrEmptyMessage      = errors.New("rule needs a failure message")
	ErrUnknownRuleKind   = errors.New("unknown rule kind")
	ErrUnknownField      = errors.New("field is not registered")
	ErrValueNotFound     = errors.New("no value found for field")
	ErrNoValueSource     = errors.New("no value source bound for field")
	ErrEmptyFieldName    = errors.New("field name cannot be empty")
	ErrFieldRegistered   = errors.New("a field with this name is already registered")
	ErrNilBinder         = errors.New("binder cannot be nil")
	ErrInvalidExpression = errors.New("expression does not compile")
)

// ConfigurationError reports a malformed rule or a missing value. It is a
// defect in the integration code, never a validation outcome, and it aborts
// the validate call that hit it.
type ConfigurationError struct {
	Op    string // operation that failed, e.g. "length"
	Field string // field being validated, empty when not known
	Err   error
}

func (ce *ConfigurationError) Error() string {
	if ce.Field == "" {
		return fmt.Sprintf("formcheck: configuration error in %s: %v", ce.Op, ce.Err)
	}
	return fmt.Sprintf("formcheck: configuration error in %s for field %q: %v", ce.Op, ce.Field, ce.Err)
}

func (ce *ConfigurationError) Unwrap() error { return ce.Err }

// SetupError reports a form that cannot be assembled, such as a field with no
// value source. It is returned once, by NewFormValidator.
type SetupError struct {
	Field string
	Err   error
}

func (se *SetupError) Error() string {
	if se.Field == "" {
		return fmt.Sprintf("formcheck: setup error: %v", se.Err)
	}
	return fmt.Sprintf("formcheck: setup error for field %q: %v", se.Field, se.Err)
}

func (se *SetupError) Unwrap() error { return se.Err }

func configError(op, field string, err error) *ConfigurationError {
	return &ConfigurationError{Op: op, Field: field, Err: err}
}

// IsConfigurationError reports whether err is or wraps a *ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// IsSetupError reports whether err is or wraps a *SetupError.
func IsSetupError(err error) bool {
	var se *SetupError
	return errors.As(err, &se)
}
