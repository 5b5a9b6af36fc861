package formcheck

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/rs/zerolog"
)

// FormValidator validates a set of named fields. Fields are registered once,
// at construction, and validated in registration order. Every field is
// always validated, so a caller gets the complete report in one call.
//
// A FormValidator is read-only after construction and safe for concurrent
// use; each call builds its own results.
type FormValidator struct {
	fields []*FieldValidator
	index  map[string]*FieldValidator
	sink   ErrorSink
	logger zerolog.Logger
}

// Option configures a FormValidator.
type Option func(*FormValidator)

// WithSink pushes every field result to sink as it is produced.
func WithSink(sink ErrorSink) Option {
	return func(fv *FormValidator) {
		if sink != nil {
			fv.sink = sink
		}
	}
}

// WithLogger logs results at debug level and configuration errors at warn
// level. The default logger discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(fv *FormValidator) { fv.logger = logger }
}

// NewFormValidator registers specs, in order, against binder. It returns a
// *SetupError for every field that is malformed, registered twice, or not
// bound by binder, joined into one error.
func NewFormValidator(binder Binder, specs []FieldSpec, opts ...Option) (*FormValidator, error) {
	if binder == nil {
		return nil, &SetupError{Err: ErrNilBinder}
	}

	form := &FormValidator{
		fields: make([]*FieldValidator, 0, len(specs)),
		index:  make(map[string]*FieldValidator, len(specs)),
		sink:   nopSink{},
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(form)
	}

	var errs []error
	for _, spec := range specs {
		if err := form.register(binder, spec); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return form, nil
}

func (form *FormValidator) register(binder Binder, spec FieldSpec) error {
	if spec.Name == "" {
		return &SetupError{Err: ErrEmptyFieldName}
	}
	if _, exists := form.index[spec.Name]; exists {
		return &SetupError{Field: spec.Name, Err: ErrFieldRegistered}
	}
	if !binder.Binds(spec.Name) {
		return &SetupError{Field: spec.Name, Err: ErrNoValueSource}
	}

	field, err := NewFieldValidator(spec)
	if err != nil {
		return &SetupError{Field: spec.Name, Err: err}
	}

	form.fields = append(form.fields, field)
	form.index[spec.Name] = field
	return nil
}

// Fields returns the registered field names in registration order.
func (form *FormValidator) Fields() []string {
	names := make([]string, len(form.fields))
	for i, field := range form.fields {
		names[i] = field.Name()
	}
	return names
}

// Field returns the validator registered for name.
func (form *FormValidator) Field(name string) (*FieldValidator, bool) {
	field, ok := form.index[name]
	return field, ok
}

// ValidateField validates one field against value, e.g. after the field
// changed. An unregistered name is a *ConfigurationError.
func (form *FormValidator) ValidateField(name, value string) (ValidationResult, error) {
	field, ok := form.index[name]
	if !ok {
		err := configError("validate field", name, ErrUnknownField)
		form.logger.Warn().Err(err).Str("field", name).Msg("validation aborted")
		return ValidationResult{}, err
	}
	return form.validate(field, value)
}

// ValidateSourceField validates one field with its current value in src.
func (form *FormValidator) ValidateSourceField(name string, src ValueSource) (ValidationResult, error) {
	field, ok := form.index[name]
	if !ok {
		err := configError("validate field", name, ErrUnknownField)
		form.logger.Warn().Err(err).Str("field", name).Msg("validation aborted")
		return ValidationResult{}, err
	}

	value, err := form.lookup(src, name)
	if err != nil {
		return ValidationResult{}, err
	}
	return form.validate(field, value)
}

// ValidateForm validates every registered field with its value in values.
// A registered field missing from values is a *ConfigurationError.
func (form *FormValidator) ValidateForm(values map[string]string) (FormResult, error) {
	return form.ValidateSource(MapSource(values))
}

// ValidateSource validates every registered field, in registration order,
// reading each value from src once. Invalid fields never stop the sweep; a
// *ConfigurationError does.
func (form *FormValidator) ValidateSource(src ValueSource) (FormResult, error) {
	results := make(map[string]ValidationResult, len(form.fields))
	valid := make([]bool, 0, len(form.fields))

	for _, field := range form.fields {
		value, err := form.lookup(src, field.Name())
		if err != nil {
			return FormResult{}, err
		}

		result, err := form.validate(field, value)
		if err != nil {
			return FormResult{}, err
		}

		results[field.Name()] = result
		valid = append(valid, result.Valid())
	}

	fr := FormResult{
		order:   form.Fields(),
		results: results,
		valid:   all(valid),
	}

	form.logger.Debug().
		Bool("valid", fr.valid).
		Int("fields", len(fr.order)).
		Msg("form validated")

	return fr, nil
}

func (form *FormValidator) lookup(src ValueSource, name string) (string, error) {
	if src == nil {
		err := configError("value", name, ErrNoValueSource)
		form.logger.Warn().Err(err).Str("field", name).Msg("validation aborted")
		return "", err
	}

	value, err := src.Value(name)
	if err != nil {
		var ce *ConfigurationError
		if !errors.As(err, &ce) {
			err = configError("value", name, err)
		}
		form.logger.Warn().Err(err).Str("field", name).Msg("validation aborted")
		return "", err
	}
	return value, nil
}

func (form *FormValidator) validate(field *FieldValidator, value string) (ValidationResult, error) {
	result, err := field.Validate(value)
	if err != nil {
		form.logger.Warn().Err(err).Str("field", field.Name()).Msg("validation aborted")
		return ValidationResult{}, err
	}

	form.logger.Debug().
		Str("field", result.Field()).
		Bool("valid", result.Valid()).
		Strs("messages", result.messages).
		Msg("field validated")

	form.sink.Render(result)
	return result, nil
}

///////////////////////////////////////////////////////////////////////////////
// FormResult
///////////////////////////////////////////////////////////////////////////////

// FormResult holds one ValidationResult per registered field. It is valid
// only when every field is.
type FormResult struct {
	order   []string
	results map[string]ValidationResult
	valid   bool
}

func (fr FormResult) Valid() bool { return fr.valid }

// Field returns the result for the named field.
func (fr FormResult) Field(name string) (ValidationResult, bool) {
	result, ok := fr.results[name]
	return result, ok
}

// Fields returns the field names in registration order.
func (fr FormResult) Fields() []string { return slices.Clone(fr.order) }

// Results returns the field results in registration order.
func (fr FormResult) Results() []ValidationResult {
	out := make([]ValidationResult, 0, len(fr.order))
	for _, name := range fr.order {
		out = append(out, fr.results[name])
	}
	return out
}

// Invalid returns the results of the fields that failed, in registration
// order.
func (fr FormResult) Invalid() []ValidationResult {
	var out []ValidationResult
	for _, name := range fr.order {
		if result := fr.results[name]; !result.Valid() {
			out = append(out, result)
		}
	}
	return out
}

// Messages maps every field to its messages.
func (fr FormResult) Messages() map[string][]string {
	out := make(map[string][]string, len(fr.results))
	for name, result := range fr.results {
		out[name] = result.Messages()
	}
	return out
}

func (fr FormResult) String() string {
	if fr.valid {
		return fmt.Sprintf("form valid (%d fields)", len(fr.order))
	}
	return fmt.Sprintf("form invalid (%d of %d fields failed)", len(fr.Invalid()), len(fr.order))
}

type validationResultJSON struct {
	Field    string   `json:"field"`
	Valid    bool     `json:"valid"`
	Messages []string `json:"messages"`
}

func (vr ValidationResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(validationResultJSON{
		Field:    vr.field,
		Valid:    vr.Valid(),
		Messages: vr.Messages(),
	})
}

func (vr *ValidationResult) UnmarshalJSON(data []byte) error {
	var raw validationResultJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*vr = newValidationResult(raw.Field, raw.Messages)
	return nil
}

func (fr FormResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Valid  bool                        `json:"valid"`
		Order  []string                    `json:"order"`
		Fields map[string]ValidationResult `json:"fields"`
	}{
		Valid:  fr.valid,
		Order:  fr.Fields(),
		Fields: fr.results,
	})
}
