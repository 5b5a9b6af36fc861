package formcheck

import (
	"slices"
)

// FieldSpec names a field and the ordered rules it must satisfy. Order is
// the order messages are reported in; every rule always runs.
type FieldSpec struct {
	Name  string
	Rules []Rule
}

// Field is shorthand for building a FieldSpec.
func Field(name string, rules ...Rule) FieldSpec {
	return FieldSpec{Name: name, Rules: rules}
}

// ValidationResult is the outcome of validating one field. It is built fresh
// on every call and never changes afterwards.
type ValidationResult struct {
	field    string
	messages []string
}

func newValidationResult(field string, messages []string) ValidationResult {
	return ValidationResult{field: field, messages: messages}
}

func (vr ValidationResult) Field() string { return vr.field }

// Messages returns a copy of the failing rules' messages in rule order.
func (vr ValidationResult) Messages() []string {
	if len(vr.messages) == 0 {
		return []string{}
	}
	return slices.Clone(vr.messages)
}

// Valid reports whether no rule failed.
func (vr ValidationResult) Valid() bool { return len(vr.messages) == 0 }

// FieldValidator runs one field's rules. It is read-only after construction
// and safe for concurrent use.
type FieldValidator struct {
	name  string
	rules []Rule
}

// NewFieldValidator checks every rule of spec up front and returns a
// *ConfigurationError for the first malformed one.
func NewFieldValidator(spec FieldSpec) (*FieldValidator, error) {
	if spec.Name == "" {
		return nil, configError("field", "", ErrEmptyFieldName)
	}

	for _, rule := range spec.Rules {
		if err := rule.check(); err != nil {
			err.Field = spec.Name
			return nil, err
		}
	}

	return &FieldValidator{
		name:  spec.Name,
		rules: slices.Clone(spec.Rules),
	}, nil
}

func (fv *FieldValidator) Name() string { return fv.name }

// Rules returns a copy of the field's rules.
func (fv *FieldValidator) Rules() []Rule { return slices.Clone(fv.rules) }

// Validate runs every rule against value, in order, and collects the message
// of each failing rule. A failing rule never stops the ones after it. A
// *ConfigurationError from a rule aborts the call and is returned as is.
func (fv *FieldValidator) Validate(value string) (ValidationResult, error) {
	var messages []string

	for _, rule := range fv.rules {
		ok, err := rule.Evaluate(value)
		if err != nil {
			return ValidationResult{}, err
		}
		if !ok {
			messages = append(messages, rule.Message())
		}
	}

	return newValidationResult(fv.name, messages), nil
}
