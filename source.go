package formcheck

import (
	"fmt"
)

///////////////////////////////////////////////////////////////////////////////
// Value Sources
///////////////////////////////////////////////////////////////////////////////

// ValueSource supplies the current value of a field. The form validator asks
// for each field's value once per validation call.
//
// A value the source cannot supply is reported as an error wrapping
// ErrValueNotFound; the form validator turns it into a *ConfigurationError.
//
// # The following are implemented by default:
//   - MapSource: values from a map[string]string.
//   - JSONSource: values at gjson paths of a JSON document.
//   - HTTPRequestSource: values from the form, query, headers, cookies or
//     JSON body of an *http.Request, see HTTPBindings.
//   - StructSource: values of `form` tagged struct fields.
type ValueSource interface {
	Value(field string) (string, error)
}

// Binder reports whether a value source exists for a field. The form
// validator checks every configured field against its Binder once, when it
// is built.
type Binder interface {
	Binds(field string) bool
}

// BoundSource is a value source that also describes its own bindings.
type BoundSource interface {
	Binder
	ValueSource
}

// FieldSet is a Binder for a fixed set of field names, for callers whose
// values only arrive later, e.g. per HTTP request.
type FieldSet []string

func (fs FieldSet) Binds(field string) bool {
	for _, name := range fs {
		if name == field {
			return true
		}
	}
	return false
}

// MapSource serves values from a map. Every key present in the map is bound.
type MapSource map[string]string

func (ms MapSource) Binds(field string) bool {
	_, ok := ms[field]
	return ok
}

func (ms MapSource) Value(field string) (string, error) {
	value, ok := ms[field]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrValueNotFound, field)
	}
	return value, nil
}

var (
	_ BoundSource = MapSource(nil)
	_ Binder      = FieldSet(nil)
)
