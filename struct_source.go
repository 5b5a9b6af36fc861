package formcheck

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotAStruct          = errors.New("source must be a struct or a non-nil pointer to a struct")
	ErrUnsupportedType     = errors.New("unsupported field type")
	ErrDuplicateStructName = errors.New("form name is used by more than one struct field")
)

// StructSource serves the values of exported struct fields tagged with
// `form:"<name>"`. Fields tagged "-" or untagged are ignored; embedded
// structs are searched too.
//
// Built from a pointer, the source reads the fields' current values on every
// call, so the struct may change between validations.
//
// Currently supports:
//   - string
//   - signed and unsigned integers
//   - float32, float64
//   - bool
//   - []byte (as raw text)
//   - uuid.UUID
//   - time.Time (RFC 3339)
//   - encoding.TextMarshaler and fmt.Stringer implementations
//   - pointers to any of the above; a nil pointer has no value
type StructSource struct {
	value  reflect.Value
	fields map[string][]int // form name -> field index path
}

func NewStructSource(v any) (*StructSource, error) {
	value := reflect.ValueOf(v)
	if value.Kind() == reflect.Ptr {
		if value.IsNil() {
			return nil, ErrNotAStruct
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w, got %T", ErrNotAStruct, v)
	}

	fields := make(map[string][]int)
	if err := collectFormFields(value.Type(), nil, fields); err != nil {
		return nil, err
	}

	return &StructSource{value: value, fields: fields}, nil
}

// collectFormFields records the index path of every tagged field of t.
func collectFormFields(t reflect.Type, prefix []int, fields map[string][]int) error {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		index := append(append([]int(nil), prefix...), i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct && !isSpecialStructType(field.Type) {
			if _, tagged := field.Tag.Lookup(StructSourceTag); !tagged {
				if err := collectFormFields(field.Type, index, fields); err != nil {
					return err
				}
				continue
			}
		}

		if !field.IsExported() {
			continue
		}

		tag, ok := field.Tag.Lookup(StructSourceTag)
		if !ok {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = field.Name
		}

		if _, exists := fields[name]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateStructName, name)
		}
		fields[name] = index
	}
	return nil
}

func (ss *StructSource) Binds(field string) bool {
	_, ok := ss.fields[field]
	return ok
}

// Fields returns the form names the struct provides.
func (ss *StructSource) Fields() []string {
	names := make([]string, 0, len(ss.fields))
	for name := range ss.fields {
		names = append(names, name)
	}
	return names
}

func (ss *StructSource) Value(field string) (string, error) {
	index, ok := ss.fields[field]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrValueNotFound, field)
	}

	value, err := ss.value.FieldByIndexErr(index)
	if err != nil {
		// nil embedded pointer on the path
		return "", fmt.Errorf("%w: %s", ErrValueNotFound, field)
	}

	s, found, err := formatFieldValue(value)
	if err != nil {
		return "", fmt.Errorf("field %s: %w", field, err)
	}
	if !found {
		return "", fmt.Errorf("%w: %s", ErrValueNotFound, field)
	}
	return s, nil
}

// formatFieldValue converts a field value to its string form. found is false
// for nil pointers and interfaces.
func formatFieldValue(field reflect.Value) (string, bool, error) {
	for field.Kind() == reflect.Ptr || field.Kind() == reflect.Interface {
		if field.IsNil() {
			return "", false, nil
		}
		field = field.Elem()
	}

	if field.CanInterface() {
		switch v := field.Interface().(type) {
		case uuid.UUID:
			return v.String(), true, nil
		case time.Time:
			return v.Format(time.RFC3339), true, nil
		case encoding.TextMarshaler:
			text, err := v.MarshalText()
			if err != nil {
				return "", false, fmt.Errorf("error marshaling value to text: %w", err)
			}
			return string(text), true, nil
		case fmt.Stringer:
			return v.String(), true, nil
		}
	}

	switch field.Kind() {
	case reflect.String:
		return field.String(), true, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(field.Int(), 10), true, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(field.Uint(), 10), true, nil
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(field.Float(), 'f', -1, field.Type().Bits()), true, nil
	case reflect.Bool:
		return strconv.FormatBool(field.Bool()), true, nil
	case reflect.Slice:
		if field.Type().Elem().Kind() == reflect.Uint8 {
			return string(field.Bytes()), true, nil
		}
	}

	return "", false, fmt.Errorf("%w: %s", ErrUnsupportedType, field.Type())
}

// isSpecialStructType checks if a struct type should be treated as a primitive
// rather than being searched for fields. Special types include time.Time,
// uuid.UUID.
func isSpecialStructType(t reflect.Type) bool {
	return t == TimeType || t == UUIDType
}

var _ BoundSource = (*StructSource)(nil)
