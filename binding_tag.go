package formcheck

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Base Error types for binding tag parsing errors
var (
	ErrEmptyBindingTag            = errors.New("binding tag is empty")
	ErrUnallowedBindingName       = errors.New("binding name is not allowed")
	ErrEmptyBindingIdentifier     = errors.New("binding identifier cannot be empty")
	ErrInvalidBindingTagFormat    = errors.New("invalid binding tag format")
	ErrUnallowedBindingModifier   = errors.New("binding modifier is not allowed")
	ErrConflictingBindingModifier = errors.New("binding cannot be both required and omitempty")
	ErrUnterminatedBinding        = errors.New("unterminated binding value")
)

// This file contains the binding tag parser. A binding tag lists, in
// priority order, where a field's value is read from:
//
// Tag grammar:
//     <binding_list>
//
// binding_list:
//     [<binding>]^* // Space Separated
// binding:
//     <binding_name>:'<binding_identifier>,<binding_modifier_list>'
//     <binding_name>:<binding_identifier>   // unquoted, no modifiers
//
// binding_name, binding_identifier:
//     <string>
// binding_modifier_list:
//     [binding_modifier]^* // Delimited with ","
// binding_modifier:
//     omitempty | required
//
// Example: header:'X-User-Name,omitempty' query:'name,omitempty' json:'user.name'

// BindingTagOpts restricts what a binding tag may contain.
type BindingTagOpts struct {
	AllowedBindingNames []string // empty allows any name
}

// HTTPBindingTagOpts allows the binding names HTTPBindings understands.
var HTTPBindingTagOpts = BindingTagOpts{
	AllowedBindingNames: []string{
		FormTagBinding,
		QueryTagBinding,
		HeaderTagBinding,
		CookieTagBinding,
		JSONTagBinding,
	},
}

// ParseBindingTag parses tag into its bindings, keeping their order.
func ParseBindingTag(tag string, opts BindingTagOpts) ([]Binding, error) {
	parts, err := splitBindingTag(tag)
	if err != nil {
		return nil, err
	}
	if len(parts) == 0 {
		return nil, ErrEmptyBindingTag
	}

	bindings := make([]Binding, 0, len(parts))
	for _, part := range parts {
		binding, err := decodeBinding(part, opts)
		if err != nil {
			return nil, fmt.Errorf("error parsing binding %q: %w", part, err)
		}
		bindings = append(bindings, binding)
	}

	return bindings, nil
}

// MustParseBindingTag is like ParseBindingTag but panics on error.
func MustParseBindingTag(tag string, opts BindingTagOpts) []Binding {
	bindings, err := ParseBindingTag(tag, opts)
	if err != nil {
		panic(err)
	}
	return bindings
}

// splitBindingTag splits on whitespace outside of scope delimiters.
func splitBindingTag(tag string) ([]string, error) {
	var (
		parts   []string
		current strings.Builder
		inScope bool
	)

	flush := func() {
		if current.Len() > 0 {
			parts = append(parts, current.String())
			current.Reset()
		}
	}

	for i := 0; i < len(tag); i++ {
		c := tag[i]
		switch {
		case c == BindingScopeDelimiter:
			inScope = !inScope
			current.WriteByte(c)
		case (c == ' ' || c == '\t') && !inScope:
			flush()
		default:
			current.WriteByte(c)
		}
	}

	if inScope {
		return nil, fmt.Errorf("%w in tag: %s", ErrUnterminatedBinding, tag)
	}
	flush()

	return parts, nil
}

func decodeBinding(part string, opts BindingTagOpts) (Binding, error) {
	// Example: "query:'name,omitempty'" -> "query" as binding name
	// and "name,omitempty" as binding info
	name, info, found := strings.Cut(part, BindingKeyValueDelimiter)
	if !found || name == "" {
		return Binding{}, ErrInvalidBindingTagFormat
	}
	if len(opts.AllowedBindingNames) > 0 && !slices.Contains(opts.AllowedBindingNames, name) {
		return Binding{}, fmt.Errorf("%w: %s", ErrUnallowedBindingName, name)
	}

	fields := strings.Split(trimDelimiter(info, BindingScopeDelimiter), BindingInfoDelimiter)
	identifier := strings.TrimSpace(fields[0])
	if identifier == "" {
		return Binding{}, ErrEmptyBindingIdentifier
	}

	var omitEmpty, required bool
	for _, modifier := range fields[1:] {
		switch strings.TrimSpace(modifier) {
		case OmitEmptyBindingModifier:
			omitEmpty = true
		case RequiredBindingModifier:
			required = true
		case "":
			// trailing delimiter
		default:
			return Binding{}, fmt.Errorf("%w: %s", ErrUnallowedBindingModifier, modifier)
		}
	}
	if omitEmpty && required {
		return Binding{}, ErrConflictingBindingModifier
	}

	return Binding{
		Name:       name,
		Identifier: identifier,
		Modifiers: BindingModifiers{
			Required:  !omitEmpty,
			OmitEmpty: omitEmpty,
		},
	}, nil
}

func trimDelimiter(value string, delim byte) string {
	if len(value) > 0 && value[0] == delim {
		value = value[1:]
	}
	if len(value) > 0 && value[len(value)-1] == delim {
		value = value[:len(value)-1]
	}
	return value
}
