package formcheck

// Binding represents one place a field's value may be read from.
// Multiple Bindings are usually defined per field and tried in order.
type Binding struct {
	Name       string           // The part of the source, e.g. "query" or "header"
	Identifier string           // The key of the field within that part
	Modifiers  BindingModifiers // Failure and fallback behavior
}

// BindingModifiers control what happens when a binding finds no value.
type BindingModifiers struct {
	Required  bool // If true, a missing value is an error and no later binding is tried
	OmitEmpty bool // If true, an empty value counts as missing
}

// Optional reports whether the binding may find nothing without failing.
func (b Binding) Optional() bool { return !b.Modifiers.Required }

func (b Binding) String() string {
	s := b.Name + BindingKeyValueDelimiter + string(BindingScopeDelimiter) + b.Identifier
	if b.Modifiers.OmitEmpty {
		s += BindingInfoDelimiter + OmitEmptyBindingModifier
	}
	return s + string(BindingScopeDelimiter)
}
