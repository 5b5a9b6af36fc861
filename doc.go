// Package formcheck provides a declarative field validation engine for
// form-like input.
//
// A field is described by a name and an ordered list of rules. Two kinds of
// rule exist:
//   - Length: the value's length (in code points) must lie within an
//     inclusive minimum and/or maximum.
//   - Pattern: an Expression (usually a *regexp.Regexp) must match the value,
//     or, for an inverse rule, must not match it. One expression can so mean
//     "must contain this shape" or "must not contain this shape".
//
// Every rule of a field always runs, and every field of a form always runs;
// the messages of all failing rules are collected in rule order. A field is
// valid when it has no messages, a form when all of its fields are.
//
// # Errors
//
// Validation failures are results, never errors. Errors are reserved for
// defects in the setup:
//   - *ConfigurationError: a malformed rule, an unknown field, or a value the
//     value source cannot supply. It aborts the call that hit it.
//   - *SetupError: a form whose fields cannot all be bound to a value source,
//     or that registers a field twice. NewFormValidator returns it once.
//
// # Value sources and error sinks
//
// The engine reads values through a ValueSource and pushes results to an
// ErrorSink, so it never deals with how input is captured or rendered. The
// package provides sources for maps, JSON documents (via gjson), HTTP
// requests and tagged structs, and sinks that keep or print the latest
// result per field.
//
// HTTP request sources are configured with bindings that name where each
// field's value lives, tried in order:
//
//	bindings := formcheck.NewHTTPBindings()
//	_ = bindings.BindTag("email", "form:'email,omitempty' json:'contact.email'")
//
// # Rule sets
//
// Rules can be written in Go:
//
//	email := formcheck.Field("email",
//	    formcheck.MustLength("Email is too long", formcheck.MaxLength(50)),
//	    formcheck.MustPattern("Email format is incorrect", formcheck.MustCompilePattern(`@`)),
//	)
//
// or loaded from YAML or JSON documents with LoadRuleSet. ContactForm is a
// ready-made rule set for a name, email, phone and message form.
//
// # Usage
//
//	form, err := formcheck.NewFormValidator(bindings, formcheck.ContactForm())
//	if err != nil {
//	    // fix the setup
//	}
//	result, err := form.ValidateSource(bindings.Source(r))
//	if err != nil {
//	    // fix the setup
//	}
//	if !result.Valid() {
//	    for _, field := range result.Invalid() {
//	        fmt.Println(field.Field(), field.Messages())
//	    }
//	}
package formcheck
