package formcheck

import (
	"fmt"
	"strings"
)

// RuleKind identifies the constraint a Rule applies.
type RuleKind uint8

const (
	KindLength RuleKind = iota + 1
	KindPattern
)

func (k RuleKind) String() string {
	switch k {
	case KindLength:
		return LengthRuleName
	case KindPattern:
		return PatternRuleName
	default:
		return fmt.Sprintf("RuleKind(%d)", uint8(k))
	}
}

// Expression is the pattern matcher a Pattern rule tests values against.
// *regexp.Regexp satisfies it. MatchString reports whether any part of s
// matches; anchoring is up to the expression.
type Expression interface {
	MatchString(s string) bool
}

// Bound is an optional length bound.
type Bound struct {
	N   int
	Set bool
}

// BoundOf returns a present bound of n.
func BoundOf(n int) Bound { return Bound{N: n, Set: true} }

// Rule is an immutable constraint with the message reported when a value
// fails it. Build rules with Length and Pattern; the zero Rule is malformed.
type Rule struct {
	kind     RuleKind
	min, max Bound
	expr     Expression
	inverse  bool
	message  string
}

// LengthOption configures a Length rule.
type LengthOption func(*Rule)

// MinLength sets the inclusive minimum length.
func MinLength(n int) LengthOption {
	return func(r *Rule) { r.min = BoundOf(n) }
}

// MaxLength sets the inclusive maximum length.
func MaxLength(n int) LengthOption {
	return func(r *Rule) { r.max = BoundOf(n) }
}

// PatternOption configures a Pattern rule.
type PatternOption func(*Rule)

// Inverse makes a Pattern rule pass only when the expression does not match.
func Inverse() PatternOption {
	return func(r *Rule) { r.inverse = true }
}

// Invert sets the inverse flag explicitly, for callers decoding it from data.
func Invert(inverse bool) PatternOption {
	return func(r *Rule) { r.inverse = inverse }
}

// Length builds a rule bounding the value length. Both bounds are inclusive
// and, when both are given, both apply. It fails with a *ConfigurationError
// when no bound is given, a bound is negative, or min exceeds max.
func Length(message string, opts ...LengthOption) (Rule, error) {
	r := Rule{kind: KindLength, message: message}
	for _, opt := range opts {
		opt(&r)
	}

	if err := r.check(); err != nil {
		return Rule{}, err
	}
	return r, nil
}

// Pattern builds a rule that passes when expr matches the value, or when it
// does not match if Inverse is given.
func Pattern(message string, expr Expression, opts ...PatternOption) (Rule, error) {
	r := Rule{kind: KindPattern, expr: expr, message: message}
	for _, opt := range opts {
		opt(&r)
	}

	if err := r.check(); err != nil {
		return Rule{}, err
	}
	return r, nil
}

// MustLength is like Length but panics on a malformed rule. It is meant for
// package-level rule sets.
func MustLength(message string, opts ...LengthOption) Rule {
	r, err := Length(message, opts...)
	if err != nil {
		panic(err)
	}
	return r
}

// MustPattern is like Pattern but panics on a malformed rule.
func MustPattern(message string, expr Expression, opts ...PatternOption) Rule {
	r, err := Pattern(message, expr, opts...)
	if err != nil {
		panic(err)
	}
	return r
}

// check reports the first reason the rule is malformed.
func (r Rule) check() *ConfigurationError {
	op := r.kind.String()

	if r.message == "" {
		return configError(op, "", ErrEmptyMessage)
	}

	switch r.kind {
	case KindLength:
		if !r.min.Set && !r.max.Set {
			return configError(op, "", ErrNoLengthBounds)
		}
		if (r.min.Set && r.min.N < 0) || (r.max.Set && r.max.N < 0) {
			return configError(op, "", ErrNegativeBound)
		}
		if r.min.Set && r.max.Set && r.min.N > r.max.N {
			return configError(op, "", fmt.Errorf("%w: %d > %d", ErrInvertedBounds, r.min.N, r.max.N))
		}
	case KindPattern:
		if isNilExpression(r.expr) {
			return configError(op, "", ErrNilExpression)
		}
	default:
		return configError("rule", "", fmt.Errorf("%w: %s", ErrUnknownRuleKind, r.kind))
	}

	return nil
}

func (r Rule) Kind() RuleKind { return r.kind }

func (r Rule) Message() string { return r.message }

// Bounds returns the length bounds of a Length rule.
func (r Rule) Bounds() (min, max Bound) { return r.min, r.max }

// Expression returns the expression of a Pattern rule.
func (r Rule) Expression() Expression { return r.expr }

func (r Rule) IsInverse() bool { return r.inverse }

// String describes the rule, e.g. "length(min=5,max=50)" or
// "pattern(`\d+`,inverse)".
func (r Rule) String() string {
	var params []string

	switch r.kind {
	case KindLength:
		if r.min.Set {
			params = append(params, fmt.Sprintf("min=%d", r.min.N))
		}
		if r.max.Set {
			params = append(params, fmt.Sprintf("max=%d", r.max.N))
		}
	case KindPattern:
		if s, ok := r.expr.(fmt.Stringer); ok && !isNilExpression(r.expr) {
			params = append(params, "`"+s.String()+"`")
		}
		if r.inverse {
			params = append(params, "inverse")
		}
	}

	return r.kind.String() + "(" + strings.Join(params, ",") + ")"
}
