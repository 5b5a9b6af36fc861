package formcheck

import (
	"fmt"
	"reflect"
	"unicode/utf8"
)

// EvaluateLength reports whether value satisfies both length bounds. Length
// is counted in code points. Absent bounds do not constrain; if both are
// absent the rule is malformed and a *ConfigurationError is returned.
func EvaluateLength(value string, min, max Bound) (bool, error) {
	if !min.Set && !max.Set {
		return false, configError(LengthRuleName, "", ErrNoLengthBounds)
	}

	n := utf8.RuneCountInString(value)
	results := []bool{
		!min.Set || n >= min.N,
		!max.Set || n <= max.N,
	}

	return all(results), nil
}

// EvaluatePattern reports whether value passes a pattern test: expr matches
// it, or, with inverse set, expr does not match it. A nil value or
// expression is a *ConfigurationError.
func EvaluatePattern(value *string, expr Expression, inverse bool) (bool, error) {
	if value == nil {
		return false, configError(PatternRuleName, "", ErrNilValue)
	}
	if isNilExpression(expr) {
		return false, configError(PatternRuleName, "", ErrNilExpression)
	}

	matched := expr.MatchString(*value)
	if inverse {
		return !matched, nil
	}
	return matched, nil
}

// Evaluate applies the rule to value.
func (r Rule) Evaluate(value string) (bool, error) {
	switch r.kind {
	case KindLength:
		return EvaluateLength(value, r.min, r.max)
	case KindPattern:
		return EvaluatePattern(&value, r.expr, r.inverse)
	default:
		return false, configError("rule", "", fmt.Errorf("%w: %s", ErrUnknownRuleKind, r.kind))
	}
}

// all is the logical AND of every result; it does not stop early so callers
// can collect results first and combine them afterwards.
func all(results []bool) bool {
	ok := true
	for _, r := range results {
		ok = ok && r
	}
	return ok
}

// isNilExpression catches both a nil interface and a typed nil pointer such
// as (*regexp.Regexp)(nil).
func isNilExpression(expr Expression) bool {
	if expr == nil {
		return true
	}

	v := reflect.ValueOf(expr)
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Func, reflect.Map, reflect.Slice:
		return v.IsNil()
	default:
		return false
	}
}
