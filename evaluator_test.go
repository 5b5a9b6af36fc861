package formcheck

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateLength(t *testing.T) {
	t.Run("BothBoundsAbsent", func(t *testing.T) {
		_, err := EvaluateLength("anything", Bound{}, Bound{})
		require.Error(t, err)
		assert.True(t, IsConfigurationError(err))
		assert.ErrorIs(t, err, ErrNoLengthBounds)
	})

	t.Run("InclusiveConjunction", func(t *testing.T) {
		tests := []struct {
			length int
			want   bool
		}{
			{4, false},
			{5, true},
			{50, true},
			{51, false},
		}

		for _, tt := range tests {
			ok, err := EvaluateLength(strings.Repeat("a", tt.length), BoundOf(5), BoundOf(50))
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok, "length %d", tt.length)
		}
	})

	t.Run("MinOnly", func(t *testing.T) {
		ok, err := EvaluateLength(strings.Repeat("a", 1000), BoundOf(2), Bound{})
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = EvaluateLength("a", BoundOf(2), Bound{})
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("MaxOnly", func(t *testing.T) {
		ok, err := EvaluateLength("", Bound{}, BoundOf(3))
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = EvaluateLength("abcd", Bound{}, BoundOf(3))
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("CountsCodePoints", func(t *testing.T) {
		ok, err := EvaluateLength("héllo", Bound{}, BoundOf(5))
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestEvaluatePattern(t *testing.T) {
	ugly := regexp.MustCompile(`ugly`)

	t.Run("NilValue", func(t *testing.T) {
		_, err := EvaluatePattern(nil, ugly, false)
		assert.ErrorIs(t, err, ErrNilValue)
		assert.True(t, IsConfigurationError(err))
	})

	t.Run("NilExpression", func(t *testing.T) {
		value := "x"
		_, err := EvaluatePattern(&value, nil, false)
		assert.ErrorIs(t, err, ErrNilExpression)
	})

	t.Run("SubstringMatch", func(t *testing.T) {
		value := "you are ugly today"
		ok, err := EvaluatePattern(&value, ugly, false)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("AnchorsBelongToExpression", func(t *testing.T) {
		value := "you are ugly"
		ok, err := EvaluatePattern(&value, regexp.MustCompile(`^ugly$`), false)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Inverse", func(t *testing.T) {
		bad, kind := "you are ugly", "you are kind"

		ok, err := EvaluatePattern(&bad, ugly, true)
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = EvaluatePattern(&kind, ugly, true)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestRuleEvaluate(t *testing.T) {
	t.Run("ZeroRule", func(t *testing.T) {
		_, err := Rule{}.Evaluate("x")
		assert.ErrorIs(t, err, ErrUnknownRuleKind)
	})

	t.Run("DispatchesByKind", func(t *testing.T) {
		length := MustLength("short", MinLength(3))
		ok, err := length.Evaluate("ab")
		require.NoError(t, err)
		assert.False(t, ok)

		pattern := MustPattern("no spaces", regexp.MustCompile(`\s`), Inverse())
		ok, err = pattern.Evaluate("a b")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
