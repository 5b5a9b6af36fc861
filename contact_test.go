package formcheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContactForm(t *testing.T, opts ...Option) *FormValidator {
	t.Helper()

	form, err := NewFormValidator(
		FieldSet{ContactName, ContactEmail, ContactPhone, ContactMessage},
		ContactForm(),
		opts...,
	)
	require.NoError(t, err)
	return form
}

func TestContactFormName(t *testing.T) {
	form := newContactForm(t)

	tests := []struct {
		name  string
		value string
		want  []string
	}{
		{"SingleWord", "Alice", []string{}},
		{"TwoSpaces", "Al  Bo", []string{}},
		{
			// one whitespace between words is rejected, only none or exactly two pass
			"OneSpace", "Al Bo",
			[]string{"Name must have explicit 0 or 2 white spaces between words"},
		},
		{
			"ThreeSpaces", "Al   Bo",
			[]string{"Name must have explicit 0 or 2 white spaces between words"},
		},
		{"TooShort", "A", []string{"Name is too short"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := form.ValidateField(ContactName, tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Messages())
			assert.Equal(t, len(tt.want) == 0, result.Valid())
		})
	}
}

func TestContactFormEmail(t *testing.T) {
	form := newContactForm(t)

	t.Run("Valid", func(t *testing.T) {
		result, err := form.ValidateField(ContactEmail, "a@b.co")
		require.NoError(t, err)
		assert.True(t, result.Valid())
	})

	t.Run("TooShortAndMalformed", func(t *testing.T) {
		result, err := form.ValidateField(ContactEmail, "abc")
		require.NoError(t, err)
		assert.Equal(t, []string{
			"Email length must be at least 5 and at most 50",
			"Email format is incorrect",
		}, result.Messages())
	})

	t.Run("Malformed", func(t *testing.T) {
		result, err := form.ValidateField(ContactEmail, "not-an-email")
		require.NoError(t, err)
		assert.Equal(t, []string{"Email format is incorrect"}, result.Messages())
	})
}

func TestContactFormPhone(t *testing.T) {
	form := newContactForm(t)

	t.Run("TooShortAndMalformed", func(t *testing.T) {
		result, err := form.ValidateField(ContactPhone, "123")
		require.NoError(t, err)
		assert.False(t, result.Valid())
		assert.Equal(t, []string{"Phone is too short", "Phone format is incorrect"}, result.Messages())
	})

	t.Run("Valid", func(t *testing.T) {
		result, err := form.ValidateField(ContactPhone, "+380(67)123-456-78")
		require.NoError(t, err)
		assert.True(t, result.Valid(), result.Messages())
	})
}

func TestContactFormMessage(t *testing.T) {
	form := newContactForm(t)

	tests := []struct {
		name  string
		value string
		want  []string
	}{
		{"Kind", "you are very kind", []string{}},
		{
			"BadLanguage", "you are ugly",
			[]string{"Message must not include bad language: ugly, dumm, stupid, pig, ignorant"},
		},
		{
			"BadLanguageIgnoresCase", "You are UGLY!",
			[]string{"Message must not include bad language: ugly, dumm, stupid, pig, ignorant"},
		},
		{"WholeWordsOnly", "a pigeon flew by", []string{}},
		{"TooShort", "hi", []string{"Message is too short"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := form.ValidateField(ContactMessage, tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Messages())
		})
	}
}

func TestContactFormWhole(t *testing.T) {
	form := newContactForm(t)
	assert.Equal(t, []string{ContactName, ContactEmail, ContactPhone, ContactMessage}, form.Fields())

	result, err := form.ValidateForm(map[string]string{
		ContactName:    "Alice",
		ContactEmail:   "alice@example.com",
		ContactPhone:   "+380(67)123-456-78",
		ContactMessage: "Hello, I would like to talk.",
	})
	require.NoError(t, err)
	assert.True(t, result.Valid())
	assert.Empty(t, result.Invalid())
}
