package formcheck

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFormValidator(t *testing.T) {
	t.Run("NilBinder", func(t *testing.T) {
		_, err := NewFormValidator(nil, ContactForm())
		assert.True(t, IsSetupError(err))
		assert.ErrorIs(t, err, ErrNilBinder)
	})

	t.Run("UnboundField", func(t *testing.T) {
		_, err := NewFormValidator(FieldSet{ContactName}, []FieldSpec{
			Field(ContactName, NameRules()...),
			Field(ContactEmail, EmailRules()...),
		})
		require.Error(t, err)
		assert.True(t, IsSetupError(err))
		assert.ErrorIs(t, err, ErrNoValueSource)

		var se *SetupError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, ContactEmail, se.Field)
	})

	t.Run("DuplicateField", func(t *testing.T) {
		_, err := NewFormValidator(FieldSet{ContactName}, []FieldSpec{
			Field(ContactName, NameRules()...),
			Field(ContactName, NameRules()...),
		})
		assert.ErrorIs(t, err, ErrFieldRegistered)
	})

	t.Run("MalformedRule", func(t *testing.T) {
		_, err := NewFormValidator(FieldSet{"x"}, []FieldSpec{Field("x", Rule{})})
		assert.True(t, IsSetupError(err))
		assert.True(t, IsConfigurationError(err))
	})

	t.Run("ReportsEveryProblem", func(t *testing.T) {
		_, err := NewFormValidator(FieldSet{}, []FieldSpec{
			Field("a", MustLength("short", MinLength(1))),
			Field("", MustLength("short", MinLength(1))),
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNoValueSource)
		assert.ErrorIs(t, err, ErrEmptyFieldName)
	})

	t.Run("NoRules", func(t *testing.T) {
		form, err := NewFormValidator(FieldSet{"free"}, []FieldSpec{Field("free")})
		require.NoError(t, err)

		result, err := form.ValidateField("free", "")
		require.NoError(t, err)
		assert.True(t, result.Valid())
	})
}

func TestFormValidatorValidateForm(t *testing.T) {
	form := newContactForm(t)

	t.Run("NoShortCircuit", func(t *testing.T) {
		result, err := form.ValidateForm(map[string]string{
			ContactName:    "A",
			ContactEmail:   "abc",
			ContactPhone:   "123",
			ContactMessage: "hi",
		})
		require.NoError(t, err)

		assert.False(t, result.Valid())
		assert.Len(t, result.Invalid(), 4)
		assert.Equal(t, form.Fields(), result.Fields())

		for _, name := range form.Fields() {
			field, ok := result.Field(name)
			require.True(t, ok, name)
			assert.NotEmpty(t, field.Messages(), name)
		}
	})

	t.Run("OneInvalidFieldFailsTheForm", func(t *testing.T) {
		result, err := form.ValidateForm(map[string]string{
			ContactName:    "Alice",
			ContactEmail:   "abc",
			ContactPhone:   "+380(67)123-456-78",
			ContactMessage: "Hello, how are you?",
		})
		require.NoError(t, err)

		assert.False(t, result.Valid())
		name, _ := result.Field(ContactName)
		assert.True(t, name.Valid())
		email, _ := result.Field(ContactEmail)
		assert.False(t, email.Valid())

		invalid := result.Invalid()
		require.Len(t, invalid, 1)
		assert.Equal(t, ContactEmail, invalid[0].Field())
	})

	t.Run("MissingValue", func(t *testing.T) {
		_, err := form.ValidateForm(map[string]string{ContactName: "Alice"})
		require.Error(t, err)
		assert.True(t, IsConfigurationError(err))
		assert.ErrorIs(t, err, ErrValueNotFound)

		var ce *ConfigurationError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, ContactEmail, ce.Field)
	})

	t.Run("NilSource", func(t *testing.T) {
		_, err := form.ValidateSource(nil)
		assert.ErrorIs(t, err, ErrNoValueSource)
	})
}

func TestFormValidatorValidateField(t *testing.T) {
	form := newContactForm(t)

	t.Run("UnknownField", func(t *testing.T) {
		_, err := form.ValidateField("age", "42")
		assert.True(t, IsConfigurationError(err))
		assert.ErrorIs(t, err, ErrUnknownField)
	})

	t.Run("SourceField", func(t *testing.T) {
		src := MapSource{ContactPhone: "123"}
		result, err := form.ValidateSourceField(ContactPhone, src)
		require.NoError(t, err)
		assert.Len(t, result.Messages(), 2)
	})

	t.Run("SourceFieldUnknown", func(t *testing.T) {
		_, err := form.ValidateSourceField("age", MapSource{"age": "1"})
		assert.ErrorIs(t, err, ErrUnknownField)
	})

	t.Run("SourceErrorIsLifted", func(t *testing.T) {
		src := valueSourceFunc(func(string) (string, error) {
			return "", errors.New("backend unavailable")
		})
		_, err := form.ValidateSourceField(ContactName, src)
		require.Error(t, err)
		assert.True(t, IsConfigurationError(err))
		assert.Contains(t, err.Error(), "backend unavailable")
	})
}

type valueSourceFunc func(field string) (string, error)

func (f valueSourceFunc) Value(field string) (string, error) { return f(field) }

func TestFormValidatorSink(t *testing.T) {
	sink := NewMemorySink()
	form := newContactForm(t, WithSink(sink))

	_, err := form.ValidateField(ContactPhone, "123")
	require.NoError(t, err)
	assert.Equal(t, []string{"Phone is too short", "Phone format is incorrect"}, sink.Messages(ContactPhone))

	// a later result replaces the earlier one
	_, err = form.ValidateField(ContactPhone, "+380(67)123-456-78")
	require.NoError(t, err)
	assert.Empty(t, sink.Messages(ContactPhone))

	result, ok := sink.Result(ContactPhone)
	require.True(t, ok)
	assert.True(t, result.Valid())
}

func TestFormValidatorSinkSeesEveryField(t *testing.T) {
	var rendered []string
	form := newContactForm(t, WithSink(ErrorSinkFunc(func(result ValidationResult) {
		rendered = append(rendered, result.Field())
	})))

	_, err := form.ValidateForm(map[string]string{
		ContactName:    "A",
		ContactEmail:   "abc",
		ContactPhone:   "123",
		ContactMessage: "hi",
	})
	require.NoError(t, err)
	assert.Equal(t, form.Fields(), rendered)
}

func TestFormValidatorLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	form := newContactForm(t, WithLogger(logger))

	_, err := form.ValidateField(ContactName, "A")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"message":"field validated"`)
	assert.Contains(t, buf.String(), `"field":"name"`)

	buf.Reset()
	_, err = form.ValidateField("age", "1")
	require.Error(t, err)
	assert.Contains(t, buf.String(), `"level":"warn"`)
}

func TestFormValidatorConcurrent(t *testing.T) {
	form := newContactForm(t)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			value := "123"
			want := 2
			if i%2 == 0 {
				value = "+380(67)123-456-78"
				want = 0
			}

			result, err := form.ValidateField(ContactPhone, value)
			assert.NoError(t, err)
			assert.Len(t, result.Messages(), want)
		}(i)
	}
	wg.Wait()
}

func TestFormResult(t *testing.T) {
	form, err := NewFormValidator(FieldSet{"code", "note"}, []FieldSpec{
		Field("code", MustPattern("Code must be digits", regexp.MustCompile(`^\d+$`))),
		Field("note", MustLength("Note is too long", MaxLength(5))),
	})
	require.NoError(t, err)

	result, err := form.ValidateForm(map[string]string{"code": "12a", "note": "ok"})
	require.NoError(t, err)

	assert.Equal(t, map[string][]string{
		"code": {"Code must be digits"},
		"note": {},
	}, result.Messages())
	assert.Equal(t, "form invalid (1 of 2 fields failed)", result.String())

	results := result.Results()
	require.Len(t, results, 2)
	assert.Equal(t, "code", results[0].Field())
	assert.Equal(t, "note", results[1].Field())

	data, err := json.Marshal(result)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"valid": false,
		"order": ["code", "note"],
		"fields": {
			"code": {"field": "code", "valid": false, "messages": ["Code must be digits"]},
			"note": {"field": "note", "valid": true, "messages": []}
		}
	}`, string(data))

	valid, err := form.ValidateForm(map[string]string{"code": "12", "note": "ok"})
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("form valid (%d fields)", 2), valid.String())
}
