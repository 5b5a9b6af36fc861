package formcheck

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"

	"github.com/tidwall/gjson"
)

var (
	ErrNilRequest      = errors.New("request cannot be nil")
	ErrUnknownBinding  = errors.New("unknown binding name")
	ErrNoFieldBindings = errors.New("field needs at least one binding")
	ErrBodyTooLarge    = errors.New("request body exceeds the size limit")
)

// maxMultipartMemory bounds the memory used for multipart form parsing, and
// is the default limit of a JSON body.
const maxMultipartMemory = 32 << 20

// HTTPBindings declares, per field, where the field's value is read from in
// an *http.Request. It is built once at setup and is the Binder a
// FormValidator is checked against; Source then serves each request.
//
// Bindings are tried in order:
//   - "form": a form body field (urlencoded or multipart)
//   - "query": a URL query parameter
//   - "header": a request header
//   - "cookie": a cookie value
//   - "json": a gjson path into an application/json body
//
// A required binding (the default) that finds nothing is ErrValueNotFound.
// An omitempty binding that finds nothing, or finds an empty value, falls
// through to the next binding. When every binding falls through the value
// is the empty string, as for an empty form input.
type HTTPBindings struct {
	order     []string
	m         map[string][]Binding
	bodyLimit int64
}

func NewHTTPBindings() *HTTPBindings {
	return &HTTPBindings{m: make(map[string][]Binding), bodyLimit: maxMultipartMemory}
}

// SetBodyLimit sets the largest JSON body a source reads, in bytes. A
// larger body is ErrBodyTooLarge. n <= 0 restores the default.
func (hb *HTTPBindings) SetBodyLimit(n int64) {
	if n <= 0 {
		n = maxMultipartMemory
	}
	hb.bodyLimit = n
}

// DefaultHTTPBindings binds each field to the form field and, failing that,
// the top-level JSON key of the same name. Both are omitempty. The JSON key
// is matched literally, so "first.name" is not read as a nested path.
func DefaultHTTPBindings(fields ...string) *HTTPBindings {
	hb := NewHTTPBindings()
	for _, field := range fields {
		// The generated bindings are well formed.
		_ = hb.Bind(field,
			Binding{Name: FormTagBinding, Identifier: field, Modifiers: BindingModifiers{OmitEmpty: true}},
			Binding{Name: JSONTagBinding, Identifier: escapePathKey(field), Modifiers: BindingModifiers{OmitEmpty: true}},
		)
	}
	return hb
}

// Bind sets the bindings of field, replacing earlier ones.
func (hb *HTTPBindings) Bind(field string, bindings ...Binding) error {
	if field == "" {
		return ErrEmptyFieldName
	}
	if len(bindings) == 0 {
		return fmt.Errorf("%w: %s", ErrNoFieldBindings, field)
	}
	for _, b := range bindings {
		if !slices.Contains(HTTPBindingTagOpts.AllowedBindingNames, b.Name) {
			return fmt.Errorf("%w: %s", ErrUnknownBinding, b.Name)
		}
		if b.Identifier == "" {
			return fmt.Errorf("%w: %s", ErrEmptyBindingIdentifier, field)
		}
	}

	if _, exists := hb.m[field]; !exists {
		hb.order = append(hb.order, field)
	}
	hb.m[field] = slices.Clone(bindings)
	return nil
}

// BindTag sets the bindings of field from a binding tag, e.g.
// "header:'X-Name,omitempty' json:'user.name'".
func (hb *HTTPBindings) BindTag(field, tag string) error {
	bindings, err := ParseBindingTag(tag, HTTPBindingTagOpts)
	if err != nil {
		return fmt.Errorf("field %s: %w", field, err)
	}
	return hb.Bind(field, bindings...)
}

func (hb *HTTPBindings) Binds(field string) bool {
	_, ok := hb.m[field]
	return ok
}

// Bindings returns a copy of the bindings of field.
func (hb *HTTPBindings) Bindings(field string) []Binding {
	return slices.Clone(hb.m[field])
}

// Fields returns the bound fields in the order they were first bound.
func (hb *HTTPBindings) Fields() []string { return slices.Clone(hb.order) }

// Source returns the value source for one request.
func (hb *HTTPBindings) Source(r *http.Request) *HTTPRequestSource {
	return &HTTPRequestSource{bindings: hb, request: r}
}

// HTTPRequestSource serves field values from one request. Each part of the
// request is parsed at most once, on first use.
type HTTPRequestSource struct {
	bindings *HTTPBindings
	request  *http.Request

	// Cached JSON body to avoid repeated parsing
	jsonBody  gjson.Result
	bodyOnce  sync.Once
	bodyError error

	// Cached form body
	form      url.Values
	formOnce  sync.Once
	formError error

	// Cache query parameters to avoid repeated URL.Query() calls
	query     url.Values
	queryOnce sync.Once

	cookies     map[string]string // Cached cookies for quick access
	cookiesOnce sync.Once
}

func (hs *HTTPRequestSource) Value(field string) (string, error) {
	if hs.request == nil {
		return "", ErrNilRequest
	}

	bindings, ok := hs.bindings.m[field]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNoValueSource, field)
	}

	for _, binding := range bindings {
		value, found, err := hs.lookup(binding, field)
		if err != nil {
			return "", err
		}

		if found && (value != "" || !binding.Modifiers.OmitEmpty) {
			return value, nil
		}
		if !found && binding.Modifiers.Required {
			return "", fmt.Errorf("%w: %s (%s)", ErrValueNotFound, field, binding)
		}
	}

	return "", nil
}

func (hs *HTTPRequestSource) lookup(binding Binding, field string) (string, bool, error) {
	switch binding.Name {
	case FormTagBinding:
		return hs.formValue(binding.Identifier)
	case QueryTagBinding:
		return hs.queryValue(binding.Identifier)
	case HeaderTagBinding:
		return hs.headerValue(binding.Identifier)
	case CookieTagBinding:
		return hs.cookieValue(binding.Identifier)
	case JSONTagBinding:
		return hs.jsonValue(binding.Identifier, field)
	default:
		return "", false, fmt.Errorf("%w: %s", ErrUnknownBinding, binding.Name)
	}
}

func (hs *HTTPRequestSource) formValue(name string) (string, bool, error) {
	hs.formOnce.Do(func() {
		if hasContentType(hs.request, ContentTypeMultipartForm) {
			hs.formError = hs.request.ParseMultipartForm(maxMultipartMemory)
		} else {
			hs.formError = hs.request.ParseForm()
		}
		if hs.formError != nil {
			hs.formError = fmt.Errorf("failed to parse form body: %w", hs.formError)
			return
		}
		hs.form = hs.request.PostForm
	})
	if hs.formError != nil {
		return "", false, hs.formError
	}

	values, exists := hs.form[name]
	if !exists || len(values) == 0 {
		return "", false, nil
	}
	return values[0], true, nil
}

func (hs *HTTPRequestSource) queryValue(name string) (string, bool, error) {
	// Parse query parameters once and cache them
	hs.queryOnce.Do(func() {
		hs.query = hs.request.URL.Query()
	})

	values, exists := hs.query[name]
	if !exists || len(values) == 0 {
		return "", false, nil
	}
	return values[0], true, nil
}

func (hs *HTTPRequestSource) headerValue(name string) (string, bool, error) {
	values := hs.request.Header.Values(name)
	if len(values) == 0 {
		return "", false, nil
	}
	return values[0], true, nil
}

func (hs *HTTPRequestSource) cookieValue(name string) (string, bool, error) {
	// Parse cookies once and cache them
	hs.cookiesOnce.Do(func() {
		hs.cookies = make(map[string]string)
		for _, cookie := range hs.request.Cookies() {
			if _, seen := hs.cookies[cookie.Name]; !seen {
				hs.cookies[cookie.Name] = cookie.Value
			}
		}
	})

	value, exists := hs.cookies[name]
	return value, exists, nil
}

func (hs *HTTPRequestSource) jsonValue(path, field string) (string, bool, error) {
	body, err := hs.getJSONBody()
	if err != nil {
		return "", false, err
	}

	value, err := jsonScalar(body.Get(path), field)
	if errors.Is(err, ErrValueNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (hs *HTTPRequestSource) getJSONBody() (gjson.Result, error) {
	hs.bodyOnce.Do(func() {
		r := hs.request
		if r.Body == nil || r.ContentLength == 0 || !hasContentType(r, ContentTypeApplicationJSON) {
			hs.jsonBody = gjson.Parse("{}")
			return
		}

		limit := hs.bindings.bodyLimit
		body, err := io.ReadAll(io.LimitReader(r.Body, limit+1))
		if err != nil {
			hs.bodyError = fmt.Errorf("failed to read request body: %w", err)
			return
		}
		if int64(len(body)) > limit {
			hs.bodyError = fmt.Errorf("%w: %d bytes", ErrBodyTooLarge, limit)
			return
		}

		if len(body) == 0 {
			hs.jsonBody = gjson.Parse("{}")
			return
		}
		if !gjson.ValidBytes(body) {
			hs.bodyError = ErrInvalidJSON
			return
		}
		hs.jsonBody = gjson.ParseBytes(body)
	})

	return hs.jsonBody, hs.bodyError
}

// hasContentType reports whether the request's media type is contentType,
// ignoring parameters such as charset.
func hasContentType(r *http.Request, contentType string) bool {
	mediaType, _, _ := strings.Cut(r.Header.Get("Content-Type"), ContentTypeDelimiter)
	return strings.EqualFold(strings.TrimSpace(mediaType), contentType)
}

var (
	_ Binder      = (*HTTPBindings)(nil)
	_ ValueSource = (*HTTPRequestSource)(nil)
)
