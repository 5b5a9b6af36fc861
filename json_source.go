package formcheck

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	ErrInvalidJSON = errors.New("document is not valid JSON")
	ErrNotScalar   = errors.New("value is an object or array, not a scalar")
)

// JSONSource serves field values out of one JSON document. Each field is
// read from a gjson path; fields without an explicit path are read from the
// top-level key of the same name, taken literally even when it contains
// path syntax such as '.' or '*'.
//
// Strings are served as is, numbers and booleans in their JSON text form.
// A missing path or a null value is ErrValueNotFound.
type JSONSource struct {
	doc   gjson.Result
	paths map[string]string
}

// NewJSONSource parses data. paths maps field names to gjson paths and may be
// nil.
func NewJSONSource(data []byte, paths map[string]string) (*JSONSource, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}
	return &JSONSource{doc: gjson.ParseBytes(data), paths: paths}, nil
}

// NewJSONStringSource is NewJSONSource for a string document.
func NewJSONStringSource(data string, paths map[string]string) (*JSONSource, error) {
	if !gjson.Valid(data) {
		return nil, ErrInvalidJSON
	}
	return &JSONSource{doc: gjson.Parse(data), paths: paths}, nil
}

func (js *JSONSource) path(field string) string {
	if path, ok := js.paths[field]; ok {
		return path
	}
	return escapePathKey(field)
}

// Binds reports whether field has an explicit path or is present in the
// document.
func (js *JSONSource) Binds(field string) bool {
	if _, ok := js.paths[field]; ok {
		return true
	}
	return js.doc.Get(escapePathKey(field)).Exists()
}

func (js *JSONSource) Value(field string) (string, error) {
	return jsonScalar(js.doc.Get(js.path(field)), field)
}

// escapePathKey turns key into a gjson path that matches only the top-level
// key of that exact name.
func escapePathKey(key string) string {
	var b strings.Builder
	for i := 0; i < len(key); i++ {
		if !isSafePathKeyChar(key[i]) {
			b.WriteByte('\\')
		}
		b.WriteByte(key[i])
	}
	return b.String()
}

func isSafePathKeyChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') || c <= ' ' || c > '~' ||
		c == '_' || c == '-' || c == ':'
}

// jsonScalar converts a gjson result into a field value.
func jsonScalar(result gjson.Result, field string) (string, error) {
	if !result.Exists() || result.Type == gjson.Null {
		return "", fmt.Errorf("%w: %s", ErrValueNotFound, field)
	}
	if result.IsObject() || result.IsArray() {
		return "", fmt.Errorf("%w: %s", ErrNotScalar, field)
	}
	if result.Type == gjson.String {
		return result.Str, nil
	}
	return result.Raw, nil
}

var _ BoundSource = (*JSONSource)(nil)
