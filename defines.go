package formcheck

import (
	"reflect"
	"time"

	"github.com/google/uuid"
)

// constants for rule kind names, as used in rule set documents
const (
	LengthRuleName  = "length"
	PatternRuleName = "pattern"
)

// constants for builtin HTTP bindings in binding tags
const (
	FormTagBinding   = "form"
	QueryTagBinding  = "query"
	HeaderTagBinding = "header"
	CookieTagBinding = "cookie"
	JSONTagBinding   = "json"
)

// constants for builtin binding modifiers
const (
	OmitEmptyBindingModifier = "omitempty"
	RequiredBindingModifier  = "required"
)

// constants for binding tag syntax, e.g. query:'name,omitempty'
const (
	BindingKeyValueDelimiter = ":"
	BindingScopeDelimiter    = byte('\'')
	BindingInfoDelimiter     = ","
)

// StructSourceTag is the struct tag read by StructSource.
const StructSourceTag = "form"

// Mime Type constants for content types.
const (
	ContentTypeApplicationJSON = "application/json"
	ContentTypeFormURLEncoded  = "application/x-www-form-urlencoded"
	ContentTypeMultipartForm   = "multipart/form-data"
	ContentTypeDelimiter       = ";"
)

// reflect.TypeOf constants for type checks
var (
	TimeType = reflect.TypeOf(time.Time{})
	UUIDType = reflect.TypeOf(uuid.UUID{})
)
