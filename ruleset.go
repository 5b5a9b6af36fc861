package formcheck

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidRuleSet     = errors.New("invalid rule set document")
	ErrEmptyRuleSet       = errors.New("rule set defines no fields")
	ErrUnknownRuleSetType = errors.New("unknown rule set format")
)

// Keys accepted at each level of a rule set document.
var (
	documentKeys = []string{"fields"}
	fieldKeys    = []string{"name", "rules"}
	ruleKeys     = []string{"kind", "min", "max", "expression", "inverse", "message"}
)

// Format is the encoding of a rule set document.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRuleSetType, filepath.Ext(path))
	}
}

// ruleSetDocument is the shape shared by both formats:
//
//	fields:
//	  - name: email
//	    rules:
//	      - kind: length
//	        min: 5
//	        max: 50
//	        message: Email length must be at least 5 and at most 50
//	      - kind: pattern
//	        expression: '^\S+@\S+$'
//	        inverse: false
//	        message: Email format is incorrect
type ruleSetDocument struct {
	Fields []fieldDocument `yaml:"fields"`
}

type fieldDocument struct {
	Name  string         `yaml:"name"`
	Rules []ruleDocument `yaml:"rules"`
}

type ruleDocument struct {
	Kind       string `yaml:"kind"`
	Min        *int   `yaml:"min"`
	Max        *int   `yaml:"max"`
	Expression string `yaml:"expression"`
	Inverse    bool   `yaml:"inverse"`
	Message    string `yaml:"message"`
}

// LoadRuleSet decodes a rule set document into field specs, in document
// order. Expressions are compiled through the package pattern cache. Any
// malformed rule is a *ConfigurationError naming its field.
func LoadRuleSet(data []byte, format Format) ([]FieldSpec, error) {
	return NewRuleSetLoader(defaultPatternCache).Load(data, format)
}

// LoadRuleSetFile reads the rule set at path, picking the format from its
// extension.
func LoadRuleSetFile(path string) ([]FieldSpec, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule set: %w", err)
	}

	return LoadRuleSet(data, format)
}

// RuleSetLoader decodes rule set documents, compiling expressions through
// its own cache.
type RuleSetLoader struct {
	patterns *PatternCache
}

func NewRuleSetLoader(patterns *PatternCache) *RuleSetLoader {
	if patterns == nil {
		patterns = NewPatternCache()
	}
	return &RuleSetLoader{patterns: patterns}
}

func (l *RuleSetLoader) Load(data []byte, format Format) ([]FieldSpec, error) {
	var (
		doc ruleSetDocument
		err error
	)

	switch format {
	case FormatYAML:
		doc, err = decodeYAMLRuleSet(data)
	case FormatJSON:
		doc, err = decodeJSONRuleSet(data)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownRuleSetType, format)
	}
	if err != nil {
		return nil, configError("rule set", "", err)
	}

	return l.build(doc)
}

func (l *RuleSetLoader) build(doc ruleSetDocument) ([]FieldSpec, error) {
	if len(doc.Fields) == 0 {
		return nil, configError("rule set", "", ErrEmptyRuleSet)
	}

	specs := make([]FieldSpec, 0, len(doc.Fields))
	for i, fd := range doc.Fields {
		if fd.Name == "" {
			return nil, configError("rule set", "", fmt.Errorf("field #%d: %w", i, ErrEmptyFieldName))
		}

		rules := make([]Rule, 0, len(fd.Rules))
		for j, rd := range fd.Rules {
			rule, err := l.buildRule(rd)
			if err != nil {
				return nil, configError("rule set", fd.Name, fmt.Errorf("rule #%d: %w", j, err))
			}
			rules = append(rules, rule)
		}

		specs = append(specs, Field(fd.Name, rules...))
	}

	return specs, nil
}

func (l *RuleSetLoader) buildRule(rd ruleDocument) (Rule, error) {
	switch strings.ToLower(rd.Kind) {
	case LengthRuleName:
		var opts []LengthOption
		if rd.Min != nil {
			opts = append(opts, MinLength(*rd.Min))
		}
		if rd.Max != nil {
			opts = append(opts, MaxLength(*rd.Max))
		}
		return Length(rd.Message, opts...)

	case PatternRuleName:
		if rd.Expression == "" {
			return Rule{}, ErrNilExpression
		}
		re, err := l.patterns.GetOrCompile(rd.Expression)
		if err != nil {
			return Rule{}, err
		}
		return Pattern(rd.Message, re, Invert(rd.Inverse))

	default:
		return Rule{}, fmt.Errorf("%w: %q", ErrUnknownRuleKind, rd.Kind)
	}
}

// decodeYAMLRuleSet rejects keys the document shape does not define.
func decodeYAMLRuleSet(data []byte) (ruleSetDocument, error) {
	var doc ruleSetDocument

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return ruleSetDocument{}, fmt.Errorf("%w: %v", ErrInvalidRuleSet, err)
	}
	return doc, nil
}

// decodeJSONRuleSet walks the document with gjson so that type mistakes are
// reported against the offending key.
func decodeJSONRuleSet(data []byte) (ruleSetDocument, error) {
	if !gjson.ValidBytes(data) {
		return ruleSetDocument{}, fmt.Errorf("%w: %w", ErrInvalidRuleSet, ErrInvalidJSON)
	}

	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return ruleSetDocument{}, fmt.Errorf("%w: document must be an object", ErrInvalidRuleSet)
	}
	if err := checkJSONKeys(root, documentKeys); err != nil {
		return ruleSetDocument{}, err
	}

	fields := root.Get("fields")
	if !fields.IsArray() {
		return ruleSetDocument{}, fmt.Errorf("%w: \"fields\" must be an array", ErrInvalidRuleSet)
	}

	var (
		doc     ruleSetDocument
		walkErr error
	)
	fields.ForEach(func(_, field gjson.Result) bool {
		if !field.IsObject() {
			walkErr = fmt.Errorf("%w: field must be an object", ErrInvalidRuleSet)
			return false
		}
		if walkErr = checkJSONKeys(field, fieldKeys); walkErr != nil {
			return false
		}

		name, err := jsonString(field, "name")
		if err != nil {
			walkErr = err
			return false
		}
		fd := fieldDocument{Name: name}

		rules := field.Get("rules")
		if rules.Exists() && !rules.IsArray() {
			walkErr = fmt.Errorf("%w: \"rules\" of field %q must be an array", ErrInvalidRuleSet, fd.Name)
			return false
		}

		rules.ForEach(func(_, rule gjson.Result) bool {
			rd, err := decodeJSONRule(rule)
			if err != nil {
				walkErr = fmt.Errorf("field %q: %w", fd.Name, err)
				return false
			}
			fd.Rules = append(fd.Rules, rd)
			return true
		})
		if walkErr != nil {
			return false
		}

		doc.Fields = append(doc.Fields, fd)
		return true
	})

	return doc, walkErr
}

func decodeJSONRule(rule gjson.Result) (ruleDocument, error) {
	if !rule.IsObject() {
		return ruleDocument{}, fmt.Errorf("%w: rule must be an object", ErrInvalidRuleSet)
	}

	if err := checkJSONKeys(rule, ruleKeys); err != nil {
		return ruleDocument{}, err
	}

	var rd ruleDocument
	for _, str := range []struct {
		key string
		dst *string
	}{{"kind", &rd.Kind}, {"expression", &rd.Expression}, {"message", &rd.Message}} {
		value, err := jsonString(rule, str.key)
		if err != nil {
			return ruleDocument{}, err
		}
		*str.dst = value
	}

	for _, bound := range []struct {
		key string
		dst **int
	}{{"min", &rd.Min}, {"max", &rd.Max}} {
		value := rule.Get(bound.key)
		if !value.Exists() || value.Type == gjson.Null {
			continue
		}
		if value.Type != gjson.Number || value.Num != float64(int(value.Num)) {
			return ruleDocument{}, fmt.Errorf("%w: %q must be an integer", ErrInvalidRuleSet, bound.key)
		}
		n := int(value.Int())
		*bound.dst = &n
	}

	if inverse := rule.Get("inverse"); inverse.Exists() {
		if inverse.Type != gjson.True && inverse.Type != gjson.False {
			return ruleDocument{}, fmt.Errorf("%w: \"inverse\" must be a boolean", ErrInvalidRuleSet)
		}
		rd.Inverse = inverse.Bool()
	}

	return rd, nil
}

// checkJSONKeys fails on the first key of obj that is not in allowed.
func checkJSONKeys(obj gjson.Result, allowed []string) error {
	var err error
	obj.ForEach(func(key, _ gjson.Result) bool {
		if !slices.Contains(allowed, key.String()) {
			err = fmt.Errorf("%w: unknown key %q", ErrInvalidRuleSet, key.String())
			return false
		}
		return true
	})
	return err
}

// jsonString reads an optional string key. A missing or null key is "".
func jsonString(obj gjson.Result, key string) (string, error) {
	value := obj.Get(key)
	if !value.Exists() || value.Type == gjson.Null {
		return "", nil
	}
	if value.Type != gjson.String {
		return "", fmt.Errorf("%w: %q must be a string", ErrInvalidRuleSet, key)
	}
	return value.Str, nil
}
