// Package schema implements the small declarative schema language used by
// tool contracts: object, array, string, number and boolean types with
// required keys, closed objects, enums, patterns, min-length and nullability.
package schema

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"
)

type Type string

const (
	TypeObject  Type = "object"
	TypeArray   Type = "array"
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeBoolean Type = "boolean"
)

// Schema is immutable once built; contracts share instances freely.
type Schema struct {
	Type                 Type               `json:"type"`
	Nullable             bool               `json:"nullable,omitempty"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties *bool              `json:"additionalProperties,omitempty"`
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Items                *Schema            `json:"items,omitempty"`
	MinLength            *int               `json:"minLength,omitempty"`
	Enum                 []string           `json:"enum,omitempty"`
	Pattern              string             `json:"pattern,omitempty"`
}

func Object(required []string, props map[string]*Schema) *Schema {
	return &Schema{Type: TypeObject, Required: required, Properties: props}
}

// Closed returns an object schema that rejects undeclared keys.
func Closed(required []string, props map[string]*Schema) *Schema {
	closed := false
	return &Schema{Type: TypeObject, Required: required, Properties: props, AdditionalProperties: &closed}
}

func ArrayOf(items *Schema) *Schema {
	return &Schema{Type: TypeArray, Items: items}
}

func String() *Schema {
	return &Schema{Type: TypeString}
}

func Number() *Schema {
	return &Schema{Type: TypeNumber}
}

func Boolean() *Schema {
	return &Schema{Type: TypeBoolean}
}

func (s *Schema) WithMinLength(n int) *Schema {
	out := *s
	out.MinLength = &n
	return &out
}

func (s *Schema) WithEnum(values ...string) *Schema {
	out := *s
	out.Enum = append([]string(nil), values...)
	return &out
}

func (s *Schema) WithPattern(pattern string) *Schema {
	out := *s
	out.Pattern = pattern
	return &out
}

func (s *Schema) AsNullable() *Schema {
	out := *s
	out.Nullable = true
	return &out
}

// Map renders the schema as a plain JSON object for capability discovery.
func (s *Schema) Map() map[string]any {
	if s == nil {
		return nil
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return nil
	}
	out := map[string]any{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

// Validate checks value against s and returns one message per violation.
// An empty result means the value is valid.
func Validate(value any, s *Schema) []string {
	return validate(value, s, "$")
}

func validate(value any, s *Schema, path string) []string {
	if s == nil {
		return nil
	}
	if s.Nullable && value == nil {
		return nil
	}

	var violations []string
	switch s.Type {
	case TypeObject:
		obj, ok := value.(map[string]any)
		if !ok || obj == nil {
			return append(violations, fmt.Sprintf("%s must be an object.", path))
		}
		for _, key := range s.Required {
			if _, present := obj[key]; !present {
				violations = append(violations, fmt.Sprintf("%s.%s is required.", path, key))
			}
		}
		if s.AdditionalProperties != nil && !*s.AdditionalProperties && s.Properties != nil {
			for _, key := range sortedKeys(obj) {
				if _, declared := s.Properties[key]; !declared {
					violations = append(violations, fmt.Sprintf("%s.%s is not allowed.", path, key))
				}
			}
		}
		for _, key := range sortedKeys(s.Properties) {
			if v, present := obj[key]; present {
				violations = append(violations, validate(v, s.Properties[key], path+"."+key)...)
			}
		}

	case TypeArray:
		items, ok := asSlice(value)
		if !ok {
			return append(violations, fmt.Sprintf("%s must be an array.", path))
		}
		if s.Items != nil {
			for i, item := range items {
				violations = append(violations, validate(item, s.Items, fmt.Sprintf("%s[%d]", path, i))...)
			}
		}

	case TypeString:
		str, isString := value.(string)
		if !isString {
			violations = append(violations, fmt.Sprintf("%s must be a string.", path))
		}
		if s.MinLength != nil && isString && utf8.RuneCountInString(str) < *s.MinLength {
			violations = append(violations, fmt.Sprintf("%s must be at least %d chars.", path, *s.MinLength))
		}
		if len(s.Enum) > 0 && !(isString && contains(s.Enum, str)) {
			violations = append(violations, fmt.Sprintf("%s must be one of: %s.", path, strings.Join(s.Enum, ", ")))
		}
		if s.Pattern != "" && isString && !fullMatch(s.Pattern, str) {
			violations = append(violations, fmt.Sprintf("%s does not match expected pattern.", path))
		}

	case TypeNumber:
		if !isNumber(value) {
			violations = append(violations, fmt.Sprintf("%s must be a number.", path))
		}

	case TypeBoolean:
		if _, ok := value.(bool); !ok {
			violations = append(violations, fmt.Sprintf("%s must be a boolean.", path))
		}
	}
	return violations
}

func asSlice(value any) ([]any, bool) {
	switch v := value.(type) {
	case []any:
		return v, true
	case []string:
		out := make([]any, len(v))
		for i := range v {
			out[i] = v[i]
		}
		return out, true
	default:
		return nil, false
	}
}

func isNumber(value any) bool {
	switch value.(type) {
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, json.Number:
		return true
	default:
		return false
	}
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var patternCache sync.Map // pattern -> *regexp.Regexp (nil when it does not compile)

// fullMatch requires the pattern to cover the whole string. A pattern that
// does not compile never matches.
func fullMatch(pattern, value string) bool {
	cached, ok := patternCache.Load(pattern)
	if !ok {
		re, _ := regexp.Compile(`^(?:` + pattern + `)$`)
		cached, _ = patternCache.LoadOrStore(pattern, re)
	}
	re, _ := cached.(*regexp.Regexp)
	if re == nil {
		return false
	}
	return re.MatchString(value)
}
