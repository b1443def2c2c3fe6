package ai

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/kaptinlin/jsonrepair"
)

// GenerateSchema creates a JSON Schema from the given Go type.
// It uses reflection to inspect the type structure and generates
// a schema suitable for use with AI structured output.
func GenerateSchema(value any) any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}

	t := reflect.TypeOf(value)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	v := reflect.New(t).Interface()
	return reflector.Reflect(v)
}

// UnmarshalFlexible attempts to unmarshal JSON into the target with multiple
// fallback strategies: standard unmarshaling first, then double-encoded JSON
// strings, then a jsonrepair pass over the input.
//
// This is useful for parsing AI-generated JSON which may be malformed or
// wrapped in strings.
func UnmarshalFlexible(input string, out any) error {
	input = strings.TrimSpace(input)

	if err := json.Unmarshal([]byte(input), out); err == nil {
		return nil
	}

	var asString string
	if err := json.Unmarshal([]byte(input), &asString); err == nil {
		asString = strings.TrimSpace(asString)
		if err := json.Unmarshal([]byte(asString), out); err == nil {
			return nil
		}
		input = asString
	}

	repaired, err := jsonrepair.JSONRepair(input)
	if err != nil {
		return fmt.Errorf("json repair failed: %w (input: %s)", err, input)
	}

	if err := json.Unmarshal([]byte(repaired), out); err == nil {
		return nil
	}

	return fmt.Errorf(
		"unmarshal failed after repair: input=%s repaired=%s",
		input, repaired,
	)
}

// ExtractStringArray parses a JSON array of strings out of a raw oracle
// response. Oracles are instructed to answer with a bare JSON array, but in
// practice responses arrive wrapped in prose, code fences or slightly broken
// JSON, so parsing is lenient:
//
//  1. strict parse of the whole response
//  2. strict parse of the first balanced [...] substring
//  3. jsonrepair of that substring, then parse
//
// Non-string array elements are dropped. An error is returned only when no
// array can be recovered at all.
func ExtractStringArray(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("empty response")
	}

	if values, ok := parseStringArray(raw); ok {
		return values, nil
	}

	candidate := firstBalancedArray(raw)
	if candidate == "" {
		return nil, fmt.Errorf("no JSON array found in response")
	}

	if values, ok := parseStringArray(candidate); ok {
		return values, nil
	}

	repaired, err := jsonrepair.JSONRepair(candidate)
	if err != nil {
		return nil, fmt.Errorf("json repair failed: %w (input: %s)", err, candidate)
	}
	if values, ok := parseStringArray(repaired); ok {
		return values, nil
	}

	return nil, fmt.Errorf(
		"array parse failed after repair: input=%s repaired=%s",
		candidate, repaired,
	)
}

func parseStringArray(input string) ([]string, bool) {
	var elements []any
	if err := json.Unmarshal([]byte(input), &elements); err != nil {
		return nil, false
	}

	values := make([]string, 0, len(elements))
	for _, element := range elements {
		if s, ok := element.(string); ok {
			values = append(values, s)
		}
	}
	return values, true
}

// firstBalancedArray returns the first balanced top-level [...] substring,
// or "" if none exists. Brackets inside JSON string literals are ignored.
func firstBalancedArray(s string) string {
	start := strings.IndexByte(s, '[')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}

	// Unterminated array, hand the tail to the repair step.
	return s[start:]
}
