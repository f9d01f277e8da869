package tools

import (
	"encoding/json"
	"fmt"
)

// Kind identifies the primitive type of a tool argument.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindBool
)

// String returns the schema name for the kind.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	default:
		return "unknown"
	}
}

// Value is a tool argument restricted to primitive types. Exactly one of
// the payload fields is meaningful, selected by Kind.
type Value struct {
	Kind Kind
	Str  string
	Num  float64
	Bool bool
}

// Args maps argument names to validated primitive values.
type Args map[string]Value

// String returns the named string argument, or "" when absent.
func (a Args) String(name string) string {
	v, ok := a[name]
	if !ok || v.Kind != KindString {
		return ""
	}
	return v.Str
}

// Number returns the named numeric argument, or 0 when absent.
func (a Args) Number(name string) float64 {
	v, ok := a[name]
	if !ok || v.Kind != KindNumber {
		return 0
	}
	return v.Num
}

// Bool returns the named boolean argument, or false when absent.
func (a Args) Bool(name string) bool {
	v, ok := a[name]
	if !ok || v.Kind != KindBool {
		return false
	}
	return v.Bool
}

// ParseArgs decodes a raw JSON argument payload and validates it against
// a tool's declared parameter schema. Every argument must be a declared
// property of a primitive type; required properties must be present.
func ParseArgs(schema map[string]any, raw string) (Args, error) {
	decoded := map[string]any{}
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
			return nil, fmt.Errorf("arguments are not a JSON object: %w", err)
		}
	}

	props, _ := schema["properties"].(map[string]any)

	args := make(Args, len(decoded))
	for name, value := range decoded {
		prop, ok := props[name].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("unexpected argument %q", name)
		}
		declared, _ := prop["type"].(string)

		v, err := coerceValue(declared, value)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", name, err)
		}
		args[name] = v
	}

	for _, req := range requiredNames(schema) {
		if _, ok := args[req]; !ok {
			return nil, fmt.Errorf("missing required argument %q", req)
		}
	}
	return args, nil
}

func coerceValue(declared string, value any) (Value, error) {
	switch declared {
	case "string":
		s, ok := value.(string)
		if !ok {
			return Value{}, fmt.Errorf("expected string, got %T", value)
		}
		return Value{Kind: KindString, Str: s}, nil
	case "number", "integer":
		n, ok := value.(float64)
		if !ok {
			return Value{}, fmt.Errorf("expected number, got %T", value)
		}
		return Value{Kind: KindNumber, Num: n}, nil
	case "boolean":
		b, ok := value.(bool)
		if !ok {
			return Value{}, fmt.Errorf("expected boolean, got %T", value)
		}
		return Value{Kind: KindBool, Bool: b}, nil
	default:
		return Value{}, fmt.Errorf("unsupported parameter type %q", declared)
	}
}

// requiredNames extracts the schema's required-property list, tolerating
// both []string and the []any that json.Unmarshal produces.
func requiredNames(schema map[string]any) []string {
	switch req := schema["required"].(type) {
	case []string:
		return req
	case []any:
		names := make([]string, 0, len(req))
		for _, r := range req {
			if s, ok := r.(string); ok {
				names = append(names, s)
			}
		}
		return names
	default:
		return nil
	}
}
