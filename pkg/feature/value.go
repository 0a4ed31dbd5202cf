package feature

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
)

// Kind discriminates the variants a condition operand or attribute value
// can take. Attribute bags hold scalars only; KindList appears solely as
// the operand of the "in" operator.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindString
	KindNumber
	KindBool
	KindList
)

// Value is a typed sum container for JSON-compatible comparison operands.
// Both stored condition operands and runtime attribute values are normalized
// into Value before comparison, so equality is always type-sensitive:
// the string "40" never equals the number 40.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
	list []Value
}

func String(s string) Value  { return Value{kind: KindString, str: s} }
func Number(n float64) Value { return Value{kind: KindNumber, num: n} }
func Bool(b bool) Value      { return Value{kind: KindBool, b: b} }

// List builds a list value from scalar elements.
func List(elems ...Value) Value {
	return Value{kind: KindList, list: slices.Clone(elems)}
}

// Kind returns the variant held by the value.
func (v Value) Kind() Kind { return v.kind }

// IsScalar reports whether the value is a string, number, or bool.
func (v Value) IsScalar() bool {
	return v.kind == KindString || v.kind == KindNumber || v.kind == KindBool
}

// Equal reports type-sensitive equality between two values. Values of
// different kinds are never equal.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == other.str
	case KindNumber:
		return v.num == other.num
	case KindBool:
		return v.b == other.b
	case KindList:
		return slices.EqualFunc(v.list, other.list, Value.Equal)
	default:
		return false
	}
}

// Contains reports whether a list value holds an element equal to elem.
// Non-list values contain nothing.
func (v Value) Contains(elem Value) bool {
	if v.kind != KindList {
		return false
	}
	return slices.ContainsFunc(v.list, elem.Equal)
}

// Len returns the number of elements in a list value, zero otherwise.
func (v Value) Len() int { return len(v.list) }

func (v Value) clone() Value {
	if v.kind == KindList {
		v.list = slices.Clone(v.list)
	}
	return v
}

// ErrUnsupportedValue indicates a raw value that cannot be represented as a
// Value variant (objects, nested lists, null).
var ErrUnsupportedValue = errors.New("unsupported attribute value")

// FromRaw normalizes a decoded JSON or YAML value into a Value. Lists may
// nest exactly one level deep and must hold scalars only.
func FromRaw(raw any) (Value, error) {
	switch val := raw.(type) {
	case string:
		return String(val), nil
	case float64:
		return Number(val), nil
	case float32:
		return Number(float64(val)), nil
	case int:
		return Number(float64(val)), nil
	case int64:
		return Number(float64(val)), nil
	case uint64:
		return Number(float64(val)), nil
	case json.Number:
		n, err := val.Float64()
		if err != nil {
			return Value{}, errors.Join(ErrUnsupportedValue, err)
		}
		return Number(n), nil
	case bool:
		return Bool(val), nil
	case []any:
		elems := make([]Value, 0, len(val))
		for _, item := range val {
			elem, err := FromRaw(item)
			if err != nil {
				return Value{}, err
			}
			if !elem.IsScalar() {
				return Value{}, errors.Join(ErrUnsupportedValue,
					errors.New("list elements must be scalar"))
			}
			elems = append(elems, elem)
		}
		return Value{kind: KindList, list: elems}, nil
	default:
		return Value{}, errors.Join(ErrUnsupportedValue,
			fmt.Errorf("cannot represent %T", raw))
	}
}

// Raw converts the value back to its plain JSON-compatible representation.
func (v Value) Raw() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	case KindBool:
		return v.b
	case KindList:
		out := make([]any, len(v.list))
		for i, elem := range v.list {
			out[i] = elem.Raw()
		}
		return out
	default:
		return nil
	}
}

// MarshalJSON encodes the value as its plain JSON representation.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Raw())
}

// UnmarshalJSON decodes a JSON scalar or flat array into the value.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := FromRaw(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Attributes is the runtime attribute bag supplied fresh per evaluation call.
// It maps attribute names to scalar values and is never persisted.
type Attributes map[string]Value

// AttributesFromRaw normalizes a decoded JSON object into an attribute bag,
// rejecting non-scalar attribute values.
func AttributesFromRaw(raw map[string]any) (Attributes, error) {
	attrs := make(Attributes, len(raw))
	for name, rawVal := range raw {
		val, err := FromRaw(rawVal)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", name, err)
		}
		if !val.IsScalar() {
			return nil, errors.Join(ErrUnsupportedValue,
				fmt.Errorf("attribute %q: must be a scalar", name))
		}
		attrs[name] = val
	}
	return attrs, nil
}
