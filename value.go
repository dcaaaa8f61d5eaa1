package blueprint

import (
	"fmt"
	"strconv"
	"strings"
)

// ValueKind identifies the dynamic type carried by a Value.
type ValueKind uint8

const (
	NullKind      ValueKind = iota // absent/empty, no distinct null representation
	UndefinedKind                  // explicit undefined marker, distinct from absent
	BoolKind
	NumberKind
	StringKind
	ListKind
	MapKind
)

func (k ValueKind) String() string {
	switch k {
	case NullKind:
		return "null"
	case UndefinedKind:
		return "undefined"
	case BoolKind:
		return "bool"
	case NumberKind:
		return "number"
	case StringKind:
		return "string"
	case ListKind:
		return "list"
	case MapKind:
		return "map"
	}
	return fmt.Sprintf("ValueKind(%d)", uint8(k))
}

// Value is a tagged dynamic value covering the finite set of kinds the
// codec marshals across the script boundary.
//
// The zero Value is null.
type Value struct {
	kind   ValueKind
	b      bool
	num    float64
	str    string
	list   []Value
	fields []Field
}

// Field is one entry of a map Value. Insertion order is preserved.
type Field struct {
	Key string
	Val Value
}

// Null returns the absent/empty value.
func Null() Value { return Value{} }

// Undefined returns the explicit undefined marker.
func Undefined() Value { return Value{kind: UndefinedKind} }

// Bool wraps a boolean.
func Bool(v bool) Value { return Value{kind: BoolKind, b: v} }

// Number wraps a float64.
func Number(n float64) Value { return Value{kind: NumberKind, num: n} }

// String wraps a string.
func String(s string) Value { return Value{kind: StringKind, str: s} }

// List wraps an ordered sequence of values.
func List(els ...Value) Value { return Value{kind: ListKind, list: els} }

// Map wraps an ordered sequence of string-keyed fields.
func Map(fields ...Field) Value { return Value{kind: MapKind, fields: fields} }

// F builds a map field.
func F(key string, val Value) Field { return Field{Key: key, Val: val} }

// Kind returns the value's dynamic type tag.
func (v Value) Kind() ValueKind { return v.kind }

// IsNull reports whether the value is absent.
func (v Value) IsNull() bool { return v.kind == NullKind }

// IsUndefined reports whether the value is the undefined marker.
func (v Value) IsUndefined() bool { return v.kind == UndefinedKind }

// AsBool returns the boolean payload, or false for any other kind.
func (v Value) AsBool() bool { return v.kind == BoolKind && v.b }

// AsNumber returns the numeric payload, or 0 for any other kind.
func (v Value) AsNumber() float64 {
	if v.kind != NumberKind {
		return 0
	}
	return v.num
}

// AsString returns the string payload, or "" for any other kind.
func (v Value) AsString() string {
	if v.kind != StringKind {
		return ""
	}
	return v.str
}

// Len returns the element count for lists and the field count for maps.
func (v Value) Len() int {
	switch v.kind {
	case ListKind:
		return len(v.list)
	case MapKind:
		return len(v.fields)
	}
	return 0
}

// Index returns the i-th list element. Panics out of range, like a slice.
func (v Value) Index(i int) Value { return v.list[i] }

// Fields returns the map fields in insertion order. Nil for non-maps.
func (v Value) Fields() []Field { return v.fields }

// Get returns the value of the named map field.
func (v Value) Get(key string) (Value, bool) {
	for _, f := range v.fields {
		if f.Key == key {
			return f.Val, true
		}
	}
	return Value{}, false
}

// Equal reports deep equality. Map field order is significant.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case BoolKind:
		return v.b == o.b
	case NumberKind:
		return v.num == o.num
	case StringKind:
		return v.str == o.str
	case ListKind:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(o.list[i]) {
				return false
			}
		}
		return true
	case MapKind:
		if len(v.fields) != len(o.fields) {
			return false
		}
		for i := range v.fields {
			if v.fields[i].Key != o.fields[i].Key || !v.fields[i].Val.Equal(o.fields[i].Val) {
				return false
			}
		}
		return true
	}
	return true
}

// Display returns a printable form for logs and error messages.
func (v Value) Display() string {
	switch v.kind {
	case NullKind:
		return "null"
	case UndefinedKind:
		return "undefined"
	case BoolKind:
		return strconv.FormatBool(v.b)
	case NumberKind:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case StringKind:
		return v.str
	case ListKind:
		var sb strings.Builder
		sb.WriteByte('[')
		for i, el := range v.list {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(el.Display())
		}
		sb.WriteByte(']')
		return sb.String()
	case MapKind:
		var sb strings.Builder
		sb.WriteByte('{')
		for i, f := range v.fields {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(f.Key)
			sb.WriteString(": ")
			sb.WriteString(f.Val.Display())
		}
		sb.WriteByte('}')
		return sb.String()
	}
	return "?"
}
