package internal

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ValueType is the variant tag of a Value
type ValueType int

// Value type constants. The zero ValueType is Undefined so that the zero
// Value is the undefined marker.
const (
	TypeUndefined ValueType = iota
	TypeNone
	TypeBool
	TypeInt
	TypeFloat
	TypeString
	TypeSeq
	TypeMap
	TypeKwargs
	TypeObject
)

// Value type names used in error messages
const (
	TypeNameUndefined = "undefined"
	TypeNameNone      = "none"
	TypeNameBool      = "bool"
	TypeNameInt       = "int"
	TypeNameFloat     = "float"
	TypeNameString    = "string"
	TypeNameSeq       = "sequence"
	TypeNameMap       = "map"
	TypeNameKwargs    = "kwargs"
	TypeNameObject    = "object"
)

// Rendered forms of the scalar variants
const (
	RenderNone      = "none"
	RenderUndefined = ""
	RenderTrue      = "true"
	RenderFalse     = "false"
	ReprUndefined   = "undefined"
	renderInf       = "inf"
	renderNegInf    = "-inf"
	renderNaN       = "NaN"
)

// String returns the name of the value type
func (t ValueType) String() string {
	switch t {
	case TypeUndefined:
		return TypeNameUndefined
	case TypeNone:
		return TypeNameNone
	case TypeBool:
		return TypeNameBool
	case TypeInt:
		return TypeNameInt
	case TypeFloat:
		return TypeNameFloat
	case TypeString:
		return TypeNameString
	case TypeSeq:
		return TypeNameSeq
	case TypeMap:
		return TypeNameMap
	case TypeKwargs:
		return TypeNameKwargs
	case TypeObject:
		return TypeNameObject
	default:
		return TypeNameUndefined
	}
}

// Value is the immutable dynamically-typed datum flowing through templates.
// The zero Value is Undefined.
type Value struct {
	typ ValueType
	b   bool
	i   int64
	f   float64
	s   string
	seq []Value
	m   *OrderedMap
	kw  *Kwargs
	obj Object
}

// Undefined returns the undefined marker
func Undefined() Value { return Value{} }

// None returns the none value
func None() Value { return Value{typ: TypeNone} }

// FromBool creates a bool value
func FromBool(b bool) Value { return Value{typ: TypeBool, b: b} }

// FromInt creates an int value
func FromInt(i int64) Value { return Value{typ: TypeInt, i: i} }

// FromFloat creates a float value
func FromFloat(f float64) Value { return Value{typ: TypeFloat, f: f} }

// FromString creates a string value
func FromString(s string) Value { return Value{typ: TypeString, s: s} }

// FromSeq creates a sequence value. The slice must not be modified afterwards.
func FromSeq(items []Value) Value { return Value{typ: TypeSeq, seq: items} }

// FromMap creates a map value. The map must not be modified afterwards.
func FromMap(m *OrderedMap) Value {
	if m == nil {
		m = NewOrderedMap(0)
	}
	return Value{typ: TypeMap, m: m}
}

// FromKwargs creates a keyword-arguments value
func FromKwargs(kw *Kwargs) Value {
	if kw == nil {
		kw = NewKwargs()
	}
	return Value{typ: TypeKwargs, kw: kw}
}

// FromObject creates an object value. A nil object yields none.
func FromObject(obj Object) Value {
	if obj == nil {
		return None()
	}
	return Value{typ: TypeObject, obj: obj}
}

// Type returns the variant tag
func (v Value) Type() ValueType { return v.typ }

// IsUndefined reports whether v is the undefined marker
func (v Value) IsUndefined() bool { return v.typ == TypeUndefined }

// IsNone reports whether v is none
func (v Value) IsNone() bool { return v.typ == TypeNone }

// IsNumber reports whether v is an int or a float
func (v Value) IsNumber() bool { return v.typ == TypeInt || v.typ == TypeFloat }

// AsBool returns the bool payload
func (v Value) AsBool() (bool, bool) { return v.b, v.typ == TypeBool }

// AsInt returns the int payload. Integral floats are not converted.
func (v Value) AsInt() (int64, bool) { return v.i, v.typ == TypeInt }

// AsFloat returns the numeric payload as float64, promoting ints
func (v Value) AsFloat() (float64, bool) {
	switch v.typ {
	case TypeFloat:
		return v.f, true
	case TypeInt:
		return float64(v.i), true
	default:
		return 0, false
	}
}

// AsString returns the string payload
func (v Value) AsString() (string, bool) { return v.s, v.typ == TypeString }

// AsSeq returns the sequence payload. Callers must not modify the slice.
func (v Value) AsSeq() ([]Value, bool) { return v.seq, v.typ == TypeSeq }

// AsMap returns the map payload
func (v Value) AsMap() (*OrderedMap, bool) { return v.m, v.typ == TypeMap }

// AsKwargs returns the kwargs payload
func (v Value) AsKwargs() (*Kwargs, bool) { return v.kw, v.typ == TypeKwargs }

// AsObject returns the object payload
func (v Value) AsObject() (Object, bool) { return v.obj, v.typ == TypeObject }

// IsTrue reports the truthiness of v
func (v Value) IsTrue() bool {
	switch v.typ {
	case TypeUndefined, TypeNone:
		return false
	case TypeBool:
		return v.b
	case TypeInt:
		return v.i != 0
	case TypeFloat:
		return v.f != 0
	case TypeString:
		return v.s != ""
	case TypeSeq:
		return len(v.seq) > 0
	case TypeMap:
		return v.m.Len() > 0
	case TypeKwargs:
		return v.kw.Len() > 0
	case TypeObject:
		if t, ok := v.obj.(ObjectTruth); ok {
			return t.IsTrue()
		}
		return true
	default:
		return false
	}
}

// Len returns the length of strings (in runes) and containers
func (v Value) Len() (int, bool) {
	switch v.typ {
	case TypeString:
		return utf8.RuneCountInString(v.s), true
	case TypeSeq:
		return len(v.seq), true
	case TypeMap:
		return v.m.Len(), true
	case TypeKwargs:
		return v.kw.Len(), true
	case TypeObject:
		return len(v.obj.EnumerateAttributes()), true
	default:
		return 0, false
	}
}

// Iterate returns the items produced by iterating v: sequence items, map
// keys, the characters of a string, or the attribute names of an object.
func (v Value) Iterate() ([]Value, bool) {
	switch v.typ {
	case TypeUndefined:
		return nil, true
	case TypeSeq:
		return v.seq, true
	case TypeMap:
		return v.m.Keys(), true
	case TypeKwargs:
		return stringValues(v.kw.Keys()), true
	case TypeString:
		items := make([]Value, 0, len(v.s))
		for _, r := range v.s {
			items = append(items, FromString(string(r)))
		}
		return items, true
	case TypeObject:
		return stringValues(v.obj.EnumerateAttributes()), true
	default:
		return nil, false
	}
}

// Keys returns the enumerable keys of maps, kwargs and objects
func (v Value) Keys() []Value {
	switch v.typ {
	case TypeMap:
		return v.m.Keys()
	case TypeKwargs:
		return stringValues(v.kw.Keys())
	case TypeObject:
		return stringValues(v.obj.EnumerateAttributes())
	default:
		return nil
	}
}

// GetAttr performs static attribute access. Missing attributes are undefined.
func (v Value) GetAttr(name string) Value {
	switch v.typ {
	case TypeMap:
		if val, ok := v.m.GetStr(name); ok {
			return val
		}
	case TypeKwargs:
		if val, ok := v.kw.Peek(name); ok {
			return val
		}
	case TypeObject:
		if val, ok := v.obj.GetAttribute(FromString(name)); ok {
			return val
		}
	}
	return Undefined()
}

// GetItem performs subscript access. Sequence and string indexes may be
// negative. Missing items are undefined.
func (v Value) GetItem(key Value) Value {
	switch v.typ {
	case TypeMap:
		if val, ok := v.m.Get(key); ok {
			return val
		}
	case TypeKwargs:
		if name, ok := key.AsString(); ok {
			if val, ok := v.kw.Peek(name); ok {
				return val
			}
		}
	case TypeObject:
		if val, ok := v.obj.GetAttribute(key); ok {
			return val
		}
	case TypeSeq:
		if idx, ok := normalizeIndex(key, len(v.seq)); ok {
			return v.seq[idx]
		}
	case TypeString:
		runes := []rune(v.s)
		if idx, ok := normalizeIndex(key, len(runes)); ok {
			return FromString(string(runes[idx]))
		}
	}
	return Undefined()
}

func normalizeIndex(key Value, length int) (int, bool) {
	idx, ok := key.AsInt()
	if !ok {
		return 0, false
	}
	if idx < 0 {
		idx += int64(length)
	}
	if idx < 0 || idx >= int64(length) {
		return 0, false
	}
	return int(idx), true
}

// String renders v the way it appears in template output
func (v Value) String() string {
	switch v.typ {
	case TypeUndefined:
		return RenderUndefined
	case TypeString:
		return v.s
	case TypeObject:
		if s, ok := v.obj.(fmt.Stringer); ok {
			return s.String()
		}
		return v.Repr()
	default:
		return v.Repr()
	}
}

// Repr renders v in literal form: strings are quoted and undefined is named
func (v Value) Repr() string {
	var sb strings.Builder
	v.writeRepr(&sb)
	return sb.String()
}

func (v Value) writeRepr(sb *strings.Builder) {
	switch v.typ {
	case TypeUndefined:
		sb.WriteString(ReprUndefined)
	case TypeNone:
		sb.WriteString(RenderNone)
	case TypeBool:
		if v.b {
			sb.WriteString(RenderTrue)
		} else {
			sb.WriteString(RenderFalse)
		}
	case TypeInt:
		sb.WriteString(strconv.FormatInt(v.i, 10))
	case TypeFloat:
		sb.WriteString(formatFloat(v.f))
	case TypeString:
		sb.WriteString(strconv.Quote(v.s))
	case TypeSeq:
		sb.WriteByte('[')
		for i, item := range v.seq {
			if i > 0 {
				sb.WriteString(", ")
			}
			item.writeRepr(sb)
		}
		sb.WriteByte(']')
	case TypeMap:
		sb.WriteByte('{')
		i := 0
		for k, val := range v.m.All() {
			if i > 0 {
				sb.WriteString(", ")
			}
			k.writeRepr(sb)
			sb.WriteString(": ")
			val.writeRepr(sb)
			i++
		}
		sb.WriteByte('}')
	case TypeKwargs:
		writeNamedRepr(sb, v.kw.Keys(), v.kw.Peek)
	case TypeObject:
		writeNamedRepr(sb, v.obj.EnumerateAttributes(), func(name string) (Value, bool) {
			return v.obj.GetAttribute(FromString(name))
		})
	}
}

func writeNamedRepr(sb *strings.Builder, names []string, get func(string) (Value, bool)) {
	sb.WriteByte('{')
	for i, name := range names {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.Quote(name))
		sb.WriteString(": ")
		val, _ := get(name)
		val.writeRepr(sb)
	}
	sb.WriteByte('}')
}

// formatFloat renders a float in its shortest form, keeping a trailing .0
// for integral values
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return renderNaN
	case math.IsInf(f, 1):
		return renderInf
	case math.IsInf(f, -1):
		return renderNegInf
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

func stringValues(names []string) []Value {
	items := make([]Value, len(names))
	for i, name := range names {
		items[i] = FromString(name)
	}
	return items
}
