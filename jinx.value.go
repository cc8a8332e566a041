package jinx

import (
	"fmt"

	"github.com/itsatony/go-jinx/internal"
)

// Value is an immutable dynamically-typed template value. The zero Value is
// undefined.
type Value = internal.Value

// ValueType is the variant tag of a Value
type ValueType = internal.ValueType

// Value types
const (
	TypeUndefined = internal.TypeUndefined
	TypeNone      = internal.TypeNone
	TypeBool      = internal.TypeBool
	TypeInt       = internal.TypeInt
	TypeFloat     = internal.TypeFloat
	TypeString    = internal.TypeString
	TypeSeq       = internal.TypeSeq
	TypeMap       = internal.TypeMap
	TypeKwargs    = internal.TypeKwargs
	TypeObject    = internal.TypeObject
)

// Object is implemented by host values that expose attributes to templates
type Object = internal.Object

// ObjectTruth lets an Object decide its own truthiness
type ObjectTruth = internal.ObjectTruth

// MapObject is an Object backed by a fixed set of named values
type MapObject = internal.MapObject

// OrderedMap is the insertion-ordered map behind map values
type OrderedMap = internal.OrderedMap

// Kwargs collects keyword arguments that match no declared parameter
type Kwargs = internal.Kwargs

// Value constructors
var (
	Undefined  = internal.Undefined
	None       = internal.None
	FromBool   = internal.FromBool
	FromInt    = internal.FromInt
	FromFloat  = internal.FromFloat
	FromString = internal.FromString
	FromSeq    = internal.FromSeq
	FromMap    = internal.FromMap
	FromObject = internal.FromObject
)

// Value helpers
var (
	NewOrderedMap = internal.NewOrderedMap
	NewMapObject  = internal.NewMapObject
	Equal         = internal.Equal
	ToGo          = internal.ToGo
)

// ValueOf converts a Go value into a Value
func ValueOf(v any) (Value, error) {
	val, err := internal.ValueOf(v)
	if err != nil {
		return Undefined(), wrapError(err)
	}
	return val, nil
}

// MustValueOf converts a Go value and panics if it is not representable
func MustValueOf(v any) Value {
	val, err := ValueOf(v)
	if err != nil {
		panic(err)
	}
	return val
}

// Compare orders two values, returning -1, 0 or 1
func Compare(a, b Value) (int, error) {
	c, err := internal.Compare(a, b)
	return c, wrapError(err)
}

// Ctx builds a context map from alternating name/value pairs:
//
//	jinx.Ctx("name", "World", "count", 3)
//
// Names must be strings. A trailing name without a value binds none.
func Ctx(kv ...any) Value {
	m := internal.NewOrderedMap(len(kv) / 2)
	for i := 0; i < len(kv); i += 2 {
		name, ok := kv[i].(string)
		if !ok {
			name = fmt.Sprint(kv[i])
		}
		var val Value
		if i+1 < len(kv) {
			val = MustValueOf(kv[i+1])
		} else {
			val = None()
		}
		m.SetStr(name, val)
	}
	return FromMap(m)
}

// contextValue converts a render context into a Value. nil means empty.
func contextValue(ctx any) (Value, error) {
	if ctx == nil {
		return Undefined(), nil
	}
	val, err := internal.ValueOf(ctx)
	if err != nil {
		return Undefined(), internal.NewEngineError(KindInvalidContext, internal.ErrMsgInvalidContext).WithCause(err)
	}
	return val, nil
}

// ToJSON serializes a value as JSON, preserving map insertion order.
// indent > 0 pretty-prints with that many spaces.
func ToJSON(v Value, indent int) (string, error) {
	data, err := internal.MarshalJSON(v, indent)
	if err != nil {
		return "", wrapError(err)
	}
	return string(data), nil
}
