package internal

import (
	"fmt"
	"math"
	"reflect"
	"sort"
)

// ValueOf converts a Go value into a Value. Maps with string keys are
// accepted; map iteration order is made deterministic by sorting keys.
func ValueOf(v any) (Value, error) {
	return valueOf(v, 0)
}

// valueOf converts v at the given nesting depth. Self-referencing maps and
// slices stop at MaxValueDepth.
func valueOf(v any, depth int) (Value, error) {
	if depth > MaxValueDepth {
		return Undefined(), NewEngineError(KindResourceLimit, ErrMsgValueTooDeep)
	}
	switch x := v.(type) {
	case nil:
		return None(), nil
	case Value:
		return x, nil
	case *Kwargs:
		return FromKwargs(x), nil
	case *OrderedMap:
		return FromMap(x), nil
	case Object:
		return FromObject(x), nil
	case bool:
		return FromBool(x), nil
	case int:
		return FromInt(int64(x)), nil
	case int8:
		return FromInt(int64(x)), nil
	case int16:
		return FromInt(int64(x)), nil
	case int32:
		return FromInt(int64(x)), nil
	case int64:
		return FromInt(x), nil
	case uint:
		return fromUint(uint64(x))
	case uint8:
		return FromInt(int64(x)), nil
	case uint16:
		return FromInt(int64(x)), nil
	case uint32:
		return FromInt(int64(x)), nil
	case uint64:
		return fromUint(x)
	case float32:
		return FromFloat(float64(x)), nil
	case float64:
		return FromFloat(x), nil
	case string:
		return FromString(x), nil
	case []Value:
		return FromSeq(x), nil
	case []any:
		items := make([]Value, len(x))
		for i, item := range x {
			val, err := valueOf(item, depth+1)
			if err != nil {
				return Undefined(), err
			}
			items[i] = val
		}
		return FromSeq(items), nil
	case []string:
		return FromSeq(stringValues(x)), nil
	case map[string]Value:
		m := NewOrderedMap(len(x))
		for _, k := range sortedKeys(x) {
			m.SetStr(k, x[k])
		}
		return FromMap(m), nil
	case map[string]any:
		m := NewOrderedMap(len(x))
		for _, k := range sortedKeys(x) {
			val, err := valueOf(x[k], depth+1)
			if err != nil {
				return Undefined(), err
			}
			m.SetStr(k, val)
		}
		return FromMap(m), nil
	case map[string]string:
		m := NewOrderedMap(len(x))
		for _, k := range sortedKeys(x) {
			m.SetStr(k, FromString(x[k]))
		}
		return FromMap(m), nil
	case fmt.Stringer:
		return FromString(x.String()), nil
	}

	return valueOfReflect(reflect.ValueOf(v), depth)
}

func fromUint(u uint64) (Value, error) {
	if u > math.MaxInt64 {
		return Undefined(), NewEngineError(KindArithmetic, ErrMsgIntegerOverflow).WithDetail(fmt.Sprint(u))
	}
	return FromInt(int64(u)), nil
}

// valueOfReflect handles slices, arrays, string-keyed maps, pointers and
// named scalar types not covered by the fast path
func valueOfReflect(rv reflect.Value, depth int) (Value, error) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return None(), nil
		}
		return valueOf(rv.Elem().Interface(), depth+1)
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return FromSeq(nil), nil
		}
		items := make([]Value, rv.Len())
		for i := range items {
			val, err := valueOf(rv.Index(i).Interface(), depth+1)
			if err != nil {
				return Undefined(), err
			}
			items[i] = val
		}
		return FromSeq(items), nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
		m := NewOrderedMap(len(keys))
		for _, k := range keys {
			val, err := valueOf(rv.MapIndex(k).Interface(), depth+1)
			if err != nil {
				return Undefined(), err
			}
			m.SetStr(k.String(), val)
		}
		return FromMap(m), nil
	case reflect.Bool:
		return FromBool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return FromInt(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return fromUint(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return FromFloat(rv.Float()), nil
	case reflect.String:
		return FromString(rv.String()), nil
	}

	return Undefined(), NewEngineError(KindType, ErrMsgUnsupportedValue).WithDetail(rv.Type().String())
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ToGo converts a Value into plain Go data: nil, bool, int64, float64,
// string, []any and map[string]any. Objects become maps of their attributes.
// Undefined converts to nil.
func ToGo(v Value) any {
	switch v.typ {
	case TypeUndefined, TypeNone:
		return nil
	case TypeBool:
		return v.b
	case TypeInt:
		return v.i
	case TypeFloat:
		return v.f
	case TypeString:
		return v.s
	case TypeSeq:
		out := make([]any, len(v.seq))
		for i, item := range v.seq {
			out[i] = ToGo(item)
		}
		return out
	case TypeMap:
		out := make(map[string]any, v.m.Len())
		for k, val := range v.m.All() {
			out[k.String()] = ToGo(val)
		}
		return out
	case TypeKwargs, TypeObject:
		out := make(map[string]any)
		for _, k := range v.Keys() {
			out[k.String()] = ToGo(v.GetAttr(k.String()))
		}
		return out
	default:
		return nil
	}
}
