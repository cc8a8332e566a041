package internal

import (
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Equal reports structural equality. Ints and floats compare numerically.
func Equal(a, b Value) bool {
	if a.IsNumber() && b.IsNumber() {
		if a.typ == TypeInt && b.typ == TypeInt {
			return a.i == b.i
		}
		af, _ := a.AsFloat()
		bf, _ := b.AsFloat()
		return af == bf
	}
	if a.typ != b.typ {
		return false
	}

	switch a.typ {
	case TypeUndefined, TypeNone:
		return true
	case TypeBool:
		return a.b == b.b
	case TypeString:
		return a.s == b.s
	case TypeSeq:
		if len(a.seq) != len(b.seq) {
			return false
		}
		for i := range a.seq {
			if !Equal(a.seq[i], b.seq[i]) {
				return false
			}
		}
		return true
	case TypeMap:
		if a.m.Len() != b.m.Len() {
			return false
		}
		for k, av := range a.m.All() {
			bv, ok := b.m.Get(k)
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	case TypeKwargs:
		if a.kw.Len() != b.kw.Len() {
			return false
		}
		for _, name := range a.kw.Keys() {
			av, _ := a.kw.Peek(name)
			bv, ok := b.kw.Peek(name)
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	case TypeObject:
		return sameObject(a.obj, b.obj)
	default:
		return false
	}
}

// sameObject reports identity of two host objects. Host types that are not
// comparable with == (slice, map and func backed types) are identical when
// they share the same backing storage.
func sameObject(a, b Object) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta == nil {
		return true
	}
	if ta.Comparable() {
		return comparableEqual(a, b)
	}
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	switch ra.Kind() {
	case reflect.Slice:
		return ra.Len() == rb.Len() && ra.Pointer() == rb.Pointer()
	case reflect.Map, reflect.Func:
		return ra.Pointer() == rb.Pointer()
	}
	return false
}

// comparableEqual applies ==, which still panics for structs whose interface
// fields hold uncomparable values at runtime
func comparableEqual(a, b Object) (equal bool) {
	defer func() {
		if recover() != nil {
			equal = false
		}
	}()
	return a == b
}

// Compare orders two values. It returns -1, 0 or 1, or an error when the
// pairing has no ordering.
func Compare(a, b Value) (int, error) {
	if a.IsUndefined() || b.IsUndefined() {
		return 0, NewEngineError(KindUndefined, ErrMsgUndefinedValue)
	}

	if a.IsNumber() && b.IsNumber() {
		if a.typ == TypeInt && b.typ == TypeInt {
			return cmpOrdered(a.i, b.i), nil
		}
		af, _ := a.AsFloat()
		bf, _ := b.AsFloat()
		return cmpOrdered(af, bf), nil
	}

	if a.typ == b.typ {
		switch a.typ {
		case TypeString:
			return strings.Compare(a.s, b.s), nil
		case TypeBool:
			return cmpOrdered(boolRank(a.b), boolRank(b.b)), nil
		case TypeSeq:
			for i := 0; i < len(a.seq) && i < len(b.seq); i++ {
				c, err := Compare(a.seq[i], b.seq[i])
				if err != nil {
					return 0, err
				}
				if c != 0 {
					return c, nil
				}
			}
			return cmpOrdered(len(a.seq), len(b.seq)), nil
		}
	}

	return 0, NewEngineError(KindType, ErrMsgCannotCompare).WithDetail(a.typ.String() + " and " + b.typ.String())
}

type ordered interface {
	~int | ~int64 | ~float64
}

func cmpOrdered[T ordered](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Contains implements the `in` operator
func Contains(container, item Value) (bool, error) {
	switch container.typ {
	case TypeString:
		s, ok := item.AsString()
		if !ok {
			return false, NewEngineError(KindType, ErrMsgNotContainer).WithDetail(item.typ.String() + " in string")
		}
		return strings.Contains(container.s, s), nil
	case TypeSeq:
		for _, el := range container.seq {
			if Equal(el, item) {
				return true, nil
			}
		}
		return false, nil
	case TypeMap:
		return container.m.Has(item), nil
	case TypeKwargs:
		name, ok := item.AsString()
		return ok && container.kw.Has(name), nil
	case TypeObject:
		_, ok := container.obj.GetAttribute(item)
		return ok, nil
	case TypeUndefined:
		return false, nil
	default:
		return false, NewEngineError(KindType, ErrMsgNotContainer).WithDetail(container.typ.String())
	}
}

// Add implements `+`: numeric addition or concatenation of strings and sequences
func Add(a, b Value) (Value, error) {
	switch {
	case a.typ == TypeInt && b.typ == TypeInt:
		r := a.i + b.i
		if (r > a.i) != (b.i > 0) {
			return Undefined(), overflowError()
		}
		return FromInt(r), nil
	case a.IsNumber() && b.IsNumber():
		af, _ := a.AsFloat()
		bf, _ := b.AsFloat()
		return FromFloat(af + bf), nil
	case a.typ == TypeString && b.typ == TypeString:
		return FromString(a.s + b.s), nil
	case a.typ == TypeSeq && b.typ == TypeSeq:
		items := make([]Value, 0, len(a.seq)+len(b.seq))
		items = append(items, a.seq...)
		items = append(items, b.seq...)
		return FromSeq(items), nil
	}
	return Undefined(), operandError(OpAdd, a, b)
}

// Sub implements `-`
func Sub(a, b Value) (Value, error) {
	switch {
	case a.typ == TypeInt && b.typ == TypeInt:
		r := a.i - b.i
		if (r < a.i) != (b.i > 0) {
			return Undefined(), overflowError()
		}
		return FromInt(r), nil
	case a.IsNumber() && b.IsNumber():
		af, _ := a.AsFloat()
		bf, _ := b.AsFloat()
		return FromFloat(af - bf), nil
	}
	return Undefined(), operandError(OpSub, a, b)
}

// Mul implements `*`. A string times an int repeats the string.
func Mul(a, b Value) (Value, error) {
	switch {
	case a.typ == TypeInt && b.typ == TypeInt:
		if a.i == 0 || b.i == 0 {
			return FromInt(0), nil
		}
		r := a.i * b.i
		if r/b.i != a.i || (a.i == -1 && b.i == math.MinInt64) || (b.i == -1 && a.i == math.MinInt64) {
			return Undefined(), overflowError()
		}
		return FromInt(r), nil
	case a.IsNumber() && b.IsNumber():
		af, _ := a.AsFloat()
		bf, _ := b.AsFloat()
		return FromFloat(af * bf), nil
	case a.typ == TypeString && b.typ == TypeInt:
		if b.i <= 0 || a.s == "" {
			return FromString(""), nil
		}
		if b.i > MaxRepeatLength/int64(len(a.s)) {
			return Undefined(), NewEngineError(KindResourceLimit, ErrMsgRepeatTooLarge).WithDetail(strconv.FormatInt(b.i, 10))
		}
		return FromString(strings.Repeat(a.s, int(b.i))), nil
	}
	return Undefined(), operandError(OpMul, a, b)
}

// Div implements `/`, which always yields a float
func Div(a, b Value) (Value, error) {
	if !a.IsNumber() || !b.IsNumber() {
		return Undefined(), operandError(OpDiv, a, b)
	}
	af, _ := a.AsFloat()
	bf, _ := b.AsFloat()
	if bf == 0 {
		return Undefined(), divisionByZeroError()
	}
	return FromFloat(af / bf), nil
}

// FloorDiv implements `//` with flooring semantics
func FloorDiv(a, b Value) (Value, error) {
	switch {
	case a.typ == TypeInt && b.typ == TypeInt:
		if b.i == 0 {
			return Undefined(), divisionByZeroError()
		}
		if a.i == math.MinInt64 && b.i == -1 {
			return Undefined(), overflowError()
		}
		q := a.i / b.i
		if (a.i%b.i != 0) && ((a.i < 0) != (b.i < 0)) {
			q--
		}
		return FromInt(q), nil
	case a.IsNumber() && b.IsNumber():
		af, _ := a.AsFloat()
		bf, _ := b.AsFloat()
		if bf == 0 {
			return Undefined(), divisionByZeroError()
		}
		return FromFloat(math.Floor(af / bf)), nil
	}
	return Undefined(), operandError(OpFloorDiv, a, b)
}

// Mod implements `%`. The result takes the sign of the divisor.
func Mod(a, b Value) (Value, error) {
	switch {
	case a.typ == TypeInt && b.typ == TypeInt:
		if b.i == 0 {
			return Undefined(), divisionByZeroError()
		}
		if b.i == -1 {
			return FromInt(0), nil
		}
		r := a.i % b.i
		if r != 0 && ((r < 0) != (b.i < 0)) {
			r += b.i
		}
		return FromInt(r), nil
	case a.IsNumber() && b.IsNumber():
		af, _ := a.AsFloat()
		bf, _ := b.AsFloat()
		if bf == 0 {
			return Undefined(), divisionByZeroError()
		}
		r := math.Mod(af, bf)
		if r != 0 && ((r < 0) != (bf < 0)) {
			r += bf
		}
		return FromFloat(r), nil
	}
	return Undefined(), operandError(OpMod, a, b)
}

// Neg implements unary minus
func Neg(a Value) (Value, error) {
	switch a.typ {
	case TypeInt:
		if a.i == math.MinInt64 {
			return Undefined(), overflowError()
		}
		return FromInt(-a.i), nil
	case TypeFloat:
		return FromFloat(-a.f), nil
	}
	return Undefined(), NewEngineError(KindType, ErrMsgInvalidOperand).WithDetail(string(OpSub) + a.typ.String())
}

// Pos implements unary plus
func Pos(a Value) (Value, error) {
	if a.IsNumber() {
		return a, nil
	}
	return Undefined(), NewEngineError(KindType, ErrMsgInvalidOperand).WithDetail(string(OpAdd) + a.typ.String())
}

// Concat implements `~`, stringifying both operands
func Concat(a, b Value) Value {
	return FromString(a.String() + b.String())
}

func overflowError() error {
	return NewEngineError(KindArithmetic, ErrMsgIntegerOverflow)
}

func divisionByZeroError() error {
	return NewEngineError(KindArithmetic, ErrMsgDivisionByZero)
}

func operandError(op Operator, a, b Value) error {
	return NewEngineError(KindType, ErrMsgInvalidOperand).WithDetail(a.typ.String() + " " + string(op) + " " + b.typ.String())
}
