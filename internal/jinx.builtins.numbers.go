package internal

import (
	"math"
	"strconv"
	"strings"
)

// registerNumberFilters registers numeric and conversion filters
func registerNumberFilters(r *CallableRegistry) {
	// sum(value, start=0)
	r.MustRegister(&Callable{
		Name: FilterNameSum,
		Signature: Signature{Params: []Param{
			valueParam,
			{Name: ParamNameStart, Type: ParamNumber, Optional: true, Default: FromInt(0)},
		}},
		Fn: func(_ *State, args *Args) (Value, error) {
			items, err := iterate(FilterNameSum, args.Value(ParamNameValue))
			if err != nil {
				return Undefined(), err
			}
			total := args.Value(ParamNameStart)
			for _, item := range items {
				if !item.IsNumber() {
					return Undefined(), filterTypeError(FilterNameSum, ErrMsgFilterExpectedNumber, item)
				}
				if total, err = Add(total, item); err != nil {
					return Undefined(), err
				}
			}
			return total, nil
		},
	})

	// abs(value)
	r.MustRegister(&Callable{
		Name:      FilterNameAbs,
		Signature: Signature{Params: []Param{{Name: ParamNameValue, Type: ParamNumber}}},
		Fn: func(_ *State, args *Args) (Value, error) {
			v := args.Value(ParamNameValue)
			if i, ok := v.AsInt(); ok {
				if i >= 0 {
					return v, nil
				}
				return Neg(v)
			}
			return FromFloat(math.Abs(args.Float(ParamNameValue))), nil
		},
	})

	// int(value, default=0)
	r.MustRegister(&Callable{
		Name: FilterNameInt,
		Signature: Signature{Params: []Param{
			valueParam,
			{Name: ParamNameDefault, Optional: true, Default: FromInt(0)},
		}},
		Fn: func(_ *State, args *Args) (Value, error) {
			if i, ok := toInt(args.Value(ParamNameValue)); ok {
				return FromInt(i), nil
			}
			return args.Value(ParamNameDefault), nil
		},
	})

	// float(value, default=0.0)
	r.MustRegister(&Callable{
		Name: FilterNameFloat,
		Signature: Signature{Params: []Param{
			valueParam,
			{Name: ParamNameDefault, Optional: true, Default: FromFloat(0)},
		}},
		Fn: func(_ *State, args *Args) (Value, error) {
			if f, ok := toFloat(args.Value(ParamNameValue)); ok {
				return FromFloat(f), nil
			}
			return args.Value(ParamNameDefault), nil
		},
	})

	// round(value, precision=0)
	r.MustRegister(&Callable{
		Name: FilterNameRound,
		Signature: Signature{Params: []Param{
			{Name: ParamNameValue, Type: ParamFloat},
			{Name: ParamNamePrecision, Type: ParamInt, Optional: true, Default: FromInt(0)},
		}},
		Fn: func(_ *State, args *Args) (Value, error) {
			scale := math.Pow(10, float64(args.Int(ParamNamePrecision)))
			return FromFloat(math.Round(args.Float(ParamNameValue)*scale) / scale), nil
		},
	})

	// string(value)
	r.MustRegister(&Callable{
		Name:      FilterNameString,
		Signature: unaryFilter(),
		Fn: func(_ *State, args *Args) (Value, error) {
			return FromString(args.Value(ParamNameValue).String()), nil
		},
	})
}

// toInt converts numbers, bools and numeric strings to an int. Floats are
// truncated.
func toInt(v Value) (int64, bool) {
	switch v.Type() {
	case TypeInt:
		i, _ := v.AsInt()
		return i, true
	case TypeFloat:
		f, _ := v.AsFloat()
		if math.IsNaN(f) || math.IsInf(f, 0) || f >= math.MaxInt64 || f < math.MinInt64 {
			return 0, false
		}
		return int64(f), true
	case TypeBool:
		b, _ := v.AsBool()
		return int64(boolRank(b)), true
	case TypeString:
		s := strings.TrimSpace(v.String())
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return toInt(FromFloat(f))
		}
	}
	return 0, false
}

// toFloat converts numbers, bools and numeric strings to a float
func toFloat(v Value) (float64, bool) {
	switch v.Type() {
	case TypeInt, TypeFloat:
		return v.AsFloat()
	case TypeBool:
		b, _ := v.AsBool()
		return float64(boolRank(b)), true
	case TypeString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.String()), 64)
		return f, err == nil
	}
	return 0, false
}
