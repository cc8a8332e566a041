package internal

// registerBuiltinFunctions registers the global functions
func registerBuiltinFunctions(r *CallableRegistry) {
	// range(lower, upper=?, step=1); range(n) counts from 0 to n-1
	r.MustRegister(&Callable{
		Name: FuncNameRange,
		Signature: Signature{Params: []Param{
			{Name: ParamNameLower, Type: ParamInt},
			{Name: ParamNameUpper, Type: ParamInt, Optional: true},
			{Name: ParamNameStep, Type: ParamInt, Optional: true, Default: FromInt(1)},
		}},
		Fn: func(_ *State, args *Args) (Value, error) {
			lower, upper := int64(0), args.Int(ParamNameLower)
			if args.Has(ParamNameUpper) {
				lower, upper = upper, args.Int(ParamNameUpper)
			}
			return rangeValues(lower, upper, args.Int(ParamNameStep))
		},
	})

	// dict(**kwargs)
	r.MustRegister(&Callable{
		Name:      FuncNameDict,
		Signature: Signature{KwRest: ParamNameKwargs},
		Fn: func(_ *State, args *Args) (Value, error) {
			kwargs := args.Kwargs()
			m := NewOrderedMap(kwargs.Len())
			for _, name := range kwargs.Keys() {
				v, _ := kwargs.Get(name)
				m.SetStr(name, v)
			}
			return FromMap(m), nil
		},
	})
}

func rangeValues(lower, upper, step int64) (Value, error) {
	if step == 0 {
		return Undefined(), NewEngineError(KindInvalidOperation, ErrMsgRangeStepZero).WithName(FuncNameRange)
	}

	var count int64
	switch {
	case step > 0 && upper > lower:
		count = (upper - lower + step - 1) / step
	case step < 0 && upper < lower:
		count = (lower - upper - step - 1) / -step
	}
	if count > MaxRangeLength || count < 0 {
		return Undefined(), NewEngineError(KindResourceLimit, ErrMsgRangeTooLarge).WithName(FuncNameRange)
	}

	items := make([]Value, 0, count)
	for i := int64(0); i < count; i++ {
		items = append(items, FromInt(lower+i*step))
	}
	return FromSeq(items), nil
}
