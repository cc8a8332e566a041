package internal

import (
	"sort"
	"strings"
)

// registerCollectionFilters registers filters over sequences, maps and objects
func registerCollectionFilters(r *CallableRegistry) {
	// length(value) and its alias count(value)
	for _, filterName := range []string{FilterNameLength, FilterNameCount} {
		r.MustRegister(&Callable{
			Name:      filterName,
			Signature: unaryFilter(),
			Fn: func(_ *State, args *Args) (Value, error) {
				v := args.Value(ParamNameValue)
				if v.IsUndefined() {
					return FromInt(0), nil
				}
				n, ok := v.Len()
				if !ok {
					return Undefined(), filterTypeError(filterName, ErrMsgFilterNoLength, v)
				}
				return FromInt(int64(n)), nil
			},
		})
	}

	// default(value, default_value="", boolean=false)
	r.MustRegister(&Callable{
		Name: FilterNameDefault,
		Signature: Signature{Params: []Param{
			valueParam,
			{Name: ParamNameDefaultValue, Optional: true, Default: FromString("")},
			{Name: ParamNameBoolean, Type: ParamBool, Optional: true, Default: FromBool(false)},
		}},
		Fn: func(_ *State, args *Args) (Value, error) {
			v := args.Value(ParamNameValue)
			if v.IsUndefined() || (args.Bool(ParamNameBoolean) && !v.IsTrue()) {
				return args.Value(ParamNameDefaultValue), nil
			}
			return v, nil
		},
	})

	// join(value, d="")
	r.MustRegister(&Callable{
		Name: FilterNameJoin,
		Signature: Signature{Params: []Param{
			valueParam,
			{Name: ParamNameSeparator, Type: ParamString, Optional: true, Default: FromString("")},
		}},
		Fn: func(_ *State, args *Args) (Value, error) {
			items, err := iterate(FilterNameJoin, args.Value(ParamNameValue))
			if err != nil {
				return Undefined(), err
			}
			parts := make([]string, len(items))
			for i, item := range items {
				parts[i] = item.String()
			}
			return FromString(strings.Join(parts, args.String(ParamNameSeparator))), nil
		},
	})

	// first(value)
	r.MustRegister(&Callable{
		Name:      FilterNameFirst,
		Signature: unaryFilter(),
		Fn: func(_ *State, args *Args) (Value, error) {
			items, err := iterate(FilterNameFirst, args.Value(ParamNameValue))
			if err != nil || len(items) == 0 {
				return Undefined(), err
			}
			return items[0], nil
		},
	})

	// last(value)
	r.MustRegister(&Callable{
		Name:      FilterNameLast,
		Signature: unaryFilter(),
		Fn: func(_ *State, args *Args) (Value, error) {
			items, err := iterate(FilterNameLast, args.Value(ParamNameValue))
			if err != nil || len(items) == 0 {
				return Undefined(), err
			}
			return items[len(items)-1], nil
		},
	})

	// reverse(value): strings reverse by character, everything else by item
	r.MustRegister(&Callable{
		Name:      FilterNameReverse,
		Signature: unaryFilter(),
		Fn: func(_ *State, args *Args) (Value, error) {
			v := args.Value(ParamNameValue)
			if s, ok := v.AsString(); ok {
				runes := []rune(s)
				for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
					runes[i], runes[j] = runes[j], runes[i]
				}
				return FromString(string(runes)), nil
			}
			items, err := iterate(FilterNameReverse, v)
			if err != nil {
				return Undefined(), err
			}
			out := make([]Value, len(items))
			for i, item := range items {
				out[len(items)-1-i] = item
			}
			return FromSeq(out), nil
		},
	})

	// sort(value, reverse=false, case_sensitive=false)
	r.MustRegister(&Callable{
		Name: FilterNameSort,
		Signature: Signature{Params: []Param{
			valueParam,
			{Name: ParamNameReverse, Type: ParamBool, Optional: true, Default: FromBool(false)},
			{Name: ParamNameCaseSensitive, Type: ParamBool, Optional: true, Default: FromBool(false)},
		}},
		Fn: func(_ *State, args *Args) (Value, error) {
			items, err := iterate(FilterNameSort, args.Value(ParamNameValue))
			if err != nil {
				return Undefined(), err
			}
			out, err := sortValues(items, args.Bool(ParamNameCaseSensitive))
			if err != nil {
				return Undefined(), err
			}
			if args.Bool(ParamNameReverse) {
				for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
					out[i], out[j] = out[j], out[i]
				}
			}
			return FromSeq(out), nil
		},
	})

	// list(value)
	r.MustRegister(&Callable{
		Name:      FilterNameList,
		Signature: unaryFilter(),
		Fn: func(_ *State, args *Args) (Value, error) {
			items, err := iterate(FilterNameList, args.Value(ParamNameValue))
			if err != nil {
				return Undefined(), err
			}
			out := make([]Value, len(items))
			copy(out, items)
			return FromSeq(out), nil
		},
	})

	// items(value): [key, value] pairs of a map or object
	r.MustRegister(&Callable{
		Name:      FilterNameItems,
		Signature: unaryFilter(),
		Fn: func(_ *State, args *Args) (Value, error) {
			v := args.Value(ParamNameValue)
			switch v.Type() {
			case TypeUndefined:
				return FromSeq(nil), nil
			case TypeMap, TypeKwargs, TypeObject:
			default:
				return Undefined(), filterTypeError(FilterNameItems, ErrMsgNotIterable, v)
			}
			keys := v.Keys()
			out := make([]Value, len(keys))
			for i, k := range keys {
				out[i] = FromSeq([]Value{k, v.GetItem(k)})
			}
			return FromSeq(out), nil
		},
	})

	// unique(value): first occurrence wins
	r.MustRegister(&Callable{
		Name:      FilterNameUnique,
		Signature: unaryFilter(),
		Fn: func(_ *State, args *Args) (Value, error) {
			items, err := iterate(FilterNameUnique, args.Value(ParamNameValue))
			if err != nil {
				return Undefined(), err
			}
			seen := NewOrderedMap(len(items))
			var out []Value
			for _, item := range items {
				if seen.Has(item) {
					continue
				}
				seen.Set(item, None())
				out = append(out, item)
			}
			return FromSeq(out), nil
		},
	})

	// min(value) and max(value)
	for _, filterName := range []string{FilterNameMin, FilterNameMax} {
		wantMax := filterName == FilterNameMax
		r.MustRegister(&Callable{
			Name:      filterName,
			Signature: unaryFilter(),
			Fn: func(_ *State, args *Args) (Value, error) {
				items, err := iterate(filterName, args.Value(ParamNameValue))
				if err != nil || len(items) == 0 {
					return Undefined(), err
				}
				best := items[0]
				for _, item := range items[1:] {
					c, err := Compare(item, best)
					if err != nil {
						return Undefined(), err
					}
					if (wantMax && c > 0) || (!wantMax && c < 0) {
						best = item
					}
				}
				return best, nil
			},
		})
	}
}

// iterate returns the items of an iterable filter input
func iterate(filter string, v Value) ([]Value, error) {
	items, ok := v.Iterate()
	if !ok {
		return nil, filterTypeError(filter, ErrMsgNotIterable, v)
	}
	return items, nil
}

// sortValues returns a sorted copy. Strings compare case-insensitively
// unless caseSensitive is set.
func sortValues(items []Value, caseSensitive bool) ([]Value, error) {
	out := make([]Value, len(items))
	copy(out, items)

	key := func(v Value) Value {
		if s, ok := v.AsString(); ok && !caseSensitive {
			return FromString(strings.ToLower(s))
		}
		return v
	}

	var sortErr error
	sort.SliceStable(out, func(i, j int) bool {
		c, err := Compare(key(out[i]), key(out[j]))
		if err != nil && sortErr == nil {
			sortErr = err
		}
		return c < 0
	})
	if sortErr != nil {
		return nil, sortErr
	}
	return out, nil
}
