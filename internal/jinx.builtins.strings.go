package internal

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// registerStringFilters registers string manipulation filters. Non-string
// inputs are rendered to text first.
func registerStringFilters(r *CallableRegistry) {
	// upper(value)
	r.MustRegister(&Callable{
		Name:      FilterNameUpper,
		Signature: unaryFilter(),
		Fn: func(_ *State, args *Args) (Value, error) {
			return FromString(strings.ToUpper(args.Value(ParamNameValue).String())), nil
		},
	})

	// lower(value)
	r.MustRegister(&Callable{
		Name:      FilterNameLower,
		Signature: unaryFilter(),
		Fn: func(_ *State, args *Args) (Value, error) {
			return FromString(strings.ToLower(args.Value(ParamNameValue).String())), nil
		},
	})

	// title(value)
	r.MustRegister(&Callable{
		Name:      FilterNameTitle,
		Signature: unaryFilter(),
		Fn: func(_ *State, args *Args) (Value, error) {
			return FromString(titleCase(args.Value(ParamNameValue).String())), nil
		},
	})

	// capitalize(value)
	r.MustRegister(&Callable{
		Name:      FilterNameCapitalize,
		Signature: unaryFilter(),
		Fn: func(_ *State, args *Args) (Value, error) {
			return FromString(capitalize(args.Value(ParamNameValue).String())), nil
		},
	})

	// trim(value, chars=?)
	r.MustRegister(&Callable{
		Name: FilterNameTrim,
		Signature: Signature{Params: []Param{
			valueParam,
			{Name: ParamNameChars, Type: ParamString, Optional: true},
		}},
		Fn: func(_ *State, args *Args) (Value, error) {
			s := args.Value(ParamNameValue).String()
			if args.Has(ParamNameChars) {
				return FromString(strings.Trim(s, args.String(ParamNameChars))), nil
			}
			return FromString(strings.TrimSpace(s)), nil
		},
	})

	// replace(value, old, new, count=?)
	r.MustRegister(&Callable{
		Name: FilterNameReplace,
		Signature: Signature{Params: []Param{
			valueParam,
			{Name: ParamNameOld, Type: ParamString},
			{Name: ParamNameNew, Type: ParamString},
			{Name: ParamNameCount, Type: ParamInt, Optional: true, Default: FromInt(-1)},
		}},
		Fn: func(_ *State, args *Args) (Value, error) {
			s := args.Value(ParamNameValue).String()
			return FromString(strings.Replace(s, args.String(ParamNameOld), args.String(ParamNameNew), int(args.Int(ParamNameCount)))), nil
		},
	})
}

// titleCase uppercases the first letter of every word and lowercases the rest
func titleCase(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	startOfWord := true
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if startOfWord {
				sb.WriteRune(unicode.ToUpper(r))
			} else {
				sb.WriteRune(unicode.ToLower(r))
			}
			startOfWord = false
			continue
		}
		sb.WriteRune(r)
		startOfWord = true
	}
	return sb.String()
}

// capitalize uppercases the first character and lowercases the rest
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
