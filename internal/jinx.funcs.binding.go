package internal

import "fmt"

// KeywordArg is a keyword argument at a call site
type KeywordArg struct {
	Name  string
	Value Value
}

// Args holds the arguments of one call after binding against a Signature
type Args struct {
	name     string
	values   map[string]Value
	supplied map[string]bool
	rest     []Value
	kwargs   *Kwargs
}

// Bind matches call-site arguments to a signature:
//  1. positional arguments fill declared parameters left to right
//  2. remaining parameters are filled from keyword arguments by name
//  3. extra positional arguments go to Rest, extra keywords to KwRest
//  4. without a keyword collector, unmatched keywords fail the call
//  5. required parameters must be supplied; optional ones take Default
//  6. supplied values must match the declared parameter type
func Bind(name string, sig Signature, positional []Value, keywords []KeywordArg) (*Args, error) {
	args := &Args{
		name:     name,
		values:   make(map[string]Value, len(sig.Params)),
		supplied: make(map[string]bool, len(sig.Params)),
	}

	nFill := min(len(positional), len(sig.Params))
	for i := 0; i < nFill; i++ {
		args.values[sig.Params[i].Name] = positional[i]
		args.supplied[sig.Params[i].Name] = true
	}

	var unmatched []string
	if sig.KwRest != "" {
		args.kwargs = NewKwargs()
	}
	for _, kw := range keywords {
		if paramIndex(sig, kw.Name) >= 0 {
			if args.supplied[kw.Name] {
				return nil, NewEngineError(KindDuplicateArgument, ErrMsgDuplicateArgument).WithName(kw.Name).WithDetail(name)
			}
			args.values[kw.Name] = kw.Value
			args.supplied[kw.Name] = true
			continue
		}
		if args.kwargs != nil {
			args.kwargs.set(kw.Name, kw.Value)
			continue
		}
		unmatched = append(unmatched, kw.Name)
	}

	if len(positional) > len(sig.Params) {
		if sig.Rest == "" {
			return nil, NewEngineError(KindTooManyArguments, ErrMsgTooManyArguments).WithName(name).
				WithDetail(fmt.Sprintf(ErrFmtArgumentCount, len(sig.Params), len(positional)))
		}
		args.rest = positional[len(sig.Params):]
	}
	if len(unmatched) > 0 {
		return nil, NewEngineError(KindUnusedKeywordArgument, ErrMsgUnusedKeywordArgument).WithName(unmatched[0]).WithDetail(name)
	}

	for _, p := range sig.Params {
		v, ok := args.values[p.Name]
		if !ok {
			if !p.Optional {
				return nil, NewEngineError(KindMissingArgument, ErrMsgMissingArgument).WithName(p.Name).WithDetail(name)
			}
			args.values[p.Name] = p.Default
			continue
		}
		coerced, ok := p.Type.coerce(v)
		if !ok {
			return nil, NewEngineError(KindArgumentType, ErrMsgArgumentType).WithName(p.Name).
				WithExpected(p.Type.String()).
				WithDetail(fmt.Sprintf(ErrFmtArgumentType, p.Type, v.Type()))
		}
		args.values[p.Name] = coerced
	}

	return args, nil
}

// Argument binding format strings
const (
	ErrFmtArgumentCount = "expected at most %d, got %d"
	ErrFmtArgumentType  = "expected %s, got %s"
)

func paramIndex(sig Signature, name string) int {
	for i, p := range sig.Params {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// CallableName returns the name of the callable being invoked
func (a *Args) CallableName() string {
	return a.name
}

// Value returns a bound parameter; unknown names are undefined
func (a *Args) Value(name string) Value {
	return a.values[name]
}

// Has reports whether the caller supplied the parameter
func (a *Args) Has(name string) bool {
	return a.supplied[name]
}

// String returns a string parameter
func (a *Args) String(name string) string {
	s, _ := a.values[name].AsString()
	return s
}

// Int returns an int parameter
func (a *Args) Int(name string) int64 {
	i, _ := a.values[name].AsInt()
	return i
}

// Float returns a numeric parameter as float64
func (a *Args) Float(name string) float64 {
	f, _ := a.values[name].AsFloat()
	return f
}

// Bool returns a bool parameter
func (a *Args) Bool(name string) bool {
	b, _ := a.values[name].AsBool()
	return b
}

// Seq returns a sequence parameter
func (a *Args) Seq(name string) []Value {
	s, _ := a.values[name].AsSeq()
	return s
}

// Rest returns the extra positional arguments
func (a *Args) Rest() []Value {
	return a.rest
}

// Kwargs returns the keyword collector, or nil if the signature has none
func (a *Args) Kwargs() *Kwargs {
	return a.kwargs
}
