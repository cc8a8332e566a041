package internal

// UndefinedBehavior controls how undefined values are treated during evaluation
type UndefinedBehavior int

// Undefined behavior constants
const (
	// UndefinedLenient renders undefined as empty and treats it as false
	UndefinedLenient UndefinedBehavior = iota
	// UndefinedChainable also allows attribute and item access on undefined
	UndefinedChainable
	// UndefinedStrict fails when undefined is printed, tested or operated on
	UndefinedStrict
)

// Undefined behavior names
const (
	UndefinedNameLenient   = "lenient"
	UndefinedNameChainable = "chainable"
	UndefinedNameStrict    = "strict"
)

// String returns the name of the behavior
func (b UndefinedBehavior) String() string {
	switch b {
	case UndefinedChainable:
		return UndefinedNameChainable
	case UndefinedStrict:
		return UndefinedNameStrict
	default:
		return UndefinedNameLenient
	}
}

// State is the per-render scope: globals, then the render context, then
// names bound by `set`. After rendering it is a read-only snapshot.
type State struct {
	name     string
	globals  *OrderedMap
	ctx      Value
	locals   *OrderedMap
	behavior UndefinedBehavior
}

// NewState creates the scope for one render. ctx must be a map, kwargs,
// object, none or undefined value.
func NewState(name string, globals *OrderedMap, ctx Value, behavior UndefinedBehavior) (*State, error) {
	switch ctx.Type() {
	case TypeUndefined, TypeNone:
		ctx = FromMap(nil)
	case TypeMap, TypeKwargs, TypeObject:
	default:
		return nil, NewEngineError(KindInvalidContext, ErrMsgInvalidContext).WithDetail(ctx.Type().String())
	}
	return &State{
		name:     name,
		globals:  globals,
		ctx:      ctx,
		locals:   NewOrderedMap(0),
		behavior: behavior,
	}, nil
}

// Name returns the name of the template being rendered
func (s *State) Name() string {
	return s.name
}

// UndefinedBehavior returns the undefined handling mode of the render
func (s *State) UndefinedBehavior() UndefinedBehavior {
	return s.behavior
}

// Lookup resolves a name through locals, context and globals. Missing names
// are undefined.
func (s *State) Lookup(name string) Value {
	v, _ := s.LookupOK(name)
	return v
}

// LookupOK resolves a name and reports whether it was found
func (s *State) LookupOK(name string) (Value, bool) {
	if v, ok := s.locals.GetStr(name); ok {
		return v, true
	}
	if v, ok := lookupIn(s.ctx, name); ok {
		return v, true
	}
	if v, ok := s.globals.GetStr(name); ok {
		return v, true
	}
	return Undefined(), false
}

func lookupIn(scope Value, name string) (Value, bool) {
	switch scope.Type() {
	case TypeMap:
		m, _ := scope.AsMap()
		return m.GetStr(name)
	case TypeKwargs:
		kw, _ := scope.AsKwargs()
		return kw.Peek(name)
	case TypeObject:
		obj, _ := scope.AsObject()
		return obj.GetAttribute(FromString(name))
	}
	return Undefined(), false
}

// set binds a name in the local layer
func (s *State) set(name string, v Value) {
	s.locals.SetStr(name, v)
}

// Exports returns the names bound by `set` and their values
func (s *State) Exports() *OrderedMap {
	return s.locals.Clone()
}

// ExportNames returns the names bound by `set` in binding order
func (s *State) ExportNames() []string {
	keys := s.locals.Keys()
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	return names
}
