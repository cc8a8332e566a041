package internal

import (
	"sort"
	"sync"

	"go.uber.org/zap"
)

// ParamType is the declared type of a callable parameter
type ParamType int

// Parameter type constants
const (
	ParamAny ParamType = iota
	ParamBool
	ParamInt
	ParamFloat  // accepts ints, promoted to float
	ParamNumber // accepts ints and floats unchanged
	ParamString
	ParamSeq
	ParamMap
	ParamObject
)

// Parameter type names used in error messages
const (
	ParamTypeNameAny    = "any"
	ParamTypeNameBool   = "bool"
	ParamTypeNameInt    = "int"
	ParamTypeNameFloat  = "float"
	ParamTypeNameNumber = "number"
	ParamTypeNameString = "string"
	ParamTypeNameSeq    = "sequence"
	ParamTypeNameMap    = "map"
	ParamTypeNameObject = "object"
)

// String returns the name of the parameter type
func (t ParamType) String() string {
	switch t {
	case ParamBool:
		return ParamTypeNameBool
	case ParamInt:
		return ParamTypeNameInt
	case ParamFloat:
		return ParamTypeNameFloat
	case ParamNumber:
		return ParamTypeNameNumber
	case ParamString:
		return ParamTypeNameString
	case ParamSeq:
		return ParamTypeNameSeq
	case ParamMap:
		return ParamTypeNameMap
	case ParamObject:
		return ParamTypeNameObject
	default:
		return ParamTypeNameAny
	}
}

// coerce checks v against the parameter type, returning the value to bind
func (t ParamType) coerce(v Value) (Value, bool) {
	switch t {
	case ParamAny:
		return v, true
	case ParamBool:
		return v, v.typ == TypeBool
	case ParamInt:
		return v, v.typ == TypeInt
	case ParamFloat:
		f, ok := v.AsFloat()
		return FromFloat(f), ok
	case ParamNumber:
		return v, v.IsNumber()
	case ParamString:
		return v, v.typ == TypeString
	case ParamSeq:
		return v, v.typ == TypeSeq
	case ParamMap:
		return v, v.typ == TypeMap || v.typ == TypeKwargs
	case ParamObject:
		return v, v.typ == TypeObject
	default:
		return v, false
	}
}

// Param declares one named parameter of a callable
type Param struct {
	Name     string
	Type     ParamType
	Optional bool
	Default  Value // used when an optional parameter is not supplied
}

// Signature is the explicit binding schema of a callable. Rest names the
// variadic positional collector and KwRest the keyword collector; either may
// be empty.
type Signature struct {
	Params []Param
	Rest   string
	KwRest string
}

// Validate checks that parameter names are non-empty and unique
func (s Signature) Validate() error {
	seen := make(map[string]bool, len(s.Params)+2)
	for _, p := range s.Params {
		if p.Name == "" {
			return NewEngineError(KindInvalidOperation, ErrMsgInvalidSchema).WithDetail(ErrMsgEmptyName)
		}
		if seen[p.Name] {
			return NewEngineError(KindInvalidOperation, ErrMsgInvalidSchema).WithName(p.Name)
		}
		seen[p.Name] = true
	}
	for _, extra := range []string{s.Rest, s.KwRest} {
		if extra == "" {
			continue
		}
		if seen[extra] {
			return NewEngineError(KindInvalidOperation, ErrMsgInvalidSchema).WithName(extra)
		}
		seen[extra] = true
	}
	return nil
}

// CallFunc is the implementation of a filter or function
type CallFunc func(st *State, args *Args) (Value, error)

// Callable is a registered filter or function
type Callable struct {
	Name      string
	Signature Signature
	Fn        CallFunc
}

// Invoke binds the call-site arguments and runs the callable. Errors that are
// not engine errors are wrapped as call failures. Keyword arguments collected
// into Kwargs but never read fail the call.
func (c *Callable) Invoke(st *State, positional []Value, keywords []KeywordArg) (Value, error) {
	args, err := Bind(c.Name, c.Signature, positional, keywords)
	if err != nil {
		return Undefined(), err
	}

	result, err := c.Fn(st, args)
	if err != nil {
		if _, ok := AsEngineError(err); ok {
			return Undefined(), err
		}
		return Undefined(), NewEngineError(KindCallFailed, ErrMsgCallFailed).WithName(c.Name).WithCause(err)
	}

	if args.kwargs != nil {
		if err := args.kwargs.AssertAllUsed(); err != nil {
			return Undefined(), err
		}
	}
	return result, nil
}

// CallableRegistry holds filters or functions by name
type CallableRegistry struct {
	callables map[string]*Callable
	mu        sync.RWMutex
	logger    *zap.Logger
}

// NewCallableRegistry creates an empty registry
func NewCallableRegistry(logger *zap.Logger) *CallableRegistry {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug(LogMsgRegistryCreated)
	return &CallableRegistry{
		callables: make(map[string]*Callable),
		logger:    logger,
	}
}

// Register adds a callable, replacing any callable with the same name
func (r *CallableRegistry) Register(c *Callable) error {
	if c == nil || c.Fn == nil {
		return NewEngineError(KindInvalidOperation, ErrMsgNilCallable)
	}
	if c.Name == "" {
		return NewEngineError(KindInvalidOperation, ErrMsgEmptyName)
	}
	if err := c.Signature.Validate(); err != nil {
		return err.(*EngineError).WithDetail(c.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.callables[c.Name]; exists {
		r.logger.Debug(LogMsgCallableReplaced, zap.String(LogFieldName, c.Name))
	} else {
		r.logger.Debug(LogMsgCallableRegistered, zap.String(LogFieldName, c.Name))
	}
	r.callables[c.Name] = c
	return nil
}

// MustRegister adds a callable and panics on error
func (r *CallableRegistry) MustRegister(c *Callable) {
	if err := r.Register(c); err != nil {
		panic(err)
	}
}

// Get retrieves a callable by name
func (r *CallableRegistry) Get(name string) (*Callable, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.callables[name]
	return c, ok
}

// Has checks if a callable is registered
func (r *CallableRegistry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.callables[name]
	return ok
}

// Names returns all registered names in sorted order
func (r *CallableRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.callables))
	for name := range r.callables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered callables
func (r *CallableRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.callables)
}
