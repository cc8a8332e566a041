package jinx

import "github.com/itsatony/go-jinx/internal"

// State is the per-render scope handed to filters and functions and
// returned by RenderAndReturnState and EvalToState
type State = internal.State

// Args holds the bound arguments of one filter or function call
type Args = internal.Args

// CallFunc implements a filter or function. Filters receive the filtered
// value as their first parameter.
type CallFunc = internal.CallFunc

// Signature declares how call-site arguments bind to a callable
type Signature = internal.Signature

// Param declares one named parameter
type Param = internal.Param

// ParamType is the declared type of a parameter
type ParamType = internal.ParamType

// Parameter types
const (
	ParamAny    = internal.ParamAny
	ParamBool   = internal.ParamBool
	ParamInt    = internal.ParamInt
	ParamFloat  = internal.ParamFloat
	ParamNumber = internal.ParamNumber
	ParamString = internal.ParamString
	ParamSeq    = internal.ParamSeq
	ParamMap    = internal.ParamMap
	ParamObject = internal.ParamObject
)

// UndefinedBehavior controls how undefined values behave during rendering
type UndefinedBehavior = internal.UndefinedBehavior

// Undefined behaviors
const (
	UndefinedLenient   = internal.UndefinedLenient
	UndefinedChainable = internal.UndefinedChainable
	UndefinedStrict    = internal.UndefinedStrict
)

// Required declares a required parameter
func Required(name string, typ ParamType) Param {
	return Param{Name: name, Type: typ}
}

// Optional declares an optional parameter with a default value
func Optional(name string, typ ParamType, def Value) Param {
	return Param{Name: name, Type: typ, Optional: true, Default: def}
}

// Params builds a signature from declared parameters only
func Params(params ...Param) Signature {
	return Signature{Params: params}
}
