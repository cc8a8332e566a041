package internal

import "fmt"

// Builtin filter names
const (
	FilterNameUpper      = "upper"
	FilterNameLower      = "lower"
	FilterNameTitle      = "title"
	FilterNameCapitalize = "capitalize"
	FilterNameTrim       = "trim"
	FilterNameReplace    = "replace"
	FilterNameLength     = "length"
	FilterNameCount      = "count"
	FilterNameDefault    = "default"
	FilterNameJoin       = "join"
	FilterNameFirst      = "first"
	FilterNameLast       = "last"
	FilterNameReverse    = "reverse"
	FilterNameSort       = "sort"
	FilterNameList       = "list"
	FilterNameItems      = "items"
	FilterNameUnique     = "unique"
	FilterNameSum        = "sum"
	FilterNameMin        = "min"
	FilterNameMax        = "max"
	FilterNameAbs        = "abs"
	FilterNameInt        = "int"
	FilterNameFloat      = "float"
	FilterNameRound      = "round"
	FilterNameString     = "string"
	FilterNameToJSON     = "tojson"
	FilterNameToYAML     = "toyaml"
)

// Builtin function names
const (
	FuncNameRange = "range"
	FuncNameDict  = "dict"
)

// Builtin parameter names
const (
	ParamNameValue         = "value"
	ParamNameDefaultValue  = "default_value"
	ParamNameBoolean       = "boolean"
	ParamNameSeparator     = "d"
	ParamNameReverse       = "reverse"
	ParamNameCaseSensitive = "case_sensitive"
	ParamNameOld           = "old"
	ParamNameNew           = "new"
	ParamNameCount         = "count"
	ParamNameChars         = "chars"
	ParamNameDefault       = "default"
	ParamNamePrecision     = "precision"
	ParamNameStart         = "start"
	ParamNameIndent        = "indent"
	ParamNameLower         = "lower"
	ParamNameUpper         = "upper"
	ParamNameStep          = "step"
	ParamNameKwargs        = "kwargs"
)

// Builtin limits
const (
	MaxRangeLength = 100000
)

// Builtin error messages
const (
	ErrMsgFilterExpectedString  = "expected a string"
	ErrMsgFilterExpectedSeq     = "expected a sequence"
	ErrMsgFilterExpectedNumber  = "expected a number"
	ErrMsgFilterNoLength        = "value has no length"
	ErrMsgFilterNotSerializable = "value cannot be serialized"
	ErrMsgRangeStepZero         = "range step cannot be zero"
	ErrMsgRangeTooLarge         = "range is too large"
)

// RegisterBuiltins installs the builtin filters and functions
func RegisterBuiltins(filters, functions *CallableRegistry) {
	registerStringFilters(filters)
	registerCollectionFilters(filters)
	registerNumberFilters(filters)
	registerSerializeFilters(filters)
	registerBuiltinFunctions(functions)
}

// valueParam is the implicit first parameter of every filter
var valueParam = Param{Name: ParamNameValue, Type: ParamAny}

// unaryFilter builds the signature of a filter that takes only its input
func unaryFilter() Signature {
	return Signature{Params: []Param{valueParam}}
}

func filterTypeError(filter, msg string, v Value) error {
	return NewEngineError(KindType, msg).WithName(filter).WithDetail(fmt.Sprintf(ErrFmtGotType, v.Type()))
}

// ErrFmtGotType describes the type of an offending value
const ErrFmtGotType = "got %s"
