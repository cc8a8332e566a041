package internal

import (
	"errors"
	"fmt"
)

// ErrorKind classifies engine failures
type ErrorKind string

// Error kind constants
const (
	KindSyntax                ErrorKind = "syntax"
	KindUndefined             ErrorKind = "undefined"
	KindUnknownFilter         ErrorKind = "unknown_filter"
	KindUnknownFunction       ErrorKind = "unknown_function"
	KindType                  ErrorKind = "type"
	KindArgumentType          ErrorKind = "argument_type"
	KindMissingArgument       ErrorKind = "missing_argument"
	KindUnusedKeywordArgument ErrorKind = "unused_keyword_argument"
	KindTooManyArguments      ErrorKind = "too_many_arguments"
	KindDuplicateArgument     ErrorKind = "duplicate_argument"
	KindInvalidContext        ErrorKind = "invalid_context"
	KindArithmetic            ErrorKind = "arithmetic"
	KindResourceLimit         ErrorKind = "resource_limit_exceeded"
	KindNotFound              ErrorKind = "not_found"
	KindInvalidOperation      ErrorKind = "invalid_operation"
	KindCallFailed            ErrorKind = "call_failed"
)

// Sentinel errors, one per kind. EngineError.Is matches these.
var (
	ErrSyntax                = errors.New("syntax error")
	ErrUndefined             = errors.New("undefined value")
	ErrUnknownFilter         = errors.New("unknown filter")
	ErrUnknownFunction       = errors.New("unknown function")
	ErrType                  = errors.New("type error")
	ErrArgumentType          = errors.New("argument type error")
	ErrMissingArgument       = errors.New("missing argument")
	ErrUnusedKeywordArgument = errors.New("unused keyword argument")
	ErrTooManyArguments      = errors.New("too many arguments")
	ErrDuplicateArgument     = errors.New("duplicate argument")
	ErrInvalidContext        = errors.New("invalid context")
	ErrArithmetic            = errors.New("arithmetic error")
	ErrResourceLimit         = errors.New("resource limit exceeded")
	ErrNotFound              = errors.New("not found")
	ErrInvalidOperation      = errors.New("invalid operation")
	ErrCallFailed            = errors.New("call failed")
)

var kindSentinels = map[ErrorKind]error{
	KindSyntax:                ErrSyntax,
	KindUndefined:             ErrUndefined,
	KindUnknownFilter:         ErrUnknownFilter,
	KindUnknownFunction:       ErrUnknownFunction,
	KindType:                  ErrType,
	KindArgumentType:          ErrArgumentType,
	KindMissingArgument:       ErrMissingArgument,
	KindUnusedKeywordArgument: ErrUnusedKeywordArgument,
	KindTooManyArguments:      ErrTooManyArguments,
	KindDuplicateArgument:     ErrDuplicateArgument,
	KindInvalidContext:        ErrInvalidContext,
	KindArithmetic:            ErrArithmetic,
	KindResourceLimit:         ErrResourceLimit,
	KindNotFound:              ErrNotFound,
	KindInvalidOperation:      ErrInvalidOperation,
	KindCallFailed:            ErrCallFailed,
}

// Sentinel returns the sentinel error for a kind, or nil for unknown kinds
func (k ErrorKind) Sentinel() error {
	return kindSentinels[k]
}

// EngineError is the single error type produced inside the engine.
// Position is zero when the failure has no source location.
type EngineError struct {
	Kind     ErrorKind
	Message  string
	Name     string // offending variable, filter, function or parameter name
	Detail   string
	Expected string // expected type for argument type errors
	Template string
	Position Position
	Cause    error
}

// NewEngineError creates an engine error of the given kind
func NewEngineError(kind ErrorKind, message string) *EngineError {
	return &EngineError{Kind: kind, Message: message}
}

// WithName sets the offending name
func (e *EngineError) WithName(name string) *EngineError {
	e.Name = name
	return e
}

// WithDetail sets additional detail text
func (e *EngineError) WithDetail(detail string) *EngineError {
	e.Detail = detail
	return e
}

// WithExpected sets the expected type
func (e *EngineError) WithExpected(expected string) *EngineError {
	e.Expected = expected
	return e
}

// WithPosition sets the source position if none is set yet
func (e *EngineError) WithPosition(pos Position) *EngineError {
	if !e.Position.IsValid() {
		e.Position = pos
	}
	return e
}

// WithCause attaches an underlying error
func (e *EngineError) WithCause(cause error) *EngineError {
	e.Cause = cause
	return e
}

// Error implements the error interface
func (e *EngineError) Error() string {
	msg := e.Message
	if e.Name != "" {
		msg = fmt.Sprintf(ErrFmtWithName, msg, e.Name)
	}
	if e.Detail != "" {
		msg = fmt.Sprintf(ErrFmtWithDetail, msg, e.Detail)
	}
	if e.Position.IsValid() {
		if e.Template != "" {
			msg = fmt.Sprintf(ErrFmtWithTemplatePosition, msg, e.Template, e.Position.String())
		} else {
			msg = fmt.Sprintf(ErrFmtWithPosition, msg, e.Position.String())
		}
	}
	if e.Cause != nil {
		msg = fmt.Sprintf(ErrFmtWithCause, msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause
func (e *EngineError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is the sentinel for this error's kind
func (e *EngineError) Is(target error) bool {
	return target != nil && target == e.Kind.Sentinel()
}

// AsEngineError extracts an *EngineError from an error chain
func AsEngineError(err error) (*EngineError, bool) {
	var engErr *EngineError
	if errors.As(err, &engErr) {
		return engErr, true
	}
	return nil, false
}

// annotate fills template name and position on engine errors that lack them
func annotate(err error, template string, pos Position) error {
	if engErr, ok := AsEngineError(err); ok {
		if engErr.Template == "" {
			engErr.Template = template
		}
		engErr.WithPosition(pos)
		return engErr
	}
	return err
}

// Error format strings
const (
	ErrFmtWithName             = "%s: %s"
	ErrFmtWithDetail           = "%s (%s)"
	ErrFmtWithPosition         = "%s at %s"
	ErrFmtWithTemplatePosition = "%s in %s at %s"
	ErrFmtWithCause            = "%s: %v"
)

// Error message constants
const (
	ErrMsgUnterminatedVariable = "unterminated variable block"
	ErrMsgUnterminatedBlock    = "unterminated statement block"
	ErrMsgUnterminatedComment  = "unterminated comment"
	ErrMsgUnterminatedStr      = "unterminated string literal"
	ErrMsgUnexpectedChar       = "unexpected character"
	ErrMsgInvalidNumber        = "invalid number literal"
	ErrMsgEmptyExpression      = "empty expression"
	ErrMsgUnexpectedToken      = "unexpected token"
	ErrMsgUnexpectedEOF        = "unexpected end of expression"
	ErrMsgExpectedToken        = "expected token"
	ErrMsgEmptyStatement       = "empty statement"
	ErrMsgUnknownStatement     = "unknown statement"
	ErrMsgInvalidAssignTarget  = "invalid assignment target"
	ErrMsgPositionalAfterKw    = "positional argument follows keyword argument"
	ErrMsgDuplicateKeyword     = "duplicate keyword argument"
	ErrMsgNotCallable          = "only named functions can be called"
	ErrMsgExpressionTooDeep    = "expression nesting too deep"

	ErrMsgUndefinedValue     = "undefined value"
	ErrMsgUndefinedAttribute = "cannot look up attribute of undefined value"
	ErrMsgUnknownFilter      = "unknown filter"
	ErrMsgUnknownFunction    = "unknown function"
	ErrMsgCannotCompare      = "cannot compare values"
	ErrMsgInvalidOperand     = "invalid operand types"
	ErrMsgIntegerOverflow    = "integer overflow"
	ErrMsgDivisionByZero     = "division by zero"
	ErrMsgInvalidContext     = "context must be a map"
	ErrMsgFuelExhausted      = "evaluation step limit exceeded"
	ErrMsgDepthExceeded      = "maximum evaluation depth exceeded"
	ErrMsgNotIterable        = "value is not iterable"
	ErrMsgNotContainer       = "value does not support containment checks"
	ErrMsgUnsupportedValue   = "unsupported host value"
	ErrMsgWriteFailed        = "failed to write output"
	ErrMsgRepeatTooLarge     = "repeated string is too large"
	ErrMsgValueTooDeep       = "host value nesting too deep"

	ErrMsgMissingArgument       = "missing argument"
	ErrMsgTooManyArguments      = "too many positional arguments"
	ErrMsgDuplicateArgument     = "argument supplied both positionally and by keyword"
	ErrMsgUnusedKeywordArgument = "unused keyword argument"
	ErrMsgArgumentType          = "argument has wrong type"
	ErrMsgCallFailed            = "callable failed"

	ErrMsgEmptyName     = "name cannot be empty"
	ErrMsgNilCallable   = "callable cannot be nil"
	ErrMsgInvalidSchema = "invalid signature"
)
