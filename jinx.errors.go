package jinx

import (
	"errors"
	"strconv"

	"github.com/itsatony/go-cuserr"
	"github.com/itsatony/go-jinx/internal"
)

// ErrorKind classifies engine failures. Use KindOf to read it from an error.
type ErrorKind = internal.ErrorKind

// Error kinds
const (
	KindSyntax                = internal.KindSyntax
	KindUndefined             = internal.KindUndefined
	KindUnknownFilter         = internal.KindUnknownFilter
	KindUnknownFunction       = internal.KindUnknownFunction
	KindType                  = internal.KindType
	KindArgumentType          = internal.KindArgumentType
	KindMissingArgument       = internal.KindMissingArgument
	KindUnusedKeywordArgument = internal.KindUnusedKeywordArgument
	KindTooManyArguments      = internal.KindTooManyArguments
	KindDuplicateArgument     = internal.KindDuplicateArgument
	KindInvalidContext        = internal.KindInvalidContext
	KindArithmetic            = internal.KindArithmetic
	KindResourceLimitExceeded = internal.KindResourceLimit
	KindNotFound              = internal.KindNotFound
	KindInvalidOperation      = internal.KindInvalidOperation
	KindCallFailed            = internal.KindCallFailed
)

// Sentinel errors for use with errors.Is
var (
	ErrSyntax                = internal.ErrSyntax
	ErrUndefined             = internal.ErrUndefined
	ErrUnknownFilter         = internal.ErrUnknownFilter
	ErrUnknownFunction       = internal.ErrUnknownFunction
	ErrType                  = internal.ErrType
	ErrArgumentType          = internal.ErrArgumentType
	ErrMissingArgument       = internal.ErrMissingArgument
	ErrUnusedKeywordArgument = internal.ErrUnusedKeywordArgument
	ErrTooManyArguments      = internal.ErrTooManyArguments
	ErrDuplicateArgument     = internal.ErrDuplicateArgument
	ErrInvalidContext        = internal.ErrInvalidContext
	ErrArithmetic            = internal.ErrArithmetic
	ErrResourceLimitExceeded = internal.ErrResourceLimit
	ErrNotFound              = internal.ErrNotFound
	ErrInvalidOperation      = internal.ErrInvalidOperation
	ErrCallFailed            = internal.ErrCallFailed
)

// Error message constants for failures raised by the public API
const (
	ErrMsgTemplateNotFound  = "template not found"
	ErrMsgEnvironmentFrozen = "environment is frozen"
	ErrMsgEmptyTemplateName = "template name cannot be empty"
	ErrMsgEmptyGlobalName   = "global name cannot be empty"
)

// Short messages attached to wrapped engine errors, one per error code.
// The engine error itself follows as the wrapped cause.
const (
	ErrMsgSyntaxFailed      = "template compilation failed"
	ErrMsgRenderFailed      = "evaluation failed"
	ErrMsgCallFailed        = "callable invocation failed"
	ErrMsgEnvironmentFailed = "environment operation failed"
	ErrMsgValueFailed       = "value conversion failed"
)

// KindOf returns the kind of an engine error, or "" for foreign errors
func KindOf(err error) ErrorKind {
	if engErr, ok := internal.AsEngineError(err); ok {
		return engErr.Kind
	}
	return ""
}

// wrapError converts an internal engine error into a *cuserr.CustomError
// carrying its kind, position and names as metadata. The engine error stays
// in the chain so errors.Is matches the kind sentinels.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	var customErr *cuserr.CustomError
	if errors.As(err, &customErr) {
		return err
	}
	engErr, ok := internal.AsEngineError(err)
	if !ok {
		return err
	}

	code := errorCode(engErr.Kind)
	wrapped := cuserr.WrapStdError(engErr, code, errorMessage(code)).
		WithMetadata(MetaKeyKind, string(engErr.Kind))
	if engErr.Template != "" {
		wrapped = wrapped.WithMetadata(MetaKeyTemplateName, engErr.Template)
	}
	if engErr.Position.IsValid() {
		wrapped = wrapped.
			WithMetadata(MetaKeyLine, strconv.Itoa(engErr.Position.Line)).
			WithMetadata(MetaKeyColumn, strconv.Itoa(engErr.Position.Column)).
			WithMetadata(MetaKeyOffset, strconv.Itoa(engErr.Position.Offset))
	}
	if engErr.Name != "" {
		wrapped = wrapped.WithMetadata(MetaKeyName, engErr.Name)
	}
	if engErr.Expected != "" {
		wrapped = wrapped.WithMetadata(MetaKeyExpected, engErr.Expected)
	}
	if engErr.Detail != "" {
		wrapped = wrapped.WithMetadata(MetaKeyDetail, engErr.Detail)
	}
	return wrapped
}

func errorCode(kind ErrorKind) string {
	switch kind {
	case KindSyntax:
		return ErrCodeSyntax
	case KindUnknownFilter, KindUnknownFunction, KindArgumentType, KindMissingArgument,
		KindUnusedKeywordArgument, KindTooManyArguments, KindDuplicateArgument, KindCallFailed:
		return ErrCodeCall
	case KindNotFound, KindInvalidOperation:
		return ErrCodeEnvironment
	case KindInvalidContext:
		return ErrCodeValue
	default:
		return ErrCodeRender
	}
}

func errorMessage(code string) string {
	switch code {
	case ErrCodeSyntax:
		return ErrMsgSyntaxFailed
	case ErrCodeCall:
		return ErrMsgCallFailed
	case ErrCodeEnvironment:
		return ErrMsgEnvironmentFailed
	case ErrCodeValue:
		return ErrMsgValueFailed
	default:
		return ErrMsgRenderFailed
	}
}

// NewTemplateNotFoundError creates the error returned for unknown template names
func NewTemplateNotFoundError(name string) error {
	return wrapError(internal.NewEngineError(KindNotFound, ErrMsgTemplateNotFound).WithName(name))
}

// NewFrozenError creates the error returned when registering on a frozen environment
func NewFrozenError(name string) error {
	return wrapError(internal.NewEngineError(KindInvalidOperation, ErrMsgEnvironmentFrozen).WithName(name))
}

func newInvalidNameError(msg string) error {
	return wrapError(internal.NewEngineError(KindInvalidOperation, msg))
}
