package jinx

// Version is the library version reported by the CLI
const Version = "0.4.0"

// Default names for templates and expressions compiled from strings
const (
	DefaultTemplateName   = "<string>"
	DefaultExpressionName = "<expression>"
)

// Default limits
const (
	DefaultMaxDepth = 100
	DefaultFuel     = 0 // unlimited
)

// Error code constants for categorization
const (
	ErrCodeSyntax      = "JINX_SYNTAX"
	ErrCodeRender      = "JINX_RENDER"
	ErrCodeCall        = "JINX_CALL"
	ErrCodeEnvironment = "JINX_ENVIRONMENT"
	ErrCodeValue       = "JINX_VALUE"
)

// Error metadata keys
const (
	MetaKeyKind         = "kind"
	MetaKeyTemplateName = "template_name"
	MetaKeyLine         = "line"
	MetaKeyColumn       = "column"
	MetaKeyOffset       = "offset"
	MetaKeyName         = "name"
	MetaKeyExpected     = "expected"
	MetaKeyDetail       = "detail"
)

// Log message constants
const (
	LogMsgEnvironmentCreated = "environment created"
	LogMsgEnvironmentFrozen  = "environment frozen"
	LogMsgTemplateAdded      = "template added"
	LogMsgTemplateRemoved    = "template removed"
	LogMsgGlobalAdded        = "global added"
	LogMsgRenderStart        = "rendering template"
	LogMsgRenderFailed       = "template render failed"
	LogMsgExpressionCompiled = "expression compiled"
)

// Log field names
const (
	LogFieldTemplateName = "template_name"
	LogFieldName         = "name"
	LogFieldFilters      = "filter_count"
	LogFieldFunctions    = "function_count"
	LogFieldTemplates    = "template_count"
	LogFieldBehavior     = "undefined_behavior"
)

// Validation messages
const (
	ValidationMsgUnknownFilter   = "filter is not registered"
	ValidationMsgUnknownFunction = "function is not registered"
	ValidationMsgUndeclared      = "variable is never bound in the template"
)
