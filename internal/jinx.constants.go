package internal

// SegmentType represents the kind of a raw template segment produced by the lexer
type SegmentType string

// Segment type constants
const (
	SegmentTypeText     SegmentType = "TEXT"
	SegmentTypeVariable SegmentType = "VARIABLE"
	SegmentTypeBlock    SegmentType = "BLOCK"
	SegmentTypeComment  SegmentType = "COMMENT"
	SegmentTypeEOF      SegmentType = "EOF"
)

// NodeType identifies AST node types
type NodeType int

// Node type constants
const (
	NodeTypeRoot NodeType = iota
	NodeTypeText
	NodeTypeEmit
	NodeTypeSet
)

// Node type string names for debugging
const (
	NodeTypeNameRoot = "ROOT"
	NodeTypeNameText = "TEXT"
	NodeTypeNameEmit = "EMIT"
	NodeTypeNameSet  = "SET"
)

// String returns the string representation of the node type
func (n NodeType) String() string {
	switch n {
	case NodeTypeRoot:
		return NodeTypeNameRoot
	case NodeTypeText:
		return NodeTypeNameText
	case NodeTypeEmit:
		return NodeTypeNameEmit
	case NodeTypeSet:
		return NodeTypeNameSet
	default:
		return NodeTypeNameRoot
	}
}

// Character constants
const (
	CharNewline     = '\n'
	CharCarriageRet = '\r'
	CharSpace       = ' '
	CharTab         = '\t'
	CharDoubleQuote = '"'
	CharSingleQuote = '\''
	CharBackslash   = '\\'
	CharTrim        = '-'
)

// Delimiter constants
const (
	StrVariableStart = "{{"
	StrVariableEnd   = "}}"
	StrBlockStart    = "{%"
	StrBlockEnd      = "%}"
	StrCommentStart  = "{#"
	StrCommentEnd    = "#}"
	LenDelim         = 2
)

// Statement keywords
const (
	KeywordSet = "set"
)

// Log message constants
const (
	LogMsgLexerCreated       = "lexer created"
	LogMsgTokenizerStart     = "starting tokenization"
	LogMsgTokenizerEnd       = "tokenization complete"
	LogMsgParserCreated      = "parser created"
	LogMsgParserStart        = "starting parse"
	LogMsgParserEnd          = "parse complete"
	LogMsgEvaluatorStart     = "starting evaluation"
	LogMsgEvaluatorEnd       = "evaluation complete"
	LogMsgEvaluatorFailed    = "evaluation failed"
	LogMsgBindingSet         = "local binding set"
	LogMsgFilterApplied      = "filter applied"
	LogMsgFunctionCalled     = "function called"
	LogMsgRegistryCreated    = "registry created"
	LogMsgCallableRegistered = "callable registered"
	LogMsgCallableReplaced   = "callable replaced"
	LogMsgAnalyzerStart      = "starting undeclared variable analysis"
	LogMsgAnalyzerEnd        = "undeclared variable analysis complete"
)

// Log field names
const (
	LogFieldSource       = "source_length"
	LogFieldSegments     = "segment_count"
	LogFieldNodes        = "node_count"
	LogFieldTemplateName = "template_name"
	LogFieldName         = "name"
	LogFieldKind         = "kind"
	LogFieldFuel         = "fuel_used"
	LogFieldOutput       = "output_length"
	LogFieldUndeclared   = "undeclared_count"
	LogFieldTrackPaths   = "track_paths"
)

// Display constants for debug strings
const (
	MaxStringDisplayLength = 40
	TruncatedStringLength  = 37
	TruncationSuffix       = "..."
)

// Limits
const (
	DefaultMaxDepth       = 100
	DefaultMaxSuggestions = 3
	MaxRepeatLength       = 1 << 20 // bytes produced by string repetition
	MaxValueDepth         = 512     // nesting of converted host values
)
