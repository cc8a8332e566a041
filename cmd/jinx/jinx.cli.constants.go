package main

// Command names
const (
	CmdNameRender   = "render"
	CmdNameVars     = "vars"
	CmdNameEval     = "eval"
	CmdNameValidate = "validate"
	CmdNameRepl     = "repl"
	CmdNameVersion  = "version"
	CmdNameHelp     = "help"
)

// Flag names - long form
const (
	FlagTemplate   = "template"
	FlagData       = "data"
	FlagDataFile   = "data-file"
	FlagOutput     = "output"
	FlagFormat     = "format"
	FlagExpression = "expr"
	FlagPaths      = "paths"
	FlagStrict     = "strict"
	FlagStrictMode = "strict-undefined"
	FlagVerbose    = "verbose"
)

// Flag names - short form
const (
	FlagTemplateShort   = "t"
	FlagDataShort       = "d"
	FlagDataFileShort   = "f"
	FlagOutputShort     = "o"
	FlagFormatShort     = "F"
	FlagExpressionShort = "e"
	FlagVerboseShort    = "v"
)

// Flag default values
const (
	FlagDefaultOutput = "-" // stdout
	FlagDefaultFormat = "text"
)

// Output formats
const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
)

// Data file extensions
const (
	ExtJSON = ".json"
	ExtYAML = ".yaml"
	ExtYML  = ".yml"
	ExtTOML = ".toml"
)

// Exit codes
const (
	ExitCodeSuccess         = 0
	ExitCodeError           = 1
	ExitCodeUsageError      = 2
	ExitCodeValidationError = 3
	ExitCodeInputError      = 4
)

// Input source indicators
const (
	InputSourceStdin = "-"
)

// Error messages - ALL must be constants
const (
	ErrMsgUnknownCommand    = "unknown command"
	ErrMsgMissingTemplate   = "template source required"
	ErrMsgMissingExpression = "expression required"
	ErrMsgInvalidData       = "invalid data"
	ErrMsgUnknownDataFormat = "unsupported data file extension"
	ErrMsgReadFileFailed    = "failed to read file"
	ErrMsgWriteOutputFailed = "failed to write output"
	ErrMsgCompileFailed     = "template compilation failed"
	ErrMsgRenderFailed      = "template rendering failed"
	ErrMsgEvalFailed        = "expression evaluation failed"
	ErrMsgInvalidFormat     = "invalid output format"
	ErrMsgInvalidFlags      = "invalid flags"
	ErrMsgLoggerFailed      = "failed to create logger"
)

// Help text templates
const (
	HelpMainUsage = `go-jinx - Jinja-style template and expression CLI

Usage:
    jinx <command> [options]

Commands:
    render      Render a template with data
    vars        List the variables a template reads
    eval        Evaluate a single expression
    validate    Validate a template without rendering
    repl        Evaluate expressions interactively
    version     Show version information
    help        Show help for a command

Use "jinx help <command>" for more information about a command.`

	HelpRenderUsage = `Render a template with data

Usage:
    jinx render [options]

Options:
    -t, --template <file>    Template file (use "-" for stdin)
    -d, --data <json>        JSON data string
    -f, --data-file <file>   Data file (.json, .yaml, .yml or .toml)
    -o, --output <file>      Output file (default: stdout)
    --strict-undefined       Fail on undefined values
    -v, --verbose            Log engine activity to stderr

Examples:
    jinx render -t template.txt -d '{"name": "Alice"}'
    jinx render -t template.txt -f data.yaml
    cat template.txt | jinx render -t - -d '{"name": "Bob"}'`

	HelpVarsUsage = `List the variables a template reads without binding them

Usage:
    jinx vars [options]

Options:
    -t, --template <file>   Template file (use "-" for stdin)
    --paths                 Report attribute paths such as user.name
    -F, --format <format>   Output format: text, json (default: text)`

	HelpEvalUsage = `Evaluate a single expression

Usage:
    jinx eval [options]

Options:
    -e, --expr <expr>        Expression to evaluate
    -d, --data <json>        JSON data string
    -f, --data-file <file>   Data file (.json, .yaml, .yml or .toml)
    -F, --format <format>    Output format: text, json (default: text)

Examples:
    jinx eval -e '1 + 2 * 3'
    jinx eval -e 'user.name | upper' -d '{"user": {"name": "ada"}}'`

	HelpValidateUsage = `Validate a template without rendering

Usage:
    jinx validate [options]

Options:
    -t, --template <file>   Template file (use "-" for stdin)
    -F, --format <format>   Output format: text, json (default: text)
    --strict                Treat warnings as errors`

	HelpReplUsage = `Evaluate expressions interactively

Usage:
    jinx repl [options]

Options:
    -d, --data <json>        JSON data string
    -f, --data-file <file>   Data file (.json, .yaml, .yml or .toml)

Lines are evaluated as expressions. Lines containing {{ or {% render as
templates, and names bound with {% set %} stay visible for later lines.
Type :vars to list bindings and :quit to exit.`

	HelpVersionUsage = `Show version information

Usage:
    jinx version [options]

Options:
    -F, --format <format>   Output format: text, json (default: text)`

	HelpHelpUsage = `Show help for a command

Usage:
    jinx help [command]`
)

// Version output format templates
const (
	VersionTextTemplate = "go-jinx version %s\nCommit: %s\nGo: %s"
	VersionUnknown      = "unknown"
	BuildSettingVCSRev  = "vcs.revision"
)

// Validation output format templates
const (
	ValidationTextSuccess      = "Template is valid"
	ValidationTextIssueHeader  = "Validation issues:"
	ValidationTextIssueFormat  = "  [%s] %s at line %d, column %d"
	ValidationTextNamedFormat  = "  [%s] %s: %s"
	ValidationTextErrorSummary = "%d error(s), %d warning(s)"
)

// Severity names for output
const (
	SeverityNameError   = "ERROR"
	SeverityNameWarning = "WARNING"
	SeverityNameInfo    = "INFO"
)

// REPL
const (
	ReplBanner        = "jinx repl - type :quit to exit"
	ReplPrompt        = "jinx> "
	ReplCmdQuit       = ":quit"
	ReplCmdExit       = ":exit"
	ReplCmdVars       = ":vars"
	ReplCmdHelp       = ":help"
	ReplMsgUnknownCmd = "unknown command, type :help"
	ReplMsgNoBindings = "(no bindings)"
	ReplHistoryFile   = ".jinx_history"
	ReplBindingFormat = "%s = %s\n"
)

// Template markers that switch REPL input to template mode
const (
	MarkerVariable = "{{"
	MarkerBlock    = "{%"
)

// CLI metadata
const (
	CLIName        = "jinx"
	CLIDescription = "Jinja-style template and expression CLI"
)

// File permission constant
const (
	FilePermissions = 0644
)

// Format string constants
const (
	FmtErrorWithDetail = "%s: %s\n"
	FmtErrorWithCause  = "%s: %v\n"
	FmtNewline         = "\n"
	JSONIndent         = "  "
)
