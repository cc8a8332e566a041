package internal

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ExprTokenType represents the type of an expression token
type ExprTokenType string

// Expression token type constants
const (
	ExprTokenTypeIdentifier ExprTokenType = "IDENT"
	ExprTokenTypeString     ExprTokenType = "STRING"
	ExprTokenTypeInt        ExprTokenType = "INT"
	ExprTokenTypeFloat      ExprTokenType = "FLOAT"
	ExprTokenTypeLParen     ExprTokenType = "LPAREN"
	ExprTokenTypeRParen     ExprTokenType = "RPAREN"
	ExprTokenTypeLBracket   ExprTokenType = "LBRACKET"
	ExprTokenTypeRBracket   ExprTokenType = "RBRACKET"
	ExprTokenTypeLBrace     ExprTokenType = "LBRACE"
	ExprTokenTypeRBrace     ExprTokenType = "RBRACE"
	ExprTokenTypeComma      ExprTokenType = "COMMA"
	ExprTokenTypeColon      ExprTokenType = "COLON"
	ExprTokenTypeDot        ExprTokenType = "DOT"
	ExprTokenTypePipe       ExprTokenType = "PIPE"
	ExprTokenTypeAssign     ExprTokenType = "ASSIGN"

	// Operators
	ExprTokenTypeEq       ExprTokenType = "EQ"
	ExprTokenTypeNeq      ExprTokenType = "NEQ"
	ExprTokenTypeLt       ExprTokenType = "LT"
	ExprTokenTypeGt       ExprTokenType = "GT"
	ExprTokenTypeLte      ExprTokenType = "LTE"
	ExprTokenTypeGte      ExprTokenType = "GTE"
	ExprTokenTypePlus     ExprTokenType = "PLUS"
	ExprTokenTypeMinus    ExprTokenType = "MINUS"
	ExprTokenTypeMul      ExprTokenType = "MUL"
	ExprTokenTypeDiv      ExprTokenType = "DIV"
	ExprTokenTypeFloorDiv ExprTokenType = "FLOORDIV"
	ExprTokenTypeMod      ExprTokenType = "MOD"
	ExprTokenTypeTilde    ExprTokenType = "TILDE"

	ExprTokenTypeEOF ExprTokenType = "EOF"
)

// Expression keyword constants. Keywords are lexed as identifiers and
// recognized by the parser.
const (
	ExprKeywordTrue       = "true"
	ExprKeywordFalse      = "false"
	ExprKeywordNone       = "none"
	ExprKeywordTrueTitle  = "True"
	ExprKeywordFalseTitle = "False"
	ExprKeywordNoneTitle  = "None"
	ExprKeywordAnd        = "and"
	ExprKeywordOr         = "or"
	ExprKeywordNot        = "not"
	ExprKeywordIn         = "in"
)

var twoCharOperators = map[string]ExprTokenType{
	"==": ExprTokenTypeEq,
	"!=": ExprTokenTypeNeq,
	"<=": ExprTokenTypeLte,
	">=": ExprTokenTypeGte,
	"//": ExprTokenTypeFloorDiv,
}

var oneCharOperators = map[byte]ExprTokenType{
	'(': ExprTokenTypeLParen,
	')': ExprTokenTypeRParen,
	'[': ExprTokenTypeLBracket,
	']': ExprTokenTypeRBracket,
	'{': ExprTokenTypeLBrace,
	'}': ExprTokenTypeRBrace,
	',': ExprTokenTypeComma,
	':': ExprTokenTypeColon,
	'.': ExprTokenTypeDot,
	'|': ExprTokenTypePipe,
	'=': ExprTokenTypeAssign,
	'<': ExprTokenTypeLt,
	'>': ExprTokenTypeGt,
	'+': ExprTokenTypePlus,
	'-': ExprTokenTypeMinus,
	'*': ExprTokenTypeMul,
	'/': ExprTokenTypeDiv,
	'%': ExprTokenTypeMod,
	'~': ExprTokenTypeTilde,
}

// ExprToken represents a token in an expression
type ExprToken struct {
	Type     ExprTokenType
	Value    string
	Position Position
	Literal  Value // Parsed value for string and number literals
}

// String returns the string representation of the token
func (t ExprToken) String() string {
	if t.Value != "" {
		return fmt.Sprintf("%s(%s)", t.Type, t.Value)
	}
	return string(t.Type)
}

// IsKeyword reports whether the token is the given bare keyword
func (t ExprToken) IsKeyword(kw string) bool {
	return t.Type == ExprTokenTypeIdentifier && t.Value == kw
}

// ExprTokenizer tokenizes the inner source of a variable or statement block
type ExprTokenizer struct {
	input string
	pos   int
	at    Position // position of input[pos]
}

// NewExprTokenizer creates a new expression tokenizer. base is the position
// of the first byte of input within the template.
func NewExprTokenizer(input string, base Position) *ExprTokenizer {
	if !base.IsValid() {
		base = Position{Line: 1, Column: 1}
	}
	return &ExprTokenizer{
		input: input,
		at:    base,
	}
}

// Tokenize converts the input string into a slice of tokens ending in EOF
func (t *ExprTokenizer) Tokenize() ([]ExprToken, error) {
	var tokens []ExprToken

	for {
		t.skipWhitespace()

		if t.pos >= len(t.input) {
			tokens = append(tokens, ExprToken{Type: ExprTokenTypeEOF, Position: t.at})
			break
		}

		token, err := t.nextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}

	return tokens, nil
}

// nextToken reads the next token from the input
func (t *ExprTokenizer) nextToken() (ExprToken, error) {
	ch := t.input[t.pos]

	if ch == CharDoubleQuote || ch == CharSingleQuote {
		return t.readString()
	}

	if isDigit(ch) {
		return t.readNumber()
	}

	if isLetter(ch) || ch == '_' {
		return t.readIdentifier(), nil
	}

	if t.pos+1 < len(t.input) {
		if typ, ok := twoCharOperators[t.input[t.pos:t.pos+2]]; ok {
			start := t.at
			value := t.input[t.pos : t.pos+2]
			t.advance(2)
			return ExprToken{Type: typ, Value: value, Position: start}, nil
		}
	}

	if typ, ok := oneCharOperators[ch]; ok {
		start := t.at
		t.advance(1)
		return ExprToken{Type: typ, Value: string(ch), Position: start}, nil
	}

	r, _ := utf8.DecodeRuneInString(t.input[t.pos:])
	return ExprToken{}, NewEngineError(KindSyntax, ErrMsgUnexpectedChar).WithDetail(string(r)).WithPosition(t.at)
}

// readString reads a quoted string literal with backslash escapes
func (t *ExprTokenizer) readString() (ExprToken, error) {
	start := t.at
	quote := t.input[t.pos]
	t.advance(1)

	var sb strings.Builder
	for t.pos < len(t.input) {
		ch := t.input[t.pos]
		if ch == quote {
			t.advance(1)
			value := sb.String()
			return ExprToken{
				Type:     ExprTokenTypeString,
				Value:    value,
				Position: start,
				Literal:  FromString(value),
			}, nil
		}
		if ch == CharBackslash && t.pos+1 < len(t.input) {
			escaped := t.input[t.pos+1]
			switch escaped {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			default:
				sb.WriteByte(escaped)
			}
			t.advance(2)
			continue
		}
		sb.WriteByte(ch)
		t.advance(1)
	}

	return ExprToken{}, NewEngineError(KindSyntax, ErrMsgUnterminatedStr).WithPosition(start)
}

// readNumber reads an integer or float literal. Underscores are allowed as
// digit separators.
func (t *ExprTokenizer) readNumber() (ExprToken, error) {
	start := t.at
	begin := t.pos
	isFloat := false

	for t.pos < len(t.input) {
		ch := t.input[t.pos]
		if ch == '.' && !isFloat && t.pos+1 < len(t.input) && isDigit(t.input[t.pos+1]) {
			isFloat = true
			t.advance(1)
			continue
		}
		if (ch == 'e' || ch == 'E') && t.pos+1 < len(t.input) {
			next := t.input[t.pos+1]
			if isDigit(next) || next == '+' || next == '-' {
				isFloat = true
				t.advance(2)
				continue
			}
		}
		if !isDigit(ch) && ch != '_' {
			break
		}
		t.advance(1)
	}

	raw := t.input[begin:t.pos]
	clean := strings.ReplaceAll(raw, "_", "")
	if isFloat {
		f, err := strconv.ParseFloat(clean, 64)
		if err != nil {
			return ExprToken{}, NewEngineError(KindSyntax, ErrMsgInvalidNumber).WithDetail(raw).WithPosition(start)
		}
		return ExprToken{Type: ExprTokenTypeFloat, Value: raw, Position: start, Literal: FromFloat(f)}, nil
	}

	n, err := strconv.ParseInt(clean, 10, 64)
	if err != nil {
		return ExprToken{}, NewEngineError(KindSyntax, ErrMsgInvalidNumber).WithDetail(raw).WithPosition(start)
	}
	return ExprToken{Type: ExprTokenTypeInt, Value: raw, Position: start, Literal: FromInt(n)}, nil
}

// readIdentifier reads an identifier or keyword
func (t *ExprTokenizer) readIdentifier() ExprToken {
	start := t.at
	begin := t.pos

	for t.pos < len(t.input) {
		ch := t.input[t.pos]
		if !isLetter(ch) && !isDigit(ch) && ch != '_' {
			break
		}
		t.advance(1)
	}

	return ExprToken{Type: ExprTokenTypeIdentifier, Value: t.input[begin:t.pos], Position: start}
}

// advance moves n bytes forward keeping the position in sync
func (t *ExprTokenizer) advance(n int) {
	end := t.pos + n
	if end > len(t.input) {
		end = len(t.input)
	}
	t.at = t.at.Advance(t.input[t.pos:end])
	t.pos = end
}

// skipWhitespace skips whitespace characters
func (t *ExprTokenizer) skipWhitespace() {
	for t.pos < len(t.input) && unicode.IsSpace(rune(t.input[t.pos])) {
		t.advance(1)
	}
}

// Character classification helpers

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
