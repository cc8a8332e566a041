package internal

import (
	"strings"

	"go.uber.org/zap"
)

// LexerConfig holds lexer configuration
type LexerConfig struct {
	KeepTrailingNewline bool // Keep a single trailing newline of the source
}

// DefaultLexerConfig returns the default lexer configuration
func DefaultLexerConfig() LexerConfig {
	return LexerConfig{}
}

// Lexer splits template source into text, variable, block and comment segments.
// The inner source of variable and block segments is tokenized later by the
// expression tokenizer.
type Lexer struct {
	source   string
	config   LexerConfig
	pos      int // Current byte position
	line     int // Current line (1-indexed)
	column   int // Current column (1-indexed)
	trimNext bool
	logger   *zap.Logger
}

// NewLexer creates a new lexer with default configuration
func NewLexer(source string, logger *zap.Logger) *Lexer {
	return NewLexerWithConfig(source, DefaultLexerConfig(), logger)
}

// NewLexerWithConfig creates a lexer with custom configuration
func NewLexerWithConfig(source string, config LexerConfig, logger *zap.Logger) *Lexer {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug(LogMsgLexerCreated, zap.Int(LogFieldSource, len(source)))
	if !config.KeepTrailingNewline {
		if strings.HasSuffix(source, "\r\n") {
			source = source[:len(source)-2]
		} else if strings.HasSuffix(source, "\n") {
			source = source[:len(source)-1]
		}
	}
	return &Lexer{
		source: source,
		config: config,
		line:   1,
		column: 1,
		logger: logger,
	}
}

// Tokenize processes the source and returns the segment stream, terminated by EOF
func (l *Lexer) Tokenize() ([]Segment, error) {
	l.logger.Debug(LogMsgTokenizerStart)
	var segments []Segment

	for !l.isAtEnd() {
		switch {
		case l.matchStr(StrCommentStart):
			if err := l.scanComment(&segments); err != nil {
				return nil, err
			}
		case l.matchStr(StrVariableStart):
			seg, err := l.scanCode(SegmentTypeVariable, StrVariableEnd, ErrMsgUnterminatedVariable, &segments)
			if err != nil {
				return nil, err
			}
			segments = append(segments, seg)
		case l.matchStr(StrBlockStart):
			seg, err := l.scanCode(SegmentTypeBlock, StrBlockEnd, ErrMsgUnterminatedBlock, &segments)
			if err != nil {
				return nil, err
			}
			segments = append(segments, seg)
		default:
			text := l.scanText()
			if text.Content != "" {
				segments = append(segments, text)
			}
		}
	}

	segments = append(segments, Segment{Type: SegmentTypeEOF, Position: l.currentPosition()})
	l.logger.Debug(LogMsgTokenizerEnd, zap.Int(LogFieldSegments, len(segments)))
	return segments, nil
}

// scanText scans text content until the next opening delimiter
func (l *Lexer) scanText() Segment {
	startPos := l.currentPosition()
	start := l.pos

	for !l.isAtEnd() {
		if l.matchStr(StrVariableStart) || l.matchStr(StrBlockStart) || l.matchStr(StrCommentStart) {
			break
		}
		l.advance()
	}

	content := l.source[start:l.pos]
	if l.trimNext {
		content = strings.TrimLeft(content, whitespaceChars)
		l.trimNext = false
	}
	return Segment{Type: SegmentTypeText, Content: content, Position: startPos}
}

// scanCode scans a {{ }} or {% %} segment. String literals inside the segment
// are skipped so that delimiters inside quotes do not end the segment.
func (l *Lexer) scanCode(segType SegmentType, endDelim, unterminatedMsg string, segments *[]Segment) (Segment, error) {
	startPos := l.currentPosition()
	l.advanceN(LenDelim)
	l.trimNext = false

	if l.peek() == CharTrim {
		l.advance()
		trimTrailingText(segments)
	}

	contentPos := l.currentPosition()
	contentStart := l.pos

	for !l.isAtEnd() {
		ch := l.peek()
		if ch == CharDoubleQuote || ch == CharSingleQuote {
			if err := l.skipString(ch); err != nil {
				return Segment{}, err
			}
			continue
		}
		if l.matchStr("-"+endDelim) && l.pos > contentStart {
			content := l.source[contentStart:l.pos]
			l.advanceN(1 + LenDelim)
			l.trimNext = true
			return Segment{Type: segType, Content: content, Position: startPos, ContentPos: contentPos}, nil
		}
		if l.matchStr(endDelim) {
			content := l.source[contentStart:l.pos]
			l.advanceN(LenDelim)
			return Segment{Type: segType, Content: content, Position: startPos, ContentPos: contentPos}, nil
		}
		l.advance()
	}

	return Segment{}, l.newError(unterminatedMsg, startPos)
}

// scanComment skips a {# #} comment, honoring trim markers
func (l *Lexer) scanComment(segments *[]Segment) error {
	startPos := l.currentPosition()
	l.advanceN(LenDelim)
	l.trimNext = false
	if l.peek() == CharTrim {
		l.advance()
		trimTrailingText(segments)
	}

	idx := strings.Index(l.source[l.pos:], StrCommentEnd)
	if idx < 0 {
		return l.newError(ErrMsgUnterminatedComment, startPos)
	}
	body := l.source[l.pos : l.pos+idx]
	l.advanceN(idx + LenDelim)
	if strings.HasSuffix(body, "-") {
		l.trimNext = true
	}
	return nil
}

// skipString advances past a quoted string literal
func (l *Lexer) skipString(quote byte) error {
	startPos := l.currentPosition()
	l.advance()
	for !l.isAtEnd() {
		ch := l.advance()
		if ch == CharBackslash {
			l.advance()
			continue
		}
		if ch == quote {
			return nil
		}
	}
	return l.newError(ErrMsgUnterminatedStr, startPos)
}

// trimTrailingText strips trailing whitespace from the last emitted text segment
func trimTrailingText(segments *[]Segment) {
	if len(*segments) == 0 {
		return
	}
	last := &(*segments)[len(*segments)-1]
	if last.Type == SegmentTypeText {
		last.Content = strings.TrimRight(last.Content, whitespaceChars)
	}
}

const whitespaceChars = " \t\r\n"

// Helper methods

// currentPosition returns the current position
func (l *Lexer) currentPosition() Position {
	return Position{
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

// isAtEnd returns true if we've reached the end of source
func (l *Lexer) isAtEnd() bool {
	return l.pos >= len(l.source)
}

// peek returns the current character without advancing
func (l *Lexer) peek() byte {
	if l.isAtEnd() {
		return 0
	}
	return l.source[l.pos]
}

// advance consumes and returns the current character
func (l *Lexer) advance() byte {
	if l.isAtEnd() {
		return 0
	}
	ch := l.source[l.pos]
	l.pos++
	if ch == CharNewline {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

// advanceN advances by n characters
func (l *Lexer) advanceN(n int) {
	for i := 0; i < n && !l.isAtEnd(); i++ {
		l.advance()
	}
}

// matchStr returns true if the remaining source starts with s
func (l *Lexer) matchStr(s string) bool {
	return strings.HasPrefix(l.source[l.pos:], s)
}

func (l *Lexer) newError(msg string, pos Position) error {
	return NewEngineError(KindSyntax, msg).WithPosition(pos)
}
