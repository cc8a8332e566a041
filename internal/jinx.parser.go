package internal

import (
	"go.uber.org/zap"
)

// ParserConfig holds parser configuration
type ParserConfig struct {
	MaxDepth int // Maximum expression nesting depth (0 = unlimited)
}

// DefaultParserConfig returns the default parser configuration
func DefaultParserConfig() ParserConfig {
	return ParserConfig{MaxDepth: DefaultMaxDepth}
}

// Parser produces a template AST from a segment stream
type Parser struct {
	segments []Segment
	config   ParserConfig
	pos      int
	logger   *zap.Logger
}

// NewParser creates a new parser for the given segment stream
func NewParser(segments []Segment, logger *zap.Logger) *Parser {
	return NewParserWithConfig(segments, DefaultParserConfig(), logger)
}

// NewParserWithConfig creates a parser with custom configuration
func NewParserWithConfig(segments []Segment, config ParserConfig, logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug(LogMsgParserCreated, zap.Int(LogFieldSegments, len(segments)))
	return &Parser{
		segments: segments,
		config:   config,
		logger:   logger,
	}
}

// Parse produces the AST root node from the segment stream
func (p *Parser) Parse() (*RootNode, error) {
	p.logger.Debug(LogMsgParserStart)

	var nodes []Node
	for !p.isAtEnd() {
		node, err := p.parseNode(p.advance())
		if err != nil {
			return nil, err
		}
		if node != nil {
			nodes = append(nodes, node)
		}
	}

	p.logger.Debug(LogMsgParserEnd, zap.Int(LogFieldNodes, len(nodes)))
	return &RootNode{Children: nodes}, nil
}

// parseNode parses a single segment
func (p *Parser) parseNode(seg Segment) (Node, error) {
	switch seg.Type {
	case SegmentTypeText:
		if seg.Content == "" {
			return nil, nil
		}
		return NewTextNode(seg.Content, seg.Position), nil
	case SegmentTypeVariable:
		return p.parseEmit(seg)
	case SegmentTypeBlock:
		return p.parseStatement(seg)
	default:
		return nil, nil
	}
}

// parseEmit parses the expression of a {{ }} segment
func (p *Parser) parseEmit(seg Segment) (Node, error) {
	tokens, err := NewExprTokenizer(seg.Content, seg.ContentPos).Tokenize()
	if err != nil {
		return nil, err
	}
	parser := NewExprParser(tokens).WithMaxDepth(p.config.MaxDepth)
	if parser.isAtEnd() {
		return nil, NewEngineError(KindSyntax, ErrMsgEmptyExpression).WithPosition(seg.Position)
	}
	expr, err := parser.Parse()
	if err != nil {
		return nil, err
	}
	return NewEmitNode(expr, seg.Position), nil
}

// parseStatement parses a {% %} segment. The only statement is
// `set NAME = expr`.
func (p *Parser) parseStatement(seg Segment) (Node, error) {
	tokens, err := NewExprTokenizer(seg.Content, seg.ContentPos).Tokenize()
	if err != nil {
		return nil, err
	}
	parser := NewExprParser(tokens).WithMaxDepth(p.config.MaxDepth)

	keyword := parser.peek()
	if keyword.Type == ExprTokenTypeEOF {
		return nil, NewEngineError(KindSyntax, ErrMsgEmptyStatement).WithPosition(seg.Position)
	}
	if !keyword.IsKeyword(KeywordSet) {
		return nil, NewEngineError(KindSyntax, ErrMsgUnknownStatement).WithName(keyword.Value).WithPosition(keyword.Position)
	}
	parser.advance()

	target := parser.peek()
	if target.Type != ExprTokenTypeIdentifier || isReservedName(target.Value) {
		return nil, NewEngineError(KindSyntax, ErrMsgInvalidAssignTarget).WithDetail(target.Value).WithPosition(target.Position)
	}
	parser.advance()

	if _, err := parser.expect(ExprTokenTypeAssign); err != nil {
		return nil, err
	}

	expr, err := parser.Parse()
	if err != nil {
		return nil, err
	}
	return NewSetNode(target.Value, expr, seg.Position), nil
}

// isReservedName reports whether name is a keyword that cannot be bound
func isReservedName(name string) bool {
	switch name {
	case ExprKeywordTrue, ExprKeywordFalse, ExprKeywordNone,
		ExprKeywordTrueTitle, ExprKeywordFalseTitle, ExprKeywordNoneTitle,
		ExprKeywordAnd, ExprKeywordOr, ExprKeywordNot, ExprKeywordIn:
		return true
	}
	return false
}

// Helper methods

func (p *Parser) advance() Segment {
	seg := p.segments[p.pos]
	p.pos++
	return seg
}

func (p *Parser) isAtEnd() bool {
	return p.pos >= len(p.segments) || p.segments[p.pos].IsEOF()
}

// CompileConfig bundles lexer and parser settings
type CompileConfig struct {
	Lexer  LexerConfig
	Parser ParserConfig
}

// Compile lexes and parses template source into an AST
func Compile(source string, config CompileConfig, logger *zap.Logger) (*RootNode, error) {
	segments, err := NewLexerWithConfig(source, config.Lexer, logger).Tokenize()
	if err != nil {
		return nil, err
	}
	return NewParserWithConfig(segments, config.Parser, logger).Parse()
}
