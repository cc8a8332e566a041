package internal

// ExprParser parses expression tokens into an AST
type ExprParser struct {
	tokens   []ExprToken
	pos      int
	depth    int
	maxDepth int
}

// NewExprParser creates a new expression parser
func NewExprParser(tokens []ExprToken) *ExprParser {
	return &ExprParser{
		tokens:   tokens,
		maxDepth: DefaultMaxDepth,
	}
}

// WithMaxDepth sets the maximum nesting depth accepted by the parser (0 = unlimited)
func (p *ExprParser) WithMaxDepth(depth int) *ExprParser {
	p.maxDepth = depth
	return p
}

// Parse parses a complete expression and returns the root AST node
func (p *ExprParser) Parse() (ExprNode, error) {
	if p.isAtEnd() {
		return nil, p.errorAt(ErrMsgEmptyExpression, p.peek())
	}

	node, err := p.ParseExpr()
	if err != nil {
		return nil, err
	}

	if !p.isAtEnd() {
		return nil, p.unexpected()
	}

	return node, nil
}

// ParseExpr parses one expression starting at the current token
func (p *ExprParser) ParseExpr() (ExprNode, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	return p.parseOr()
}

// parseOr parses OR expressions (lowest precedence)
func (p *ExprParser) parseOr() (ExprNode, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	for p.checkKeyword(ExprKeywordOr) {
		tok := p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = NewBinary(left, OpOr, right, tok.Position)
	}

	return left, nil
}

// parseAnd parses AND expressions
func (p *ExprParser) parseAnd() (ExprNode, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}

	for p.checkKeyword(ExprKeywordAnd) {
		tok := p.advance()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = NewBinary(left, OpAnd, right, tok.Position)
	}

	return left, nil
}

// parseNot parses logical negation
func (p *ExprParser) parseNot() (ExprNode, error) {
	if p.checkKeyword(ExprKeywordNot) {
		tok := p.advance()
		if err := p.enter(); err != nil {
			return nil, err
		}
		defer p.leave()
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return NewUnary(OpNot, operand, tok.Position), nil
	}
	return p.parseCompare()
}

// parseCompare parses comparison and containment expressions
func (p *ExprParser) parseCompare() (ExprNode, error) {
	left, err := p.parseConcat()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.peek()
		var op Operator
		switch {
		case tok.Type == ExprTokenTypeEq:
			op = OpEq
		case tok.Type == ExprTokenTypeNeq:
			op = OpNeq
		case tok.Type == ExprTokenTypeLt:
			op = OpLt
		case tok.Type == ExprTokenTypeGt:
			op = OpGt
		case tok.Type == ExprTokenTypeLte:
			op = OpLte
		case tok.Type == ExprTokenTypeGte:
			op = OpGte
		case tok.IsKeyword(ExprKeywordIn):
			op = OpIn
		case tok.IsKeyword(ExprKeywordNot) && p.peekAt(1).IsKeyword(ExprKeywordIn):
			p.advance()
			op = OpNotIn
		default:
			return left, nil
		}
		p.advance()

		right, err := p.parseConcat()
		if err != nil {
			return nil, err
		}
		left = NewBinary(left, op, right, tok.Position)
	}
}

// parseConcat parses string concatenation (~)
func (p *ExprParser) parseConcat() (ExprNode, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}

	for p.check(ExprTokenTypeTilde) {
		tok := p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = NewBinary(left, OpConcat, right, tok.Position)
	}

	return left, nil
}

// parseAdditive parses + and -
func (p *ExprParser) parseAdditive() (ExprNode, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}

	for p.check(ExprTokenTypePlus) || p.check(ExprTokenTypeMinus) {
		tok := p.advance()
		op := OpAdd
		if tok.Type == ExprTokenTypeMinus {
			op = OpSub
		}
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = NewBinary(left, op, right, tok.Position)
	}

	return left, nil
}

// parseMultiplicative parses *, /, // and %
func (p *ExprParser) parseMultiplicative() (ExprNode, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.peek()
		var op Operator
		switch tok.Type {
		case ExprTokenTypeMul:
			op = OpMul
		case ExprTokenTypeDiv:
			op = OpDiv
		case ExprTokenTypeFloorDiv:
			op = OpFloorDiv
		case ExprTokenTypeMod:
			op = OpMod
		default:
			return left, nil
		}
		p.advance()

		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = NewBinary(left, op, right, tok.Position)
	}
}

// parseUnary parses unary minus and plus
func (p *ExprParser) parseUnary() (ExprNode, error) {
	if p.check(ExprTokenTypeMinus) || p.check(ExprTokenTypePlus) {
		tok := p.advance()
		if err := p.enter(); err != nil {
			return nil, err
		}
		defer p.leave()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		op := OpNeg
		if tok.Type == ExprTokenTypePlus {
			op = OpPos
		}
		return NewUnary(op, operand, tok.Position), nil
	}
	return p.parsePostfix()
}

// parsePostfix parses a primary expression followed by attribute access,
// subscripts, calls and filters
func (p *ExprParser) parsePostfix() (ExprNode, error) {
	node, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.peek()
		switch tok.Type {
		case ExprTokenTypeDot:
			p.advance()
			next := p.peek()
			switch next.Type {
			case ExprTokenTypeIdentifier:
				p.advance()
				node = NewGetAttr(node, next.Value, next.Position)
			case ExprTokenTypeInt:
				p.advance()
				node = NewGetItem(node, NewConst(next.Literal, next.Position), next.Position)
			default:
				return nil, p.unexpected()
			}

		case ExprTokenTypeLBracket:
			p.advance()
			subscript, err := p.ParseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(ExprTokenTypeRBracket); err != nil {
				return nil, err
			}
			node = NewGetItem(node, subscript, tok.Position)

		case ExprTokenTypeLParen:
			v, ok := node.(*VarNode)
			if !ok {
				return nil, p.errorAt(ErrMsgNotCallable, tok)
			}
			p.advance()
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			node = NewCall(v.Name, args, v.Pos())

		case ExprTokenTypePipe:
			p.advance()
			name, err := p.expect(ExprTokenTypeIdentifier)
			if err != nil {
				return nil, err
			}
			var args []CallArg
			if p.match(ExprTokenTypeLParen) {
				args, err = p.parseArgs()
				if err != nil {
					return nil, err
				}
			}
			node = NewFilter(node, name.Value, args, name.Position)

		default:
			return node, nil
		}
	}
}

// parseArgs parses call arguments after the opening parenthesis
func (p *ExprParser) parseArgs() ([]CallArg, error) {
	var args []CallArg
	seen := make(map[string]bool)
	sawKeyword := false

	for !p.check(ExprTokenTypeRParen) {
		if p.isAtEnd() {
			return nil, p.errorAt(ErrMsgUnexpectedEOF, p.peek())
		}

		if p.check(ExprTokenTypeIdentifier) && p.peekAt(1).Type == ExprTokenTypeAssign {
			nameTok := p.advance()
			p.advance()
			if seen[nameTok.Value] {
				return nil, NewEngineError(KindSyntax, ErrMsgDuplicateKeyword).WithName(nameTok.Value).WithPosition(nameTok.Position)
			}
			seen[nameTok.Value] = true
			value, err := p.ParseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, CallArg{Name: nameTok.Value, Value: value})
			sawKeyword = true
		} else {
			tok := p.peek()
			value, err := p.ParseExpr()
			if err != nil {
				return nil, err
			}
			if sawKeyword {
				return nil, p.errorAt(ErrMsgPositionalAfterKw, tok)
			}
			args = append(args, CallArg{Value: value})
		}

		if !p.match(ExprTokenTypeComma) {
			break
		}
	}

	if _, err := p.expect(ExprTokenTypeRParen); err != nil {
		return nil, err
	}
	return args, nil
}

// parsePrimary parses literals, names, parenthesized expressions, lists and maps
func (p *ExprParser) parsePrimary() (ExprNode, error) {
	tok := p.peek()

	switch tok.Type {
	case ExprTokenTypeString, ExprTokenTypeInt, ExprTokenTypeFloat:
		p.advance()
		return NewConst(tok.Literal, tok.Position), nil

	case ExprTokenTypeIdentifier:
		p.advance()
		switch tok.Value {
		case ExprKeywordTrue, ExprKeywordTrueTitle:
			return NewConst(FromBool(true), tok.Position), nil
		case ExprKeywordFalse, ExprKeywordFalseTitle:
			return NewConst(FromBool(false), tok.Position), nil
		case ExprKeywordNone, ExprKeywordNoneTitle:
			return NewConst(None(), tok.Position), nil
		case ExprKeywordAnd, ExprKeywordOr, ExprKeywordNot, ExprKeywordIn:
			return nil, p.errorAt(ErrMsgUnexpectedToken, tok)
		}
		return NewVar(tok.Value, tok.Position), nil

	case ExprTokenTypeLParen:
		p.advance()
		expr, err := p.ParseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(ExprTokenTypeRParen); err != nil {
			return nil, err
		}
		return expr, nil

	case ExprTokenTypeLBracket:
		p.advance()
		return p.parseList(tok.Position)

	case ExprTokenTypeLBrace:
		p.advance()
		return p.parseMap(tok.Position)

	case ExprTokenTypeEOF:
		return nil, p.errorAt(ErrMsgUnexpectedEOF, tok)
	}

	return nil, p.unexpected()
}

// parseList parses the items of a list literal after '['
func (p *ExprParser) parseList(pos Position) (ExprNode, error) {
	var items []ExprNode
	for !p.check(ExprTokenTypeRBracket) {
		item, err := p.ParseExpr()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if !p.match(ExprTokenTypeComma) {
			break
		}
	}
	if _, err := p.expect(ExprTokenTypeRBracket); err != nil {
		return nil, err
	}
	return NewList(items, pos), nil
}

// parseMap parses the entries of a map literal after '{'
func (p *ExprParser) parseMap(pos Position) (ExprNode, error) {
	var keys, values []ExprNode
	for !p.check(ExprTokenTypeRBrace) {
		key, err := p.ParseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(ExprTokenTypeColon); err != nil {
			return nil, err
		}
		value, err := p.ParseExpr()
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
		values = append(values, value)
		if !p.match(ExprTokenTypeComma) {
			break
		}
	}
	if _, err := p.expect(ExprTokenTypeRBrace); err != nil {
		return nil, err
	}
	return NewMap(keys, values, pos), nil
}

// Helper methods

// Expect consumes a token of the given type or fails with a syntax error
func (p *ExprParser) expect(tokenType ExprTokenType) (ExprToken, error) {
	if p.check(tokenType) {
		return p.advance(), nil
	}
	tok := p.peek()
	if tok.Type == ExprTokenTypeEOF {
		return ExprToken{}, NewEngineError(KindSyntax, ErrMsgUnexpectedEOF).WithDetail(string(tokenType)).WithPosition(tok.Position)
	}
	return ExprToken{}, NewEngineError(KindSyntax, ErrMsgExpectedToken).WithName(string(tokenType)).WithDetail(tok.Value).WithPosition(tok.Position)
}

// match checks if the current token matches and advances if so
func (p *ExprParser) match(tokenType ExprTokenType) bool {
	if p.check(tokenType) {
		p.advance()
		return true
	}
	return false
}

// check returns true if the current token is of the given type
func (p *ExprParser) check(tokenType ExprTokenType) bool {
	return p.peek().Type == tokenType
}

// checkKeyword returns true if the current token is the given keyword
func (p *ExprParser) checkKeyword(kw string) bool {
	return p.peek().IsKeyword(kw)
}

// advance moves to the next token and returns the consumed one
func (p *ExprParser) advance() ExprToken {
	tok := p.peek()
	if !p.isAtEnd() {
		p.pos++
	}
	return tok
}

// peek returns the current token
func (p *ExprParser) peek() ExprToken {
	return p.peekAt(0)
}

// peekAt returns the token n positions ahead
func (p *ExprParser) peekAt(n int) ExprToken {
	idx := p.pos + n
	if idx >= len(p.tokens) {
		if len(p.tokens) > 0 {
			last := p.tokens[len(p.tokens)-1]
			return ExprToken{Type: ExprTokenTypeEOF, Position: last.Position}
		}
		return ExprToken{Type: ExprTokenTypeEOF}
	}
	return p.tokens[idx]
}

// isAtEnd returns true if we've consumed all tokens
func (p *ExprParser) isAtEnd() bool {
	return p.peek().Type == ExprTokenTypeEOF
}

func (p *ExprParser) enter() error {
	p.depth++
	if p.maxDepth > 0 && p.depth > p.maxDepth {
		return p.errorAt(ErrMsgExpressionTooDeep, p.peek())
	}
	return nil
}

func (p *ExprParser) leave() {
	p.depth--
}

func (p *ExprParser) unexpected() error {
	tok := p.peek()
	return NewEngineError(KindSyntax, ErrMsgUnexpectedToken).WithDetail(tok.Value).WithPosition(tok.Position)
}

func (p *ExprParser) errorAt(msg string, tok ExprToken) error {
	return NewEngineError(KindSyntax, msg).WithPosition(tok.Position)
}

// ParseExpression tokenizes and parses a standalone expression string
func ParseExpression(expr string, maxDepth int) (ExprNode, error) {
	tokenizer := NewExprTokenizer(expr, Position{Line: 1, Column: 1})
	tokens, err := tokenizer.Tokenize()
	if err != nil {
		return nil, err
	}

	return NewExprParser(tokens).WithMaxDepth(maxDepth).Parse()
}
