package internal

import (
	"fmt"
	"io"

	"go.uber.org/zap"
)

// EvaluatorConfig holds per-render limits
type EvaluatorConfig struct {
	MaxDepth int    // Maximum expression evaluation depth (0 = unlimited)
	Fuel     uint64 // Maximum node and expression visits (0 = unlimited)
}

// DefaultEvaluatorConfig returns the default evaluator configuration
func DefaultEvaluatorConfig() EvaluatorConfig {
	return EvaluatorConfig{MaxDepth: DefaultMaxDepth}
}

// Evaluator walks a compiled template or expression against a State.
// An Evaluator serves a single render and is not safe for concurrent use.
type Evaluator struct {
	filters   *CallableRegistry
	functions *CallableRegistry
	state     *State
	config    EvaluatorConfig
	logger    *zap.Logger
	fuelUsed  uint64
	depth     int
}

// NewEvaluator creates an evaluator for one render
func NewEvaluator(filters, functions *CallableRegistry, state *State, config EvaluatorConfig, logger *zap.Logger) *Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evaluator{
		filters:   filters,
		functions: functions,
		state:     state,
		config:    config,
		logger:    logger,
	}
}

// State returns the scope the evaluator renders into
func (e *Evaluator) State() *State {
	return e.state
}

// FuelUsed returns the number of visits consumed so far
func (e *Evaluator) FuelUsed() uint64 {
	return e.fuelUsed
}

// Render walks the template and writes output to w. A nil writer evaluates
// the template for its side effects on State only.
func (e *Evaluator) Render(root *RootNode, w io.Writer) error {
	e.logger.Debug(LogMsgEvaluatorStart, zap.String(LogFieldTemplateName, e.state.name))
	cw := &countingWriter{w: w}

	for _, node := range root.Children {
		if err := e.renderNode(node, cw); err != nil {
			err = annotate(err, e.state.name, node.Pos())
			e.logger.Debug(LogMsgEvaluatorFailed, zap.String(LogFieldTemplateName, e.state.name), zap.Error(err))
			return err
		}
	}

	e.logger.Debug(LogMsgEvaluatorEnd,
		zap.String(LogFieldTemplateName, e.state.name),
		zap.Uint64(LogFieldFuel, e.fuelUsed),
		zap.Int(LogFieldOutput, cw.n))
	return nil
}

func (e *Evaluator) renderNode(node Node, w *countingWriter) error {
	if err := e.consumeFuel(); err != nil {
		return err
	}

	switch n := node.(type) {
	case *TextNode:
		return w.write(n.Content)

	case *EmitNode:
		v, err := e.Eval(n.Expr)
		if err != nil {
			return err
		}
		if v.IsUndefined() && e.state.behavior == UndefinedStrict {
			return NewEngineError(KindUndefined, ErrMsgUndefinedValue).WithName(n.Expr.String()).WithPosition(n.Expr.Pos())
		}
		return w.write(v.String())

	case *SetNode:
		v, err := e.Eval(n.Expr)
		if err != nil {
			return err
		}
		e.state.set(n.Name, v)
		e.logger.Debug(LogMsgBindingSet, zap.String(LogFieldName, n.Name))
		return nil

	default:
		return nil
	}
}

// Eval evaluates an expression against the evaluator's state
func (e *Evaluator) Eval(node ExprNode) (Value, error) {
	if err := e.consumeFuel(); err != nil {
		return Undefined(), annotate(err, e.state.name, node.Pos())
	}

	e.depth++
	defer func() { e.depth-- }()
	if e.config.MaxDepth > 0 && e.depth > e.config.MaxDepth {
		return Undefined(), annotate(NewEngineError(KindResourceLimit, ErrMsgDepthExceeded), e.state.name, node.Pos())
	}

	v, err := e.evalNode(node)
	if err != nil {
		return Undefined(), annotate(err, e.state.name, node.Pos())
	}
	return v, nil
}

// EvalBool evaluates an expression and tests its truthiness
func (e *Evaluator) EvalBool(node ExprNode) (bool, error) {
	v, err := e.Eval(node)
	if err != nil {
		return false, err
	}
	return e.truth(v)
}

func (e *Evaluator) evalNode(node ExprNode) (Value, error) {
	switch n := node.(type) {
	case *ConstNode:
		return n.Value, nil

	case *VarNode:
		return e.state.Lookup(n.Name), nil

	case *GetAttrNode:
		base, err := e.Eval(n.Expr)
		if err != nil {
			return Undefined(), err
		}
		if base.IsUndefined() {
			if e.state.behavior == UndefinedChainable {
				return Undefined(), nil
			}
			return Undefined(), NewEngineError(KindUndefined, ErrMsgUndefinedAttribute).WithName(n.Name).WithDetail(n.Expr.String())
		}
		return base.GetAttr(n.Name), nil

	case *GetItemNode:
		base, err := e.Eval(n.Expr)
		if err != nil {
			return Undefined(), err
		}
		key, err := e.Eval(n.Subscript)
		if err != nil {
			return Undefined(), err
		}
		if base.IsUndefined() {
			if e.state.behavior == UndefinedChainable {
				return Undefined(), nil
			}
			return Undefined(), NewEngineError(KindUndefined, ErrMsgUndefinedAttribute).WithName(key.String()).WithDetail(n.Expr.String())
		}
		return base.GetItem(key), nil

	case *UnaryNode:
		return e.evalUnary(n)

	case *BinaryNode:
		return e.evalBinary(n)

	case *FilterNode:
		return e.evalFilter(n)

	case *CallNode:
		return e.evalCall(n)

	case *ListNode:
		items := make([]Value, len(n.Items))
		for i, item := range n.Items {
			v, err := e.Eval(item)
			if err != nil {
				return Undefined(), err
			}
			items[i] = v
		}
		return FromSeq(items), nil

	case *MapNode:
		m := NewOrderedMap(len(n.Keys))
		for i := range n.Keys {
			k, err := e.Eval(n.Keys[i])
			if err != nil {
				return Undefined(), err
			}
			v, err := e.Eval(n.Values[i])
			if err != nil {
				return Undefined(), err
			}
			m.Set(k, v)
		}
		return FromMap(m), nil

	default:
		return Undefined(), NewEngineError(KindSyntax, ErrMsgUnexpectedToken).WithDetail(fmt.Sprintf("%T", node))
	}
}

func (e *Evaluator) evalUnary(n *UnaryNode) (Value, error) {
	operand, err := e.Eval(n.Operand)
	if err != nil {
		return Undefined(), err
	}

	switch n.Op {
	case OpNot:
		b, err := e.truth(operand)
		if err != nil {
			return Undefined(), err
		}
		return FromBool(!b), nil
	case OpNeg:
		if operand.IsUndefined() {
			return Undefined(), e.undefinedOperand(n.Operand)
		}
		return Neg(operand)
	case OpPos:
		if operand.IsUndefined() {
			return Undefined(), e.undefinedOperand(n.Operand)
		}
		return Pos(operand)
	}
	return Undefined(), NewEngineError(KindSyntax, ErrMsgUnexpectedToken).WithDetail(string(n.Op))
}

func (e *Evaluator) evalBinary(n *BinaryNode) (Value, error) {
	left, err := e.Eval(n.Left)
	if err != nil {
		return Undefined(), err
	}

	// and/or short-circuit and yield one of their operands
	switch n.Op {
	case OpAnd, OpOr:
		b, err := e.truth(left)
		if err != nil {
			return Undefined(), err
		}
		if (n.Op == OpAnd && !b) || (n.Op == OpOr && b) {
			return left, nil
		}
		return e.Eval(n.Right)
	}

	right, err := e.Eval(n.Right)
	if err != nil {
		return Undefined(), err
	}

	strict := e.state.behavior == UndefinedStrict
	switch n.Op {
	case OpEq, OpNeq:
		if strict && (left.IsUndefined() || right.IsUndefined()) {
			return Undefined(), e.undefinedOperand(pickUndefined(n, left))
		}
		eq := Equal(left, right)
		return FromBool(eq == (n.Op == OpEq)), nil

	case OpLt, OpGt, OpLte, OpGte:
		c, err := Compare(left, right)
		if err != nil {
			return Undefined(), err
		}
		switch n.Op {
		case OpLt:
			return FromBool(c < 0), nil
		case OpGt:
			return FromBool(c > 0), nil
		case OpLte:
			return FromBool(c <= 0), nil
		default:
			return FromBool(c >= 0), nil
		}

	case OpIn, OpNotIn:
		if strict && right.IsUndefined() {
			return Undefined(), e.undefinedOperand(n.Right)
		}
		found, err := Contains(right, left)
		if err != nil {
			return Undefined(), err
		}
		return FromBool(found == (n.Op == OpIn)), nil

	case OpConcat:
		if strict && (left.IsUndefined() || right.IsUndefined()) {
			return Undefined(), e.undefinedOperand(pickUndefined(n, left))
		}
		return Concat(left, right), nil
	}

	if left.IsUndefined() || right.IsUndefined() {
		return Undefined(), e.undefinedOperand(pickUndefined(n, left))
	}

	switch n.Op {
	case OpAdd:
		return Add(left, right)
	case OpSub:
		return Sub(left, right)
	case OpMul:
		return Mul(left, right)
	case OpDiv:
		return Div(left, right)
	case OpFloorDiv:
		return FloorDiv(left, right)
	case OpMod:
		return Mod(left, right)
	}
	return Undefined(), NewEngineError(KindSyntax, ErrMsgUnexpectedToken).WithDetail(string(n.Op))
}

func pickUndefined(n *BinaryNode, left Value) ExprNode {
	if left.IsUndefined() {
		return n.Left
	}
	return n.Right
}

func (e *Evaluator) evalFilter(n *FilterNode) (Value, error) {
	filter, ok := e.filters.Get(n.Name)
	if !ok {
		return Undefined(), unknownCallableError(KindUnknownFilter, ErrMsgUnknownFilter, n.Name, e.filters)
	}

	value, err := e.Eval(n.Expr)
	if err != nil {
		return Undefined(), err
	}
	positional, keywords, err := e.evalArgs(n.Args)
	if err != nil {
		return Undefined(), err
	}

	result, err := filter.Invoke(e.state, append([]Value{value}, positional...), keywords)
	if err != nil {
		return Undefined(), err
	}
	e.logger.Debug(LogMsgFilterApplied, zap.String(LogFieldName, n.Name))
	return result, nil
}

func (e *Evaluator) evalCall(n *CallNode) (Value, error) {
	fn, ok := e.functions.Get(n.Name)
	if !ok {
		return Undefined(), unknownCallableError(KindUnknownFunction, ErrMsgUnknownFunction, n.Name, e.functions)
	}

	positional, keywords, err := e.evalArgs(n.Args)
	if err != nil {
		return Undefined(), err
	}

	result, err := fn.Invoke(e.state, positional, keywords)
	if err != nil {
		return Undefined(), err
	}
	e.logger.Debug(LogMsgFunctionCalled, zap.String(LogFieldName, n.Name))
	return result, nil
}

func (e *Evaluator) evalArgs(args []CallArg) ([]Value, []KeywordArg, error) {
	var positional []Value
	var keywords []KeywordArg
	for _, arg := range args {
		v, err := e.Eval(arg.Value)
		if err != nil {
			return nil, nil, err
		}
		if arg.Name == "" {
			positional = append(positional, v)
		} else {
			keywords = append(keywords, KeywordArg{Name: arg.Name, Value: v})
		}
	}
	return positional, keywords, nil
}

func unknownCallableError(kind ErrorKind, msg, name string, registry *CallableRegistry) error {
	err := NewEngineError(kind, msg).WithName(name)
	if suggestions := FindSimilarStrings(name, registry.Names(), DefaultMaxSuggestions); len(suggestions) > 0 {
		err.WithDetail(FormatSuggestions(suggestions))
	}
	return err
}

// truth tests a value, failing on undefined in strict mode
func (e *Evaluator) truth(v Value) (bool, error) {
	if v.IsUndefined() && e.state.behavior == UndefinedStrict {
		return false, NewEngineError(KindUndefined, ErrMsgUndefinedValue)
	}
	return v.IsTrue(), nil
}

func (e *Evaluator) undefinedOperand(node ExprNode) error {
	return NewEngineError(KindUndefined, ErrMsgUndefinedValue).WithName(node.String()).WithPosition(node.Pos())
}

func (e *Evaluator) consumeFuel() error {
	e.fuelUsed++
	if e.config.Fuel > 0 && e.fuelUsed > e.config.Fuel {
		return NewEngineError(KindResourceLimit, ErrMsgFuelExhausted).WithDetail(fmt.Sprint(e.config.Fuel))
	}
	return nil
}

// countingWriter tracks output length and maps write failures to engine errors
type countingWriter struct {
	w io.Writer
	n int
}

func (c *countingWriter) write(s string) error {
	if c.w == nil || s == "" {
		return nil
	}
	n, err := io.WriteString(c.w, s)
	c.n += n
	if err != nil {
		return NewEngineError(KindInvalidOperation, ErrMsgWriteFailed).WithCause(err)
	}
	return nil
}
