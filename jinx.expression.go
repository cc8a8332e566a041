package jinx

import (
	"github.com/itsatony/go-jinx/internal"
)

// Expression is a compiled standalone expression, evaluated against a
// context the same way template expressions are.
type Expression struct {
	source string
	node   internal.ExprNode
	env    *Environment
}

// Source returns the expression source text.
func (x *Expression) Source() string {
	return x.source
}

// Eval evaluates the expression with the given context.
func (x *Expression) Eval(ctx any) (Value, error) {
	evaluator, err := x.env.newEvaluator(DefaultExpressionName, ctx)
	if err != nil {
		return Undefined(), wrapError(err)
	}
	v, err := evaluator.Eval(x.node)
	if err != nil {
		return Undefined(), wrapError(err)
	}
	return v, nil
}

// EvalBool evaluates the expression and tests the result for truthiness.
func (x *Expression) EvalBool(ctx any) (bool, error) {
	evaluator, err := x.env.newEvaluator(DefaultExpressionName, ctx)
	if err != nil {
		return false, wrapError(err)
	}
	ok, err := evaluator.EvalBool(x.node)
	return ok, wrapError(err)
}

// UndeclaredVariables returns the sorted names the expression reads.
func (x *Expression) UndeclaredVariables(trackPaths bool) []string {
	return internal.NewAnalyzer(trackPaths, x.env.logger).AnalyzeExpression(x.node)
}
