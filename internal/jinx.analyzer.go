package internal

import (
	"sort"
	"strings"

	"go.uber.org/zap"
)

// PathSeparator joins the segments of a tracked attribute path
const PathSeparator = "."

// Analyzer collects the context variables a template reads without binding
// them first. Filter and function names are not variables.
type Analyzer struct {
	trackPaths bool
	declared   map[string]bool
	found      map[string]bool
	logger     *zap.Logger
}

// NewAnalyzer creates an analyzer. With trackPaths set, static attribute
// chains such as user.name are reported as dotted paths.
func NewAnalyzer(trackPaths bool, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{
		trackPaths: trackPaths,
		declared:   make(map[string]bool),
		found:      make(map[string]bool),
		logger:     logger,
	}
}

// AnalyzeTemplate walks a template in program order
func (a *Analyzer) AnalyzeTemplate(root *RootNode) []string {
	a.logger.Debug(LogMsgAnalyzerStart, zap.Bool(LogFieldTrackPaths, a.trackPaths))
	for _, node := range root.Children {
		switch n := node.(type) {
		case *EmitNode:
			a.visit(n.Expr)
		case *SetNode:
			a.visit(n.Expr)
			a.declared[n.Name] = true
		}
	}
	return a.result()
}

// AnalyzeExpression walks a standalone expression
func (a *Analyzer) AnalyzeExpression(expr ExprNode) []string {
	a.logger.Debug(LogMsgAnalyzerStart, zap.Bool(LogFieldTrackPaths, a.trackPaths))
	a.visit(expr)
	return a.result()
}

func (a *Analyzer) result() []string {
	out := make([]string, 0, len(a.found))
	for name := range a.found {
		out = append(out, name)
	}
	sort.Strings(out)
	a.logger.Debug(LogMsgAnalyzerEnd, zap.Int(LogFieldUndeclared, len(out)))
	return out
}

func (a *Analyzer) visit(node ExprNode) {
	switch n := node.(type) {
	case nil, *ConstNode:
	case *VarNode:
		a.record(n.Name, nil)
	case *GetAttrNode, *GetItemNode:
		a.visitChain(node)
	case *UnaryNode:
		a.visit(n.Operand)
	case *BinaryNode:
		a.visit(n.Left)
		a.visit(n.Right)
	case *FilterNode:
		a.visit(n.Expr)
		a.visitArgs(n.Args)
	case *CallNode:
		a.visitArgs(n.Args)
	case *ListNode:
		for _, item := range n.Items {
			a.visit(item)
		}
	case *MapNode:
		for i := range n.Keys {
			a.visit(n.Keys[i])
			a.visit(n.Values[i])
		}
	}
}

func (a *Analyzer) visitArgs(args []CallArg) {
	for _, arg := range args {
		a.visit(arg.Value)
	}
}

// visitChain walks an attribute/subscript chain down to its root. Segments
// above a dynamic subscript are dropped from the path.
func (a *Analyzer) visitChain(node ExprNode) {
	var parts []string
	cur := node
	for {
		switch n := cur.(type) {
		case *GetAttrNode:
			parts = append(parts, n.Name)
			cur = n.Expr
		case *GetItemNode:
			if c, ok := n.Subscript.(*ConstNode); ok {
				if s, ok := c.Value.AsString(); ok {
					parts = append(parts, s)
					cur = n.Expr
					continue
				}
			}
			a.visit(n.Subscript)
			parts = parts[:0]
			cur = n.Expr
		case *VarNode:
			for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
				parts[i], parts[j] = parts[j], parts[i]
			}
			a.record(n.Name, parts)
			return
		default:
			a.visit(cur)
			return
		}
	}
}

func (a *Analyzer) record(name string, path []string) {
	if a.declared[name] {
		return
	}
	if a.trackPaths && len(path) > 0 {
		name = name + PathSeparator + strings.Join(path, PathSeparator)
	}
	a.found[name] = true
}
