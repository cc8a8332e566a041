package internal

import (
	"fmt"
	"strings"
)

// ExprNodeType identifies the type of expression AST node
type ExprNodeType int

// Expression node type constants
const (
	ExprNodeTypeConst ExprNodeType = iota
	ExprNodeTypeVar
	ExprNodeTypeGetAttr
	ExprNodeTypeGetItem
	ExprNodeTypeUnary
	ExprNodeTypeBinary
	ExprNodeTypeFilter
	ExprNodeTypeCall
	ExprNodeTypeList
	ExprNodeTypeMap
)

// Expression node type names for debugging
const (
	ExprNodeTypeNameConst   = "CONST"
	ExprNodeTypeNameVar     = "VAR"
	ExprNodeTypeNameGetAttr = "GETATTR"
	ExprNodeTypeNameGetItem = "GETITEM"
	ExprNodeTypeNameUnary   = "UNARY"
	ExprNodeTypeNameBinary  = "BINARY"
	ExprNodeTypeNameFilter  = "FILTER"
	ExprNodeTypeNameCall    = "CALL"
	ExprNodeTypeNameList    = "LIST"
	ExprNodeTypeNameMap     = "MAP"
)

// String returns the string representation of the node type
func (t ExprNodeType) String() string {
	switch t {
	case ExprNodeTypeConst:
		return ExprNodeTypeNameConst
	case ExprNodeTypeVar:
		return ExprNodeTypeNameVar
	case ExprNodeTypeGetAttr:
		return ExprNodeTypeNameGetAttr
	case ExprNodeTypeGetItem:
		return ExprNodeTypeNameGetItem
	case ExprNodeTypeUnary:
		return ExprNodeTypeNameUnary
	case ExprNodeTypeBinary:
		return ExprNodeTypeNameBinary
	case ExprNodeTypeFilter:
		return ExprNodeTypeNameFilter
	case ExprNodeTypeCall:
		return ExprNodeTypeNameCall
	case ExprNodeTypeList:
		return ExprNodeTypeNameList
	case ExprNodeTypeMap:
		return ExprNodeTypeNameMap
	default:
		return ExprNodeTypeNameConst
	}
}

// Operator is a unary or binary operator
type Operator string

// Operator constants
const (
	OpAnd      Operator = "and"
	OpOr       Operator = "or"
	OpNot      Operator = "not"
	OpEq       Operator = "=="
	OpNeq      Operator = "!="
	OpLt       Operator = "<"
	OpGt       Operator = ">"
	OpLte      Operator = "<="
	OpGte      Operator = ">="
	OpIn       Operator = "in"
	OpNotIn    Operator = "not in"
	OpAdd      Operator = "+"
	OpSub      Operator = "-"
	OpMul      Operator = "*"
	OpDiv      Operator = "/"
	OpFloorDiv Operator = "//"
	OpMod      Operator = "%"
	OpConcat   Operator = "~"
	OpNeg      Operator = "neg"
	OpPos      Operator = "pos"
)

// ExprNode is the interface for all expression AST nodes
type ExprNode interface {
	// Type returns the node type
	Type() ExprNodeType
	// Pos returns the source position of the node
	Pos() Position
	// String returns a string representation for debugging
	String() string
	exprNode()
}

// CallArg is a single call-site argument. Name is empty for positional arguments.
type CallArg struct {
	Name  string
	Value ExprNode
}

// String returns the argument as source-like text
func (a CallArg) String() string {
	if a.Name != "" {
		return a.Name + "=" + a.Value.String()
	}
	return a.Value.String()
}

// ConstNode represents a literal value
type ConstNode struct {
	pos   Position
	Value Value
}

func (n *ConstNode) Type() ExprNodeType { return ExprNodeTypeConst }
func (n *ConstNode) Pos() Position      { return n.pos }
func (n *ConstNode) exprNode()          {}
func (n *ConstNode) String() string     { return n.Value.Repr() }

// VarNode represents a variable reference
type VarNode struct {
	pos  Position
	Name string
}

func (n *VarNode) Type() ExprNodeType { return ExprNodeTypeVar }
func (n *VarNode) Pos() Position      { return n.pos }
func (n *VarNode) exprNode()          {}
func (n *VarNode) String() string     { return n.Name }

// GetAttrNode represents static attribute access (a.b)
type GetAttrNode struct {
	pos  Position
	Expr ExprNode
	Name string
}

func (n *GetAttrNode) Type() ExprNodeType { return ExprNodeTypeGetAttr }
func (n *GetAttrNode) Pos() Position      { return n.pos }
func (n *GetAttrNode) exprNode()          {}
func (n *GetAttrNode) String() string     { return n.Expr.String() + "." + n.Name }

// GetItemNode represents subscript access (a[b])
type GetItemNode struct {
	pos       Position
	Expr      ExprNode
	Subscript ExprNode
}

func (n *GetItemNode) Type() ExprNodeType { return ExprNodeTypeGetItem }
func (n *GetItemNode) Pos() Position      { return n.pos }
func (n *GetItemNode) exprNode()          {}
func (n *GetItemNode) String() string {
	return fmt.Sprintf("%s[%s]", n.Expr.String(), n.Subscript.String())
}

// UnaryNode represents a unary operation (not x, -x)
type UnaryNode struct {
	pos     Position
	Op      Operator
	Operand ExprNode
}

func (n *UnaryNode) Type() ExprNodeType { return ExprNodeTypeUnary }
func (n *UnaryNode) Pos() Position      { return n.pos }
func (n *UnaryNode) exprNode()          {}
func (n *UnaryNode) String() string {
	return fmt.Sprintf("(%s %s)", n.Op, n.Operand.String())
}

// BinaryNode represents a binary operation
type BinaryNode struct {
	pos   Position
	Left  ExprNode
	Op    Operator
	Right ExprNode
}

func (n *BinaryNode) Type() ExprNodeType { return ExprNodeTypeBinary }
func (n *BinaryNode) Pos() Position      { return n.pos }
func (n *BinaryNode) exprNode()          {}
func (n *BinaryNode) String() string {
	return fmt.Sprintf("(%s %s %s)", n.Left.String(), n.Op, n.Right.String())
}

// FilterNode represents filter application (value | name(args))
type FilterNode struct {
	pos  Position
	Expr ExprNode
	Name string
	Args []CallArg
}

func (n *FilterNode) Type() ExprNodeType { return ExprNodeTypeFilter }
func (n *FilterNode) Pos() Position      { return n.pos }
func (n *FilterNode) exprNode()          {}
func (n *FilterNode) String() string {
	return fmt.Sprintf("(%s | %s(%s))", n.Expr.String(), n.Name, joinArgs(n.Args))
}

// CallNode represents a function call (name(args))
type CallNode struct {
	pos  Position
	Name string
	Args []CallArg
}

func (n *CallNode) Type() ExprNodeType { return ExprNodeTypeCall }
func (n *CallNode) Pos() Position      { return n.pos }
func (n *CallNode) exprNode()          {}
func (n *CallNode) String() string {
	return fmt.Sprintf("%s(%s)", n.Name, joinArgs(n.Args))
}

// ListNode represents a list literal
type ListNode struct {
	pos   Position
	Items []ExprNode
}

func (n *ListNode) Type() ExprNodeType { return ExprNodeTypeList }
func (n *ListNode) Pos() Position      { return n.pos }
func (n *ListNode) exprNode()          {}
func (n *ListNode) String() string {
	parts := make([]string, len(n.Items))
	for i, item := range n.Items {
		parts[i] = item.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// MapNode represents a map literal. Keys and Values have equal length.
type MapNode struct {
	pos    Position
	Keys   []ExprNode
	Values []ExprNode
}

func (n *MapNode) Type() ExprNodeType { return ExprNodeTypeMap }
func (n *MapNode) Pos() Position      { return n.pos }
func (n *MapNode) exprNode()          {}
func (n *MapNode) String() string {
	parts := make([]string, len(n.Keys))
	for i := range n.Keys {
		parts[i] = n.Keys[i].String() + ": " + n.Values[i].String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func joinArgs(args []CallArg) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = arg.String()
	}
	return strings.Join(parts, ", ")
}

// NewConst creates a literal node
func NewConst(value Value, pos Position) *ConstNode {
	return &ConstNode{Value: value, pos: pos}
}

// NewVar creates a variable reference node
func NewVar(name string, pos Position) *VarNode {
	return &VarNode{Name: name, pos: pos}
}

// NewGetAttr creates an attribute access node
func NewGetAttr(expr ExprNode, name string, pos Position) *GetAttrNode {
	return &GetAttrNode{Expr: expr, Name: name, pos: pos}
}

// NewGetItem creates a subscript node
func NewGetItem(expr, subscript ExprNode, pos Position) *GetItemNode {
	return &GetItemNode{Expr: expr, Subscript: subscript, pos: pos}
}

// NewUnary creates a unary operation node
func NewUnary(op Operator, operand ExprNode, pos Position) *UnaryNode {
	return &UnaryNode{Op: op, Operand: operand, pos: pos}
}

// NewBinary creates a binary operation node
func NewBinary(left ExprNode, op Operator, right ExprNode, pos Position) *BinaryNode {
	return &BinaryNode{Left: left, Op: op, Right: right, pos: pos}
}

// NewFilter creates a filter application node
func NewFilter(expr ExprNode, name string, args []CallArg, pos Position) *FilterNode {
	return &FilterNode{Expr: expr, Name: name, Args: args, pos: pos}
}

// NewCall creates a function call node
func NewCall(name string, args []CallArg, pos Position) *CallNode {
	return &CallNode{Name: name, Args: args, pos: pos}
}

// NewList creates a list literal node
func NewList(items []ExprNode, pos Position) *ListNode {
	return &ListNode{Items: items, pos: pos}
}

// NewMap creates a map literal node
func NewMap(keys, values []ExprNode, pos Position) *MapNode {
	return &MapNode{Keys: keys, Values: values, pos: pos}
}
