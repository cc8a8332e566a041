package internal

import (
	"fmt"
	"strings"
)

// Node is the interface all template AST nodes implement
type Node interface {
	// Type returns the node type identifier
	Type() NodeType
	// Pos returns the source position of this node
	Pos() Position
	// String returns a human-readable representation
	String() string
}

// RootNode is the top-level container for a compiled template
type RootNode struct {
	Children []Node
}

// Type returns NodeTypeRoot
func (n *RootNode) Type() NodeType {
	return NodeTypeRoot
}

// Pos returns the start of the source
func (n *RootNode) Pos() Position {
	return Position{Offset: 0, Line: 1, Column: 1}
}

// String returns a string representation of the root node
func (n *RootNode) String() string {
	var sb strings.Builder
	sb.WriteString("RootNode{\n")
	for i, child := range n.Children {
		sb.WriteString(fmt.Sprintf("  [%d] %s\n", i, child.String()))
	}
	sb.WriteString("}")
	return sb.String()
}

// TextNode represents literal text emitted verbatim
type TextNode struct {
	pos     Position
	Content string
}

// Type returns NodeTypeText
func (n *TextNode) Type() NodeType {
	return NodeTypeText
}

// Pos returns the source position
func (n *TextNode) Pos() Position {
	return n.pos
}

// String returns a string representation
func (n *TextNode) String() string {
	content := n.Content
	if len(content) > MaxStringDisplayLength {
		content = content[:TruncatedStringLength] + TruncationSuffix
	}
	return fmt.Sprintf("TextNode{%q @ %s}", content, n.pos)
}

// NewTextNode creates a new text node
func NewTextNode(content string, pos Position) *TextNode {
	return &TextNode{pos: pos, Content: content}
}

// EmitNode prints the value of an expression ({{ expr }})
type EmitNode struct {
	pos  Position
	Expr ExprNode
}

// Type returns NodeTypeEmit
func (n *EmitNode) Type() NodeType {
	return NodeTypeEmit
}

// Pos returns the source position
func (n *EmitNode) Pos() Position {
	return n.pos
}

// String returns a string representation
func (n *EmitNode) String() string {
	return fmt.Sprintf("EmitNode{%s @ %s}", n.Expr.String(), n.pos)
}

// NewEmitNode creates a new emit node
func NewEmitNode(expr ExprNode, pos Position) *EmitNode {
	return &EmitNode{pos: pos, Expr: expr}
}

// SetNode binds a name in the local scope ({% set name = expr %})
type SetNode struct {
	pos  Position
	Name string
	Expr ExprNode
}

// Type returns NodeTypeSet
func (n *SetNode) Type() NodeType {
	return NodeTypeSet
}

// Pos returns the source position
func (n *SetNode) Pos() Position {
	return n.pos
}

// String returns a string representation
func (n *SetNode) String() string {
	return fmt.Sprintf("SetNode{%s = %s @ %s}", n.Name, n.Expr.String(), n.pos)
}

// NewSetNode creates a new set node
func NewSetNode(name string, expr ExprNode, pos Position) *SetNode {
	return &SetNode{pos: pos, Name: name, Expr: expr}
}
