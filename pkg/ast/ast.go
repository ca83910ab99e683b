// Package ast defines the expression syntax tree used for column defaults
// and other values inside recognised DDL.
//
// Nodes are always handled through pointers and compared by identity with ==.
// Two nodes built separately from the same text are different nodes. Use
// Equal when a structural comparison is actually wanted.
package ast

import "encoding/binary"

// Expr is implemented by every expression node. The set of implementations
// is closed.
type Expr interface {
	exprNode()
}

// QualifiedName is a dot-separated name such as schema.table.
type QualifiedName struct {
	Names []string
}

func (*QualifiedName) exprNode() {}

// NewQualifiedName returns a name with the given parts.
func NewQualifiedName(names ...string) *QualifiedName {
	return &QualifiedName{Names: names}
}

// Last returns the final part of the name, or "" for an empty name.
func (q *QualifiedName) Last() string {
	if len(q.Names) == 0 {
		return ""
	}
	return q.Names[len(q.Names)-1]
}

// Key returns a string that is equal for structurally equal names.
// Each part is prefixed with its length, so no part content can be
// mistaken for a boundary.
func (q *QualifiedName) Key() string {
	n := 0
	for _, s := range q.Names {
		n += len(s) + binary.MaxVarintLen64
	}
	b := make([]byte, 0, n)
	for _, s := range q.Names {
		b = binary.AppendUvarint(b, uint64(len(s)))
		b = append(b, s...)
	}
	return string(b)
}

// NumberLiteral holds the raw text of a numeric literal.
type NumberLiteral struct {
	Value string
}

func (*NumberLiteral) exprNode() {}

// StringLiteral holds the decoded content of a string literal.
type StringLiteral struct {
	Value string
}

func (*StringLiteral) exprNode() {}

// UnaryExpr applies a prefix operator.
type UnaryExpr struct {
	Op      UnaryOp
	Operand Expr
}

func (*UnaryExpr) exprNode() {}

// BinaryExpr applies an infix operator.
type BinaryExpr struct {
	Op    BinaryOp
	Left  Expr
	Right Expr
}

func (*BinaryExpr) exprNode() {}

// TernaryExpr applies a three-operand operator, e.g. x BETWEEN a AND b.
type TernaryExpr struct {
	Op     TernaryOp
	First  Expr
	Second Expr
	Third  Expr
}

func (*TernaryExpr) exprNode() {}
