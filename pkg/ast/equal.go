package ast

import "slices"

// Equal reports whether a and b are structurally equal: the same node
// variant with the same operator or content and structurally equal children.
// Two nil expressions are equal.
func Equal(a, b Expr) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	switch a := a.(type) {
	case *QualifiedName:
		b, ok := b.(*QualifiedName)
		return ok && slices.Equal(a.Names, b.Names)
	case *NumberLiteral:
		b, ok := b.(*NumberLiteral)
		return ok && a.Value == b.Value
	case *StringLiteral:
		b, ok := b.(*StringLiteral)
		return ok && a.Value == b.Value
	case *UnaryExpr:
		b, ok := b.(*UnaryExpr)
		return ok && a.Op == b.Op && Equal(a.Operand, b.Operand)
	case *BinaryExpr:
		b, ok := b.(*BinaryExpr)
		return ok && a.Op == b.Op && Equal(a.Left, b.Left) && Equal(a.Right, b.Right)
	case *TernaryExpr:
		b, ok := b.(*TernaryExpr)
		return ok && a.Op == b.Op &&
			Equal(a.First, b.First) && Equal(a.Second, b.Second) && Equal(a.Third, b.Third)
	}
	return false
}
