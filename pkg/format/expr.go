package format

import (
	"github.com/leapstack-labs/sqlschema/pkg/ast"
)

// unaryPrecedence binds tighter than every binary operator except for NOT,
// which sits just above AND.
const (
	unaryPrecedence = 8
	notPrecedence   = 3
)

// Expr renders an expression, adding parentheses only where precedence
// requires them.
func Expr(e ast.Expr) string {
	p := NewPrinter()
	p.Expr(e)
	return p.String()
}

// Expr appends an expression.
func (p *Printer) Expr(e ast.Expr) {
	p.formatExpr(e, 0)
}

func (p *Printer) formatExpr(e ast.Expr, outer int) {
	switch expr := e.(type) {
	case nil:
	case *ast.QualifiedName:
		p.Name(expr.Names)
	case *ast.NumberLiteral:
		p.Write(expr.Value)
	case *ast.StringLiteral:
		p.Write(String(expr.Value))
	case *ast.UnaryExpr:
		prec := unaryPrecedence
		if expr.Op == ast.Not {
			prec = notPrecedence
		}
		p.paren(prec < outer, func() {
			p.Write(expr.Op.String())
			// prec+1 keeps "-(-x)" from printing as a line comment.
			p.formatExpr(expr.Operand, prec+1)
		})
	case *ast.BinaryExpr:
		prec := expr.Op.Precedence()
		p.paren(prec < outer, func() {
			p.formatExpr(expr.Left, prec)
			p.Write(" " + expr.Op.String() + " ")
			// Left associative: an equal-precedence right operand needs parentheses.
			p.formatExpr(expr.Right, prec+1)
		})
	case *ast.TernaryExpr:
		prec := ast.BetweenPrecedence
		p.paren(prec < outer, func() {
			p.formatExpr(expr.First, prec+1)
			p.Write(" " + expr.Op.String() + " ")
			p.formatExpr(expr.Second, prec+1)
			p.Write(" AND ")
			p.formatExpr(expr.Third, prec+1)
		})
	}
}

func (p *Printer) paren(needed bool, body func()) {
	if needed {
		p.Write("(")
	}
	body()
	if needed {
		p.Write(")")
	}
}
