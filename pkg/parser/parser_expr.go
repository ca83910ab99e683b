package parser

import (
	"github.com/leapstack-labs/sqlschema/pkg/ast"
	"github.com/leapstack-labs/sqlschema/pkg/token"
)

// Expression parsing using precedence climbing.
//
// Only the small language needed for DEFAULT values is understood:
// literals, qualified names, parentheses, the unary operators - + ~ NOT,
// the binary operators of ast.BinaryOp and [NOT] BETWEEN ... AND ....
//
// Expression parsing never fails with an error. It reports false instead,
// and the caller decides whether to skip the text.

// Precedence of prefix operators; NOT binds looser than comparisons.
const (
	precedenceNot   = 3
	precedenceUnary = 8
)

// parseExpr parses an expression whose binary operators bind at least as
// tightly as minPrecedence.
func (p *Parser) parseExpr(minPrecedence int) (ast.Expr, bool) {
	left, ok := p.parsePrefixExpr()
	if !ok {
		return nil, false
	}

	for {
		if ast.BetweenPrecedence >= minPrecedence &&
			(p.checkWord("between") || p.checkWords("not", "between")) {
			if left, ok = p.parseBetween(left); !ok {
				return nil, false
			}
			continue
		}

		op, isOp := binaryOp(p.tok())
		if !isOp || op.Precedence() < minPrecedence {
			return left, true
		}
		p.advance()

		// Left associative.
		right, ok := p.parseExpr(op.Precedence() + 1)
		if !ok {
			return nil, false
		}
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parsePrefixExpr() (ast.Expr, bool) {
	var op ast.UnaryOp
	prec := precedenceUnary
	switch {
	case p.check('-'):
		op = ast.Neg
	case p.check('+'):
		op = ast.Plus
	case p.check('~'):
		op = ast.BitNot
	case p.checkWord("not"):
		op, prec = ast.Not, precedenceNot
	default:
		return p.parsePrimary()
	}
	p.advance()

	operand, ok := p.parseExpr(prec)
	if !ok {
		return nil, false
	}
	return &ast.UnaryExpr{Op: op, Operand: operand}, true
}

func (p *Parser) parsePrimary() (ast.Expr, bool) {
	tok := p.tok()
	switch {
	case tok.Kind == token.Number:
		p.advance()
		return &ast.NumberLiteral{Value: tok.Value}, true
	case tok.Kind == token.String:
		p.advance()
		return &ast.StringLiteral{Value: tok.Value}, true
	case tok.Kind.IsName():
		name, err := p.parseQualifiedName()
		if err != nil {
			return nil, false
		}
		return name, true
	case tok.Kind == '(':
		p.advance()
		expr, ok := p.parseExpr(0)
		if !ok || !p.match(')') {
			return nil, false
		}
		return expr, true
	}
	return nil, false
}

// parseBetween parses [NOT] BETWEEN second AND third after first.
func (p *Parser) parseBetween(first ast.Expr) (ast.Expr, bool) {
	op := ast.Between
	if p.matchWord("not") {
		op = ast.NotBetween
	}
	p.advance() // BETWEEN

	second, ok := p.parseExpr(ast.BetweenPrecedence + 1)
	if !ok || !p.matchWord("and") {
		return nil, false
	}
	third, ok := p.parseExpr(ast.BetweenPrecedence + 1)
	if !ok {
		return nil, false
	}
	return &ast.TernaryExpr{Op: op, First: first, Second: second, Third: third}, true
}

// binaryOp returns the binary operator the token stands for, if any.
func binaryOp(tok token.Token) (ast.BinaryOp, bool) {
	switch tok.Kind {
	case '*':
		return ast.Mul, true
	case '/':
		return ast.Div, true
	case '%':
		return ast.Mod, true
	case '+':
		return ast.Add, true
	case '-':
		return ast.Sub, true
	case token.DoublePipe:
		return ast.Concat, true
	case '&':
		return ast.BitAnd, true
	case '|':
		return ast.BitOr, true
	case '^':
		return ast.BitXor, true
	case '=':
		return ast.Eq, true
	case token.NotEqual:
		return ast.Ne, true
	case '<':
		return ast.Lt, true
	case '>':
		return ast.Gt, true
	case token.LessEqual:
		return ast.Le, true
	case token.GreaterEqual:
		return ast.Ge, true
	case token.Word:
		switch tok.Value {
		case "and":
			return ast.And, true
		case "or":
			return ast.Or, true
		}
	}
	return 0, false
}
