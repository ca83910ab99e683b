package format

import (
	"testing"

	"github.com/leapstack-labs/sqlschema/pkg/ast"
	"github.com/stretchr/testify/assert"
)

func TestIdent(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain word", "customer_id", "customer_id"},
		{"leading underscore", "_x1", "_x1"},
		{"unicode word", "größe", "größe"},
		{"upper case", "Customer", `"Customer"`},
		{"space", "order details", `"order details"`},
		{"embedded quote", `a"b`, `"a""b"`},
		{"leading digit", "1abc", `"1abc"`},
		{"empty", "", `""`},
		{"constraint keyword", "primary", `"primary"`},
		{"dot", "a.b", `"a.b"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Ident(tt.input))
		})
	}
}

func TestName(t *testing.T) {
	assert.Equal(t, "dbo.orders", Name(ast.NewQualifiedName("dbo", "orders")))
	assert.Equal(t, `dbo."Order Lines"`, Name(ast.NewQualifiedName("dbo", "Order Lines")))
}

func TestString(t *testing.T) {
	assert.Equal(t, "'it''s'", String("it's"))
	assert.Equal(t, "''", String(""))
}

func TestExpr(t *testing.T) {
	name := ast.NewQualifiedName
	num := func(v string) ast.Expr { return &ast.NumberLiteral{Value: v} }
	bin := func(op ast.BinaryOp, l, r ast.Expr) ast.Expr { return &ast.BinaryExpr{Op: op, Left: l, Right: r} }

	tests := []struct {
		name string
		expr ast.Expr
		want string
	}{
		{"nil", nil, ""},
		{"name", name("dbo", "seq"), "dbo.seq"},
		{"number", num("1.5"), "1.5"},
		{"string", &ast.StringLiteral{Value: "n/a"}, "'n/a'"},
		{"negative", &ast.UnaryExpr{Op: ast.Neg, Operand: num("1")}, "-1"},
		{"double negative", &ast.UnaryExpr{Op: ast.Neg, Operand: &ast.UnaryExpr{Op: ast.Neg, Operand: num("1")}}, "-(-1)"},
		{"not", &ast.UnaryExpr{Op: ast.Not, Operand: bin(ast.Eq, name("a"), num("1"))}, "NOT a = 1"},
		{"precedence kept", bin(ast.Add, num("1"), bin(ast.Mul, num("2"), num("3"))), "1 + 2 * 3"},
		{"precedence forced", bin(ast.Mul, bin(ast.Add, num("1"), num("2")), num("3")), "(1 + 2) * 3"},
		{"left associative", bin(ast.Sub, bin(ast.Sub, num("1"), num("2")), num("3")), "1 - 2 - 3"},
		{"right grouping", bin(ast.Sub, num("1"), bin(ast.Sub, num("2"), num("3"))), "1 - (2 - 3)"},
		{"concat", bin(ast.Concat, &ast.StringLiteral{Value: "a"}, name("b")), "'a' || b"},
		{"or inside and", bin(ast.And, name("a"), bin(ast.Or, name("b"), name("c"))), "a AND (b OR c)"},
		{
			"between",
			&ast.TernaryExpr{Op: ast.Between, First: name("x"), Second: num("1"), Third: bin(ast.Add, num("2"), num("3"))},
			"x BETWEEN 1 AND 2 + 3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Expr(tt.expr))
		})
	}
}
