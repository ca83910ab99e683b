package parser

import (
	"github.com/leapstack-labs/sqlschema/pkg/ast"
	"github.com/leapstack-labs/sqlschema/pkg/token"
)

// ParseName parses a table name typed by a user, such as orders,
// dbo.Orders or "Order Lines". Unquoted parts fold to lower case exactly as
// they do in DDL, so the result can be passed to schema.Schema.GetTable.
func ParseName(text string) (*ast.QualifiedName, error) {
	const file = "name"

	tokens, err := Tokenize(file, text)
	if err != nil {
		return nil, err
	}

	p := &Parser{file: file, text: text, tokens: tokens}
	name, err := p.parseQualifiedName()
	if err != nil {
		return nil, err
	}
	if !p.check(token.EOF) {
		return nil, p.expected(token.ErrExpectedToken, "end of name")
	}
	return name, nil
}
