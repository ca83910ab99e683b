package parser

import (
	"strconv"

	"github.com/leapstack-labs/sqlschema/pkg/ast"
	"github.com/leapstack-labs/sqlschema/pkg/schema"
	"github.com/leapstack-labs/sqlschema/pkg/token"
)

// Column definition parsing.
//
// Grammar:
//
//	column     → name data_type {constraint}
//	constraint → NULL | NOT NULL | PRIMARY KEY | UNIQUE [KEY] | REFERENCES ...
//	           | DEFAULT expr | CONSTRAINT name | other
//	data_type  → type_name ['(' size [',' size] ')' | '(' string {',' string} ')']
//	size       → integer | MAX
//
// A column ends at the ',' or ')' that follows it at parenthesis depth 0.

func (p *Parser) parseColumn(t *schema.Table) error {
	loc := p.here()
	name, err := p.parseName()
	if err != nil {
		return err
	}

	dataType, err := p.parseDataType()
	if err != nil {
		return err
	}

	c := schema.NewColumn(name, dataType)
	c.Location = loc
	if err := p.parseColumnConstraints(t, c); err != nil {
		return err
	}
	return t.AddColumn(loc, c)
}

func (p *Parser) parseColumnConstraints(t *schema.Table, c *schema.Column) error {
	keyed := false
	for {
		loc := p.here()
		switch {
		case p.atElementEnd():
			return nil
		case p.check(token.EOF):
			return p.errorf(token.ErrUnexpectedEOF, "unexpected end of file in definition of %s", c.Name)
		case p.checkWord("null") && keyed:
			// Key columns stay NOT NULL.
			p.ignore()
		case p.matchWord("null"):
			c.Nullable = true
		case p.checkWords("not", "null"):
			p.advance()
			p.advance()
			c.Nullable = false
		case p.checkWords("primary", "key"):
			p.advance()
			p.advance()
			k := schema.NewKey(loc, c.Name)
			k.Add(c)
			if err := t.SetPrimaryKey(k); err != nil {
				return err
			}
			keyed = true
		case p.checkWord("unique"):
			p.advance()
			p.matchWord("key")
			k := schema.NewKey(loc, c.Name)
			k.Add(c)
			t.AddUniqueKey(k)
			keyed = true
		case p.checkWord("references"):
			fk, err := p.parseReferences(loc, []string{c.Name})
			if err != nil {
				return err
			}
			t.AddForeignKey(fk)
		case p.checkWord("default"):
			if err := p.parseDefault(c); err != nil {
				return err
			}
		case p.checkWord("constraint"):
			p.ignore()
			if p.tok().Kind.IsName() {
				p.ignore()
			}
		default:
			if err := p.skipItem(); err != nil {
				return err
			}
		}
	}
}

// parseDefault parses DEFAULT expr. If the expression is outside the
// supported grammar, or is followed by something that cannot start another
// clause, the DEFAULT keyword is ignored and the rest is left to the
// caller's skipping.
func (p *Parser) parseDefault(c *schema.Column) error {
	m := p.mark()
	p.advance() // DEFAULT

	if expr, ok := p.parseExpr(0); ok && p.atClauseBoundary() {
		c.Default = expr
		return nil
	}

	p.reset(m)
	p.ignore()
	return nil
}

func (p *Parser) atClauseBoundary() bool {
	return p.atElementEnd() || p.check(token.Word)
}

// ---------- Data Types ----------

func (p *Parser) parseDataType() (schema.DataType, error) {
	var name *ast.QualifiedName
	for _, syn := range typeSynonyms {
		if p.checkWords(syn.words...) {
			for range syn.words {
				p.advance()
			}
			name = ast.NewQualifiedName(syn.name)
			break
		}
	}
	if name == nil {
		var err error
		if name, err = p.parseQualifiedName(); err != nil {
			return schema.DataType{}, err
		}
	}

	dataType := schema.DataType{TypeName: name, Size: schema.NoSize, Scale: schema.NoSize}
	if !p.match('(') {
		return dataType, nil
	}

	if len(name.Names) == 1 && name.Names[0] == "enum" {
		for {
			tok := p.tok()
			if tok.Kind != token.String {
				return schema.DataType{}, p.expected(token.ErrExpectedString, "string literal")
			}
			p.advance()
			dataType.EnumValues = append(dataType.EnumValues, tok.Value)
			if !p.match(',') {
				break
			}
		}
	} else {
		size, err := p.parseSize()
		if err != nil {
			return schema.DataType{}, err
		}
		dataType.Size = size
		if p.match(',') {
			if dataType.Scale, err = p.parseSize(); err != nil {
				return schema.DataType{}, err
			}
		}
	}

	if err := p.expect(')'); err != nil {
		return schema.DataType{}, err
	}
	return dataType, nil
}

// parseSize parses a type size or scale: an integer, or MAX.
func (p *Parser) parseSize() (int, error) {
	if p.matchWord("max") {
		return schema.MaxSize, nil
	}
	tok := p.tok()
	if tok.Kind == token.Number {
		if n, err := strconv.Atoi(tok.Value); err == nil && n >= 0 {
			p.advance()
			return n, nil
		}
	}
	return 0, p.expected(token.ErrExpectedInteger, "integer")
}
