package parser

import (
	"github.com/leapstack-labs/sqlschema/pkg/ast"
	"github.com/leapstack-labs/sqlschema/pkg/schema"
	"github.com/leapstack-labs/sqlschema/pkg/token"
)

// CREATE TABLE parsing.
//
// Grammar:
//
//	create_table → CREATE TABLE [IF NOT EXISTS] name {other} '(' element {',' element} ')' [';' | GO]
//	primary_key  → PRIMARY KEY {word} column_list
//	unique       → UNIQUE [KEY | INDEX] [name] column_list
//	foreign_key  → FOREIGN KEY [name] column_list references
//	references   → REFERENCES name [column_list] {ON (DELETE | UPDATE) action}
//	column_list  → '(' name {other} {',' name {other}} ')'
//
// Tokens matched by {other} go to the ignored list, as does anything left
// in an element after the part the grammar understands.

// parseCreateTable parses a CREATE TABLE statement at the current token.
// It returns false, with the cursor unchanged, if the statement has no
// column list; the caller then skips it like any other statement.
func (p *Parser) parseCreateTable() (bool, error) {
	m := p.mark()
	loc := p.here()
	p.advance() // CREATE
	p.advance() // TABLE

	if p.checkWords("if", "not", "exists") {
		p.ignore()
		p.ignore()
		p.ignore()
	}

	if !p.tok().Kind.IsName() {
		p.reset(m)
		return false, nil
	}
	name, err := p.parseQualifiedName()
	if err != nil {
		return false, err
	}

	// Vendor extensions between the name and the column list.
	if !p.hasColumnList() {
		p.reset(m)
		return false, nil
	}
	for !p.check('(') {
		p.ignore()
	}
	p.advance() // (

	t := schema.NewTable(loc, name)
	for {
		if err := p.parseTableElement(t); err != nil {
			return false, err
		}
		if p.match(',') {
			continue
		}
		if p.match(')') {
			break
		}
		return false, p.expected(token.ErrExpectedToken, "',' or ')'")
	}

	if err := t.ResolveKeys(); err != nil {
		return false, err
	}
	if err := p.schema.Add(loc, t); err != nil {
		return false, err
	}

	if !p.match(';') {
		p.matchWord("go")
	}
	return true, nil
}

// hasColumnList reports whether a '(' comes before anything that would end
// the statement.
func (p *Parser) hasColumnList() bool {
	for i := p.pos; ; i++ {
		tok := p.tokens[i]
		switch {
		case tok.Kind == '(':
			return true
		case tok.Kind == token.EOF, tok.Kind == ';',
			tok.Is("as"), tok.Is("go"), tok.Is("create"):
			return false
		}
	}
}

// parseTableElement parses one column definition or table constraint.
func (p *Parser) parseTableElement(t *schema.Table) error {
	named := false
	if p.checkWord("constraint") {
		p.ignore()
		if p.tok().Kind.IsName() {
			p.ignore()
		}
		named = true
	}

	switch {
	case p.checkWords("primary", "key"):
		if err := p.parsePrimaryKeyConstraint(t); err != nil {
			return err
		}
	case p.checkWord("unique"):
		if err := p.parseUniqueConstraint(t); err != nil {
			return err
		}
	case p.checkWords("foreign", "key"):
		if err := p.parseForeignKeyConstraint(t); err != nil {
			return err
		}
	case named, p.checkWord("check"), p.isIndexDefinition():
		// CHECK, MySQL index definitions and unknown named constraints.
	default:
		return p.parseColumn(t)
	}
	return p.skipElement()
}

// isIndexDefinition recognises MySQL's KEY, INDEX, FULLTEXT and SPATIAL
// table elements, which define indexes rather than keys.
func (p *Parser) isIndexDefinition() bool {
	switch {
	case p.checkWord("fulltext"), p.checkWord("spatial"):
		return true
	case p.checkWord("key"), p.checkWord("index"):
		next := p.peek(1)
		return next.Kind == '(' || next.Kind.IsName() && p.peek(2).Kind == '(' && !isTypeName(next)
	}
	return false
}

func (p *Parser) parsePrimaryKeyConstraint(t *schema.Table) error {
	loc := p.here()
	p.advance() // PRIMARY
	p.advance() // KEY

	// CLUSTERED, NONCLUSTERED and the like.
	for p.check(token.Word) {
		p.ignore()
	}

	names, err := p.parseColumnList()
	if err != nil {
		return err
	}
	return t.SetPrimaryKey(schema.NewKey(loc, names...))
}

func (p *Parser) parseUniqueConstraint(t *schema.Table) error {
	m := p.mark()
	loc := p.here()
	p.advance() // UNIQUE

	// KEY or INDEX, an index name, CLUSTERED.
	for !p.check('(') && !p.check(token.EOF) && !p.atElementEnd() {
		p.ignore()
	}
	if !p.check('(') {
		// No column list: the element is skipped whole.
		p.reset(m)
		return nil
	}

	names, err := p.parseColumnList()
	if err != nil {
		return err
	}
	t.AddUniqueKey(schema.NewKey(loc, names...))
	return nil
}

func (p *Parser) parseForeignKeyConstraint(t *schema.Table) error {
	loc := p.here()
	p.advance() // FOREIGN
	p.advance() // KEY

	if p.tok().Kind.IsName() {
		p.ignore() // MySQL index name
	}
	names, err := p.parseColumnList()
	if err != nil {
		return err
	}
	if !p.checkWord("references") {
		return p.expected(token.ErrExpectedToken, "REFERENCES")
	}

	fk, err := p.parseReferences(loc, names)
	if err != nil {
		return err
	}
	t.AddForeignKey(fk)
	return nil
}

// parseReferences parses a REFERENCES clause for the given local columns.
func (p *Parser) parseReferences(loc token.Location, columns []string) (*schema.ForeignKey, error) {
	p.advance() // REFERENCES

	ref, err := p.parseQualifiedName()
	if err != nil {
		return nil, err
	}
	fk := &schema.ForeignKey{
		Location:     loc,
		ColumnNames:  columns,
		RefTableName: ref,
	}

	if p.check('(') {
		if fk.RefColumnNames, err = p.parseColumnList(); err != nil {
			return nil, err
		}
	}

	for p.checkWord("on") {
		m := p.mark()
		p.advance() // ON
		var target *schema.Action
		switch {
		case p.matchWord("delete"):
			target = &fk.OnDelete
		case p.matchWord("update"):
			target = &fk.OnUpdate
		}
		action, ok := p.parseAction()
		if target == nil || !ok {
			// Something else, such as MySQL's ON UPDATE CURRENT_TIMESTAMP.
			p.reset(m)
			break
		}
		*target = action
	}
	return fk, nil
}

func (p *Parser) parseAction() (schema.Action, bool) {
	for _, a := range actionWords {
		if p.checkWords(a.words...) {
			for range a.words {
				p.advance()
			}
			return a.action, true
		}
	}
	return schema.NoAction, false
}

// parseColumnList parses a parenthesised list of column names. Anything
// after a name, such as ASC or a prefix length, is ignored.
func (p *Parser) parseColumnList() ([]string, error) {
	if err := p.expect('('); err != nil {
		return nil, err
	}

	var names []string
	for {
		name, err := p.parseName()
		if err != nil {
			return nil, err
		}
		names = append(names, name)

		if err := p.skipElement(); err != nil {
			return nil, err
		}
		if p.match(',') {
			continue
		}
		p.advance() // )
		return names, nil
	}
}

// ---------- Names ----------

// parseName parses a plain or quoted name.
func (p *Parser) parseName() (string, error) {
	tok := p.tok()
	if !tok.Kind.IsName() {
		return "", p.expected(token.ErrExpectedName, "name")
	}
	p.advance()
	return tok.Value, nil
}

// parseQualifiedName parses a dot-separated sequence of names.
func (p *Parser) parseQualifiedName() (*ast.QualifiedName, error) {
	var names []string
	for {
		name, err := p.parseName()
		if err != nil {
			return nil, err
		}
		names = append(names, name)
		if !p.match('.') {
			return ast.NewQualifiedName(names...), nil
		}
	}
}
