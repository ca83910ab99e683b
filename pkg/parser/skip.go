package parser

import "github.com/leapstack-labs/sqlschema/pkg/token"

// Skipping.
//
// Anything the grammar does not recognise is consumed token by token into
// the ignored list. Parentheses are kept balanced so that a skipped clause
// never swallows the ')' that closes the table definition.

// skipItem ignores the current token, or the whole parenthesised group if
// the current token is '('.
func (p *Parser) skipItem() error {
	if p.check(token.EOF) {
		return p.errorf(token.ErrUnexpectedEOF, "unexpected end of file")
	}
	if !p.check('(') {
		p.ignore()
		return nil
	}
	return p.skipGroup()
}

// skipGroup ignores a parenthesised group, from the current '(' to its
// matching ')'.
func (p *Parser) skipGroup() error {
	open := p.here()
	depth := 0
	for {
		switch p.tok().Kind {
		case token.EOF:
			return token.Errorf(open, token.ErrUnclosedParen, "unclosed (")
		case '(':
			depth++
		case ')':
			depth--
		}
		p.ignore()
		if depth == 0 {
			return nil
		}
	}
}

// skipUntil ignores tokens until stop returns true at parenthesis depth 0.
func (p *Parser) skipUntil(stop func() bool) error {
	depth := 0
	var open token.Location
	for {
		if depth == 0 && stop() {
			return nil
		}

		switch p.tok().Kind {
		case token.EOF:
			if depth > 0 {
				return token.Errorf(open, token.ErrUnclosedParen, "unclosed (")
			}
			return p.errorf(token.ErrUnexpectedEOF, "unexpected end of file")
		case '(':
			if depth == 0 {
				open = p.here()
			}
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		}
		p.ignore()
	}
}

// skipElement ignores the rest of a table element, up to the ',' or ')'
// that ends it.
func (p *Parser) skipElement() error {
	return p.skipUntil(p.atElementEnd)
}

func (p *Parser) atElementEnd() bool {
	return p.check(',') || p.check(')')
}
