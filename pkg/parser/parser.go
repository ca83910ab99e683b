// Package parser reads SQL DDL into a schema.Schema.
//
// # Usage
//
//	s := schema.New()
//	if err := parser.Parse("orders.sql", text, s); err != nil {
//	    // handle error
//	}
//
// Parse may be called repeatedly with the same schema to build one model
// from several documents.
//
// # Grammar Overview
//
// Only CREATE TABLE is interpreted. Everything else, at the top level or
// inside a table definition, is skipped with balanced parentheses and kept
// verbatim in Schema.Ignored.
//
//	create_table → CREATE TABLE [IF NOT EXISTS] name '(' element {',' element} ')' [';' | GO]
//	element      → [CONSTRAINT name] (primary_key | unique | foreign_key | column)
//	column       → name data_type {NULL | NOT NULL | PRIMARY KEY | UNIQUE [KEY]
//	                | REFERENCES ref | DEFAULT expr | CONSTRAINT name | other}
//	data_type    → type_name ['(' (int [',' int] | string {',' string}) ')']
//
// See each file for detailed grammar rules for that section.
package parser

import (
	"strings"

	"github.com/leapstack-labs/sqlschema/pkg/schema"
	"github.com/leapstack-labs/sqlschema/pkg/token"
)

// Parser holds the state of one Parse call.
type Parser struct {
	file   string
	text   string
	tokens []token.Token
	pos    int // index of the current token

	// ignored holds the indices of skipped tokens in increasing order.
	ignored []int

	schema *schema.Schema
}

// Parse parses text and adds the tables it defines, and the spans it did
// not interpret, to s. A table is added only once its whole statement has
// parsed. Any error stops the parse.
func Parse(file, text string, s *schema.Schema) error {
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}

	tokens, err := Tokenize(file, text)
	if err != nil {
		return err
	}

	p := &Parser{
		file:   file,
		text:   text,
		tokens: tokens,
		schema: s,
	}
	if err := p.parseStatements(); err != nil {
		return err
	}

	s.AddIgnored(p.spans()...)
	return nil
}

// parseStatements is the top-level loop.
func (p *Parser) parseStatements() error {
	for !p.check(token.EOF) {
		if p.checkWords("create", "table") {
			ok, err := p.parseCreateTable()
			if err != nil {
				return err
			}
			if ok {
				continue
			}
		}
		if err := p.skipItem(); err != nil {
			return err
		}
	}
	return nil
}

// ---------- Token Helpers ----------

// tok returns the current token.
func (p *Parser) tok() token.Token {
	return p.tokens[p.pos]
}

// peek returns the token n places after the current one, stopping at EOF.
func (p *Parser) peek(n int) token.Token {
	i := p.pos + n
	if i >= len(p.tokens) {
		i = len(p.tokens) - 1
	}
	return p.tokens[i]
}

// check returns true if the current token is of the given kind.
func (p *Parser) check(k token.Kind) bool {
	return p.tok().Kind == k
}

// checkWord returns true if the current token is the given keyword.
func (p *Parser) checkWord(word string) bool {
	return p.tok().Is(word)
}

// checkWords returns true if the next tokens are the given keywords.
func (p *Parser) checkWords(words ...string) bool {
	for i, w := range words {
		if !p.peek(i).Is(w) {
			return false
		}
	}
	return true
}

// advance consumes the current token as part of a recognised construct.
func (p *Parser) advance() {
	if !p.check(token.EOF) {
		p.pos++
	}
}

// match consumes the current token if it is of the given kind.
func (p *Parser) match(k token.Kind) bool {
	if p.check(k) {
		p.advance()
		return true
	}
	return false
}

// matchWord consumes the current token if it is the given keyword.
func (p *Parser) matchWord(word string) bool {
	if p.checkWord(word) {
		p.advance()
		return true
	}
	return false
}

// expect consumes the current token if it is of the given kind, otherwise
// returns an error.
func (p *Parser) expect(k token.Kind) error {
	if p.match(k) {
		return nil
	}
	return p.expected(token.ErrExpectedToken, k.String())
}

// ---------- Positions and Errors ----------

func (p *Parser) location(offset int) token.Location {
	return token.Location{File: p.file, Text: p.text, Start: offset}
}

// here returns the location of the current token.
func (p *Parser) here() token.Location {
	return p.location(p.tok().Start)
}

// errorf builds an error anchored at the current token. It does not return
// it, so callers can write "return p.errorf(...)" at any decision point.
func (p *Parser) errorf(kind error, format string, args ...any) *token.Error {
	return token.Errorf(p.here(), kind, format, args...)
}

// expected reports that the current token is not what was wanted. Running
// out of input is reported as such whatever was wanted.
func (p *Parser) expected(kind error, what string) *token.Error {
	if p.check(token.EOF) {
		return p.errorf(token.ErrUnexpectedEOF, "unexpected end of file, expected %s", what)
	}
	return p.errorf(kind, "expected %s, got %s", what, p.tok())
}

// ---------- Ignored Spans ----------

// mark records a position the parser can return to.
type mark struct {
	pos     int
	ignored int
}

func (p *Parser) mark() mark {
	return mark{pos: p.pos, ignored: len(p.ignored)}
}

// reset returns to a mark, forgetting tokens ignored since.
func (p *Parser) reset(m mark) {
	p.pos = m.pos
	p.ignored = p.ignored[:m.ignored]
}

// ignore consumes the current token without interpreting it.
func (p *Parser) ignore() {
	p.ignored = append(p.ignored, p.pos)
	p.advance()
}

// spans merges runs of adjacent ignored tokens into source spans.
func (p *Parser) spans() []token.Span {
	var spans []token.Span
	for i := 0; i < len(p.ignored); {
		j := i
		for j+1 < len(p.ignored) && p.ignored[j+1] == p.ignored[j]+1 {
			j++
		}
		first := p.tokens[p.ignored[i]]
		last := p.tokens[p.ignored[j]]
		spans = append(spans, token.Span{Location: p.location(first.Start), End: last.End})
		i = j + 1
	}
	return spans
}
