// Package schema holds the model built from parsed DDL: tables with their
// columns and keys, plus the spans of source the parser did not interpret.
//
// A Schema may accumulate the results of several parse calls. It is not safe
// for concurrent mutation; callers serialise parse calls against one Schema.
package schema

import (
	"strings"

	"github.com/leapstack-labs/sqlschema/pkg/ast"
	"github.com/leapstack-labs/sqlschema/pkg/format"
	"github.com/leapstack-labs/sqlschema/pkg/token"
)

// Schema is an ordered collection of tables and ignored source spans.
// The zero value is ready to use.
type Schema struct {
	Tables  []*Table
	Ignored []token.Span

	tables map[string]*Table
}

// New returns an empty schema.
func New() *Schema {
	return &Schema{tables: make(map[string]*Table)}
}

// Add appends a table. Table names are unique; on a collision the existing
// table is kept.
func (s *Schema) Add(loc token.Location, t *Table) error {
	if s.tables == nil {
		s.tables = make(map[string]*Table)
	}
	key := t.Name.Key()
	if _, ok := s.tables[key]; ok {
		return token.Errorf(loc, token.ErrDuplicateTable, "%s already exists", format.Name(t.Name))
	}
	s.tables[key] = t
	s.Tables = append(s.Tables, t)
	return nil
}

// GetTable returns the named table.
func (s *Schema) GetTable(loc token.Location, name *ast.QualifiedName) (*Table, error) {
	if t, ok := s.tables[name.Key()]; ok {
		return t, nil
	}
	return nil, token.Errorf(loc, token.ErrNotFound, "%s not found", format.Name(name))
}

// AddIgnored appends spans of uninterpreted source, in source order.
func (s *Schema) AddIgnored(spans ...token.Span) {
	s.Ignored = append(s.Ignored, spans...)
}

// Resolve binds every foreign key to its referenced table and columns.
// Call it once all documents have been parsed into the schema.
func (s *Schema) Resolve() error {
	for _, t := range s.Tables {
		if err := t.ResolveKeys(); err != nil {
			return err
		}
		for _, fk := range t.ForeignKeys {
			if err := fk.Resolve(s); err != nil {
				return err
			}
		}
	}
	return nil
}

// String renders every table as a canonical CREATE TABLE statement, one per line.
func (s *Schema) String() string {
	var sb strings.Builder
	for _, t := range s.Tables {
		sb.WriteString(t.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Render is String under the name used by callers that write round-trip output.
func (s *Schema) Render() string {
	return s.String()
}

// IgnoredText returns the verbatim text of every ignored span, each preceded
// by a file:line header.
func (s *Schema) IgnoredText() string {
	var sb strings.Builder
	for _, span := range s.Ignored {
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(span.Location.String())
		sb.WriteString(":\n")
		sb.WriteString(span.Text())
		sb.WriteByte('\n')
	}
	return sb.String()
}
