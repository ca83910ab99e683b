package schema

import (
	"strings"

	"github.com/leapstack-labs/sqlschema/pkg/ast"
	"github.com/leapstack-labs/sqlschema/pkg/format"
	"github.com/leapstack-labs/sqlschema/pkg/token"
)

// Table is a table defined by a CREATE TABLE statement.
type Table struct {
	Name        *ast.QualifiedName
	Location    token.Location
	Columns     []*Column
	PrimaryKey  *Key
	UniqueKeys  []*Key
	ForeignKeys []*ForeignKey

	columns map[string]*Column
}

// NewTable returns an empty table.
func NewTable(loc token.Location, name *ast.QualifiedName) *Table {
	return &Table{
		Name:     name,
		Location: loc,
		columns:  make(map[string]*Column),
	}
}

// AddColumn appends a column. Column names are unique within a table.
func (t *Table) AddColumn(loc token.Location, c *Column) error {
	if t.columns == nil {
		t.columns = make(map[string]*Column)
	}
	if _, ok := t.columns[c.Name]; ok {
		return token.Errorf(loc, token.ErrDuplicateColumn,
			"%s.%s already exists", format.Name(t.Name), format.Ident(c.Name))
	}
	t.columns[c.Name] = c
	t.Columns = append(t.Columns, c)
	return nil
}

// GetColumn returns the named column.
func (t *Table) GetColumn(loc token.Location, name string) (*Column, error) {
	if c, ok := t.columns[name]; ok {
		return c, nil
	}
	return nil, token.Errorf(loc, token.ErrNotFound,
		"%s.%s not found", format.Name(t.Name), format.Ident(name))
}

// SetPrimaryKey assigns the primary key. A table has at most one.
func (t *Table) SetPrimaryKey(k *Key) error {
	if t.PrimaryKey != nil {
		return token.Errorf(k.Location, token.ErrDuplicatePrimaryKey,
			"%s already has a primary key at %s", format.Name(t.Name), t.PrimaryKey.Location)
	}
	t.PrimaryKey = k
	return nil
}

// AddUniqueKey appends a unique key.
func (t *Table) AddUniqueKey(k *Key) {
	t.UniqueKeys = append(t.UniqueKeys, k)
}

// AddForeignKey appends a foreign key.
func (t *Table) AddForeignKey(fk *ForeignKey) {
	t.ForeignKeys = append(t.ForeignKeys, fk)
}

// ResolveKeys binds the column names of every key, and the local columns of
// every foreign key, to columns of this table.
func (t *Table) ResolveKeys() error {
	if t.PrimaryKey != nil {
		if err := t.PrimaryKey.resolve(t); err != nil {
			return err
		}
	}
	for _, k := range t.UniqueKeys {
		if err := k.resolve(t); err != nil {
			return err
		}
	}
	for _, fk := range t.ForeignKeys {
		if err := fk.resolveColumns(t); err != nil {
			return err
		}
	}
	return nil
}

// String renders the table as a canonical CREATE TABLE statement.
func (t *Table) String() string {
	var sb strings.Builder
	sb.WriteString("CREATE TABLE ")
	sb.WriteString(format.Name(t.Name))
	sb.WriteByte('(')

	var items []string
	for _, c := range t.Columns {
		items = append(items, c.String())
	}
	if t.PrimaryKey != nil {
		items = append(items, "PRIMARY KEY"+t.PrimaryKey.String())
	}
	for _, k := range t.UniqueKeys {
		items = append(items, "UNIQUE"+k.String())
	}
	for _, fk := range t.ForeignKeys {
		items = append(items, fk.String())
	}
	sb.WriteString(strings.Join(items, ", "))

	sb.WriteByte(')')
	return sb.String()
}
