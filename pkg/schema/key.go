package schema

import (
	"strings"

	"github.com/leapstack-labs/sqlschema/pkg/ast"
	"github.com/leapstack-labs/sqlschema/pkg/format"
	"github.com/leapstack-labs/sqlschema/pkg/token"
)

// Key is a primary or unique key.
type Key struct {
	Location    token.Location
	ColumnNames []string
	Columns     []*Column
}

// NewKey returns an unresolved key over the named columns.
func NewKey(loc token.Location, columnNames ...string) *Key {
	return &Key{Location: loc, ColumnNames: columnNames}
}

// Add appends a resolved column. Key columns are never nullable.
func (k *Key) Add(c *Column) {
	c.Nullable = false
	k.Columns = append(k.Columns, c)
}

// resolve binds ColumnNames to columns of t. It does nothing once done.
func (k *Key) resolve(t *Table) error {
	if len(k.Columns) >= len(k.ColumnNames) {
		return nil
	}
	k.Columns = k.Columns[:0]
	for _, name := range k.ColumnNames {
		c, err := t.GetColumn(k.Location, name)
		if err != nil {
			return err
		}
		k.Add(c)
	}
	return nil
}

// Names returns the key's column names, taken from the resolved columns
// when the key was built with Add alone.
func (k *Key) Names() []string {
	if len(k.ColumnNames) > 0 {
		return k.ColumnNames
	}
	names := make([]string, len(k.Columns))
	for i, c := range k.Columns {
		names[i] = c.Name
	}
	return names
}

func (k *Key) String() string {
	return columnList(k.Names())
}

// Action is a referential action of a foreign key.
type Action int

// Referential actions.
const (
	NoAction Action = iota
	Cascade
	SetNull
	SetDefault
	Restrict
)

var actionNames = [...]string{
	NoAction:   "NO ACTION",
	Cascade:    "CASCADE",
	SetNull:    "SET NULL",
	SetDefault: "SET DEFAULT",
	Restrict:   "RESTRICT",
}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "UNKNOWN"
}

// ForeignKey refers from columns of one table to columns of another.
//
// The parser fills in the names. The table may be defined later in the
// document or in another document, so the object fields stay empty until
// Resolve binds them.
type ForeignKey struct {
	Location       token.Location
	ColumnNames    []string
	RefTableName   *ast.QualifiedName
	RefColumnNames []string

	Columns    []*Column
	RefTable   *Table
	RefColumns []*Column

	OnDelete Action
	OnUpdate Action
}

// Resolved reports whether the referenced table has been bound.
func (fk *ForeignKey) Resolved() bool {
	return fk.RefTable != nil
}

// resolveColumns binds ColumnNames to columns of the owning table.
func (fk *ForeignKey) resolveColumns(t *Table) error {
	if len(fk.Columns) >= len(fk.ColumnNames) {
		return nil
	}
	fk.Columns = fk.Columns[:0]
	for _, name := range fk.ColumnNames {
		c, err := t.GetColumn(fk.Location, name)
		if err != nil {
			return err
		}
		fk.Columns = append(fk.Columns, c)
	}
	return nil
}

// Resolve binds the referenced table and columns. When no referenced
// columns were named, the referenced table's primary key is used.
func (fk *ForeignKey) Resolve(s *Schema) error {
	if fk.Resolved() {
		return nil
	}

	ref, err := s.GetTable(fk.Location, fk.RefTableName)
	if err != nil {
		return err
	}

	names := fk.RefColumnNames
	if len(names) == 0 {
		if ref.PrimaryKey == nil {
			return token.Errorf(fk.Location, token.ErrNotFound,
				"primary key of %s not found", format.Name(ref.Name))
		}
		names = ref.PrimaryKey.Names()
	}

	cols := make([]*Column, 0, len(names))
	for _, name := range names {
		c, err := ref.GetColumn(fk.Location, name)
		if err != nil {
			return err
		}
		cols = append(cols, c)
	}

	fk.RefTable = ref
	fk.RefColumns = cols
	return nil
}

func (fk *ForeignKey) String() string {
	var sb strings.Builder
	sb.WriteString("FOREIGN KEY")
	sb.WriteString(columnList(fk.ColumnNames))
	sb.WriteString(" REFERENCES ")
	sb.WriteString(format.Name(fk.RefTableName))
	if len(fk.RefColumnNames) > 0 {
		sb.WriteString(columnList(fk.RefColumnNames))
	}
	if fk.OnDelete != NoAction {
		sb.WriteString(" ON DELETE ")
		sb.WriteString(fk.OnDelete.String())
	}
	if fk.OnUpdate != NoAction {
		sb.WriteString(" ON UPDATE ")
		sb.WriteString(fk.OnUpdate.String())
	}
	return sb.String()
}

func columnList(names []string) string {
	p := format.NewPrinter()
	p.Write("(")
	p.List(len(names), func(i int) { p.Ident(names[i]) }, ", ")
	p.Write(")")
	return p.String()
}
