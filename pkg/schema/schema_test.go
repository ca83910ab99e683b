package schema

import (
	"errors"
	"testing"

	"github.com/leapstack-labs/sqlschema/pkg/ast"
	"github.com/leapstack-labs/sqlschema/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const text = "line one\nline two\nline three\n"

func loc(start int) token.Location {
	return token.Location{File: "test.sql", Text: text, Start: start}
}

func newTable(t *testing.T, name string, columns ...string) *Table {
	t.Helper()
	tbl := NewTable(loc(0), ast.NewQualifiedName(name))
	for _, c := range columns {
		require.NoError(t, tbl.AddColumn(loc(0), NewColumn(c, NewDataType("int"))))
	}
	return tbl
}

func TestSchemaAddAndGet(t *testing.T) {
	s := New()
	orders := newTable(t, "orders", "id")
	require.NoError(t, s.Add(loc(0), orders))

	got, err := s.GetTable(loc(0), ast.NewQualifiedName("orders"))
	require.NoError(t, err)
	assert.Same(t, orders, got)

	_, err = s.GetTable(loc(9), ast.NewQualifiedName("dbo", "orders"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, token.ErrNotFound))
	assert.Equal(t, "test.sql:2: dbo.orders not found", err.Error())
}

func TestSchemaDuplicateTable(t *testing.T) {
	var s Schema // zero value is usable
	first := newTable(t, "t", "a")
	second := newTable(t, "t", "b")

	require.NoError(t, s.Add(loc(0), first))
	err := s.Add(loc(18), second)
	require.Error(t, err)
	assert.True(t, errors.Is(err, token.ErrDuplicateTable))
	assert.Contains(t, err.Error(), "test.sql:3:")

	require.Len(t, s.Tables, 1)
	got, err := s.GetTable(loc(0), ast.NewQualifiedName("t"))
	require.NoError(t, err)
	assert.Same(t, first, got, "original insertion is kept")
}

func TestTableDuplicateColumn(t *testing.T) {
	tbl := newTable(t, "t", "a")
	err := tbl.AddColumn(loc(9), NewColumn("a", NewDataType("text")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, token.ErrDuplicateColumn))
	assert.Len(t, tbl.Columns, 1)

	_, err = tbl.GetColumn(loc(0), "missing")
	assert.True(t, errors.Is(err, token.ErrNotFound))
}

func TestKeyAddForcesNotNull(t *testing.T) {
	c := NewColumn("id", NewDataType("int"))
	require.True(t, c.Nullable)

	k := NewKey(loc(0))
	k.Add(c)
	assert.False(t, c.Nullable)
	assert.Equal(t, []string{"id"}, k.Names())
	assert.Equal(t, "(id)", k.String())
}

func TestDuplicatePrimaryKey(t *testing.T) {
	tbl := newTable(t, "t", "a", "b")
	require.NoError(t, tbl.SetPrimaryKey(NewKey(loc(0), "a")))

	err := tbl.SetPrimaryKey(NewKey(loc(9), "b"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, token.ErrDuplicatePrimaryKey))
	assert.Equal(t, "test.sql:2: t already has a primary key at test.sql:1", err.Error())
}

func TestResolveKeys(t *testing.T) {
	tbl := newTable(t, "t", "a", "b")
	require.NoError(t, tbl.SetPrimaryKey(NewKey(loc(0), "a", "b")))
	tbl.AddUniqueKey(NewKey(loc(0), "b"))

	require.NoError(t, tbl.ResolveKeys())
	require.Len(t, tbl.PrimaryKey.Columns, 2)
	assert.False(t, tbl.Columns[0].Nullable)
	assert.False(t, tbl.Columns[1].Nullable)

	// Resolving again is a no-op.
	require.NoError(t, tbl.ResolveKeys())
	assert.Len(t, tbl.PrimaryKey.Columns, 2)

	bad := newTable(t, "u", "a")
	bad.AddUniqueKey(NewKey(loc(9), "nope"))
	err := bad.ResolveKeys()
	require.Error(t, err)
	assert.True(t, errors.Is(err, token.ErrNotFound))
}

func TestForeignKeyResolve(t *testing.T) {
	s := New()
	customers := newTable(t, "customers", "id", "code")
	require.NoError(t, customers.SetPrimaryKey(NewKey(loc(0), "id")))
	require.NoError(t, s.Add(loc(0), customers))

	orders := newTable(t, "orders", "id", "customer_id", "customer_code")
	byPK := &ForeignKey{
		Location:     loc(0),
		ColumnNames:  []string{"customer_id"},
		RefTableName: ast.NewQualifiedName("customers"),
		OnDelete:     Cascade,
	}
	byColumn := &ForeignKey{
		Location:       loc(0),
		ColumnNames:    []string{"customer_code"},
		RefTableName:   ast.NewQualifiedName("customers"),
		RefColumnNames: []string{"code"},
	}
	orders.AddForeignKey(byPK)
	orders.AddForeignKey(byColumn)
	require.NoError(t, s.Add(loc(0), orders))

	assert.False(t, byPK.Resolved())
	require.NoError(t, s.Resolve())

	assert.Same(t, customers, byPK.RefTable)
	require.Len(t, byPK.RefColumns, 1)
	assert.Equal(t, "id", byPK.RefColumns[0].Name)
	require.Len(t, byPK.Columns, 1)
	assert.Equal(t, "customer_id", byPK.Columns[0].Name)

	require.Len(t, byColumn.RefColumns, 1)
	assert.Equal(t, "code", byColumn.RefColumns[0].Name)
}

func TestForeignKeyResolveFailures(t *testing.T) {
	tests := []struct {
		name string
		fk   *ForeignKey
		want string
	}{
		{
			name: "missing table",
			fk:   &ForeignKey{Location: loc(0), ColumnNames: []string{"a"}, RefTableName: ast.NewQualifiedName("nowhere")},
			want: "nowhere not found",
		},
		{
			name: "missing column",
			fk:   &ForeignKey{Location: loc(0), ColumnNames: []string{"a"}, RefTableName: ast.NewQualifiedName("target"), RefColumnNames: []string{"zz"}},
			want: "target.zz not found",
		},
		{
			name: "no primary key",
			fk:   &ForeignKey{Location: loc(0), ColumnNames: []string{"a"}, RefTableName: ast.NewQualifiedName("target")},
			want: "primary key of target not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			require.NoError(t, s.Add(loc(0), newTable(t, "target", "x")))
			src := newTable(t, "src", "a")
			src.AddForeignKey(tt.fk)
			require.NoError(t, s.Add(loc(0), src))

			err := s.Resolve()
			require.Error(t, err)
			assert.True(t, errors.Is(err, token.ErrNotFound))
			assert.Contains(t, err.Error(), tt.want)
			assert.False(t, tt.fk.Resolved())
		})
	}
}

func TestDataTypeString(t *testing.T) {
	decimal := NewDataType("decimal")
	decimal.Size, decimal.Scale = 10, 5

	varchar := NewDataType("varchar")
	varchar.Size = MaxSize

	enum := NewDataType("enum")
	enum.EnumValues = []string{"a", "it's"}

	tests := []struct {
		name string
		dt   DataType
		want string
	}{
		{"plain", NewDataType("int"), "int"},
		{"size and scale", decimal, "decimal(10,5)"},
		{"max", varchar, "varchar(max)"},
		{"enum", enum, "enum('a','it''s')"},
		{"multi word", NewDataType("timestamp with timezone"), "timestamp with timezone"},
		{"qualified", NewDataType("dbo", "MyType"), `dbo."MyType"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.dt.String())
		})
	}

	assert.False(t, NewDataType("int").HasSize())
	assert.True(t, decimal.HasScale())
}

func TestRender(t *testing.T) {
	s := New()
	tbl := NewTable(loc(0), ast.NewQualifiedName("table1"))
	id := NewColumn("id", NewDataType("int"))
	name := NewColumn("Name", NewDataType("varchar"))
	name.DataType.Size = 20
	name.Default = &ast.StringLiteral{Value: "n/a"}
	require.NoError(t, tbl.AddColumn(loc(0), id))
	require.NoError(t, tbl.AddColumn(loc(0), name))
	require.NoError(t, tbl.SetPrimaryKey(NewKey(loc(0), "id")))
	tbl.AddForeignKey(&ForeignKey{
		ColumnNames:    []string{"id"},
		RefTableName:   ast.NewQualifiedName("other"),
		RefColumnNames: []string{"oid"},
		OnUpdate:       SetNull,
	})
	require.NoError(t, tbl.ResolveKeys())
	require.NoError(t, s.Add(loc(0), tbl))

	want := `CREATE TABLE table1(id int NOT NULL, "Name" varchar(20) DEFAULT 'n/a', ` +
		`PRIMARY KEY(id), FOREIGN KEY(id) REFERENCES other(oid) ON UPDATE SET NULL)` + "\n"
	assert.Equal(t, want, s.Render())
}

func TestIgnoredText(t *testing.T) {
	s := New()
	assert.Equal(t, "", s.IgnoredText())

	s.AddIgnored(
		token.Span{Location: loc(0), End: 8},
		token.Span{Location: loc(18), End: 28},
	)
	want := "test.sql:1:\nline one\n\ntest.sql:3:\nline three\n"
	assert.Equal(t, want, s.IgnoredText())
}

func TestDescribe(t *testing.T) {
	s := New()
	tbl := newTable(t, "t", "a")
	tbl.Columns[0].DataType.Size = 10
	require.NoError(t, tbl.SetPrimaryKey(NewKey(loc(0), "a")))
	require.NoError(t, tbl.ResolveKeys())
	require.NoError(t, s.Add(loc(0), tbl))
	s.AddIgnored(token.Span{Location: loc(9), End: 17})

	doc := s.Describe()
	require.Len(t, doc.Tables, 1)
	info := doc.Tables[0]
	assert.Equal(t, "t", info.Name)
	assert.Equal(t, []string{"a"}, info.PrimaryKey)
	require.Len(t, info.Columns, 1)
	require.NotNil(t, info.Columns[0].Size)
	assert.Equal(t, 10, *info.Columns[0].Size)
	assert.Nil(t, info.Columns[0].Scale)
	assert.False(t, info.Columns[0].Nullable)

	require.Len(t, doc.Ignored, 1)
	assert.Equal(t, "line two", doc.Ignored[0].Text)
	assert.Equal(t, 2, doc.Ignored[0].Line)
}
