package schema

import (
	"strconv"
	"strings"

	"github.com/leapstack-labs/sqlschema/pkg/ast"
	"github.com/leapstack-labs/sqlschema/pkg/format"
	"github.com/leapstack-labs/sqlschema/pkg/token"
)

// Size and scale sentinels.
const (
	NoSize  = -1 // no size or scale was given
	MaxSize = -2 // SQL Server's (MAX)
)

// DataType is a column type as written in the DDL, with synonyms already
// reduced to their canonical name.
type DataType struct {
	TypeName *ast.QualifiedName
	Size     int
	Scale    int

	// EnumValues is set only for enum types, and never together with a size.
	EnumValues []string
}

// NewDataType returns a type with no size, scale or enum values.
func NewDataType(names ...string) DataType {
	return DataType{
		TypeName: ast.NewQualifiedName(names...),
		Size:     NoSize,
		Scale:    NoSize,
	}
}

// HasSize reports whether a size was given.
func (d DataType) HasSize() bool {
	return d.Size != NoSize
}

// HasScale reports whether a scale was given. A scale implies a size.
func (d DataType) HasScale() bool {
	return d.Scale != NoSize
}

// Name returns the type name parts joined with dots.
func (d DataType) Name() string {
	if d.TypeName == nil {
		return ""
	}
	return strings.Join(d.TypeName.Names, ".")
}

func (d DataType) String() string {
	var sb strings.Builder
	if d.TypeName != nil {
		for i, part := range d.TypeName.Names {
			if i > 0 {
				sb.WriteByte('.')
			}
			sb.WriteString(typeNamePart(part))
		}
	}

	switch {
	case len(d.EnumValues) > 0:
		sb.WriteByte('(')
		for i, v := range d.EnumValues {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(format.String(v))
		}
		sb.WriteByte(')')
	case d.HasSize():
		sb.WriteByte('(')
		sb.WriteString(sizeString(d.Size))
		if d.HasScale() {
			sb.WriteByte(',')
			sb.WriteString(sizeString(d.Scale))
		}
		sb.WriteByte(')')
	}
	return sb.String()
}

// typeNamePart leaves canonical multi-word names such as "long raw" bare.
func typeNamePart(part string) string {
	words := strings.Split(part, " ")
	if len(words) > 1 {
		for _, w := range words {
			if format.Ident(w) != w {
				return format.Ident(part)
			}
		}
		return part
	}
	return format.Ident(part)
}

func sizeString(n int) string {
	if n == MaxSize {
		return "max"
	}
	return strconv.Itoa(n)
}

// Column is a column of a table.
type Column struct {
	Name     string
	DataType DataType
	Nullable bool
	Default  ast.Expr
	Location token.Location
}

// NewColumn returns a nullable column.
func NewColumn(name string, dataType DataType) *Column {
	return &Column{
		Name:     name,
		DataType: dataType,
		Nullable: true,
	}
}

func (c *Column) String() string {
	var sb strings.Builder
	sb.WriteString(format.Ident(c.Name))
	sb.WriteByte(' ')
	sb.WriteString(c.DataType.String())
	if c.Default != nil {
		sb.WriteString(" DEFAULT ")
		sb.WriteString(format.Expr(c.Default))
	}
	if !c.Nullable {
		sb.WriteString(" NOT NULL")
	}
	return sb.String()
}
