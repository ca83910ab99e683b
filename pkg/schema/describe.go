package schema

import (
	"github.com/leapstack-labs/sqlschema/pkg/format"
)

// Document is a plain description of a schema for JSON or YAML output.
type Document struct {
	Tables  []TableInfo   `json:"tables" yaml:"tables"`
	Ignored []IgnoredInfo `json:"ignored,omitempty" yaml:"ignored,omitempty"`
}

// TableInfo describes one table.
type TableInfo struct {
	Name        string           `json:"name" yaml:"name"`
	File        string           `json:"file" yaml:"file"`
	Line        int              `json:"line" yaml:"line"`
	Columns     []ColumnInfo     `json:"columns" yaml:"columns"`
	PrimaryKey  []string         `json:"primary_key,omitempty" yaml:"primary_key,omitempty"`
	UniqueKeys  [][]string       `json:"unique_keys,omitempty" yaml:"unique_keys,omitempty"`
	ForeignKeys []ForeignKeyInfo `json:"foreign_keys,omitempty" yaml:"foreign_keys,omitempty"`
	SQL         string           `json:"sql" yaml:"sql"`
}

// ColumnInfo describes one column.
type ColumnInfo struct {
	Name       string   `json:"name" yaml:"name"`
	Type       string   `json:"type" yaml:"type"`
	TypeName   string   `json:"type_name" yaml:"type_name"`
	Size       *int     `json:"size,omitempty" yaml:"size,omitempty"`
	Scale      *int     `json:"scale,omitempty" yaml:"scale,omitempty"`
	EnumValues []string `json:"enum_values,omitempty" yaml:"enum_values,omitempty"`
	Nullable   bool     `json:"nullable" yaml:"nullable"`
	Default    string   `json:"default,omitempty" yaml:"default,omitempty"`
}

// ForeignKeyInfo describes one foreign key.
type ForeignKeyInfo struct {
	Columns    []string `json:"columns" yaml:"columns"`
	RefTable   string   `json:"ref_table" yaml:"ref_table"`
	RefColumns []string `json:"ref_columns,omitempty" yaml:"ref_columns,omitempty"`
	OnDelete   string   `json:"on_delete,omitempty" yaml:"on_delete,omitempty"`
	OnUpdate   string   `json:"on_update,omitempty" yaml:"on_update,omitempty"`
}

// IgnoredInfo describes one ignored span.
type IgnoredInfo struct {
	File string `json:"file" yaml:"file"`
	Line int    `json:"line" yaml:"line"`
	Text string `json:"text" yaml:"text"`
}

// Describe returns a plain description of the schema.
func (s *Schema) Describe() Document {
	doc := Document{Tables: make([]TableInfo, 0, len(s.Tables))}
	for _, t := range s.Tables {
		doc.Tables = append(doc.Tables, t.Describe())
	}
	for _, span := range s.Ignored {
		doc.Ignored = append(doc.Ignored, IgnoredInfo{
			File: span.Location.File,
			Line: span.Location.Line(),
			Text: span.Text(),
		})
	}
	return doc
}

// Describe returns a plain description of the table.
func (t *Table) Describe() TableInfo {
	info := TableInfo{
		Name:    format.Name(t.Name),
		File:    t.Location.File,
		Line:    t.Location.Line(),
		Columns: make([]ColumnInfo, 0, len(t.Columns)),
		SQL:     t.String(),
	}

	for _, c := range t.Columns {
		ci := ColumnInfo{
			Name:       c.Name,
			Type:       c.DataType.String(),
			TypeName:   c.DataType.Name(),
			EnumValues: c.DataType.EnumValues,
			Nullable:   c.Nullable,
		}
		if c.DataType.HasSize() {
			size := c.DataType.Size
			ci.Size = &size
		}
		if c.DataType.HasScale() {
			scale := c.DataType.Scale
			ci.Scale = &scale
		}
		if c.Default != nil {
			ci.Default = format.Expr(c.Default)
		}
		info.Columns = append(info.Columns, ci)
	}

	if t.PrimaryKey != nil {
		info.PrimaryKey = t.PrimaryKey.Names()
	}
	for _, k := range t.UniqueKeys {
		info.UniqueKeys = append(info.UniqueKeys, k.Names())
	}
	for _, fk := range t.ForeignKeys {
		fki := ForeignKeyInfo{
			Columns:    fk.ColumnNames,
			RefTable:   format.Name(fk.RefTableName),
			RefColumns: fk.RefColumnNames,
		}
		if fk.Resolved() && len(fki.RefColumns) == 0 {
			for _, c := range fk.RefColumns {
				fki.RefColumns = append(fki.RefColumns, c.Name)
			}
		}
		if fk.OnDelete != NoAction {
			fki.OnDelete = fk.OnDelete.String()
		}
		if fk.OnUpdate != NoAction {
			fki.OnUpdate = fk.OnUpdate.String()
		}
		info.ForeignKeys = append(info.ForeignKeys, fki)
	}
	return info
}
