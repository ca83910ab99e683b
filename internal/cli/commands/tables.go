package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/leapstack-labs/sqlschema/internal/cli/output"
	"github.com/leapstack-labs/sqlschema/pkg/format"
	"github.com/leapstack-labs/sqlschema/pkg/parser"
	"github.com/leapstack-labs/sqlschema/pkg/schema"
	"github.com/leapstack-labs/sqlschema/pkg/token"
	"github.com/spf13/cobra"
)

// NewTablesCommand creates the tables command.
func NewTablesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tables FILE|DIR...",
		Short: "List the tables defined in DDL files",
		Long: `Parse the given files, in order, into one schema and list its tables
with their column count, primary key and foreign keys.`,
		Example: `  sqlschema tables schema.sql
  sqlschema tables --format json ddl/`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)
			res, err := cc.Load(cmd.Context(), args)
			if err != nil {
				return err
			}
			return renderTables(cc.Renderer, res.Schema)
		},
	}
}

func renderTables(r *output.Renderer, s *schema.Schema) error {
	if r.Structured() {
		return r.Encode(s.Describe().Tables)
	}

	rows := make([][]string, 0, len(s.Tables))
	for _, t := range s.Tables {
		pk := ""
		if t.PrimaryKey != nil {
			pk = strings.Join(t.PrimaryKey.Names(), ", ")
		}
		refs := make([]string, 0, len(t.ForeignKeys))
		for _, fk := range t.ForeignKeys {
			refs = append(refs, format.Name(fk.RefTableName))
		}
		rows = append(rows, []string{
			format.Name(t.Name),
			strconv.Itoa(len(t.Columns)),
			pk,
			strings.Join(refs, ", "),
			t.Location.String(),
		})
	}

	r.Table([]string{"Table", "Columns", "Primary Key", "References", "Defined At"}, rows)
	r.Muted(fmt.Sprintf("(%d tables)", len(s.Tables)))
	return nil
}

// NewColumnsCommand creates the columns command.
func NewColumnsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "columns TABLE FILE|DIR...",
		Short: "List the columns of one table",
		Long: `Parse the given files into one schema and list the columns of TABLE.
TABLE may be qualified and quoted the way the DDL quotes it, for example
dbo.[Order Lines].`,
		Example: `  sqlschema columns orders schema.sql
  sqlschema columns 'dbo.[Order Lines]' ddl/`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := parser.ParseName(args[0])
			if err != nil {
				return fmt.Errorf("invalid table name %q: %w", args[0], err)
			}

			cc := NewCommandContext(cmd)
			res, err := cc.Load(cmd.Context(), args[1:])
			if err != nil {
				return err
			}

			t, err := res.Schema.GetTable(token.Location{File: "command line"}, name)
			if err != nil {
				return err
			}
			return renderColumns(cc.Renderer, t)
		},
	}
}

func renderColumns(r *output.Renderer, t *schema.Table) error {
	info := t.Describe()
	if r.Structured() {
		return r.Encode(info)
	}

	r.Header(info.Name)
	rows := make([][]string, 0, len(info.Columns))
	for _, c := range info.Columns {
		nullable := "NOT NULL"
		if c.Nullable {
			nullable = "NULL"
		}
		rows = append(rows, []string{c.Name, c.Type, nullable, c.Default})
	}
	r.Table([]string{"Column", "Type", "Null", "Default"}, rows)

	styles := r.Styles()
	if len(info.PrimaryKey) > 0 {
		r.Println(output.FormatKeyValue(styles, "Primary key", strings.Join(info.PrimaryKey, ", ")))
	}
	for _, uk := range info.UniqueKeys {
		r.Println(output.FormatKeyValue(styles, "Unique", strings.Join(uk, ", ")))
	}
	for _, fk := range t.ForeignKeys {
		r.Println(output.FormatKeyValue(styles, "Foreign key", fk.String()))
	}
	return nil
}
