package commands

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/sqlschema/internal/cli/output"
	"github.com/spf13/cobra"
)

// NewIgnoredCommand creates the ignored command.
func NewIgnoredCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ignored FILE|DIR...",
		Short: "Print the source text the parser did not interpret",
		Long: `Parse the given files into one schema and print every ignored span,
each preceded by the file and line it starts on.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)
			res, err := cc.Load(cmd.Context(), args)
			if err != nil {
				return err
			}

			r := cc.Renderer
			if r.Structured() {
				return r.Encode(res.Schema.Describe().Ignored)
			}
			r.Print(res.Schema.IgnoredText())
			return nil
		},
	}
}

// NewExportCommand creates the export command.
func NewExportCommand() *cobra.Command {
	var outFile string

	cmd := &cobra.Command{
		Use:   "export FILE|DIR...",
		Short: "Export the parsed schema as JSON or YAML",
		Long: `Parse the given files into one schema and write a description of every
table and ignored span. With --format text the tables are rendered as
canonical CREATE TABLE statements instead.`,
		Example: `  sqlschema export --format json schema.sql
  sqlschema export --format yaml -o schema.yaml ddl/`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)
			res, err := cc.Load(cmd.Context(), args)
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			r := output.NewRenderer(&buf, cmd.ErrOrStderr(), cc.Cfg.Format)
			if r.Structured() {
				if err := r.Encode(res.Schema.Describe()); err != nil {
					return fmt.Errorf("failed to encode schema: %w", err)
				}
			} else {
				r.Print(res.Schema.Render())
			}

			if outFile == "" {
				cc.Renderer.Print(buf.String())
				return nil
			}

			if dir := filepath.Dir(outFile); dir != "." {
				if err := os.MkdirAll(dir, 0o750); err != nil {
					return fmt.Errorf("failed to create directory: %w", err)
				}
			}
			if err := os.WriteFile(outFile, buf.Bytes(), 0o600); err != nil {
				return fmt.Errorf("failed to write %s: %w", outFile, err)
			}
			cc.Renderer.Success(fmt.Sprintf("Exported %d tables to %s", len(res.Schema.Tables), outFile))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outFile, "output", "o", "", "Write to file instead of stdout")
	return cmd
}
