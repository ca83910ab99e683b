package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/sqlschema/internal/loader"
	"github.com/spf13/cobra"
)

// ParseResult describes the files written for one input.
type ParseResult struct {
	Input     string `json:"input" yaml:"input"`
	Tables    int    `json:"tables" yaml:"tables"`
	Ignored   string `json:"ignored,omitempty" yaml:"ignored,omitempty"`
	Roundtrip string `json:"roundtrip,omitempty" yaml:"roundtrip,omitempty"`
	Error     string `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "parse FILE|DIR...",
		Short: "Parse DDL files and write ignored and round-trip output",
		Long: `Parse each DDL file on its own and write two files per input into the
output directory:

  <name>-ignored.sql    the source text the parser did not interpret
  <name>-roundtrip.sql  the parsed tables rendered as canonical CREATE TABLE

A file that fails to parse is reported and the remaining files are still
processed.`,
		Example: `  sqlschema parse schema.sql
  sqlschema parse --output-dir out ddl/`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args)
		},
	}
}

func runParse(cmd *cobra.Command, args []string) error {
	cc := NewCommandContext(cmd)
	r := cc.Renderer

	files, err := loader.Expand(args, cc.Cfg.Include)
	if err != nil {
		return err
	}
	docs, err := loader.Read(cmd.Context(), files, cc.Cfg.Concurrency)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cc.Cfg.OutputDir, 0o750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	results := make([]ParseResult, 0, len(docs))
	failed := 0
	for _, doc := range docs {
		res := parseOne(cc, doc)
		if res.Error != "" {
			failed++
			if !r.Structured() {
				r.Error(errors.New(res.Error))
			}
		} else if !r.Structured() {
			r.Println(res.Ignored)
			r.Println(res.Roundtrip)
		}
		results = append(results, res)
	}

	if r.Structured() {
		if err := r.Encode(results); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed to parse", failed, len(docs))
	}
	return nil
}

// parseOne parses a document into its own schema and writes its output
// files. Cross-file references are not resolved.
func parseOne(cc *CommandContext, doc loader.Document) ParseResult {
	res := ParseResult{Input: doc.Path}

	s, err := loader.ParseDocument(doc, false)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Tables = len(s.Tables)

	base := strings.TrimSuffix(filepath.Base(doc.Path), filepath.Ext(doc.Path))
	ignored := filepath.Join(cc.Cfg.OutputDir, base+"-ignored.sql")
	roundtrip := filepath.Join(cc.Cfg.OutputDir, base+"-roundtrip.sql")

	if err := os.WriteFile(ignored, []byte(s.IgnoredText()), 0o600); err != nil {
		res.Error = fmt.Sprintf("failed to write %s: %v", ignored, err)
		return res
	}
	if err := os.WriteFile(roundtrip, []byte(s.Render()), 0o600); err != nil {
		res.Error = fmt.Sprintf("failed to write %s: %v", roundtrip, err)
		return res
	}

	cc.Logger.Debug("wrote parse output", "input", doc.Path, "tables", res.Tables)
	res.Ignored = ignored
	res.Roundtrip = roundtrip
	return res
}
