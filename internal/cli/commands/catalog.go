package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/leapstack-labs/sqlschema/internal/catalog"
	"github.com/leapstack-labs/sqlschema/internal/cli/output"
	"github.com/spf13/cobra"
)

// NewCatalogCommand creates the catalog command and its subcommands.
func NewCatalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Save and inspect parsed schemas in a SQLite catalog",
		Long: `The catalog keeps snapshots of parsed schemas in a SQLite database
(see the catalog config key), so a schema can be inspected later without
the DDL files it was parsed from.`,
	}

	cmd.AddCommand(newCatalogSaveCommand())
	cmd.AddCommand(newCatalogListCommand())
	cmd.AddCommand(newCatalogShowCommand())
	cmd.AddCommand(newCatalogDeleteCommand())
	return cmd
}

// openCatalog opens and migrates the configured catalog.
func openCatalog(ctx context.Context, cc *CommandContext) (*catalog.Store, error) {
	store, err := catalog.Open(cc.Cfg.Catalog)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	cc.Logger.Debug("opened catalog", "path", store.Path())
	return store, nil
}

func newCatalogSaveCommand() *cobra.Command {
	var label string

	cmd := &cobra.Command{
		Use:   "save FILE|DIR...",
		Short: "Parse DDL files and save the schema as a snapshot",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cc := NewCommandContext(cmd)

			res, err := cc.Load(ctx, args)
			if err != nil {
				return err
			}

			store, err := openCatalog(ctx, cc)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			sources := make([]string, 0, len(res.Documents))
			for _, doc := range res.Documents {
				sources = append(sources, doc.Path)
			}

			snap, err := store.SaveSnapshot(ctx, label, sources, res.Schema)
			if err != nil {
				return err
			}

			r := cc.Renderer
			if r.Structured() {
				return r.Encode(snap)
			}
			r.Success(fmt.Sprintf("Saved snapshot %s (%d tables, %d ignored spans)",
				snap.ID, snap.Tables, snap.Ignored))
			return nil
		},
	}

	cmd.Flags().StringVarP(&label, "label", "l", "", "Label stored with the snapshot")
	return cmd
}

func newCatalogListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved snapshots, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cc := NewCommandContext(cmd)

			store, err := openCatalog(ctx, cc)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			snaps, err := store.ListSnapshots(ctx)
			if err != nil {
				return err
			}

			r := cc.Renderer
			if r.Structured() {
				if snaps == nil {
					snaps = []catalog.Snapshot{}
				}
				return r.Encode(snaps)
			}

			rows := make([][]string, 0, len(snaps))
			for _, s := range snaps {
				rows = append(rows, []string{
					s.ID,
					s.Label,
					s.CreatedAt.Local().Format(time.DateTime),
					strconv.Itoa(s.Tables),
					strconv.Itoa(s.Ignored),
					strings.Join(s.Sources, ", "),
				})
			}
			r.Table([]string{"ID", "Label", "Created", "Tables", "Ignored", "Sources"}, rows)
			r.Muted(fmt.Sprintf("(%d snapshots)", len(snaps)))
			return nil
		},
	}
}

func newCatalogShowCommand() *cobra.Command {
	var render bool

	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show the tables of a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cc := NewCommandContext(cmd)

			store, err := openCatalog(ctx, cc)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			snap, doc, err := store.GetSnapshot(ctx, args[0])
			if err != nil {
				return err
			}

			r := cc.Renderer
			if r.Structured() {
				return r.Encode(doc)
			}

			tables, err := store.SnapshotTables(ctx, snap.ID)
			if err != nil {
				return err
			}

			if render {
				for _, t := range tables {
					r.Println(t.Definition)
				}
				return nil
			}

			styles := r.Styles()
			r.Header("Snapshot " + snap.ID)
			if snap.Label != "" {
				r.Println(output.FormatKeyValue(styles, "Label", snap.Label))
			}
			r.Println(output.FormatKeyValue(styles, "Created", snap.CreatedAt.Local().Format(time.DateTime)))
			r.Println(output.FormatKeyValue(styles, "Sources", strings.Join(snap.Sources, ", ")))
			r.Println()

			rows := make([][]string, 0, len(tables))
			for _, t := range tables {
				rows = append(rows, []string{
					t.Name,
					strconv.Itoa(t.Columns),
					fmt.Sprintf("%s:%d", t.File, t.Line),
				})
			}
			r.Table([]string{"Table", "Columns", "Defined At"}, rows)
			r.Muted(fmt.Sprintf("(%d tables, %d ignored spans)", snap.Tables, snap.Ignored))
			return nil
		},
	}

	cmd.Flags().BoolVar(&render, "render", false, "Print the stored CREATE TABLE statements")
	return cmd
}

func newCatalogDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cc := NewCommandContext(cmd)

			store, err := openCatalog(ctx, cc)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteSnapshot(ctx, args[0]); err != nil {
				return err
			}
			cc.Renderer.Success("Deleted snapshot " + args[0])
			return nil
		},
	}
}
