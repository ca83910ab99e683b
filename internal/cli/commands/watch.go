package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/leapstack-labs/sqlschema/internal/loader"
	"github.com/spf13/cobra"
)

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch FILE|DIR...",
		Short: "Re-parse DDL files whenever they change",
		Long: `Parse the given files into one schema, then watch them and parse again
after every burst of changes, printing a one-line summary or the error.
Stop with Ctrl+C.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)
			return watchSchema(cmd.Context(), cc, args, func(res *loader.Result, err error) {
				printSummary(cc, res, err)
			})
		},
	}

	cmd.Flags().Duration("debounce", 0, "Quiet period before re-parsing after a change (default 200ms)")
	return cmd
}

// watchSchema loads paths once and again after every change, passing each
// outcome to report. It blocks until ctx is done.
func watchSchema(ctx context.Context, cc *CommandContext, paths []string, report func(*loader.Result, error)) error {
	w, err := loader.NewWatcher(paths, cc.loaderOptions(), cc.Cfg.Watch.Debounce)
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	report(cc.Load(ctx, paths))
	cc.Logger.Info("watching for changes", "paths", paths, "debounce", cc.Cfg.Watch.Debounce)

	return w.Run(ctx, func(ctx context.Context, changed []string) {
		cc.Logger.Debug("reloading", "changed", changed)
		report(cc.Load(ctx, paths))
	})
}

func printSummary(cc *CommandContext, res *loader.Result, err error) {
	r := cc.Renderer
	stamp := time.Now().Format(time.TimeOnly)
	if err != nil {
		r.Error(fmt.Errorf("%s %w", stamp, err))
		return
	}
	r.Success(fmt.Sprintf("%s parsed %d files: %d tables, %d ignored spans",
		stamp, len(res.Documents), len(res.Schema.Tables), len(res.Schema.Ignored)))
}
