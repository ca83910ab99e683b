package commands

import (
	"context"
	"log/slog"

	"github.com/leapstack-labs/sqlschema/internal/cli/config"
	"github.com/leapstack-labs/sqlschema/internal/cli/output"
	"github.com/leapstack-labs/sqlschema/internal/loader"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext builds a CommandContext from the config and logger the
// root command stored in the command context.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := config.GetConfig(ctx)
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(ctx),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg.Format),
	}
}

// loaderOptions returns the loader options for the current config.
func (c *CommandContext) loaderOptions() loader.Options {
	return loader.Options{
		Include:     c.Cfg.Include,
		Concurrency: c.Cfg.Concurrency,
		Resolve:     c.Cfg.Resolve,
		Logger:      c.Logger,
	}
}

// Load reads and parses paths into one schema.
func (c *CommandContext) Load(ctx context.Context, paths []string) (*loader.Result, error) {
	return loader.Load(ctx, paths, c.loaderOptions())
}
