package commands

import (
	"context"
	"fmt"
	"net"

	"github.com/leapstack-labs/sqlschema/internal/loader"
	"github.com/leapstack-labs/sqlschema/internal/server"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "serve FILE|DIR...",
		Short: "Serve the parsed schema as a JSON API",
		Long: `Parse the given files into one schema and serve it over HTTP:

  GET /healthz          status and table count
  GET /tables           table summaries
  GET /tables/{name}    one table, name may be qualified and quoted
  GET /ignored          ignored spans (?format=text for the raw text)
  GET /render           canonical CREATE TABLE statements

With --watch the files are re-parsed on change; a failed re-parse keeps
serving the last good schema.`,
		Example: `  sqlschema serve schema.sql
  sqlschema serve --addr :9000 --watch ddl/`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)
			ln, err := net.Listen("tcp", cc.Cfg.Serve.Addr)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cc, ln, args, watch)
		},
	}

	cmd.Flags().String("addr", "", "Listen address (default 127.0.0.1:8080)")
	cmd.Flags().Duration("debounce", 0, "Quiet period before re-parsing after a change (default 200ms)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Re-parse the files when they change")
	return cmd
}

func runServe(ctx context.Context, cc *CommandContext, ln net.Listener, paths []string, watch bool) error {
	srv := server.New(server.Config{Logger: cc.Logger})

	if !watch {
		res, err := cc.Load(ctx, paths)
		if err != nil {
			_ = ln.Close()
			return err
		}
		srv.Update(res.Schema)
		cc.Renderer.Success(fmt.Sprintf("Serving %d tables on http://%s", len(res.Schema.Tables), ln.Addr()))
		return srv.ServeListener(ctx, ln)
	}

	cc.Renderer.Success("Serving on http://" + ln.Addr().String())
	eg, egctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return srv.ServeListener(egctx, ln)
	})
	eg.Go(func() error {
		return watchSchema(egctx, cc, paths, func(res *loader.Result, err error) {
			if err == nil {
				srv.Update(res.Schema)
			}
			printSummary(cc, res, err)
		})
	})
	return eg.Wait()
}
