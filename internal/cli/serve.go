package cli

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/matzehuels/starchart/internal/server"
	"github.com/matzehuels/starchart/pkg/observability"
)

// serveCommand runs the HTTP chart service.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve charts over HTTP",
		Long: `Serve charts over HTTP.

Endpoints:
  GET  /v1/chart.{svg,png,pdf,json,txt}?place=...&when=...&tz=...
  POST /v1/chart.{format}   JSON options
  GET  /v1/styles
  GET  /healthz
  GET  /metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.config()

			metrics, err := observability.NewMetrics(prometheus.NewRegistry())
			if err != nil {
				return err
			}
			observability.SetPipelineHooks(metrics)
			observability.SetCacheHooks(metrics)
			observability.SetHTTPHooks(metrics)
			defer observability.Reset()

			runner, err := c.newRunner(ctx)
			if err != nil {
				return err
			}
			defer runner.Close()
			// No terminal to ask on behalf of a remote caller.
			runner.Resolver.Pick = nil

			scfg := server.Config{
				Addr:         cfg.Server.Addr,
				ReadTimeout:  cfg.Server.ReadTimeout,
				WriteTimeout: cfg.Server.WriteTimeout,
			}
			if cmd.Flags().Changed("addr") {
				scfg.Addr = addr
			}
			return server.New(runner, cfg.Options(), metrics, c.Logger).ListenAndServe(ctx, scfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, else :8080)")
	return cmd
}
