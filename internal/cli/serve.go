package cli

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/recolor/pkg/observability"
	"github.com/matzehuels/recolor/pkg/server"
)

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 10 * time.Second

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve exposes theme recoloring over HTTP. Generated files are served under
/assets and Prometheus metrics under /metrics.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			e, err := c.openEnv(ctx, false)
			if err != nil {
				return err
			}
			defer e.Close()
			if cmd.Flags().Changed("port") {
				e.cfg.ServerPort = port
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			prom := observability.NewPrometheus(reg)
			observability.SetBundleHooks(prom)
			observability.SetCacheHooks(prom)
			observability.SetHTTPHooks(prom)
			defer observability.Reset()

			srv := server.New(server.Config{
				Addr:      e.cfg.Addr(),
				ThemesDir: e.cfg.ThemesDir,
				ThemesURL: e.cfg.ThemesURL,
			}, e.gen, e.store, reg, logger)

			errc := make(chan error, 1)
			go func() { errc <- srv.Start() }()

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			return <-errc
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "listen port (overrides server_port)")
	return cmd
}
