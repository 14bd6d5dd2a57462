// ABOUTME: Serve command starts the HTTP API
// ABOUTME: Shares the coder, history and metrics registry with the handlers and stops on SIGINT/SIGTERM
package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/harper/cdt-coder/internal/httpapi"
)

var (
	serveAddr      string
	serveNoHistory bool
	serveTimeout   time.Duration
)

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the HTTP API.

Endpoints:
  GET  /                              health check
  POST /api/analyze                   run the full pipeline
  GET  /api/topics                    list CDT categories
  POST /api/topics/{topic}/activate   run one category
  GET  /api/analyses                  list saved analyses
  GET  /api/analyses/{id}             show a saved analysis
  GET  /metrics                       Prometheus metrics

Examples:
  cdtcoder serve
  cdtcoder serve --addr :9000 --no-history`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config, :8000)")
	cmd.Flags().BoolVar(&serveNoHistory, "no-history", false, "Do not open the analysis history")
	cmd.Flags().DurationVar(&serveTimeout, "request-timeout", 5*time.Minute, "Per-request time limit for API calls")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cmd, !serveNoHistory)
	if err != nil {
		return err
	}
	defer a.Close()

	opts := httpapi.Options{
		Coder:          a.coder,
		Metrics:        a.metrics,
		Gatherer:       a.registry,
		Logger:         a.logger,
		AllowedOrigins: a.cfg.AllowedOrigins,
		Defaults:       a.defaults(),
		RequestTimeout: serveTimeout,
	}
	if a.store != nil {
		opts.History = a.store
	}

	addr := serveAddr
	if addr == "" {
		addr = a.cfg.HTTPAddr
	}
	return httpapi.New(opts).ListenAndServe(ctx, addr)
}
