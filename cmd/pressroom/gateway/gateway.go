package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"pressroom/internal/app"
	"pressroom/internal/config"
	"pressroom/internal/gateway"
	"pressroom/internal/trace"
)

var gatewayAddr string

var Cmd = &cobra.Command{
	Use:   "gateway",
	Short: "Start the dispatch gateway server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if gatewayAddr != "" {
			cfg.Gateway.Addr = gatewayAddr
		}

		shutdown, err := trace.Init(ctx, trace.Config{
			Enabled:  cfg.Trace.Enabled,
			Endpoint: cfg.Trace.Endpoint,
			URLPath:  cfg.Trace.URLPath,
			APIKey:   cfg.Trace.APIKey,
		})
		if err != nil {
			return fmt.Errorf("initializing tracing: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			shutdown(shutdownCtx)
		}()

		a, err := app.Build(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		srv := gateway.NewServer(a.Dispatcher, a.Store, a.Source, a.Executor, a.Log)
		slog.Info("starting gateway", "addr", cfg.Gateway.Addr, "profiles", a.Store.Snapshot().Len(), "matcher", cfg.Matcher.Mode)
		return srv.ListenAndServe(ctx, cfg.Gateway.Addr)
	},
}

func init() {
	Cmd.Flags().StringVarP(&gatewayAddr, "addr", "a", "", "override gateway listen address")
}
