package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/harrisonrobin/autoflow/pkg/api"
	"github.com/harrisonrobin/autoflow/pkg/config"
	"github.com/harrisonrobin/autoflow/pkg/schedule"
)

const shutdownTimeout = 10 * time.Second

var (
	serveAddr     string
	withScheduler bool
	delayEvery    time.Duration
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the scheduler (daily briefing, delay scans, recurring templates)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		rt, err := openRuntime(ctx, true)
		if err != nil {
			return err
		}
		defer rt.Close()

		runner, err := newRunner(rt)
		if err != nil {
			return err
		}
		return runner.Run(ctx)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		rt, err := openRuntime(ctx, true)
		if err != nil {
			return err
		}
		defer rt.Close()

		addr := cfg.HTTPAddr
		if serveAddr != "" {
			addr = serveAddr
		}
		srv := &http.Server{
			Addr:              addr,
			Handler:           api.NewRouter(&api.App{Service: rt.service, Store: rt.store, Logger: logger}),
			ReadHeaderTimeout: 5 * time.Second,
		}

		var runner *schedule.Runner
		if withScheduler {
			if runner, err = newRunner(rt); err != nil {
				return err
			}
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			logger.Info("http server listening", zap.String("addr", addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(sctx)
		})
		if runner != nil {
			g.Go(func() error { return runner.Run(gctx) })
		}
		return g.Wait()
	},
}

func newRunner(rt *runtime) (*schedule.Runner, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	state, err := schedule.NewState(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load scheduler state: %w", err)
	}
	runner := schedule.NewRunner(rt.service, cfg.Settings, ownerID, state, logger)
	runner.SetDelayEvery(delayEvery)
	return runner, nil
}

func init() {
	runCmd.Flags().DurationVar(&delayEvery, "delay-every", schedule.DefaultDelayEvery, "Delay scan interval (0 disables)")
	serveCmd.Flags().DurationVar(&delayEvery, "delay-every", schedule.DefaultDelayEvery, "Delay scan interval (0 disables)")
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides http_addr)")
	serveCmd.Flags().BoolVar(&withScheduler, "with-scheduler", false, "Also run the scheduler")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
}
