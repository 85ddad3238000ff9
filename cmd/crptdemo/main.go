/*
Copyright © 2026 Acronis International GmbH.

Released under MIT license.
*/

// Command crptdemo submits a batch of documents to the registration API from several concurrent workers
// sharing one client-side rate limiter. With the fake server enabled it runs fully locally.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/acronis/go-crptapi/log"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "crptdemo",
		Short:        "Submit documents to the registration API within a client-side rate limit",
		SilenceUsage: true,
		RunE:         runRoot,
	}
	cmd.Flags().StringP("config", "c", "", "Path to the YAML configuration file")
	cmd.Flags().String("rate", "", "Rate limit in N/unit format, e.g. 2/s (overrides rateLimit.* from config)")
	cmd.Flags().Int("workers", 0, "Number of concurrent workers (overrides demo.workers)")
	cmd.Flags().Int("documents", 0, "Number of documents to submit (overrides demo.documents)")
	cmd.Flags().Bool("fake-server", false, "Run the fake registration API server locally (overrides demo.fakeServer.enabled)")
	return cmd
}

func runRoot(cmd *cobra.Command, _ []string) error {
	cfgPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	rate, err := cmd.Flags().GetString("rate")
	if err != nil {
		return err
	}
	cfg, err := loadAppConfig(cfgPath, rate)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err = applyFlagOverrides(cmd, cfg); err != nil {
		return err
	}

	logger, closeLogger := log.NewLogger(cfg.Log)
	defer closeLogger()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var registry *prometheus.Registry
	if cfg.Demo.MetricsAddress != "" {
		registry = prometheus.NewRegistry()
		metricsSrv := startMetricsServer(cfg.Demo.MetricsAddress, registry, logger)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = metricsSrv.Shutdown(shutdownCtx)
		}()
	}

	var registerer prometheus.Registerer
	if registry != nil {
		registerer = registry
	}
	stats, err := runDemo(ctx, cfg, logger, registerer)
	if err != nil {
		logger.Error("demo failed", log.Error(err))
		return err
	}
	if stats.Failed > 0 {
		return fmt.Errorf("%d of %d documents were not sent", stats.Failed, stats.Sent+stats.Failed+stats.Cancelled)
	}
	return nil
}

func applyFlagOverrides(cmd *cobra.Command, cfg *appConfig) error {
	flags := cmd.Flags()
	if flags.Changed("workers") {
		workers, err := flags.GetInt("workers")
		if err != nil {
			return err
		}
		if workers < 1 {
			return fmt.Errorf("workers should be >= 1")
		}
		cfg.Demo.Workers = workers
	}
	if flags.Changed("documents") {
		documents, err := flags.GetInt("documents")
		if err != nil {
			return err
		}
		if documents < 0 {
			return fmt.Errorf("documents cannot be negative")
		}
		cfg.Demo.Documents = documents
	}
	if flags.Changed("fake-server") {
		enabled, err := flags.GetBool("fake-server")
		if err != nil {
			return err
		}
		cfg.Demo.FakeServerEnabled = enabled
	}
	return nil
}
