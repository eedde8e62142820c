package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"stockade-hq/stockade/pkg/audit"
	"stockade-hq/stockade/pkg/authz"
	"stockade-hq/stockade/pkg/block"
	"stockade-hq/stockade/pkg/block/scheduler"
	"stockade-hq/stockade/pkg/block/storage"
	"stockade-hq/stockade/pkg/catalog"
	"stockade-hq/stockade/pkg/config"
	"stockade-hq/stockade/pkg/directory"
	"stockade-hq/stockade/pkg/telemetry/health"
	"stockade-hq/stockade/pkg/telemetry/logging"
	"stockade-hq/stockade/pkg/telemetry/metrics"
)

var runFlags struct {
	logLevel string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the Stockade runtime",
	Long: `Start the Stockade runtime with the specified configuration.

The runtime loads the persisted rule set, serves block checks and admin
commands to the embedding host, and flushes state on shutdown.

Examples:
  # Start with default config
  stockade run

  # Start with custom config
  stockade run --config /etc/stockade/config.yaml

  # Override log level
  stockade run --log-level debug`,
	RunE: runRuntime,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
}

func runRuntime(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if runFlags.logLevel != "" {
		cfg.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	logger, err := logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Metrics
	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.NewCollector(metrics.Config{
			Enabled:   true,
			Namespace: cfg.Metrics.Namespace,
			Subsystem: cfg.Metrics.Subsystem,
		}, nil)
	}

	// Persistence backend
	var backend storage.Backend
	switch cfg.Storage.Backend {
	case "sqlite":
		backend, err = storage.NewSQLiteBackend(cfg.Storage.Path)
		if err != nil {
			return fmt.Errorf("failed to open storage: %w", err)
		}
	default:
		backend = storage.NewMemoryBackend()
	}
	defer backend.Close()

	// Item catalog
	items, err := catalog.NewFileCatalog(catalog.Config{
		Path:              cfg.Catalog.Path,
		MatchDisplayNames: cfg.Catalog.MatchDisplayNames,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to load item catalog: %w", err)
	}
	if cfg.Catalog.Watch {
		watcher := catalog.NewWatcher(items, 0, logger)
		go func() {
			if werr := watcher.Watch(ctx); werr != nil {
				logger.Error("catalog watcher exited", "error", werr)
			}
		}()
	}

	// Participant roster; the embedding host feeds joins and leaves.
	participants := directory.NewSessionDirectory()

	authorizer := authz.NewStaticAuthorizer(cfg.Authz.Grants)

	// Audit journal
	var sink block.AuditSink
	if cfg.Audit.Enabled {
		journal, jerr := audit.Open(cfg.Audit.Path)
		if jerr != nil {
			return fmt.Errorf("failed to open audit journal: %w", jerr)
		}
		defer journal.Close()
		sink = journal
	}

	store := block.NewStore()
	service := block.NewService(block.ServiceOptions{
		Store:        store,
		Items:        items,
		Participants: participants,
		Authz:        authorizer,
		Backend:      backend,
		Audit:        sink,
		Metrics:      collector,
		Logger:       logger,
	})

	if err := service.Start(ctx); err != nil {
		return fmt.Errorf("failed to start block service: %w", err)
	}

	gate := block.NewGate(block.NewEvaluator(store), authorizer, collector, nil)
	_ = gate // wired to the host's action hooks by the embedding integration

	// Scheduled maintenance
	sched := scheduler.New(cfg.Blocks.PruneSchedule, service.Maintain, logger)
	if err := sched.Start(ctx); err != nil {
		return err
	}
	defer sched.Stop()

	// Operational endpoint: metrics plus health probes.
	if collector != nil {
		checker := health.New(0)
		checker.Register("storage", func(ctx context.Context) error {
			_, lerr := backend.Load(ctx)
			return lerr
		})
		checker.Register("catalog", func(ctx context.Context) error {
			if len(items.Items()) == 0 {
				return fmt.Errorf("catalog is empty")
			}
			return nil
		})

		mux := http.NewServeMux()
		mux.Handle("/metrics", collector.Handler())
		health.RegisterEndpoints(mux, checker, Version, GitCommit)
		srv := &http.Server{
			Addr:              cfg.Metrics.ListenAddress,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("operational endpoint listening", "address", cfg.Metrics.ListenAddress)
			if herr := srv.ListenAndServe(); herr != nil && herr != http.ErrServerClosed {
				logger.Error("operational endpoint failed", "error", herr)
			}
		}()
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	logger.Info("stockade runtime started",
		"storage", cfg.Storage.Backend,
		"catalog", cfg.Catalog.Path,
		"rules", store.Len(),
	)

	<-ctx.Done()
	logger.Info("shutting down")

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()
	return service.Stop(stopCtx)
}
