package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dataapp-go/internal/api"
	"dataapp-go/internal/config"
	"dataapp-go/internal/logging"
	"dataapp-go/internal/metrics"
	"dataapp-go/internal/sampledata"
	"dataapp-go/internal/service"
	"dataapp-go/internal/state"

	"github.com/spf13/cobra"
)

var (
	configPath string
	portFlag   string
	levelFlag  string
	eagerFlag  bool
)

var rootCmd = &cobra.Command{
	Use:   "dataapp-server",
	Short: "Sample data API for the dashboard frontend",
	Long: `dataapp-server serves generated stock, sales and employee datasets
for line charts, bar charts and a paginated data table.`,
	SilenceUsage: true,
	RunE:         runServer,
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "Path to a config file (default: ./dataapp.{yaml,toml,json} if present)")
	rootCmd.Flags().StringVar(&portFlag, "port", "", "Port to listen on (overrides config and $PORT)")
	rootCmd.Flags().StringVar(&levelFlag, "log-level", "", "Log level: debug, info, warn or error")
	rootCmd.Flags().BoolVar(&eagerFlag, "eager", false, "Generate every dataset before accepting requests")
}

// loadConfig reads file/env config then applies explicit flags on top
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("port") {
		cfg.Server.Port = portFlag
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = levelFlag
	}
	if cmd.Flags().Changed("eager") {
		cfg.Datasets.Eager = eagerFlag
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log, os.Stderr)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	slog.SetDefault(logger)

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	// Initialize services
	cache := state.NewDatasetCache(sampledata.NewGenerator(), cfg.Datasets,
		state.WithObserver(func(dataset string, rows int, took time.Duration) {
			logger.Info("dataset generated",
				slog.String("dataset", dataset),
				slog.Int("rows", rows),
				slog.Duration("took", took),
			)
			m.ObserveGeneration(dataset, rows, took)
		}),
	)
	queryService := service.NewQueryService(cache, cfg.Cache.ViewSize, m, logger)
	exporter := service.NewExporter(cache)

	handler := api.NewHandler(queryService, exporter, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Datasets.Eager {
		if err := cache.Warm(ctx); err != nil {
			return fmt.Errorf("warm datasets: %w", err)
		}
	}

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           api.NewRouter(cfg, handler, m, logger),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting data app backend",
			slog.String("addr", server.Addr),
			slog.Any("cors_origins", cfg.CORS.AllowedOrigins),
			slog.Bool("metrics", cfg.Metrics.Enabled),
		)
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		logger.Info("received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped gracefully")
	return nil
}
