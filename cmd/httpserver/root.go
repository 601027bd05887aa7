package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/Brownie44l1/minihttp/internal/config"
	"github.com/Brownie44l1/minihttp/internal/server"
)

const shutdownTimeout = 30 * time.Second

type options struct {
	configPath string
	addr       string
	logLevel   string
}

func newRootCommand() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:           "httpserver",
		Short:         "Serve HTTP/1.1 request lines over raw TCP",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			return run(cfg)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "./config.yaml", "path to the YAML config file")
	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (host:port), overrides config and env")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error; overrides config and env")

	return cmd
}

// loadConfig merges defaults, the config file, the environment (including
// .env) and flags, in increasing order of precedence.
func loadConfig(cmd *cobra.Command, opts options) (*config.Config, error) {
	if err := config.LoadDotEnv(".env"); err != nil {
		return nil, err
	}

	cfg, err := config.Load(opts.configPath, cmd.Flags().Changed("config"))
	if err != nil {
		return nil, err
	}

	if _, err := config.ApplyEnv(cfg); err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("addr") {
		if err := cfg.SetAddr(opts.addr); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = opts.logLevel
	}

	return cfg, cfg.Validate()
}

func run(cfg *config.Config) error {
	logger, err := server.NewDefaultLogger(cfg.Logging.Level)
	if err != nil {
		return err
	}
	defer logger.Sync()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := server.NewMetrics(registry)

	srv := server.New(cfg.ServerConfig(), newApp(logger, metrics),
		server.WithLogger(logger),
		server.WithMetrics(metrics),
	)
	srv.Use(
		server.RecoveryMiddleware(logger),
		server.LoggingMiddleware(logger),
	)

	var metricsSrv *http.Server
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		metricsSrv = &http.Server{
			Addr:              cfg.Metrics.Address,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}

		go func() {
			logger.Info("metrics listening", server.String("addr", cfg.Metrics.Address))
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server stopped", server.Err(err))
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigChan:
		logger.Info("shutting down", server.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if metricsSrv != nil {
		if err := metricsSrv.Shutdown(ctx); err != nil {
			logger.Warn("metrics server shutdown", server.Err(err))
		}
	}

	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, server.ErrServerClosed) {
		return err
	}

	stats := srv.Stats()
	logger.Info("server stopped",
		server.Any("requests_total", stats.RequestsTotal),
		server.Any("parse_errors_total", stats.ParseErrorsTotal),
		server.Any("errors_4xx", stats.Errors4xx),
		server.Any("errors_5xx", stats.Errors5xx),
		server.Any("average_latency", stats.AverageLatency.String()),
	)

	return nil
}
