package main

import (
	"fmt"
	"os"

	"github.com/devrev/crmstore/internal/config"
	"github.com/devrev/crmstore/internal/health"
	"github.com/devrev/crmstore/internal/metrics"
	"github.com/devrev/crmstore/internal/seed"
	"github.com/devrev/crmstore/internal/service"
	"github.com/devrev/crmstore/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app is a seeded CRM plus the checker over its stores
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	registry *prometheus.Registry
	crm      *service.CRM
	checker  *health.ConsistencyChecker
}

// loadConfig resolves the config path from the flag, then CONFIG_PATH.
// Without either the defaults apply.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		return config.Default(), nil
	}
	return config.LoadConfig(path)
}

func newApp(configPath, seedPath string) (*app, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if seedPath != "" {
		cfg.Seed.Path = seedPath
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	a := &app{cfg: cfg, logger: logger}

	opts := store.Options{Logger: logger}
	if cfg.Metrics.Enabled {
		a.registry = prometheus.NewRegistry()
		opts.Metrics = metrics.NewMetrics(cfg.Metrics.Namespace, a.registry)
	}

	a.crm = service.NewCRM(cfg.Stores.Names(), opts)
	a.checker = health.NewConsistencyChecker(logger, opts.Metrics)
	for _, svc := range a.crm.Services() {
		a.checker.Add(svc)
	}

	if cfg.Seed.Path != "" {
		res, err := seed.NewLoader(logger).LoadFile(cfg.Seed.Path, a.crm)
		if err != nil {
			logger.Error("Failed to load fixture", zap.String("path", cfg.Seed.Path), zap.Error(err))
			return nil, err
		}
		logger.Debug("Stores seeded", zap.String("path", cfg.Seed.Path), zap.Int("entities", res.Total()))
	}
	return a, nil
}

// close flushes the logger and writes the metrics textfile if configured
func (a *app) close() error {
	defer a.logger.Sync() //nolint:errcheck

	if a.registry == nil || a.cfg.Metrics.Textfile == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(a.cfg.Metrics.Textfile, a.registry); err != nil {
		a.logger.Error("Failed to write metrics textfile", zap.String("path", a.cfg.Metrics.Textfile), zap.Error(err))
		return err
	}
	return nil
}

func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zcfg = zap.NewDevelopmentConfig()
	}
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	zcfg.Level = level
	return zcfg.Build()
}
