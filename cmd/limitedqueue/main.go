// Package main implements the limitedqueue demonstration driver.
// It builds a bounded FIFO queue from configuration and walks it through
// push, peek, pop, size and clear, optionally showing the overflow policy
// and the resulting Prometheus metrics.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/c360/limitedqueue/config"
	"github.com/c360/limitedqueue/errors"
	"github.com/c360/limitedqueue/health"
	"github.com/c360/limitedqueue/metric"
	"github.com/c360/limitedqueue/pkg/buffer"
)

// Build information constants
const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "limitedqueue"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		slog.Error("Application failed", "error", err, "exit_code", 1)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	cliCfg, logger, shouldExit, err := initializeCLI(args, stdout, stderr)
	if shouldExit || err != nil {
		return err
	}

	cfg, err := initializeConfiguration(cliCfg)
	if err != nil {
		return err
	}

	if cliCfg.Validate {
		logger.Info("Configuration is valid", "queue", cfg.Queue.Name)
		_, _ = fmt.Fprintln(stdout, "Configuration is valid")
		return nil
	}

	var registry *metric.MetricsRegistry
	if cfg.Metrics.Enabled {
		registry = metric.NewMetricsRegistry()
	}

	q, err := newQueue(cfg, registry, logger)
	if err != nil {
		return err
	}
	defer q.Close()

	if err := runDemo(q, cliCfg.Overflow, stdout); err != nil {
		return err
	}

	logger.Info("Queue statistics", "queue", cfg.Queue.Name, "summary", q.Stats().Summary())

	status := health.CheckQueue(cfg.Queue.Name, q, health.DefaultThresholds())
	if status.IsHealthy() {
		logger.Info("Queue health", "status", status.Status, "message", status.Message)
	} else {
		logger.Warn("Queue health", "status", status.Status, "message", status.Message)
	}

	if registry != nil {
		_, _ = fmt.Fprintln(stdout)
		if err := registry.WriteText(stdout); err != nil {
			return errors.Wrap(err, "main", "run", "write metrics")
		}
	}
	return nil
}

// initializeCLI parses flags and sets up logging
func initializeCLI(args []string, stdout, stderr io.Writer) (*CLIConfig, *slog.Logger, bool, error) {
	cliCfg, err := parseFlags(args, stderr)
	if err != nil {
		return nil, nil, true, fmt.Errorf("parse flags: %w", err)
	}
	if err := validateFlags(cliCfg); err != nil {
		return nil, nil, false, fmt.Errorf("invalid flags: %w", err)
	}

	if cliCfg.ShowVersion {
		_, _ = fmt.Fprintf(stdout, "%s version %s\n", appName, Version)
		return nil, nil, true, nil
	}

	if cliCfg.ShowHelp {
		cliCfg.usage()
		return nil, nil, true, nil
	}

	logger := setupLogger(cliCfg.LogLevel, cliCfg.LogFormat, stderr)
	slog.SetDefault(logger)

	logger.Info("Starting limitedqueue",
		"version", Version,
		"build_time", BuildTime,
		"config_path", cliCfg.ConfigPath)

	return cliCfg, logger, false, nil
}

// initializeConfiguration loads the config file or the defaults, then layers
// environment overrides and flag overrides on top, in that order.
func initializeConfiguration(cliCfg *CLIConfig) (*config.Config, error) {
	cfg := config.Default()
	if cliCfg.ConfigPath != "" {
		loaded, err := config.Load(cliCfg.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, fmt.Errorf("apply environment: %w", err)
	}

	if cliCfg.Capacity > 0 {
		cfg.Queue.Capacity = cliCfg.Capacity
	}
	if cliCfg.Policy != "" {
		policy, err := buffer.ParseOverflowPolicy(cliCfg.Policy)
		if err != nil {
			return nil, fmt.Errorf("invalid policy flag: %w", err)
		}
		cfg.Queue.Policy = policy
	}
	if cliCfg.Metrics {
		cfg.Metrics.Enabled = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newQueue builds the ring buffer described by cfg.
func newQueue(cfg *config.Config, registry *metric.MetricsRegistry, logger *slog.Logger) (*buffer.RingBuffer[int], error) {
	queueLogger := logger.With("queue", cfg.Queue.Name)

	opts := []buffer.Option[int]{
		buffer.WithOverflowPolicy[int](cfg.Queue.Policy),
		buffer.WithLogger[int](queueLogger),
		buffer.WithDropCallback[int](func(item int, reason buffer.DropReason) {
			queueLogger.Info("Item dropped", "item", item, "reason", reason.String())
		}),
	}
	if registry != nil {
		opts = append(opts, buffer.WithMetrics[int](registry, cfg.Metrics.Prefix))
	}

	q, err := buffer.NewRingBufferFrom(cfg.Queue.Capacity, cfg.Queue.Initial, opts...)
	if err != nil {
		return nil, fmt.Errorf("create queue: %w", err)
	}
	return q, nil
}
