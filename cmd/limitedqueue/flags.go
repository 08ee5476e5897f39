package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/c360/limitedqueue/pkg/buffer"
)

// CLIConfig holds command-line configuration
type CLIConfig struct {
	ConfigPath  string
	Capacity    int
	Policy      string
	LogLevel    string
	LogFormat   string
	Overflow    bool
	Metrics     bool
	ShowVersion bool
	ShowHelp    bool
	Validate    bool

	usage func()
}

func parseFlags(args []string, stderr io.Writer) (*CLIConfig, error) {
	cfg := &CLIConfig{}
	fs := flag.NewFlagSet(appName, flag.ContinueOnError)
	fs.SetOutput(stderr)

	// Define flags with environment variable fallback
	fs.StringVar(&cfg.ConfigPath, "config",
		getEnv("LIMITEDQUEUE_CONFIG", ""),
		"Path to JSON configuration file, empty for built-in defaults (env: LIMITEDQUEUE_CONFIG)")

	fs.StringVar(&cfg.ConfigPath, "c",
		getEnv("LIMITEDQUEUE_CONFIG", ""),
		"Path to JSON configuration file (env: LIMITEDQUEUE_CONFIG)")

	fs.IntVar(&cfg.Capacity, "capacity",
		getEnvInt("LIMITEDQUEUE_CAPACITY", 0),
		"Queue capacity, 0 keeps the configured value (env: LIMITEDQUEUE_CAPACITY)")

	fs.StringVar(&cfg.Policy, "policy",
		getEnv("LIMITEDQUEUE_POLICY", ""),
		"Overflow policy: reject, evict_oldest (env: LIMITEDQUEUE_POLICY)")

	fs.StringVar(&cfg.LogLevel, "log-level",
		getEnv("LIMITEDQUEUE_LOG_LEVEL", "warn"),
		"Log level: debug, info, warn, error (env: LIMITEDQUEUE_LOG_LEVEL)")

	fs.StringVar(&cfg.LogFormat, "log-format",
		getEnv("LIMITEDQUEUE_LOG_FORMAT", "text"),
		"Log format: json, text (env: LIMITEDQUEUE_LOG_FORMAT)")

	fs.BoolVar(&cfg.Overflow, "overflow",
		getEnvBool("LIMITEDQUEUE_OVERFLOW", false),
		"Push one item past capacity to show the overflow policy (env: LIMITEDQUEUE_OVERFLOW)")

	fs.BoolVar(&cfg.Metrics, "metrics",
		getEnvBool("LIMITEDQUEUE_METRICS", false),
		"Print Prometheus metrics after the run (env: LIMITEDQUEUE_METRICS)")

	fs.BoolVar(&cfg.ShowVersion, "version", false, "Show version information")
	fs.BoolVar(&cfg.ShowVersion, "v", false, "Show version information")
	fs.BoolVar(&cfg.ShowHelp, "help", false, "Show help information")
	fs.BoolVar(&cfg.ShowHelp, "h", false, "Show help information")
	fs.BoolVar(&cfg.Validate, "validate", false, "Validate configuration and exit")

	fs.Usage = func() {
		printDetailedHelp(fs, stderr)
	}
	cfg.usage = fs.Usage

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateFlags(cfg *CLIConfig) error {
	// Skip validation for special flags
	if cfg.ShowVersion || cfg.ShowHelp {
		return nil
	}

	if cfg.ConfigPath != "" {
		if _, err := os.Stat(cfg.ConfigPath); err != nil {
			return fmt.Errorf("config file not found: %s", cfg.ConfigPath)
		}
	}

	if cfg.Capacity < 0 {
		return fmt.Errorf("invalid capacity: %d", cfg.Capacity)
	}

	if cfg.Policy != "" {
		if _, err := buffer.ParseOverflowPolicy(cfg.Policy); err != nil {
			return fmt.Errorf("invalid policy: %s", cfg.Policy)
		}
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, cfg.LogLevel) {
		return fmt.Errorf("invalid log level: %s", cfg.LogLevel)
	}

	validFormats := []string{"json", "text"}
	if !contains(validFormats, cfg.LogFormat) {
		return fmt.Errorf("invalid log format: %s", cfg.LogFormat)
	}

	return nil
}

func printDetailedHelp(fs *flag.FlagSet, w io.Writer) {
	_, _ = fmt.Fprintf(w, `%s - Bounded FIFO queue demonstration

Usage: %s [options]

Options:
`, appName, appName)
	fs.PrintDefaults()
	_, _ = fmt.Fprintf(w, `
Examples:
  # Run the walkthrough on the default capacity-3 queue
  %s

  # Show what happens when a full queue evicts its oldest item
  %s --policy=evict_oldest --overflow

  # Run from a config file and dump metrics
  %s --config=queue.json --metrics

  # Validate configuration only
  %s --config=queue.json --validate

Version: %s
Build: %s
`, appName, appName, appName, appName, Version, BuildTime)
}

// Environment variable helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
