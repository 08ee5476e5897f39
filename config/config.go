package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/c360/limitedqueue/errors"
	"github.com/c360/limitedqueue/pkg/buffer"
)

// DefaultCapacity is the capacity of the demonstration queue.
const DefaultCapacity = 3

// EnvPrefix prefixes every environment override read by ApplyEnvOverrides.
const EnvPrefix = "LIMITEDQUEUE"

// Config represents the complete application configuration
type Config struct {
	Queue   QueueConfig   `json:"queue"`
	Metrics MetricsConfig `json:"metrics"`
}

// QueueConfig describes the bounded queue to build.
// Policy accepts "reject" or "evict_oldest" in JSON.
type QueueConfig struct {
	Name     string                `json:"name"`
	Capacity int                   `json:"capacity"`
	Policy   buffer.OverflowPolicy `json:"policy"`
	Initial  []int                 `json:"initial,omitempty"`
}

// MetricsConfig controls Prometheus instrumentation of the queue.
type MetricsConfig struct {
	Enabled bool   `json:"enabled"`
	Prefix  string `json:"prefix,omitempty"`
}

// Default returns the configuration of the demonstration queue: capacity 3,
// Reject policy, no initial items and metrics disabled.
func Default() *Config {
	return &Config{
		Queue: QueueConfig{
			Name:     "demo",
			Capacity: DefaultCapacity,
			Policy:   buffer.Reject,
		},
		Metrics: MetricsConfig{
			Prefix: "demo",
		},
	}
}

// Load reads a JSON config file on top of Default and validates the result.
// Fields absent from the file keep their default values.
func Load(path string) (*Config, error) {
	data, err := readConfigFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes JSON config data on top of Default and validates the result.
func Parse(data []byte) (*Config, error) {
	if err := validateJSONDepth(data); err != nil {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%v: %w", err, errors.ErrParsingFailed), "Config", "Parse", "check JSON structure")
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%v: %w", err, errors.ErrParsingFailed), "Config", "Parse", "decode JSON")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks if the config is valid
func (c *Config) Validate() error {
	if err := c.Queue.Validate(); err != nil {
		return err
	}
	if c.Metrics.Enabled && strings.TrimSpace(c.Metrics.Prefix) == "" {
		return invalid("metrics.prefix is required when metrics are enabled")
	}
	return nil
}

// Validate checks capacity, policy and initializer length.
func (q *QueueConfig) Validate() error {
	if q.Capacity < 1 {
		return invalid(fmt.Sprintf("queue.capacity must be at least 1, got %d", q.Capacity))
	}
	if q.Policy != buffer.Reject && q.Policy != buffer.EvictOldest {
		return invalid(fmt.Sprintf("queue.policy %d is not a known overflow policy", int(q.Policy)))
	}
	if len(q.Initial) > q.Capacity {
		return invalid(fmt.Sprintf("queue.initial has %d items, capacity is %d", len(q.Initial), q.Capacity))
	}
	return nil
}

func invalid(msg string) error {
	return errors.WrapInvalid(fmt.Errorf("%s: %w", msg, errors.ErrInvalidConfig), "Config", "Validate", "validate")
}

// ApplyEnvOverrides overrides queue and metrics settings from LIMITEDQUEUE_*
// environment variables and revalidates the config.
//
//	LIMITEDQUEUE_QUEUE_NAME
//	LIMITEDQUEUE_QUEUE_CAPACITY
//	LIMITEDQUEUE_QUEUE_POLICY
//	LIMITEDQUEUE_METRICS_ENABLED
//	LIMITEDQUEUE_METRICS_PREFIX
func (c *Config) ApplyEnvOverrides() error {
	return c.applyEnv(os.LookupEnv)
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	get := func(suffix string) (string, bool, error) {
		key := EnvPrefix + "_" + suffix
		val, ok := lookup(key)
		if !ok || val == "" {
			return "", false, nil
		}
		if err := validateEnvVar(key, val); err != nil {
			return "", false, errors.WrapInvalid(
				fmt.Errorf("%v: %w", err, errors.ErrInvalidConfig), "Config", "ApplyEnvOverrides", "read env")
		}
		return val, true, nil
	}

	if val, ok, err := get("QUEUE_NAME"); err != nil {
		return err
	} else if ok {
		c.Queue.Name = val
	}

	if val, ok, err := get("QUEUE_CAPACITY"); err != nil {
		return err
	} else if ok {
		n, convErr := strconv.Atoi(val)
		if convErr != nil {
			return errors.WrapInvalid(
				fmt.Errorf("%s_QUEUE_CAPACITY=%q: %w", EnvPrefix, val, errors.ErrInvalidConfig),
				"Config", "ApplyEnvOverrides", "parse capacity")
		}
		c.Queue.Capacity = n
	}

	if val, ok, err := get("QUEUE_POLICY"); err != nil {
		return err
	} else if ok {
		policy, parseErr := buffer.ParseOverflowPolicy(val)
		if parseErr != nil {
			return errors.Wrap(parseErr, "Config", "ApplyEnvOverrides", "parse policy")
		}
		c.Queue.Policy = policy
	}

	if val, ok, err := get("METRICS_ENABLED"); err != nil {
		return err
	} else if ok {
		enabled, convErr := strconv.ParseBool(val)
		if convErr != nil {
			return errors.WrapInvalid(
				fmt.Errorf("%s_METRICS_ENABLED=%q: %w", EnvPrefix, val, errors.ErrInvalidConfig),
				"Config", "ApplyEnvOverrides", "parse metrics flag")
		}
		c.Metrics.Enabled = enabled
	}

	if val, ok, err := get("METRICS_PREFIX"); err != nil {
		return err
	} else if ok {
		c.Metrics.Prefix = val
	}

	return c.Validate()
}

// Clone creates a deep copy of the configuration
func (c *Config) Clone() *Config {
	if c == nil {
		return &Config{}
	}

	clone := *c
	if c.Queue.Initial != nil {
		clone.Queue.Initial = append([]int(nil), c.Queue.Initial...)
	}
	return &clone
}

// SaveToFile writes the config as indented JSON with owner-only permissions.
func (c *Config) SaveToFile(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.WrapInvalid(err, "Config", "SaveToFile", "encode JSON")
	}
	return writeConfigFile(path, data)
}

// String returns the config as indented JSON for debugging.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}
