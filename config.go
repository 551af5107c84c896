package robin

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config controls the behavior-tree scheduler.
type Config struct {
	// MaxExecutionTime is the soft wall-clock budget for one System.Update
	// pass. Trees that do not fit in the budget are deferred to the next
	// frame with a logged warning.
	MaxExecutionTime time.Duration `yaml:"max_execution_time"`

	// MaxDepth bounds how deep built trees may nest. Enforced by
	// TreeBuilder.Build; zero disables the check.
	MaxDepth int `yaml:"max_depth"`

	// EnableBlackboardSharing wires every tree's shared namespace to one
	// system-wide map.
	EnableBlackboardSharing bool `yaml:"enable_blackboard_sharing"`

	// EnableDebugging turns on per-tick debug logging.
	EnableDebugging bool `yaml:"enable_debugging"`

	// TickRate is the default tick rate in Hz for trees created by the
	// system.
	TickRate float64 `yaml:"tick_rate_hz"`

	// MemoryLimitMB is advisory; the scheduler records it but does not
	// enforce it.
	MemoryLimitMB int `yaml:"memory_limit_mb"`
}

// DefaultConfig returns the scheduler defaults: a 5ms update budget, depth
// 32, 60Hz trees, sharing enabled.
func DefaultConfig() Config {
	return Config{
		MaxExecutionTime:        5 * time.Millisecond,
		MaxDepth:                32,
		EnableBlackboardSharing: true,
		TickRate:                60,
		MemoryLimitMB:           64,
	}
}

// UnmarshalYAML accepts Go duration strings ("5ms", "1s") for
// max_execution_time.
func (c *Config) UnmarshalYAML(node *yaml.Node) error {
	type rawConfig struct {
		MaxExecutionTime        string   `yaml:"max_execution_time"`
		MaxDepth                *int     `yaml:"max_depth"`
		EnableBlackboardSharing *bool    `yaml:"enable_blackboard_sharing"`
		EnableDebugging         *bool    `yaml:"enable_debugging"`
		TickRate                *float64 `yaml:"tick_rate_hz"`
		MemoryLimitMB           *int     `yaml:"memory_limit_mb"`
	}

	var raw rawConfig
	if err := node.Decode(&raw); err != nil {
		return err
	}

	if raw.MaxExecutionTime != "" {
		d, err := time.ParseDuration(raw.MaxExecutionTime)
		if err != nil {
			return fmt.Errorf("max_execution_time: %w", err)
		}
		c.MaxExecutionTime = d
	}
	if raw.MaxDepth != nil {
		c.MaxDepth = *raw.MaxDepth
	}
	if raw.EnableBlackboardSharing != nil {
		c.EnableBlackboardSharing = *raw.EnableBlackboardSharing
	}
	if raw.EnableDebugging != nil {
		c.EnableDebugging = *raw.EnableDebugging
	}
	if raw.TickRate != nil {
		c.TickRate = *raw.TickRate
	}
	if raw.MemoryLimitMB != nil {
		c.MemoryLimitMB = *raw.MemoryLimitMB
	}
	return nil
}

// LoadConfig reads a YAML config file, filling unset fields from
// DefaultConfig.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("robin: read config %q: %w", path, err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("robin: parse config %q: %w", path, err)
	}
	return cfg, nil
}
