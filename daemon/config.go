// Package daemon embeds the Robin engine in a long-running process. It
// loads a declarative config, wires cron schedules into the event
// system, and drives both cores from a fixed-rate frame loop.
package daemon

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	robin "github.com/ringo380/robin-sub007"
)

const (
	projectConfigName = "robin.yaml"
	homeConfigName    = "config.yaml"
)

// ConfigFile is the declarative startup config shape for the daemon.
type ConfigFile struct {
	Engine    robin.Config          `yaml:"engine"`
	Events    EventConfig           `yaml:"events"`
	Schedules []ScheduleDeclaration `yaml:"schedules"`
	History   HistoryConfig         `yaml:"history"`
}

// EventConfig tunes the event system.
type EventConfig struct {
	// UpdateBudgetMS is the per-update dispatch budget in milliseconds
	// (0 = default).
	UpdateBudgetMS int `yaml:"update_budget_ms"`
}

// ScheduleDeclaration defines one cron-driven event injection.
type ScheduleDeclaration struct {
	Name     string            `yaml:"name"`
	Cron     string            `yaml:"cron"`
	Event    string            `yaml:"event"`
	Priority string            `yaml:"priority,omitempty"`
	Source   string            `yaml:"source,omitempty"`
	Data     map[string]string `yaml:"data,omitempty"`
}

// HistoryConfig configures persisted event history.
type HistoryConfig struct {
	Enabled        bool   `yaml:"enabled"`
	Path           string `yaml:"path,omitempty"`
	RetentionCount int    `yaml:"retention_count,omitempty"`
}

// DiscoverConfigPath resolves the config location with first-match
// semantics: the explicit path, then robin.yaml in the working
// directory, then ~/.robin/config.yaml.
func DiscoverConfigPath(explicitPath string) (string, bool, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", false, fmt.Errorf("resolve working directory: %w", err)
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", false, fmt.Errorf("resolve user home: %w", err)
	}
	return DiscoverConfigPathFrom(explicitPath, cwd, homeDir)
}

// DiscoverConfigPathFrom is a testable variant of DiscoverConfigPath.
func DiscoverConfigPathFrom(explicitPath, cwd, homeDir string) (string, bool, error) {
	candidates := make([]string, 0, 3)
	if clean := strings.TrimSpace(explicitPath); clean != "" {
		candidates = append(candidates, filepath.Clean(clean))
	} else {
		candidates = append(candidates, filepath.Join(cwd, projectConfigName))
		candidates = append(candidates, filepath.Join(homeDir, ".robin", homeConfigName))
	}

	for i, candidate := range candidates {
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, true, nil
		}
		if errors.Is(err, os.ErrNotExist) {
			// If explicit path is set, not found is an error.
			if i == 0 && strings.TrimSpace(explicitPath) != "" {
				return "", false, fmt.Errorf("config file %q not found", candidate)
			}
			continue
		}
		if err != nil {
			return "", false, fmt.Errorf("checking config path %q: %w", candidate, err)
		}
	}
	return "", false, nil
}

// LoadConfigFile reads and validates a daemon config file.
func LoadConfigFile(path string) (ConfigFile, error) {
	// #nosec G304 -- path resolved from explicit local config discovery.
	data, err := os.ReadFile(path)
	if err != nil {
		return ConfigFile{}, fmt.Errorf("reading config %q: %w", path, err)
	}

	cfg := ConfigFile{Engine: robin.DefaultConfig()}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return ConfigFile{}, fmt.Errorf("parsing config %q: %w", path, err)
	}
	if err := validateConfig(cfg); err != nil {
		return ConfigFile{}, fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, nil
}

func validateConfig(cfg ConfigFile) error {
	seen := make(map[string]struct{}, len(cfg.Schedules))
	for i, decl := range cfg.Schedules {
		name := strings.TrimSpace(decl.Name)
		if name == "" {
			return fmt.Errorf("schedule %d: name is required", i)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("schedule %q: duplicate name", name)
		}
		seen[name] = struct{}{}

		if strings.TrimSpace(decl.Event) == "" {
			return fmt.Errorf("schedule %q: event is required", name)
		}
		if _, err := parseCronExpressionUTC(decl.Cron); err != nil {
			return fmt.Errorf("schedule %q: %w", name, err)
		}
	}
	return nil
}
