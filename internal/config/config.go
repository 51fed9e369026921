// Package config loads directive configuration from file, environment, and
// defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config contains all directive settings.
type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	History  HistoryConfig  `mapstructure:"history"`
	Macros   MacrosConfig   `mapstructure:"macros"`
	Executor ExecutorConfig `mapstructure:"executor"`
}

// LogConfig controls logging output.
type LogConfig struct {
	// Level is the minimum level to emit (trace..panic).
	Level string `mapstructure:"level"`

	// Format is "console" or "json".
	Format string `mapstructure:"format"`
}

// HistoryConfig controls execution history persistence.
type HistoryConfig struct {
	// Enabled turns on recording of executor runs.
	Enabled bool `mapstructure:"enabled"`

	// Path is the SQLite database location.
	Path string `mapstructure:"path"`
}

// MacrosConfig controls macro loading.
type MacrosConfig struct {
	// Dir is an extra directory searched before the standard paths.
	Dir string `mapstructure:"dir"`
}

// ExecutorConfig tunes the action sequence executor.
type ExecutorConfig struct {
	// MaxDepth limits conditional nesting during execution.
	MaxDepth int `mapstructure:"max_depth"`

	// MaxActionsPerRun stops runaway sequences. Zero means unlimited.
	MaxActionsPerRun int `mapstructure:"max_actions_per_run"`
}

// DefaultDatabasePath returns the default history database location.
func DefaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".local", "share", "directive", "directive.db")
}

// Load reads configuration from an optional file path, the environment
// (DIRECTIVE_* variables), and built-in defaults, in that precedence order.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("history.enabled", false)
	v.SetDefault("history.path", DefaultDatabasePath())
	v.SetDefault("macros.dir", "")
	v.SetDefault("executor.max_depth", 16)
	v.SetDefault("executor.max_actions_per_run", 0)

	v.SetEnvPrefix("DIRECTIVE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("directive")
		v.SetConfigType("yaml")
		if home, err := os.UserHomeDir(); err == nil && home != "" {
			v.AddConfigPath(filepath.Join(home, ".config", "directive"))
		}
		v.AddConfigPath(".")
		// A missing default config file is fine.
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
