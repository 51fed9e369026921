// Package cli provides the directive command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/framewave/directive/internal/config"
	"github.com/framewave/directive/internal/db"
	"github.com/framewave/directive/internal/logging"
	"github.com/framewave/directive/internal/script"
)

var (
	cfgFile        string
	logLevel       string
	nonInteractive bool

	appConfig *config.Config

	// conditionCache is shared by every command that parses conditions, so
	// repeated expressions within one invocation reuse their trees.
	conditionCache = script.NewConditionCache(256)
)

var rootCmd = &cobra.Command{
	Use:   "directive",
	Short: "Parse, validate, and run directive scripts",
	Long: "Directive parses condition expressions and action sequences written in\n" +
		"the directive mini-language and runs them against an actor.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		appConfig = cfg

		level := cfg.Log.Level
		if logLevel != "" {
			level = logLevel
		}
		logging.Setup(level, cfg.Log.Format, os.Stderr)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override configured log level")
	rootCmd.PersistentFlags().BoolVar(&nonInteractive, "non-interactive", false, "skip prompts and use defaults")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// GetConfig returns the loaded configuration, or nil before initialization.
func GetConfig() *config.Config {
	return appConfig
}

func openDatabase() (*db.DB, error) {
	cfg := GetConfig()
	path := config.DefaultDatabasePath()
	if cfg != nil && cfg.History.Path != "" {
		path = cfg.History.Path
	}
	database, err := db.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	return database, nil
}
