package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/framewave/directive/internal/actor"
	"github.com/framewave/directive/internal/engine"
)

var (
	evalPermissions  []string
	evalPlaceholders []string
)

func init() {
	rootCmd.AddCommand(evalCmd)
	evalCmd.Flags().StringArrayVar(&evalPermissions, "perm", nil, "permission node granted to the synthetic actor (repeatable)")
	evalCmd.Flags().StringArrayVar(&evalPlaceholders, "set", nil, "placeholder value key=value (repeatable)")
}

var evalCmd = &cobra.Command{
	Use:   "eval <condition>",
	Short: "Evaluate a condition against a synthetic actor",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cond, err := conditionCache.Parse(args[0])
		if err != nil {
			return fmt.Errorf("parse condition: %w", err)
		}

		console := actor.NewConsoleActor("eval", cmd.OutOrStdout())
		console.Grant(evalPermissions...)
		for _, pair := range evalPlaceholders {
			key, value, err := splitPair(pair)
			if err != nil {
				return err
			}
			console.SetPlaceholder(key, value)
		}

		evaluator := engine.NewEvaluator(console, console)
		result, err := evaluator.Evaluate(console, cond)
		if err != nil {
			return fmt.Errorf("evaluate condition: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s => %t\n", cond.String(), result)
		return nil
	},
}

func splitPair(pair string) (string, string, error) {
	key, value, ok := strings.Cut(pair, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", "", fmt.Errorf("invalid key=value pair %q", pair)
	}
	return key, value, nil
}
