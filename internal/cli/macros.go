package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/framewave/directive/internal/macros"
)

func init() {
	rootCmd.AddCommand(macrosCmd)
}

var macrosCmd = &cobra.Command{
	Use:   "macros",
	Short: "List available macros",
	Long:  "List macros from the configured macro directories and the builtins.",
	RunE: func(cmd *cobra.Command, args []string) error {
		macroDir := ""
		if cfg := GetConfig(); cfg != nil {
			macroDir = cfg.Macros.Dir
		}

		available, err := macros.LoadMacrosFromSearchPaths(macroDir)
		if err != nil {
			return err
		}
		if len(available) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no macros found")
			return nil
		}

		rows := make([][]string, 0, len(available))
		for _, m := range available {
			rows = append(rows, []string{
				m.Name,
				truncate(m.Description, 56),
				fmt.Sprintf("%d", len(m.Actions)),
				formatYesNo(m.Condition != ""),
				m.Source,
			})
		}
		return renderRows(cmd.OutOrStdout(), []string{"NAME", "DESCRIPTION", "ACTIONS", "GUARDED", "SOURCE"}, rows)
	},
}
