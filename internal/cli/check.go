package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/framewave/directive/internal/script"
)

var checkConditions bool

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().BoolVar(&checkConditions, "conditions", false, "treat input lines as condition expressions instead of actions")
}

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Validate a directive script without executing it",
	Long: "Parse every line of a script file (or stdin when no file is given) and\n" +
		"report per-line results. Lines starting with # and blank lines are skipped.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		lines, err := readScriptLines(path)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return fmt.Errorf("no script lines to check")
		}

		rows := make([][]string, 0, len(lines))
		failures := 0
		for _, line := range lines {
			var parseErr error
			if checkConditions {
				parseErr = script.CheckConditionSource(line)
			} else {
				parseErr = script.CheckActionLine(line)
			}

			detail := ""
			if parseErr != nil {
				failures++
				detail = parseErr.Error()
			}
			rows = append(rows, []string{truncate(line, 48), formatStatus(parseErr == nil), detail})
		}

		if err := renderRows(cmd.OutOrStdout(), []string{"LINE", "STATUS", "DETAIL"}, rows); err != nil {
			return err
		}
		if failures > 0 {
			return fmt.Errorf("%d of %d lines failed to parse", failures, len(lines))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d lines ok\n", len(lines))
		return nil
	},
}

// readScriptLines reads non-empty, non-comment lines from a file, or from
// stdin when path is empty.
func readScriptLines(path string) ([]string, error) {
	var reader io.Reader = os.Stdin
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open script %s: %w", path, err)
		}
		defer f.Close()
		reader = f
	}

	var lines []string
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return lines, nil
}
