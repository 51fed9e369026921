package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"golang.org/x/term"
)

const tablePadding = 2

// renderRows writes rows as an aligned table for a person at a terminal and
// as plain tab-separated lines otherwise, so piped and scripted invocations
// get stable, cut-friendly output.
func renderRows(out io.Writer, headers []string, rows [][]string) error {
	if IsNonInteractive() {
		if len(headers) > 0 {
			if _, err := fmt.Fprintln(out, strings.Join(headers, "\t")); err != nil {
				return err
			}
		}
		for _, row := range rows {
			if _, err := fmt.Fprintln(out, strings.Join(row, "\t")); err != nil {
				return err
			}
		}
		return nil
	}
	return writeTable(out, headers, rows)
}

func writeTable(out io.Writer, headers []string, rows [][]string) error {
	writer := tabwriter.NewWriter(out, 0, 0, tablePadding, ' ', tabwriter.StripEscape)
	if len(headers) > 0 {
		fmt.Fprintln(writer, strings.Join(headers, "\t"))
	}
	for _, row := range rows {
		fmt.Fprintln(writer, strings.Join(row, "\t"))
	}
	return writer.Flush()
}

func formatStatus(ok bool) string {
	if ok {
		return "ok"
	}
	return "error"
}

func formatYesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

// truncate shortens long source lines for table cells.
func truncate(s string, max int) string {
	if max <= 3 || len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

func hasTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// IsNonInteractive reports whether prompts should be skipped and defaults used.
func IsNonInteractive() bool {
	return nonInteractive || !hasTTY()
}
