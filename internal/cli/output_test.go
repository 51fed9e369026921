package cli

import (
	"strings"
	"testing"
)

func TestRenderRowsNonInteractive(t *testing.T) {
	prev := nonInteractive
	nonInteractive = true
	t.Cleanup(func() { nonInteractive = prev })

	var out strings.Builder
	headers := []string{"NAME", "STATUS"}
	rows := [][]string{
		{"greet", "ok"},
		{"warn", "error"},
	}
	if err := renderRows(&out, headers, rows); err != nil {
		t.Fatalf("renderRows: %v", err)
	}

	want := "NAME\tSTATUS\ngreet\tok\nwarn\terror\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestWriteTableAligns(t *testing.T) {
	var out strings.Builder
	headers := []string{"NAME", "STATUS"}
	rows := [][]string{{"greet", "ok"}}
	if err := writeTable(&out, headers, rows); err != nil {
		t.Fatalf("writeTable: %v", err)
	}

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), out.String())
	}
	if strings.ContainsRune(lines[0], '\t') || strings.ContainsRune(lines[1], '\t') {
		t.Errorf("aligned output should not contain raw tabs: %q", out.String())
	}
	if idx := strings.Index(lines[0], "STATUS"); idx < 0 || !strings.HasPrefix(lines[1][idx:], "ok") {
		t.Errorf("columns not aligned: %q", out.String())
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate(short) = %q", got)
	}
	if got := truncate("a very long source line", 10); got != "a very ..." {
		t.Errorf("truncate(long) = %q", got)
	}
}
