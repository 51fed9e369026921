package macros

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// LoadBuiltinMacros returns the built-in macros bundled with directive.
func LoadBuiltinMacros() ([]*Macro, error) {
	entries, err := fs.ReadDir(builtinFS, "builtin")
	if err != nil {
		return nil, fmt.Errorf("read builtin macros: %w", err)
	}

	loaded := make([]*Macro, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		data, err := builtinFS.ReadFile("builtin/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read builtin macro %s: %w", entry.Name(), err)
		}
		m, err := parseMacro(data)
		if err != nil {
			return nil, fmt.Errorf("parse builtin macro %s: %w", entry.Name(), err)
		}
		m.Source = "builtin"
		loaded = append(loaded, m)
	}

	sort.Slice(loaded, func(i, j int) bool {
		return loaded[i].Name < loaded[j].Name
	})

	return loaded, nil
}
