package macros

import (
	"os"
	"path/filepath"
)

// MacroSearchPaths returns macro search directories in precedence order: the
// configured directory (when set), the working tree's .directive/macros, then
// the per-user directory.
func MacroSearchPaths(configuredDir string) []string {
	paths := make([]string, 0, 3)
	if configuredDir != "" {
		paths = append(paths, configuredDir)
	}
	paths = append(paths, filepath.Join(".directive", "macros"))
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		paths = append(paths, filepath.Join(home, ".config", "directive", "macros"))
	}
	return paths
}

// LoadMacrosFromSearchPaths loads macros from search paths with first-hit
// precedence, then fills in builtins not shadowed by a file.
func LoadMacrosFromSearchPaths(configuredDir string) ([]*Macro, error) {
	seen := make(map[string]*Macro)
	order := make([]string, 0)

	for _, path := range MacroSearchPaths(configuredDir) {
		loaded, err := LoadMacrosFromDir(path)
		if err != nil {
			return nil, err
		}
		for _, m := range loaded {
			if _, exists := seen[m.Name]; exists {
				continue
			}
			seen[m.Name] = m
			order = append(order, m.Name)
		}
	}

	builtins, err := LoadBuiltinMacros()
	if err != nil {
		return nil, err
	}
	for _, m := range builtins {
		if _, exists := seen[m.Name]; exists {
			continue
		}
		seen[m.Name] = m
		order = append(order, m.Name)
	}

	resolved := make([]*Macro, 0, len(order))
	for _, name := range order {
		resolved = append(resolved, seen[name])
	}
	return resolved, nil
}
