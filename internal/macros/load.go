package macros

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadMacro reads a single macro from disk.
func LoadMacro(path string) (*Macro, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("macro path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read macro %s: %w", path, err)
	}

	m, err := parseMacro(data)
	if err != nil {
		return nil, fmt.Errorf("parse macro %s: %w", path, err)
	}
	m.Source = path
	return m, nil
}

// LoadMacrosFromDir loads all macros from a directory. A missing directory
// is not an error.
func LoadMacrosFromDir(dir string) ([]*Macro, error) {
	if strings.TrimSpace(dir) == "" {
		return []*Macro{}, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []*Macro{}, nil
		}
		return nil, fmt.Errorf("read macros dir %s: %w", dir, err)
	}

	loaded := make([]*Macro, 0)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		m, err := LoadMacro(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		loaded = append(loaded, m)
	}

	sort.Slice(loaded, func(i, j int) bool {
		return loaded[i].Name < loaded[j].Name
	})

	return loaded, nil
}

func parseMacro(data []byte) (*Macro, error) {
	var m Macro
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}

	m.Name = strings.TrimSpace(m.Name)
	if m.Name == "" {
		return nil, fmt.Errorf("macro name is required")
	}
	m.Description = strings.TrimSpace(m.Description)
	m.Condition = strings.TrimSpace(m.Condition)

	actions := make([]string, 0, len(m.Actions))
	for _, line := range m.Actions {
		if line = strings.TrimSpace(line); line != "" {
			actions = append(actions, line)
		}
	}
	m.Actions = actions
	if len(m.Actions) == 0 {
		return nil, fmt.Errorf("macro actions are required")
	}

	seen := make(map[string]struct{})
	for i := range m.Variables {
		name := strings.TrimSpace(m.Variables[i].Name)
		if name == "" {
			return nil, fmt.Errorf("macro variable name is required")
		}
		if _, exists := seen[name]; exists {
			return nil, fmt.Errorf("duplicate macro variable %q", name)
		}
		seen[name] = struct{}{}
		m.Variables[i].Name = name
	}

	return &m, nil
}
