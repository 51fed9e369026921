package macros

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/framewave/directive/internal/script"
)

// Render applies variables to a macro and parses the result: the rendered
// guard condition (nil when the macro has none) and the rendered action
// list. Missing required variables and unparsable rendered source are
// errors.
func Render(m *Macro, vars map[string]string) (script.Condition, script.ActionList, error) {
	return RenderWith(m, vars, nil)
}

// RenderWith is Render with an optional shared condition cache for the guard
// parse. Guards are often identical across macros and invocations; a caller
// that renders repeatedly passes its cache so the parsed tree is reused.
func RenderWith(m *Macro, vars map[string]string, cache *script.ConditionCache) (script.Condition, script.ActionList, error) {
	if m == nil {
		return nil, nil, fmt.Errorf("macro is required")
	}

	data := make(map[string]string, len(vars))
	for key, value := range vars {
		data[key] = value
	}

	for _, variable := range m.Variables {
		value := strings.TrimSpace(data[variable.Name])
		if value == "" {
			if variable.Default != "" {
				data[variable.Name] = variable.Default
				continue
			}
			if variable.Required {
				return nil, nil, fmt.Errorf("missing required variable %q", variable.Name)
			}
		}
	}

	var guard script.Condition
	if m.Condition != "" {
		source, err := renderText(m.Name, m.Condition, data)
		if err != nil {
			return nil, nil, fmt.Errorf("render macro %q condition: %w", m.Name, err)
		}
		if cache != nil {
			guard, err = cache.Parse(source)
		} else {
			guard, err = script.ParseCondition(source)
		}
		if err != nil {
			return nil, nil, fmt.Errorf("macro %q condition: %w", m.Name, err)
		}
	}

	list := make(script.ActionList, 0, len(m.Actions))
	for i, line := range m.Actions {
		source, err := renderText(m.Name, line, data)
		if err != nil {
			return nil, nil, fmt.Errorf("render macro %q action %d: %w", m.Name, i+1, err)
		}
		action, err := script.ParseAction(source)
		if err != nil {
			return nil, nil, fmt.Errorf("macro %q action %d: %w", m.Name, i+1, err)
		}
		list = append(list, action)
	}

	return guard, list, nil
}

func renderText(name, content string, data map[string]string) (string, error) {
	parsed, err := template.New(name).
		Funcs(template.FuncMap{"default": defaultValue}).
		Option("missingkey=zero").
		Parse(content)
	if err != nil {
		return "", fmt.Errorf("parse template %q: %w", name, err)
	}

	var out strings.Builder
	if err := parsed.Execute(&out, data); err != nil {
		return "", fmt.Errorf("render template %q: %w", name, err)
	}

	return out.String(), nil
}

func defaultValue(def string, value any) string {
	if value == nil {
		return def
	}

	switch v := value.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return def
		}
		return v
	default:
		text := strings.TrimSpace(fmt.Sprint(v))
		if text == "" {
			return def
		}
		return text
	}
}
