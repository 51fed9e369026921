// Package macros provides loading and rendering of named, reusable action
// lists written in the directive mini-language.
package macros

// Macro is a named action list with optional template variables and an
// optional guard condition. Actions and the guard are mini-language source;
// they are parsed only after variable rendering.
type Macro struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Condition   string     `yaml:"condition,omitempty"`
	Actions     []string   `yaml:"actions"`
	Variables   []MacroVar `yaml:"variables,omitempty"`
	Tags        []string   `yaml:"tags,omitempty"`
	Source      string     // file path or "builtin"
}

// MacroVar describes a variable used in a macro.
type MacroVar struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Default     string `yaml:"default,omitempty"`
	Required    bool   `yaml:"required"`
}
