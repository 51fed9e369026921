// Package script implements the directive mini-language: boolean condition
// expressions and ordered action lines, parsed into immutable trees.
package script

import (
	"fmt"
	"strings"
)

// Comparator is a numeric/string comparison operator in a placeholder
// condition.
type Comparator string

const (
	CmpGreater   Comparator = ">"
	CmpGreaterEq Comparator = ">="
	CmpLess      Comparator = "<"
	CmpLessEq    Comparator = "<="
	CmpEqual     Comparator = "=="
	CmpNotEqual  Comparator = "!="
)

// comparators lists all operators in scan order: two-character operators
// first so ">=" is never read as ">" followed by "=".
var comparators = []Comparator{CmpGreaterEq, CmpLessEq, CmpEqual, CmpNotEqual, CmpGreater, CmpLess}

// Condition is a node in a parsed condition expression. Conditions are
// immutable after parsing and safe to share across concurrent evaluations.
type Condition interface {
	fmt.Stringer
	condition()
}

// PermissionCondition checks a permission node against the actor.
type PermissionCondition struct {
	Node    string
	Negated bool
}

// PlaceholderCondition resolves a placeholder key for the actor and
// optionally compares it against a right-hand side. Without a comparator the
// resolved value is tested for truthiness.
type PlaceholderCondition struct {
	Key        string
	Comparator Comparator // empty when no comparator was present
	Value      string
}

// AnyCondition is true when at least one child is true. Parsing guarantees
// at least one child.
type AnyCondition struct {
	Children []Condition
}

// AllCondition is true when every child is true. Parsing guarantees at
// least one child.
type AllCondition struct {
	Children []Condition
}

// NotCondition inverts its child.
type NotCondition struct {
	Child Condition
}

func (*PermissionCondition) condition()  {}
func (*PlaceholderCondition) condition() {}
func (*AnyCondition) condition()         {}
func (*AllCondition) condition()         {}
func (*NotCondition) condition()         {}

func (c *PermissionCondition) String() string {
	if c.Negated {
		return "permission !" + c.Node
	}
	return "permission " + c.Node
}

func (c *PlaceholderCondition) String() string {
	if c.Comparator == "" {
		return "placeholder " + c.Key
	}
	return fmt.Sprintf("placeholder %s %s %s", c.Key, c.Comparator, c.Value)
}

func (c *AnyCondition) String() string { return formatCombinator("any", c.Children) }
func (c *AllCondition) String() string { return formatCombinator("all", c.Children) }

func (c *NotCondition) String() string { return "not " + c.Child.String() }

func formatCombinator(name string, children []Condition) string {
	parts := make([]string, len(children))
	for i, child := range children {
		parts[i] = child.String()
	}
	return name + " [" + strings.Join(parts, "; ") + "]"
}

// Action is a single parsed step of an action list.
type Action interface {
	fmt.Stringer
	action()
}

// ActionList is an ordered sequence of actions owned by its parent. Lists
// are never shared between parents and never mutated after parsing.
type ActionList []Action

// TellAction sends a chat/text line to the actor.
type TellAction struct {
	Text string
}

// ActionBarAction shows a transient status line above the actor's hotbar.
type ActionBarAction struct {
	Text string
}

// SoundAction plays a named sound. Volume and pitch are already clamped to
// their valid ranges at parse time.
type SoundAction struct {
	Name   string
	Volume float64
	Pitch  float64
}

// TitleAction shows a title/subtitle pair. Timing fields are in ticks.
type TitleAction struct {
	Title    string
	Subtitle string
	FadeIn   int
	Stay     int
	FadeOut  int
}

// ActorCommandAction runs a command as the actor.
type ActorCommandAction struct {
	Command string
}

// HostCommandAction runs a command with host privileges.
type HostCommandAction struct {
	Command string
}

// DelayAction suspends the sequence for Ticks ticks (one tick is 50ms).
type DelayAction struct {
	Ticks int
}

// ConditionalAction evaluates a condition and runs exactly one of its
// branches. Else may be nil.
type ConditionalAction struct {
	Condition Condition
	Then      ActionList
	Else      ActionList
}

func (*TellAction) action()         {}
func (*ActionBarAction) action()    {}
func (*SoundAction) action()        {}
func (*TitleAction) action()        {}
func (*ActorCommandAction) action() {}
func (*HostCommandAction) action()  {}
func (*DelayAction) action()        {}
func (*ConditionalAction) action()  {}

func (a *TellAction) String() string      { return "tell " + a.Text }
func (a *ActionBarAction) String() string { return "actionbar " + a.Text }

func (a *SoundAction) String() string {
	return fmt.Sprintf("sound %s-%g-%g", a.Name, a.Volume, a.Pitch)
}

func (a *TitleAction) String() string {
	return fmt.Sprintf("title `%s` `%s` %d %d %d", a.Title, a.Subtitle, a.FadeIn, a.Stay, a.FadeOut)
}

func (a *ActorCommandAction) String() string { return "command " + a.Command }
func (a *HostCommandAction) String() string  { return "console " + a.Command }
func (a *DelayAction) String() string        { return fmt.Sprintf("delay %d", a.Ticks) }

func (a *ConditionalAction) String() string {
	var b strings.Builder
	b.WriteString("if {")
	b.WriteString(a.Condition.String())
	b.WriteString("} then {")
	b.WriteString(a.Then.String())
	b.WriteString("}")
	if a.Else != nil {
		b.WriteString(" else {")
		b.WriteString(a.Else.String())
		b.WriteString("}")
	}
	return b.String()
}

func (l ActionList) String() string {
	parts := make([]string, len(l))
	for i, a := range l {
		parts[i] = a.String()
	}
	return strings.Join(parts, "; ")
}

// ActionName returns the action-type keyword for an action, used in logs
// and execution error messages.
func ActionName(a Action) string {
	switch a.(type) {
	case *TellAction:
		return "tell"
	case *ActionBarAction:
		return "actionbar"
	case *SoundAction:
		return "sound"
	case *TitleAction:
		return "title"
	case *ActorCommandAction:
		return "command"
	case *HostCommandAction:
		return "console"
	case *DelayAction:
		return "delay"
	case *ConditionalAction:
		return "conditional"
	default:
		return "unknown"
	}
}
