package script

import (
	"strings"

	"github.com/framewave/directive/internal/logging"
)

// maxNestingDepth bounds recursion for pathological input. Real-world
// expressions rarely nest more than three or four levels.
const maxNestingDepth = 16

// ParseCondition parses a condition expression into an immutable Condition
// tree. The input is normalized first, so callers may pass raw source.
func ParseCondition(src string) (Condition, error) {
	return parseCondition(Normalize(src), 0)
}

// CheckConditionSource validates a condition expression without keeping the
// parsed tree.
func CheckConditionSource(src string) error {
	_, err := ParseCondition(src)
	return err
}

// parseCondition dispatches on the expression prefix, longest match first.
// Combinator children and "not" bodies recurse with depth+1.
func parseCondition(s string, depth int) (Condition, error) {
	if depth > maxNestingDepth {
		return nil, parseErrorf(ErrCodeDepthExceeded, s, "condition nesting exceeds %d levels", maxNestingDepth)
	}
	if s == "" {
		return nil, parseErrorf(ErrCodeEmptyInput, "", "empty condition")
	}

	lower := strings.ToLower(s)

	switch {
	case strings.HasPrefix(lower, "permission "):
		return parsePermission(strings.TrimSpace(s[len("permission "):]))

	case strings.HasPrefix(lower, "perm "):
		return parsePermission(strings.TrimSpace(s[len("perm "):]))

	case strings.HasPrefix(lower, "placeholder "):
		return parsePlaceholder(strings.TrimSpace(s[len("placeholder "):]))

	case strings.HasPrefix(lower, "papi "):
		return parsePlaceholder(strings.TrimSpace(s[len("papi "):]))

	case strings.HasPrefix(lower, "any"):
		if rest, ok := combinatorBody(s[len("any"):]); ok {
			children, err := parseCombinatorChildren(s, rest, depth)
			if err != nil {
				return nil, err
			}
			return &AnyCondition{Children: children}, nil
		}

	case strings.HasPrefix(lower, "all"):
		if rest, ok := combinatorBody(s[len("all"):]); ok {
			children, err := parseCombinatorChildren(s, rest, depth)
			if err != nil {
				return nil, err
			}
			return &AllCondition{Children: children}, nil
		}

	case strings.HasPrefix(lower, "not "):
		child, err := parseCondition(strings.TrimSpace(s[len("not "):]), depth+1)
		if err != nil {
			return nil, err
		}
		return &NotCondition{Child: child}, nil
	}

	// A bare %placeholder% token is a placeholder condition even without
	// the keyword prefix.
	if strings.Count(s, "%") >= 2 {
		return parsePlaceholder(s)
	}

	// Fallback: a token with no bracket syntax is an implicit permission
	// node. This applies both to combinator children and to whole
	// expressions authored as a bare node name.
	if strings.ContainsAny(s, "[]") {
		return nil, parseErrorf(ErrCodeUnbalanced, s, "unexpected bracket in condition")
	}
	return parsePermission(s)
}

func parsePermission(value string) (Condition, error) {
	if value == "" {
		return nil, parseErrorf(ErrCodeMissingValue, "", "permission node is required")
	}
	negated := false
	if strings.HasPrefix(value, "!") {
		negated = true
		value = strings.TrimSpace(value[1:])
		if value == "" {
			return nil, parseErrorf(ErrCodeMissingValue, "!", "permission node is required after negation")
		}
	}
	return &PermissionCondition{Node: value, Negated: negated}, nil
}

// parsePlaceholder splits "key <cmp> rhs" on the first comparator
// occurrence, scanning left to right with two-character operators matched
// first. A value without any comparator is a bare truthiness check.
func parsePlaceholder(value string) (Condition, error) {
	if value == "" {
		return nil, parseErrorf(ErrCodeMissingValue, "", "placeholder key is required")
	}

	for i := 0; i < len(value); i++ {
		for _, cmp := range comparators {
			if !strings.HasPrefix(value[i:], string(cmp)) {
				continue
			}
			key := strings.TrimSpace(value[:i])
			rhs := strings.TrimSpace(value[i+len(cmp):])
			if key == "" {
				return nil, parseErrorf(ErrCodeMissingValue, value, "placeholder key is required before %q", cmp)
			}
			if rhs == "" {
				return nil, parseErrorf(ErrCodeMissingValue, value, "comparison value is required after %q", cmp)
			}
			return &PlaceholderCondition{Key: key, Comparator: cmp, Value: rhs}, nil
		}
	}

	return &PlaceholderCondition{Key: value}, nil
}

// combinatorBody checks that the text following an "any"/"all" keyword is a
// bracketed body and returns it with the outer brackets still attached.
// Returns false when the keyword is actually the start of a longer bare
// token (e.g. the permission node "anything").
func combinatorBody(rest string) (string, bool) {
	rest = strings.TrimSpace(rest)
	if rest == "" || rest[0] != '[' {
		return "", false
	}
	return rest, true
}

// parseCombinatorChildren parses the bracketed child list of an any/all
// node. The body must end with the bracket that matches the leading one;
// children are split on top-level semicolons. A child that fails to parse
// is logged and skipped; a body with no parsable children fails the whole
// node.
func parseCombinatorChildren(whole, body string, depth int) ([]Condition, error) {
	if !balanced(body, '[', ']') || body[len(body)-1] != ']' {
		return nil, parseErrorf(ErrCodeUnbalanced, whole, "combinator body must be a balanced [...] list")
	}

	inner := strings.TrimSpace(body[1 : len(body)-1])
	if inner == "" {
		return nil, parseErrorf(ErrCodeEmptyCombinator, whole, "combinator requires at least one condition")
	}

	pieces := splitTopLevel(inner, ';', '[', ']')
	children := make([]Condition, 0, len(pieces))
	for _, piece := range pieces {
		child, err := parseCondition(piece, depth+1)
		if err != nil {
			logger := logging.Component("script")
			logger.Warn().
				Err(err).
				Str("condition", piece).
				Msg("skipping unparsable combinator child")
			continue
		}
		children = append(children, child)
	}

	if len(children) == 0 {
		return nil, parseErrorf(ErrCodeEmptyCombinator, whole, "combinator requires at least one parsable condition")
	}
	return children, nil
}
