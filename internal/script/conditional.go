package script

import (
	"strings"
)

// parseConditionalAction parses "if {condition} then {actions} [else
// {actions}]" into a ConditionalAction. The keywords "then" and "else" are
// only honored at brace depth zero and when whitespace-delimited, so the
// same words inside nested action text or condition values never split the
// line.
func parseConditionalAction(s string, depth int) (Action, error) {
	if depth > maxNestingDepth {
		return nil, parseErrorf(ErrCodeDepthExceeded, s, "conditional nesting exceeds %d levels", maxNestingDepth)
	}
	if !hasKeywordPrefix(s, "if") {
		return nil, parseErrorf(ErrCodeMissingKeyword, s, "conditional must start with \"if\"")
	}
	if !balanced(s, '{', '}') {
		return nil, parseErrorf(ErrCodeUnbalanced, s, "unbalanced braces in conditional")
	}

	thenIdx := findKeyword(s, "then", len("if"))
	if thenIdx < 0 {
		return nil, parseErrorf(ErrCodeMissingKeyword, s, "conditional requires \"then\"")
	}

	condSeg := strings.TrimSpace(s[len("if"):thenIdx])
	rest := s[thenIdx+len("then"):]

	thenSeg := rest
	elseSeg := ""
	hasElse := false
	if elseIdx := findKeyword(rest, "else", 0); elseIdx >= 0 {
		thenSeg = rest[:elseIdx]
		elseSeg = rest[elseIdx+len("else"):]
		hasElse = true
	}

	condition, err := parseCondition(stripEnclosing(condSeg, '{', '}'), depth+1)
	if err != nil {
		return nil, err
	}

	thenBranch, err := parseBranch(thenSeg, depth)
	if err != nil {
		return nil, err
	}

	cond := &ConditionalAction{Condition: condition, Then: thenBranch}
	if hasElse {
		elseBranch, err := parseBranch(elseSeg, depth)
		if err != nil {
			return nil, err
		}
		cond.Else = elseBranch
	}

	return cond, nil
}

// parseBranch strips an optional enclosing brace pair from a then/else
// segment and parses it as an action list. A nested conditional inside the
// branch is just another action line, handled by ordinary recursion.
func parseBranch(segment string, depth int) (ActionList, error) {
	body := stripEnclosing(segment, '{', '}')
	if body == "" {
		return ActionList{}, nil
	}
	return parseActionSegment(body, depth+1)
}

// findKeyword returns the index of the first occurrence of keyword in s at
// brace depth zero, starting at from. The keyword must be preceded by
// whitespace and followed by whitespace or an opening brace.
func findKeyword(s, keyword string, from int) int {
	depth := 0
	for i := from; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
			continue
		case '}':
			depth--
			continue
		}
		if depth != 0 {
			continue
		}
		if i == 0 || s[i-1] != ' ' {
			continue
		}
		end := i + len(keyword)
		if end > len(s) || !strings.EqualFold(s[i:end], keyword) {
			continue
		}
		if end == len(s) || s[end] == ' ' || s[end] == '{' {
			return i
		}
	}
	return -1
}
