// Package engine evaluates parsed conditions and executes action sequences
// against a single actor.
package engine

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/framewave/directive/internal/actor"
	"github.com/framewave/directive/internal/logging"
	"github.com/framewave/directive/internal/script"
)

// Evaluator errors.
var (
	ErrNoPermissionChecker   = errors.New("no permission checker configured")
	ErrNoPlaceholderResolver = errors.New("no placeholder resolver configured")
)

// Evaluator evaluates condition trees against an actor using externally
// supplied capability providers. Evaluation is left-to-right and
// short-circuiting; short-circuiting only affects how many capability calls
// are made, never the result.
type Evaluator struct {
	permissions actor.PermissionChecker
	resolver    actor.PlaceholderResolver
	logger      zerolog.Logger
}

// NewEvaluator creates an Evaluator. Either provider may be nil, in which
// case conditions needing it evaluate to an error.
func NewEvaluator(permissions actor.PermissionChecker, resolver actor.PlaceholderResolver) *Evaluator {
	return &Evaluator{
		permissions: permissions,
		resolver:    resolver,
		logger:      logging.Component("evaluator"),
	}
}

// Evaluate evaluates cond against a. A returned error means a capability
// call failed, not that the condition is false; callers decide how to
// degrade (the executor treats it as "not satisfied").
func (e *Evaluator) Evaluate(a actor.Actor, cond script.Condition) (bool, error) {
	switch c := cond.(type) {
	case *script.PermissionCondition:
		if e.permissions == nil {
			return false, ErrNoPermissionChecker
		}
		granted, err := e.permissions.CheckPermission(a, c.Node)
		if err != nil {
			return false, fmt.Errorf("check permission %q: %w", c.Node, err)
		}
		if c.Negated {
			return !granted, nil
		}
		return granted, nil

	case *script.PlaceholderCondition:
		if e.resolver == nil {
			return false, ErrNoPlaceholderResolver
		}
		value, err := e.resolver.ResolvePlaceholder(a, c.Key)
		if err != nil {
			return false, fmt.Errorf("resolve placeholder %q: %w", c.Key, err)
		}
		if c.Comparator == "" {
			return truthy(value), nil
		}
		return compare(value, c.Comparator, c.Value)

	case *script.AnyCondition:
		for _, child := range c.Children {
			ok, err := e.Evaluate(a, child)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil

	case *script.AllCondition:
		for _, child := range c.Children {
			ok, err := e.Evaluate(a, child)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil

	case *script.NotCondition:
		ok, err := e.Evaluate(a, c.Child)
		if err != nil {
			return false, err
		}
		return !ok, nil

	default:
		return false, fmt.Errorf("unsupported condition node %T", cond)
	}
}

// truthy reports whether a comparator-less placeholder value counts as
// satisfied: non-empty and not a literal false/zero.
func truthy(value string) bool {
	value = strings.TrimSpace(value)
	return value != "" && !strings.EqualFold(value, "false") && value != "0"
}

// compare compares a resolved value against the right-hand side. Both sides
// numeric compares numerically; otherwise == and != fall back to string
// equality and ordering comparators fail.
func compare(lhs string, cmp script.Comparator, rhs string) (bool, error) {
	lf, lerr := strconv.ParseFloat(strings.TrimSpace(lhs), 64)
	rf, rerr := strconv.ParseFloat(strings.TrimSpace(rhs), 64)
	if lerr == nil && rerr == nil {
		switch cmp {
		case script.CmpGreater:
			return lf > rf, nil
		case script.CmpGreaterEq:
			return lf >= rf, nil
		case script.CmpLess:
			return lf < rf, nil
		case script.CmpLessEq:
			return lf <= rf, nil
		case script.CmpEqual:
			return lf == rf, nil
		case script.CmpNotEqual:
			return lf != rf, nil
		}
	}

	switch cmp {
	case script.CmpEqual:
		return lhs == rhs, nil
	case script.CmpNotEqual:
		return lhs != rhs, nil
	default:
		return false, fmt.Errorf("comparator %q requires numeric operands (got %q, %q)", cmp, lhs, rhs)
	}
}
