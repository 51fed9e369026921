package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/framewave/directive/internal/actor"
	"github.com/framewave/directive/internal/script"
)

// testActor is a minimal in-memory actor with counted capability calls.
type testActor struct {
	id          string
	available   bool
	permissions map[string]bool
	values      map[string]string

	permCalls    int
	resolveCalls int
}

func newTestActor(id string) *testActor {
	return &testActor{
		id:          id,
		available:   true,
		permissions: make(map[string]bool),
		values:      make(map[string]string),
	}
}

func (a *testActor) ID() string      { return a.id }
func (a *testActor) Available() bool { return a.available }

func (a *testActor) CheckPermission(_ actor.Actor, node string) (bool, error) {
	a.permCalls++
	return a.permissions[node], nil
}

func (a *testActor) ResolvePlaceholder(_ actor.Actor, key string) (string, error) {
	a.resolveCalls++
	v, ok := a.values[key]
	if !ok {
		return "", fmt.Errorf("unknown placeholder %q", key)
	}
	return v, nil
}

func mustCondition(t *testing.T, src string) script.Condition {
	t.Helper()
	cond, err := script.ParseCondition(src)
	if err != nil {
		t.Fatalf("parse condition %q: %v", src, err)
	}
	return cond
}

func TestEvaluatePermission(t *testing.T) {
	a := newTestActor("alice")
	a.permissions["essentials.fly"] = true
	eval := NewEvaluator(a, a)

	cases := []struct {
		src  string
		want bool
	}{
		{"permission essentials.fly", true},
		{"permission essentials.god", false},
		{"perm !essentials.fly", false},
		{"perm !essentials.god", true},
	}
	for _, tc := range cases {
		got, err := eval.Evaluate(a, mustCondition(t, tc.src))
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tc.src, err)
		}
		if got != tc.want {
			t.Errorf("%q = %t, want %t", tc.src, got, tc.want)
		}
	}
}

func TestEvaluatePlaceholderTruthiness(t *testing.T) {
	a := newTestActor("alice")
	eval := NewEvaluator(a, a)

	cases := []struct {
		value string
		want  bool
	}{
		{"yes", true},
		{"true", true},
		{"1", true},
		{"", false},
		{"  ", false},
		{"false", false},
		{"FALSE", false},
		{"0", false},
	}
	for _, tc := range cases {
		a.values["%flag%"] = tc.value
		got, err := eval.Evaluate(a, mustCondition(t, "%flag%"))
		if err != nil {
			t.Fatalf("value %q: unexpected error: %v", tc.value, err)
		}
		if got != tc.want {
			t.Errorf("truthy(%q) = %t, want %t", tc.value, got, tc.want)
		}
	}
}

func TestEvaluatePlaceholderComparison(t *testing.T) {
	a := newTestActor("alice")
	a.values["%player_level%"] = "12"
	a.values["%rank%"] = "gold"
	eval := NewEvaluator(a, a)

	cases := []struct {
		src  string
		want bool
	}{
		{"placeholder %player_level% >= 10", true},
		{"placeholder %player_level% > 12", false},
		{"placeholder %player_level% <= 12", true},
		{"placeholder %player_level% < 12", false},
		{"placeholder %player_level% == 12", true},
		{"placeholder %player_level% == 12.0", true},
		{"placeholder %player_level% != 5", true},
		{"placeholder %rank% == gold", true},
		{"placeholder %rank% != gold", false},
	}
	for _, tc := range cases {
		got, err := eval.Evaluate(a, mustCondition(t, tc.src))
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tc.src, err)
		}
		if got != tc.want {
			t.Errorf("%q = %t, want %t", tc.src, got, tc.want)
		}
	}
}

func TestEvaluateOrderingNeedsNumbers(t *testing.T) {
	a := newTestActor("alice")
	a.values["%rank%"] = "gold"
	eval := NewEvaluator(a, a)

	_, err := eval.Evaluate(a, mustCondition(t, "placeholder %rank% >= silver"))
	if err == nil {
		t.Fatal("expected error for ordering comparison of non-numeric operands")
	}
}

func TestEvaluateCombinators(t *testing.T) {
	a := newTestActor("alice")
	a.permissions["a"] = true
	a.permissions["b"] = false
	eval := NewEvaluator(a, a)

	cases := []struct {
		src  string
		want bool
	}{
		{"any [perm a; perm b]", true},
		{"any [perm b; perm b]", false},
		{"all [perm a; perm a]", true},
		{"all [perm a; perm b]", false},
		{"not perm a", false},
		{"not perm b", true},
		{"not not perm a", true},
		{"any [perm b; all [perm a; not perm b]]", true},
	}
	for _, tc := range cases {
		got, err := eval.Evaluate(a, mustCondition(t, tc.src))
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tc.src, err)
		}
		if got != tc.want {
			t.Errorf("%q = %t, want %t", tc.src, got, tc.want)
		}
	}
}

func TestEvaluateShortCircuit(t *testing.T) {
	a := newTestActor("alice")
	a.permissions["a"] = true
	eval := NewEvaluator(a, a)

	if _, err := eval.Evaluate(a, mustCondition(t, "any [perm a; perm b; perm c]")); err != nil {
		t.Fatal(err)
	}
	if a.permCalls != 1 {
		t.Errorf("any short-circuit made %d permission calls, want 1", a.permCalls)
	}

	a.permCalls = 0
	if _, err := eval.Evaluate(a, mustCondition(t, "all [perm b; perm a; perm c]")); err != nil {
		t.Fatal(err)
	}
	if a.permCalls != 1 {
		t.Errorf("all short-circuit made %d permission calls, want 1", a.permCalls)
	}
}

func TestEvaluateMissingProviders(t *testing.T) {
	a := newTestActor("alice")

	eval := NewEvaluator(nil, a)
	if _, err := eval.Evaluate(a, mustCondition(t, "perm vip")); !errors.Is(err, ErrNoPermissionChecker) {
		t.Errorf("expected ErrNoPermissionChecker, got %v", err)
	}

	eval = NewEvaluator(a, nil)
	if _, err := eval.Evaluate(a, mustCondition(t, "%flag%")); !errors.Is(err, ErrNoPlaceholderResolver) {
		t.Errorf("expected ErrNoPlaceholderResolver, got %v", err)
	}
}

func TestEvaluatePropagatesProviderErrors(t *testing.T) {
	a := newTestActor("alice")
	eval := NewEvaluator(a, a)

	_, err := eval.Evaluate(a, mustCondition(t, "any [%missing%; perm a]"))
	if err == nil {
		t.Fatal("expected resolver error to propagate from combinator child")
	}
}
