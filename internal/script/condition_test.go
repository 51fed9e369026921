package script

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePermission(t *testing.T) {
	cond, err := ParseCondition("permission essentials.fly")
	require.NoError(t, err)

	perm, ok := cond.(*PermissionCondition)
	require.True(t, ok, "expected permission node, got %T", cond)
	require.Equal(t, "essentials.fly", perm.Node)
	require.False(t, perm.Negated)
}

func TestParsePermissionShortFormNegated(t *testing.T) {
	cond, err := ParseCondition("perm !chat.muted")
	require.NoError(t, err)

	perm := cond.(*PermissionCondition)
	require.Equal(t, "chat.muted", perm.Node)
	require.True(t, perm.Negated)
}

func TestParseImplicitPermission(t *testing.T) {
	cond, err := ParseCondition("some.bare.node")
	require.NoError(t, err)

	perm, ok := cond.(*PermissionCondition)
	require.True(t, ok, "expected implicit permission, got %T", cond)
	require.Equal(t, "some.bare.node", perm.Node)
}

func TestParsePlaceholderBare(t *testing.T) {
	cond, err := ParseCondition("%player_world%")
	require.NoError(t, err)

	ph := cond.(*PlaceholderCondition)
	require.Equal(t, "%player_world%", ph.Key)
	require.Empty(t, string(ph.Comparator))
}

func TestParsePlaceholderComparators(t *testing.T) {
	cases := []struct {
		input string
		cmp   Comparator
		key   string
		value string
	}{
		{"placeholder %player_level% >= 10", CmpGreaterEq, "%player_level%", "10"},
		{"papi %player_level%<5", CmpLess, "%player_level%", "5"},
		{"placeholder %rank% == gold", CmpEqual, "%rank%", "gold"},
		{"placeholder %rank%!=gold", CmpNotEqual, "%rank%", "gold"},
		{"%player_health% > 19.5", CmpGreater, "%player_health%", "19.5"},
		{"placeholder %count% <= 3", CmpLessEq, "%count%", "3"},
	}
	for _, tc := range cases {
		cond, err := ParseCondition(tc.input)
		require.NoError(t, err, "input %q", tc.input)

		ph, ok := cond.(*PlaceholderCondition)
		require.True(t, ok, "input %q parsed to %T", tc.input, cond)
		require.Equal(t, tc.key, ph.Key, "input %q", tc.input)
		require.Equal(t, tc.cmp, ph.Comparator, "input %q", tc.input)
		require.Equal(t, tc.value, ph.Value, "input %q", tc.input)
	}
}

func TestParsePlaceholderFirstComparatorWins(t *testing.T) {
	cond, err := ParseCondition("placeholder %motd% == a==b")
	require.NoError(t, err)

	ph := cond.(*PlaceholderCondition)
	require.Equal(t, "%motd%", ph.Key)
	require.Equal(t, CmpEqual, ph.Comparator)
	require.Equal(t, "a==b", ph.Value)
}

func TestParseAnyAll(t *testing.T) {
	cond, err := ParseCondition("any [permission vip; all [perm a; perm b]]")
	require.NoError(t, err)

	anyCond := cond.(*AnyCondition)
	require.Len(t, anyCond.Children, 2)

	allCond, ok := anyCond.Children[1].(*AllCondition)
	require.True(t, ok, "expected nested all, got %T", anyCond.Children[1])
	require.Len(t, allCond.Children, 2)
}

func TestParseCombinatorImplicitChildren(t *testing.T) {
	cond, err := ParseCondition("all [group.admin; !group.banned]")
	require.NoError(t, err)

	allCond := cond.(*AllCondition)
	require.Len(t, allCond.Children, 2)

	first := allCond.Children[0].(*PermissionCondition)
	require.Equal(t, "group.admin", first.Node)

	second := allCond.Children[1].(*PermissionCondition)
	require.Equal(t, "group.banned", second.Node)
	require.True(t, second.Negated)
}

func TestParseEmptyCombinatorFails(t *testing.T) {
	for _, input := range []string{"any []", "all []", "any [ ]"} {
		_, err := ParseCondition(input)
		require.Error(t, err, "input %q", input)
		require.True(t, IsParseError(err))

		var pe *ParseError
		require.ErrorAs(t, err, &pe)
		require.Equal(t, ErrCodeEmptyCombinator, pe.Code, "input %q", input)
	}
}

func TestParseCombinatorSkipsBadChild(t *testing.T) {
	cond, err := ParseCondition("any [perm ok; placeholder %x% ==]")
	require.NoError(t, err)
	require.Len(t, cond.(*AnyCondition).Children, 1)
}

func TestParseMalformedBrackets(t *testing.T) {
	for _, input := range []string{"any [perm a", "all [perm a]]", "any [perm a] trailing", "weird [token]"} {
		_, err := ParseCondition(input)
		require.Error(t, err, "input %q", input)
	}
}

func TestParseNot(t *testing.T) {
	cond, err := ParseCondition("not permission vip")
	require.NoError(t, err)

	not := cond.(*NotCondition)
	perm := not.Child.(*PermissionCondition)
	require.Equal(t, "vip", perm.Node)
}

func TestParseDoubleNot(t *testing.T) {
	cond, err := ParseCondition("not not permission vip")
	require.NoError(t, err)

	outer := cond.(*NotCondition)
	inner := outer.Child.(*NotCondition)
	perm := inner.Child.(*PermissionCondition)
	require.Equal(t, "vip", perm.Node)
}

func TestParseConditionNormalizesFirst(t *testing.T) {
	a, err := ParseCondition("any [ perm a ;   perm b ]")
	require.NoError(t, err)
	b, err := ParseCondition("any [perm a; perm b]")
	require.NoError(t, err)
	require.Equal(t, a.String(), b.String())
}

func TestParseDepthGuard(t *testing.T) {
	src := "permission deep"
	for i := 0; i < maxNestingDepth+2; i++ {
		src = "not " + src
	}
	_, err := ParseCondition(src)
	require.Error(t, err)

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, ErrCodeDepthExceeded, pe.Code)
}

func TestParseEmptyConditionFails(t *testing.T) {
	_, err := ParseCondition("   ")
	require.Error(t, err)
}

func TestCheckConditionSource(t *testing.T) {
	require.NoError(t, CheckConditionSource("any [perm a; %level% > 5]"))

	err := CheckConditionSource("any [")
	require.Error(t, err)

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
}
