package match

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/figmatch/internal/core/model"
	"github.com/agenthands/figmatch/internal/core/parser"
	"github.com/agenthands/figmatch/internal/core/symmetry"
)

const (
	pentagonA = "A B C D E = pentagon A B C D E; F = eqangle3 F C E B D A; G H I = triangle G H I; " +
		"J = on_tline J C I F, on_tline J B G F; K L = square J E K L; M N = tangent M N H D E ? eqangle D H M N E L J K"
	// A renamed to X, goal's last line written backwards
	pentagonRenamed = "X B C D E = pentagon X B C D E; F = eqangle3 F C E B D X; G H I = triangle G H I; " +
		"J = on_tline J C I F, on_tline J B G F; K L = square J E K L; M N = tangent M N H D E ? eqangle D H M N E L K J"
	// goal's last two points transposed: not an eqangle symmetry
	pentagonBadGoal = "A B C D E = pentagon A B C D E; F = eqangle3 F C E B D A; G H I = triangle G H I; " +
		"J = on_tline J C I F, on_tline J B G F; K L = square J E K L; M N = tangent M N H D E ? eqangle D H M N E K J L"
)

var corpus = []string{
	pentagonA,
	"a b c = triangle a b c; o = circle o a b c; d = midpoint d b c ? perp o d b c",
	"a b c = triangle a b c; h = orthocenter h a b c; m = midpoint m a h, on_circle m a b ? cong m a m h",
	"a b c = triangle a b c; d = on_line d b c; e = on_line e a c; f = on_line f a b ? coll d e f",
	"a b = segment a b; c d = segment c d; e f = segment e f ? para a b c d",
}

func newMatcher() *Matcher {
	return NewMatcher(symmetry.NewStandard(), 0)
}

func find(t *testing.T, a, b string) model.Verdict {
	t.Helper()
	return newMatcher().Find(parser.MustParse(a), parser.MustParse(b))
}

func TestFind_Pentagon(t *testing.T) {
	v := find(t, pentagonA, pentagonRenamed)
	require.Equal(t, model.Equivalent, v.Outcome)

	want := model.Mapping{
		"A": "X", "B": "B", "C": "C", "D": "D", "E": "E", "F": "F", "G": "G",
		"H": "H", "I": "I", "J": "J", "K": "K", "L": "L", "M": "M", "N": "N",
	}
	if diff := cmp.Diff(want, v.Mapping); diff != "" {
		t.Errorf("mapping mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, model.NotEquivalent, find(t, pentagonA, pentagonBadGoal).Outcome)
	assert.Equal(t, model.NotEquivalent, find(t, pentagonBadGoal, pentagonA).Outcome)
}

func TestFind_CircleSymmetry(t *testing.T) {
	a := "a b c = triangle a b c; x = circle x a b c ? coll x a b"
	b := "a b c = triangle a b c; x = circle x c b a ? coll x a b"
	assert.Equal(t, model.Equivalent, find(t, a, b).Outcome)

	// the centre is not interchangeable with points on the circle
	c := "a b c = triangle a b c; x = circle a x b c ? coll x a b"
	assert.Equal(t, model.NotEquivalent, find(t, a, c).Outcome)
}

func TestFind_CountPrechecks(t *testing.T) {
	base := "a b c = triangle a b c; d = midpoint d b c ? coll a b d"

	morePoints := "a b c = triangle a b c; d = midpoint d b e ? coll a b d"
	v := find(t, base, "a b c = triangle a b c; d = midpoint d b c; e = midpoint e a c ? coll a b d")
	assert.Equal(t, model.NotEquivalent, v.Outcome)
	assert.Zero(t, v.Trials)

	v = find(t, base, morePoints)
	assert.Equal(t, model.NotEquivalent, v.Outcome)
	assert.Zero(t, v.Trials)

	noGoal := "a b c = triangle a b c; d = midpoint d b c"
	assert.Equal(t, model.NotEquivalent, find(t, base, noGoal).Outcome)
	assert.Equal(t, model.NotEquivalent, find(t, noGoal, base).Outcome)
}

// A clause repeated up to symmetry must not stand in for a different
// construction count: signatures differ, so the figures differ.
func TestFind_ConstructCountsMustAgree(t *testing.T) {
	a := "a b c = triangle a b c; a b c = triangle b a c; d = circle d a b c ? coll a b d"
	b := "a b c = triangle a b c; d = circle d a b c; d = circle d c b a ? coll a b d"

	figA, figB := parser.MustParse(a), parser.MustParse(b)
	require.NotEqual(t, figA.Signature().Key(), figB.Signature().Key())

	v := find(t, a, b)
	assert.Equal(t, model.NotEquivalent, v.Outcome)
	assert.Zero(t, v.Trials)
	assert.Equal(t, model.NotEquivalent, find(t, b, a).Outcome)
}

// A symmetric construction over nine points seeds without enumerating its
// orderings.
func TestFind_LongSymmetricSeed(t *testing.T) {
	a := "a b c d e f g h i = cyclic a b c d e f g h i ? coll a b c"
	b := "p q r s t u v w x = cyclic x w v u t s r q p ? coll r q p"

	v := find(t, a, b)
	require.Equal(t, model.Equivalent, v.Outcome)
	assert.ElementsMatch(t, []model.Point{"p", "q", "r"}, []model.Point{v.Mapping["a"], v.Mapping["b"], v.Mapping["c"]})
	assert.Less(t, v.Trials, 100)

	// q listed twice, p missing from the arguments
	c := "p q r s t u v w x = cyclic x w v u t s r q q ? coll r q p"
	assert.Equal(t, model.NotEquivalent, find(t, a, c).Outcome)
}

func TestFind_NoUniqueConstructs(t *testing.T) {
	a := "a b = segment a b; c d = segment c d; e f = segment e f ? para a b c d"
	b := "p q = segment p q; r s = segment r s; u v = segment u v ? para v u q p"

	assert.Equal(t, model.Equivalent, find(t, a, b).Outcome)

	// the goal's lines p r and q s are not segments of the figure
	c := "p q = segment p q; r s = segment r s; u v = segment u v ? para p r q s"
	assert.Equal(t, model.NotEquivalent, find(t, a, c).Outcome)
}

func TestFind_Budget(t *testing.T) {
	a := parser.MustParse("a b = segment a b; c d = segment c d; e f = segment e f ? para a b c d")
	b := parser.MustParse("p q = segment p q; r s = segment r s; u v = segment u v ? para v u q p")

	v := NewMatcher(symmetry.NewStandard(), 1).Find(a, b)
	assert.Equal(t, model.Undetermined, v.Outcome)
	assert.Nil(t, v.Mapping)
	assert.Equal(t, 1, v.Trials)
}

func TestFind_Reflexive(t *testing.T) {
	for _, text := range corpus {
		v := find(t, text, text)
		assert.Equal(t, model.Equivalent, v.Outcome, text)
	}
}

func TestFind_Symmetric(t *testing.T) {
	all := append(append([]string{}, corpus...), pentagonRenamed, pentagonBadGoal)
	for _, a := range all {
		for _, b := range all {
			assert.Equal(t, find(t, a, b).Outcome, find(t, b, a).Outcome, "%q vs %q", a, b)
		}
	}
}

func TestFind_RelabelInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, text := range corpus {
		fig := parser.MustParse(text)
		for round := 0; round < 5; round++ {
			sigma := randomRelabel(rng, fig.Points())
			relabeled := fig.Relabel(sigma)

			v := newMatcher().Find(fig, relabeled)
			require.Equal(t, model.Equivalent, v.Outcome, "%s under %v", text, sigma)
			assert.True(t, newMatcher().Checker.Consistent(fig, relabeled, v.Mapping))

			// re-parsing the rendered text gives the same answer
			again := parser.MustParse(parser.Format(relabeled))
			assert.Equal(t, model.Equivalent, newMatcher().Find(again, fig).Outcome)
		}
	}
}

func TestChecker_Consistent(t *testing.T) {
	c := NewChecker(symmetry.NewStandard())
	a := parser.MustParse("a b c = triangle a b c; d = midpoint d b c ? perp a d b c")
	b := parser.MustParse("x y z = triangle z y x; w = midpoint w z y ? perp w x y z")

	m := model.Mapping{"a": "x", "b": "y", "c": "z", "d": "w"}
	assert.True(t, c.Consistent(a, b, m))

	swapped := model.Mapping{"a": "y", "b": "x", "c": "z", "d": "w"}
	assert.False(t, c.Consistent(a, b, swapped))

	noGoal := parser.MustParse("x y z = triangle z y x; w = midpoint w z y")
	assert.False(t, c.Consistent(a, noGoal, m))
}

func TestChecker_ReverseDirection(t *testing.T) {
	c := NewChecker(symmetry.NewStandard())
	// every clause of a maps into b, but b has a clause a never produces
	a := parser.MustParse("a b = segment a b; c = midpoint c a b; d = midpoint d a b")
	b := parser.MustParse("a b = segment a b; c = midpoint c a b; d = on_line d a b")

	m := model.Mapping{"a": "a", "b": "b", "c": "c", "d": "c"}
	assert.False(t, c.Consistent(a, b, m))
}

func TestChecker_PartiallyConsistent(t *testing.T) {
	c := NewChecker(symmetry.NewStandard())
	a := parser.MustParse("a b c = triangle a b c; d = midpoint d b c ? coll a b d")
	b := parser.MustParse("a b c = triangle a b c; d = midpoint d b c ? coll a b d")

	// nothing decided yet
	assert.True(t, c.PartiallyConsistent(a, b, model.Mapping{}))
	assert.True(t, c.PartiallyConsistent(a, b, model.Mapping{"a": "b", "b": "a", "c": "c"}))
	// midpoint d b c would need to become midpoint d a c
	assert.False(t, c.PartiallyConsistent(a, b, model.Mapping{"a": "b", "b": "a", "c": "c", "d": "d"}))
}

func TestChecker_Redundant(t *testing.T) {
	c := NewChecker(symmetry.NewStandard())
	assert.True(t, c.Redundant(parser.MustParse("x a b c = circle x a b c, circle x c b a")))
	assert.False(t, c.Redundant(parser.MustParse(pentagonA)))
}

func randomRelabel(rng *rand.Rand, points []model.Point) model.Mapping {
	targets := make([]model.Point, len(points))
	for i := range points {
		targets[i] = model.Point("P" + string(rune('a'+i)))
	}
	rng.Shuffle(len(targets), func(i, j int) { targets[i], targets[j] = targets[j], targets[i] })
	m := make(model.Mapping, len(points))
	for i, p := range points {
		m[p] = targets[i]
	}
	return m
}
