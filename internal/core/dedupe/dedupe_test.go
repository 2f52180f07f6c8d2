package dedupe

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/agenthands/figmatch/internal/core"
	"github.com/agenthands/figmatch/internal/core/model"
	"github.com/agenthands/figmatch/internal/core/symmetry"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var entries = []model.Entry{
	{ID: "1", Statement: "a b c = triangle a b c; o = circle o a b c; d = midpoint d b c ? perp o d b c"},
	{ID: "2", Statement: "a b c = triangle a b c; d = midpoint d a b ? coll a b d"},
	{ID: "3", Statement: "p q r = triangle p q r; s = circle s r q p; t = midpoint t r q ? perp t s q r"},
	{ID: "4", Statement: "a b c = triangle a b c; d = midpoint d a b ? coll a c d"},
	{ID: "5", Statement: "x y z = triangle x y z; w = midpoint w z y ? coll y w z"},
	{ID: "6", Statement: "a b c = triangle a b c d = oops"},
	// same signature as 1 and 3, different figure
	{ID: "7", Statement: "a b c = triangle a b c; o = circle o a b c; d = midpoint d a c ? perp o b a c"},
}

func newDeduplicator(workers int) *Deduplicator {
	d := NewDeduplicator(core.NewOracle(symmetry.Default(), 0, nil), workers, nil)
	d.RunIDGenerator = func() string { return "run-1" }
	return d
}

func TestGroup(t *testing.T) {
	d := newDeduplicator(1)
	buckets, rejected := d.Group(entries)

	require.Len(t, rejected, 1)
	assert.Equal(t, "6", rejected[0].ID)
	assert.Contains(t, rejected[0].Error, "malformed statement")

	require.Len(t, buckets, 2)
	assert.Equal(t, []string{"1", "3", "7"}, buckets[0].IDs)
	assert.Equal(t, []string{"2", "4", "5"}, buckets[1].IDs)

	triangle, _ := model.ConstructionID("triangle")
	coll, _ := model.ConstructionID("coll")
	assert.Contains(t, buckets[1].Signature.Premises, triangle)
	assert.Equal(t, coll, buckets[1].Signature.Goal)
}

func TestResolveDuplicates(t *testing.T) {
	for _, workers := range []int{1, 4} {
		d := newDeduplicator(workers)
		report, err := d.ResolveDuplicates(context.Background(), entries)
		require.NoError(t, err)

		assert.Equal(t, "run-1", report.RunID)
		assert.Equal(t, 7, report.Entries)
		assert.Equal(t, 2, report.Buckets)
		assert.Equal(t, 6, report.Compared)
		assert.Empty(t, report.Undetermined)
		require.Len(t, report.Rejected, 1)

		var pairs [][2]string
		for _, p := range report.Duplicates {
			pairs = append(pairs, [2]string{p.A, p.B})
			assert.NotEmpty(t, p.Mapping)
		}
		assert.Equal(t, [][2]string{{"1", "3"}, {"2", "5"}}, pairs, "workers=%d", workers)
	}
}

// Entries in different buckets are never reported, and comparing them
// directly agrees.
func TestResolveDuplicates_DifferentBuckets(t *testing.T) {
	d := newDeduplicator(2)
	a := model.Entry{ID: "a", Statement: "a b c = triangle a b c; d = midpoint d b c ? coll a b d"}
	b := model.Entry{ID: "b", Statement: "a b c = triangle a b c; d = on_line d b c ? coll a b d"}

	report, err := d.ResolveDuplicates(context.Background(), []model.Entry{a, b})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Buckets)
	assert.Zero(t, report.Compared)
	assert.Empty(t, report.Duplicates)

	ok, err := d.Oracle.AreEquivalent(a.Statement, b.Statement)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResolveDuplicates_Undetermined(t *testing.T) {
	d := NewDeduplicator(core.NewOracle(symmetry.Default(), 1, nil), 2, nil)
	report, err := d.ResolveDuplicates(context.Background(), []model.Entry{
		{ID: "x", Statement: "a b = segment a b; c d = segment c d; e f = segment e f ? para a b c d"},
		{ID: "y", Statement: "p q = segment p q; r s = segment r s; u v = segment u v ? para v u q p"},
	})
	require.NoError(t, err)
	assert.Empty(t, report.Duplicates)
	require.Len(t, report.Undetermined, 1)
	assert.Equal(t, "x", report.Undetermined[0].A)
	assert.NotEmpty(t, report.RunID)
}

func TestResolveDuplicates_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newDeduplicator(2).ResolveDuplicates(ctx, entries)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
