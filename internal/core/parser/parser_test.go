package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/figmatch/internal/core/model"
)

const pentagon = "A B C D E = pentagon A B C D E; F = eqangle3 F C E B D A; G H I = triangle G H I; " +
	"J = on_tline J C I F, on_tline J B G F; K L = square J E K L; M N = tangent M N H D E ? eqangle D H M N E L J K"

func pts(ss ...string) []model.Point {
	out := make([]model.Point, len(ss))
	for i, s := range ss {
		out[i] = model.Point(s)
	}
	return out
}

func TestParse(t *testing.T) {
	fig, err := Parse(pentagon)
	require.NoError(t, err)

	// on_tline shares J across two constructions, so 7 clauses from 6 segments
	require.Len(t, fig.Clauses, 7)

	assert.Equal(t, model.Clause{Points: pts("A", "B", "C", "D", "E"), Name: "pentagon", Args: pts("A", "B", "C", "D", "E")}, fig.Clauses[0])
	assert.Equal(t, "on_tline", fig.Clauses[3].Name)
	assert.Equal(t, pts("J", "C", "I", "F"), fig.Clauses[3].Args)
	assert.Equal(t, pts("J"), fig.Clauses[4].Points)
	assert.Equal(t, pts("J", "B", "G", "F"), fig.Clauses[4].Args)
	assert.Equal(t, pts("M", "N"), fig.Clauses[6].Points)

	require.NotNil(t, fig.Goal)
	assert.Equal(t, "eqangle", fig.Goal.Name)
	assert.Equal(t, pts("D", "H", "M", "N", "E", "L", "J", "K"), fig.Goal.Args)

	assert.Len(t, fig.Points(), 14)
}

func TestParse_NoGoal(t *testing.T) {
	fig, err := Parse("a b c = triangle a b c; d = midpoint d b c;")
	require.NoError(t, err)
	assert.Len(t, fig.Clauses, 2)
	assert.Nil(t, fig.Goal)
}

func TestParse_GoalWithoutArgs(t *testing.T) {
	fig, err := Parse("a = free a ? done")
	require.NoError(t, err)
	require.NotNil(t, fig.Goal)
	assert.Equal(t, "done", fig.Goal.Name)
	assert.Empty(t, fig.Goal.Args)
}

func TestParse_CaseIsIrrelevant(t *testing.T) {
	fig, err := Parse("P q = SEGMENT P q")
	require.NoError(t, err)
	assert.Equal(t, "SEGMENT", fig.Clauses[0].Name)
	assert.Equal(t, pts("P", "q"), fig.Clauses[0].Args)
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"missing equals", "a b c triangle a b c"},
		{"empty left side", " = triangle a b c"},
		{"empty construction", "a b c = "},
		{"empty comma group", "x = on_line x a b, "},
		{"double equals", "x = on_line x a = b"},
		{"empty goal", "a b c = triangle a b c ?"},
		{"two goals", "a b c = triangle a b c ? coll a b c ? coll a b c"},
		{"two goal segments", "a b = segment a b ? cong a b a b; c = free c ? coll a b c"},
		{"clause after goal", "a b = segment a b ? cong a b a b; c = free c"},
		{"goal with clause syntax", "a b = segment a b ? x = free x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedStatement), "got %v", err)
		})
	}
}

func TestFormat_RoundTrip(t *testing.T) {
	fig := MustParse(pentagon)
	text := Format(fig)
	assert.Equal(t, pentagon, text)

	again, err := Parse(text)
	require.NoError(t, err)
	assert.Equal(t, fig, again)
}

func TestMustParse_Panics(t *testing.T) {
	assert.Panics(t, func() { MustParse("no equals here") })
}
