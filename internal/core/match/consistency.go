package match

import (
	"sort"

	"github.com/agenthands/figmatch/internal/core/model"
	"github.com/agenthands/figmatch/internal/core/symmetry"
)

// Checker decides whether a point mapping carries one figure onto another.
type Checker struct {
	Symmetry *symmetry.Registry
}

func NewChecker(reg *symmetry.Registry) *Checker {
	if reg == nil {
		reg = symmetry.Default()
	}
	return &Checker{Symmetry: reg}
}

// ClauseMatches reports whether mapped (an already renamed clause of one
// figure) denotes the same construction as target.
func (c *Checker) ClauseMatches(mapped, target model.Clause) bool {
	return mapped.Name == target.Name &&
		samePointSet(mapped.Points, target.Points) &&
		c.Symmetry.Equivalent(target.Name, mapped.Args, target.Args)
}

func (c *Checker) QueryMatches(mapped, target model.Query) bool {
	return mapped.Name == target.Name && c.Symmetry.Equivalent(target.Name, mapped.Args, target.Args)
}

// Consistent applies m to every clause and the goal of a and requires each to
// match something in b, and every clause of b to be matched by some mapped
// clause of a. Unmapped points pass through unchanged.
func (c *Checker) Consistent(a, b *model.Figure, m model.Mapping) bool {
	if (a.Goal == nil) != (b.Goal == nil) {
		return false
	}

	mapped := make([]model.Clause, len(a.Clauses))
	for i, cl := range a.Clauses {
		mapped[i] = cl.Rename(m)
		if !c.anyClause(mapped[i], b.Clauses) {
			return false
		}
	}
	for _, target := range b.Clauses {
		if !c.anyMapped(mapped, target) {
			return false
		}
	}

	if a.Goal != nil {
		return c.QueryMatches(a.Goal.Rename(m), *b.Goal)
	}
	return true
}

// PartiallyConsistent is Consistent restricted to what m already decides:
// clauses of a whose points are all mapped, and clauses of b whose points are
// all in the image of m. It never rejects a mapping that some extension could
// make consistent.
func (c *Checker) PartiallyConsistent(a, b *model.Figure, m model.Mapping) bool {
	inv := m.Inverse()

	var mapped []model.Clause
	for _, cl := range a.Clauses {
		if !m.Covers(cl.Points, cl.Args) {
			continue
		}
		mc := cl.Rename(m)
		if !c.anyClause(mc, b.Clauses) {
			return false
		}
		mapped = append(mapped, mc)
	}
	for _, target := range b.Clauses {
		if !inv.Covers(target.Points, target.Args) {
			continue
		}
		if !c.anyMapped(mapped, target) {
			return false
		}
	}

	if a.Goal != nil && b.Goal != nil {
		aCovered := m.Covers(a.Goal.Args)
		bCovered := inv.Covers(b.Goal.Args)
		if aCovered || bCovered {
			if !aCovered || !bCovered {
				return false
			}
			return c.QueryMatches(a.Goal.Rename(m), *b.Goal)
		}
	}
	return true
}

// Redundant reports whether two clauses of f match each other under the
// identity mapping, i.e. the figure repeats a construction.
func (c *Checker) Redundant(f *model.Figure) bool {
	for i := range f.Clauses {
		for j := i + 1; j < len(f.Clauses); j++ {
			if c.ClauseMatches(f.Clauses[i], f.Clauses[j]) {
				return true
			}
		}
	}
	return false
}

func (c *Checker) anyClause(mapped model.Clause, targets []model.Clause) bool {
	for _, t := range targets {
		if c.ClauseMatches(mapped, t) {
			return true
		}
	}
	return false
}

func (c *Checker) anyMapped(mapped []model.Clause, target model.Clause) bool {
	for _, mc := range mapped {
		if c.ClauseMatches(mc, target) {
			return true
		}
	}
	return false
}

func samePointSet(a, b []model.Point) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]model.Point(nil), a...)
	bs := append([]model.Point(nil), b...)
	sort.Slice(as, func(i, j int) bool { return as[i] < as[j] })
	sort.Slice(bs, func(i, j int) bool { return bs[i] < bs[j] })
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}
