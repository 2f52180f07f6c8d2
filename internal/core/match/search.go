// Package match searches for a renaming of points that carries one figure
// onto another, honouring construction symmetries.
package match

import (
	"sort"
	"strings"

	"github.com/agenthands/figmatch/internal/core/model"
	"github.com/agenthands/figmatch/internal/core/symmetry"
)

// Matcher finds point mappings between figures.
type Matcher struct {
	Symmetry *symmetry.Registry
	Checker  *Checker
	// MaxTrials bounds the number of trial assignments a single search may
	// make. Zero means unbounded.
	MaxTrials int
}

func NewMatcher(reg *symmetry.Registry, maxTrials int) *Matcher {
	if reg == nil {
		reg = symmetry.Default()
	}
	return &Matcher{
		Symmetry:  reg,
		Checker:   NewChecker(reg),
		MaxTrials: maxTrials,
	}
}

// Find searches for a total, consistent mapping from a's points onto b's.
// The verdict is Undetermined only when MaxTrials ran out first.
func (mt *Matcher) Find(a, b *model.Figure) model.Verdict {
	if !mt.compatible(a, b) {
		return model.Verdict{Outcome: model.NotEquivalent}
	}

	s := newSearch(mt, a, b)
	m, ok := s.seed(0, assignment{fwd: model.Mapping{}, inv: model.Mapping{}})
	switch {
	case ok:
		return model.Verdict{Outcome: model.Equivalent, Mapping: m, Trials: s.trials}
	case s.exhausted:
		return model.Verdict{Outcome: model.Undetermined, Trials: s.trials}
	default:
		return model.Verdict{Outcome: model.NotEquivalent, Trials: s.trials}
	}
}

// compatible holds the cheap necessary conditions. Equal construction
// counts keep figures with different signatures apart.
func (mt *Matcher) compatible(a, b *model.Figure) bool {
	if len(a.Clauses) != len(b.Clauses) {
		return false
	}
	if len(a.Points()) != len(b.Points()) {
		return false
	}
	if (a.Goal == nil) != (b.Goal == nil) {
		return false
	}
	if a.Goal != nil && (a.Goal.Name != b.Goal.Name || len(a.Goal.Args) != len(b.Goal.Args)) {
		return false
	}
	ca, cb := a.ConstructCounts(), b.ConstructCounts()
	if len(ca) != len(cb) {
		return false
	}
	for name, n := range ca {
		if cb[name] != n {
			return false
		}
	}
	return true
}

// assignment is a partial injective mapping kept in both directions.
// Extending it copies; branches never share state.
type assignment struct {
	fwd, inv model.Mapping
}

func (as assignment) clone() assignment {
	return assignment{fwd: as.fwd.Clone(), inv: as.inv.Clone()}
}

// bind maps p to q in place, failing on a conflict with an earlier binding.
func (as assignment) bind(p, q model.Point) bool {
	if cur, ok := as.fwd[p]; ok {
		return cur == q
	}
	if cur, ok := as.inv[q]; ok {
		return cur == p
	}
	as.fwd[p] = q
	as.inv[q] = p
	return true
}

// unify extends as so that from[i] maps to to[i] for every position.
func (as assignment) unify(from, to []model.Point) (assignment, bool) {
	if len(from) != len(to) {
		return assignment{}, false
	}
	next := as.clone()
	for i := range from {
		if !next.bind(from[i], to[i]) {
			return assignment{}, false
		}
	}
	return next, true
}

// admits reports whether the bindings made so far leave room for some
// reordering of from to unify with to.
func (as assignment) admits(from, to []model.Point) bool {
	if len(from) != len(to) {
		return false
	}
	images := make(map[model.Point]int, len(to))
	for _, q := range to {
		images[q]++
	}
	for _, p := range from {
		if q, ok := as.fwd[p]; ok {
			if images[q] == 0 {
				return false
			}
			images[q]--
		}
	}
	sources := make(map[model.Point]int, len(from))
	for _, p := range from {
		sources[p]++
	}
	for _, q := range to {
		if p, ok := as.inv[q]; ok {
			if sources[p] == 0 {
				return false
			}
			sources[p]--
		}
	}
	return true
}

func (as assignment) key() string {
	var sb strings.Builder
	for _, kv := range as.fwd.Sorted() {
		sb.WriteString(string(kv[0]))
		sb.WriteByte('>')
		sb.WriteString(string(kv[1]))
		sb.WriteByte(' ')
	}
	return sb.String()
}

// seedPair is a construction occurring exactly once in both figures.
type seedPair struct {
	a, b      model.Clause
	orderings int
}

type search struct {
	mt      *Matcher
	a, b    *model.Figure
	seeds   []seedPair
	pointsA []model.Point
	pointsB []model.Point
	occ     map[model.Point]int

	// profiles are only comparable when neither figure repeats a clause;
	// then clauses correspond one to one.
	profileA, profileB map[model.Point]string

	trials    int
	exhausted bool
}

func newSearch(mt *Matcher, a, b *model.Figure) *search {
	s := &search{
		mt:      mt,
		a:       a,
		b:       b,
		pointsA: a.Points(),
		pointsB: b.Points(),
		occ:     a.Occurrences(),
	}

	if !mt.Checker.Redundant(a) && !mt.Checker.Redundant(b) {
		s.profileA, s.profileB = a.Profiles(), b.Profiles()
	}

	ca, cb := a.ConstructCounts(), b.ConstructCounts()
	for _, clA := range a.Clauses {
		if ca[clA.Name] != 1 || cb[clA.Name] != 1 {
			continue
		}
		for _, clB := range b.Clauses {
			if clB.Name == clA.Name {
				s.seeds = append(s.seeds, seedPair{
					a:         clA,
					b:         clB,
					orderings: mt.Symmetry.Count(clA.Name, len(clA.Args)),
				})
				break
			}
		}
	}
	sort.SliceStable(s.seeds, func(i, j int) bool {
		if s.seeds[i].orderings != s.seeds[j].orderings {
			return s.seeds[i].orderings < s.seeds[j].orderings
		}
		return s.seeds[i].a.Name < s.seeds[j].a.Name
	})
	return s
}

// spend accounts for one trial assignment. It reports false once the
// budget is gone.
func (s *search) spend() bool {
	if s.exhausted {
		return false
	}
	if s.mt.MaxTrials > 0 && s.trials >= s.mt.MaxTrials {
		s.exhausted = true
		return false
	}
	s.trials++
	return true
}

// seed unifies the i-th unique construction pair under each admitted
// ordering, then moves on to the next. If no ordering unifies with the
// bindings made so far, this branch is dead.
func (s *search) seed(i int, as assignment) (model.Mapping, bool) {
	if i == len(s.seeds) {
		if !s.mt.Checker.PartiallyConsistent(s.a, s.b, as.fwd) {
			return nil, false
		}
		return s.complete(as)
	}

	sp := s.seeds[i]
	if len(sp.a.Args) != len(sp.b.Args) {
		return nil, false
	}

	// Any reordering is admitted: leave the arguments to completion instead
	// of enumerating n! orderings, as long as earlier bindings fit.
	if s.mt.Symmetry.Symmetric(sp.a.Name, len(sp.a.Args)) {
		if !as.admits(sp.a.Args, sp.b.Args) || !s.spend() {
			return nil, false
		}
		return s.seed(i+1, as)
	}

	tried := make(map[string]bool)
	for _, ordering := range s.mt.Symmetry.Orderings(sp.a.Name, sp.a.Args) {
		next, ok := as.unify(ordering, sp.b.Args)
		if !ok {
			continue
		}
		k := next.key()
		if tried[k] {
			continue
		}
		tried[k] = true

		if !s.spend() {
			return nil, false
		}
		if m, ok := s.seed(i+1, next); ok {
			return m, true
		}
		if s.exhausted {
			return nil, false
		}
	}
	return nil, false
}

// complete maps the remaining points by depth-first search, most
// constrained point first, pruning on partial consistency.
func (s *search) complete(as assignment) (model.Mapping, bool) {
	if len(as.fwd) == len(s.pointsA) {
		if s.mt.Checker.Consistent(s.a, s.b, as.fwd) {
			return as.fwd.Clone(), true
		}
		return nil, false
	}

	p := s.pick(as)
	for _, q := range s.pointsB {
		if _, taken := as.inv[q]; taken {
			continue
		}
		if s.profileA != nil && s.profileA[p] != s.profileB[q] {
			continue
		}
		if !s.spend() {
			return nil, false
		}

		next := as.clone()
		next.bind(p, q)
		if !s.mt.Checker.PartiallyConsistent(s.a, s.b, next.fwd) {
			continue
		}
		if m, ok := s.complete(next); ok {
			return m, true
		}
		if s.exhausted {
			return nil, false
		}
	}
	return nil, false
}

// pick chooses the unmapped point of a with the most occurrences; ties go to
// the smallest name so the search is deterministic.
func (s *search) pick(as assignment) model.Point {
	var best model.Point
	bestOcc := -1
	for _, p := range s.pointsA {
		if _, mapped := as.fwd[p]; mapped {
			continue
		}
		if s.occ[p] > bestOcc {
			best, bestOcc = p, s.occ[p]
		}
	}
	return best
}
