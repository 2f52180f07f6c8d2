package model

import (
	"sort"
	"strings"
)

// Point is an opaque point token. Equality is token identity within one figure.
type Point string

// Clause is one construction `P1 .. Pn = name a1 .. am`. Comma-grouped
// constructions of a single statement become separate clauses sharing Points.
type Clause struct {
	Points []Point `json:"points"`
	Name   string  `json:"construct"`
	Args   []Point `json:"args"`
}

// Query is the goal of a figure: a construction without defined points.
type Query struct {
	Name string  `json:"construct"`
	Args []Point `json:"args"`
}

// Figure is an ordered list of clauses plus an optional goal.
type Figure struct {
	Clauses []Clause `json:"clauses"`
	Goal    *Query   `json:"goal,omitempty"`
}

// Rename applies m to every point of the clause. Unmapped points pass through.
func (c Clause) Rename(m Mapping) Clause {
	return Clause{
		Points: m.ApplyAll(c.Points),
		Name:   c.Name,
		Args:   m.ApplyAll(c.Args),
	}
}

// Mentions returns every point token of the clause, defined points first.
func (c Clause) Mentions() []Point {
	out := make([]Point, 0, len(c.Points)+len(c.Args))
	out = append(out, c.Points...)
	return append(out, c.Args...)
}

func (c Clause) String() string {
	var sb strings.Builder
	sb.WriteString(joinPoints(c.Points))
	sb.WriteString(" = ")
	sb.WriteString(c.Name)
	if len(c.Args) > 0 {
		sb.WriteByte(' ')
		sb.WriteString(joinPoints(c.Args))
	}
	return sb.String()
}

func (q Query) Rename(m Mapping) Query {
	return Query{Name: q.Name, Args: m.ApplyAll(q.Args)}
}

func (q Query) String() string {
	if len(q.Args) == 0 {
		return q.Name
	}
	return q.Name + " " + joinPoints(q.Args)
}

// Points returns the point universe of the figure, sorted.
func (f *Figure) Points() []Point {
	seen := make(map[Point]struct{})
	for _, c := range f.Clauses {
		for _, p := range c.Mentions() {
			seen[p] = struct{}{}
		}
	}
	if f.Goal != nil {
		for _, p := range f.Goal.Args {
			seen[p] = struct{}{}
		}
	}
	out := make([]Point, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ConstructCounts counts how many premises use each construction name.
func (f *Figure) ConstructCounts() map[string]int {
	counts := make(map[string]int, len(f.Clauses))
	for _, c := range f.Clauses {
		counts[c.Name]++
	}
	return counts
}

// Occurrences counts, for every point, the clauses (and goal) mentioning it.
// A point repeated inside one clause is counted once for that clause.
func (f *Figure) Occurrences() map[Point]int {
	occ := make(map[Point]int)
	visit := func(ps []Point) {
		seen := make(map[Point]bool, len(ps))
		for _, p := range ps {
			if !seen[p] {
				seen[p] = true
				occ[p]++
			}
		}
	}
	for _, c := range f.Clauses {
		visit(c.Mentions())
	}
	if f.Goal != nil {
		visit(f.Goal.Args)
	}
	return occ
}

// Profiles describes each point by the sorted construction names it takes
// part in. The goal contributes "?name".
func (f *Figure) Profiles() map[Point]string {
	names := make(map[Point][]string)
	add := func(ps []Point, name string) {
		seen := make(map[Point]bool, len(ps))
		for _, p := range ps {
			if !seen[p] {
				seen[p] = true
				names[p] = append(names[p], name)
			}
		}
	}
	for _, c := range f.Clauses {
		add(c.Mentions(), c.Name)
	}
	if f.Goal != nil {
		add(f.Goal.Args, "?"+f.Goal.Name)
	}
	out := make(map[Point]string, len(names))
	for p, ns := range names {
		sort.Strings(ns)
		out[p] = strings.Join(ns, ",")
	}
	return out
}

// Relabel returns a copy of the figure with every point renamed through m.
func (f *Figure) Relabel(m Mapping) *Figure {
	out := &Figure{Clauses: make([]Clause, len(f.Clauses))}
	for i, c := range f.Clauses {
		out.Clauses[i] = c.Rename(m)
	}
	if f.Goal != nil {
		g := f.Goal.Rename(m)
		out.Goal = &g
	}
	return out
}

func joinPoints(ps []Point) string {
	ss := make([]string, len(ps))
	for i, p := range ps {
		ss[i] = string(p)
	}
	return strings.Join(ss, " ")
}
