package model

import "sort"

// Mapping renames figure-A points onto figure-B points. During the search it
// is partial; an accepted mapping is total and injective.
type Mapping map[Point]Point

// Apply returns the image of p, or p itself when it is unmapped.
func (m Mapping) Apply(p Point) Point {
	if q, ok := m[p]; ok {
		return q
	}
	return p
}

func (m Mapping) ApplyAll(ps []Point) []Point {
	out := make([]Point, len(ps))
	for i, p := range ps {
		out[i] = m.Apply(p)
	}
	return out
}

// Covers reports whether every point in ps is mapped.
func (m Mapping) Covers(ps ...[]Point) bool {
	for _, group := range ps {
		for _, p := range group {
			if _, ok := m[p]; !ok {
				return false
			}
		}
	}
	return true
}

func (m Mapping) Clone() Mapping {
	out := make(Mapping, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (m Mapping) Inverse() Mapping {
	out := make(Mapping, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

// Sorted lists the mapping as [from, to] pairs ordered by source point.
func (m Mapping) Sorted() [][2]Point {
	out := make([][2]Point, 0, len(m))
	for k, v := range m {
		out = append(out, [2]Point{k, v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}
