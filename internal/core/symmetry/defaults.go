package symmetry

import "sync"

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the shared registry of the standard constructions.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewStandard()
	})
	return defaultRegistry
}

// pair relations on two undirected segments a b, c d: each segment may be
// reversed and the segments exchanged.
var segmentPair = []Generator{
	ReversePairs([2]int{0, 1}, [2]int{2, 3}),
	Swap([]int{0, 1}, []int{2, 3}),
}

// NewStandard builds a registry with the standard construction table.
// Argument positions count the defined points where a construction repeats
// them, e.g. "circle x a b c" has x at position 0.
func NewStandard() *Registry {
	r := NewRegistry()

	// x a b c: a and c interchangeable
	r.MustRegister("angle_bisector", Rule{Arity: 4, Generators: []Generator{Swap([]int{1}, []int{3})}})
	r.MustRegister("eqangle2", Rule{Arity: 4, Generators: []Generator{Swap([]int{1}, []int{3})}})

	// x a b c: a b c freely interchangeable
	for _, name := range []string{"circle", "circumcenter", "incenter", "excenter"} {
		r.MustRegister(name, Rule{Arity: 4, Generators: []Generator{Permute(1, 4)}})
	}

	// x y z i a b c: (x y z) and (a b c) rotate together
	for _, name := range []string{"incenter2", "excenter2", "centroid", "ninepoints"} {
		r.MustRegister(name, Rule{Arity: 7, Generators: []Generator{Rotate([]int{0, 1, 2}, []int{4, 5, 6})}})
	}

	// last two positions interchangeable
	r.MustRegister("eq_triangle", Rule{Arity: 3, Generators: []Generator{Swap([]int{1}, []int{2})}})
	r.MustRegister("iso_triangle", Rule{Arity: 3, Generators: []Generator{Swap([]int{1}, []int{2})}})
	r.MustRegister("r_triangle", Rule{Arity: 3, Generators: []Generator{Swap([]int{1}, []int{2})}})
	r.MustRegister("midpoint", Rule{Arity: 3, Generators: []Generator{Swap([]int{1}, []int{2})}})
	r.MustRegister("midp", Rule{Arity: 3, Generators: []Generator{Swap([]int{1}, []int{2})}})
	r.MustRegister("segment", Rule{Arity: 2, Generators: []Generator{Swap([]int{0}, []int{1})}})

	// x a b c: x on the line through a perpendicular to b c
	r.MustRegister("on_tline", Rule{Arity: 4, Generators: []Generator{Swap([]int{2}, []int{3})}})
	// x a b c: |xa| = |bc|
	r.MustRegister("eqdistance", Rule{Arity: 4, Generators: []Generator{Swap([]int{2}, []int{3})}})
	// x y a o b: the two tangent points
	r.MustRegister("tangent", Rule{Arity: 5, Generators: []Generator{Swap([]int{0}, []int{1})}})

	r.MustRegister("triangle", Rule{Arity: 3, Generators: []Generator{Permute(0, 3)}})
	r.MustRegister("ieq_triangle", Rule{Arity: 3, Generators: []Generator{Permute(0, 3)}})

	r.MustRegister("parallelogram", Rule{Arity: 4, Generators: []Generator{Swap([]int{0}, []int{2})}})
	// a b x y ~ b a y x
	r.MustRegister("square", Rule{Arity: 4, Generators: []Generator{Swap([]int{0, 2}, []int{1, 3})}})
	r.MustRegister("rectangle", Rule{Arity: 4, Generators: []Generator{Rotate([]int{0, 1, 2, 3})}})

	r.MustRegister("coll", Rule{Variadic: true, Generators: []Generator{PermuteAll()}})
	r.MustRegister("cyclic", Rule{Variadic: true, Generators: []Generator{PermuteAll()}})

	for _, name := range []string{"perp", "para", "cong"} {
		r.MustRegister(name, Rule{Arity: 4, Generators: segmentPair})
	}

	// a b c d e f g h: angle(ab, cd) = angle(ef, gh). Each line is undirected,
	// the two lines of an angle may be exchanged, and so may the two angles.
	r.MustRegister("eqangle", Rule{Arity: 8, Generators: []Generator{
		ReversePairs([2]int{0, 1}, [2]int{2, 3}, [2]int{4, 5}, [2]int{6, 7}),
		Swap([]int{0, 1}, []int{2, 3}),
		Swap([]int{4, 5}, []int{6, 7}),
		Swap([]int{0, 1, 2, 3}, []int{4, 5, 6, 7}),
	}})

	// a b c d e f g h: ab/cd = ef/gh
	r.MustRegister("eqratio", Rule{Arity: 8, Generators: []Generator{
		ReversePairs([2]int{0, 1}, [2]int{2, 3}, [2]int{4, 5}, [2]int{6, 7}),
		Swap([]int{0, 1, 4, 5}, []int{2, 3, 6, 7}),
		Swap([]int{0, 1, 2, 3}, []int{4, 5, 6, 7}),
	}})

	return r
}
