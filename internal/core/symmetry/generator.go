package symmetry

import "fmt"

// Kind tags the shape of a Generator.
type Kind int

const (
	KindIdentity Kind = iota
	KindPermute
	KindSwap
	KindRotate
	KindReversePairs
	KindPermuteAll
)

func (k Kind) String() string {
	switch k {
	case KindIdentity:
		return "identity"
	case KindPermute:
		return "permute"
	case KindSwap:
		return "swap"
	case KindRotate:
		return "rotate"
	case KindReversePairs:
		return "reverse_pairs"
	case KindPermuteAll:
		return "permute_all"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Generator declares one family of argument reorderings. Only the fields
// used by its Kind are set.
type Generator struct {
	Kind Kind `json:"kind"`

	// Permute: positions [From, To) are freely interchangeable.
	From int `json:"from,omitempty"`
	To   int `json:"to,omitempty"`

	// Swap: Left[i] and Right[i] trade places, all at once.
	Left  []int `json:"left,omitempty"`
	Right []int `json:"right,omitempty"`

	// Rotate: every track is rotated by one step, in lockstep.
	Tracks [][]int `json:"tracks,omitempty"`

	// ReversePairs: each pair may be reversed independently.
	Pairs [][2]int `json:"pairs,omitempty"`
}

func Identity() Generator { return Generator{Kind: KindIdentity} }

func Permute(from, to int) Generator { return Generator{Kind: KindPermute, From: from, To: to} }

func Swap(left, right []int) Generator { return Generator{Kind: KindSwap, Left: left, Right: right} }

func Rotate(tracks ...[]int) Generator { return Generator{Kind: KindRotate, Tracks: tracks} }

func ReversePairs(pairs ...[2]int) Generator { return Generator{Kind: KindReversePairs, Pairs: pairs} }

func PermuteAll() Generator { return Generator{Kind: KindPermuteAll} }

// perm is an index permutation: applying p to args yields out[i] = args[p[i]].
type perm []int

func identityPerm(n int) perm {
	p := make(perm, n)
	for i := range p {
		p[i] = i
	}
	return p
}

func transposition(n, i, j int) perm {
	p := identityPerm(n)
	p[i], p[j] = j, i
	return p
}

// perms returns the generating permutations of g for arguments of length n.
// Indices outside [0, n) make the generator invalid.
func (g Generator) perms(n int) ([]perm, error) {
	inRange := func(idx ...int) error {
		for _, i := range idx {
			if i < 0 || i >= n {
				return fmt.Errorf("%s: position %d out of range for %d args", g.Kind, i, n)
			}
		}
		return nil
	}

	switch g.Kind {
	case KindIdentity:
		return nil, nil

	case KindPermute:
		if g.From >= g.To {
			return nil, fmt.Errorf("permute: empty range [%d, %d)", g.From, g.To)
		}
		if err := inRange(g.From, g.To-1); err != nil {
			return nil, err
		}
		var out []perm
		for i := g.From; i+1 < g.To; i++ {
			out = append(out, transposition(n, i, i+1))
		}
		return out, nil

	case KindPermuteAll:
		var out []perm
		for i := 0; i+1 < n; i++ {
			out = append(out, transposition(n, i, i+1))
		}
		return out, nil

	case KindSwap:
		if len(g.Left) != len(g.Right) || len(g.Left) == 0 {
			return nil, fmt.Errorf("swap: groups of size %d and %d", len(g.Left), len(g.Right))
		}
		if err := inRange(append(append([]int{}, g.Left...), g.Right...)...); err != nil {
			return nil, err
		}
		p := identityPerm(n)
		for i := range g.Left {
			l, r := g.Left[i], g.Right[i]
			p[l], p[r] = r, l
		}
		return []perm{p}, nil

	case KindRotate:
		p := identityPerm(n)
		for _, track := range g.Tracks {
			if err := inRange(track...); err != nil {
				return nil, err
			}
			for k := range track {
				p[track[k]] = track[(k+1)%len(track)]
			}
		}
		return []perm{p}, nil

	case KindReversePairs:
		var out []perm
		for _, pair := range g.Pairs {
			if err := inRange(pair[0], pair[1]); err != nil {
				return nil, err
			}
			out = append(out, transposition(n, pair[0], pair[1]))
		}
		return out, nil
	}

	return nil, fmt.Errorf("unknown generator kind %d", int(g.Kind))
}

// covers reports whether g alone admits every reordering of n arguments.
func (g Generator) covers(n int) bool {
	switch g.Kind {
	case KindPermuteAll:
		return true
	case KindPermute:
		return g.From == 0 && g.To == n
	}
	return false
}

// closure enumerates the group generated by gens, identity first, in
// breadth-first order so that "closer" orderings come earlier.
func closure(n int, gens []perm) []perm {
	id := identityPerm(n)
	out := []perm{id}
	seen := map[string]bool{key(id): true}
	for i := 0; i < len(out); i++ {
		for _, g := range gens {
			next := make(perm, n)
			for j := range next {
				next[j] = out[i][g[j]]
			}
			k := key(next)
			if !seen[k] {
				seen[k] = true
				out = append(out, next)
			}
		}
	}
	return out
}

// permutations lists all n! permutations in lexicographic order, identity
// first.
func permutations(n int) []perm {
	p := identityPerm(n)
	out := []perm{append(perm(nil), p...)}
	for {
		i := n - 2
		for i >= 0 && p[i] >= p[i+1] {
			i--
		}
		if i < 0 {
			return out
		}
		j := n - 1
		for p[j] <= p[i] {
			j--
		}
		p[i], p[j] = p[j], p[i]
		for l, r := i+1, n-1; l < r; l, r = l+1, r-1 {
			p[l], p[r] = p[r], p[l]
		}
		out = append(out, append(perm(nil), p...))
	}
}

func key(p perm) string {
	b := make([]byte, 0, 2*len(p))
	for _, v := range p {
		b = append(b, byte(v>>8), byte(v))
	}
	return string(b)
}
