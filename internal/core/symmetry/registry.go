// Package symmetry knows which argument reorderings leave a construction
// unchanged. Rules are data: each construction lists generators and the
// admitted orderings are the group those generators span.
package symmetry

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/agenthands/figmatch/internal/core/model"
)

// Rule is the symmetry declaration of one construction. Arity 0 with
// Variadic unset means "any arity, generators permitting".
type Rule struct {
	Arity      int         `json:"arity,omitempty"`
	Variadic   bool        `json:"variadic,omitempty"`
	Generators []Generator `json:"generators"`
}

type cacheKey struct {
	name  string
	arity int
}

// entry is the resolved symmetry of one (name, arity). A full entry admits
// every reordering and keeps no permutation table.
type entry struct {
	perms []perm
	full  bool
}

// Registry maps construction names to rules. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	rules map[string]Rule
	cache map[cacheKey]entry
}

func NewRegistry() *Registry {
	return &Registry{
		rules: make(map[string]Rule),
		cache: make(map[cacheKey]entry),
	}
}

// Register adds or replaces the rule for name. Generators are validated
// against the declared arity when there is one.
func (r *Registry) Register(name string, rule Rule) error {
	if rule.Arity > 0 {
		for _, g := range rule.Generators {
			if _, err := g.perms(rule.Arity); err != nil {
				return fmt.Errorf("rule %s: %w", name, err)
			}
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules[name] = rule
	for k := range r.cache {
		if k.name == name {
			delete(r.cache, k)
		}
	}
	return nil
}

func (r *Registry) MustRegister(name string, rule Rule) {
	if err := r.Register(name, rule); err != nil {
		panic(err)
	}
}

func (r *Registry) Rule(name string) (Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rule, ok := r.rules[name]
	return rule, ok
}

// Names lists the registered constructions in alphabetical order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.rules))
	for n := range r.rules {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// entryFor resolves the admitted index permutations of name at the given
// arity. Unknown names, arity mismatches and invalid generators fall back to
// the identity.
func (r *Registry) entryFor(name string, arity int) entry {
	k := cacheKey{name: name, arity: arity}

	r.mu.RLock()
	e, ok := r.cache[k]
	rule, known := r.rules[name]
	r.mu.RUnlock()
	if ok {
		return e
	}

	e = entry{perms: []perm{identityPerm(arity)}}
	if known && (rule.Variadic || rule.Arity == 0 || rule.Arity == arity) {
		var gens []perm
		valid := true
		for _, g := range rule.Generators {
			gp, err := g.perms(arity)
			if err != nil {
				valid = false
				break
			}
			if g.covers(arity) {
				e.full = true
			}
			gens = append(gens, gp...)
		}
		switch {
		case !valid:
			e.full = false
		case e.full:
			e.perms = nil
		default:
			e.perms = closure(arity, gens)
		}
	}

	r.mu.Lock()
	r.cache[k] = e
	r.mu.Unlock()
	return e
}

// Symmetric reports whether name admits every reordering of arity arguments.
func (r *Registry) Symmetric(name string, arity int) bool {
	return r.entryFor(name, arity).full
}

// Orderings returns every argument ordering denoting the same relation as
// args, the given ordering first. A symmetric construction has n! of them;
// use Equivalent or Symmetric rather than enumerating long argument lists.
func (r *Registry) Orderings(name string, args []model.Point) [][]model.Point {
	e := r.entryFor(name, len(args))
	ps := e.perms
	if e.full {
		ps = permutations(len(args))
	}
	out := make([][]model.Point, len(ps))
	for i, p := range ps {
		o := make([]model.Point, len(args))
		for j, src := range p {
			o[j] = args[src]
		}
		out[i] = o
	}
	return out
}

// Count is the number of orderings admitted for name at the given arity.
// It saturates at math.MaxInt.
func (r *Registry) Count(name string, arity int) int {
	e := r.entryFor(name, arity)
	if !e.full {
		return len(e.perms)
	}
	n := 1
	for i := 2; i <= arity; i++ {
		if n > math.MaxInt/i {
			return math.MaxInt
		}
		n *= i
	}
	return n
}

// Equivalent reports whether a is one of the admitted orderings of b.
func (r *Registry) Equivalent(name string, a, b []model.Point) bool {
	if len(a) != len(b) {
		return false
	}
	e := r.entryFor(name, len(b))
	if e.full {
		return sameMultiset(a, b)
	}
	for _, p := range e.perms {
		match := true
		for i, src := range p {
			if a[i] != b[src] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func sameMultiset(a, b []model.Point) bool {
	sa := append([]model.Point(nil), a...)
	sb := append([]model.Point(nil), b...)
	sort.Slice(sa, func(i, j int) bool { return sa[i] < sa[j] })
	sort.Slice(sb, func(i, j int) bool { return sb[i] < sb[j] })
	for i := range sa {
		if sa[i] != sb[i] {
			return false
		}
	}
	return true
}
