package model

import (
	"fmt"
	"sort"
	"strings"
)

// Constructions lists the known construction names. A name's id is its
// position plus one; ids are part of the structural signature.
var Constructions = []string{
	"angle_bisector", "angle_mirror", "circle", "circumcenter", "eq_quadrangle",
	"eq_trapezoid", "eq_triangle", "eqangle2", "eqdia_quadrangle", "eqdistance",
	"foot", "free", "incenter", "incenter2", "excenter", "excenter2",
	"centroid", "ninepoints", "intersection_cc", "intersection_lc",
	"intersection_ll", "intersection_lp", "intersection_lt", "intersection_pp",
	"intersection_tt", "iso_triangle", "lc_tangent", "midpoint", "mirror",
	"nsquare", "on_aline", "on_aline2", "on_bline", "on_circle", "on_line",
	"on_pline", "on_tline", "orthocenter", "parallelogram", "pentagon",
	"psquare", "quadrangle", "r_trapezoid", "r_triangle", "rectangle", "reflect",
	"risos", "s_angle", "segment", "shift", "square", "isquare", "trapezoid",
	"triangle", "triangle12", "2l1c", "e5128", "3peq", "trisect", "trisegment",
	"on_dia", "ieq_triangle", "on_opline", "cc_tangent0", "cc_tangent",
	"eqangle3", "tangent", "on_circum", "eqangle", "eqratio", "perp", "para", "cong",
	"cyclic", "coll", "midp",
}

var constructionIDs = func() map[string]int {
	ids := make(map[string]int, len(Constructions))
	for i, name := range Constructions {
		ids[name] = i + 1
	}
	return ids
}()

// ConstructionID returns the id of a known construction name.
func ConstructionID(name string) (int, bool) {
	id, ok := constructionIDs[name]
	return id, ok
}

// Signature is a cheap structural fingerprint: two figures with different
// signatures can never be equivalent.
type Signature struct {
	Premises []int `json:"premises"`
	Goal     int   `json:"goal"`
	// Unknown holds construction names outside the id table, sorted; goal
	// names are prefixed with "?".
	Unknown []string `json:"unknown,omitempty"`
}

// Signature computes the structural signature of the figure. A missing goal
// has id 0; an unknown goal has id -1 and is listed in Unknown.
func (f *Figure) Signature() Signature {
	sig := Signature{Premises: make([]int, 0, len(f.Clauses))}
	for _, c := range f.Clauses {
		if id, ok := ConstructionID(c.Name); ok {
			sig.Premises = append(sig.Premises, id)
		} else {
			sig.Unknown = append(sig.Unknown, c.Name)
		}
	}
	if f.Goal != nil {
		if id, ok := ConstructionID(f.Goal.Name); ok {
			sig.Goal = id
		} else {
			sig.Goal = -1
			sig.Unknown = append(sig.Unknown, "?"+f.Goal.Name)
		}
	}
	sort.Ints(sig.Premises)
	sort.Strings(sig.Unknown)
	return sig
}

// Key renders the signature as a map key.
func (s Signature) Key() string {
	var sb strings.Builder
	for i, id := range s.Premises {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "%d", id)
	}
	fmt.Fprintf(&sb, "|%d", s.Goal)
	if len(s.Unknown) > 0 {
		sb.WriteByte('|')
		sb.WriteString(strings.Join(s.Unknown, ","))
	}
	return sb.String()
}
