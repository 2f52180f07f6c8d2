// Package parser reads construction-clause statements such as
//
//	A B C = triangle A B C; D = midpoint D B C ? perp A D B C
//
// into model figures.
package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agenthands/figmatch/internal/core/model"
)

// ErrMalformedStatement is wrapped by every parse error.
var ErrMalformedStatement = errors.New("malformed statement")

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedStatement, fmt.Sprintf(format, args...))
}

// Parse turns a statement into a figure. Clauses are separated by ';',
// constructions sharing defined points by ',', and the optional goal follows
// a single '?'. Empty segments are ignored.
func Parse(text string) (*model.Figure, error) {
	fig := &model.Figure{}

	for i, segment := range strings.Split(text, ";") {
		body, goal, hasGoal := strings.Cut(segment, "?")
		if hasGoal {
			if fig.Goal != nil {
				return nil, malformed("segment %d: more than one goal", i+1)
			}
			q, err := parseQuery(goal)
			if err != nil {
				return nil, fmt.Errorf("segment %d: %w", i+1, err)
			}
			fig.Goal = q
		}

		if strings.TrimSpace(body) == "" {
			continue
		}
		if fig.Goal != nil && !hasGoal {
			return nil, malformed("segment %d: clause after goal", i+1)
		}

		clauses, err := parseClauses(body)
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", i+1, err)
		}
		fig.Clauses = append(fig.Clauses, clauses...)
	}

	return fig, nil
}

// MustParse is like Parse but panics on error.
func MustParse(text string) *model.Figure {
	fig, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return fig
}

func parseClauses(text string) ([]model.Clause, error) {
	left, right, ok := strings.Cut(text, "=")
	if !ok {
		return nil, malformed("clause %q has no '='", strings.TrimSpace(text))
	}
	if strings.Contains(right, "=") {
		return nil, malformed("clause %q has more than one '='", strings.TrimSpace(text))
	}

	points := toPoints(strings.Fields(left))
	if len(points) == 0 {
		return nil, malformed("clause %q defines no points", strings.TrimSpace(text))
	}

	groups := strings.Split(right, ",")
	clauses := make([]model.Clause, 0, len(groups))
	for _, group := range groups {
		tokens := strings.Fields(group)
		if len(tokens) == 0 {
			return nil, malformed("clause %q has an empty construction", strings.TrimSpace(text))
		}
		clauses = append(clauses, model.Clause{
			Points: points,
			Name:   tokens[0],
			Args:   toPoints(tokens[1:]),
		})
	}
	return clauses, nil
}

func parseQuery(text string) (*model.Query, error) {
	if strings.Contains(text, "?") {
		return nil, malformed("more than one goal")
	}
	if strings.ContainsAny(text, "=,") {
		return nil, malformed("goal %q must be a single construction", strings.TrimSpace(text))
	}
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return nil, malformed("'?' is not followed by a construction")
	}
	return &model.Query{Name: tokens[0], Args: toPoints(tokens[1:])}, nil
}

func toPoints(tokens []string) []model.Point {
	out := make([]model.Point, len(tokens))
	for i, t := range tokens {
		out[i] = model.Point(t)
	}
	return out
}

// Format renders a figure in the clause language. Consecutive clauses with
// the same defined points are joined with ','.
func Format(fig *model.Figure) string {
	var segments []string
	for i := 0; i < len(fig.Clauses); {
		c := fig.Clauses[i]
		var sb strings.Builder
		sb.WriteString(c.String())
		j := i + 1
		for ; j < len(fig.Clauses) && samePoints(fig.Clauses[j].Points, c.Points); j++ {
			rest := fig.Clauses[j].String()
			sb.WriteString(", ")
			sb.WriteString(rest[strings.Index(rest, "= ")+2:])
		}
		segments = append(segments, sb.String())
		i = j
	}

	out := strings.Join(segments, "; ")
	if fig.Goal != nil {
		if out != "" {
			out += " "
		}
		out += "? " + fig.Goal.String()
	}
	return out
}

func samePoints(a, b []model.Point) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
