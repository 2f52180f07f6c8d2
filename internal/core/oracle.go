package core

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/agenthands/figmatch/internal/core/match"
	"github.com/agenthands/figmatch/internal/core/model"
	"github.com/agenthands/figmatch/internal/core/parser"
	"github.com/agenthands/figmatch/internal/core/symmetry"
	"github.com/agenthands/figmatch/internal/logging"
)

// Oracle decides whether two statements describe the same figure up to a
// renaming of points.
type Oracle struct {
	Matcher *match.Matcher
	Logger  *zap.Logger
}

func NewOracle(reg *symmetry.Registry, maxTrials int, logger *zap.Logger) *Oracle {
	return &Oracle{
		Matcher: match.NewMatcher(reg, maxTrials),
		Logger:  logging.OrNop(logger),
	}
}

// AreEquivalent parses both statements and reports whether a mapping exists.
// An undetermined search counts as not equivalent.
func (o *Oracle) AreEquivalent(a, b string) (bool, error) {
	v, err := o.Compare(a, b)
	if err != nil {
		return false, err
	}
	return v.Equivalent(), nil
}

// Compare parses both statements and searches for a mapping. Parse errors
// wrap parser.ErrMalformedStatement.
func (o *Oracle) Compare(a, b string) (model.Verdict, error) {
	figA, err := parser.Parse(a)
	if err != nil {
		return model.Verdict{}, fmt.Errorf("first statement: %w", err)
	}
	figB, err := parser.Parse(b)
	if err != nil {
		return model.Verdict{}, fmt.Errorf("second statement: %w", err)
	}
	return o.CompareFigures(figA, figB), nil
}

func (o *Oracle) CompareFigures(a, b *model.Figure) model.Verdict {
	v := o.Matcher.Find(a, b)
	o.Logger.Debug("compared figures",
		zap.Stringer("outcome", v.Outcome),
		zap.Int("trials", v.Trials),
		zap.Int("clauses", len(a.Clauses)),
	)
	if v.Outcome == model.Undetermined {
		o.Logger.Warn("search budget exhausted",
			zap.Int("max_trials", o.Matcher.MaxTrials),
			zap.String("a", parser.Format(a)),
			zap.String("b", parser.Format(b)),
		)
	}
	return v
}
