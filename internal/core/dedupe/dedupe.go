// Package dedupe finds equivalent figures in a corpus. Entries are bucketed
// by structural signature and only entries sharing a bucket are compared.
package dedupe

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/agenthands/figmatch/internal/core"
	"github.com/agenthands/figmatch/internal/core/model"
	"github.com/agenthands/figmatch/internal/core/parser"
	"github.com/agenthands/figmatch/internal/logging"
)

// Bucket holds the entries sharing one structural signature, in input order.
type Bucket struct {
	Signature model.Signature `json:"signature"`
	IDs       []string        `json:"ids"`

	figures []*model.Figure
}

// Rejected is an entry whose statement could not be parsed.
type Rejected struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

type Report struct {
	RunID        string       `json:"run_id"`
	Entries      int          `json:"entries"`
	Buckets      int          `json:"buckets"`
	Compared     int          `json:"compared"`
	Duplicates   []model.Pair `json:"duplicates"`
	Undetermined []model.Pair `json:"undetermined,omitempty"`
	Rejected     []Rejected   `json:"rejected,omitempty"`
}

type Deduplicator struct {
	Oracle  *core.Oracle
	Workers int
	Logger  *zap.Logger

	RunIDGenerator func() string
}

func NewDeduplicator(oracle *core.Oracle, workers int, logger *zap.Logger) *Deduplicator {
	if workers < 1 {
		workers = 1
	}
	return &Deduplicator{
		Oracle:  oracle,
		Workers: workers,
		Logger:  logging.OrNop(logger),
		RunIDGenerator: func() string {
			return uuid.New().String()
		},
	}
}

// Group parses every entry and buckets it by signature. Buckets come out in
// the order their first entry appears.
func (d *Deduplicator) Group(entries []model.Entry) ([]Bucket, []Rejected) {
	var buckets []Bucket
	var rejected []Rejected
	index := make(map[string]int)

	for _, e := range entries {
		fig, err := parser.Parse(e.Statement)
		if err != nil {
			d.Logger.Warn("skipping entry", zap.String("id", e.ID), zap.Error(err))
			rejected = append(rejected, Rejected{ID: e.ID, Error: err.Error()})
			continue
		}

		sig := fig.Signature()
		k := sig.Key()
		i, ok := index[k]
		if !ok {
			i = len(buckets)
			index[k] = i
			buckets = append(buckets, Bucket{Signature: sig})
		}
		buckets[i].IDs = append(buckets[i].IDs, e.ID)
		buckets[i].figures = append(buckets[i].figures, fig)
	}

	return buckets, rejected
}

type job struct {
	bucket, i, j int
}

// ResolveDuplicates compares every pair of entries within each bucket on a
// bounded pool of workers. Pairs are reported bucket by bucket, in input
// order within a bucket.
func (d *Deduplicator) ResolveDuplicates(ctx context.Context, entries []model.Entry) (*Report, error) {
	report := &Report{
		RunID:   d.RunIDGenerator(),
		Entries: len(entries),
	}
	logger := d.Logger.With(zap.String("run_id", report.RunID))

	buckets, rejected := d.Group(entries)
	report.Buckets = len(buckets)
	report.Rejected = rejected

	var jobs []job
	for b, bucket := range buckets {
		for i := range bucket.IDs {
			for j := i + 1; j < len(bucket.IDs); j++ {
				jobs = append(jobs, job{bucket: b, i: i, j: j})
			}
		}
	}
	logger.Info("grouped corpus",
		zap.Int("entries", len(entries)),
		zap.Int("buckets", len(buckets)),
		zap.Int("rejected", len(rejected)),
		zap.Int("pairs", len(jobs)),
	)

	verdicts := make([]model.Verdict, len(jobs))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(d.Workers)
	for k, jb := range jobs {
		if egCtx.Err() != nil {
			break
		}
		k, jb := k, jb
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			figs := buckets[jb.bucket].figures
			verdicts[k] = d.Oracle.CompareFigures(figs[jb.i], figs[jb.j])
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("pairwise comparison: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("pairwise comparison: %w", err)
	}

	report.Compared = len(jobs)
	for k, jb := range jobs {
		ids := buckets[jb.bucket].IDs
		pair := model.Pair{A: ids[jb.i], B: ids[jb.j], Mapping: verdicts[k].Mapping}
		switch verdicts[k].Outcome {
		case model.Equivalent:
			report.Duplicates = append(report.Duplicates, pair)
		case model.Undetermined:
			report.Undetermined = append(report.Undetermined, pair)
		}
	}

	logger.Info("resolved duplicates",
		zap.Int("duplicates", len(report.Duplicates)),
		zap.Int("undetermined", len(report.Undetermined)),
	)
	return report, nil
}
