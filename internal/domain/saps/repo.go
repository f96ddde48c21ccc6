package saps

import "context"

// ScoreRepository persists and reads the derived score set. Writes are
// full replacements: each recompute swaps in the complete population in
// one transaction, so readers never see a partial run.
type ScoreRepository interface {
	ReplaceAll(ctx context.Context, scores []*SeverityScore) error
	List(ctx context.Context, limit, offset int) ([]*SeverityScore, int, error)
	GetByStay(ctx context.Context, icustayID int64) (*SeverityScore, error)
	Summarize(ctx context.Context) (*Summary, error)
}
