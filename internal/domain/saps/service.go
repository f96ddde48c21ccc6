package saps

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/ehr/sapscore/internal/domain/cohort"
)

// CohortAssembler supplies the assembled per-stay first-day records.
type CohortAssembler interface {
	AssembleAll(ctx context.Context) ([]*cohort.FirstDayRecord, error)
}

// Service recomputes and serves the severity score set. A recompute is a
// single-pass batch: assemble the full cohort, score every stay, and
// replace the stored set wholesale. Scoring each stay is independent of
// every other, so the scoring step fans out across workers; output order
// is restored before persisting.
type Service struct {
	cohort  CohortAssembler
	scores  ScoreRepository
	workers int
}

func NewService(assembler CohortAssembler, scores ScoreRepository, workers int) *Service {
	return &Service{cohort: assembler, scores: scores, workers: workers}
}

// Recompute scores the full stay population from scratch and replaces the
// stored score set. It returns the number of stays scored. Identical
// inputs always produce identical outputs, so a failed run can simply be
// rerun.
func (s *Service) Recompute(ctx context.Context) (int, error) {
	records, err := s.cohort.AssembleAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("assemble cohort: %w", err)
	}

	scores := s.scoreAll(records)
	sort.Slice(scores, func(i, j int) bool {
		return scores[i].ICUStayID < scores[j].ICUStayID
	})

	if err := s.scores.ReplaceAll(ctx, scores); err != nil {
		return 0, fmt.Errorf("persist scores: %w", err)
	}
	return len(scores), nil
}

func (s *Service) scoreAll(records []*cohort.FirstDayRecord) []*SeverityScore {
	workers := s.workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(records) {
		workers = len(records)
	}
	out := make([]*SeverityScore, len(records))
	if workers <= 1 {
		for i, rec := range records {
			out[i] = Score(rec)
		}
		return out
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				out[i] = Score(records[i])
			}
		}()
	}
	for i := range records {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return out
}

func (s *Service) ListScores(ctx context.Context, limit, offset int) ([]*SeverityScore, int, error) {
	return s.scores.List(ctx, limit, offset)
}

func (s *Service) GetScore(ctx context.Context, icustayID int64) (*SeverityScore, error) {
	return s.scores.GetByStay(ctx, icustayID)
}

func (s *Service) Summarize(ctx context.Context) (*Summary, error) {
	return s.scores.Summarize(ctx)
}
