package cohort

import "context"

// CohortRepository reads the per-stay input feeds the assembler consumes.
// Every feed is keyed by icustay_id and left-joinable: any subset of stays
// may be absent from any feed, meaning "no data" for that domain.
//
// Each fetch accepts an optional list of stay IDs; with no IDs the full
// population is returned.
type CohortRepository interface {
	ListStays(ctx context.Context, stayIDs ...int64) ([]*Stay, error)
	VitalsExtremes(ctx context.Context, stayIDs ...int64) (map[int64]*VitalsExtremes, error)
	LabsExtremes(ctx context.Context, stayIDs ...int64) (map[int64]*LabsExtremes, error)
	UrineOutputTotals(ctx context.Context, stayIDs ...int64) (map[int64]float64, error)
	VentilationFlags(ctx context.Context, stayIDs ...int64) (map[int64]bool, error)
	MinGCS(ctx context.Context, stayIDs ...int64) (map[int64]float64, error)
	DeviceObservations(ctx context.Context, stayIDs ...int64) ([]DeviceObservation, error)
}
