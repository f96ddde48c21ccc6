package cohort

import (
	"context"
	"testing"
	"time"
)

func f(v float64) *float64 { return &v }

// -- Mock Repository --

type mockCohortRepo struct {
	stays  []*Stay
	vitals map[int64]*VitalsExtremes
	labs   map[int64]*LabsExtremes
	urine  map[int64]float64
	vent   map[int64]bool
	gcs    map[int64]float64
	obs    []DeviceObservation
}

func newMockCohortRepo() *mockCohortRepo {
	return &mockCohortRepo{
		vitals: make(map[int64]*VitalsExtremes),
		labs:   make(map[int64]*LabsExtremes),
		urine:  make(map[int64]float64),
		vent:   make(map[int64]bool),
		gcs:    make(map[int64]float64),
	}
}

func (m *mockCohortRepo) filterStays(stayIDs []int64) []*Stay {
	if len(stayIDs) == 0 {
		return m.stays
	}
	want := make(map[int64]bool, len(stayIDs))
	for _, id := range stayIDs {
		want[id] = true
	}
	var out []*Stay
	for _, st := range m.stays {
		if want[st.ICUStayID] {
			out = append(out, st)
		}
	}
	return out
}

func (m *mockCohortRepo) ListStays(_ context.Context, stayIDs ...int64) ([]*Stay, error) {
	return m.filterStays(stayIDs), nil
}

func (m *mockCohortRepo) VitalsExtremes(_ context.Context, _ ...int64) (map[int64]*VitalsExtremes, error) {
	return m.vitals, nil
}

func (m *mockCohortRepo) LabsExtremes(_ context.Context, _ ...int64) (map[int64]*LabsExtremes, error) {
	return m.labs, nil
}

func (m *mockCohortRepo) UrineOutputTotals(_ context.Context, _ ...int64) (map[int64]float64, error) {
	return m.urine, nil
}

func (m *mockCohortRepo) VentilationFlags(_ context.Context, _ ...int64) (map[int64]bool, error) {
	return m.vent, nil
}

func (m *mockCohortRepo) MinGCS(_ context.Context, _ ...int64) (map[int64]float64, error) {
	return m.gcs, nil
}

func (m *mockCohortRepo) DeviceObservations(_ context.Context, _ ...int64) ([]DeviceObservation, error) {
	return m.obs, nil
}

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

// -- Assembly Tests --

func TestAssembleAll_EveryStayProducesOneRecord(t *testing.T) {
	repo := newMockCohortRepo()
	repo.stays = []*Stay{
		{SubjectID: 1, HadmID: 10, ICUStayID: 100, Intime: date(2150, 1, 1)},
		{SubjectID: 2, HadmID: 20, ICUStayID: 200, Intime: date(2150, 2, 1)},
		{SubjectID: 3, HadmID: 30, ICUStayID: 300, Intime: date(2150, 3, 1)},
	}
	// Only stay 200 has any aggregate data.
	repo.vitals[200] = &VitalsExtremes{HeartRateMax: f(90)}

	svc := NewService(repo)
	records, err := svc.AssembleAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	for _, rec := range records {
		if rec.ICUStayID != 200 && rec.HeartRateMax != nil {
			t.Errorf("stay %d has no vitals, expected nil heart rate", rec.ICUStayID)
		}
	}
}

func TestAssembleAll_EmptyDataStayKeepsNilFields(t *testing.T) {
	repo := newMockCohortRepo()
	repo.stays = []*Stay{{SubjectID: 5, HadmID: 50, ICUStayID: 500, Intime: date(2150, 1, 1)}}

	svc := NewService(repo)
	records, err := svc.AssembleAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec := records[0]
	if rec.Age != nil || rec.HeartRateMin != nil || rec.UrineOutput != nil ||
		rec.MechVent != nil || rec.CPAP != nil || rec.MinGCS != nil ||
		rec.GlucoseMax != nil || rec.BicarbonateMin != nil {
		t.Error("a stay with no data must assemble with every optional field nil")
	}
	if rec.SubjectID != 5 || rec.HadmID != 50 || rec.ICUStayID != 500 {
		t.Error("identifiers must always be populated")
	}
}

func TestAssembleAll_GlucosePrefersVitals(t *testing.T) {
	repo := newMockCohortRepo()
	repo.stays = []*Stay{{ICUStayID: 1, Intime: date(2150, 1, 1)}}
	repo.vitals[1] = &VitalsExtremes{GlucoseMax: f(12.0)}
	repo.labs[1] = &LabsExtremes{GlucoseMin: f(4.1), GlucoseMax: f(9.0)}

	svc := NewService(repo)
	records, err := svc.AssembleAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec := records[0]
	// Max comes from vitals, min falls back to labs: merged independently.
	if rec.GlucoseMax == nil || *rec.GlucoseMax != 12.0 {
		t.Errorf("expected vitals-derived glucose max 12.0, got %v", rec.GlucoseMax)
	}
	if rec.GlucoseMin == nil || *rec.GlucoseMin != 4.1 {
		t.Errorf("expected labs-derived glucose min 4.1, got %v", rec.GlucoseMin)
	}
}

func TestAssembleAll_GlucoseLabsFallback(t *testing.T) {
	repo := newMockCohortRepo()
	repo.stays = []*Stay{{ICUStayID: 1, Intime: date(2150, 1, 1)}}
	repo.labs[1] = &LabsExtremes{GlucoseMin: f(3.0), GlucoseMax: f(8.0)}

	svc := NewService(repo)
	records, err := svc.AssembleAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if records[0].GlucoseMax == nil || *records[0].GlucoseMax != 8.0 {
		t.Errorf("expected labs glucose max 8.0, got %v", records[0].GlucoseMax)
	}
}

func TestAssembleAll_CPAPFlagFromObservations(t *testing.T) {
	repo := newMockCohortRepo()
	repo.stays = []*Stay{
		{ICUStayID: 1, Intime: date(2150, 1, 1)},
		{ICUStayID: 2, Intime: date(2150, 1, 1)},
	}
	repo.obs = []DeviceObservation{
		{ICUStayID: 1, ChartTime: date(2150, 1, 1), Value: "CPAP Mask"},
		{ICUStayID: 2, ChartTime: date(2150, 1, 1), Value: "Aerosol-Cool"},
	}

	svc := NewService(repo)
	records, err := svc.AssembleAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if records[0].CPAP == nil || !*records[0].CPAP {
		t.Error("expected stay 1 CPAP flag true")
	}
	if records[1].CPAP != nil {
		t.Error("stay 2 never matched; flag must stay nil, not false")
	}
}

func TestAssembleAll_VentilationExplicitFalse(t *testing.T) {
	repo := newMockCohortRepo()
	repo.stays = []*Stay{{ICUStayID: 1, Intime: date(2150, 1, 1)}}
	repo.vent[1] = false

	svc := NewService(repo)
	records, err := svc.AssembleAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if records[0].MechVent == nil || *records[0].MechVent {
		t.Error("explicit false must survive assembly as false, not nil")
	}
}

func TestAssembleAll_AgeFromDOB(t *testing.T) {
	repo := newMockCohortRepo()
	dob := date(2100, 1, 1)
	repo.stays = []*Stay{{ICUStayID: 1, Intime: date(2150, 1, 1), DOB: &dob}}

	svc := NewService(repo)
	records, err := svc.AssembleAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if records[0].Age == nil {
		t.Fatal("expected age to be computed")
	}
	got := *records[0].Age
	if got < 49.9 || got > 50.1 {
		t.Errorf("expected age near 50, got %v", got)
	}
}

func TestAgeYears_RoundsToTwoDecimals(t *testing.T) {
	dob := date(2100, 1, 1)
	intime := dob.AddDate(0, 6, 0) // half a year
	got := AgeYears(intime, dob)
	if got < 0.49 || got > 0.51 {
		t.Errorf("expected roughly 0.5 years, got %v", got)
	}
	if got*100 != float64(int(got*100)) {
		t.Errorf("expected 2-decimal rounding, got %v", got)
	}
}

func TestAssembleOne(t *testing.T) {
	repo := newMockCohortRepo()
	repo.stays = []*Stay{
		{ICUStayID: 1, Intime: date(2150, 1, 1)},
		{ICUStayID: 2, Intime: date(2150, 1, 2)},
	}
	repo.urine[2] = 1800

	svc := NewService(repo)
	rec, err := svc.AssembleOne(context.Background(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.ICUStayID != 2 {
		t.Errorf("expected stay 2, got %d", rec.ICUStayID)
	}
	if rec.UrineOutput == nil || *rec.UrineOutput != 1800 {
		t.Errorf("expected urine output 1800, got %v", rec.UrineOutput)
	}

	if _, err := svc.AssembleOne(context.Background(), 99); err == nil {
		t.Error("expected error for unknown stay")
	}
}
