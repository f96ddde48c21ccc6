package cohort

import (
	"context"
	"fmt"
)

// Service assembles the wide per-stay first-day record from the input
// feeds. Assembly is a pure join: every stay in the population yields
// exactly one record, and a feed with no row for a stay leaves the
// corresponding fields nil.
type Service struct {
	repo CohortRepository
}

func NewService(repo CohortRepository) *Service {
	return &Service{repo: repo}
}

// AssembleAll builds the first-day record for every stay in the
// population, ordered by icustay_id.
func (s *Service) AssembleAll(ctx context.Context) ([]*FirstDayRecord, error) {
	return s.assemble(ctx)
}

// AssembleOne builds the first-day record for a single stay.
func (s *Service) AssembleOne(ctx context.Context, icustayID int64) (*FirstDayRecord, error) {
	records, err := s.assemble(ctx, icustayID)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("stay %d not found", icustayID)
	}
	return records[0], nil
}

func (s *Service) assemble(ctx context.Context, stayIDs ...int64) ([]*FirstDayRecord, error) {
	stays, err := s.repo.ListStays(ctx, stayIDs...)
	if err != nil {
		return nil, fmt.Errorf("list stays: %w", err)
	}
	if len(stays) == 0 {
		return nil, nil
	}

	vitals, err := s.repo.VitalsExtremes(ctx, stayIDs...)
	if err != nil {
		return nil, fmt.Errorf("vitals extremes: %w", err)
	}
	labs, err := s.repo.LabsExtremes(ctx, stayIDs...)
	if err != nil {
		return nil, fmt.Errorf("labs extremes: %w", err)
	}
	urine, err := s.repo.UrineOutputTotals(ctx, stayIDs...)
	if err != nil {
		return nil, fmt.Errorf("urine output totals: %w", err)
	}
	vent, err := s.repo.VentilationFlags(ctx, stayIDs...)
	if err != nil {
		return nil, fmt.Errorf("ventilation flags: %w", err)
	}
	gcs, err := s.repo.MinGCS(ctx, stayIDs...)
	if err != nil {
		return nil, fmt.Errorf("min gcs: %w", err)
	}
	obs, err := s.repo.DeviceObservations(ctx, stayIDs...)
	if err != nil {
		return nil, fmt.Errorf("device observations: %w", err)
	}
	cpap := ExtractCPAPFlags(obs)

	records := make([]*FirstDayRecord, 0, len(stays))
	for _, st := range stays {
		rec := &FirstDayRecord{
			SubjectID: st.SubjectID,
			HadmID:    st.HadmID,
			ICUStayID: st.ICUStayID,
		}

		if st.DOB != nil {
			age := AgeYears(st.Intime, *st.DOB)
			rec.Age = &age
		}

		if v := vitals[st.ICUStayID]; v != nil {
			rec.HeartRateMin = v.HeartRateMin
			rec.HeartRateMax = v.HeartRateMax
			rec.SysBPMin = v.SysBPMin
			rec.SysBPMax = v.SysBPMax
			rec.RespRateMin = v.RespRateMin
			rec.RespRateMax = v.RespRateMax
			rec.TempMin = v.TempMin
			rec.TempMax = v.TempMax
		}

		if l := labs[st.ICUStayID]; l != nil {
			rec.BUNMin = l.BUNMin
			rec.BUNMax = l.BUNMax
			rec.HematocritMin = l.HematocritMin
			rec.HematocritMax = l.HematocritMax
			rec.WBCMin = l.WBCMin
			rec.WBCMax = l.WBCMax
			rec.PotassiumMin = l.PotassiumMin
			rec.PotassiumMax = l.PotassiumMax
			rec.SodiumMin = l.SodiumMin
			rec.SodiumMax = l.SodiumMax
			rec.BicarbonateMin = l.BicarbonateMin
			rec.BicarbonateMax = l.BicarbonateMax
		}

		// Glucose is charted in two places. The vitals-derived extreme
		// wins when present; the lab-derived extreme is the fallback.
		// Min and max are merged independently.
		var vGluMin, vGluMax, lGluMin, lGluMax *float64
		if v := vitals[st.ICUStayID]; v != nil {
			vGluMin, vGluMax = v.GlucoseMin, v.GlucoseMax
		}
		if l := labs[st.ICUStayID]; l != nil {
			lGluMin, lGluMax = l.GlucoseMin, l.GlucoseMax
		}
		rec.GlucoseMin = coalesce(vGluMin, lGluMin)
		rec.GlucoseMax = coalesce(vGluMax, lGluMax)

		if uo, ok := urine[st.ICUStayID]; ok {
			u := uo
			rec.UrineOutput = &u
		}
		if mv, ok := vent[st.ICUStayID]; ok {
			m := mv
			rec.MechVent = &m
		}
		if g, ok := gcs[st.ICUStayID]; ok {
			v := g
			rec.MinGCS = &v
		}
		if cpap[st.ICUStayID] {
			t := true
			rec.CPAP = &t
		}

		records = append(records, rec)
	}
	return records, nil
}
