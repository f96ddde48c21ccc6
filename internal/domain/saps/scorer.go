package saps

import "github.com/ehr/sapscore/internal/domain/cohort"

// Score maps one assembled first-day record to its severity score. Each
// component ladder is evaluated most-severe-first and the first matching
// rung wins; a component with no input data stays nil. The total treats
// nil components as 0 but the stored components keep their nil.
func Score(rec *cohort.FirstDayRecord) *SeverityScore {
	sc := &SeverityScore{
		SubjectID: rec.SubjectID,
		HadmID:    rec.HadmID,
		ICUStayID: rec.ICUStayID,

		AgeScore:         scoreAge(rec.Age),
		HRScore:          scoreHeartRate(rec.HeartRateMin, rec.HeartRateMax),
		SysBPScore:       scoreSysBP(rec.SysBPMin, rec.SysBPMax),
		RespScore:        scoreRespRate(rec.RespRateMin, rec.RespRateMax),
		TempScore:        scoreTemperature(rec.TempMin, rec.TempMax),
		UOScore:          scoreUrineOutput(rec.UrineOutput),
		VentScore:        scoreVentilation(rec.MechVent, rec.CPAP),
		BUNScore:         scoreBUN(rec.BUNMin, rec.BUNMax),
		HematocritScore:  scoreHematocrit(rec.HematocritMin, rec.HematocritMax),
		WBCScore:         scoreWBC(rec.WBCMin, rec.WBCMax),
		GlucoseScore:     scoreGlucose(rec.GlucoseMin, rec.GlucoseMax),
		PotassiumScore:   scorePotassium(rec.PotassiumMin, rec.PotassiumMax),
		SodiumScore:      scoreSodium(rec.SodiumMin, rec.SodiumMax),
		BicarbonateScore: scoreBicarbonate(rec.BicarbonateMin, rec.BicarbonateMax),
		GCSScore:         scoreGCS(rec.MinGCS),
	}
	sc.SAPS = sum(
		sc.AgeScore, sc.HRScore, sc.SysBPScore, sc.RespScore, sc.TempScore,
		sc.UOScore, sc.VentScore, sc.BUNScore, sc.HematocritScore,
		sc.WBCScore, sc.GlucoseScore, sc.PotassiumScore, sc.SodiumScore,
		sc.BicarbonateScore, sc.GCSScore,
	)
	return sc
}

// sum adds the component scores, counting a missing component as 0.
func sum(components ...*int) int {
	total := 0
	for _, c := range components {
		if c != nil {
			total += *c
		}
	}
	return total
}

func scoreAge(age *float64) *int {
	if age == nil {
		return nil
	}
	switch {
	case *age <= 45:
		return pts(0)
	case *age <= 55:
		return pts(1)
	case *age <= 65:
		return pts(2)
	case *age <= 75:
		return pts(3)
	default:
		return pts(4)
	}
}

func scoreHeartRate(min, max *float64) *int {
	if max == nil {
		return nil
	}
	switch {
	case ge(max, 180) || lt(min, 40):
		return pts(4)
	case ge(max, 140) || le(min, 54):
		return pts(3)
	case ge(max, 110) || le(min, 69):
		return pts(2)
	default:
		return pts(0)
	}
}

func scoreSysBP(min, max *float64) *int {
	if min == nil {
		return nil
	}
	switch {
	case ge(max, 190) || lt(min, 55):
		return pts(4)
	case ge(max, 150) || le(min, 79):
		return pts(2)
	default:
		return pts(0)
	}
}

func scoreTemperature(min, max *float64) *int {
	if max == nil {
		return nil
	}
	switch {
	case ge(max, 41.0) || lt(min, 30.0):
		return pts(4)
	case ge(max, 39.0) || le(min, 31.9):
		return pts(3)
	case le(min, 33.9):
		return pts(2)
	case gt(max, 38.4) || lt(min, 36.0):
		return pts(1)
	default:
		return pts(0)
	}
}

func scoreRespRate(min, max *float64) *int {
	if min == nil {
		return nil
	}
	switch {
	case ge(max, 50) || lt(min, 6):
		return pts(4)
	case ge(max, 35):
		return pts(3)
	case le(min, 9):
		return pts(2)
	case ge(max, 25) || le(min, 11):
		return pts(1)
	default:
		return pts(0)
	}
}

// scoreVentilation scores any positive-pressure support in the first day.
// An explicit false on either flag still yields 0; only the complete
// absence of both flags is a nil score.
func scoreVentilation(mechVent, cpap *bool) *int {
	if mechVent == nil && cpap == nil {
		return nil
	}
	if cpap != nil && *cpap {
		return pts(3)
	}
	if mechVent != nil && *mechVent {
		return pts(3)
	}
	return pts(0)
}

// scoreUrineOutput is deliberately non-monotonic: both polyuria and
// oliguria score points, with the normal band in the middle. The rung
// order matters and is exactly the published scale's.
func scoreUrineOutput(total *float64) *int {
	if total == nil {
		return nil
	}
	switch {
	case *total > 5000:
		return pts(2)
	case *total >= 3500:
		return pts(1)
	case *total >= 700:
		return pts(0)
	case *total >= 500:
		return pts(2)
	case *total >= 200:
		return pts(3)
	default:
		return pts(4)
	}
}

func scoreBUN(min, max *float64) *int {
	if max == nil {
		return nil
	}
	switch {
	case ge(max, 55):
		return pts(4)
	case ge(max, 36):
		return pts(3)
	case ge(max, 29):
		return pts(2)
	case ge(max, 7.5) || lt(min, 3.5):
		return pts(1)
	default:
		return pts(0)
	}
}

func scoreHematocrit(min, max *float64) *int {
	if max == nil {
		return nil
	}
	switch {
	case ge(max, 60) || lt(min, 20):
		return pts(4)
	case ge(max, 50) || lt(min, 30):
		return pts(2)
	case ge(max, 46):
		return pts(1)
	default:
		return pts(0)
	}
}

func scoreWBC(min, max *float64) *int {
	if max == nil {
		return nil
	}
	switch {
	case ge(max, 40) || lt(min, 1):
		return pts(4)
	case ge(max, 20) || lt(min, 3):
		return pts(2)
	case ge(max, 15):
		return pts(1)
	default:
		return pts(0)
	}
}

func scoreGlucose(min, max *float64) *int {
	if max == nil {
		return nil
	}
	switch {
	case ge(max, 44.5) || lt(min, 1.6):
		return pts(4)
	case ge(max, 27.8) || lt(min, 2.8):
		return pts(3)
	case lt(min, 3.9):
		return pts(2)
	case ge(max, 14.0):
		return pts(1)
	default:
		return pts(0)
	}
}

func scorePotassium(min, max *float64) *int {
	if max == nil {
		return nil
	}
	switch {
	case ge(max, 7.0) || lt(min, 2.5):
		return pts(4)
	case ge(max, 6.0):
		return pts(3)
	case lt(min, 3.0):
		return pts(2)
	case ge(max, 5.5) || lt(min, 3.5):
		return pts(1)
	default:
		return pts(0)
	}
}

func scoreSodium(min, max *float64) *int {
	if max == nil {
		return nil
	}
	switch {
	case ge(max, 180) || lt(min, 110):
		return pts(4)
	case ge(max, 161) || lt(min, 120):
		return pts(3)
	case ge(max, 156) || lt(min, 130):
		return pts(2)
	case ge(max, 151):
		return pts(1)
	default:
		return pts(0)
	}
}

func scoreBicarbonate(min, max *float64) *int {
	if max == nil {
		return nil
	}
	switch {
	case lt(min, 5.0):
		return pts(4)
	case ge(max, 40.0) || lt(min, 10.0):
		return pts(3)
	case ge(max, 30.0) || lt(min, 20.0):
		return pts(1)
	default:
		return pts(0)
	}
}

// scoreGCS treats a charted minimum below 3 as non-evaluable (sedation
// and intubation artifacts chart below the scale floor); that case is
// represented the same as missing data.
func scoreGCS(min *float64) *int {
	if min == nil {
		return nil
	}
	switch {
	case *min < 3:
		return nil
	case *min == 3:
		return pts(4)
	case *min < 7:
		return pts(3)
	case *min < 10:
		return pts(2)
	case *min < 13:
		return pts(1)
	default:
		return pts(0)
	}
}

// Nil-safe comparisons: a missing value never satisfies a rung condition,
// so evaluation falls through exactly as SQL NULL comparisons would.

func ge(v *float64, cut float64) bool { return v != nil && *v >= cut }

func gt(v *float64, cut float64) bool { return v != nil && *v > cut }

func le(v *float64, cut float64) bool { return v != nil && *v <= cut }

func lt(v *float64, cut float64) bool { return v != nil && *v < cut }

func pts(n int) *int { return &n }
