package cohort

import (
	"math"
	"time"
)

// Stay is one ICU admission episode, joined with the patient's date of
// birth. ICUStayID is the unique key for everything derived downstream.
type Stay struct {
	SubjectID int64      `db:"subject_id" json:"subject_id"`
	HadmID    int64      `db:"hadm_id" json:"hadm_id"`
	ICUStayID int64      `db:"icustay_id" json:"icustay_id"`
	Intime    time.Time  `db:"intime" json:"intime"`
	Outtime   *time.Time `db:"outtime" json:"outtime,omitempty"`
	DOB       *time.Time `db:"dob" json:"dob,omitempty"`
}

// VitalsExtremes holds the first-day min/max vital signs for a stay, as
// produced by the upstream vitals aggregation. Every field is nullable:
// a domain with no qualifying observation in the first 24 hours is absent.
type VitalsExtremes struct {
	HeartRateMin *float64 `json:"heartrate_min,omitempty"`
	HeartRateMax *float64 `json:"heartrate_max,omitempty"`
	SysBPMin     *float64 `json:"sysbp_min,omitempty"`
	SysBPMax     *float64 `json:"sysbp_max,omitempty"`
	RespRateMin  *float64 `json:"resprate_min,omitempty"`
	RespRateMax  *float64 `json:"resprate_max,omitempty"`
	TempMin      *float64 `json:"tempc_min,omitempty"`
	TempMax      *float64 `json:"tempc_max,omitempty"`
	GlucoseMin   *float64 `json:"glucose_min,omitempty"`
	GlucoseMax   *float64 `json:"glucose_max,omitempty"`
}

// LabsExtremes holds the first-day min/max laboratory values for a stay.
type LabsExtremes struct {
	BUNMin         *float64 `json:"bun_min,omitempty"`
	BUNMax         *float64 `json:"bun_max,omitempty"`
	HematocritMin  *float64 `json:"hematocrit_min,omitempty"`
	HematocritMax  *float64 `json:"hematocrit_max,omitempty"`
	WBCMin         *float64 `json:"wbc_min,omitempty"`
	WBCMax         *float64 `json:"wbc_max,omitempty"`
	GlucoseMin     *float64 `json:"glucose_min,omitempty"`
	GlucoseMax     *float64 `json:"glucose_max,omitempty"`
	PotassiumMin   *float64 `json:"potassium_min,omitempty"`
	PotassiumMax   *float64 `json:"potassium_max,omitempty"`
	SodiumMin      *float64 `json:"sodium_min,omitempty"`
	SodiumMax      *float64 `json:"sodium_max,omitempty"`
	BicarbonateMin *float64 `json:"bicarbonate_min,omitempty"`
	BicarbonateMax *float64 `json:"bicarbonate_max,omitempty"`
}

// FirstDayRecord is the fully assembled per-stay record: identifiers plus
// every first-day input the scorer consumes. All physiological fields are
// independently nullable; a missing upstream aggregate leaves its fields
// nil rather than dropping the stay.
type FirstDayRecord struct {
	SubjectID int64 `json:"subject_id"`
	HadmID    int64 `json:"hadm_id"`
	ICUStayID int64 `json:"icustay_id"`

	Age *float64 `json:"age,omitempty"`

	HeartRateMin *float64 `json:"heartrate_min,omitempty"`
	HeartRateMax *float64 `json:"heartrate_max,omitempty"`
	SysBPMin     *float64 `json:"sysbp_min,omitempty"`
	SysBPMax     *float64 `json:"sysbp_max,omitempty"`
	RespRateMin  *float64 `json:"resprate_min,omitempty"`
	RespRateMax  *float64 `json:"resprate_max,omitempty"`
	TempMin      *float64 `json:"tempc_min,omitempty"`
	TempMax      *float64 `json:"tempc_max,omitempty"`

	UrineOutput *float64 `json:"urineoutput,omitempty"`
	MechVent    *bool    `json:"mechvent,omitempty"`
	CPAP        *bool    `json:"cpap,omitempty"`

	BUNMin         *float64 `json:"bun_min,omitempty"`
	BUNMax         *float64 `json:"bun_max,omitempty"`
	HematocritMin  *float64 `json:"hematocrit_min,omitempty"`
	HematocritMax  *float64 `json:"hematocrit_max,omitempty"`
	WBCMin         *float64 `json:"wbc_min,omitempty"`
	WBCMax         *float64 `json:"wbc_max,omitempty"`
	GlucoseMin     *float64 `json:"glucose_min,omitempty"`
	GlucoseMax     *float64 `json:"glucose_max,omitempty"`
	PotassiumMin   *float64 `json:"potassium_min,omitempty"`
	PotassiumMax   *float64 `json:"potassium_max,omitempty"`
	SodiumMin      *float64 `json:"sodium_min,omitempty"`
	SodiumMax      *float64 `json:"sodium_max,omitempty"`
	BicarbonateMin *float64 `json:"bicarbonate_min,omitempty"`
	BicarbonateMax *float64 `json:"bicarbonate_max,omitempty"`

	MinGCS *float64 `json:"mingcs,omitempty"`
}

// AgeYears returns the age at ICU admission in years, as the calendar
// difference between intime and date of birth rounded to 2 decimal places.
// Neonates and infants yield small fractional values; no bounding or
// validity filtering happens here.
func AgeYears(intime, dob time.Time) float64 {
	years := intime.Sub(dob).Hours() / (24 * 365.242)
	return math.Round(years*100) / 100
}

// coalesce returns the first non-nil value, applying the source-priority
// rule for multi-source measurements (e.g. vitals-charted glucose wins
// over the lab-derived value).
func coalesce(vals ...*float64) *float64 {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}
