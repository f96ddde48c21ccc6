package saps

// SeverityScore maps to the saps table: one row per ICU stay with the
// total score and every component sub-score. Sub-scores are nullable --
// nil means the domain had no first-day data (or, for GCS, a value below
// the scale floor), which is distinct from 0 ("measured, normal"). Only
// the total collapses nil to zero.
type SeverityScore struct {
	SubjectID int64 `db:"subject_id" json:"subject_id"`
	HadmID    int64 `db:"hadm_id" json:"hadm_id"`
	ICUStayID int64 `db:"icustay_id" json:"icustay_id"`
	SAPS      int   `db:"saps" json:"saps"`

	AgeScore         *int `db:"age_score" json:"age_score"`
	HRScore          *int `db:"hr_score" json:"hr_score"`
	SysBPScore       *int `db:"sysbp_score" json:"sysbp_score"`
	RespScore        *int `db:"resp_score" json:"resp_score"`
	TempScore        *int `db:"temp_score" json:"temp_score"`
	UOScore          *int `db:"uo_score" json:"uo_score"`
	VentScore        *int `db:"vent_score" json:"vent_score"`
	BUNScore         *int `db:"bun_score" json:"bun_score"`
	HematocritScore  *int `db:"hematocrit_score" json:"hematocrit_score"`
	WBCScore         *int `db:"wbc_score" json:"wbc_score"`
	GlucoseScore     *int `db:"glucose_score" json:"glucose_score"`
	PotassiumScore   *int `db:"potassium_score" json:"potassium_score"`
	SodiumScore      *int `db:"sodium_score" json:"sodium_score"`
	BicarbonateScore *int `db:"bicarbonate_score" json:"bicarbonate_score"`
	GCSScore         *int `db:"gcs_score" json:"gcs_score"`
}

// Summary aggregates the stored totals across the population.
type Summary struct {
	Stays   int      `json:"stays"`
	MeanSAPS *float64 `json:"mean_saps,omitempty"`
	MinSAPS  *int     `json:"min_saps,omitempty"`
	MaxSAPS  *int     `json:"max_saps,omitempty"`
}
