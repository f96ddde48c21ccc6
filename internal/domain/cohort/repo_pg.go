package cohort

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type cohortRepoPG struct{ pool *pgxpool.Pool }

// NewCohortRepoPG returns a CohortRepository backed by the ICU database:
// the stays/patients tables, the upstream first-day aggregate views, and
// the raw chartevents feed for device observations.
func NewCohortRepoPG(pool *pgxpool.Pool) CohortRepository {
	return &cohortRepoPG{pool: pool}
}

// o2DeviceItems are the charted oxygen-delivery-device item IDs (CareVue
// and MetaVision). Which values on these items count as CPAP is decided in
// Go by ExtractCPAPFlags, not here.
const o2DeviceItems = `(467, 469, 226732)`

func (r *cohortRepoPG) ListStays(ctx context.Context, stayIDs ...int64) ([]*Stay, error) {
	query := `
		SELECT ie.subject_id, ie.hadm_id, ie.icustay_id, ie.intime, ie.outtime, pat.dob
		FROM icustays ie
		INNER JOIN patients pat ON ie.subject_id = pat.subject_id`
	var args []interface{}
	if len(stayIDs) > 0 {
		query += ` WHERE ie.icustay_id = ANY($1)`
		args = append(args, stayIDs)
	}
	query += ` ORDER BY ie.icustay_id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var stays []*Stay
	for rows.Next() {
		var st Stay
		if err := rows.Scan(&st.SubjectID, &st.HadmID, &st.ICUStayID,
			&st.Intime, &st.Outtime, &st.DOB); err != nil {
			return nil, err
		}
		stays = append(stays, &st)
	}
	return stays, rows.Err()
}

func (r *cohortRepoPG) VitalsExtremes(ctx context.Context, stayIDs ...int64) (map[int64]*VitalsExtremes, error) {
	query := `
		SELECT icustay_id,
			heartrate_min, heartrate_max, sysbp_min, sysbp_max,
			resprate_min, resprate_max, tempc_min, tempc_max,
			glucose_min, glucose_max
		FROM firstday_vitals`
	var args []interface{}
	if len(stayIDs) > 0 {
		query += ` WHERE icustay_id = ANY($1)`
		args = append(args, stayIDs)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[int64]*VitalsExtremes)
	for rows.Next() {
		var id int64
		var v VitalsExtremes
		if err := rows.Scan(&id,
			&v.HeartRateMin, &v.HeartRateMax, &v.SysBPMin, &v.SysBPMax,
			&v.RespRateMin, &v.RespRateMax, &v.TempMin, &v.TempMax,
			&v.GlucoseMin, &v.GlucoseMax); err != nil {
			return nil, err
		}
		out[id] = &v
	}
	return out, rows.Err()
}

func (r *cohortRepoPG) LabsExtremes(ctx context.Context, stayIDs ...int64) (map[int64]*LabsExtremes, error) {
	query := `
		SELECT icustay_id,
			bun_min, bun_max, hematocrit_min, hematocrit_max,
			wbc_min, wbc_max, glucose_min, glucose_max,
			potassium_min, potassium_max, sodium_min, sodium_max,
			bicarbonate_min, bicarbonate_max
		FROM firstday_labs`
	var args []interface{}
	if len(stayIDs) > 0 {
		query += ` WHERE icustay_id = ANY($1)`
		args = append(args, stayIDs)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[int64]*LabsExtremes)
	for rows.Next() {
		var id int64
		var l LabsExtremes
		if err := rows.Scan(&id,
			&l.BUNMin, &l.BUNMax, &l.HematocritMin, &l.HematocritMax,
			&l.WBCMin, &l.WBCMax, &l.GlucoseMin, &l.GlucoseMax,
			&l.PotassiumMin, &l.PotassiumMax, &l.SodiumMin, &l.SodiumMax,
			&l.BicarbonateMin, &l.BicarbonateMax); err != nil {
			return nil, err
		}
		out[id] = &l
	}
	return out, rows.Err()
}

func (r *cohortRepoPG) UrineOutputTotals(ctx context.Context, stayIDs ...int64) (map[int64]float64, error) {
	query := `SELECT icustay_id, urineoutput FROM firstday_uo WHERE urineoutput IS NOT NULL`
	var args []interface{}
	if len(stayIDs) > 0 {
		query += ` AND icustay_id = ANY($1)`
		args = append(args, stayIDs)
	}
	return r.scanFloatMap(ctx, query, args)
}

func (r *cohortRepoPG) MinGCS(ctx context.Context, stayIDs ...int64) (map[int64]float64, error) {
	query := `SELECT icustay_id, mingcs FROM firstday_gcs WHERE mingcs IS NOT NULL`
	var args []interface{}
	if len(stayIDs) > 0 {
		query += ` AND icustay_id = ANY($1)`
		args = append(args, stayIDs)
	}
	return r.scanFloatMap(ctx, query, args)
}

func (r *cohortRepoPG) scanFloatMap(ctx context.Context, query string, args []interface{}) (map[int64]float64, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[int64]float64)
	for rows.Next() {
		var id int64
		var val float64
		if err := rows.Scan(&id, &val); err != nil {
			return nil, err
		}
		out[id] = val
	}
	return out, rows.Err()
}

func (r *cohortRepoPG) VentilationFlags(ctx context.Context, stayIDs ...int64) (map[int64]bool, error) {
	query := `SELECT icustay_id, mechvent FROM firstday_vent WHERE mechvent IS NOT NULL`
	var args []interface{}
	if len(stayIDs) > 0 {
		query += ` AND icustay_id = ANY($1)`
		args = append(args, stayIDs)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[int64]bool)
	for rows.Next() {
		var id int64
		var flag bool
		if err := rows.Scan(&id, &flag); err != nil {
			return nil, err
		}
		out[id] = flag
	}
	return out, rows.Err()
}

func (r *cohortRepoPG) DeviceObservations(ctx context.Context, stayIDs ...int64) ([]DeviceObservation, error) {
	query := `
		SELECT ce.icustay_id, ce.charttime, ce.value
		FROM chartevents ce
		INNER JOIN icustays ie ON ce.icustay_id = ie.icustay_id
		WHERE ce.itemid IN ` + o2DeviceItems + `
		AND ce.value IS NOT NULL
		AND ce.charttime >= ie.intime
		AND ce.charttime <= ie.intime + INTERVAL '24' HOUR`
	var args []interface{}
	if len(stayIDs) > 0 {
		query += ` AND ce.icustay_id = ANY($1)`
		args = append(args, stayIDs)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var obs []DeviceObservation
	for rows.Next() {
		var o DeviceObservation
		if err := rows.Scan(&o.ICUStayID, &o.ChartTime, &o.Value); err != nil {
			return nil, err
		}
		obs = append(obs, o)
	}
	return obs, rows.Err()
}
