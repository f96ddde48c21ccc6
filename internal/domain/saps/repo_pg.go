package saps

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type scoreRepoPG struct{ pool *pgxpool.Pool }

func NewScoreRepoPG(pool *pgxpool.Pool) ScoreRepository {
	return &scoreRepoPG{pool: pool}
}

const scoreCols = `subject_id, hadm_id, icustay_id, saps,
	age_score, hr_score, sysbp_score, resp_score, temp_score,
	uo_score, vent_score, bun_score, hematocrit_score, wbc_score,
	glucose_score, potassium_score, sodium_score, bicarbonate_score, gcs_score`

func scanScore(row pgx.Row) (*SeverityScore, error) {
	var sc SeverityScore
	err := row.Scan(&sc.SubjectID, &sc.HadmID, &sc.ICUStayID, &sc.SAPS,
		&sc.AgeScore, &sc.HRScore, &sc.SysBPScore, &sc.RespScore, &sc.TempScore,
		&sc.UOScore, &sc.VentScore, &sc.BUNScore, &sc.HematocritScore, &sc.WBCScore,
		&sc.GlucoseScore, &sc.PotassiumScore, &sc.SodiumScore, &sc.BicarbonateScore,
		&sc.GCSScore)
	return &sc, err
}

// ReplaceAll truncates the saps table and writes the full score set in a
// single transaction. The insert is batched so a whole-population
// recompute is one round-trip per batch rather than per row.
func (r *scoreRepoPG) ReplaceAll(ctx context.Context, scores []*SeverityScore) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `TRUNCATE saps`); err != nil {
		return fmt.Errorf("truncate saps: %w", err)
	}

	batch := &pgx.Batch{}
	for _, sc := range scores {
		batch.Queue(`
			INSERT INTO saps (`+scoreCols+`)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)`,
			sc.SubjectID, sc.HadmID, sc.ICUStayID, sc.SAPS,
			sc.AgeScore, sc.HRScore, sc.SysBPScore, sc.RespScore, sc.TempScore,
			sc.UOScore, sc.VentScore, sc.BUNScore, sc.HematocritScore, sc.WBCScore,
			sc.GlucoseScore, sc.PotassiumScore, sc.SodiumScore, sc.BicarbonateScore,
			sc.GCSScore)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert scores: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *scoreRepoPG) List(ctx context.Context, limit, offset int) ([]*SeverityScore, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM saps`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+scoreCols+` FROM saps ORDER BY icustay_id LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*SeverityScore
	for rows.Next() {
		sc, err := scanScore(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, sc)
	}
	return items, total, rows.Err()
}

func (r *scoreRepoPG) GetByStay(ctx context.Context, icustayID int64) (*SeverityScore, error) {
	return scanScore(r.pool.QueryRow(ctx,
		`SELECT `+scoreCols+` FROM saps WHERE icustay_id = $1`, icustayID))
}

func (r *scoreRepoPG) Summarize(ctx context.Context) (*Summary, error) {
	var s Summary
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*), AVG(saps), MIN(saps), MAX(saps) FROM saps`).
		Scan(&s.Stays, &s.MeanSAPS, &s.MinSAPS, &s.MaxSAPS)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
