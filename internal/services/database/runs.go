package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"palms-analytics/internal/models"
)

// RunRecord summarizes one analysis run for storage.
type RunRecord struct {
	RunID     string
	Members   int
	Referrals int
	Meetings  int
	ThankYous int
	Warnings  int
	CreatedAt time.Time
}

// RunRepository stores analysis run summaries and TYFCB slips.
type RunRepository struct {
	db *DB
}

// NewRunRepository creates a new run repository.
func NewRunRepository(db *DB) *RunRepository {
	return &RunRepository{db: db}
}

// SaveRun inserts a run summary.
func (r *RunRepository) SaveRun(ctx context.Context, record *RunRecord) error {
	query := `
		INSERT INTO analysis_runs (run_id, members, referrals, one_to_ones, tyfcbs, warnings, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.pool.Exec(ctx, query,
		record.RunID,
		record.Members,
		record.Referrals,
		record.Meetings,
		record.ThankYous,
		record.Warnings,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save run %s: %w", record.RunID, err)
	}

	return nil
}

// SaveThankYous bulk-inserts the TYFCB slips recorded by a run.
func (r *RunRepository) SaveThankYous(ctx context.Context, runID string, thankYous []*models.ThankYou) error {
	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		for _, ty := range thankYous {
			giver := ""
			if ty.Giver != nil {
				giver = ty.Giver.FullName()
			}

			_, err := tx.Exec(ctx, `
				INSERT INTO tyfcb_slips (run_id, receiver_name, giver_name, amount, within_org, description, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				runID,
				ty.Receiver.FullName(),
				giver,
				ty.Amount,
				ty.WithinOrg,
				ty.Description,
				time.Now().UTC(),
			)
			if err != nil {
				return fmt.Errorf("failed to save TYFCB slip for %s: %w", ty.Receiver.FullName(), err)
			}
		}
		return nil
	})
}

// ListRuns returns the most recent run summaries, newest first.
func (r *RunRepository) ListRuns(ctx context.Context, limit int) ([]*RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT run_id, members, referrals, one_to_ones, tyfcbs, warnings, created_at
		FROM analysis_runs
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.db.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var records []*RunRecord
	for rows.Next() {
		record := &RunRecord{}
		if err := rows.Scan(
			&record.RunID,
			&record.Members,
			&record.Referrals,
			&record.Meetings,
			&record.ThankYous,
			&record.Warnings,
			&record.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}
