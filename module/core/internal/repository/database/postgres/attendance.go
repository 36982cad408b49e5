package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Morpheus61/relishagro-backend/module/core/domain"
	"github.com/Morpheus61/relishagro-backend/module/core/internal/repository/database"
)

var _ database.AttendanceRepository = (*AttendanceRepo)(nil)

type AttendanceRepo struct {
	db *sql.DB
}

func NewAttendanceRepo(db *sql.DB) *AttendanceRepo {
	return &AttendanceRepo{db: db}
}

func (r *AttendanceRepo) SyncBatch(ctx context.Context, logs []*domain.AttendanceLog) (*domain.SyncResult, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin sync batch: %w", err)
	}

	result := &domain.SyncResult{}
	for i, log := range logs {
		// A failed statement puts the whole transaction into an aborted
		// state, so each row runs under its own savepoint.
		if _, err := tx.ExecContext(ctx, `SAVEPOINT sync_row`); err != nil {
			_ = tx.Rollback()
			return nil, fmt.Errorf("savepoint sync batch: %w", err)
		}

		res, err := tx.ExecContext(ctx,
			`INSERT INTO attendance_logs (id, person_id, method, timestamp, location, confidence_score, device_id, synced_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			 ON CONFLICT (person_id, timestamp, device_id) DO NOTHING`,
			log.ID, log.PersonID, log.Method, log.Timestamp, log.Location,
			log.ConfidenceScore, log.DeviceID, log.SyncedAt,
		)
		if err != nil {
			if _, rbErr := tx.ExecContext(ctx, `ROLLBACK TO SAVEPOINT sync_row`); rbErr != nil {
				_ = tx.Rollback()
				return nil, fmt.Errorf("rollback to savepoint: %w", rbErr)
			}
			result.FailedCount++
			result.FailedRecords = append(result.FailedRecords, domain.FailedRecord{Index: i, Reason: err.Error()})
			continue
		}

		n, err := res.RowsAffected()
		if err != nil {
			_ = tx.Rollback()
			return nil, err
		}
		if n == 0 {
			// Already synced by an earlier upload; skip silently.
			continue
		}
		result.SyncedCount++
	}

	if err := tx.Commit(); err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("commit sync batch: %w", err)
	}
	return result, nil
}
