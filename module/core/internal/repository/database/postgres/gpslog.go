package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/Morpheus61/relishagro-backend/module/core/domain"
	"github.com/Morpheus61/relishagro-backend/module/core/internal/repository/database"
)

var _ database.GPSLogRepository = (*GPSLogRepo)(nil)

type GPSLogRepo struct {
	db *sql.DB
}

func NewGPSLogRepo(db *sql.DB) *GPSLogRepo {
	return &GPSLogRepo{db: db}
}

func (r *GPSLogRepo) Append(ctx context.Context, log *domain.GPSLog) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO gps_tracking_logs (id, dispatch_id, latitude, longitude, speed, timestamp, is_offline_queued, synced_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		log.ID, log.DispatchID, log.Latitude, log.Longitude, log.Speed,
		log.Timestamp, log.IsOfflineQueued, log.SyncedAt,
	)
	return err
}

func (r *GPSLogRepo) History(ctx context.Context, dispatchID uuid.UUID, limit int) ([]domain.GPSLog, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, dispatch_id, latitude, longitude, speed, timestamp, is_offline_queued, synced_at
		 FROM gps_tracking_logs WHERE dispatch_id = $1 ORDER BY timestamp DESC LIMIT $2`,
		dispatchID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []domain.GPSLog
	for rows.Next() {
		var l domain.GPSLog
		if err := rows.Scan(&l.ID, &l.DispatchID, &l.Latitude, &l.Longitude, &l.Speed,
			&l.Timestamp, &l.IsOfflineQueued, &l.SyncedAt); err != nil {
			return nil, err
		}
		results = append(results, l)
	}
	return results, rows.Err()
}

func (r *GPSLogRepo) SyncBatch(ctx context.Context, logs []*domain.GPSLog) (*domain.SyncResult, error) {
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
			`INSERT INTO gps_tracking_logs (id, dispatch_id, latitude, longitude, speed, timestamp, is_offline_queued, synced_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			 ON CONFLICT (dispatch_id, timestamp) DO NOTHING`,
			log.ID, log.DispatchID, log.Latitude, log.Longitude, log.Speed,
			log.Timestamp, log.IsOfflineQueued, log.SyncedAt,
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
			// Duplicate from a retried upload; neither synced nor failed.
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
