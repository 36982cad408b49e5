package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Morpheus61/relishagro-backend/module/core/domain"
	"github.com/Morpheus61/relishagro-backend/module/core/internal/repository/database"
)

var _ database.DispatchRepository = (*DispatchRepo)(nil)

type DispatchRepo struct {
	db *sql.DB
}

func NewDispatchRepo(db *sql.DB) *DispatchRepo {
	return &DispatchRepo{db: db}
}

func (r *DispatchRepo) Create(ctx context.Context, d *domain.Dispatch) error {
	tags, err := json.Marshal(d.RFIDTags)
	if err != nil {
		return fmt.Errorf("marshal rfid tags: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO dispatches (dispatch_id, lot_id, vehicle_number, driver_id, driver_name, sack_count, rfid_tags, trip_status, gps_tracking_active, created_by, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		d.ID, d.LotID, d.VehicleNumber, d.DriverID, d.DriverName, d.SackCount, tags,
		d.TripStatus, d.GPSTrackingActive, d.CreatedBy, d.CreatedAt,
	)
	return err
}

func (r *DispatchRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Dispatch, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT dispatch_id, lot_id, vehicle_number, driver_id, driver_name, sack_count, rfid_tags, trip_status, gps_tracking_active, created_by, created_at
		 FROM dispatches WHERE dispatch_id = $1`,
		id,
	)

	var d domain.Dispatch
	var tags []byte
	err := row.Scan(&d.ID, &d.LotID, &d.VehicleNumber, &d.DriverID, &d.DriverName,
		&d.SackCount, &tags, &d.TripStatus, &d.GPSTrackingActive, &d.CreatedBy, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("dispatch %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &d.RFIDTags); err != nil {
			return nil, fmt.Errorf("unmarshal rfid tags: %w", err)
		}
	}
	return &d, nil
}

func (r *DispatchRepo) TransitionStatus(ctx context.Context, id uuid.UUID, from, to domain.TripStatus, trackingActive bool) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE dispatches SET trip_status = $1, gps_tracking_active = $2 WHERE dispatch_id = $3 AND trip_status = $4`,
		to, trackingActive, id, from,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
