package postgres

import (
	"context"
	"database/sql"

	"github.com/Morpheus61/relishagro-backend/module/core/domain"
	"github.com/Morpheus61/relishagro-backend/module/core/internal/repository/database"
)

var _ database.AlertRepository = (*AlertRepo)(nil)

type AlertRepo struct {
	db *sql.DB
}

func NewAlertRepo(db *sql.DB) *AlertRepo {
	return &AlertRepo{db: db}
}

func (r *AlertRepo) Append(ctx context.Context, alert *domain.GeofenceAlert) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO geofence_alerts (id, dispatch_id, alert_type, latitude, longitude, message, acknowledged, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		alert.ID, alert.DispatchID, alert.AlertType, alert.Latitude, alert.Longitude,
		alert.Message, alert.Acknowledged, alert.CreatedAt,
	)
	return err
}
