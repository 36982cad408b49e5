package domain

import (
	"time"

	"github.com/google/uuid"
)

// Zone is a named circular safe-zone center. All zones share one configured
// radius; a position is inside the geofence if it is within that radius of
// at least one zone.
type Zone struct {
	Name string  `json:"name"`
	Lat  float64 `json:"latitude"`
	Lon  float64 `json:"longitude"`
}

// GeofenceStatus is the classification of one position against the
// configured zones. NearestZone and NearestDistanceKM are diagnostics only;
// when several zones match, no ordering between them is significant.
type GeofenceStatus struct {
	Inside            bool    `json:"inside"`
	NearestZone       string  `json:"nearest_zone"`
	NearestDistanceKM float64 `json:"nearest_distance_km"`
}

const AlertTypeRouteDeviation = "route_deviation"

// GeofenceAlert records a dispatch observed outside all configured zones.
// Alerts are never auto-deleted; acknowledgment is a separate manual action.
type GeofenceAlert struct {
	ID             uuid.UUID  `json:"id"`
	DispatchID     uuid.UUID  `json:"dispatch_id"`
	AlertType      string     `json:"alert_type"`
	Latitude       float64    `json:"latitude"`
	Longitude      float64    `json:"longitude"`
	Message        string     `json:"message"`
	Acknowledged   bool       `json:"acknowledged"`
	AcknowledgedBy *uuid.UUID `json:"acknowledged_by,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// FailureMode controls what happens to the enclosing ping operation when
// alert persistence or notification creation fails.
type FailureMode string

const (
	// FailureBestEffort logs the failure and lets the ping succeed.
	FailureBestEffort FailureMode = "best_effort"
	// FailureStrict fails the whole ping-logging operation.
	FailureStrict FailureMode = "strict"
)
