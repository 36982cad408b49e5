package domain

import (
	"time"

	"github.com/google/uuid"
)

// GPSLog is one position sample for a dispatch. Rows are append-only and
// never mutated after insert. Live pings carry IsOfflineQueued=false;
// offline-synced rows carry IsOfflineQueued=true and a SyncedAt time.
type GPSLog struct {
	ID              uuid.UUID  `json:"id"`
	DispatchID      uuid.UUID  `json:"dispatch_id"`
	Latitude        float64    `json:"latitude"`
	Longitude       float64    `json:"longitude"`
	Speed           *float64   `json:"speed,omitempty"`
	Timestamp       time.Time  `json:"timestamp"`
	IsOfflineQueued bool       `json:"is_offline_queued"`
	SyncedAt        *time.Time `json:"synced_at,omitempty"`
}
