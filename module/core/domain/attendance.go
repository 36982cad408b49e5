package domain

import (
	"time"

	"github.com/google/uuid"
)

// AttendanceLog is one attendance event, either recorded live or merged in
// from a device buffer by the offline sync reconciler.
type AttendanceLog struct {
	ID              uuid.UUID `json:"id"`
	PersonID        uuid.UUID `json:"person_id"`
	Method          string    `json:"method"`
	Timestamp       time.Time `json:"timestamp"`
	Location        string    `json:"location"`
	ConfidenceScore *float64  `json:"confidence_score,omitempty"`
	DeviceID        string    `json:"device_id"`
	SyncedAt        time.Time `json:"synced_at"`
}

// FailedRecord identifies one record of a sync batch that could not be
// merged, by its position in the submitted batch.
type FailedRecord struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// SyncResult is the structured outcome of a batch sync. Duplicates that were
// suppressed count as neither synced nor failed.
type SyncResult struct {
	SyncedCount   int            `json:"synced_count"`
	FailedCount   int            `json:"failed_count"`
	FailedRecords []FailedRecord `json:"failed_records,omitempty"`
}
