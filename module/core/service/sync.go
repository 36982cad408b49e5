package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Morpheus61/relishagro-backend/module/core/domain"
	"github.com/Morpheus61/relishagro-backend/module/core/internal/repository/database"
)

// GPSRecord is one device-buffered position sample submitted in an offline
// sync batch.
type GPSRecord struct {
	Latitude  float64
	Longitude float64
	Speed     *float64
	Timestamp time.Time
}

// AttendanceRecord is one device-buffered attendance event. PersonID stays a
// string until validation so a malformed id surfaces as a per-record
// failure, not a batch failure.
type AttendanceRecord struct {
	PersonID        string
	Method          string
	Timestamp       time.Time
	Location        string
	ConfidenceScore *float64
}

// SyncService merges device-buffered records into the log stores once
// connectivity resumes. Both paths share the same duplicate policy: records
// already present by natural key are skipped silently.
type SyncService struct {
	dispatches database.DispatchRepository
	logs       database.GPSLogRepository
	attendance database.AttendanceRepository
}

func NewSyncService(dispatches database.DispatchRepository, logs database.GPSLogRepository, attendance database.AttendanceRepository) *SyncService {
	return &SyncService{
		dispatches: dispatches,
		logs:       logs,
		attendance: attendance,
	}
}

// SyncGPSBatch merges buffered positions for one dispatch, deduplicating on
// (dispatch_id, timestamp) so a retried upload cannot double-count. The
// batch represents past positions, so geofence evaluation is not re-run
// here; alerting is a live-ping concern.
func (s *SyncService) SyncGPSBatch(ctx context.Context, dispatchID uuid.UUID, records []GPSRecord, actor *domain.Person) (*domain.SyncResult, error) {
	d, err := s.dispatches.Get(ctx, dispatchID)
	if err != nil {
		return nil, err
	}
	if actor.ID != d.DriverID {
		return nil, fmt.Errorf("sync gps batch: %w", domain.ErrOwnership)
	}

	now := time.Now().UTC()
	result := &domain.SyncResult{}
	var rows []*domain.GPSLog
	var rowIdx []int

	for i, rec := range records {
		if err := ValidateCoordinate(rec.Latitude, rec.Longitude); err != nil {
			result.FailedCount++
			result.FailedRecords = append(result.FailedRecords, domain.FailedRecord{Index: i, Reason: err.Error()})
			continue
		}
		syncedAt := now
		rows = append(rows, &domain.GPSLog{
			ID:              uuid.New(),
			DispatchID:      dispatchID,
			Latitude:        rec.Latitude,
			Longitude:       rec.Longitude,
			Speed:           rec.Speed,
			Timestamp:       rec.Timestamp,
			IsOfflineQueued: true,
			SyncedAt:        &syncedAt,
		})
		rowIdx = append(rowIdx, i)
	}

	stored, err := s.logs.SyncBatch(ctx, rows)
	if err != nil {
		return nil, err
	}

	result.SyncedCount = stored.SyncedCount
	result.FailedCount += stored.FailedCount
	for _, f := range stored.FailedRecords {
		result.FailedRecords = append(result.FailedRecords, domain.FailedRecord{Index: rowIdx[f.Index], Reason: f.Reason})
	}
	return result, nil
}

const defaultAttendanceLocation = "main_gate"

// SyncAttendanceBatch merges buffered attendance events from one device,
// deduplicating on (person_id, timestamp, device_id). One bad record does
// not abort the batch; the successful subset still commits.
func (s *SyncService) SyncAttendanceBatch(ctx context.Context, deviceID string, records []AttendanceRecord) (*domain.SyncResult, error) {
	now := time.Now().UTC()
	result := &domain.SyncResult{}
	var rows []*domain.AttendanceLog
	var rowIdx []int

	for i, rec := range records {
		personID, err := uuid.Parse(rec.PersonID)
		if err != nil {
			result.FailedCount++
			result.FailedRecords = append(result.FailedRecords, domain.FailedRecord{
				Index:  i,
				Reason: fmt.Sprintf("person_id: %v", err),
			})
			continue
		}
		location := rec.Location
		if location == "" {
			location = defaultAttendanceLocation
		}
		rows = append(rows, &domain.AttendanceLog{
			ID:              uuid.New(),
			PersonID:        personID,
			Method:          rec.Method,
			Timestamp:       rec.Timestamp,
			Location:        location,
			ConfidenceScore: rec.ConfidenceScore,
			DeviceID:        deviceID,
			SyncedAt:        now,
		})
		rowIdx = append(rowIdx, i)
	}

	stored, err := s.attendance.SyncBatch(ctx, rows)
	if err != nil {
		return nil, err
	}

	result.SyncedCount = stored.SyncedCount
	result.FailedCount += stored.FailedCount
	for _, f := range stored.FailedRecords {
		result.FailedRecords = append(result.FailedRecords, domain.FailedRecord{Index: rowIdx[f.Index], Reason: f.Reason})
	}
	return result, nil
}
