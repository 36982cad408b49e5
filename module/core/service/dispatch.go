package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Morpheus61/relishagro-backend/module/core/domain"
	"github.com/Morpheus61/relishagro-backend/module/core/internal/repository/database"
)

type geofenceChecker interface {
	CheckAndAlert(ctx context.Context, dispatch *domain.Dispatch, glog *domain.GPSLog) (domain.GeofenceStatus, error)
}

type DispatchService struct {
	dispatches database.DispatchRepository
	logs       database.GPSLogRepository
	geofence   geofenceChecker
}

func NewDispatchService(dispatches database.DispatchRepository, logs database.GPSLogRepository, geofence geofenceChecker) *DispatchService {
	return &DispatchService{
		dispatches: dispatches,
		logs:       logs,
		geofence:   geofence,
	}
}

type CreateDispatchInput struct {
	LotID         string
	VehicleNumber string
	DriverID      uuid.UUID
	DriverName    string
	SackCount     int
	RFIDTags      []string
}

func (s *DispatchService) Create(ctx context.Context, in CreateDispatchInput, actor *domain.Person) (*domain.Dispatch, error) {
	if actor.Role != domain.RoleHarvestFlowManager && actor.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("create dispatch: %w", domain.ErrOwnership)
	}

	d := &domain.Dispatch{
		ID:            uuid.New(),
		LotID:         in.LotID,
		VehicleNumber: in.VehicleNumber,
		DriverID:      in.DriverID,
		DriverName:    in.DriverName,
		SackCount:     in.SackCount,
		RFIDTags:      in.RFIDTags,
		TripStatus:    domain.TripPending,
		CreatedBy:     actor.ID,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.dispatches.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("create dispatch: %w", err)
	}
	return d, nil
}

func (s *DispatchService) Get(ctx context.Context, id uuid.UUID) (*domain.Dispatch, error) {
	return s.dispatches.Get(ctx, id)
}

// StartTracking moves a pending dispatch to in_transit and activates GPS
// tracking. Allowed for the assigned driver or a harvestflow manager. The
// transition is a conditional update, so two concurrent callers cannot both
// observe pending and both succeed.
func (s *DispatchService) StartTracking(ctx context.Context, id uuid.UUID, actor *domain.Person) error {
	d, err := s.dispatches.Get(ctx, id)
	if err != nil {
		return err
	}
	if actor.ID != d.DriverID && actor.Role != domain.RoleHarvestFlowManager {
		return fmt.Errorf("start tracking: %w", domain.ErrOwnership)
	}
	if d.TripStatus != domain.TripPending {
		return domain.NewStateError("start tracking", d.TripStatus)
	}

	ok, err := s.dispatches.TransitionStatus(ctx, id, domain.TripPending, domain.TripInTransit, true)
	if err != nil {
		return fmt.Errorf("start tracking: %w", err)
	}
	if !ok {
		// Lost the race to a concurrent transition.
		return domain.NewStateError("start tracking", domain.TripInTransit)
	}
	return nil
}

// LogResult is returned to the caller of a live ping so the device can show
// the geofence classification immediately.
type LogResult struct {
	LoggedAt time.Time
	Geofence domain.GeofenceStatus
}

// LogLocation appends one live position sample and evaluates it against the
// geofence. Only the assigned driver may log, and only while in transit.
func (s *DispatchService) LogLocation(ctx context.Context, id uuid.UUID, lat, lon float64, speed *float64, actor *domain.Person) (*LogResult, error) {
	d, err := s.dispatches.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.ID != d.DriverID {
		return nil, fmt.Errorf("log location: %w", domain.ErrOwnership)
	}
	if d.TripStatus != domain.TripInTransit {
		return nil, domain.NewStateError("log location", d.TripStatus)
	}
	if err := ValidateCoordinate(lat, lon); err != nil {
		return nil, err
	}

	glog := &domain.GPSLog{
		ID:         uuid.New(),
		DispatchID: d.ID,
		Latitude:   lat,
		Longitude:  lon,
		Speed:      speed,
		Timestamp:  time.Now().UTC(),
	}
	if err := s.logs.Append(ctx, glog); err != nil {
		return nil, fmt.Errorf("append gps log: %w", err)
	}

	status, err := s.geofence.CheckAndAlert(ctx, d, glog)
	if err != nil {
		return nil, err
	}

	return &LogResult{LoggedAt: glog.Timestamp, Geofence: status}, nil
}

// Complete marks an in-transit dispatch as delivered and deactivates
// tracking. Terminal: late pings are rejected with a StateError.
func (s *DispatchService) Complete(ctx context.Context, id uuid.UUID, actor *domain.Person) error {
	d, err := s.dispatches.Get(ctx, id)
	if err != nil {
		return err
	}
	if actor.ID != d.DriverID {
		return fmt.Errorf("complete dispatch: %w", domain.ErrOwnership)
	}
	if d.TripStatus != domain.TripInTransit {
		return domain.NewStateError("complete dispatch", d.TripStatus)
	}

	ok, err := s.dispatches.TransitionStatus(ctx, id, domain.TripInTransit, domain.TripDelivered, false)
	if err != nil {
		return fmt.Errorf("complete dispatch: %w", err)
	}
	if !ok {
		return domain.NewStateError("complete dispatch", domain.TripDelivered)
	}
	return nil
}

const trackingHistoryLimit = 100

// TrackingHistory returns the newest samples for a dispatch, manager-class
// roles only. Offline batches may interleave with live pings in insertion
// order; rows are ordered by their own timestamp.
func (s *DispatchService) TrackingHistory(ctx context.Context, id uuid.UUID, actor *domain.Person) ([]domain.GPSLog, error) {
	if !actor.Role.IsManager() {
		return nil, fmt.Errorf("tracking history: %w", domain.ErrOwnership)
	}
	if _, err := s.dispatches.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.logs.History(ctx, id, trackingHistoryLimit)
}
