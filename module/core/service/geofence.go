package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/Morpheus61/relishagro-backend/module/core/domain"
	"github.com/Morpheus61/relishagro-backend/module/core/internal/repository/database"
	"github.com/Morpheus61/relishagro-backend/module/core/internal/repository/publisher"
)

type geofenceNotifier interface {
	NotifyGeofenceAlert(ctx context.Context, driverName, alertType string) error
}

type GeofenceService struct {
	zones       []domain.Zone
	radiusKM    float64
	alerts      database.AlertRepository
	notifier    geofenceNotifier
	publisher   publisher.AlertPublisher
	failureMode domain.FailureMode
}

func NewGeofenceService(zones []domain.Zone, radiusKM float64, alerts database.AlertRepository, notifier geofenceNotifier, pub publisher.AlertPublisher, failureMode domain.FailureMode) *GeofenceService {
	return &GeofenceService{
		zones:       zones,
		radiusKM:    radiusKM,
		alerts:      alerts,
		notifier:    notifier,
		publisher:   pub,
		failureMode: failureMode,
	}
}

// Evaluate classifies a position against the configured zones. The position
// is inside if it is within the shared radius of at least one zone.
func (s *GeofenceService) Evaluate(lat, lon float64) domain.GeofenceStatus {
	status := domain.GeofenceStatus{}
	for i, zone := range s.zones {
		dist := DistanceKM(lat, lon, zone.Lat, zone.Lon)
		if i == 0 || dist < status.NearestDistanceKM {
			status.NearestZone = zone.Name
			status.NearestDistanceKM = dist
		}
		if dist <= s.radiusKM {
			status.Inside = true
		}
	}
	return status
}

// CheckAndAlert evaluates one GPS log against the geofence. An outside
// position creates exactly one alert row, notifies manager-class roles and
// publishes the alert for ops consumers. Alert/notification failures follow
// the configured failure mode; the broker publish is always best-effort.
func (s *GeofenceService) CheckAndAlert(ctx context.Context, dispatch *domain.Dispatch, glog *domain.GPSLog) (domain.GeofenceStatus, error) {
	status := s.Evaluate(glog.Latitude, glog.Longitude)
	if status.Inside {
		return status, nil
	}

	alert := &domain.GeofenceAlert{
		ID:         uuid.New(),
		DispatchID: dispatch.ID,
		AlertType:  domain.AlertTypeRouteDeviation,
		Latitude:   glog.Latitude,
		Longitude:  glog.Longitude,
		Message:    fmt.Sprintf("Driver %s outside geofence", dispatch.DriverName),
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.alerts.Append(ctx, alert); err != nil {
		if s.failureMode == domain.FailureStrict {
			return status, fmt.Errorf("persist geofence alert: %w", err)
		}
		log.Printf("geofence alert persist error (dispatch %s): %v", dispatch.ID, err)
	}

	if err := s.notifier.NotifyGeofenceAlert(ctx, dispatch.DriverName, "Route Deviation"); err != nil {
		if s.failureMode == domain.FailureStrict {
			return status, fmt.Errorf("geofence notification: %w", err)
		}
		log.Printf("geofence notification error (dispatch %s): %v", dispatch.ID, err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishAlert(ctx, alert); err != nil {
			log.Printf("geofence alert publish error (dispatch %s): %v", dispatch.ID, err)
		}
	}

	return status, nil
}
