package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Morpheus61/relishagro-backend/module/core/domain"
)

type mockAlertRepo struct {
	appendFn func(ctx context.Context, alert *domain.GeofenceAlert) error
	appended []*domain.GeofenceAlert
}

func (m *mockAlertRepo) Append(ctx context.Context, alert *domain.GeofenceAlert) error {
	m.appended = append(m.appended, alert)
	if m.appendFn != nil {
		return m.appendFn(ctx, alert)
	}
	return nil
}

type mockNotifier struct {
	notifyFn func(ctx context.Context, driverName, alertType string) error
	calls    int
}

func (m *mockNotifier) NotifyGeofenceAlert(ctx context.Context, driverName, alertType string) error {
	m.calls++
	if m.notifyFn != nil {
		return m.notifyFn(ctx, driverName, alertType)
	}
	return nil
}

type mockAlertPublisher struct {
	publishFn func(ctx context.Context, alert *domain.GeofenceAlert) error
	calls     int
}

func (m *mockAlertPublisher) PublishAlert(ctx context.Context, alert *domain.GeofenceAlert) error {
	m.calls++
	if m.publishFn != nil {
		return m.publishFn(ctx, alert)
	}
	return nil
}

var testZones = []domain.Zone{
	{Name: "farm", Lat: 8.43, Lon: 77.43},
	{Name: "processing_unit", Lat: 8.10, Lon: 77.55},
}

func newTestGeofenceService(alerts *mockAlertRepo, notifier *mockNotifier, pub *mockAlertPublisher, mode domain.FailureMode) *GeofenceService {
	return NewGeofenceService(testZones, 5.0, alerts, notifier, pub, mode)
}

func testDispatch() *domain.Dispatch {
	return &domain.Dispatch{
		ID:         uuid.New(),
		DriverID:   uuid.New(),
		DriverName: "Ravi Kumar",
		TripStatus: domain.TripInTransit,
	}
}

func testLog(dispatchID uuid.UUID, lat, lon float64) *domain.GPSLog {
	return &domain.GPSLog{
		ID:         uuid.New(),
		DispatchID: dispatchID,
		Latitude:   lat,
		Longitude:  lon,
		Timestamp:  time.Unix(1715003456, 0),
	}
}

func TestEvaluate_InsideNearOneZoneOnly(t *testing.T) {
	svc := newTestGeofenceService(&mockAlertRepo{}, &mockNotifier{}, &mockAlertPublisher{}, domain.FailureBestEffort)

	// ~4km north of the farm, ~40km from the processing unit: inside,
	// because the geofence is a union of circles.
	status := svc.Evaluate(8.466, 77.43)
	if !status.Inside {
		t.Fatalf("expected inside, got outside (nearest %s at %.2fkm)", status.NearestZone, status.NearestDistanceKM)
	}
	if status.NearestZone != "farm" {
		t.Errorf("expected nearest zone farm, got %s", status.NearestZone)
	}
}

func TestEvaluate_OutsideAllZones(t *testing.T) {
	svc := newTestGeofenceService(&mockAlertRepo{}, &mockNotifier{}, &mockAlertPublisher{}, domain.FailureBestEffort)

	// ~6km north of the farm, well beyond the radius of both zones.
	status := svc.Evaluate(8.484, 77.43)
	if status.Inside {
		t.Fatal("expected outside")
	}
	if status.NearestDistanceKM <= 5.0 {
		t.Errorf("expected nearest distance above radius, got %.2f", status.NearestDistanceKM)
	}
}

func TestCheckAndAlert_Inside_NoAlert(t *testing.T) {
	alerts := &mockAlertRepo{}
	notifier := &mockNotifier{}
	pub := &mockAlertPublisher{}
	svc := newTestGeofenceService(alerts, notifier, pub, domain.FailureBestEffort)

	d := testDispatch()
	status, err := svc.CheckAndAlert(context.Background(), d, testLog(d.ID, 8.43, 77.43))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !status.Inside {
		t.Fatal("expected inside")
	}
	if len(alerts.appended) != 0 {
		t.Errorf("expected 0 alerts, got %d", len(alerts.appended))
	}
	if notifier.calls != 0 {
		t.Errorf("expected 0 notifications, got %d", notifier.calls)
	}
}

func TestCheckAndAlert_Outside_OneAlertAndNotification(t *testing.T) {
	alerts := &mockAlertRepo{}
	notifier := &mockNotifier{}
	pub := &mockAlertPublisher{}
	svc := newTestGeofenceService(alerts, notifier, pub, domain.FailureBestEffort)

	d := testDispatch()
	status, err := svc.CheckAndAlert(context.Background(), d, testLog(d.ID, 9.0, 78.0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.Inside {
		t.Fatal("expected outside")
	}
	if len(alerts.appended) != 1 {
		t.Fatalf("expected exactly 1 alert, got %d", len(alerts.appended))
	}
	alert := alerts.appended[0]
	if alert.DispatchID != d.ID {
		t.Errorf("expected dispatch %s, got %s", d.ID, alert.DispatchID)
	}
	if alert.AlertType != domain.AlertTypeRouteDeviation {
		t.Errorf("expected route_deviation, got %s", alert.AlertType)
	}
	if notifier.calls != 1 {
		t.Errorf("expected 1 notification call, got %d", notifier.calls)
	}
	if pub.calls != 1 {
		t.Errorf("expected 1 publish, got %d", pub.calls)
	}
}

func TestCheckAndAlert_PersistError_Strict(t *testing.T) {
	alerts := &mockAlertRepo{
		appendFn: func(_ context.Context, _ *domain.GeofenceAlert) error {
			return errors.New("db down")
		},
	}
	svc := newTestGeofenceService(alerts, &mockNotifier{}, &mockAlertPublisher{}, domain.FailureStrict)

	d := testDispatch()
	if _, err := svc.CheckAndAlert(context.Background(), d, testLog(d.ID, 9.0, 78.0)); err == nil {
		t.Fatal("expected error in strict mode")
	}
}

func TestCheckAndAlert_PersistError_BestEffort(t *testing.T) {
	alerts := &mockAlertRepo{
		appendFn: func(_ context.Context, _ *domain.GeofenceAlert) error {
			return errors.New("db down")
		},
	}
	notifier := &mockNotifier{}
	svc := newTestGeofenceService(alerts, notifier, &mockAlertPublisher{}, domain.FailureBestEffort)

	d := testDispatch()
	if _, err := svc.CheckAndAlert(context.Background(), d, testLog(d.ID, 9.0, 78.0)); err != nil {
		t.Fatalf("best-effort mode should not fail the ping: %v", err)
	}
	if notifier.calls != 1 {
		t.Errorf("notification should still be attempted, got %d calls", notifier.calls)
	}
}

func TestCheckAndAlert_PublishError_NeverFails(t *testing.T) {
	pub := &mockAlertPublisher{
		publishFn: func(_ context.Context, _ *domain.GeofenceAlert) error {
			return errors.New("rabbitmq down")
		},
	}
	svc := newTestGeofenceService(&mockAlertRepo{}, &mockNotifier{}, pub, domain.FailureStrict)

	d := testDispatch()
	if _, err := svc.CheckAndAlert(context.Background(), d, testLog(d.ID, 9.0, 78.0)); err != nil {
		t.Fatalf("broker publish is always best-effort: %v", err)
	}
}
