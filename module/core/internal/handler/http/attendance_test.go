package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Morpheus61/relishagro-backend/module/core/domain"
	"github.com/Morpheus61/relishagro-backend/module/core/service"
)

type mockAttendanceSyncService struct {
	syncFn func(ctx context.Context, deviceID string, records []service.AttendanceRecord) (*domain.SyncResult, error)
}

func (m *mockAttendanceSyncService) SyncAttendanceBatch(ctx context.Context, deviceID string, records []service.AttendanceRecord) (*domain.SyncResult, error) {
	return m.syncFn(ctx, deviceID, records)
}

func setupAttendanceRouter(svc attendanceSyncService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewAttendanceHandler(svc)
	h.Register(r.Group("", withActor(testActor(domain.RoleWorker))))
	return r
}

func TestAttendanceSync_OK(t *testing.T) {
	svc := &mockAttendanceSyncService{
		syncFn: func(_ context.Context, deviceID string, records []service.AttendanceRecord) (*domain.SyncResult, error) {
			if deviceID != "device-01" {
				t.Errorf("expected device-01, got %s", deviceID)
			}
			if len(records) != 2 {
				t.Fatalf("expected 2 records, got %d", len(records))
			}
			return &domain.SyncResult{SyncedCount: 2}, nil
		},
	}
	r := setupAttendanceRouter(svc)

	w := postJSON(r, "/attendance/sync-batch", gin.H{
		"device_id": "device-01",
		"records": []gin.H{
			{"person_id": uuid.NewString(), "method": "rfid", "timestamp": "2024-05-06T08:00:00Z"},
			{"person_id": uuid.NewString(), "method": "face", "timestamp": "2024-05-06T08:01:00Z", "confidence_score": 0.97},
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		SyncedCount int `json:"synced_count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.SyncedCount != 2 {
		t.Errorf("expected 2 synced, got %d", resp.SyncedCount)
	}
}

func TestAttendanceSync_MissingDeviceID(t *testing.T) {
	r := setupAttendanceRouter(&mockAttendanceSyncService{})

	w := postJSON(r, "/attendance/sync-batch", gin.H{
		"records": []gin.H{
			{"person_id": uuid.NewString(), "method": "rfid", "timestamp": "2024-05-06T08:00:00Z"},
		},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestAttendanceSync_MissingRecordFieldsRejected(t *testing.T) {
	svc := &mockAttendanceSyncService{
		syncFn: func(_ context.Context, _ string, _ []service.AttendanceRecord) (*domain.SyncResult, error) {
			t.Fatal("unexpected service call")
			return nil, nil
		},
	}
	r := setupAttendanceRouter(svc)

	w := postJSON(r, "/attendance/sync-batch", gin.H{
		"device_id": "device-01",
		"records": []gin.H{
			{"method": "rfid", "timestamp": "2024-05-06T08:00:00Z"},
		},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestAttendanceSync_ServiceError(t *testing.T) {
	svc := &mockAttendanceSyncService{
		syncFn: func(_ context.Context, _ string, _ []service.AttendanceRecord) (*domain.SyncResult, error) {
			return nil, errors.New("commit sync batch: connection reset")
		},
	}
	r := setupAttendanceRouter(svc)

	w := postJSON(r, "/attendance/sync-batch", gin.H{
		"device_id": "device-01",
		"records": []gin.H{
			{"person_id": uuid.NewString(), "method": "rfid", "timestamp": "2024-05-06T08:00:00Z"},
		},
	})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}
