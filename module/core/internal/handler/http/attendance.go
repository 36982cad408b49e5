package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Morpheus61/relishagro-backend/module/core/domain"
	"github.com/Morpheus61/relishagro-backend/module/core/service"
)

type attendanceSyncService interface {
	SyncAttendanceBatch(ctx context.Context, deviceID string, records []service.AttendanceRecord) (*domain.SyncResult, error)
}

type AttendanceHandler struct {
	syncSvc attendanceSyncService
}

func NewAttendanceHandler(syncSvc attendanceSyncService) *AttendanceHandler {
	return &AttendanceHandler{syncSvc: syncSvc}
}

func (h *AttendanceHandler) Register(r *gin.RouterGroup) {
	r.POST("/attendance/sync-batch", h.SyncBatch)
}

type attendanceBatchRecord struct {
	PersonID        string    `json:"person_id" binding:"required"`
	Method          string    `json:"method" binding:"required"`
	Timestamp       time.Time `json:"timestamp" binding:"required"`
	Location        string    `json:"location"`
	ConfidenceScore *float64  `json:"confidence_score"`
}

type attendanceBatchRequest struct {
	DeviceID string                  `json:"device_id" binding:"required"`
	Records  []attendanceBatchRecord `json:"records" binding:"required,dive"`
}

func (h *AttendanceHandler) SyncBatch(c *gin.Context) {
	var req attendanceBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	records := make([]service.AttendanceRecord, len(req.Records))
	for i, rec := range req.Records {
		records[i] = service.AttendanceRecord{
			PersonID:        rec.PersonID,
			Method:          rec.Method,
			Timestamp:       rec.Timestamp,
			Location:        rec.Location,
			ConfidenceScore: rec.ConfidenceScore,
		}
	}

	result, err := h.syncSvc.SyncAttendanceBatch(c.Request.Context(), req.DeviceID, records)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"synced_count":   result.SyncedCount,
		"failed_count":   result.FailedCount,
		"failed_records": result.FailedRecords,
	})
}
