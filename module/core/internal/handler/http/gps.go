package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Morpheus61/relishagro-backend/module/core/domain"
	"github.com/Morpheus61/relishagro-backend/module/core/service"
)

type dispatchService interface {
	Create(ctx context.Context, in service.CreateDispatchInput, actor *domain.Person) (*domain.Dispatch, error)
	StartTracking(ctx context.Context, id uuid.UUID, actor *domain.Person) error
	LogLocation(ctx context.Context, id uuid.UUID, lat, lon float64, speed *float64, actor *domain.Person) (*service.LogResult, error)
	Complete(ctx context.Context, id uuid.UUID, actor *domain.Person) error
	TrackingHistory(ctx context.Context, id uuid.UUID, actor *domain.Person) ([]domain.GPSLog, error)
}

type gpsSyncService interface {
	SyncGPSBatch(ctx context.Context, dispatchID uuid.UUID, records []service.GPSRecord, actor *domain.Person) (*domain.SyncResult, error)
}

type GPSHandler struct {
	dispatchSvc dispatchService
	syncSvc     gpsSyncService
}

func NewGPSHandler(dispatchSvc dispatchService, syncSvc gpsSyncService) *GPSHandler {
	return &GPSHandler{dispatchSvc: dispatchSvc, syncSvc: syncSvc}
}

func (h *GPSHandler) Register(r *gin.RouterGroup) {
	r.POST("/dispatches", h.CreateDispatch)
	r.POST("/gps/start-tracking/:dispatch_id", h.StartTracking)
	r.POST("/gps/log-location", h.LogLocation)
	r.POST("/gps/sync-batch", h.SyncBatch)
	r.GET("/gps/track/:dispatch_id", h.Track)
	r.POST("/gps/complete/:dispatch_id", h.Complete)
}

type createDispatchRequest struct {
	LotID         string   `json:"lot_id" binding:"required"`
	VehicleNumber string   `json:"vehicle_number" binding:"required"`
	DriverID      string   `json:"driver_id" binding:"required"`
	DriverName    string   `json:"driver_name"`
	SackCount     int      `json:"sack_count" binding:"required"`
	RFIDTags      []string `json:"rfid_tags"`
}

func (h *GPSHandler) CreateDispatch(c *gin.Context) {
	var req createDispatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	driverID, err := uuid.Parse(req.DriverID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid driver_id"})
		return
	}

	d, err := h.dispatchSvc.Create(c.Request.Context(), service.CreateDispatchInput{
		LotID:         req.LotID,
		VehicleNumber: req.VehicleNumber,
		DriverID:      driverID,
		DriverName:    req.DriverName,
		SackCount:     req.SackCount,
		RFIDTags:      req.RFIDTags,
	}, actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "dispatch": d})
}

func (h *GPSHandler) StartTracking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("dispatch_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dispatch id"})
		return
	}

	if err := h.dispatchSvc.StartTracking(c.Request.Context(), id, actorFrom(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "GPS tracking started",
		"dispatch_id": id.String(),
	})
}

type logLocationRequest struct {
	DispatchID string   `json:"dispatch_id" binding:"required"`
	Latitude   *float64 `json:"latitude" binding:"required"`
	Longitude  *float64 `json:"longitude" binding:"required"`
	Speed      *float64 `json:"speed"`
}

func (h *GPSHandler) LogLocation(c *gin.Context) {
	var req logLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := uuid.Parse(req.DispatchID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dispatch id"})
		return
	}

	result, err := h.dispatchSvc.LogLocation(c.Request.Context(), id, *req.Latitude, *req.Longitude, req.Speed, actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	geofenceStatus := "outside"
	if result.Geofence.Inside {
		geofenceStatus = "inside"
	}
	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"logged_at":       result.LoggedAt.Format(time.RFC3339),
		"geofence_status": geofenceStatus,
	})
}

type gpsBatchRecord struct {
	Latitude  *float64  `json:"latitude" binding:"required"`
	Longitude *float64  `json:"longitude" binding:"required"`
	Speed     *float64  `json:"speed"`
	Timestamp time.Time `json:"timestamp" binding:"required"`
}

type gpsBatchRequest struct {
	DispatchID string           `json:"dispatch_id" binding:"required"`
	Locations  []gpsBatchRecord `json:"locations" binding:"required,dive"`
}

func (h *GPSHandler) SyncBatch(c *gin.Context) {
	var req gpsBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := uuid.Parse(req.DispatchID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dispatch id"})
		return
	}

	records := make([]service.GPSRecord, len(req.Locations))
	for i, loc := range req.Locations {
		records[i] = service.GPSRecord{
			Latitude:  *loc.Latitude,
			Longitude: *loc.Longitude,
			Speed:     loc.Speed,
			Timestamp: loc.Timestamp,
		}
	}

	result, err := h.syncSvc.SyncGPSBatch(c.Request.Context(), id, records, actorFrom(c))
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

type trackedLocation struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Speed     *float64 `json:"speed,omitempty"`
	Timestamp string   `json:"timestamp"`
	Offline   bool     `json:"is_offline_queued"`
}

func (h *GPSHandler) Track(c *gin.Context) {
	id, err := uuid.Parse(c.Param("dispatch_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dispatch id"})
		return
	}

	logs, err := h.dispatchSvc.TrackingHistory(c.Request.Context(), id, actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	locations := make([]trackedLocation, len(logs))
	for i, l := range logs {
		locations[i] = trackedLocation{
			Latitude:  l.Latitude,
			Longitude: l.Longitude,
			Speed:     l.Speed,
			Timestamp: l.Timestamp.Format(time.RFC3339),
			Offline:   l.IsOfflineQueued,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"count":     len(locations),
		"locations": locations,
	})
}

func (h *GPSHandler) Complete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("dispatch_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dispatch id"})
		return
	}

	if err := h.dispatchSvc.Complete(c.Request.Context(), id, actorFrom(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Dispatch marked as delivered",
	})
}
