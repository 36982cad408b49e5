package domain

import (
	"time"

	"github.com/google/uuid"
)

// TripStatus is the lifecycle state of a dispatch. Transitions only move
// forward: pending -> in_transit -> delivered.
type TripStatus string

const (
	TripPending   TripStatus = "pending"
	TripInTransit TripStatus = "in_transit"
	TripDelivered TripStatus = "delivered"
)

// Dispatch is one vehicle trip carrying one harvest lot. The driver is
// assigned at creation and never changes for the lifetime of the trip.
// GPSTrackingActive may be true only while TripStatus is in_transit.
type Dispatch struct {
	ID                uuid.UUID  `json:"dispatch_id"`
	LotID             string     `json:"lot_id"`
	VehicleNumber     string     `json:"vehicle_number"`
	DriverID          uuid.UUID  `json:"driver_id"`
	DriverName        string     `json:"driver_name"`
	SackCount         int        `json:"sack_count"`
	RFIDTags          []string   `json:"rfid_tags,omitempty"`
	TripStatus        TripStatus `json:"trip_status"`
	GPSTrackingActive bool       `json:"gps_tracking_active"`
	CreatedBy         uuid.UUID  `json:"created_by"`
	CreatedAt         time.Time  `json:"created_at"`
}
