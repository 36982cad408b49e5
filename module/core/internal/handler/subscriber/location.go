package subscriber

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/Morpheus61/relishagro-backend/module/core/domain"
	"github.com/Morpheus61/relishagro-backend/module/core/service"
)

const topicPattern = "/fleet/dispatch/+/location"

type dispatchService interface {
	LogLocation(ctx context.Context, id uuid.UUID, lat, lon float64, speed *float64, actor *domain.Person) (*service.LogResult, error)
}

type personDirectory interface {
	GetByStaffID(ctx context.Context, staffID string) (*domain.Person, error)
}

type locationMessage struct {
	DispatchID    string   `json:"dispatch_id"`
	DriverStaffID string   `json:"driver_staff_id"`
	Latitude      float64  `json:"latitude"`
	Longitude     float64  `json:"longitude"`
	Speed         *float64 `json:"speed"`
}

// LocationSubscriber feeds device-published live pings through the same
// lifecycle path as the HTTP log-location endpoint, including ownership and
// trip-status checks and geofence evaluation.
type LocationSubscriber struct {
	client      mqtt.Client
	dispatchSvc dispatchService
	persons     personDirectory
}

func NewLocationSubscriber(client mqtt.Client, dispatchSvc dispatchService, persons personDirectory) *LocationSubscriber {
	return &LocationSubscriber{
		client:      client,
		dispatchSvc: dispatchSvc,
		persons:     persons,
	}
}

func (s *LocationSubscriber) Start() error {
	token := s.client.Subscribe(topicPattern, 1, s.handleMessage)
	token.Wait()
	return token.Error()
}

func (s *LocationSubscriber) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	var raw locationMessage
	if err := json.Unmarshal(msg.Payload(), &raw); err != nil {
		log.Printf("invalid location message: %v", err)
		return
	}

	if err := validateLocationMessage(&raw); err != nil {
		log.Printf("validation error: %v", err)
		return
	}

	dispatchID, err := uuid.Parse(raw.DispatchID)
	if err != nil {
		log.Printf("invalid dispatch id %q: %v", raw.DispatchID, err)
		return
	}

	ctx := context.Background()

	driver, err := s.persons.GetByStaffID(ctx, raw.DriverStaffID)
	if err != nil {
		log.Printf("unknown driver %q: %v", raw.DriverStaffID, err)
		return
	}

	if _, err := s.dispatchSvc.LogLocation(ctx, dispatchID, raw.Latitude, raw.Longitude, raw.Speed, driver); err != nil {
		log.Printf("log location error (dispatch %s): %v", dispatchID, err)
	}
}

func validateLocationMessage(msg *locationMessage) error {
	if msg.DispatchID == "" {
		return fmt.Errorf("dispatch_id: required")
	}
	if msg.DriverStaffID == "" {
		return fmt.Errorf("driver_staff_id: required")
	}
	if msg.Latitude < -90 || msg.Latitude > 90 {
		return fmt.Errorf("latitude: must be between -90 and 90")
	}
	if msg.Longitude < -180 || msg.Longitude > 180 {
		return fmt.Errorf("longitude: must be between -180 and 180")
	}
	return nil
}
