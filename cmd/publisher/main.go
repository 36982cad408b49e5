package main

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Simulates a driver device publishing live pings for one dispatch. Most
// pings drift near the farm; occasionally one jumps well outside the
// geofence to exercise the alert path.
type locationMessage struct {
	DispatchID    string   `json:"dispatch_id"`
	DriverStaffID string   `json:"driver_staff_id"`
	Latitude      float64  `json:"latitude"`
	Longitude     float64  `json:"longitude"`
	Speed         *float64 `json:"speed,omitempty"`
}

const (
	farmLat = 8.2833
	farmLon = 77.3167
)

func main() {
	if len(os.Args) < 4 {
		fmt.Fprintf(os.Stderr, "usage: %s <dispatch_id> <driver_staff_id> <interval_seconds>\n", os.Args[0])
		os.Exit(1)
	}

	dispatchID := os.Args[1]
	driverStaffID := os.Args[2]
	intervalSec, err := strconv.Atoi(os.Args[3])
	if err != nil || intervalSec <= 0 {
		fmt.Fprintf(os.Stderr, "error: interval must be a positive integer\n")
		os.Exit(1)
	}

	broker := "tcp://localhost:1883"
	if v := os.Getenv("MQTT_BROKER"); v != "" {
		broker = v
	}

	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID("dispatch-device-sim")

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalf("mqtt connect: %v", token.Error())
	}
	defer client.Disconnect(250)

	topic := fmt.Sprintf("/fleet/dispatch/%s/location", dispatchID)
	log.Printf("connected to %s, publishing to %s every %ds...", broker, topic, intervalSec)

	ticker := time.NewTicker(time.Duration(intervalSec) * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		var lat, lon float64
		// 20% chance to wander far outside the geofence
		if rand.Float64() < 0.2 {
			lat = farmLat + 0.5 + rand.Float64()*0.5
			lon = farmLon + 0.5 + rand.Float64()*0.5
		} else {
			lat = farmLat + (rand.Float64()-0.5)*0.01
			lon = farmLon + (rand.Float64()-0.5)*0.01
		}

		speed := 20 + rand.Float64()*40
		msg := locationMessage{
			DispatchID:    dispatchID,
			DriverStaffID: driverStaffID,
			Latitude:      lat,
			Longitude:     lon,
			Speed:         &speed,
		}

		payload, _ := json.Marshal(msg)
		token := client.Publish(topic, 1, false, payload)
		token.Wait()

		log.Printf("published: %s", payload)
	}
}
