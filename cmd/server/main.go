package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/Morpheus61/relishagro-backend/config"
	"github.com/Morpheus61/relishagro-backend/module/core"
	"github.com/Morpheus61/relishagro-backend/module/core/domain"
)

func main() {
	cfg := config.Load()

	db, err := config.NewPostgres(cfg)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer func() { _ = db.Close() }()

	amqpConn, err := config.NewRabbitMQ(cfg)
	if err != nil {
		log.Fatalf("rabbitmq: %v", err)
	}
	defer func() { _ = amqpConn.Close() }()

	mqttClient, err := config.NewMQTT(cfg)
	if err != nil {
		log.Fatalf("mqtt: %v", err)
	}
	defer mqttClient.Disconnect(250)

	failureMode := domain.FailureBestEffort
	if cfg.AlertFailureMode == string(domain.FailureStrict) {
		failureMode = domain.FailureStrict
	}

	coreModule, err := core.Build(db, amqpConn, mqttClient, core.Options{
		Zones: []domain.Zone{
			{Name: "farm", Lat: cfg.FarmLatitude, Lon: cfg.FarmLongitude},
			{Name: "processing_unit", Lat: cfg.ProcessingLatitude, Lon: cfg.ProcessingLongitude},
		},
		GeofenceRadiusKM: cfg.GeofenceRadiusKM,
		FailureMode:      failureMode,
		PhoneCountryCode: cfg.PhoneCountryCode,
		JWTSecret:        []byte(cfg.JWTSecret),
		Twilio: core.TwilioConfig{
			AccountSID: cfg.TwilioAccountSID,
			AuthToken:  cfg.TwilioAuthToken,
			FromNumber: cfg.TwilioFromNumber,
		},
	})
	if err != nil {
		log.Fatalf("core module: %v", err)
	}

	if err := coreModule.StartSubscribers(); err != nil {
		log.Fatalf("start subscribers: %v", err)
	}

	r := gin.Default()

	health := config.NewHealthChecker(db, amqpConn, mqttClient)
	health.Register(r)

	coreModule.RegisterRoutes(&r.RouterGroup)

	log.Printf("listening on :%s", cfg.HTTPPort)
	if err := r.Run(":" + cfg.HTTPPort); err != nil {
		log.Fatalf("server: %v", err)
	}
}
