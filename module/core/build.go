package core

import (
	"database/sql"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gin-gonic/gin"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Morpheus61/relishagro-backend/module/core/domain"
	handler "github.com/Morpheus61/relishagro-backend/module/core/internal/handler/http"
	"github.com/Morpheus61/relishagro-backend/module/core/internal/handler/subscriber"
	"github.com/Morpheus61/relishagro-backend/module/core/internal/messaging"
	twiliosender "github.com/Morpheus61/relishagro-backend/module/core/internal/messaging/twilio"
	"github.com/Morpheus61/relishagro-backend/module/core/internal/repository/database/postgres"
	"github.com/Morpheus61/relishagro-backend/module/core/internal/repository/publisher/rabbitmq"
	"github.com/Morpheus61/relishagro-backend/module/core/service"
)

// TwilioConfig carries the channel-send credentials. An empty AccountSID
// disables SMS/WhatsApp sends without disabling in-app notifications.
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
}

type Options struct {
	Zones            []domain.Zone
	GeofenceRadiusKM float64
	FailureMode      domain.FailureMode
	PhoneCountryCode string
	JWTSecret        []byte
	Twilio           TwilioConfig
}

type Module struct {
	DispatchSvc     *service.DispatchService
	GeofenceSvc     *service.GeofenceService
	SyncSvc         *service.SyncService
	NotificationSvc *service.NotificationService

	auth            *handler.AuthMiddleware
	gpsHandler      *handler.GPSHandler
	attendanceH     *handler.AttendanceHandler
	notificationH   *handler.NotificationHandler
	subscriber      *subscriber.LocationSubscriber
}

func Build(db *sql.DB, amqpConn *amqp.Connection, mqttClient mqtt.Client, opts Options) (*Module, error) {
	dispatchRepo := postgres.NewDispatchRepo(db)
	gpsLogRepo := postgres.NewGPSLogRepo(db)
	alertRepo := postgres.NewAlertRepo(db)
	notificationRepo := postgres.NewNotificationRepo(db)
	personRepo := postgres.NewPersonRepo(db)
	attendanceRepo := postgres.NewAttendanceRepo(db)

	alertPub, err := rabbitmq.NewAlertPublisher(amqpConn)
	if err != nil {
		return nil, fmt.Errorf("alert publisher: %w", err)
	}

	var sender messaging.Sender
	if opts.Twilio.AccountSID != "" {
		sender = twiliosender.NewSender(opts.Twilio.AccountSID, opts.Twilio.AuthToken, opts.Twilio.FromNumber)
	}

	notificationSvc := service.NewNotificationService(personRepo, notificationRepo, sender, opts.PhoneCountryCode)
	geofenceSvc := service.NewGeofenceService(opts.Zones, opts.GeofenceRadiusKM, alertRepo, notificationSvc, alertPub, opts.FailureMode)
	dispatchSvc := service.NewDispatchService(dispatchRepo, gpsLogRepo, geofenceSvc)
	syncSvc := service.NewSyncService(dispatchRepo, gpsLogRepo, attendanceRepo)

	auth := handler.NewAuthMiddleware(opts.JWTSecret, personRepo)
	gpsH := handler.NewGPSHandler(dispatchSvc, syncSvc)
	attendanceH := handler.NewAttendanceHandler(syncSvc)
	notificationH := handler.NewNotificationHandler(notificationSvc)
	sub := subscriber.NewLocationSubscriber(mqttClient, dispatchSvc, personRepo)

	return &Module{
		DispatchSvc:     dispatchSvc,
		GeofenceSvc:     geofenceSvc,
		SyncSvc:         syncSvc,
		NotificationSvc: notificationSvc,
		auth:            auth,
		gpsHandler:      gpsH,
		attendanceH:     attendanceH,
		notificationH:   notificationH,
		subscriber:      sub,
	}, nil
}

func (m *Module) RegisterRoutes(r *gin.RouterGroup) {
	authed := r.Group("", m.auth.Handler())
	m.gpsHandler.Register(authed)
	m.attendanceH.Register(authed)
	m.notificationH.Register(authed)
}

func (m *Module) StartSubscribers() error {
	return m.subscriber.Start()
}
