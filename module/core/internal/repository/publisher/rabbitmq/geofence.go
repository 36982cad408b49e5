package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Morpheus61/relishagro-backend/module/core/domain"
	"github.com/Morpheus61/relishagro-backend/module/core/internal/repository/publisher"
)

var _ publisher.AlertPublisher = (*AlertPublisher)(nil)

const (
	exchangeName = "agri.events"
	queueName    = "geofence_alerts"
)

type AlertPublisher struct {
	ch *amqp.Channel
}

func NewAlertPublisher(conn *amqp.Connection) (*AlertPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchangeName, "fanout", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	if err := ch.QueueBind(queueName, "", exchangeName, false, nil); err != nil {
		return nil, fmt.Errorf("bind queue: %w", err)
	}

	return &AlertPublisher{ch: ch}, nil
}

type alertMessage struct {
	Event      string        `json:"event"`
	DispatchID string        `json:"dispatch_id"`
	AlertType  string        `json:"alert_type"`
	Location   alertLocation `json:"location"`
	Message    string        `json:"message"`
	Timestamp  int64         `json:"timestamp"`
}

type alertLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (p *AlertPublisher) PublishAlert(ctx context.Context, alert *domain.GeofenceAlert) error {
	msg := alertMessage{
		Event:      "geofence_alert",
		DispatchID: alert.DispatchID.String(),
		AlertType:  alert.AlertType,
		Location: alertLocation{
			Latitude:  alert.Latitude,
			Longitude: alert.Longitude,
		},
		Message:   alert.Message,
		Timestamp: alert.CreatedAt.Unix(),
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal alert: %w", err)
	}

	return p.ch.PublishWithContext(ctx, exchangeName, "", false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
}
