package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"geotrackd/module/core/domain"
	"geotrackd/module/core/internal/repository/publisher"
)

var _ publisher.AlertPublisher = (*AlertPublisher)(nil)

const (
	exchangeName = "track.events"
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
	UserID    int64            `json:"user_id"`
	DeviceID  string           `json:"device_id"`
	ZoneID    int64            `json:"geofence_id"`
	ZoneName  string           `json:"geofence_name"`
	Event     domain.EventType `json:"event"`
	Location  alertLocation    `json:"location"`
	Timestamp int64            `json:"timestamp"`
}

type alertLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (p *AlertPublisher) PublishAlert(ctx context.Context, alert *domain.Alert) error {
	msg := alertMessage{
		UserID:   alert.UserID,
		DeviceID: alert.DeviceID,
		ZoneID:   alert.ZoneID,
		ZoneName: alert.ZoneName,
		Event:    alert.Event,
		Location: alertLocation{
			Latitude:  alert.Latitude,
			Longitude: alert.Longitude,
		},
		Timestamp: alert.Timestamp,
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
