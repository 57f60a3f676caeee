package subscriber

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"geotrackd/module/core/domain"
)

const topicPattern = "/track/user/+/location"

type locationService interface {
	Track(ctx context.Context, sample *domain.PositionSample) error
}

type locationMessage struct {
	UserID       int64    `json:"user_id"`
	DeviceID     string   `json:"device_id"`
	Latitude     float64  `json:"latitude"`
	Longitude    float64  `json:"longitude"`
	Accuracy     float64  `json:"accuracy"`
	Altitude     *float64 `json:"altitude"`
	Speed        *float64 `json:"speed"`
	Heading      *float64 `json:"heading"`
	IsBackground bool     `json:"is_background"`
	Timestamp    int64    `json:"timestamp"`
}

type LocationSubscriber struct {
	client      mqtt.Client
	locationSvc locationService
	logger      *slog.Logger
}

func NewLocationSubscriber(client mqtt.Client, locationSvc locationService, logger *slog.Logger) *LocationSubscriber {
	if logger == nil {
		logger = slog.Default()
	}
	return &LocationSubscriber{
		client:      client,
		locationSvc: locationSvc,
		logger:      logger,
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
		s.logger.Warn("invalid location message", "topic", msg.Topic(), "error", err)
		return
	}

	sample := &domain.PositionSample{
		UserID:       raw.UserID,
		DeviceID:     raw.DeviceID,
		Latitude:     raw.Latitude,
		Longitude:    raw.Longitude,
		Accuracy:     raw.Accuracy,
		Altitude:     raw.Altitude,
		Speed:        raw.Speed,
		Heading:      raw.Heading,
		IsBackground: raw.IsBackground,
	}
	if raw.Timestamp > 0 {
		sample.Timestamp = time.Unix(raw.Timestamp, 0).UTC()
	}

	if err := s.locationSvc.Track(context.Background(), sample); err != nil {
		s.logger.Warn("location rejected", "user_id", raw.UserID, "error", err)
	}
}
