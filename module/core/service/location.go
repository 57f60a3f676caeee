package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"geotrackd/module/core/domain"
	"geotrackd/module/core/internal/repository/database"
)

// zoneEvaluator is the geofence detector as seen by the ingest path.
type zoneEvaluator interface {
	Evaluate(ctx context.Context, sample *domain.PositionSample)
}

// LocationService validates and sequences incoming position samples, and
// answers position queries.
type LocationService struct {
	positions database.PositionRepository
	users     database.UserRepository
	devices   database.DeviceRepository
	detector  zoneEvaluator
	logger    *slog.Logger
}

func NewLocationService(
	positions database.PositionRepository,
	users database.UserRepository,
	devices database.DeviceRepository,
	detector zoneEvaluator,
	logger *slog.Logger,
) *LocationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LocationService{
		positions: positions,
		users:     users,
		devices:   devices,
		detector:  detector,
		logger:    logger,
	}
}

// Track accepts one device fix: appends it to the history, overwrites the
// user's last known position, touches the device, and runs the geofence
// detector. Only the history append can fail the call; everything after it is
// best-effort so a backend hiccup never breaks the client flow.
func (s *LocationService) Track(ctx context.Context, sample *domain.PositionSample) error {
	if err := validateSample(sample); err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, err)
	}
	if sample.Timestamp.IsZero() {
		sample.Timestamp = time.Now().UTC()
	}

	if err := s.positions.Insert(ctx, sample); err != nil {
		return fmt.Errorf("record position: %w", err)
	}

	if err := s.users.UpdateCurrentPosition(ctx, sample.UserID,
		sample.Latitude, sample.Longitude, sample.Accuracy, sample.Timestamp); err != nil {
		s.logger.Warn("current position update failed",
			"user_id", sample.UserID, "error", err)
	}

	if sample.DeviceID != "" {
		if err := s.devices.TouchLastSeen(ctx, sample.DeviceID, time.Now().UTC()); err != nil {
			s.logger.Warn("device last seen update failed",
				"device_id", sample.DeviceID, "error", err)
		}
	}

	if s.detector != nil {
		s.detector.Evaluate(ctx, sample)
	}
	return nil
}

// GetLatest returns the user's last known position, taken from the overwrite
// record rather than the history.
func (s *LocationService) GetLatest(ctx context.Context, userID int64) (*domain.TrackedLocation, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.CurrentLatitude == nil || user.CurrentLongitude == nil {
		return nil, database.ErrNotFound
	}
	loc := &domain.TrackedLocation{
		UserID:    user.ID,
		Latitude:  *user.CurrentLatitude,
		Longitude: *user.CurrentLongitude,
	}
	if user.LocationAccuracy != nil {
		loc.Accuracy = *user.LocationAccuracy
	}
	if user.LastLocationUpdate != nil {
		loc.UpdatedAt = *user.LastLocationUpdate
	}
	return loc, nil
}

func (s *LocationService) GetHistory(ctx context.Context, query *domain.HistoryQuery) ([]domain.PositionSample, error) {
	return s.positions.GetHistory(ctx, query)
}

// validateSample rejects invalid coordinates before any evaluation. Accuracy
// is advisory and never grounds a rejection.
func validateSample(sample *domain.PositionSample) error {
	if sample.UserID <= 0 {
		return fmt.Errorf("user_id: required")
	}
	if !isFinite(sample.Latitude) || sample.Latitude < -90 || sample.Latitude > 90 {
		return fmt.Errorf("latitude: must be between -90 and 90")
	}
	if !isFinite(sample.Longitude) || sample.Longitude < -180 || sample.Longitude > 180 {
		return fmt.Errorf("longitude: must be between -180 and 180")
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
