package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"geotrackd/module/core/domain"
	"geotrackd/module/core/internal/repository/database"
)

// ErrValidation marks caller errors; HTTP handlers map it to 400.
var ErrValidation = errors.New("validation")

// ZoneService is the administrative side of the geofence store. The detector
// only ever reads zones through the repository's ListActive.
type ZoneService struct {
	zones database.ZoneRepository
}

func NewZoneService(zones database.ZoneRepository) *ZoneService {
	return &ZoneService{zones: zones}
}

func (s *ZoneService) Create(ctx context.Context, zone *domain.Zone) (*domain.Zone, error) {
	if err := validateZone(zone); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err)
	}
	zone.CreatedAt = time.Now().UTC()
	return s.zones.Insert(ctx, zone)
}

func (s *ZoneService) List(ctx context.Context) ([]domain.Zone, error) {
	return s.zones.List(ctx)
}

func (s *ZoneService) Get(ctx context.Context, id int64) (*domain.Zone, error) {
	return s.zones.Get(ctx, id)
}

func (s *ZoneService) Update(ctx context.Context, zone *domain.Zone) error {
	if err := validateZone(zone); err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, err)
	}
	return s.zones.Update(ctx, zone)
}

func (s *ZoneService) Delete(ctx context.Context, id int64) error {
	return s.zones.Delete(ctx, id)
}

// validateZone enforces the attribute contract. Any positive radius is
// accepted; tighter bounds are a UI concern.
func validateZone(zone *domain.Zone) error {
	if zone.Name == "" {
		return fmt.Errorf("name: required")
	}
	if !isFinite(zone.Latitude) || zone.Latitude < -90 || zone.Latitude > 90 {
		return fmt.Errorf("latitude: must be between -90 and 90")
	}
	if !isFinite(zone.Longitude) || zone.Longitude < -180 || zone.Longitude > 180 {
		return fmt.Errorf("longitude: must be between -180 and 180")
	}
	if !isFinite(zone.Radius) || zone.Radius <= 0 {
		return fmt.Errorf("radius: must be positive")
	}
	return nil
}
