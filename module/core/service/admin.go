package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"geotrackd/module/core/domain"
	"geotrackd/module/core/internal/repository/database"
)

// AdminService backs the dashboard: user management, device registration and
// the event/activity/stats feeds.
type AdminService struct {
	users      database.UserRepository
	devices    database.DeviceRepository
	zones      database.ZoneRepository
	events     database.EventRepository
	positions  database.PositionRepository
	activities database.ActivityRepository
}

func NewAdminService(
	users database.UserRepository,
	devices database.DeviceRepository,
	zones database.ZoneRepository,
	events database.EventRepository,
	positions database.PositionRepository,
	activities database.ActivityRepository,
) *AdminService {
	return &AdminService{
		users:      users,
		devices:    devices,
		zones:      zones,
		events:     events,
		positions:  positions,
		activities: activities,
	}
}

func (s *AdminService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

func (s *AdminService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.Get(ctx, id)
}

func (s *AdminService) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	if strings.TrimSpace(user.Name) == "" {
		return nil, fmt.Errorf("%w: name: required", ErrValidation)
	}
	if strings.TrimSpace(user.Email) == "" || !strings.Contains(user.Email, "@") {
		return nil, fmt.Errorf("%w: email: invalid", ErrValidation)
	}
	if user.Status == "" {
		user.Status = "active"
	}
	if user.Role == "" {
		user.Role = "user"
	}
	user.CreatedAt = time.Now().UTC()
	return s.users.Insert(ctx, user)
}

func (s *AdminService) DeleteUser(ctx context.Context, id int64) error {
	return s.users.Delete(ctx, id)
}

// RegisterDevice assigns a server-side UUID to a new tracker client.
func (s *AdminService) RegisterDevice(ctx context.Context, userID int64, name, platform string) (*domain.Device, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: user_id: required", ErrValidation)
	}
	if _, err := s.users.Get(ctx, userID); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	device := &domain.Device{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		Platform:  platform,
		LastSeen:  now,
		CreatedAt: now,
	}
	if err := s.devices.Insert(ctx, device); err != nil {
		return nil, err
	}
	return device, nil
}

func (s *AdminService) ListEvents(ctx context.Context, limit int) ([]domain.TransitionEvent, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	return s.events.ListRecent(ctx, limit)
}

func (s *AdminService) ListActivities(ctx context.Context, limit int) ([]domain.Activity, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	return s.activities.ListRecent(ctx, limit)
}

func (s *AdminService) Stats(ctx context.Context) (*domain.Stats, error) {
	users, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	zones, err := s.zones.Count(ctx)
	if err != nil {
		return nil, err
	}
	events, err := s.events.Count(ctx)
	if err != nil {
		return nil, err
	}
	positions, err := s.positions.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.Stats{Users: users, Zones: zones, Events: events, Positions: positions}, nil
}
