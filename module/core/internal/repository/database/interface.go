package database

import (
	"context"
	"errors"
	"time"

	"geotrackd/module/core/domain"
)

// ErrNotFound is returned by Get-style lookups when no row matches.
var ErrNotFound = errors.New("not found")

type ZoneRepository interface {
	Insert(ctx context.Context, zone *domain.Zone) (*domain.Zone, error)
	List(ctx context.Context) ([]domain.Zone, error)
	// ListActive returns only zones with is_active set; the detector
	// evaluates nothing else.
	ListActive(ctx context.Context) ([]domain.Zone, error)
	Get(ctx context.Context, id int64) (*domain.Zone, error)
	Update(ctx context.Context, zone *domain.Zone) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

type PositionRepository interface {
	Insert(ctx context.Context, sample *domain.PositionSample) error
	GetHistory(ctx context.Context, query *domain.HistoryQuery) ([]domain.PositionSample, error)
	Count(ctx context.Context) (int64, error)
}

type EventRepository interface {
	// LastEvent returns the most recent transition for the pair, or
	// (nil, nil) when the pair has no history. A non-nil error means the
	// lookup itself failed, which is distinct from "no prior event".
	LastEvent(ctx context.Context, userID, zoneID int64) (*domain.TransitionEvent, error)
	Append(ctx context.Context, event *domain.TransitionEvent) error
	ListRecent(ctx context.Context, limit int) ([]domain.TransitionEvent, error)
	Count(ctx context.Context) (int64, error)
}

type ActivityRepository interface {
	Insert(ctx context.Context, activity *domain.Activity) error
	ListRecent(ctx context.Context, limit int) ([]domain.Activity, error)
}

type UserRepository interface {
	Insert(ctx context.Context, user *domain.User) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Get(ctx context.Context, id int64) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
	// UpdateCurrentPosition overwrites the user's last known position.
	UpdateCurrentPosition(ctx context.Context, userID int64, lat, lon, accuracy float64, at time.Time) error
	Count(ctx context.Context) (int64, error)
}

type DeviceRepository interface {
	Insert(ctx context.Context, device *domain.Device) error
	TouchLastSeen(ctx context.Context, deviceID string, at time.Time) error
}
