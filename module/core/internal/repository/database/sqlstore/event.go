package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"geotrackd/module/core/domain"
	"geotrackd/module/core/internal/repository/database"
)

var _ database.EventRepository = (*EventRepo)(nil)

type EventRepo struct {
	repo
}

func NewEventRepo(db *sql.DB, driver string) *EventRepo {
	return &EventRepo{repo{db: db, driver: driver}}
}

const eventColumns = `id, user_id, device_id, geofence_id, event_type, latitude, longitude, created_at`

func (r *EventRepo) LastEvent(ctx context.Context, userID, zoneID int64) (*domain.TransitionEvent, error) {
	row := r.db.QueryRowContext(ctx, r.q(
		`SELECT `+eventColumns+` FROM geofence_events
		WHERE user_id = $1 AND geofence_id = $2
		ORDER BY created_at DESC, id DESC LIMIT 1`),
		userID, zoneID,
	)

	ev, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ev, nil
}

func (r *EventRepo) Append(ctx context.Context, event *domain.TransitionEvent) error {
	row := r.db.QueryRowContext(ctx, r.q(
		`INSERT INTO geofence_events (user_id, device_id, geofence_id, event_type, latitude, longitude, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`),
		event.UserID, event.DeviceID, event.ZoneID, string(event.Type),
		event.Latitude, event.Longitude, event.CreatedAt,
	)
	return row.Scan(&event.ID)
}

func (r *EventRepo) ListRecent(ctx context.Context, limit int) ([]domain.TransitionEvent, error) {
	rows, err := r.db.QueryContext(ctx, r.q(
		`SELECT `+eventColumns+` FROM geofence_events ORDER BY created_at DESC, id DESC LIMIT $1`),
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []domain.TransitionEvent
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *ev)
	}
	return results, rows.Err()
}

func (r *EventRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM geofence_events`).Scan(&n)
	return n, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.TransitionEvent, error) {
	var ev domain.TransitionEvent
	var deviceID sql.NullString
	var eventType string
	if err := row.Scan(&ev.ID, &ev.UserID, &deviceID, &ev.ZoneID, &eventType,
		&ev.Latitude, &ev.Longitude, &ev.CreatedAt); err != nil {
		return nil, err
	}
	ev.DeviceID = deviceID.String
	ev.Type = domain.EventType(eventType)
	return &ev, nil
}
