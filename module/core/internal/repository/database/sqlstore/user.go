package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"geotrackd/module/core/domain"
	"geotrackd/module/core/internal/repository/database"
)

var (
	_ database.UserRepository   = (*UserRepo)(nil)
	_ database.DeviceRepository = (*DeviceRepo)(nil)
)

type UserRepo struct {
	repo
}

func NewUserRepo(db *sql.DB, driver string) *UserRepo {
	return &UserRepo{repo{db: db, driver: driver}}
}

const userColumns = `id, name, email, status, role, current_latitude, current_longitude, location_accuracy, last_location_update, created_at`

func (r *UserRepo) Insert(ctx context.Context, user *domain.User) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, r.q(
		`INSERT INTO users (name, email, status, role, created_at)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`),
		user.Name, user.Email, user.Status, user.Role, user.CreatedAt,
	)
	created := *user
	if err := row.Scan(&created.ID); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *u)
	}
	return results, rows.Err()
}

func (r *UserRepo) Get(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, r.q(`SELECT `+userColumns+` FROM users WHERE id = $1`), id)

	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.q(`DELETE FROM users WHERE id = $1`), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *UserRepo) UpdateCurrentPosition(ctx context.Context, userID int64, lat, lon, accuracy float64, at time.Time) error {
	_, err := r.db.ExecContext(ctx, r.q(
		`UPDATE users SET current_latitude = $1, current_longitude = $2, location_accuracy = $3, last_location_update = $4
		WHERE id = $5`),
		lat, lon, accuracy, at, userID,
	)
	return err
}

func (r *UserRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	var lat, lon, acc sql.NullFloat64
	var updated sql.NullTime
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Status, &u.Role,
		&lat, &lon, &acc, &updated, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.CurrentLatitude = nullFloat(lat)
	u.CurrentLongitude = nullFloat(lon)
	u.LocationAccuracy = nullFloat(acc)
	if updated.Valid {
		t := updated.Time
		u.LastLocationUpdate = &t
	}
	return &u, nil
}

type DeviceRepo struct {
	repo
}

func NewDeviceRepo(db *sql.DB, driver string) *DeviceRepo {
	return &DeviceRepo{repo{db: db, driver: driver}}
}

func (r *DeviceRepo) Insert(ctx context.Context, device *domain.Device) error {
	_, err := r.db.ExecContext(ctx, r.q(
		`INSERT INTO user_devices (id, user_id, name, platform, last_seen, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`),
		device.ID, device.UserID, device.Name, device.Platform, device.LastSeen, device.CreatedAt,
	)
	return err
}

func (r *DeviceRepo) TouchLastSeen(ctx context.Context, deviceID string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, r.q(
		`UPDATE user_devices SET last_seen = $1 WHERE id = $2`),
		at, deviceID,
	)
	return err
}
