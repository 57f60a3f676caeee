package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"geotrackd/module/core/domain"
	"geotrackd/module/core/internal/repository/database"
)

var _ database.ZoneRepository = (*ZoneRepo)(nil)

type ZoneRepo struct {
	repo
}

func NewZoneRepo(db *sql.DB, driver string) *ZoneRepo {
	return &ZoneRepo{repo{db: db, driver: driver}}
}

const zoneColumns = `id, name, latitude, longitude, radius, is_active, entry_alert, exit_alert, created_at`

func (r *ZoneRepo) Insert(ctx context.Context, zone *domain.Zone) (*domain.Zone, error) {
	row := r.db.QueryRowContext(ctx, r.q(
		`INSERT INTO geofences (name, latitude, longitude, radius, is_active, entry_alert, exit_alert, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`),
		zone.Name, zone.Latitude, zone.Longitude, zone.Radius,
		zone.IsActive, zone.EntryAlert, zone.ExitAlert, zone.CreatedAt,
	)
	created := *zone
	if err := row.Scan(&created.ID); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *ZoneRepo) List(ctx context.Context) ([]domain.Zone, error) {
	return r.list(ctx, r.q(`SELECT `+zoneColumns+` FROM geofences ORDER BY created_at DESC, id DESC`))
}

func (r *ZoneRepo) ListActive(ctx context.Context) ([]domain.Zone, error) {
	return r.list(ctx, r.q(`SELECT `+zoneColumns+` FROM geofences WHERE is_active = TRUE ORDER BY id`))
}

func (r *ZoneRepo) list(ctx context.Context, query string) ([]domain.Zone, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []domain.Zone
	for rows.Next() {
		var z domain.Zone
		if err := rows.Scan(&z.ID, &z.Name, &z.Latitude, &z.Longitude, &z.Radius,
			&z.IsActive, &z.EntryAlert, &z.ExitAlert, &z.CreatedAt); err != nil {
			return nil, err
		}
		results = append(results, z)
	}
	return results, rows.Err()
}

func (r *ZoneRepo) Get(ctx context.Context, id int64) (*domain.Zone, error) {
	row := r.db.QueryRowContext(ctx, r.q(`SELECT `+zoneColumns+` FROM geofences WHERE id = $1`), id)

	var z domain.Zone
	err := row.Scan(&z.ID, &z.Name, &z.Latitude, &z.Longitude, &z.Radius,
		&z.IsActive, &z.EntryAlert, &z.ExitAlert, &z.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &z, nil
}

func (r *ZoneRepo) Update(ctx context.Context, zone *domain.Zone) error {
	res, err := r.db.ExecContext(ctx, r.q(
		`UPDATE geofences SET name = $1, latitude = $2, longitude = $3, radius = $4,
		is_active = $5, entry_alert = $6, exit_alert = $7 WHERE id = $8`),
		zone.Name, zone.Latitude, zone.Longitude, zone.Radius,
		zone.IsActive, zone.EntryAlert, zone.ExitAlert, zone.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *ZoneRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.q(`DELETE FROM geofences WHERE id = $1`), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *ZoneRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM geofences`).Scan(&n)
	return n, err
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return database.ErrNotFound
	}
	return nil
}
