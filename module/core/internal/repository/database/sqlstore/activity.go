package sqlstore

import (
	"context"
	"database/sql"

	"geotrackd/module/core/domain"
	"geotrackd/module/core/internal/repository/database"
)

var _ database.ActivityRepository = (*ActivityRepo)(nil)

type ActivityRepo struct {
	repo
}

func NewActivityRepo(db *sql.DB, driver string) *ActivityRepo {
	return &ActivityRepo{repo{db: db, driver: driver}}
}

func (r *ActivityRepo) Insert(ctx context.Context, activity *domain.Activity) error {
	_, err := r.db.ExecContext(ctx, r.q(
		`INSERT INTO server_logs (action, details, user_id, device_id, created_at)
		VALUES ($1, $2, $3, $4, $5)`),
		activity.Action, activity.Details, activity.UserID, activity.DeviceID, activity.CreatedAt,
	)
	return err
}

func (r *ActivityRepo) ListRecent(ctx context.Context, limit int) ([]domain.Activity, error) {
	rows, err := r.db.QueryContext(ctx, r.q(
		`SELECT id, action, details, user_id, device_id, created_at
		FROM server_logs ORDER BY created_at DESC, id DESC LIMIT $1`),
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []domain.Activity
	for rows.Next() {
		var a domain.Activity
		var userID sql.NullInt64
		var deviceID sql.NullString
		if err := rows.Scan(&a.ID, &a.Action, &a.Details, &userID, &deviceID, &a.CreatedAt); err != nil {
			return nil, err
		}
		if userID.Valid {
			v := userID.Int64
			a.UserID = &v
		}
		if deviceID.Valid {
			v := deviceID.String
			a.DeviceID = &v
		}
		results = append(results, a)
	}
	return results, rows.Err()
}
