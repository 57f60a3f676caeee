package sqlstore

import (
	"context"
	"database/sql"

	"geotrackd/module/core/domain"
	"geotrackd/module/core/internal/repository/database"
)

var _ database.PositionRepository = (*PositionRepo)(nil)

type PositionRepo struct {
	repo
}

func NewPositionRepo(db *sql.DB, driver string) *PositionRepo {
	return &PositionRepo{repo{db: db, driver: driver}}
}

func (r *PositionRepo) Insert(ctx context.Context, sample *domain.PositionSample) error {
	_, err := r.db.ExecContext(ctx, r.q(
		`INSERT INTO user_location_history (user_id, device_id, latitude, longitude, accuracy, altitude, speed, heading, is_background, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`),
		sample.UserID, sample.DeviceID, sample.Latitude, sample.Longitude, sample.Accuracy,
		sample.Altitude, sample.Speed, sample.Heading, sample.IsBackground, sample.Timestamp,
	)
	return err
}

func (r *PositionRepo) GetHistory(ctx context.Context, query *domain.HistoryQuery) ([]domain.PositionSample, error) {
	rows, err := r.db.QueryContext(ctx, r.q(
		`SELECT user_id, device_id, latitude, longitude, accuracy, altitude, speed, heading, is_background, timestamp
		FROM user_location_history
		WHERE user_id = $1 AND timestamp >= $2 AND timestamp <= $3
		ORDER BY timestamp ASC`),
		query.UserID, query.Start, query.End,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []domain.PositionSample
	for rows.Next() {
		var s domain.PositionSample
		var deviceID sql.NullString
		var altitude, speed, heading sql.NullFloat64
		if err := rows.Scan(&s.UserID, &deviceID, &s.Latitude, &s.Longitude, &s.Accuracy,
			&altitude, &speed, &heading, &s.IsBackground, &s.Timestamp); err != nil {
			return nil, err
		}
		s.DeviceID = deviceID.String
		s.Altitude = nullFloat(altitude)
		s.Speed = nullFloat(speed)
		s.Heading = nullFloat(heading)
		results = append(results, s)
	}
	return results, rows.Err()
}

func (r *PositionRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM user_location_history`).Scan(&n)
	return n, err
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
