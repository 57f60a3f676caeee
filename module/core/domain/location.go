package domain

import "time"

// PositionSample is one raw device fix. Immutable once accepted; appended to
// the per-user history. Accuracy is advisory metadata and never grounds a
// rejection.
type PositionSample struct {
	UserID       int64     `json:"user_id"`
	DeviceID     string    `json:"device_id"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	Accuracy     float64   `json:"accuracy"`
	Altitude     *float64  `json:"altitude,omitempty"`
	Speed        *float64  `json:"speed,omitempty"`
	Heading      *float64  `json:"heading,omitempty"`
	IsBackground bool      `json:"is_background"`
	Timestamp    time.Time `json:"timestamp"`
}

// TrackedLocation is a user's last known position. Overwritten on every
// accepted sample, independent of geofencing.
type TrackedLocation struct {
	UserID    int64     `json:"user_id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Accuracy  float64   `json:"accuracy"`
	UpdatedAt time.Time `json:"updated_at"`
}

type HistoryQuery struct {
	UserID int64
	Start  time.Time
	End    time.Time
}
