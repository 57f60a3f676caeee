package domain

import "time"

type User struct {
	ID                 int64      `json:"id"`
	Name               string     `json:"name"`
	Email              string     `json:"email"`
	Status             string     `json:"status"`
	Role               string     `json:"role"`
	CurrentLatitude    *float64   `json:"current_latitude,omitempty"`
	CurrentLongitude   *float64   `json:"current_longitude,omitempty"`
	LocationAccuracy   *float64   `json:"location_accuracy,omitempty"`
	LastLocationUpdate *time.Time `json:"last_location_update,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

// Device is a registered tracker client. IDs are server-assigned UUIDs.
type Device struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	Platform  string    `json:"platform"`
	LastSeen  time.Time `json:"last_seen"`
	CreatedAt time.Time `json:"created_at"`
}

type Stats struct {
	Users     int64 `json:"users"`
	Zones     int64 `json:"geofences"`
	Events    int64 `json:"events"`
	Positions int64 `json:"positions"`
}
