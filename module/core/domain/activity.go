package domain

import "time"

const (
	ActionGeofenceEnter = "GEOFENCE_ENTER"
	ActionGeofenceExit  = "GEOFENCE_EXIT"
)

// Activity is a human-readable server log entry.
type Activity struct {
	ID        int64     `json:"id"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	UserID    *int64    `json:"user_id,omitempty"`
	DeviceID  *string   `json:"device_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
