package domain

import "time"

// Zone is a circular geofence. Created and edited by administrators,
// read-only to the transition detector.
type Zone struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Radius     float64   `json:"radius"` // meters, > 0
	IsActive   bool      `json:"is_active"`
	EntryAlert bool      `json:"entry_alert"`
	ExitAlert  bool      `json:"exit_alert"`
	CreatedAt  time.Time `json:"created_at"`
}

type EventType string

const (
	EventEnter EventType = "enter"
	EventExit  EventType = "exit"
)

// TransitionEvent records a user crossing a zone boundary. The event log for
// a (user, zone) pair strictly alternates enter/exit, starting with enter.
type TransitionEvent struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	DeviceID  string    `json:"device_id"`
	ZoneID    int64     `json:"geofence_id"`
	Type      EventType `json:"event_type"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	CreatedAt time.Time `json:"created_at"`
}

// Alert is the notification payload published when a transition happens on a
// zone whose corresponding alert flag is set.
type Alert struct {
	UserID    int64     `json:"user_id"`
	DeviceID  string    `json:"device_id"`
	ZoneID    int64     `json:"geofence_id"`
	ZoneName  string    `json:"geofence_name"`
	Event     EventType `json:"event"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Timestamp int64     `json:"timestamp"`
}
