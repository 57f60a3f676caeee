package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"geotrackd/module/core/domain"
	"geotrackd/module/core/internal/repository/publisher"
)

const earthRadiusMeters = 6371000

type zoneSource interface {
	ListActive(ctx context.Context) ([]domain.Zone, error)
}

type eventLog interface {
	LastEvent(ctx context.Context, userID, zoneID int64) (*domain.TransitionEvent, error)
	Append(ctx context.Context, event *domain.TransitionEvent) error
}

type activityLog interface {
	Insert(ctx context.Context, activity *domain.Activity) error
}

// GeofenceService runs the transition detector: for every accepted position
// sample it classifies enter/exit against each active zone, using the most
// recent recorded event for the (user, zone) pair as the membership state.
// Events are appended exactly when membership changes, so the per-pair event
// log strictly alternates enter/exit starting with enter.
type GeofenceService struct {
	zones      zoneSource
	events     eventLog
	activities activityLog
	publisher  publisher.AlertPublisher
	logger     *slog.Logger

	mu    sync.Mutex
	locks map[pairKey]*sync.Mutex
}

type pairKey struct {
	userID int64
	zoneID int64
}

func NewGeofenceService(
	zones zoneSource,
	events eventLog,
	activities activityLog,
	pub publisher.AlertPublisher,
	logger *slog.Logger,
) *GeofenceService {
	if logger == nil {
		logger = slog.Default()
	}
	return &GeofenceService{
		zones:      zones,
		events:     events,
		activities: activities,
		publisher:  pub,
		logger:     logger,
		locks:      make(map[pairKey]*sync.Mutex),
	}
}

// Evaluate checks one sample against all active zones. Zones are independent:
// a failure on one is logged and does not block the others, and Evaluate never
// fails the surrounding ingest.
func (s *GeofenceService) Evaluate(ctx context.Context, sample *domain.PositionSample) {
	zones, err := s.zones.ListActive(ctx)
	if err != nil {
		s.logger.Warn("zone list unavailable, skipping geofence evaluation",
			"user_id", sample.UserID, "error", err)
		return
	}

	for i := range zones {
		s.evaluateZone(ctx, &zones[i], sample)
	}
}

func (s *GeofenceService) evaluateZone(ctx context.Context, zone *domain.Zone, sample *domain.PositionSample) {
	if !zone.IsActive {
		return
	}

	dist := haversine(sample.Latitude, sample.Longitude, zone.Latitude, zone.Longitude)
	inside := dist <= zone.Radius

	// Lookup and append must be atomic per (user, zone): two concurrent
	// samples could otherwise both read "no prior event" and both emit
	// an enter.
	unlock := s.lockPair(sample.UserID, zone.ID)
	defer unlock()

	last, err := s.events.LastEvent(ctx, sample.UserID, zone.ID)
	if err != nil {
		// Fail closed: assume no prior event rather than suppressing a
		// legitimate enter indefinitely.
		s.logger.Warn("last event lookup failed, assuming no prior event",
			"user_id", sample.UserID, "zone_id", zone.ID, "error", err)
		last = nil
	}

	eventType, changed := classify(inside, last)
	if !changed {
		return
	}

	event := &domain.TransitionEvent{
		UserID:    sample.UserID,
		DeviceID:  sample.DeviceID,
		ZoneID:    zone.ID,
		Type:      eventType,
		Latitude:  sample.Latitude,
		Longitude: sample.Longitude,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.events.Append(ctx, event); err != nil {
		// One retry on a write conflict, then drop the sample for this
		// zone rather than failing the request.
		if err2 := s.events.Append(ctx, event); err2 != nil {
			s.logger.Warn("event append failed, dropping transition",
				"user_id", sample.UserID, "zone_id", zone.ID,
				"event_type", eventType, "error", err2)
			return
		}
	}

	s.notify(ctx, zone, event)
}

// classify decides enter/exit/no-op from current membership and the most
// recent recorded event. An enter can only follow an exit or nothing, an exit
// can only follow an enter.
func classify(inside bool, last *domain.TransitionEvent) (domain.EventType, bool) {
	if inside {
		if last == nil || last.Type == domain.EventExit {
			return domain.EventEnter, true
		}
		return "", false
	}
	if last != nil && last.Type == domain.EventEnter {
		return domain.EventExit, true
	}
	return "", false
}

// notify emits the user-facing side effects. The alert flags gate only these;
// the transition event itself has already been recorded. Both sinks are
// best-effort.
func (s *GeofenceService) notify(ctx context.Context, zone *domain.Zone, event *domain.TransitionEvent) {
	wanted := (event.Type == domain.EventEnter && zone.EntryAlert) ||
		(event.Type == domain.EventExit && zone.ExitAlert)
	if !wanted {
		return
	}

	action := domain.ActionGeofenceEnter
	details := fmt.Sprintf("User entered geofence: %s", zone.Name)
	if event.Type == domain.EventExit {
		action = domain.ActionGeofenceExit
		details = fmt.Sprintf("User exited geofence: %s", zone.Name)
	}

	activity := &domain.Activity{
		Action:    action,
		Details:   details,
		UserID:    &event.UserID,
		DeviceID:  &event.DeviceID,
		CreatedAt: event.CreatedAt,
	}
	if err := s.activities.Insert(ctx, activity); err != nil {
		s.logger.Warn("activity log insert failed",
			"action", action, "user_id", event.UserID, "error", err)
	}

	if s.publisher == nil {
		return
	}
	alert := &domain.Alert{
		UserID:    event.UserID,
		DeviceID:  event.DeviceID,
		ZoneID:    zone.ID,
		ZoneName:  zone.Name,
		Event:     event.Type,
		Latitude:  event.Latitude,
		Longitude: event.Longitude,
		Timestamp: event.CreatedAt.Unix(),
	}
	if err := s.publisher.PublishAlert(ctx, alert); err != nil {
		s.logger.Warn("alert publish failed",
			"zone_id", zone.ID, "user_id", event.UserID, "error", err)
	}
}

func (s *GeofenceService) lockPair(userID, zoneID int64) func() {
	key := pairKey{userID: userID, zoneID: zoneID}
	s.mu.Lock()
	m, ok := s.locks[key]
	if !ok {
		m = &sync.Mutex{}
		s.locks[key] = m
	}
	s.mu.Unlock()
	m.Lock()
	return m.Unlock
}

// haversine returns the great-circle distance in meters between two points
// given in decimal degrees.
func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
