// Package memory is the demo-mode store: everything lives in process memory
// and the constructor can seed the same sample data the dashboard shows when
// no database is configured.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"geotrackd/module/core/domain"
	"geotrackd/module/core/internal/repository/database"
)

type Store struct {
	mu         sync.Mutex
	users      map[int64]*domain.User
	devices    map[string]*domain.Device
	zones      map[int64]*domain.Zone
	events     []domain.TransitionEvent
	positions  []domain.PositionSample
	activities []domain.Activity
	nextUser   int64
	nextZone   int64
	nextEvent  int64
	nextLog    int64
}

func NewStore(seed bool) *Store {
	s := &Store{
		users:    make(map[int64]*domain.User),
		devices:  make(map[string]*domain.Device),
		zones:    make(map[int64]*domain.Zone),
		nextUser: 1,
		nextZone: 1,
		nextEvent: 1,
		nextLog:  1,
	}
	if seed {
		s.seed()
	}
	return s
}

func (s *Store) seed() {
	created := time.Date(2024, 1, 20, 10, 0, 0, 0, time.UTC)
	for _, z := range []domain.Zone{
		{Name: "Head office perimeter", Latitude: 35.6892, Longitude: 51.3890, Radius: 100, IsActive: true, EntryAlert: true, ExitAlert: true},
		{Name: "Isfahan branch perimeter", Latitude: 32.6546, Longitude: 51.6680, Radius: 150, IsActive: true, EntryAlert: true, ExitAlert: false},
	} {
		z.CreatedAt = created
		zone := z
		zone.ID = s.nextZone
		s.nextZone++
		s.zones[zone.ID] = &zone
	}
	for _, u := range []domain.User{
		{Name: "Sara Ahmadi", Email: "sara@example.com", Status: "active", Role: "admin"},
		{Name: "Omid Karimi", Email: "omid@example.com", Status: "active", Role: "user"},
	} {
		u.CreatedAt = created
		user := u
		user.ID = s.nextUser
		s.nextUser++
		s.users[user.ID] = &user
	}
}

func (s *Store) Users() database.UserRepository         { return &userRepo{s} }
func (s *Store) Devices() database.DeviceRepository     { return &deviceRepo{s} }
func (s *Store) Zones() database.ZoneRepository         { return &zoneRepo{s} }
func (s *Store) Positions() database.PositionRepository { return &positionRepo{s} }
func (s *Store) Events() database.EventRepository       { return &eventRepo{s} }
func (s *Store) Activities() database.ActivityRepository {
	return &activityRepo{s}
}

type zoneRepo struct{ s *Store }

func (r *zoneRepo) Insert(_ context.Context, zone *domain.Zone) (*domain.Zone, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	created := *zone
	created.ID = r.s.nextZone
	r.s.nextZone++
	r.s.zones[created.ID] = &created
	out := created
	return &out, nil
}

func (r *zoneRepo) List(_ context.Context) ([]domain.Zone, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	results := make([]domain.Zone, 0, len(r.s.zones))
	for _, z := range r.s.zones {
		results = append(results, *z)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID > results[j].ID })
	return results, nil
}

func (r *zoneRepo) ListActive(_ context.Context) ([]domain.Zone, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var results []domain.Zone
	for _, z := range r.s.zones {
		if z.IsActive {
			results = append(results, *z)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

func (r *zoneRepo) Get(_ context.Context, id int64) (*domain.Zone, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	z, ok := r.s.zones[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	out := *z
	return &out, nil
}

func (r *zoneRepo) Update(_ context.Context, zone *domain.Zone) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.zones[zone.ID]
	if !ok {
		return database.ErrNotFound
	}
	updated := *zone
	updated.CreatedAt = existing.CreatedAt
	r.s.zones[zone.ID] = &updated
	return nil
}

func (r *zoneRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.zones[id]; !ok {
		return database.ErrNotFound
	}
	delete(r.s.zones, id)
	return nil
}

func (r *zoneRepo) Count(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.zones)), nil
}

type positionRepo struct{ s *Store }

func (r *positionRepo) Insert(_ context.Context, sample *domain.PositionSample) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.positions = append(r.s.positions, *sample)
	return nil
}

func (r *positionRepo) GetHistory(_ context.Context, query *domain.HistoryQuery) ([]domain.PositionSample, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var results []domain.PositionSample
	for _, p := range r.s.positions {
		if p.UserID != query.UserID {
			continue
		}
		if p.Timestamp.Before(query.Start) || p.Timestamp.After(query.End) {
			continue
		}
		results = append(results, p)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Timestamp.Before(results[j].Timestamp) })
	return results, nil
}

func (r *positionRepo) Count(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.positions)), nil
}

type eventRepo struct{ s *Store }

func (r *eventRepo) LastEvent(_ context.Context, userID, zoneID int64) (*domain.TransitionEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := len(r.s.events) - 1; i >= 0; i-- {
		ev := r.s.events[i]
		if ev.UserID == userID && ev.ZoneID == zoneID {
			return &ev, nil
		}
	}
	return nil, nil
}

func (r *eventRepo) Append(_ context.Context, event *domain.TransitionEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	event.ID = r.s.nextEvent
	r.s.nextEvent++
	r.s.events = append(r.s.events, *event)
	return nil
}

func (r *eventRepo) ListRecent(_ context.Context, limit int) ([]domain.TransitionEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var results []domain.TransitionEvent
	for i := len(r.s.events) - 1; i >= 0 && len(results) < limit; i-- {
		results = append(results, r.s.events[i])
	}
	return results, nil
}

func (r *eventRepo) Count(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.events)), nil
}

type activityRepo struct{ s *Store }

func (r *activityRepo) Insert(_ context.Context, activity *domain.Activity) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored := *activity
	stored.ID = r.s.nextLog
	r.s.nextLog++
	r.s.activities = append(r.s.activities, stored)
	return nil
}

func (r *activityRepo) ListRecent(_ context.Context, limit int) ([]domain.Activity, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var results []domain.Activity
	for i := len(r.s.activities) - 1; i >= 0 && len(results) < limit; i-- {
		results = append(results, r.s.activities[i])
	}
	return results, nil
}

type userRepo struct{ s *Store }

func (r *userRepo) Insert(_ context.Context, user *domain.User) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	created := *user
	created.ID = r.s.nextUser
	r.s.nextUser++
	r.s.users[created.ID] = &created
	out := created
	return &out, nil
}

func (r *userRepo) List(_ context.Context) ([]domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	results := make([]domain.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		results = append(results, *u)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID > results[j].ID })
	return results, nil
}

func (r *userRepo) Get(_ context.Context, id int64) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	out := *u
	return &out, nil
}

func (r *userRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return database.ErrNotFound
	}
	delete(r.s.users, id)
	return nil
}

func (r *userRepo) UpdateCurrentPosition(_ context.Context, userID int64, lat, lon, accuracy float64, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok {
		return database.ErrNotFound
	}
	u.CurrentLatitude = &lat
	u.CurrentLongitude = &lon
	u.LocationAccuracy = &accuracy
	t := at
	u.LastLocationUpdate = &t
	return nil
}

func (r *userRepo) Count(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.users)), nil
}

type deviceRepo struct{ s *Store }

func (r *deviceRepo) Insert(_ context.Context, device *domain.Device) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored := *device
	r.s.devices[stored.ID] = &stored
	return nil
}

func (r *deviceRepo) TouchLastSeen(_ context.Context, deviceID string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if d, ok := r.s.devices[deviceID]; ok {
		d.LastSeen = at
	}
	return nil
}
