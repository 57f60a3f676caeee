package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"geotrackd/module/core/domain"
	"geotrackd/module/core/internal/repository/database"
)

type mockPositionRepo struct {
	insertFn     func(ctx context.Context, sample *domain.PositionSample) error
	getHistoryFn func(ctx context.Context, query *domain.HistoryQuery) ([]domain.PositionSample, error)
}

func (m *mockPositionRepo) Insert(ctx context.Context, sample *domain.PositionSample) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, sample)
	}
	return nil
}

func (m *mockPositionRepo) GetHistory(ctx context.Context, query *domain.HistoryQuery) ([]domain.PositionSample, error) {
	if m.getHistoryFn != nil {
		return m.getHistoryFn(ctx, query)
	}
	return nil, nil
}

func (m *mockPositionRepo) Count(ctx context.Context) (int64, error) { return 0, nil }

type mockUserRepo struct {
	getFn           func(ctx context.Context, id int64) (*domain.User, error)
	updatePosFn     func(ctx context.Context, userID int64, lat, lon, accuracy float64, at time.Time) error
	updatePosCalled int
}

func (m *mockUserRepo) Insert(ctx context.Context, user *domain.User) (*domain.User, error) {
	return user, nil
}

func (m *mockUserRepo) List(ctx context.Context) ([]domain.User, error) { return nil, nil }

func (m *mockUserRepo) Get(ctx context.Context, id int64) (*domain.User, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return &domain.User{ID: id}, nil
}

func (m *mockUserRepo) Delete(ctx context.Context, id int64) error { return nil }

func (m *mockUserRepo) UpdateCurrentPosition(ctx context.Context, userID int64, lat, lon, accuracy float64, at time.Time) error {
	m.updatePosCalled++
	if m.updatePosFn != nil {
		return m.updatePosFn(ctx, userID, lat, lon, accuracy, at)
	}
	return nil
}

func (m *mockUserRepo) Count(ctx context.Context) (int64, error) { return 0, nil }

type mockDeviceRepo struct {
	touchFn     func(ctx context.Context, deviceID string, at time.Time) error
	touchCalled int
}

func (m *mockDeviceRepo) Insert(ctx context.Context, device *domain.Device) error { return nil }

func (m *mockDeviceRepo) TouchLastSeen(ctx context.Context, deviceID string, at time.Time) error {
	m.touchCalled++
	if m.touchFn != nil {
		return m.touchFn(ctx, deviceID, at)
	}
	return nil
}

type mockDetector struct {
	calls []*domain.PositionSample
}

func (m *mockDetector) Evaluate(ctx context.Context, sample *domain.PositionSample) {
	m.calls = append(m.calls, sample)
}

func newTrackService(positions *mockPositionRepo, users *mockUserRepo, devices *mockDeviceRepo, detector *mockDetector) *LocationService {
	return NewLocationService(positions, users, devices, detector, discardLogger())
}

func TestTrack_Success(t *testing.T) {
	var inserted *domain.PositionSample
	positions := &mockPositionRepo{
		insertFn: func(_ context.Context, sample *domain.PositionSample) error {
			inserted = sample
			return nil
		},
	}
	users := &mockUserRepo{}
	devices := &mockDeviceRepo{}
	detector := &mockDetector{}

	svc := newTrackService(positions, users, devices, detector)
	sample := sampleAt(7, officeLat, officeLon)
	sample.Timestamp = time.Unix(1715003456, 0)

	if err := svc.Track(context.Background(), sample); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inserted == nil {
		t.Fatal("expected Insert to be called")
	}
	if users.updatePosCalled != 1 {
		t.Errorf("UpdateCurrentPosition called %d times, want 1", users.updatePosCalled)
	}
	if devices.touchCalled != 1 {
		t.Errorf("TouchLastSeen called %d times, want 1", devices.touchCalled)
	}
	if len(detector.calls) != 1 {
		t.Fatalf("detector called %d times, want 1", len(detector.calls))
	}
	if detector.calls[0].UserID != 7 {
		t.Errorf("detector saw user %d, want 7", detector.calls[0].UserID)
	}
}

func TestTrack_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *domain.PositionSample)
	}{
		{"missing user", func(s *domain.PositionSample) { s.UserID = 0 }},
		{"lat too low", func(s *domain.PositionSample) { s.Latitude = -90.0001 }},
		{"lat too high", func(s *domain.PositionSample) { s.Latitude = 90.0001 }},
		{"lat NaN", func(s *domain.PositionSample) { s.Latitude = math.NaN() }},
		{"lon too low", func(s *domain.PositionSample) { s.Longitude = -180.0001 }},
		{"lon too high", func(s *domain.PositionSample) { s.Longitude = 180.0001 }},
		{"lon Inf", func(s *domain.PositionSample) { s.Longitude = math.Inf(1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			positions := &mockPositionRepo{
				insertFn: func(_ context.Context, _ *domain.PositionSample) error {
					t.Fatal("Insert should not be called for an invalid sample")
					return nil
				},
			}
			detector := &mockDetector{}
			svc := newTrackService(positions, &mockUserRepo{}, &mockDeviceRepo{}, detector)

			sample := sampleAt(7, officeLat, officeLon)
			tt.mutate(sample)

			err := svc.Track(context.Background(), sample)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("error = %v, want ErrValidation", err)
			}
			if len(detector.calls) != 0 {
				t.Error("detector must not run on a rejected sample")
			}
		})
	}
}

func TestTrack_BoundaryCoordinatesAccepted(t *testing.T) {
	svc := newTrackService(&mockPositionRepo{}, &mockUserRepo{}, &mockDeviceRepo{}, &mockDetector{})

	for _, p := range []struct{ lat, lon float64 }{
		{90, 180}, {-90, -180}, {0, 0},
	} {
		if err := svc.Track(context.Background(), sampleAt(7, p.lat, p.lon)); err != nil {
			t.Errorf("Track(%f, %f) = %v, want nil", p.lat, p.lon, err)
		}
	}
}

func TestTrack_DefaultsTimestamp(t *testing.T) {
	var inserted *domain.PositionSample
	positions := &mockPositionRepo{
		insertFn: func(_ context.Context, sample *domain.PositionSample) error {
			inserted = sample
			return nil
		},
	}
	svc := newTrackService(positions, &mockUserRepo{}, &mockDeviceRepo{}, &mockDetector{})

	before := time.Now().UTC()
	if err := svc.Track(context.Background(), sampleAt(7, officeLat, officeLon)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inserted.Timestamp.Before(before) || inserted.Timestamp.After(time.Now().UTC()) {
		t.Errorf("defaulted timestamp = %v, want ~now", inserted.Timestamp)
	}
}

func TestTrack_InsertErrorSkipsDetector(t *testing.T) {
	positions := &mockPositionRepo{
		insertFn: func(_ context.Context, _ *domain.PositionSample) error {
			return errors.New("db error")
		},
	}
	detector := &mockDetector{}
	svc := newTrackService(positions, &mockUserRepo{}, &mockDeviceRepo{}, detector)

	err := svc.Track(context.Background(), sampleAt(7, officeLat, officeLon))
	if err == nil {
		t.Fatal("expected error")
	}
	if len(detector.calls) != 0 {
		t.Error("detector must not run when the history append fails")
	}
}

func TestTrack_BestEffortFailuresStillEvaluate(t *testing.T) {
	users := &mockUserRepo{
		updatePosFn: func(_ context.Context, _ int64, _, _, _ float64, _ time.Time) error {
			return errors.New("update failed")
		},
	}
	devices := &mockDeviceRepo{
		touchFn: func(_ context.Context, _ string, _ time.Time) error {
			return errors.New("touch failed")
		},
	}
	detector := &mockDetector{}
	svc := newTrackService(&mockPositionRepo{}, users, devices, detector)

	if err := svc.Track(context.Background(), sampleAt(7, officeLat, officeLon)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(detector.calls) != 1 {
		t.Fatalf("detector called %d times, want 1", len(detector.calls))
	}
}

func TestTrack_EmptyDeviceSkipsTouch(t *testing.T) {
	devices := &mockDeviceRepo{}
	svc := newTrackService(&mockPositionRepo{}, &mockUserRepo{}, devices, &mockDetector{})

	sample := sampleAt(7, officeLat, officeLon)
	sample.DeviceID = ""
	if err := svc.Track(context.Background(), sample); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if devices.touchCalled != 0 {
		t.Errorf("TouchLastSeen called %d times, want 0", devices.touchCalled)
	}
}

func TestGetLatest_Success(t *testing.T) {
	lat, lon, acc := officeLat, officeLon, 8.5
	at := time.Unix(1715003456, 0).UTC()
	users := &mockUserRepo{
		getFn: func(_ context.Context, id int64) (*domain.User, error) {
			return &domain.User{
				ID:                 id,
				CurrentLatitude:    &lat,
				CurrentLongitude:   &lon,
				LocationAccuracy:   &acc,
				LastLocationUpdate: &at,
			}, nil
		},
	}
	svc := newTrackService(&mockPositionRepo{}, users, &mockDeviceRepo{}, nil)

	loc, err := svc.GetLatest(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loc.Latitude != officeLat || loc.Longitude != officeLon {
		t.Errorf("position = (%f, %f), want (%f, %f)", loc.Latitude, loc.Longitude, officeLat, officeLon)
	}
	if !loc.UpdatedAt.Equal(at) {
		t.Errorf("updated at = %v, want %v", loc.UpdatedAt, at)
	}
}

func TestGetLatest_NoPositionYet(t *testing.T) {
	users := &mockUserRepo{
		getFn: func(_ context.Context, id int64) (*domain.User, error) {
			return &domain.User{ID: id}, nil
		},
	}
	svc := newTrackService(&mockPositionRepo{}, users, &mockDeviceRepo{}, nil)

	_, err := svc.GetLatest(context.Background(), 7)
	if !errors.Is(err, database.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestGetLatest_UnknownUser(t *testing.T) {
	users := &mockUserRepo{
		getFn: func(_ context.Context, _ int64) (*domain.User, error) {
			return nil, database.ErrNotFound
		},
	}
	svc := newTrackService(&mockPositionRepo{}, users, &mockDeviceRepo{}, nil)

	if _, err := svc.GetLatest(context.Background(), 99); !errors.Is(err, database.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestGetHistory(t *testing.T) {
	positions := &mockPositionRepo{
		getHistoryFn: func(_ context.Context, query *domain.HistoryQuery) ([]domain.PositionSample, error) {
			return []domain.PositionSample{
				{UserID: query.UserID, Latitude: officeLat, Longitude: officeLon},
				{UserID: query.UserID, Latitude: 35.7000, Longitude: 51.4000},
			}, nil
		},
	}
	svc := newTrackService(positions, &mockUserRepo{}, &mockDeviceRepo{}, nil)

	results, err := svc.GetHistory(context.Background(), &domain.HistoryQuery{
		UserID: 7,
		Start:  time.Unix(1715000000, 0),
		End:    time.Unix(1715009999, 0),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
}
