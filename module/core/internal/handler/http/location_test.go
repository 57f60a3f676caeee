package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"geotrackd/module/core/domain"
	"geotrackd/module/core/internal/repository/database"
	"geotrackd/module/core/service"
)

type mockLocationService struct {
	trackFn      func(ctx context.Context, sample *domain.PositionSample) error
	getLatestFn  func(ctx context.Context, userID int64) (*domain.TrackedLocation, error)
	getHistoryFn func(ctx context.Context, query *domain.HistoryQuery) ([]domain.PositionSample, error)
}

func (m *mockLocationService) Track(ctx context.Context, sample *domain.PositionSample) error {
	return m.trackFn(ctx, sample)
}

func (m *mockLocationService) GetLatest(ctx context.Context, userID int64) (*domain.TrackedLocation, error) {
	return m.getLatestFn(ctx, userID)
}

func (m *mockLocationService) GetHistory(ctx context.Context, query *domain.HistoryQuery) ([]domain.PositionSample, error) {
	return m.getHistoryFn(ctx, query)
}

func setupLocationRouter(svc locationService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewLocationHandler(svc)
	h.Register(r.Group("/api"))
	return r
}

func postJSON(r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestUpdateLocation_Success(t *testing.T) {
	var tracked *domain.PositionSample
	svc := &mockLocationService{
		trackFn: func(_ context.Context, sample *domain.PositionSample) error {
			tracked = sample
			return nil
		},
	}
	r := setupLocationRouter(svc)

	w := postJSON(r, "/api/location/update", updateLocationRequest{
		UserID:    7,
		DeviceID:  "device-test-0001",
		Latitude:  35.6892,
		Longitude: 51.3890,
		Accuracy:  5,
		Timestamp: 1715003456,
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if tracked == nil {
		t.Fatal("expected Track to be called")
	}
	if tracked.UserID != 7 || tracked.Latitude != 35.6892 {
		t.Errorf("tracked sample = %+v", tracked)
	}
	want := time.Unix(1715003456, 0).UTC()
	if !tracked.Timestamp.Equal(want) {
		t.Errorf("timestamp = %v, want %v", tracked.Timestamp, want)
	}
}

func TestUpdateLocation_InvalidBody(t *testing.T) {
	svc := &mockLocationService{
		trackFn: func(_ context.Context, _ *domain.PositionSample) error {
			t.Fatal("Track should not be called")
			return nil
		},
	}
	r := setupLocationRouter(svc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/location/update", bytes.NewReader([]byte("{broken")))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestUpdateLocation_ValidationError(t *testing.T) {
	svc := &mockLocationService{
		trackFn: func(_ context.Context, _ *domain.PositionSample) error {
			return fmt.Errorf("%w: latitude: must be between -90 and 90", service.ErrValidation)
		},
	}
	r := setupLocationRouter(svc)

	w := postJSON(r, "/api/location/update", updateLocationRequest{UserID: 7, Latitude: 200})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestUpdateLocation_InternalError(t *testing.T) {
	svc := &mockLocationService{
		trackFn: func(_ context.Context, _ *domain.PositionSample) error {
			return errors.New("db down")
		},
	}
	r := setupLocationRouter(svc)

	w := postJSON(r, "/api/location/update", updateLocationRequest{UserID: 7})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestGetLatestLocation_Success(t *testing.T) {
	at := time.Unix(1715003456, 0).UTC()
	svc := &mockLocationService{
		getLatestFn: func(_ context.Context, userID int64) (*domain.TrackedLocation, error) {
			if userID != 7 {
				t.Fatalf("unexpected user id: %d", userID)
			}
			return &domain.TrackedLocation{
				UserID: 7, Latitude: 35.6892, Longitude: 51.3890, Accuracy: 5, UpdatedAt: at,
			}, nil
		},
	}
	r := setupLocationRouter(svc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/users/7/location", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp locationResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.UserID != 7 || resp.Latitude != 35.6892 {
		t.Errorf("response = %+v", resp)
	}
	if resp.UpdatedAt != 1715003456 {
		t.Errorf("updated_at = %d, want 1715003456", resp.UpdatedAt)
	}
}

func TestGetLatestLocation_NotFound(t *testing.T) {
	svc := &mockLocationService{
		getLatestFn: func(_ context.Context, _ int64) (*domain.TrackedLocation, error) {
			return nil, database.ErrNotFound
		},
	}
	r := setupLocationRouter(svc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/users/99/location", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestGetLatestLocation_BadID(t *testing.T) {
	r := setupLocationRouter(&mockLocationService{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/users/abc/location", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestGetHistory_Success(t *testing.T) {
	svc := &mockLocationService{
		getHistoryFn: func(_ context.Context, query *domain.HistoryQuery) ([]domain.PositionSample, error) {
			if query.UserID != 7 {
				t.Fatalf("unexpected user id: %d", query.UserID)
			}
			if !query.Start.Equal(time.Unix(1715000000, 0)) || !query.End.Equal(time.Unix(1715009999, 0)) {
				t.Fatalf("unexpected window: %v - %v", query.Start, query.End)
			}
			return []domain.PositionSample{
				{UserID: 7, Latitude: 35.6892, Longitude: 51.3890},
				{UserID: 7, Latitude: 35.7000, Longitude: 51.4000},
			}, nil
		},
	}
	r := setupLocationRouter(svc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/users/7/history?start=1715000000&end=1715009999", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Success bool                    `json:"success"`
		Data    []domain.PositionSample `json:"data"`
		Total   int                     `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Total != 2 || len(resp.Data) != 2 {
		t.Errorf("total = %d, data = %d, want 2", resp.Total, len(resp.Data))
	}
}

func TestGetHistory_MissingWindow(t *testing.T) {
	r := setupLocationRouter(&mockLocationService{})

	for _, path := range []string{
		"/api/users/7/history",
		"/api/users/7/history?start=1715000000",
		"/api/users/7/history?start=abc&end=1715009999",
	} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", path, nil)
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", path, w.Code)
		}
	}
}
