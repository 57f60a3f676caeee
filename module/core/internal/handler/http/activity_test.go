package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"geotrackd/module/core/domain"
)

type mockFeedService struct {
	listEventsFn     func(ctx context.Context, limit int) ([]domain.TransitionEvent, error)
	listActivitiesFn func(ctx context.Context, limit int) ([]domain.Activity, error)
	statsFn          func(ctx context.Context) (*domain.Stats, error)
}

func (m *mockFeedService) ListEvents(ctx context.Context, limit int) ([]domain.TransitionEvent, error) {
	return m.listEventsFn(ctx, limit)
}

func (m *mockFeedService) ListActivities(ctx context.Context, limit int) ([]domain.Activity, error) {
	return m.listActivitiesFn(ctx, limit)
}

func (m *mockFeedService) Stats(ctx context.Context) (*domain.Stats, error) {
	return m.statsFn(ctx)
}

func setupFeedRouter(svc feedService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewActivityHandler(svc)
	h.Register(r.Group("/api"))
	return r
}

func TestListEvents(t *testing.T) {
	var gotLimit int
	svc := &mockFeedService{
		listEventsFn: func(_ context.Context, limit int) ([]domain.TransitionEvent, error) {
			gotLimit = limit
			return []domain.TransitionEvent{
				{ID: 1, UserID: 7, ZoneID: 1, Type: domain.EventEnter},
			}, nil
		},
	}
	r := setupFeedRouter(svc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/events?limit=10", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if gotLimit != 10 {
		t.Errorf("limit = %d, want 10", gotLimit)
	}
}

func TestListEvents_DefaultLimit(t *testing.T) {
	var gotLimit int
	svc := &mockFeedService{
		listEventsFn: func(_ context.Context, limit int) ([]domain.TransitionEvent, error) {
			gotLimit = limit
			return nil, nil
		},
	}
	r := setupFeedRouter(svc)

	for _, path := range []string{"/api/events", "/api/events?limit=abc"} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", path, nil)
		r.ServeHTTP(w, req)
		if gotLimit != 100 {
			t.Errorf("%s: limit = %d, want 100", path, gotLimit)
		}
	}
}

func TestListActivities_Error(t *testing.T) {
	svc := &mockFeedService{
		listActivitiesFn: func(_ context.Context, _ int) ([]domain.Activity, error) {
			return nil, errors.New("db down")
		},
	}
	r := setupFeedRouter(svc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/activities", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestStats(t *testing.T) {
	svc := &mockFeedService{
		statsFn: func(_ context.Context) (*domain.Stats, error) {
			return &domain.Stats{Users: 2, Zones: 2, Events: 9, Positions: 40}, nil
		},
	}
	r := setupFeedRouter(svc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/stats", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Data domain.Stats `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Data.Events != 9 {
		t.Errorf("events = %d, want 9", resp.Data.Events)
	}
}
