package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"geotrackd/module/core/domain"
)

type feedService interface {
	ListEvents(ctx context.Context, limit int) ([]domain.TransitionEvent, error)
	ListActivities(ctx context.Context, limit int) ([]domain.Activity, error)
	Stats(ctx context.Context) (*domain.Stats, error)
}

type ActivityHandler struct {
	feedSvc feedService
}

func NewActivityHandler(feedSvc feedService) *ActivityHandler {
	return &ActivityHandler{feedSvc: feedSvc}
}

func (h *ActivityHandler) Register(r *gin.RouterGroup) {
	r.GET("/events", h.ListEvents)
	r.GET("/activities", h.ListActivities)
	r.GET("/stats", h.Stats)
}

func (h *ActivityHandler) ListEvents(c *gin.Context) {
	events, err := h.feedSvc.ListEvents(c.Request.Context(), queryLimit(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to fetch events"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": events, "total": len(events)})
}

func (h *ActivityHandler) ListActivities(c *gin.Context) {
	activities, err := h.feedSvc.ListActivities(c.Request.Context(), queryLimit(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to fetch activities"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": activities, "total": len(activities)})
}

func (h *ActivityHandler) Stats(c *gin.Context) {
	stats, err := h.feedSvc.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to fetch stats"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": stats})
}

func queryLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil {
		return 100
	}
	return limit
}
