package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"geotrackd/module/core/domain"
	"geotrackd/module/core/service"
)

type locationService interface {
	Track(ctx context.Context, sample *domain.PositionSample) error
	GetLatest(ctx context.Context, userID int64) (*domain.TrackedLocation, error)
	GetHistory(ctx context.Context, query *domain.HistoryQuery) ([]domain.PositionSample, error)
}

type updateLocationRequest struct {
	UserID       int64    `json:"user_id"`
	DeviceID     string   `json:"device_id"`
	Latitude     float64  `json:"latitude"`
	Longitude    float64  `json:"longitude"`
	Accuracy     float64  `json:"accuracy"`
	Altitude     *float64 `json:"altitude"`
	Speed        *float64 `json:"speed"`
	Heading      *float64 `json:"heading"`
	IsBackground bool     `json:"is_background"`
	Timestamp    int64    `json:"timestamp"` // unix seconds; zero means receipt time
}

type locationResponse struct {
	UserID    int64   `json:"user_id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  float64 `json:"accuracy"`
	UpdatedAt int64   `json:"updated_at"`
}

type LocationHandler struct {
	locationSvc locationService
}

func NewLocationHandler(locationSvc locationService) *LocationHandler {
	return &LocationHandler{locationSvc: locationSvc}
}

func (h *LocationHandler) Register(r *gin.RouterGroup) {
	r.POST("/location/update", h.UpdateLocation)
	r.GET("/users/:id/location", h.GetLatestLocation)
	r.GET("/users/:id/history", h.GetHistory)
}

func (h *LocationHandler) UpdateLocation(c *gin.Context) {
	var req updateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}

	sample := &domain.PositionSample{
		UserID:       req.UserID,
		DeviceID:     req.DeviceID,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		Accuracy:     req.Accuracy,
		Altitude:     req.Altitude,
		Speed:        req.Speed,
		Heading:      req.Heading,
		IsBackground: req.IsBackground,
	}
	if req.Timestamp > 0 {
		sample.Timestamp = time.Unix(req.Timestamp, 0).UTC()
	}

	if err := h.locationSvc.Track(c.Request.Context(), sample); err != nil {
		if errors.Is(err, service.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to record location"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "location updated"})
}

func (h *LocationHandler) GetLatestLocation(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	loc, err := h.locationSvc.GetLatest(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "location not found"})
		return
	}

	c.JSON(http.StatusOK, locationResponse{
		UserID:    loc.UserID,
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
		Accuracy:  loc.Accuracy,
		UpdatedAt: loc.UpdatedAt.Unix(),
	})
}

func (h *LocationHandler) GetHistory(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	start, err := strconv.ParseInt(c.Query("start"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start parameter"})
		return
	}

	end, err := strconv.ParseInt(c.Query("end"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end parameter"})
		return
	}

	query := &domain.HistoryQuery{
		UserID: userID,
		Start:  time.Unix(start, 0),
		End:    time.Unix(end, 0),
	}

	samples, err := h.locationSvc.GetHistory(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": samples, "total": len(samples)})
}
