package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"geotrackd/module/core/domain"
	"geotrackd/module/core/internal/repository/database"
	"geotrackd/module/core/service"
)

type zoneService interface {
	Create(ctx context.Context, zone *domain.Zone) (*domain.Zone, error)
	List(ctx context.Context) ([]domain.Zone, error)
	Get(ctx context.Context, id int64) (*domain.Zone, error)
	Update(ctx context.Context, zone *domain.Zone) error
	Delete(ctx context.Context, id int64) error
}

type zoneRequest struct {
	Name       string  `json:"name"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Radius     float64 `json:"radius"`
	IsActive   *bool   `json:"is_active"`
	EntryAlert *bool   `json:"entry_alert"`
	ExitAlert  *bool   `json:"exit_alert"`
}

type GeofenceHandler struct {
	zoneSvc zoneService
}

func NewGeofenceHandler(zoneSvc zoneService) *GeofenceHandler {
	return &GeofenceHandler{zoneSvc: zoneSvc}
}

func (h *GeofenceHandler) Register(r *gin.RouterGroup) {
	r.GET("/geofences", h.List)
	r.POST("/geofences", h.Create)
	r.GET("/geofences/:id", h.Get)
	r.PUT("/geofences/:id", h.Update)
	r.DELETE("/geofences/:id", h.Delete)
}

func (h *GeofenceHandler) List(c *gin.Context) {
	zones, err := h.zoneSvc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to fetch geofences"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": zones, "total": len(zones)})
}

func (h *GeofenceHandler) Create(c *gin.Context) {
	var req zoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}

	zone := req.toZone()
	created, err := h.zoneSvc.Create(c.Request.Context(), zone)
	if err != nil {
		writeZoneError(c, err, "failed to create geofence")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": created})
}

func (h *GeofenceHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid geofence id"})
		return
	}
	zone, err := h.zoneSvc.Get(c.Request.Context(), id)
	if err != nil {
		writeZoneError(c, err, "failed to fetch geofence")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": zone})
}

func (h *GeofenceHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid geofence id"})
		return
	}

	var req zoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}

	zone := req.toZone()
	zone.ID = id
	if err := h.zoneSvc.Update(c.Request.Context(), zone); err != nil {
		writeZoneError(c, err, "failed to update geofence")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": zone})
}

func (h *GeofenceHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid geofence id"})
		return
	}
	if err := h.zoneSvc.Delete(c.Request.Context(), id); err != nil {
		writeZoneError(c, err, "failed to delete geofence")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (r *zoneRequest) toZone() *domain.Zone {
	zone := &domain.Zone{
		Name:       r.Name,
		Latitude:   r.Latitude,
		Longitude:  r.Longitude,
		Radius:     r.Radius,
		IsActive:   true,
		EntryAlert: true,
		ExitAlert:  true,
	}
	if r.IsActive != nil {
		zone.IsActive = *r.IsActive
	}
	if r.EntryAlert != nil {
		zone.EntryAlert = *r.EntryAlert
	}
	if r.ExitAlert != nil {
		zone.ExitAlert = *r.ExitAlert
	}
	return zone
}

func writeZoneError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, database.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "geofence not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": fallback})
	}
}
