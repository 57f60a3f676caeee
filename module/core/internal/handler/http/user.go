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

type adminService interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	DeleteUser(ctx context.Context, id int64) error
	RegisterDevice(ctx context.Context, userID int64, name, platform string) (*domain.Device, error)
}

type createUserRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Status string `json:"status"`
	Role   string `json:"role"`
}

type registerDeviceRequest struct {
	UserID   int64  `json:"user_id"`
	Name     string `json:"name"`
	Platform string `json:"platform"`
}

type UserHandler struct {
	adminSvc adminService
}

func NewUserHandler(adminSvc adminService) *UserHandler {
	return &UserHandler{adminSvc: adminSvc}
}

func (h *UserHandler) Register(r *gin.RouterGroup) {
	r.GET("/users", h.List)
	r.POST("/users", h.Create)
	r.GET("/users/:id", h.Get)
	r.DELETE("/users/:id", h.Delete)
	r.POST("/devices/register", h.RegisterDevice)
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.adminSvc.ListUsers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to fetch users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": users, "total": len(users)})
}

func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}

	created, err := h.adminSvc.CreateUser(c.Request.Context(), &domain.User{
		Name:   req.Name,
		Email:  req.Email,
		Status: req.Status,
		Role:   req.Role,
	})
	if err != nil {
		writeUserError(c, err, "failed to create user")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": created})
}

func (h *UserHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	user, err := h.adminSvc.GetUser(c.Request.Context(), id)
	if err != nil {
		writeUserError(c, err, "failed to fetch user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	if err := h.adminSvc.DeleteUser(c.Request.Context(), id); err != nil {
		writeUserError(c, err, "failed to delete user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *UserHandler) RegisterDevice(c *gin.Context) {
	var req registerDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}

	device, err := h.adminSvc.RegisterDevice(c.Request.Context(), req.UserID, req.Name, req.Platform)
	if err != nil {
		writeUserError(c, err, "failed to register device")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": device})
}

func writeUserError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, database.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "user not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": fallback})
	}
}
