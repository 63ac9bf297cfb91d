package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/livingwaterchurch0508/living-water-flow-home-renewal-sub000/internal/pkg/response"
)

type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/login", h.Login)
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Password is required")
		return
	}

	token, err := h.service.Login(req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid password")
		case errors.Is(err, ErrNotConfigured):
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Admin login is not configured")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to sign in")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"token": token})
}
