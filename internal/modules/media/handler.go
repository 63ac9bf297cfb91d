package media

import (
	"errors"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/livingwaterchurch0508/living-water-flow-home-renewal-sub000/internal/pkg/response"
	"github.com/livingwaterchurch0508/living-water-flow-home-renewal-sub000/internal/storage"
)

type Handler struct {
	service *Service
	// fallbackPath is a local asset served when the object store itself is
	// unreachable, so a page render never loses its images to a config
	// problem. Empty disables the fallback and the handler answers 500.
	fallbackPath string
}

func NewHandler(service *Service, fallbackPath string) *Handler {
	return &Handler{service: service, fallbackPath: fallbackPath}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/media", h.ServeMedia)
}

// ServeMedia handles GET /media?name=<objectKey>&size=<hint>.
func (h *Handler) ServeMedia(c *gin.Context) {
	name := c.Query("name")
	size, _ := strconv.Atoi(c.DefaultQuery("size", "0"))

	res, err := h.service.Serve(c.Request.Context(), name, size)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingName):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "name query parameter is required")
		case errors.Is(err, ErrStoreUnavailable):
			if h.serveFallback(c) {
				return
			}
			response.ErrorWithDetails(c, http.StatusInternalServerError, "STORE_UNAVAILABLE",
				"object store is not available", err.Error())
		case errors.Is(err, storage.ErrObjectNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "object not found")
		default:
			response.ErrorWithDetails(c, http.StatusInternalServerError, "MEDIA_ERROR",
				"failed to serve media", err.Error())
		}
		return
	}

	if c.GetHeader("If-None-Match") == res.ETag {
		c.Header("ETag", res.ETag)
		c.Status(http.StatusNotModified)
		return
	}

	c.Header("Cache-Control", res.CacheControl)
	c.Header("ETag", res.ETag)
	c.Data(http.StatusOK, res.ContentType, res.Data)
}

func (h *Handler) serveFallback(c *gin.Context) bool {
	if h.fallbackPath == "" {
		return false
	}
	if _, err := os.Stat(h.fallbackPath); err != nil {
		return false
	}
	c.Header("Cache-Control", "no-store")
	c.File(h.fallbackPath)
	return true
}
