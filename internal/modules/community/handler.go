package community

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/livingwaterchurch0508/living-water-flow-home-renewal-sub000/internal/modules/media"
	"github.com/livingwaterchurch0508/living-water-flow-home-renewal-sub000/internal/pkg/response"
)

// Uploads above this size are rejected before buffering.
const maxUploadBytes = 20 << 20

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the public read endpoints.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/communities", h.ListCommunities)
	rg.GET("/communities/:id", h.GetCommunity)
}

// RegisterAdminRoutes mounts the edit endpoints behind the admin guard.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/communities", h.CreateCommunity)
	rg.PUT("/communities/:id", h.UpdateCommunity)
	rg.DELETE("/communities/:id", h.DeleteCommunity)
}

func (h *Handler) ListCommunities(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	posts, total, err := h.service.List(c.Request.Context(), limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list community posts")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"communities": posts, "total": total})
}

func (h *Handler) GetCommunity(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid community ID")
		return
	}

	post, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Community post not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load community post")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"community": post})
}

func (h *Handler) CreateCommunity(c *gin.Context) {
	req := CreateCommunityRequest{
		Title:    c.PostForm("title"),
		Content:  c.PostForm("content"),
		Category: c.PostForm("category"),
	}

	additions, ok := h.readAdditions(c)
	if !ok {
		return
	}

	post, err := h.service.Create(c.Request.Context(), req, additions)
	if err != nil {
		h.writeServiceError(c, err, "Failed to create community post")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"community": post})
}

func (h *Handler) UpdateCommunity(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid community ID")
		return
	}

	req := UpdateCommunityRequest{}
	if v, exists := c.GetPostForm("title"); exists {
		req.Title = &v
	}
	if v, exists := c.GetPostForm("content"); exists {
		req.Content = &v
	}
	if v, exists := c.GetPostForm("category"); exists {
		req.Category = &v
	}

	// Deletions ride along as a JSON array of object file names.
	if raw := c.PostForm("deletions"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Deletions); err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "deletions must be a JSON array of file names")
			return
		}
	}

	additions, ok := h.readAdditions(c)
	if !ok {
		return
	}

	post, report, err := h.service.Update(c.Request.Context(), id, req, additions)
	if err != nil {
		h.writeServiceError(c, err, "Failed to update community post")
		return
	}

	data := gin.H{"community": post}
	if !report.AllSucceeded() {
		data["deletion_failures"] = report.Failed
	}
	response.Success(c, http.StatusOK, data)
}

func (h *Handler) DeleteCommunity(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid community ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.writeServiceError(c, err, "Failed to delete community post")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": id})
}

// readAdditions buffers the uploaded files in form order. Returns false
// after writing an error response.
func (h *Handler) readAdditions(c *gin.Context) ([]media.Addition, bool) {
	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, true
		}
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid multipart form")
		return nil, false
	}

	files := form.File["files"]
	additions := make([]media.Addition, 0, len(files))
	for _, fh := range files {
		if fh.Size > maxUploadBytes {
			response.Error(c, http.StatusBadRequest, "FILE_TOO_LARGE", "Uploaded file exceeds the size limit")
			return nil, false
		}
		data, err := readFile(fh)
		if err != nil {
			response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Failed to read uploaded file", err.Error())
			return nil, false
		}
		additions = append(additions, media.Addition{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return additions, true
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func (h *Handler) writeServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Title is required")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Community post not found")
	case errors.Is(err, ErrDuplicatePath):
		response.Error(c, http.StatusConflict, "CONFLICT", "Media path already in use")
	case errors.Is(err, media.ErrStoreUnavailable):
		response.Error(c, http.StatusInternalServerError, "STORE_UNAVAILABLE", "Object store is not available")
	default:
		response.ErrorWithDetails(c, http.StatusInternalServerError, "INTERNAL_ERROR", fallback, err.Error())
	}
}
