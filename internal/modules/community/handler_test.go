package community

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/livingwaterchurch0508/living-water-flow-home-renewal-sub000/internal/domain"
	"github.com/livingwaterchurch0508/living-water-flow-home-renewal-sub000/internal/modules/media"
	"github.com/livingwaterchurch0508/living-water-flow-home-renewal-sub000/internal/storage"
)

// memRepo keeps posts in memory so handler tests run without a database.
type memRepo struct {
	mu     sync.Mutex
	nextID int64
	posts  map[int64]*domain.Community
}

func newMemRepo() *memRepo {
	return &memRepo{nextID: 1, posts: map[int64]*domain.Community{}}
}

func (r *memRepo) Create(_ context.Context, post *domain.Community) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	post.ID = r.nextID
	post.CreatedAt = time.Now()
	r.nextID++
	cp := *post
	r.posts[post.ID] = &cp
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id int64) (*domain.Community, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *post
	return &cp, nil
}

func (r *memRepo) List(_ context.Context, limit, offset int) ([]domain.Community, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Community
	for _, post := range r.posts {
		out = append(out, *post)
	}
	return out, int64(len(r.posts)), nil
}

func (r *memRepo) Update(_ context.Context, post *domain.Community) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *post
	r.posts[post.ID] = &cp
	return nil
}

func (r *memRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.posts, id)
	return nil
}

func (r *memRepo) UpdateFileCount(_ context.Context, id int64, count int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if post, ok := r.posts[id]; ok {
		post.FileCount = count
	}
	return nil
}

func newCommunityRouter(t *testing.T) (*gin.Engine, *memRepo, *storage.MemoryStorage) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := newMemRepo()
	store := storage.NewMemoryStorage()
	pipeline := media.NewService(store, repo, nil)
	handler := NewHandler(NewService(repo, pipeline))

	r := gin.New()
	v1 := r.Group("/api/v1")
	handler.RegisterRoutes(v1)
	handler.RegisterAdminRoutes(v1.Group("/admin"))
	return r, repo, store
}

type filePart struct {
	name string
	data []byte
}

func multipartRequest(t *testing.T, method, url string, fields map[string]string, files []filePart) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(t, w.WriteField(key, value))
	}
	for _, f := range files {
		fw, err := w.CreateFormFile("files", f.name)
		require.NoError(t, err)
		_, err = fw.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func do(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func decodeBody(t *testing.T, resp *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	return body
}

func TestCreateCommunityWithFiles(t *testing.T) {
	router, repo, store := newCommunityRouter(t)

	req := multipartRequest(t, http.MethodPost, "/api/v1/admin/communities",
		map[string]string{"title": "Spring retreat", "category": "event"},
		[]filePart{
			{name: "a.jpg", data: []byte("aaa")},
			{name: "b.png", data: []byte("bbb")},
		})
	resp := do(router, req)

	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	post, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Spring retreat", post.Title)
	assert.Equal(t, 2, post.FileCount)
	require.NotEmpty(t, post.MainPath)

	objects, err := store.List(context.Background(), post.MainPath)
	require.NoError(t, err)
	require.Len(t, objects, 2)
	assert.Equal(t, post.MainPath+"1.jpg", objects[0].Key)
	assert.Equal(t, post.MainPath+"2.png", objects[1].Key)
}

func TestCreateCommunityRequiresTitle(t *testing.T) {
	router, _, _ := newCommunityRouter(t)

	req := multipartRequest(t, http.MethodPost, "/api/v1/admin/communities",
		map[string]string{"content": "no title"}, nil)
	resp := do(router, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestUpdateCommunityEditFlow(t *testing.T) {
	router, repo, store := newCommunityRouter(t)

	create := multipartRequest(t, http.MethodPost, "/api/v1/admin/communities",
		map[string]string{"title": "Gallery"},
		[]filePart{
			{name: "1st.jpg", data: []byte("one")},
			{name: "2nd.jpg", data: []byte("two")},
			{name: "3rd.jpg", data: []byte("three")},
		})
	require.Equal(t, http.StatusCreated, do(router, create).Code)

	update := multipartRequest(t, http.MethodPut, "/api/v1/admin/communities/1",
		map[string]string{"deletions": `["2.jpg"]`},
		[]filePart{{name: "photo.png", data: []byte("photo")}})
	resp := do(router, update)

	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	post, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 3, post.FileCount)

	objects, err := store.List(context.Background(), post.MainPath)
	require.NoError(t, err)
	var names []string
	for _, obj := range objects {
		names = append(names, obj.Key[len(post.MainPath):])
	}
	assert.Equal(t, []string{"1.jpg", "2.jpg", "3.png"}, names)

	data, _, err := store.Read(context.Background(), post.MainPath+"2.jpg")
	require.NoError(t, err)
	assert.Equal(t, "three", string(data)) // old 3.jpg slid down into the gap
}

func TestUpdateCommunityRejectsBadDeletions(t *testing.T) {
	router, _, _ := newCommunityRouter(t)

	create := multipartRequest(t, http.MethodPost, "/api/v1/admin/communities",
		map[string]string{"title": "Post"}, nil)
	require.Equal(t, http.StatusCreated, do(router, create).Code)

	update := multipartRequest(t, http.MethodPut, "/api/v1/admin/communities/1",
		map[string]string{"deletions": `not-json`}, nil)
	resp := do(router, update)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestDeleteCommunityCascades(t *testing.T) {
	router, repo, store := newCommunityRouter(t)

	create := multipartRequest(t, http.MethodPost, "/api/v1/admin/communities",
		map[string]string{"title": "Short lived"},
		[]filePart{{name: "a.jpg", data: []byte("a")}})
	require.Equal(t, http.StatusCreated, do(router, create).Code)

	post, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)

	resp := do(router, httptest.NewRequest(http.MethodDelete, "/api/v1/admin/communities/1", nil))
	require.Equal(t, http.StatusOK, resp.Code)

	_, err = repo.GetByID(context.Background(), 1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	objects, err := store.List(context.Background(), post.MainPath)
	require.NoError(t, err)
	assert.Empty(t, objects)
}

func TestGetCommunityNotFound(t *testing.T) {
	router, _, _ := newCommunityRouter(t)

	resp := do(router, httptest.NewRequest(http.MethodGet, "/api/v1/communities/99", nil))

	assert.Equal(t, http.StatusNotFound, resp.Code)
	body := decodeBody(t, resp)
	assert.Equal(t, false, body["success"])
}

func TestListCommunities(t *testing.T) {
	router, _, _ := newCommunityRouter(t)

	for i := 0; i < 3; i++ {
		req := multipartRequest(t, http.MethodPost, "/api/v1/admin/communities",
			map[string]string{"title": fmt.Sprintf("Post %d", i)}, nil)
		require.Equal(t, http.StatusCreated, do(router, req).Code)
	}

	resp := do(router, httptest.NewRequest(http.MethodGet, "/api/v1/communities", nil))

	require.Equal(t, http.StatusOK, resp.Code)
	body := decodeBody(t, resp)
	data := body["data"].(map[string]any)
	assert.Equal(t, float64(3), data["total"])
}
