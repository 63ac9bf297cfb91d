package media

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"net/http"

	"github.com/livingwaterchurch0508/living-water-flow-home-renewal-sub000/internal/storage"
)

// Served images are immutable under a given key until a consolidation
// renames them, so a day of caching is safe.
const cacheControl = "public, max-age=86400"

// ServeResult carries everything the HTTP layer needs to answer a media
// request.
type ServeResult struct {
	Data         []byte
	ContentType  string
	ETag         string
	CacheControl string
}

// Service owns the community media pipeline: the consolidation engine, the
// record sync, and the serving proxy. The store may be nil when the object
// store is not configured; every entry point then fails with
// ErrStoreUnavailable instead of panicking.
type Service struct {
	store    storage.ObjectStorage
	counts   CountSyncer
	cache    *ResponseCache
	prefixes prefixLocks
}

func NewService(store storage.ObjectStorage, counts CountSyncer, cache *ResponseCache) *Service {
	return &Service{store: store, counts: counts, cache: cache}
}

// Serve fetches one object and returns it transcoded for the public site.
// sizeHint > 0 requests a bounded variant; 0 means original dimensions.
func (s *Service) Serve(ctx context.Context, name string, sizeHint int) (*ServeResult, error) {
	if name == "" {
		return nil, ErrMissingName
	}
	if s.store == nil {
		return nil, ErrStoreUnavailable
	}

	cacheKey := cacheKeyFor(name, sizeHint)
	if data, contentType, ok := s.cache.Get(cacheKey); ok {
		return s.result(name, data, contentType), nil
	}

	exists, err := s.store.Exists(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("check %q: %w", name, err)
	}
	if !exists {
		return nil, storage.ErrObjectNotFound
	}

	data, contentType, err := s.store.Read(ctx, name)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("read %q: %w", name, err)
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	out, outType := transcode(data, contentType, sizeHint)
	s.cache.Put(cacheKey, out, outType)
	return s.result(name, out, outType), nil
}

func (s *Service) result(name string, data []byte, contentType string) *ServeResult {
	return &ServeResult{
		Data:         data,
		ContentType:  contentType,
		ETag:         etagFor(name),
		CacheControl: cacheControl,
	}
}

// The ETag is derived from the object name: consolidation renames objects
// when their content position changes, so the name identifies the content.
func etagFor(name string) string {
	sum := sha256.Sum256([]byte(name))
	return fmt.Sprintf("%q", fmt.Sprintf("%x", sum[:8]))
}

func cacheKeyFor(name string, sizeHint int) string {
	if sizeHint > 0 {
		return fmt.Sprintf("%s?size=%d", name, sizeHint)
	}
	return name
}
