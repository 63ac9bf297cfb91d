package community

import (
	"context"

	"github.com/livingwaterchurch0508/living-water-flow-home-renewal-sub000/internal/domain"
	"github.com/livingwaterchurch0508/living-water-flow-home-renewal-sub000/internal/modules/media"
)

// CommunityRepository defines the row-level operations for community posts.
type CommunityRepository interface {
	Create(ctx context.Context, post *domain.Community) error
	GetByID(ctx context.Context, id int64) (*domain.Community, error)
	List(ctx context.Context, limit, offset int) ([]domain.Community, int64, error)
	Update(ctx context.Context, post *domain.Community) error
	Delete(ctx context.Context, id int64) error
}

// MediaPipeline is the slice of the media service the edit flow drives.
type MediaPipeline interface {
	Consolidate(ctx context.Context, prefix string, deletions []string, additions []media.Addition) (int, media.DeletionReport, error)
	SyncCount(ctx context.Context, postID int64, finalCount int) error
	RemoveAll(ctx context.Context, prefix string) error
}
