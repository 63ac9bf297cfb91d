package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/livingwaterchurch0508/living-water-flow-home-renewal-sub000/internal/domain"
)

type CommunityRepository struct {
	db *gorm.DB
}

func NewCommunityRepository(db *gorm.DB) *CommunityRepository {
	return &CommunityRepository{db: db}
}

func (r *CommunityRepository) Create(ctx context.Context, post *domain.Community) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *CommunityRepository) GetByID(ctx context.Context, id int64) (*domain.Community, error) {
	var post domain.Community
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *CommunityRepository) List(ctx context.Context, limit, offset int) ([]domain.Community, int64, error) {
	var posts []domain.Community
	var total int64

	if err := r.db.WithContext(ctx).Model(&domain.Community{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *CommunityRepository) Update(ctx context.Context, post *domain.Community) error {
	return r.db.WithContext(ctx).Save(post).Error
}

func (r *CommunityRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&domain.Community{}, id).Error
}

// UpdateFileCount is the single-row sync of the denormalized file count.
// Idempotent: writing the same count twice is a no-op.
func (r *CommunityRepository) UpdateFileCount(ctx context.Context, id int64, count int) error {
	return r.db.WithContext(ctx).
		Model(&domain.Community{}).
		Where("id = ?", id).
		Update("file_count", count).Error
}

// ListWithMedia returns every post that owns a storage prefix. Used by the
// recount command to reconcile stale counts.
func (r *CommunityRepository) ListWithMedia(ctx context.Context) ([]domain.Community, error) {
	var posts []domain.Community
	err := r.db.WithContext(ctx).
		Where("main_path <> ''").
		Find(&posts).Error
	return posts, err
}
