package community

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/livingwaterchurch0508/living-water-flow-home-renewal-sub000/internal/domain"
	"github.com/livingwaterchurch0508/living-water-flow-home-renewal-sub000/internal/modules/media"
)

type Service struct {
	posts CommunityRepository
	media MediaPipeline
}

func NewService(posts CommunityRepository, media MediaPipeline) *Service {
	return &Service{posts: posts, media: media}
}

// Create inserts a post and, when files were uploaded, reserves a storage
// prefix from the creation date, consolidates the uploads into it, and
// persists the resulting file count.
func (s *Service) Create(ctx context.Context, req CreateCommunityRequest, additions []media.Addition) (*domain.Community, error) {
	if req.Title == "" {
		return nil, ErrValidation
	}
	category := domain.CommunityCategory(req.Category)
	if category == "" {
		category = domain.CommunityNews
	}

	post := &domain.Community{
		Title:    req.Title,
		Content:  req.Content,
		Category: category,
	}
	if len(additions) > 0 {
		post.MainPath = media.MakePrefix(time.Now())
	}

	if err := s.posts.Create(ctx, post); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicatePath
		}
		return nil, err
	}

	if len(additions) > 0 {
		count, _, err := s.media.Consolidate(ctx, post.MainPath, nil, additions)
		if err != nil {
			return nil, err
		}
		if err := s.media.SyncCount(ctx, post.ID, count); err != nil {
			// Store state is correct; only the denormalized count is stale.
			// cmd/recount recomputes it from a live listing.
			log.Printf("community create sync_count_failed post_id=%d error=%q", post.ID, err)
		}
		post.FileCount = count
	}

	return post, nil
}

// Update applies field edits and the media edit (delete some, add some) in
// one request. The post's prefix never changes after creation; a post that
// had no media yet gets one derived from its original creation date.
func (s *Service) Update(ctx context.Context, id int64, req UpdateCommunityRequest, additions []media.Addition) (*domain.Community, media.DeletionReport, error) {
	var report media.DeletionReport

	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, report, ErrNotFound
		}
		return nil, report, err
	}

	if req.Title != nil {
		if *req.Title == "" {
			return nil, report, ErrValidation
		}
		post.Title = *req.Title
	}
	if req.Content != nil {
		post.Content = *req.Content
	}
	if req.Category != nil {
		post.Category = domain.CommunityCategory(*req.Category)
	}
	if post.MainPath == "" && len(additions) > 0 {
		post.MainPath = media.MakePrefix(post.CreatedAt)
	}

	if err := s.posts.Update(ctx, post); err != nil {
		if isUniqueViolation(err) {
			return nil, report, ErrDuplicatePath
		}
		return nil, report, err
	}

	if post.MainPath != "" && (len(req.Deletions) > 0 || len(additions) > 0) {
		count, rep, err := s.media.Consolidate(ctx, post.MainPath, req.Deletions, additions)
		report = rep
		if err != nil {
			return nil, report, err
		}
		if err := s.media.SyncCount(ctx, post.ID, count); err != nil {
			log.Printf("community update sync_count_failed post_id=%d error=%q", post.ID, err)
		}
		post.FileCount = count
	}

	return post, report, nil
}

// Delete removes the post's media directory and then the row. Object
// deletion goes first so a failure leaves the row for a retried delete.
func (s *Service) Delete(ctx context.Context, id int64) error {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if post.MainPath != "" {
		if err := s.media.RemoveAll(ctx, post.MainPath); err != nil {
			return err
		}
	}

	return s.posts.Delete(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Community, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return post, nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]domain.Community, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.posts.List(ctx, limit, offset)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
