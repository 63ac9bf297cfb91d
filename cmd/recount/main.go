package main

import (
	"context"
	"log"

	"github.com/livingwaterchurch0508/living-water-flow-home-renewal-sub000/internal/config"
	"github.com/livingwaterchurch0508/living-water-flow-home-renewal-sub000/internal/database"
	"github.com/livingwaterchurch0508/living-water-flow-home-renewal-sub000/internal/modules/media"
	"github.com/livingwaterchurch0508/living-water-flow-home-renewal-sub000/internal/repository"
	"github.com/livingwaterchurch0508/living-water-flow-home-renewal-sub000/internal/storage"
)

// recount reconciles each post's denormalized file count against a live
// object-store listing. Run it after a crashed edit left a count stale.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if !cfg.StoreConfigured() {
		log.Fatal("object store is not configured")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	ctx := context.Background()
	store, err := storage.NewS3Storage(ctx, storage.S3Options{
		AccessKey:    cfg.S3AccessKey,
		SecretKey:    cfg.S3SecretKey,
		Bucket:       cfg.S3Bucket,
		Region:       cfg.S3Region,
		BaseEndpoint: cfg.S3BaseEndpoint,
	})
	if err != nil {
		log.Fatalf("storage init failed: %v", err)
	}

	repo := repository.NewCommunityRepository(db)
	posts, err := repo.ListWithMedia(ctx)
	if err != nil {
		log.Fatalf("list posts failed: %v", err)
	}

	var fixed int
	for _, post := range posts {
		objects, err := store.List(ctx, post.MainPath)
		if err != nil {
			log.Printf("recount list_failed post_id=%d prefix=%s error=%q", post.ID, post.MainPath, err)
			continue
		}

		count := 0
		for _, obj := range objects {
			if media.ParseIndex(obj.Key) >= 0 {
				count++
			}
		}

		if count == post.FileCount {
			continue
		}
		if err := repo.UpdateFileCount(ctx, post.ID, count); err != nil {
			log.Printf("recount update_failed post_id=%d error=%q", post.ID, err)
			continue
		}
		log.Printf("recount fixed post_id=%d old=%d new=%d", post.ID, post.FileCount, count)
		fixed++
	}

	log.Printf("recount completed: posts=%d fixed=%d", len(posts), fixed)
}
