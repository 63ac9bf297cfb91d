package main

import (
	"fmt"
	"log"

	"github.com/livingwaterchurch0508/living-water-flow-home-renewal-sub000/internal/database"
	"github.com/livingwaterchurch0508/living-water-flow-home-renewal-sub000/internal/domain"
)

// seed fills a local sqlite database with sample community posts for
// front-end development. Media is intentionally left empty; uploads go
// through the admin API so the object store and counts stay consistent.
func main() {
	db, err := database.Connect("church.db")
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM communities")

	categories := []domain.CommunityCategory{
		domain.CommunityNews,
		domain.CommunityEvent,
		domain.CommunityGallery,
	}

	for i := 1; i <= 9; i++ {
		post := domain.Community{
			Title:    fmt.Sprintf("Sample post %d", i),
			Content:  fmt.Sprintf("Sample content for community post %d.", i),
			Category: categories[(i-1)%len(categories)],
		}
		if err := db.Create(&post).Error; err != nil {
			log.Fatal("seed failed:", err)
		}
	}

	log.Println("Seed completed")
}
