package main

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/livingwaterchurch0508/living-water-flow-home-renewal-sub000/internal/config"
	"github.com/livingwaterchurch0508/living-water-flow-home-renewal-sub000/internal/database"
	"github.com/livingwaterchurch0508/living-water-flow-home-renewal-sub000/internal/middleware"
	"github.com/livingwaterchurch0508/living-water-flow-home-renewal-sub000/internal/modules/auth"
	"github.com/livingwaterchurch0508/living-water-flow-home-renewal-sub000/internal/modules/community"
	"github.com/livingwaterchurch0508/living-water-flow-home-renewal-sub000/internal/modules/media"
	jwtsvc "github.com/livingwaterchurch0508/living-water-flow-home-renewal-sub000/internal/pkg/jwt"
	"github.com/livingwaterchurch0508/living-water-flow-home-renewal-sub000/internal/repository"
	"github.com/livingwaterchurch0508/living-water-flow-home-renewal-sub000/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	// A nil store is a valid degraded mode: media endpoints answer with
	// STORE_UNAVAILABLE or the local fallback asset.
	var store storage.ObjectStorage
	if cfg.StoreConfigured() {
		s3store, err := storage.NewS3Storage(context.Background(), storage.S3Options{
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3BaseEndpoint,
		})
		if err != nil {
			log.Fatal(err)
		}
		store = s3store
	} else {
		log.Println("object store is not configured, media serving degraded")
	}

	communityRepo := repository.NewCommunityRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, 12*time.Hour)

	authService := auth.NewService(cfg.AdminPasswordHash, j)
	authHandler := auth.NewHandler(authService)

	mediaCache := media.NewResponseCache(cfg.MediaCacheEntries, cfg.MediaCacheTTL)
	mediaService := media.NewService(store, communityRepo, mediaCache)
	mediaHandler := media.NewHandler(mediaService, cfg.FallbackImagePath)

	communityService := community.NewService(communityRepo, mediaService)
	communityHandler := community.NewHandler(communityService)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterRoutes(v1)
		mediaHandler.RegisterRoutes(v1)
		communityHandler.RegisterRoutes(v1)

		// admin back office
		admin := v1.Group("/admin")
		admin.Use(authMiddleware(j))
		{
			communityHandler.RegisterAdminRoutes(admin)
		}
	}

	if err := r.Run(cfg.Addr); err != nil {
		log.Fatal(err)
	}
}

func authMiddleware(jwt *jwtsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Missing or invalid Authorization header",
				},
			})
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		claims, err := jwt.ValidateToken(tokenStr)
		if err != nil || claims.Role != "admin" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Invalid token",
				},
			})
			return
		}

		c.Next()
	}
}
