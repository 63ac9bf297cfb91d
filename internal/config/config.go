package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime settings for the API server.
type Config struct {
	Addr        string
	DatabaseURL string

	JWTSecret         string
	AdminPasswordHash string

	S3AccessKey    string
	S3SecretKey    string
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string

	MediaCacheEntries int
	MediaCacheTTL     time.Duration
	FallbackImagePath string
}

// Load reads configuration from the environment. A .env file is applied
// first when present so local development matches the deployed setup.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Addr:              getEnv("ADDR", ":8080"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		S3AccessKey:       os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:       os.Getenv("S3_SECRET_KEY"),
		S3Bucket:          getEnv("S3_BUCKET", "church-media"),
		S3Region:          getEnv("S3_REGION", "us-east-1"),
		S3BaseEndpoint:    os.Getenv("S3_BASE_ENDPOINT"),
		MediaCacheEntries: getEnvInt("MEDIA_CACHE_ENTRIES", 256),
		MediaCacheTTL:     getEnvDuration("MEDIA_CACHE_TTL", 10*time.Minute),
		FallbackImagePath: getEnv("FALLBACK_IMAGE_PATH", "assets/fallback.jpg"),
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is empty")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is empty")
	}

	return cfg, nil
}

// StoreConfigured reports whether the object store settings are usable.
// The media endpoints degrade to the fallback asset when they are not.
func (c *Config) StoreConfigured() bool {
	return c.S3Bucket != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
