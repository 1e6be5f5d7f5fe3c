package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	LogLevel    string
	HTTPAddr    string
	MetricsAddr string

	// CatalogSource is "http" (static JSON document) or "redis" (published copy).
	CatalogSource  string
	CatalogBaseURL string
	CatalogPath    string
	RedisAddr      string
	RedisDB        int
	RedisPass      string
	RedisKey       string

	QuoteBaseURL string
	QuotePath    string
	QuoteRPS     int

	AdminBaseURL  string
	AdminKey      string
	UploadBaseURL string

	ImageBase      string
	ImageTransform string
	FallbackFile   string

	HTTPTimeout time.Duration
	Workers     int
}

// Load reads the environment, after applying a .env file if one is present.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("could not read .env")
	}

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
		}
		return def
	}
	c := Config{
		AppEnv:         env("APP_ENV", "prod"),
		LogLevel:       env("LOG_LEVEL", "info"),
		HTTPAddr:       env("HTTP_ADDR", ":8080"),
		MetricsAddr:    env("METRICS_ADDR", ""),
		CatalogSource:  env("CATALOG_SOURCE", "http"),
		CatalogBaseURL: env("CATALOG_BASE_URL", "http://localhost:3000"),
		CatalogPath:    env("CATALOG_PATH", "/config/rooms.json"),
		RedisAddr:      env("REDIS_ADDR", "localhost:6379"),
		RedisDB:        atoi("REDIS_DB", 0),
		RedisPass:      env("REDIS_PASSWORD", ""),
		RedisKey:       env("REDIS_CATALOG_KEY", "catalog:rooms"),
		QuoteBaseURL:   env("QUOTE_BASE_URL", "http://localhost:3000"),
		QuotePath:      env("QUOTE_PATH", "/api/bookings/quote"),
		QuoteRPS:       atoi("QUOTE_RPS", 10),
		AdminBaseURL:   env("ADMIN_BASE_URL", "http://localhost:3000/api/admin"),
		AdminKey:       env("ADMIN_API_KEY", ""),
		UploadBaseURL:  env("UPLOAD_BASE_URL", ""),
		ImageBase:      env("IMAGE_DELIVERY_BASE", ""),
		ImageTransform: env("IMAGE_TRANSFORM", ""),
		FallbackFile:   env("FALLBACK_IMAGES_FILE", ""),
		HTTPTimeout:    time.Duration(atoi("HTTP_TIMEOUT_SECONDS", 10)) * time.Second,
		Workers:        atoi("QUOTE_WORKERS", 4),
	}
	if c.UploadBaseURL == "" {
		c.UploadBaseURL = c.AdminBaseURL
	}
	if c.AdminKey == "" {
		log.Warn().Msg("ADMIN_API_KEY is empty, admin writes will be unauthenticated")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
