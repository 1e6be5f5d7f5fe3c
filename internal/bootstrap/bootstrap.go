// Package bootstrap builds the object graph shared by the API and the CLI.
package bootstrap

import (
	"fmt"

	"resort_rooms/internal/adapters/admin"
	"resort_rooms/internal/adapters/catalogsrc"
	"resort_rooms/internal/adapters/quote"
	redisad "resort_rooms/internal/adapters/redis"
	"resort_rooms/internal/adapters/upstream"
	"resort_rooms/internal/app"
	"resort_rooms/internal/catalog"
	"resort_rooms/internal/domain"
	"resort_rooms/internal/images"
	"resort_rooms/internal/shared"
)

type Deps struct {
	Store  *catalog.Store
	Rooms  *app.RoomService
	Admin  *app.AdminService
	Quotes *quote.Client
	// Redis is set when the catalog is read from, or may be published to, Redis.
	Redis *redisad.CatalogStore
}

func CatalogSource(cfg shared.Config) (domain.CatalogSource, *redisad.CatalogStore, error) {
	switch cfg.CatalogSource {
	case "redis":
		rs := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, cfg.RedisKey)
		return rs, rs, nil
	case "http", "":
		c, err := upstream.New(upstream.Options{
			Service: "catalog", BaseURL: cfg.CatalogBaseURL, RPS: 5, Timeout: cfg.HTTPTimeout,
		})
		if err != nil {
			return nil, nil, err
		}
		return catalogsrc.NewHTTPSource(c, cfg.CatalogPath), nil, nil
	}
	return nil, nil, fmt.Errorf("unknown CATALOG_SOURCE %q (want http or redis)", cfg.CatalogSource)
}

func Build(cfg shared.Config) (*Deps, error) {
	src, rs, err := CatalogSource(cfg)
	if err != nil {
		return nil, err
	}

	quoteHTTP, err := upstream.New(upstream.Options{
		Service: "quote", BaseURL: cfg.QuoteBaseURL, RPS: cfg.QuoteRPS, Timeout: cfg.HTTPTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("quote client: %w", err)
	}
	adminHTTP, err := upstream.New(upstream.Options{
		Service: "admin", BaseURL: cfg.AdminBaseURL, APIKey: cfg.AdminKey, RPS: 5, Timeout: cfg.HTTPTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("admin client: %w", err)
	}
	uploadHTTP, err := upstream.New(upstream.Options{
		Service: "upload", BaseURL: cfg.UploadBaseURL, APIKey: cfg.AdminKey, RPS: 2, Timeout: 4 * cfg.HTTPTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("upload client: %w", err)
	}

	fb, err := images.LoadFallbacks(cfg.FallbackFile)
	if err != nil {
		return nil, err
	}

	store := catalog.NewStore(src)
	quotes := quote.New(quoteHTTP, cfg.QuotePath)
	asm := app.NewAssembler(quotes, images.NewNormalizer(cfg.ImageBase, cfg.ImageTransform), fb)

	return &Deps{
		Store:  store,
		Rooms:  app.NewRoomService(store, asm),
		Admin:  app.NewAdminService(admin.NewWriter(adminHTTP), admin.NewUploader(uploadHTTP)),
		Quotes: quotes,
		Redis:  rs,
	}, nil
}
