package domain

import (
	"context"
	"io"
	"time"
)

// CatalogSource fetches and decodes the whole catalog document.
type CatalogSource interface {
	FetchCatalog(ctx context.Context) (*Catalog, error)
	Name() string
}

type QuoteClient interface {
	FetchQuote(ctx context.Context, roomType string, checkIn, checkOut time.Time) (Quote, error)
}

// RoomWriter creates or updates a room record identified by slug.
type RoomWriter interface {
	UpsertRoom(ctx context.Context, slug string, r RoomRecord) error
}

// ImageUploader stores files under folder and returns one identifier per file.
type ImageUploader interface {
	Upload(ctx context.Context, folder string, files []UploadFile) ([]string, error)
}

type UploadFile struct {
	Name        string
	ContentType string
	Body        io.Reader
}
