package catalogsrc

import (
	"context"
	"fmt"
	"os"

	"resort_rooms/internal/adapters/upstream"
	"resort_rooms/internal/domain"
)

// HTTPSource reads the catalog from a static JSON document served over HTTP.
type HTTPSource struct {
	c    *upstream.Client
	path string
}

func NewHTTPSource(c *upstream.Client, path string) *HTTPSource {
	return &HTTPSource{c: c, path: path}
}

func (s *HTTPSource) Name() string { return "http" }

func (s *HTTPSource) FetchCatalog(ctx context.Context) (*domain.Catalog, error) {
	body, err := s.c.GetBody(ctx, "catalog", s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %v", domain.ErrConfigUnavailable, s.path, err)
	}
	cat, err := Decode(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfigUnavailable, err)
	}
	return cat, nil
}

// FileSource reads the catalog from a local file; used by the operator CLI.
type FileSource struct{ Path string }

func (s FileSource) Name() string { return "file" }

func (s FileSource) FetchCatalog(ctx context.Context) (*domain.Catalog, error) {
	b, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfigUnavailable, err)
	}
	cat, err := Decode(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfigUnavailable, err)
	}
	return cat, nil
}
