package app

import (
	"context"
	"fmt"

	"resort_rooms/internal/catalog"
	"resort_rooms/internal/domain"
)

// CatalogLoader hands out the current catalog, fetching it when needed.
type CatalogLoader interface {
	Load(ctx context.Context) (*domain.Catalog, error)
}

type ViewOptions struct {
	DisplayName    string
	ResolvedImages []string
}

// RoomService resolves room identifiers against the catalog and builds views.
type RoomService struct {
	catalog CatalogLoader
	asm     *Assembler
}

func NewRoomService(c CatalogLoader, a *Assembler) *RoomService {
	return &RoomService{catalog: c, asm: a}
}

// Resolve returns the catalog key for identifier.
func (s *RoomService) Resolve(ctx context.Context, identifier string) (string, error) {
	cat, err := s.catalog.Load(ctx)
	if err != nil {
		return "", err
	}
	key, ok := catalog.Resolve(cat, identifier)
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrRoomNotFound, identifier)
	}
	return key, nil
}

// View resolves identifier and assembles its view. The catalog is loaded before
// the quote is requested, since the quote needs the resolved key.
func (s *RoomService) View(ctx context.Context, identifier string, rng domain.DateRange, opts ViewOptions) (domain.RoomViewModel, error) {
	cat, err := s.catalog.Load(ctx)
	if err != nil {
		return domain.RoomViewModel{}, err
	}
	key, ok := catalog.Resolve(cat, identifier)
	if !ok {
		return domain.RoomViewModel{}, fmt.Errorf("%w: %q", domain.ErrRoomNotFound, identifier)
	}
	return s.asm.Assemble(ctx, cat, AssembleRequest{
		RoomKey:        key,
		Range:          rng,
		DisplayName:    opts.DisplayName,
		ResolvedImages: opts.ResolvedImages,
	})
}

// List returns the active rooms in catalog order.
func (s *RoomService) List(ctx context.Context) ([]domain.RoomSummary, error) {
	cat, err := s.catalog.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.RoomSummary, 0, cat.Len())
	cat.Each(func(key string, r domain.RoomRecord) bool {
		if !r.Active {
			return true
		}
		out = append(out, domain.RoomSummary{
			Key:       key,
			Title:     firstNonEmpty(r.Title, key),
			Slug:      r.Slug,
			PriceBase: r.PriceBase,
			Currency:  r.Currency,
			MaxGuests: r.MaxGuests,
			Stock:     r.Stock,
		})
		return true
	})
	return out, nil
}
