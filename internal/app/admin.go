package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"resort_rooms/internal/catalog"
	"resort_rooms/internal/domain"
)

type SaveRequest struct {
	Room    domain.RoomRecord
	Uploads []domain.UploadFile
}

// AdminService validates room edits and writes them through the admin API.
// The local catalog is not touched; it changes only after a refresh.
type AdminService struct {
	writer   domain.RoomWriter
	uploader domain.ImageUploader
}

func NewAdminService(w domain.RoomWriter, u domain.ImageUploader) *AdminService {
	return &AdminService{writer: w, uploader: u}
}

// Save validates the record before any network call, uploads new images into
// rooms/<slug>, then upserts the record. It returns the record as written.
func (s *AdminService) Save(ctx context.Context, req SaveRequest) (domain.RoomRecord, error) {
	rec := req.Room
	rec.Title = strings.TrimSpace(rec.Title)
	rec.Slug = strings.TrimSpace(rec.Slug)
	if rec.Slug == "" {
		rec.Slug = catalog.Slugify(rec.Title)
	}
	rec.Currency = domain.Currency(strings.ToUpper(strings.TrimSpace(string(rec.Currency))))

	if err := ValidateRoom(rec); err != nil {
		return domain.RoomRecord{}, err
	}

	if len(req.Uploads) > 0 {
		if s.uploader == nil {
			return domain.RoomRecord{}, fmt.Errorf("save %s: no image uploader configured", rec.Slug)
		}
		ids, err := s.uploader.Upload(ctx, "rooms/"+rec.Slug, req.Uploads)
		if err != nil {
			return domain.RoomRecord{}, fmt.Errorf("upload images for %s: %w", rec.Slug, err)
		}
		rec = AttachImages(rec, ids)
	}

	if err := s.writer.UpsertRoom(ctx, rec.Slug, rec); err != nil {
		return domain.RoomRecord{}, fmt.Errorf("save %s: %w", rec.Slug, err)
	}
	log.Info().Str("slug", rec.Slug).Int("images", len(rec.Images)).Msg("room saved")
	return rec, nil
}

// ValidateRoom reports the first rule rec breaks.
func ValidateRoom(rec domain.RoomRecord) error {
	switch {
	case strings.TrimSpace(rec.Title) == "":
		return &domain.ValidationError{Field: "title", Reason: "required"}
	case rec.Slug == "":
		return &domain.ValidationError{Field: "slug", Reason: "required"}
	case !catalog.ValidSlug(rec.Slug):
		return &domain.ValidationError{Field: "slug", Reason: "must match ^[a-z0-9-]+$"}
	case rec.PriceBase.IsNegative():
		return &domain.ValidationError{Field: "priceBase", Reason: "must be >= 0"}
	case rec.MaxGuests <= 0:
		return &domain.ValidationError{Field: "maxGuests", Reason: "must be > 0"}
	case rec.SizeM2 < 0:
		return &domain.ValidationError{Field: "sizeM2", Reason: "must be >= 0"}
	case !rec.Currency.Valid():
		return &domain.ValidationError{Field: "currency", Reason: "must be one of USD, EUR, ILS, THB"}
	}
	return nil
}

// AttachImages appends ids as public ids. The first id becomes the hero when
// the record has none.
func AttachImages(rec domain.RoomRecord, ids []string) domain.RoomRecord {
	imgs := append([]domain.ImageRef{}, rec.Images...)
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		ref := domain.ImageRef{Kind: domain.PublicID, Value: id}
		imgs = append(imgs, ref)
		if rec.Hero == nil {
			rec.Hero = &ref
		}
	}
	rec.Images = imgs
	return rec
}
