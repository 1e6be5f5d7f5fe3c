package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"resort_rooms/internal/domain"
	"resort_rooms/internal/images"
)

// genericTitle is shown when neither the record, the caller nor the key offer one.
const genericTitle = "Room"

// Assembler merges a catalog record, a live quote and an image list into a view model.
type Assembler struct {
	quotes    domain.QuoteClient
	images    images.Normalizer
	fallbacks images.Fallbacks
}

func NewAssembler(q domain.QuoteClient, n images.Normalizer, fb images.Fallbacks) *Assembler {
	return &Assembler{quotes: q, images: n, fallbacks: fb}
}

type AssembleRequest struct {
	RoomKey string
	// Range with a zero check-in or check-out skips the quote.
	Range domain.DateRange
	// DisplayName is a server-provided name, used when the record has no title.
	DisplayName string
	// ResolvedImages are display-ready URLs supplied by the server; they win over the record.
	ResolvedImages []string
}

// Assemble fails only when the key is not in cat. A failed quote is reported in
// QuoteError and the rest of the view is still returned.
func (a *Assembler) Assemble(ctx context.Context, cat *domain.Catalog, req AssembleRequest) (domain.RoomViewModel, error) {
	rec, ok := cat.Get(req.RoomKey)
	if !ok {
		return domain.RoomViewModel{}, fmt.Errorf("%w: %s", domain.ErrRoomNotFound, req.RoomKey)
	}

	var (
		quote    *domain.Quote
		quoteErr error
		urls     []string
		g        errgroup.Group
	)
	if !req.Range.CheckIn.IsZero() && !req.Range.CheckOut.IsZero() {
		g.Go(func() error {
			q, err := a.quotes.FetchQuote(ctx, req.RoomKey, req.Range.CheckIn, req.Range.CheckOut)
			if err != nil {
				quoteErr = err
				return nil
			}
			quote = &q
			return nil
		})
	}
	g.Go(func() error {
		urls = a.imagesFor(req.RoomKey, rec, req.ResolvedImages)
		return nil
	})
	_ = g.Wait()

	vm := domain.RoomViewModel{
		RoomKey:   req.RoomKey,
		Title:     firstNonEmpty(rec.Title, req.DisplayName, req.RoomKey, genericTitle),
		Blurb:     rec.Blurb,
		Images:    urls,
		SizeM2:    rec.SizeM2,
		MaxGuests: rec.MaxGuests,
		BedType:   rec.BedType,
		Features:  append([]string{}, rec.Features...),
		PriceBase: rec.PriceBase,
		Currency:  rec.Currency,
		Quote:     quote,
	}
	if quoteErr != nil {
		vm.QuoteError = domain.KindQuoteUnavailable
		log.Warn().Err(quoteErr).Str("room", req.RoomKey).Msg("quote unavailable, showing room without price")
	}
	return vm, nil
}

// imagesFor picks the first non-empty source as a whole: server URLs, then the
// record's images and hero, then the static fallback for key.
func (a *Assembler) imagesFor(key string, rec domain.RoomRecord, resolved []string) []string {
	server := make([]domain.ImageRef, 0, len(resolved))
	for _, u := range resolved {
		server = append(server, domain.ImageRef{Kind: domain.PlainURL, Value: u})
	}
	if urls := a.images.Normalize(server, nil); len(urls) > 0 {
		return urls
	}

	refs := append([]domain.ImageRef{}, rec.Images...)
	if rec.Hero != nil {
		refs = append(refs, *rec.Hero)
	}
	return a.images.Normalize(refs, a.fallbacks.For(key))
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
