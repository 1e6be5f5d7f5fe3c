package app_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resort_rooms/internal/app"
	"resort_rooms/internal/domain"
	"resort_rooms/internal/images"
)

// ---- fakes ----

type staticLoader struct {
	cat *domain.Catalog
	err error
}

func (l staticLoader) Load(ctx context.Context) (*domain.Catalog, error) { return l.cat, l.err }

type stubQuotes struct {
	mu    sync.Mutex
	calls []string
	quote domain.Quote
	err   error
}

func (s *stubQuotes) FetchQuote(ctx context.Context, roomType string, in, out time.Time) (domain.Quote, error) {
	s.mu.Lock()
	s.calls = append(s.calls, roomType+"|"+in.Format(domain.DateLayout)+"|"+out.Format(domain.DateLayout))
	s.mu.Unlock()
	if s.err != nil {
		return domain.Quote{}, s.err
	}
	q := s.quote
	q.RoomType, q.CheckIn, q.CheckOut = roomType, in, out
	return q, nil
}

func familyCatalog() *domain.Catalog {
	return domain.NewCatalog([]domain.CatalogEntry{{
		Key: "family-suite",
		Room: domain.RoomRecord{
			Title: "Family Suite", Slug: "family-suite", PriceBase: decimal.NewFromInt(300),
			Currency: domain.USD, MaxGuests: 4, Active: true,
		},
	}})
}

func date(s string) time.Time {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func june() domain.DateRange {
	return domain.DateRange{CheckIn: date("2025-06-01"), CheckOut: date("2025-06-03")}
}

func fallbacks(t *testing.T) images.Fallbacks {
	t.Helper()
	fb, err := images.LoadFallbacks("")
	require.NoError(t, err)
	return fb
}

func newService(t *testing.T, cat *domain.Catalog, q domain.QuoteClient) *app.RoomService {
	asm := app.NewAssembler(q, images.NewNormalizer("", ""), fallbacks(t))
	return app.NewRoomService(staticLoader{cat: cat}, asm)
}

// ---- tests ----

func TestView_FamilySuiteWithQuote(t *testing.T) {
	q := &stubQuotes{quote: domain.Quote{Currency: "USD", TotalPrice: decimal.NewFromInt(600)}}
	svc := newService(t, familyCatalog(), q)

	key, err := svc.Resolve(context.Background(), "Family Suite")
	require.NoError(t, err)
	assert.Equal(t, "family-suite", key)

	vm, err := svc.View(context.Background(), "Family Suite", june(), app.ViewOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Family Suite", vm.Title)
	require.NotNil(t, vm.Quote)
	assert.True(t, vm.Quote.TotalPrice.Equal(decimal.NewFromInt(600)))
	assert.False(t, vm.Quote.IsRetreatPrice)
	assert.Empty(t, vm.QuoteError)
	assert.Equal(t, []string{"family-suite|2025-06-01|2025-06-03"}, q.calls)
}

func TestView_QuoteFailureKeepsRoom(t *testing.T) {
	q := &stubQuotes{err: errors.New("connection refused")}
	svc := newService(t, familyCatalog(), q)

	vm, err := svc.View(context.Background(), "family-suite", june(), app.ViewOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Family Suite", vm.Title)
	assert.Nil(t, vm.Quote)
	assert.Equal(t, domain.KindQuoteUnavailable, vm.QuoteError)
	assert.Equal(t, []string{
		"/static/rooms/family-suite-1.jpg",
		"/static/rooms/family-suite-2.jpg",
	}, vm.Images)
}

func TestView_NoDatesSkipsQuote(t *testing.T) {
	q := &stubQuotes{}
	svc := newService(t, familyCatalog(), q)

	vm, err := svc.View(context.Background(), "family-suite", domain.DateRange{}, app.ViewOptions{})
	require.NoError(t, err)
	assert.Nil(t, vm.Quote)
	assert.Empty(t, vm.QuoteError)
	assert.Empty(t, q.calls)
}

func TestView_UnknownRoom(t *testing.T) {
	svc := newService(t, familyCatalog(), &stubQuotes{})
	_, err := svc.View(context.Background(), "unknown-identifier-xyz", june(), app.ViewOptions{})
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)

	_, err = svc.Resolve(context.Background(), "unknown-identifier-xyz")
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
}

func TestView_CatalogUnavailable(t *testing.T) {
	asm := app.NewAssembler(&stubQuotes{}, images.NewNormalizer("", ""), images.Fallbacks{})
	svc := app.NewRoomService(staticLoader{err: domain.ErrConfigUnavailable}, asm)

	_, err := svc.View(context.Background(), "family-suite", june(), app.ViewOptions{})
	assert.ErrorIs(t, err, domain.ErrConfigUnavailable)
	_, err = svc.List(context.Background())
	assert.ErrorIs(t, err, domain.ErrConfigUnavailable)
}

func TestAssemble_ImageSourcePriority(t *testing.T) {
	hero := domain.ImageRef{Kind: domain.PublicID, Value: "rooms/villa/hero"}
	cat := domain.NewCatalog([]domain.CatalogEntry{{
		Key: "retreat-villa",
		Room: domain.RoomRecord{
			Title: "Retreat Villa",
			Hero:  &hero,
			Images: []domain.ImageRef{
				{Kind: domain.PublicID, Value: "rooms/villa/pool"},
				{Kind: domain.PublicID, Value: "rooms/villa/hero"},
			},
		},
	}})
	asm := app.NewAssembler(&stubQuotes{}, images.NewNormalizer("https://cdn.example.com/img", "f_auto"), fallbacks(t))

	// server URLs win wholesale
	vm, err := asm.Assemble(context.Background(), cat, app.AssembleRequest{
		RoomKey:        "retreat-villa",
		ResolvedImages: []string{"https://img.example.com/1.jpg", "", "https://img.example.com/1.jpg"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://img.example.com/1.jpg"}, vm.Images)

	// then the record's own images, hero deduplicated
	vm, err = asm.Assemble(context.Background(), cat, app.AssembleRequest{RoomKey: "retreat-villa"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://cdn.example.com/img/f_auto/rooms/villa/pool",
		"https://cdn.example.com/img/f_auto/rooms/villa/hero",
	}, vm.Images)
}

func TestAssemble_TitleFallbacks(t *testing.T) {
	cat := domain.NewCatalog([]domain.CatalogEntry{{Key: "cabin-7", Room: domain.RoomRecord{}}})
	asm := app.NewAssembler(&stubQuotes{}, images.NewNormalizer("", ""), fallbacks(t))

	vm, err := asm.Assemble(context.Background(), cat, app.AssembleRequest{RoomKey: "cabin-7", DisplayName: "  Cabin Seven "})
	require.NoError(t, err)
	assert.Equal(t, "Cabin Seven", vm.Title)
	assert.Equal(t, []string{"/static/rooms/placeholder.jpg"}, vm.Images)
	assert.NotNil(t, vm.Features)

	vm, err = asm.Assemble(context.Background(), cat, app.AssembleRequest{RoomKey: "cabin-7"})
	require.NoError(t, err)
	assert.Equal(t, "cabin-7", vm.Title)
}

func TestList_ActiveInCatalogOrder(t *testing.T) {
	cat := domain.NewCatalog([]domain.CatalogEntry{
		{Key: "z-room", Room: domain.RoomRecord{Title: "Z", Active: true, Stock: 2}},
		{Key: "hidden", Room: domain.RoomRecord{Title: "Hidden"}},
		{Key: "a-room", Room: domain.RoomRecord{Active: true}},
	})
	svc := newService(t, cat, &stubQuotes{})

	got, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "z-room", got[0].Key)
	assert.Equal(t, 2, got[0].Stock)
	assert.Equal(t, "a-room", got[1].Key)
	assert.Equal(t, "a-room", got[1].Title)
}
