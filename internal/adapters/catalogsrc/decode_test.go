package catalogsrc_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"resort_rooms/internal/adapters/catalogsrc"
	"resort_rooms/internal/adapters/upstream"
	"resort_rooms/internal/domain"
)

const doc = `{
  "retreat-villa": {"title": "Retreat Villa", "priceBase": "1250.50", "currency": "thb",
                    "images": ["villa/one", {"url": "https://cdn.example.com/v2.jpg"}, 7], "active": false},
  "family-suite": {"title": "Family Suite", "slug": "family-suite", "priceBase": 300, "currency": "USD",
                   "maxGuests": 4, "sizeM2": 42.5, "features": ["Balcony", {"name": "Kitchenette"}, ""],
                   "hero": "suite/hero", "stock": "3", "unknownField": {"nested": true}},
  "broken": "not an object",
  "": {"title": "no key"},
  "deluxe-double": {}
}`

func TestDecode_KeepsDocumentOrderAndDefaults(t *testing.T) {
	cat, err := catalogsrc.Decode([]byte(doc))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got, want := cat.Keys(), []string{"retreat-villa", "family-suite", "deluxe-double"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("keys = %v, want %v", got, want)
	}

	fs, _ := cat.Get("family-suite")
	if fs.Title != "Family Suite" || fs.MaxGuests != 4 || fs.SizeM2 != 42.5 || fs.Stock != 3 || !fs.Active {
		t.Fatalf("unexpected family suite: %+v", fs)
	}
	if fs.PriceBase.String() != "300" || fs.Currency != domain.USD {
		t.Fatalf("unexpected price: %s %s", fs.PriceBase, fs.Currency)
	}
	if !reflect.DeepEqual(fs.Features, []string{"Balcony", "Kitchenette"}) {
		t.Fatalf("features = %v", fs.Features)
	}
	if fs.Hero == nil || fs.Hero.Kind != domain.PublicID || fs.Hero.Value != "suite/hero" {
		t.Fatalf("hero = %+v", fs.Hero)
	}

	rv, _ := cat.Get("retreat-villa")
	if rv.Active || rv.Currency != domain.THB || rv.PriceBase.String() != "1250.5" {
		t.Fatalf("unexpected villa: %+v", rv)
	}
	if len(rv.Images) != 2 || rv.Images[1].Kind != domain.URLObject {
		t.Fatalf("images = %+v", rv.Images)
	}

	dd, _ := cat.Get("deluxe-double")
	if dd.Title != "" || dd.MaxGuests != 0 || !dd.PriceBase.IsZero() || !dd.Active {
		t.Fatalf("expected zero-valued deluxe double, got %+v", dd)
	}
}

func TestDecode_RejectsNonObjectDocument(t *testing.T) {
	for _, in := range []string{`[]`, `"x"`, ``, `{"a": {`} {
		if _, err := catalogsrc.Decode([]byte(in)); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestHTTPSource_FetchCatalog(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/config/rooms.json" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(doc))
	}))
	defer ts.Close()

	c, err := upstream.New(upstream.Options{Service: "catalog", BaseURL: ts.URL, RPS: 100})
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	src := catalogsrc.NewHTTPSource(c, "/config/rooms.json")
	cat, err := src.FetchCatalog(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if cat.Len() != 3 {
		t.Fatalf("expected 3 rooms, got %d", cat.Len())
	}

	missing := catalogsrc.NewHTTPSource(c, "/nope.json")
	if _, err := missing.FetchCatalog(context.Background()); !errors.Is(err, domain.ErrConfigUnavailable) {
		t.Fatalf("expected ErrConfigUnavailable, got %v", err)
	}
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rooms.json")
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}
	cat, err := catalogsrc.FileSource{Path: path}.FetchCatalog(context.Background())
	if err != nil || cat.Len() != 3 {
		t.Fatalf("file source: %v (%d rooms)", err, cat.Len())
	}
	_, err = catalogsrc.FileSource{Path: path + ".missing"}.FetchCatalog(context.Background())
	if !errors.Is(err, domain.ErrConfigUnavailable) {
		t.Fatalf("expected ErrConfigUnavailable, got %v", err)
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	cat, err := catalogsrc.Decode([]byte(doc))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	b, err := catalogsrc.Encode(cat)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	back, err := catalogsrc.Decode(b)
	if err != nil {
		t.Fatalf("decode encoded: %v", err)
	}
	if !reflect.DeepEqual(cat.Keys(), back.Keys()) {
		t.Fatalf("order changed: %v vs %v", cat.Keys(), back.Keys())
	}
	for _, k := range cat.Keys() {
		a, _ := cat.Get(k)
		b, _ := back.Get(k)
		if a.Title != b.Title || !a.PriceBase.Equal(b.PriceBase) || a.Active != b.Active ||
			!reflect.DeepEqual(a.Images, b.Images) || !reflect.DeepEqual(a.Hero, b.Hero) {
			t.Fatalf("%s changed: %+v vs %+v", k, a, b)
		}
	}
}

func TestDecodeRoom(t *testing.T) {
	rec, err := catalogsrc.DecodeRoom([]byte(`{"name":"Garden Bungalow","price":"180.00","currency":"eur","capacity":2,"images":["rooms/gb/1",{"url":"https://img.example.com/2.jpg"}]}`))
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if rec.Title != "Garden Bungalow" || rec.Currency != domain.EUR || rec.MaxGuests != 2 || !rec.Active {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if len(rec.Images) != 2 || rec.Images[0].Kind != domain.PublicID || rec.Images[1].Kind != domain.URLObject {
		t.Fatalf("unexpected images: %+v", rec.Images)
	}

	if _, err := catalogsrc.DecodeRoom([]byte(`null`)); err == nil {
		t.Fatal("expected error for null body")
	}
	if _, err := catalogsrc.DecodeRoom([]byte(`[1,2]`)); err == nil {
		t.Fatal("expected error for array body")
	}
}

func TestDecodeRoom_NestedPriceAndOccupancy(t *testing.T) {
	rec, err := catalogsrc.DecodeRoom([]byte(`{"title":"Lagoon Suite","price":{"amount":"420.75","currency":"ils"},"occupancy":{"max":3},"size":{"m2":48.5}}`))
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if rec.PriceBase.String() != "420.75" || rec.Currency != domain.ILS {
		t.Fatalf("price = %s %s", rec.PriceBase, rec.Currency)
	}
	if rec.MaxGuests != 3 || rec.SizeM2 != 48.5 {
		t.Fatalf("occupancy/size = %d %v", rec.MaxGuests, rec.SizeM2)
	}
}
