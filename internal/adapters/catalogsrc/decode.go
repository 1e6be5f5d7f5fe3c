package catalogsrc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"resort_rooms/internal/domain"
	"resort_rooms/internal/images"
)

/********** alias registry **********/

var roomAliases = map[string][]string{
	"title":     {"title", "name", "label"},
	"blurb":     {"blurb", "description", "summary"},
	"features":  {"features", "amenities"},
	"maxGuests": {"maxGuests", "max_guests", "capacity", "guests", "occupancy.max"},
	"sizeM2":    {"sizeM2", "size_m2", "size", "area", "size.m2"},
	"bedType":   {"bedType", "bed_type", "beds"},
	"priceBase": {"priceBase", "price_base", "basePrice", "price", "price.amount", "pricing.base"},
	"currency":  {"currency", "currencyCode", "price.currency", "pricing.currency"},
	"slug":      {"slug"},
	"active":    {"active", "enabled"},
	"stock":     {"stock", "inventory", "units"},
}

// Decode parses a catalog document: a JSON object mapping room key to room object.
// Key order is kept. Entries that are not objects, or have an empty key, are skipped;
// missing or mistyped fields fall back to zero values instead of failing the document.
func Decode(data []byte) (*domain.Catalog, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("catalog document: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New("catalog document: top level must be an object")
	}

	var entries []domain.CatalogEntry
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("catalog document: %w", err)
		}
		key, _ := tok.(string)

		var raw any
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("catalog document: entry %q: %w", key, err)
		}
		key = strings.TrimSpace(key)
		obj, ok := raw.(map[string]any)
		if key == "" || !ok {
			log.Warn().Str("key", key).Str("context", "catalog.Decode").Msg("skipping malformed catalog entry")
			continue
		}
		entries = append(entries, domain.CatalogEntry{Key: key, Room: mapRoom(obj)})
	}
	if _, err := dec.Token(); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("catalog document: %w", err)
	}
	return domain.NewCatalog(entries), nil
}

// DecodeRoom parses a single room object with the same tolerant field mapping
// as Decode.
func DecodeRoom(data []byte) (domain.RoomRecord, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return domain.RoomRecord{}, fmt.Errorf("room document: %w", err)
	}
	if obj == nil {
		return domain.RoomRecord{}, errors.New("room document: expected an object")
	}
	return mapRoom(obj), nil
}

/********** room mapper **********/

func mapRoom(p map[string]any) domain.RoomRecord {
	r := domain.RoomRecord{
		Title:     str(p, "title"),
		Blurb:     str(p, "blurb"),
		Features:  stringList(p, roomAliases["features"]...),
		BedType:   str(p, "bedType"),
		Currency:  domain.Currency(strings.ToUpper(str(p, "currency"))),
		Slug:      str(p, "slug"),
		Images:    images.Classify(p["images"]),
		Active:    true,
		PriceBase: decimal.Zero,
	}
	if n := int64Flexible(p, roomAliases["maxGuests"]...); n != nil {
		r.MaxGuests = int(*n)
	}
	if n := int64Flexible(p, roomAliases["stock"]...); n != nil {
		r.Stock = int(*n)
	}
	if f := floatFlexible(p, roomAliases["sizeM2"]...); f != nil {
		r.SizeM2 = *f
	}
	if d := decimalFlexible(p, roomAliases["priceBase"]...); d != nil {
		r.PriceBase = *d
	}
	if b := boolFlexible(p, roomAliases["active"]...); b != nil {
		r.Active = *b
	}
	if hero := images.Classify(p["hero"]); len(hero) > 0 {
		r.Hero = &hero[0]
	}
	return r
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps ("price.amount").
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// str: first non-empty trimmed string among the aliases of field.
func str(m map[string]any, field string) string {
	for _, p := range roomAliases[field] {
		if s, ok := lookupAny(m, p).(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
	}
	return ""
}

// stringList: accept []any with either strings or {name/label/title}.
func stringList(m map[string]any, paths ...string) []string {
	for _, k := range paths {
		raw, ok := lookupAny(m, k).([]any)
		if !ok {
			continue
		}
		out := make([]string, 0, len(raw))
		for _, it := range raw {
			switch t := it.(type) {
			case string:
				if s := strings.TrimSpace(t); s != "" {
					out = append(out, s)
				}
			case map[string]any:
				for _, f := range []string{"name", "label", "title"} {
					if s, ok := t[f].(string); ok && strings.TrimSpace(s) != "" {
						out = append(out, strings.TrimSpace(s))
						break
					}
				}
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

// numberText: textual form of a JSON number or numeric string, "" otherwise.
func numberText(v any) string {
	switch t := v.(type) {
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case string:
		return strings.TrimSpace(strings.ReplaceAll(t, ",", "."))
	}
	return ""
}

func floatFlexible(m map[string]any, paths ...string) *float64 {
	for _, k := range paths {
		if s := numberText(lookupAny(m, k)); s != "" {
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return &f
			}
		}
	}
	return nil
}

func int64Flexible(m map[string]any, paths ...string) *int64 {
	for _, k := range paths {
		if f := floatFlexible(m, k); f != nil {
			n := int64(*f)
			return &n
		}
	}
	return nil
}

func decimalFlexible(m map[string]any, paths ...string) *decimal.Decimal {
	for _, k := range paths {
		if s := numberText(lookupAny(m, k)); s != "" {
			if d, err := decimal.NewFromString(s); err == nil {
				return &d
			}
		}
	}
	return nil
}

func boolFlexible(m map[string]any, paths ...string) *bool {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case bool:
			return &v
		case string:
			if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
				return &b
			}
		case json.Number:
			b := v.String() != "0"
			return &b
		}
	}
	return nil
}
