package catalog

import (
	"strings"

	"resort_rooms/internal/domain"
)

// Resolve maps identifier (a key, a title, a server-provided name or a slug) to
// a catalog key. First match wins:
//
//  1. the trimmed identifier, or its normalized form, is a key;
//  2. a record title equals it, ignoring case and surrounding whitespace;
//  3. a record's explicit slug equals its normalized form.
//
// Steps 2 and 3 return the first hit in catalog order. A slug never shadows a
// title. There is no further slugification and no fuzzy matching, so data-entry
// mistakes in the catalog stay visible.
func Resolve(cat *domain.Catalog, identifier string) (string, bool) {
	raw := strings.TrimSpace(identifier)
	if cat == nil || raw == "" {
		return "", false
	}
	if _, ok := cat.Get(raw); ok {
		return raw, true
	}
	norm := Normalize(raw)
	if norm != "" {
		if _, ok := cat.Get(norm); ok {
			return norm, true
		}
	}

	var key string
	cat.Each(func(k string, r domain.RoomRecord) bool {
		if t := strings.TrimSpace(r.Title); t != "" && strings.EqualFold(t, raw) {
			key = k
			return false
		}
		return true
	})
	if key != "" || norm == "" {
		return key, key != ""
	}

	cat.Each(func(k string, r domain.RoomRecord) bool {
		if r.Slug != "" && r.Slug == norm {
			key = k
			return false
		}
		return true
	})
	return key, key != ""
}
