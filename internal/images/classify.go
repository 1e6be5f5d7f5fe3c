package images

import (
	"strings"

	"resort_rooms/internal/domain"
)

// Classify turns a raw image value into refs. Accepted shapes: string, object with
// a string "url", ImageRef, and arrays of any of these. Anything else is dropped.
func Classify(v any) []domain.ImageRef {
	var out []domain.ImageRef
	classifyInto(&out, v)
	return out
}

func classifyInto(out *[]domain.ImageRef, v any) {
	switch t := v.(type) {
	case nil:
	case string:
		if ref, ok := classifyString(t); ok {
			*out = append(*out, ref)
		}
	case domain.ImageRef:
		if strings.TrimSpace(t.Value) != "" && t.Kind != 0 {
			*out = append(*out, t)
		}
	case *domain.ImageRef:
		if t != nil {
			classifyInto(out, *t)
		}
	case map[string]any:
		if u, ok := t["url"].(string); ok {
			if u = strings.TrimSpace(u); u != "" {
				*out = append(*out, domain.ImageRef{Kind: domain.URLObject, Value: u})
			}
		}
	case map[string]string:
		if u := strings.TrimSpace(t["url"]); u != "" {
			*out = append(*out, domain.ImageRef{Kind: domain.URLObject, Value: u})
		}
	case []any:
		for _, it := range t {
			classifyInto(out, it)
		}
	case []string:
		for _, it := range t {
			classifyInto(out, it)
		}
	case []domain.ImageRef:
		for _, it := range t {
			classifyInto(out, it)
		}
	}
}

func classifyString(s string) (domain.ImageRef, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return domain.ImageRef{}, false
	}
	if isPlainURL(s) {
		return domain.ImageRef{Kind: domain.PlainURL, Value: s}, true
	}
	return domain.ImageRef{Kind: domain.PublicID, Value: s}, true
}

func isPlainURL(s string) bool {
	low := strings.ToLower(s)
	for _, p := range []string{"http://", "https://", "//", "/", "./", "../", "data:image/"} {
		if strings.HasPrefix(low, p) {
			return true
		}
	}
	return false
}
