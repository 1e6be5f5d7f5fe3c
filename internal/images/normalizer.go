package images

import (
	"net/url"
	"strings"

	"resort_rooms/internal/domain"
)

// Normalizer turns image refs into displayable URLs.
//
// Public ids are appended to DeliveryBase (with an optional Transform segment in
// between). With no DeliveryBase a public id is passed through unchanged.
type Normalizer struct {
	DeliveryBase string
	Transform    string
}

func NewNormalizer(base, transform string) Normalizer {
	return Normalizer{
		DeliveryBase: strings.TrimRight(strings.TrimSpace(base), "/"),
		Transform:    strings.Trim(strings.TrimSpace(transform), "/"),
	}
}

// URL returns the display URL for ref, or "" when none can be built.
func (n Normalizer) URL(ref domain.ImageRef) string {
	v := strings.TrimSpace(ref.Value)
	if v == "" {
		return ""
	}
	switch ref.Kind {
	case domain.PlainURL, domain.URLObject:
		if _, err := url.Parse(v); err != nil {
			return ""
		}
		return v
	case domain.PublicID:
		if n.DeliveryBase == "" {
			return v
		}
		id := escapeSegments(strings.TrimLeft(v, "/"))
		if n.Transform != "" {
			return n.DeliveryBase + "/" + n.Transform + "/" + id
		}
		return n.DeliveryBase + "/" + id
	}
	return ""
}

// Normalize builds URLs for primary, dropping empties and repeats (first seen wins).
// When primary yields nothing the fallback list is returned instead; the two are
// never merged.
func (n Normalizer) Normalize(primary []domain.ImageRef, fallback []string) []string {
	out := make([]string, 0, len(primary))
	seen := make(map[string]struct{}, len(primary))
	for _, ref := range primary {
		u := n.URL(ref)
		if u == "" {
			continue
		}
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	if len(out) > 0 {
		return out
	}
	return cleanFallback(fallback)
}

// NormalizeAny classifies raw polymorphic input before normalizing it.
func (n Normalizer) NormalizeAny(primary any, fallback []string) []string {
	return n.Normalize(Classify(primary), fallback)
}

// cleanFallback drops empty entries only; the configured list is otherwise
// returned as is, repeats included.
func cleanFallback(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func escapeSegments(id string) string {
	parts := strings.Split(id, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
