package domain

import "encoding/json"

type ImageKind int

const (
	// PlainURL is an absolute URL or a rooted static path, used as is.
	PlainURL ImageKind = iota + 1
	// PublicID is an identifier of a remotely hosted image; a URL must be built for it.
	PublicID
	// URLObject came from an object carrying a url field.
	URLObject
)

type ImageRef struct {
	Kind  ImageKind
	Value string
}

// MarshalJSON writes the shape the ref was classified from, so a published
// catalog decodes back to the same refs.
func (r ImageRef) MarshalJSON() ([]byte, error) {
	if r.Kind == URLObject {
		return json.Marshal(map[string]string{"url": r.Value})
	}
	return json.Marshal(r.Value)
}
