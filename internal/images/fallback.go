package images

import (
	_ "embed"
	"fmt"

	"github.com/BurntSushi/toml"
)

//go:embed fallback.toml
var defaultFallbackDoc string

// Fallbacks holds the static image lists shown when a room has no usable images.
type Fallbacks struct {
	Default []string            `toml:"default"`
	Rooms   map[string][]string `toml:"rooms"`
}

// LoadFallbacks reads the TOML document at path, or the built-in one when path is empty.
func LoadFallbacks(path string) (Fallbacks, error) {
	var f Fallbacks
	if path == "" {
		if _, err := toml.Decode(defaultFallbackDoc, &f); err != nil {
			return Fallbacks{}, fmt.Errorf("decode built-in fallbacks: %w", err)
		}
		return f, nil
	}
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return Fallbacks{}, fmt.Errorf("decode fallbacks %s: %w", path, err)
	}
	return f, nil
}

// For returns a copy of the list for key, or of the default list.
func (f Fallbacks) For(key string) []string {
	if l, ok := f.Rooms[key]; ok && len(l) > 0 {
		return append([]string(nil), l...)
	}
	return append([]string(nil), f.Default...)
}
