package catalogsrc

import (
	"bytes"
	"encoding/json"
	"fmt"

	"resort_rooms/internal/domain"
)

// Encode writes cat as a catalog document in catalog order; Decode reads it back.
func Encode(cat *domain.Catalog) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range cat.Entries() {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(e.Room)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", e.Key, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
