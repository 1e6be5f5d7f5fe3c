package domain

// CatalogEntry pairs a room key with its record.
type CatalogEntry struct {
	Key  string
	Room RoomRecord
}

// Catalog is the room key -> record mapping of one fetched document.
// Iteration follows the insertion order of the source document.
// A Catalog is read-only once built.
type Catalog struct {
	keys  []string
	rooms map[string]RoomRecord
}

// NewCatalog builds a catalog from entries in document order. A repeated key keeps
// its first position and its last value.
func NewCatalog(entries []CatalogEntry) *Catalog {
	c := &Catalog{
		keys:  make([]string, 0, len(entries)),
		rooms: make(map[string]RoomRecord, len(entries)),
	}
	for _, e := range entries {
		if _, seen := c.rooms[e.Key]; !seen {
			c.keys = append(c.keys, e.Key)
		}
		c.rooms[e.Key] = e.Room
	}
	return c
}

func (c *Catalog) Get(key string) (RoomRecord, bool) {
	if c == nil {
		return RoomRecord{}, false
	}
	r, ok := c.rooms[key]
	return r, ok
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.keys)
}

// Keys returns a copy of the keys in catalog order.
func (c *Catalog) Keys() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.keys...)
}

// Entries returns the entries in catalog order.
func (c *Catalog) Entries() []CatalogEntry {
	if c == nil {
		return nil
	}
	out := make([]CatalogEntry, 0, len(c.keys))
	for _, k := range c.keys {
		out = append(out, CatalogEntry{Key: k, Room: c.rooms[k]})
	}
	return out
}

// Each calls fn for every entry in catalog order until fn returns false.
func (c *Catalog) Each(fn func(key string, r RoomRecord) bool) {
	if c == nil {
		return
	}
	for _, k := range c.keys {
		if !fn(k, c.rooms[k]) {
			return
		}
	}
}
