package admin

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"resort_rooms/internal/adapters/upstream"
	"resort_rooms/internal/domain"
)

// Writer saves room records through the admin API.
type Writer struct{ c *upstream.Client }

func NewWriter(c *upstream.Client) *Writer { return &Writer{c: c} }

func (w *Writer) UpsertRoom(ctx context.Context, slug string, r domain.RoomRecord) error {
	if err := w.c.SendJSON(ctx, http.MethodPut, "admin_rooms", "/rooms/"+url.PathEscape(slug), r, nil); err != nil {
		return fmt.Errorf("save room %s: %w", slug, err)
	}
	return nil
}
