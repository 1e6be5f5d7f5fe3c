// internal/adapters/http_server/handlers.go
package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"resort_rooms/internal/adapters/catalogsrc"
	"resort_rooms/internal/app"
	"resort_rooms/internal/catalog"
	"resort_rooms/internal/domain"
)

const (
	sessionHeader  = "X-View-Session"
	maxAdminBody   = 32 << 20
	maxRoomPayload = 1 << 20
)

// CatalogAdmin is the part of catalog.Store the API exposes.
type CatalogAdmin interface {
	Refresh(ctx context.Context) (*domain.Catalog, error)
	State() catalog.State
}

type Handlers struct {
	Rooms    *app.RoomService
	Sessions *app.Sessions
	Catalog  CatalogAdmin
	Admin    *app.AdminService
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
	Field  string `json:"field,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/readyz", h.ready)
	s.mux.Route("/v1", func(r chi.Router) {
		r.Get("/rooms", h.listRooms)
		r.Get("/rooms/{id}", h.getRoom)
		r.Get("/rooms/{id}/resolve", h.resolveRoom)
		r.Get("/catalog/state", h.catalogState)
		r.Post("/catalog/refresh", h.refreshCatalog)
		if h.Admin != nil {
			r.Put("/admin/rooms/{slug}", h.saveRoom)
		}
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	writeProblemDoc(w, problem{Type: "about:blank", Title: title, Status: status, Detail: detail})
}

func writeProblemDoc(w http.ResponseWriter, p problem) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	if err := json.NewEncoder(w).Encode(p); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps core errors onto problem responses.
func writeError(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		writeProblemDoc(w, problem{
			Type: "about:blank", Title: "Validation Error", Status: http.StatusUnprocessableEntity,
			Detail: ve.Error(), Field: ve.Field,
		})
	case errors.Is(err, domain.ErrRoomNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "room not found")
	case errors.Is(err, domain.ErrConfigUnavailable):
		writeProblem(w, http.StatusServiceUnavailable, "Catalog Unavailable", "room catalog could not be loaded")
	case errors.Is(err, app.ErrSuperseded):
		writeProblem(w, http.StatusConflict, "Superseded", "a newer request for this session replaced this one")
	default:
		log.Error().Err(err).Msg("unhandled error")
		writeProblem(w, http.StatusBadGateway, "Upstream Error", "request could not be completed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any, withETag bool) {
	etag, body := calcETagAndBody(v)
	if withETag && etag != "" {
		if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
			w.Header().Set("ETag", etag)
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", etag)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write body")
	}
}

// parseRange reads checkIn/checkOut. Both absent is a valid, quote-less range.
func parseRange(r *http.Request) (domain.DateRange, error) {
	in := strings.TrimSpace(r.URL.Query().Get("checkIn"))
	out := strings.TrimSpace(r.URL.Query().Get("checkOut"))
	if in == "" && out == "" {
		return domain.DateRange{}, nil
	}
	if in == "" || out == "" {
		return domain.DateRange{}, errors.New("checkIn and checkOut must be given together")
	}
	ci, err := time.Parse(domain.DateLayout, in)
	if err != nil {
		return domain.DateRange{}, errors.New("checkIn must be YYYY-MM-DD")
	}
	co, err := time.Parse(domain.DateLayout, out)
	if err != nil {
		return domain.DateRange{}, errors.New("checkOut must be YYYY-MM-DD")
	}
	if !co.After(ci) {
		return domain.DateRange{}, errors.New("checkOut must be after checkIn")
	}
	return domain.DateRange{CheckIn: ci, CheckOut: co}, nil
}

func (h *Handlers) ready(w http.ResponseWriter, r *http.Request) {
	st := h.Catalog.State()
	status := http.StatusOK
	if st.Status != catalog.Loaded {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, r, status, st, false)
}

func (h *Handlers) listRooms(w http.ResponseWriter, r *http.Request) {
	out, err := h.Rooms.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, r, http.StatusOK, out, true)
}

func (h *Handlers) getRoom(w http.ResponseWriter, r *http.Request) {
	rng, err := parseRange(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid date range", err.Error())
		return
	}
	q := r.URL.Query()
	opts := app.ViewOptions{DisplayName: q.Get("name"), ResolvedImages: q["image"]}
	id := chi.URLParam(r, "id")

	var vm domain.RoomViewModel
	if sid := r.Header.Get(sessionHeader); sid != "" && h.Sessions != nil {
		vm, err = h.Sessions.Get(sid).Show(r.Context(), id, rng, opts)
	} else {
		vm, err = h.Rooms.View(r.Context(), id, rng, opts)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	noteRoom(r, vm.RoomKey, string(vm.QuoteError))
	writeJSON(w, r, http.StatusOK, vm, true)
}

func (h *Handlers) resolveRoom(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	key, err := h.Rooms.Resolve(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	noteRoom(r, key, "")
	writeJSON(w, r, http.StatusOK, map[string]string{"identifier": id, "roomKey": key}, false)
}

func (h *Handlers) catalogState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.Catalog.State(), false)
}

func (h *Handlers) refreshCatalog(w http.ResponseWriter, r *http.Request) {
	if _, err := h.Catalog.Refresh(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, r, http.StatusOK, h.Catalog.State(), false)
}

// saveRoom accepts either a JSON room body, or multipart/form-data with the room
// JSON in the "room" field and image files under "images".
func (h *Handlers) saveRoom(w http.ResponseWriter, r *http.Request) {
	var (
		raw     []byte
		uploads []domain.UploadFile
		err     error
	)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxAdminBody); err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid body", "malformed multipart form")
			return
		}
		raw = []byte(r.FormValue("room"))
		for _, fh := range r.MultipartForm.File["images"] {
			f, err := fh.Open()
			if err != nil {
				writeProblem(w, http.StatusBadRequest, "Invalid body", "unreadable image "+fh.Filename)
				return
			}
			defer f.Close()
			uploads = append(uploads, domain.UploadFile{
				Name: fh.Filename, ContentType: fh.Header.Get("Content-Type"), Body: f,
			})
		}
	} else {
		raw, err = io.ReadAll(io.LimitReader(r.Body, maxRoomPayload))
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid body", "could not read body")
			return
		}
	}

	rec, err := catalogsrc.DecodeRoom(raw)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", err.Error())
		return
	}
	rec.Slug = chi.URLParam(r, "slug")

	saved, err := h.Admin.Save(r.Context(), app.SaveRequest{Room: rec, Uploads: uploads})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, r, http.StatusOK, saved, false)
}
