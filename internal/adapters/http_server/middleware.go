package httpserver

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"resort_rooms/internal/adapters/observability"
)

// Timeout bounds each request. The body is a problem document so clients can
// treat it like any other error.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	body := `{"type":"about:blank","title":"Timeout","status":503,"detail":"request timed out"}`
	return func(next http.Handler) http.Handler { return http.TimeoutHandler(next, d, body) }
}

// recorder remembers what the handler sent.
type recorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *recorder) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *recorder) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

func (w *recorder) code() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

// roomNote carries what a handler learned about the room back to the access log.
type roomNote struct {
	key        string
	quoteError string
}

type roomNoteKey struct{}

// noteRoom records the resolved room key (and quote degradation, if any) for
// the access log line of r.
func noteRoom(r *http.Request, key, quoteError string) {
	if n, ok := r.Context().Value(roomNoteKey{}).(*roomNote); ok {
		n.key, n.quoteError = key, quoteError
	}
}

func routeOf(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

// Instrument records request metrics and writes one access log line per request.
// It runs inside Timeout, on the handler's goroutine.
func Instrument(l zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &recorder{ResponseWriter: w}
			note := &roomNote{}
			next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), roomNoteKey{}, note)))

			route, status, dur := routeOf(r), rec.code(), time.Since(start)
			observability.ObserveHTTP(route, r.Method, status, dur)

			ev := l.Info()
			switch {
			case status >= http.StatusInternalServerError:
				ev = l.Warn()
			case route == "/healthz" || route == "/metrics":
				ev = l.Debug()
			}
			ev = ev.
				Str("route", route).
				Str("method", r.Method).
				Int("status", status).
				Int("bytes", rec.bytes).
				Dur("duration", dur).
				Str("request_id", chimw.GetReqID(r.Context())).
				Str("remote", hostOnly(r.RemoteAddr))
			if sid := r.Header.Get(sessionHeader); sid != "" {
				ev = ev.Str("view_session", sid)
			}
			if note.key != "" {
				ev = ev.Str("room", note.key)
			}
			if note.quoteError != "" {
				ev = ev.Str("quote_error", note.quoteError)
			}
			ev.Msg("http_request")
		})
	}
}

// hostOnly strips the port; RealIP has already applied forwarding headers.
func hostOnly(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil && host != "" {
		return host
	}
	return addr
}
