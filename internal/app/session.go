package app

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"resort_rooms/internal/adapters/observability"
	"resort_rooms/internal/domain"
)

// ErrSuperseded is returned by ViewSession.Show when a newer Show was issued
// before this one finished; its result was dropped.
var ErrSuperseded = errors.New("view superseded by a newer request")

// Viewer builds one room view.
type Viewer interface {
	View(ctx context.Context, identifier string, rng domain.DateRange, opts ViewOptions) (domain.RoomViewModel, error)
}

// ViewSession keeps the room view shown to one client. Requests may complete out
// of order; only the most recently issued one is ever applied.
type ViewSession struct {
	v      Viewer
	id     string
	issued atomic.Uint64

	mu      sync.Mutex
	cancel  context.CancelFunc
	current *domain.RoomViewModel
}

func NewViewSession(v Viewer) *ViewSession {
	return &ViewSession{v: v, id: uuid.NewString()}
}

func (s *ViewSession) ID() string { return s.id }

// Show issues a new view request for identifier and rng. Any request still in
// flight is cancelled and its late result discarded.
func (s *ViewSession) Show(ctx context.Context, identifier string, rng domain.DateRange, opts ViewOptions) (domain.RoomViewModel, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	token := s.issued.Add(1)
	if s.cancel != nil {
		s.cancel()
	}
	s.cancel = cancel
	s.mu.Unlock()

	vm, err := s.v.View(ctx, identifier, rng, opts)

	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.issued.Load() {
		observability.ObserveStaleView()
		log.Debug().Str("session", s.id).Uint64("token", token).Str("room", identifier).
			Msg("discarding superseded room view")
		return domain.RoomViewModel{}, ErrSuperseded
	}
	s.cancel = nil
	if err != nil {
		return domain.RoomViewModel{}, err
	}
	s.current = &vm
	return vm, nil
}

// Current returns the last applied view.
func (s *ViewSession) Current() (domain.RoomViewModel, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return domain.RoomViewModel{}, false
	}
	return *s.current, true
}

// Sessions hands out one ViewSession per client id. Sessions idle longer than
// ttl are dropped on the next lookup.
type Sessions struct {
	v   Viewer
	ttl time.Duration

	mu   sync.Mutex
	byID map[string]*sessionEntry
}

type sessionEntry struct {
	s        *ViewSession
	lastUsed time.Time
}

func NewSessions(v Viewer, ttl time.Duration) *Sessions {
	return &Sessions{v: v, ttl: ttl, byID: map[string]*sessionEntry{}}
}

func (r *Sessions) Get(id string) *ViewSession {
	now := time.Now()
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, e := range r.byID {
		if now.Sub(e.lastUsed) > r.ttl {
			delete(r.byID, k)
		}
	}
	e, ok := r.byID[id]
	if !ok {
		e = &sessionEntry{s: NewViewSession(r.v)}
		r.byID[id] = e
	}
	e.lastUsed = now
	return e.s
}

func (r *Sessions) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}
