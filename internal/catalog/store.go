package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"resort_rooms/internal/adapters/observability"
	"resort_rooms/internal/domain"
)

type Status int

const (
	Unloaded Status = iota
	Loading
	Loaded
	Failed
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	}
	return "unloaded"
}

func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// State is a snapshot of the store for health and admin endpoints.
type State struct {
	Status    Status    `json:"status"`
	Source    string    `json:"source"`
	Rooms     int       `json:"rooms"`
	LoadedAt  time.Time `json:"loadedAt,omitempty"`
	LastError string    `json:"lastError,omitempty"`
}

const fetchKey = "catalog"

// Store owns the process-wide catalog. Readers get either the previous or the
// new fully decoded catalog, never a partial one. Concurrent fetches are
// collapsed into one request to the source.
type Store struct {
	src   domain.CatalogSource
	group singleflight.Group
	cur   atomic.Pointer[domain.Catalog]

	mu       sync.Mutex
	status   Status
	loadedAt time.Time
	lastErr  error
}

func NewStore(src domain.CatalogSource) *Store {
	return &Store{src: src}
}

// Load returns the cached catalog, fetching it on first use. A failed first fetch
// leaves the store empty, so the next Load tries again.
func (s *Store) Load(ctx context.Context) (*domain.Catalog, error) {
	if c := s.cur.Load(); c != nil {
		observability.ObserveCache("catalog", "hit")
		return c, nil
	}
	observability.ObserveCache("catalog", "miss")
	return s.fetch(ctx)
}

// Refresh fetches the document again. On success the cached catalog is replaced;
// on failure the previous one stays in place and the error is returned.
func (s *Store) Refresh(ctx context.Context) (*domain.Catalog, error) {
	return s.fetch(ctx)
}

// Current returns the cached catalog without fetching; nil before the first success.
func (s *Store) Current() *domain.Catalog { return s.cur.Load() }

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := State{
		Status:    s.status,
		Source:    s.src.Name(),
		Rooms:     s.cur.Load().Len(),
		LoadedAt:  s.loadedAt,
	}
	if s.lastErr != nil {
		st.LastError = s.lastErr.Error()
	}
	return st
}

func (s *Store) fetch(ctx context.Context) (*domain.Catalog, error) {
	// The shared fetch must outlive any single waiter.
	ch := s.group.DoChan(fetchKey, func() (any, error) {
		return s.fetchOnce(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", domain.ErrConfigUnavailable, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*domain.Catalog), nil
	}
}

func (s *Store) fetchOnce(ctx context.Context) (*domain.Catalog, error) {
	s.setStatus(Loading, nil)
	start := time.Now()

	cat, err := s.src.FetchCatalog(ctx)
	if err == nil && cat == nil {
		err = errors.New("source returned no catalog")
	}
	if err != nil {
		if !errors.Is(err, domain.ErrConfigUnavailable) {
			err = fmt.Errorf("%w: %v", domain.ErrConfigUnavailable, err)
		}
		observability.ObserveCatalogLoad(s.src.Name(), err, 0)
		log.Warn().Err(err).Str("source", s.src.Name()).Dur("duration", time.Since(start)).
			Msg("catalog fetch failed")
		s.setStatus(Failed, err)
		return nil, err
	}

	s.cur.Store(cat)
	s.mu.Lock()
	s.status, s.loadedAt, s.lastErr = Loaded, time.Now(), nil
	s.mu.Unlock()

	observability.ObserveCatalogLoad(s.src.Name(), nil, cat.Len())
	log.Info().Str("source", s.src.Name()).Int("rooms", cat.Len()).Dur("duration", time.Since(start)).
		Msg("catalog loaded")
	return cat, nil
}

// setStatus records a transition. A failure while an older catalog is cached
// keeps reporting Loaded, since that catalog is still served.
func (s *Store) setStatus(st Status, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st == Failed && s.cur.Load() != nil {
		st = Loaded
	}
	s.status = st
	if err != nil {
		s.lastErr = err
	}
}
