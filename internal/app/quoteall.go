package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"resort_rooms/internal/domain"
)

type QuoteResult struct {
	RoomKey string        `json:"roomKey"`
	Quote   *domain.Quote `json:"quote,omitempty"`
	Error   string        `json:"error,omitempty"`
}

// QuoteAll quotes every active room for rng with at most workers requests in
// flight. Results keep catalog order; a failed quote is reported in its row.
func QuoteAll(ctx context.Context, cat *domain.Catalog, quotes domain.QuoteClient, rng domain.DateRange, workers int) ([]QuoteResult, error) {
	if workers <= 0 {
		workers = 1
	}
	var keys []string
	cat.Each(func(key string, r domain.RoomRecord) bool {
		if r.Active {
			keys = append(keys, key)
		}
		return true
	})

	out := make([]QuoteResult, len(keys))
	sem := semaphore.NewWeighted(int64(workers))
	var wg sync.WaitGroup

	for i, key := range keys {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return nil, err
		}
		wg.Add(1)
		go func(i int, key string) {
			defer wg.Done()
			defer sem.Release(1)

			out[i].RoomKey = key
			q, err := quotes.FetchQuote(ctx, key, rng.CheckIn, rng.CheckOut)
			if err != nil {
				log.Warn().Str("room", key).Err(err).Msg("quote failed")
				out[i].Error = string(domain.KindOf(err))
				return
			}
			out[i].Quote = &q
		}(i, key)
	}
	wg.Wait()
	return out, nil
}
