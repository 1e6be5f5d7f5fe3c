// internal/adapters/upstream/client.go
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"resort_rooms/internal/adapters/observability"
)

// Client is the outbound HTTP plumbing shared by the catalog, quote and admin
// adapters: client-side rate limiting, request ids, status mapping and metrics.
// It never retries; a failed call needs a new call from the caller.
type Client struct {
	service string
	base    string
	hc      *http.Client
	key     string
	rl      *rate.Limiter
}

type Options struct {
	Service    string // metrics/log label
	BaseURL    string
	APIKey     string // sent as X-API-Key when set
	RPS        int
	Timeout    time.Duration
	HTTPClient *http.Client
}

func New(o Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(o.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("%s: base URL is required", o.Service)
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("%s: invalid base URL: %w", o.Service, err)
	}
	if o.RPS <= 0 {
		o.RPS = 5
	}
	if o.Timeout <= 0 {
		o.Timeout = 10 * time.Second
	}
	hc := o.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: o.Timeout}
	}
	return &Client{
		service: o.Service,
		base:    base,
		hc:      hc,
		key:     o.APIKey,
		rl:      rate.NewLimiter(rate.Limit(o.RPS), o.RPS),
	}, nil
}

var (
	ErrNotFound     = errors.New("upstream: not found")
	ErrUnauthorized = errors.New("upstream: unauthorized")
	ErrForbidden    = errors.New("upstream: forbidden")
	ErrBadStatus    = errors.New("upstream: bad status")
	ErrDecode       = errors.New("upstream: undecodable body")
)

// maxBody caps how much of a response is read into memory.
const maxBody = 8 << 20

// GetJSON performs a GET and decodes the JSON body into out.
func (c *Client) GetJSON(ctx context.Context, endpoint, path string, q url.Values, out any) error {
	return c.do(ctx, http.MethodGet, endpoint, c.url(path, q), nil, "", decodeJSON(out))
}

// GetBody performs a GET and returns the raw body.
func (c *Client) GetBody(ctx context.Context, endpoint, path string) ([]byte, error) {
	var body []byte
	err := c.do(ctx, http.MethodGet, endpoint, c.url(path, nil), nil, "", func(r io.Reader) error {
		b, err := io.ReadAll(io.LimitReader(r, maxBody))
		body = b
		return err
	})
	return body, err
}

// SendJSON sends in as a JSON body and decodes the response into out (when non-nil).
func (c *Client) SendJSON(ctx context.Context, method, endpoint, path string, in, out any) error {
	b, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%s: encode request: %w", c.service, err)
	}
	return c.do(ctx, method, endpoint, c.url(path, nil), bytes.NewReader(b), "application/json", decodeJSON(out))
}

// Post sends a prebuilt body (e.g. multipart) and decodes the JSON response into out.
func (c *Client) Post(ctx context.Context, endpoint, path, contentType string, body io.Reader, out any) error {
	return c.do(ctx, http.MethodPost, endpoint, c.url(path, nil), body, contentType, decodeJSON(out))
}

func (c *Client) url(path string, q url.Values) string {
	u := c.base + "/" + strings.TrimLeft(path, "/")
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

func decodeJSON(out any) func(io.Reader) error {
	return func(r io.Reader) error {
		if out == nil {
			_, _ = io.Copy(io.Discard, r)
			return nil
		}
		if err := json.NewDecoder(io.LimitReader(r, maxBody)).Decode(out); err != nil {
			return fmt.Errorf("%w: %v", ErrDecode, err)
		}
		return nil
	}
}

func (c *Client) do(ctx context.Context, method, endpoint, rawURL string, body io.Reader, contentType string, decode func(io.Reader) error) error {
	// client-side rate limiting
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return err
	}
	reqID := uuid.NewString()
	if c.key != "" {
		req.Header.Set("X-API-Key", c.key)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "resort-rooms/1.0")
	req.Header.Set("X-Request-ID", reqID)

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal(c.service, endpoint, 0, time.Since(start))
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	defer resp.Body.Close()
	observability.ObserveExternal(c.service, endpoint, resp.StatusCode, time.Since(start))
	log.Debug().
		Str("service", c.service).
		Str("endpoint", endpoint).
		Str("request_id", reqID).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("upstream call")

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted:
		return decode(resp.Body)

	case http.StatusNoContent:
		// success, empty body
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil

	case http.StatusNotFound:
		return ErrNotFound

	case http.StatusUnauthorized:
		return ErrUnauthorized

	case http.StatusForbidden:
		return ErrForbidden

	default:
		// read a small error body for diagnostics
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w %d: %s", ErrBadStatus, resp.StatusCode, strings.TrimSpace(string(b)))
	}
}
