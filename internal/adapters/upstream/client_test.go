package upstream_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"resort_rooms/internal/adapters/upstream"
)

func newClient(t *testing.T, url string) *upstream.Client {
	t.Helper()
	cl, err := upstream.New(upstream.Options{Service: "test", BaseURL: url, APIKey: "test-key", RPS: 100})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	return cl
}

func TestClient_GetJSON_SendsHeadersAndQuery(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-API-Key") != "test-key" || r.Header.Get("X-Request-ID") == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if r.URL.Path != "/v1/things" || r.URL.Query().Get("a") != "b" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"id": 123.0})
	}))
	defer ts.Close()

	cl := newClient(t, ts.URL+"/v1/")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var got map[string]any
	if err := cl.GetJSON(ctx, "things", "/things", map[string][]string{"a": {"b"}}, &got); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if id, ok := got["id"].(float64); !ok || int(id) != 123 {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestClient_ServerErrorIsNotRetried(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("down for maintenance"))
	}))
	defer ts.Close()

	cl := newClient(t, ts.URL)
	_, err := cl.GetBody(context.Background(), "doc", "/doc.json")
	if !errors.Is(err, upstream.ErrBadStatus) {
		t.Fatalf("expected ErrBadStatus, got %v", err)
	}
	if !strings.Contains(err.Error(), "down for maintenance") {
		t.Fatalf("expected body in error, got %v", err)
	}
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Fatalf("expected exactly one call, got %d", n)
	}
}

func TestClient_StatusSentinels(t *testing.T) {
	cases := map[int]error{
		http.StatusNotFound:     upstream.ErrNotFound,
		http.StatusUnauthorized: upstream.ErrUnauthorized,
		http.StatusForbidden:    upstream.ErrForbidden,
	}
	for status, want := range cases {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))
		cl := newClient(t, ts.URL)
		err := cl.GetJSON(context.Background(), "x", "/x", nil, &map[string]any{})
		ts.Close()
		if !errors.Is(err, want) {
			t.Fatalf("status %d: expected %v, got %v", status, want, err)
		}
	}
}

func TestClient_DecodeErrorAndNoContent(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer ts.Close()

	cl := newClient(t, ts.URL)
	var out map[string]any
	if err := cl.GetJSON(context.Background(), "x", "/x", nil, &out); !errors.Is(err, upstream.ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
	if err := cl.SendJSON(context.Background(), http.MethodPut, "x", "/x", map[string]string{"a": "b"}, &out); err != nil {
		t.Fatalf("expected 204 to succeed, got %v", err)
	}
}

func TestNew_RequiresBase(t *testing.T) {
	if _, err := upstream.New(upstream.Options{Service: "test"}); err == nil {
		t.Fatalf("expected error for empty base URL")
	}
}
