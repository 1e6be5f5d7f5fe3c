package observability_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"resort_rooms/internal/adapters/observability"
	"resort_rooms/internal/domain"
)

func TestMetricsRegistryAndHandler(t *testing.T) {
	reg := observability.InitRegistry()

	// record samples so the vectors have children
	observability.ObserveHTTP("/test", "GET", 200, 12*time.Millisecond)
	observability.ObserveCatalogLoad("http", nil, 3)
	observability.ObserveStaleView()

	mh := observability.MetricsHandler(reg)
	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	mh.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	out := string(body)
	for _, name := range []string{
		"resort_http_requests_total",
		"resort_catalog_loads_total",
		"resort_catalog_rooms 3",
		"resort_stale_views_discarded_total",
	} {
		if !strings.Contains(out, name) {
			t.Fatalf("expected %s in output", name)
		}
	}
}

func TestLabelErr(t *testing.T) {
	if got := observability.LabelErr(nil); got != "none" {
		t.Fatalf("nil: %q", got)
	}
	err := errors.Join(errors.New("boom"), domain.ErrConfigUnavailable)
	if got := observability.LabelErr(err); got != "ConfigUnavailable" {
		t.Fatalf("wrapped: %q", got)
	}
}
