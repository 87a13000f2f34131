package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewCollector(t *testing.T) {
	registry := prometheus.NewRegistry()
	c := NewCollector(registry)

	if c.Registry() != registry {
		t.Error("collector registry not set correctly")
	}
	if NewCollector(nil).Registry() == nil {
		t.Error("expected a fresh registry when nil is passed")
	}
}

func TestRecordRequest(t *testing.T) {
	c := NewCollector(nil)

	c.RecordRequest("fr", OutcomeSuccess, 200)
	c.RecordRequest("fr", OutcomeSuccess, 200)
	c.RecordRequest("en", OutcomeUpstream, 429)

	if got := testutil.ToFloat64(c.requestsTotal.WithLabelValues("fr", OutcomeSuccess, "200")); got != 2 {
		t.Errorf("expected 2 successful fr requests, got %v", got)
	}
	if got := testutil.ToFloat64(c.requestsTotal.WithLabelValues("en", OutcomeUpstream, "429")); got != 1 {
		t.Errorf("expected 1 upstream error, got %v", got)
	}
}

func TestRecordTokens(t *testing.T) {
	c := NewCollector(nil)

	c.RecordTokens("es", 120, 40)
	c.RecordTokens("es", 0, 10)

	if got := testutil.ToFloat64(c.tokensTotal.WithLabelValues("es", "prompt")); got != 120 {
		t.Errorf("expected 120 prompt tokens, got %v", got)
	}
	if got := testutil.ToFloat64(c.tokensTotal.WithLabelValues("es", "completion")); got != 50 {
		t.Errorf("expected 50 completion tokens, got %v", got)
	}
}

func TestRecordUpstream(t *testing.T) {
	c := NewCollector(nil)
	c.RecordUpstream("gpt-4o-mini", 1500*time.Millisecond)

	if n := testutil.CollectAndCount(c.upstreamDuration); n != 1 {
		t.Errorf("expected 1 histogram series, got %d", n)
	}
}

func TestNilCollector(t *testing.T) {
	var c *Collector
	c.RecordRequest("en", OutcomeSuccess, 200)
	c.RecordUpstream("gpt-4o-mini", time.Second)
	c.RecordTokens("en", 1, 1)
}

func TestHandler(t *testing.T) {
	c := NewCollector(nil)
	c.RecordRequest("it", OutcomeSuccess, 200)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "sommelier_requests_total") {
		t.Errorf("expected sommelier_requests_total in output, got %s", body)
	}
}
