package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddleware_RecordsDurationAndCount(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Post("/api/recommend", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"results":[]}`))
	})

	req := httptest.NewRequest("POST", "/api/recommend", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != 200 {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	requestsVal := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("POST", "/api/recommend", "200"))
	if requestsVal < 1 {
		t.Errorf("expected http_requests_total >= 1, got %f", requestsVal)
	}

	durationCount := testutil.CollectAndCount(httpRequestDuration)
	if durationCount == 0 {
		t.Error("expected http_request_duration_seconds to have observations")
	}
}

func TestMiddleware_RecordsErrorStatuses(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Post("/api/recommend", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"bad body"}`))
	})

	req := httptest.NewRequest("POST", "/api/recommend", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	val := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("POST", "/api/recommend", "400"))
	if val < 1 {
		t.Errorf("expected requests_total with status 400 >= 1, got %f", val)
	}
}

func TestMiddleware_ImplicitOKStatus(t *testing.T) {
	// A handler that never calls WriteHeader still counts as 200.
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	req := httptest.NewRequest("GET", "/api/health", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	val := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/health", "200"))
	if val < 1 {
		t.Errorf("expected requests_total >= 1, got %f", val)
	}
}

func TestNormalizePath(t *testing.T) {
	if got := normalizePath(""); got != "unknown" {
		t.Errorf("normalizePath(\"\") = %q, want unknown", got)
	}
	if got := normalizePath("/api/recommend"); got != "/api/recommend" {
		t.Errorf("normalizePath = %q", got)
	}
}

func TestRegisterExplainMetrics_Idempotent(t *testing.T) {
	RegisterExplainMetrics()
	RegisterExplainMetrics() // second call must not panic

	RecommendRequestsTotal.WithLabelValues("ok").Inc()
	if val := testutil.ToFloat64(RecommendRequestsTotal.WithLabelValues("ok")); val < 1 {
		t.Errorf("expected recommend_requests_total >= 1, got %f", val)
	}
}
