package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	router := chi.NewRouter()
	router.Use(Middleware("interview-test"))
	router.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	for _, id := range []string{"1", "2"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/"+id, nil))
	}

	got := testutil.ToFloat64(httpRequests.WithLabelValues("interview-test", "GET", "/items/{id}", "418"))
	if got != 2 {
		t.Fatalf("expected 2 requests on route pattern, got %v", got)
	}
}

func TestObserveLLMAndEvents(t *testing.T) {
	before := testutil.ToFloat64(llmRequests.WithLabelValues("score", OutcomeFallback))
	ObserveLLM("score", OutcomeFallback, 10*time.Millisecond)
	if after := testutil.ToFloat64(llmRequests.WithLabelValues("score", OutcomeFallback)); after != before+1 {
		t.Fatalf("expected counter to increase by one, got %v -> %v", before, after)
	}

	InterviewEvent("completed")
	if testutil.ToFloat64(interviewEvents.WithLabelValues("completed")) < 1 {
		t.Fatal("expected completed event to be counted")
	}
}

func TestHandlerServesMetrics(t *testing.T) {
	InterviewEvent("started")
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "peerprep_interview_session_events_total") {
		t.Fatal("expected interview counters to be exported")
	}
}
