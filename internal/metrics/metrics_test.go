package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordClassification(t *testing.T) {
	m := New()

	m.RecordClassification(true, PathRule, 0.01)
	m.RecordClassification(true, PathRule, 0.02)
	m.RecordClassification(false, PathAI, 1.5)
	m.RecordClassification(true, PathCache, 0)

	if got := testutil.ToFloat64(m.classifications.WithLabelValues("eligible", PathRule)); got != 2 {
		t.Errorf("eligible/rule = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.classifications.WithLabelValues("ineligible", PathAI)); got != 1 {
		t.Errorf("ineligible/ai = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.classifications.WithLabelValues("eligible", PathCache)); got != 1 {
		t.Errorf("eligible/cache = %v, want 1", got)
	}
}

func TestRecordFallbackAndChallenge(t *testing.T) {
	m := New()

	m.RecordFallback()
	m.RecordChallenge()
	m.RecordChallenge()

	if got := testutil.ToFloat64(m.fallbacks); got != 1 {
		t.Errorf("fallbacks = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.challenges); got != 2 {
		t.Errorf("challenges = %v, want 2", got)
	}
}

func TestHandlerExposition(t *testing.T) {
	m := New()
	m.RecordClassification(true, PathRule, 0.01)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	body := rec.Body.String()
	for _, metric := range []string{
		"ebt_classifications_total",
		"ebt_classification_duration_seconds",
	} {
		if !strings.Contains(body, metric) {
			t.Errorf("exposition missing %s", metric)
		}
	}
}
