package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_LabelsByRouteTemplate(t *testing.T) {
	m := New()

	r := mux.NewRouter()
	r.Use(m.Middleware)
	r.HandleFunc("/api/posts/{id}", func(w http.ResponseWriter, r *http.Request) {
		if mux.Vars(r)["id"] == "missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte("ok"))
	})

	for _, path := range []string{"/api/posts/1", "/api/posts/2", "/api/posts/missing"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/posts/{id}", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/posts/{id}", "404")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.httpInFlight))
}

func TestDomainCounters(t *testing.T) {
	m := New()

	m.Login(true)
	m.Login(false)
	m.Login(false)
	m.Subscription()
	m.Contact()
	m.PageView()
	m.PrunedPageViews(3)
	m.PrunedPageViews(0)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.logins.WithLabelValues("success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.logins.WithLabelValues("failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.subscriptions))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.contacts))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.pageViews))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.prunedViews))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Login(true)
		m.Subscription()
		m.Contact()
		m.PageView()
		m.PrunedPageViews(1)
	})
}

func TestHandler_Exposition(t *testing.T) {
	m := New()
	m.Subscription()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), "engsite_newsletter_subscriptions_total 1")
}
