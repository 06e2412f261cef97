package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_CountersInflightAndPathFallback(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Metrics())

	r.GET("/chapters/:id/comments", func(c *gin.Context) {
		c.String(http.StatusOK, "[]")
	})
	// 204 without body leaves size at -1, skipping the size histogram.
	r.GET("/statusonly", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	// Baselines guard against interference from other tests in the package.
	baseOK := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/chapters/:id/comments", "200"))
	base404 := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/nope", "404"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/chapters/ch1/comments", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("GET /chapters/ch1/comments -> %d", w.Code)
	}

	// Unmatched route falls back to the raw URL path label.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("GET /nope -> %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/statusonly", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("GET /statusonly -> %d", w.Code)
	}

	gotOK := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/chapters/:id/comments", "200"))
	if gotOK != baseOK+1 {
		t.Fatalf("counter for route pattern = %v; want %v", gotOK, baseOK+1)
	}
	got404 := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/nope", "404"))
	if got404 != base404+1 {
		t.Fatalf("counter for 404 fallback = %v; want %v", got404, base404+1)
	}
	if inFlight := testutil.ToFloat64(httpInflight); inFlight != 0 {
		t.Fatalf("httpInflight = %v; want 0 after completion", inFlight)
	}
}
