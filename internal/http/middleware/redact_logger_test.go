package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRedactingLogger_InfoAndRedactions(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogger(t)

	r := gin.New()
	// Simulate the upstream RequestID middleware writing the response header.
	r.Use(func(c *gin.Context) {
		c.Header("X-Request-ID", "rid-resp")
		c.Next()
	})
	r.Use(RedactingLogger(RedactOptions{MaskHeaders: []string{"X-User-ID"}}))

	r.GET("/chapters/:id/comments", func(c *gin.Context) {
		c.String(http.StatusOK, "[]")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/chapters/ch1/comments?email=reader@example.com&cid=6ba7b810-9dad-11d1-80b4-00c04fd430c8&phone=212-555-1212", nil)
	req.Header.Set("Authorization", "Bearer secret-token")
	req.Header.Set("X-User-ID", "user-42")
	req.Header.Set("X-Contact", "call me at (212) 555-1212")
	r.ServeHTTP(w, req)

	out := buf.String()
	if strings.Contains(out, "reader@example.com") {
		t.Fatalf("email leaked to log:\n%s", out)
	}
	if strings.Contains(out, "6ba7b810-9dad-11d1-80b4-00c04fd430c8") {
		t.Fatalf("uuid leaked to log:\n%s", out)
	}
	if strings.Contains(out, "555-1212") {
		t.Fatalf("phone leaked to log:\n%s", out)
	}
	if strings.Contains(out, "secret-token") || strings.Contains(out, "user-42") {
		t.Fatalf("masked header leaked to log:\n%s", out)
	}
	if !strings.Contains(out, "[REDACTED:email]") || !strings.Contains(out, "[REDACTED:id]") {
		t.Fatalf("expected redaction markers, got:\n%s", out)
	}
	if !strings.Contains(out, `"request_id":"rid-resp"`) {
		t.Fatalf("expected request id from response header, got:\n%s", out)
	}
	if !strings.Contains(out, `"path":"/chapters/:id/comments"`) {
		t.Fatalf("expected route pattern path, got:\n%s", out)
	}
	if !strings.Contains(out, `"level":"info"`) {
		t.Fatalf("expected info level for 200, got:\n%s", out)
	}
}

func TestRedactingLogger_WarnErrorLevels_RequestIDFallback(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogger(t)

	r := gin.New()
	r.Use(RedactingLogger(RedactOptions{}))
	r.GET("/bad", func(c *gin.Context) { c.Status(http.StatusBadRequest) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	// 4xx -> warn; request id falls back to the request header since no
	// middleware wrote the response header.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/bad", nil)
	req.Header.Set("X-Request-ID", "rid-req")
	r.ServeHTTP(w, req)

	// 5xx -> error.
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/boom", nil))

	out := buf.String()
	if !strings.Contains(out, `"level":"warn"`) || !strings.Contains(out, `"request_id":"rid-req"`) {
		t.Fatalf("expected warn log with fallback request id, got:\n%s", out)
	}
	if !strings.Contains(out, `"level":"error"`) {
		t.Fatalf("expected error log for 5xx, got:\n%s", out)
	}
}
