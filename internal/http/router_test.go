package httpapi

import (
	"bytes"
	cgzip "compress/gzip"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-comments-backend/internal/config"
	"github.com/tbourn/go-comments-backend/internal/domain"
	"github.com/tbourn/go-comments-backend/internal/ratelimit"
	"github.com/tbourn/go-comments-backend/internal/repo"
	"github.com/tbourn/go-comments-backend/internal/tree"
)

// passCaptcha accepts every token; router tests exercise transport, not the
// verifier.
type passCaptcha struct{}

func (passCaptcha) Verify(context.Context, string, string) error { return nil }

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:router_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA foreign_keys=ON;")
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func testDeps() Deps {
	return Deps{
		Captcha:         passCaptcha{},
		CommentLimiter:  ratelimit.NewMemory(100, time.Minute),
		ReactionLimiter: ratelimit.NewMemory(100, time.Minute),
	}
}

func testConfig() config.Config {
	return config.Config{
		APIBasePath:    "/api/v1",
		RateRPS:        1000,
		RateBurst:      100,
		IdempotencyTTL: 24 * time.Hour,
		OTEL:           config.OTELConfig{ServiceName: "comments-test"},
	}
}

func seedProfile(t *testing.T, db *gorm.DB, id string) {
	t.Helper()
	if err := db.Create(&domain.UserProfile{ID: id, Role: "user"}).Error; err != nil {
		t.Fatalf("seed profile: %v", err)
	}
}

func TestRegisterRoutes_Health_Metrics_Fallbacks_CORSAllowAll(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, newTestDB(t), testDeps(), testConfig())

	// /health works; cross-origin requests get the allow-all CORS header.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://reader.example")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("AllowAllOrigins expected '*', got %q", got)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected X-Request-ID from the pipeline")
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("expected security headers on every response")
	}

	// /metrics is wired.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK || w.Body.Len() == 0 {
		t.Fatalf("GET /metrics: code=%d len=%d", w.Code, w.Body.Len())
	}

	// NoRoute envelope.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("GET /nope = %d", w.Code)
	}
	var e map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &e); err != nil || e["code"] != "not_found" {
		t.Fatalf("NoRoute body = %s", w.Body.String())
	}

	// NoMethod envelope.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/health", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST /health = %d", w.Code)
	}
}

func TestRegisterRoutes_CORSAllowlistEcho(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	cfg := testConfig()
	cfg.CORS = config.CORSConfig{AllowedOrigins: []string{"https://read.example.com"}}
	RegisterRoutes(r, newTestDB(t), testDeps(), cfg)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://read.example.com")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://read.example.com" {
		t.Fatalf("expected ACAO echo, got %q", got)
	}

	// Unlisted origins are rejected outright, with no ACAO header.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("unlisted origin = %d, want 403", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("unlisted origin must not be allowed, got %q", got)
	}

	// Preflight from an allowed origin succeeds with the echoed origin.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodOptions, "/health", nil)
	req.Header.Set("Origin", "https://read.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight = %d, want 204", w.Code)
	}
	if got := w.Header().Values("Access-Control-Allow-Origin"); len(got) != 1 || got[0] != "https://read.example.com" {
		t.Fatalf("preflight ACAO = %v", got)
	}
}

// End-to-end over the real stack: submit, reply, react, read the tree.
func TestRouter_SubmitReactRead(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	db := newTestDB(t)
	RegisterRoutes(r, db, testDeps(), testConfig())

	seedProfile(t, db, "u1")
	seedProfile(t, db, "u2")

	post := func(userID, body string, parentID *string) *httptest.ResponseRecorder {
		payload, _ := json.Marshal(map[string]any{
			"body":          body,
			"captcha_token": "tok",
			"parent_id":     parentID,
		})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/chapters/ch1/comments", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-User-ID", userID)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	// Root comment.
	w := post("u1", "First!", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("post root = %d, body = %s", w.Code, w.Body.String())
	}
	var created struct {
		Comment domain.Comment `json:"comment"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil || created.Comment.ID == "" {
		t.Fatalf("create body = %s", w.Body.String())
	}

	// Reply by another user.
	if w = post("u2", "Agreed", &created.Comment.ID); w.Code != http.StatusCreated {
		t.Fatalf("post reply = %d, body = %s", w.Code, w.Body.String())
	}

	// React to the root comment.
	reactBody := bytes.NewReader([]byte(`{"type":"like"}`))
	req := httptest.NewRequest(http.MethodPut, "/api/v1/comments/"+created.Comment.ID+"/reaction", reactBody)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "u2")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("reaction = %d, body = %s", w.Code, w.Body.String())
	}

	// Read the tree as u2: gzip route, ETag present, aggregates visible.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/chapters/ch1/comments", nil)
	req.Header.Set("X-User-ID", "u2")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("get tree = %d", w.Code)
	}
	etag := w.Header().Get("ETag")
	if etag == "" {
		t.Fatalf("expected ETag on tree response")
	}

	raw := w.Body.Bytes()
	if w.Header().Get("Content-Encoding") == "gzip" {
		zr, err := cgzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			t.Fatalf("gzip reader: %v", err)
		}
		defer zr.Close()
		if raw, err = io.ReadAll(zr); err != nil {
			t.Fatalf("gunzip: %v", err)
		}
	}

	var listResp struct {
		Comments []*tree.Node `json:"comments"`
	}
	if err := json.Unmarshal(raw, &listResp); err != nil {
		t.Fatalf("tree body: %v (%s)", err, raw)
	}
	if len(listResp.Comments) != 1 {
		t.Fatalf("roots = %d", len(listResp.Comments))
	}
	root := listResp.Comments[0]
	if root.Likes != 1 || root.UserReaction != "like" {
		t.Fatalf("root aggregate = %+v", root)
	}
	if len(root.Replies) != 1 || root.Replies[0].Body != "Agreed" {
		t.Fatalf("replies = %+v", root.Replies)
	}

	// Conditional re-read with the tag returns 304.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/chapters/ch1/comments", nil)
	req.Header.Set("If-None-Match", etag)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotModified {
		t.Fatalf("conditional get = %d; want 304", w.Code)
	}
}

func TestRouter_IdempotentReplayThroughStack(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	db := newTestDB(t)
	RegisterRoutes(r, db, testDeps(), testConfig())

	seedProfile(t, db, "u1")

	send := func() *httptest.ResponseRecorder {
		payload := []byte(`{"body":"once only","captcha_token":"tok"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/chapters/ch1/comments", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-User-ID", "u1")
		req.Header.Set("Idempotency-Key", "retry-key-1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w1 := send()
	if w1.Code != http.StatusCreated {
		t.Fatalf("first submit = %d, body = %s", w1.Code, w1.Body.String())
	}
	w2 := send()
	if w2.Code != http.StatusCreated {
		t.Fatalf("retry = %d, body = %s", w2.Code, w2.Body.String())
	}
	if w2.Header().Get("Idempotency-Replayed") != "true" {
		t.Fatalf("expected replay marker on retry")
	}

	var n int64
	if err := db.Model(&domain.Comment{}).Count(&n).Error; err != nil || n != 1 {
		t.Fatalf("comment rows = %d, err = %v; want exactly 1", n, err)
	}
}

func Test_limitBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(limitBody(10))
	r.POST("/echo", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.String(http.StatusRequestEntityTooLarge, "too big")
			return
		}
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", bytes.NewBufferString("0123456789AB")))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413 from limitBody, got %d", w.Code)
	}
}

func Test_groupWithPrefix(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	groupWithPrefix(r, "/").GET("/one", func(c *gin.Context) { c.String(http.StatusOK, "one") })
	groupWithPrefix(r, "").GET("/two", func(c *gin.Context) { c.String(http.StatusOK, "two") })
	groupWithPrefix(r, "/api").GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	for path, want := range map[string]string{"/one": "one", "/two": "two", "/api/ping": "pong"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK || w.Body.String() != want {
			t.Fatalf("GET %s got %d %q", path, w.Code, w.Body.String())
		}
	}
}
