package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/izzystu/geo-change-risk-sub000/internal/middleware"
	"github.com/izzystu/geo-change-risk-sub000/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

// call wraps okHandler (or inner, when given) in mw and serves one request.
func call(t *testing.T, mw func(http.Handler) http.Handler, req *http.Request, inner http.Handler) *httptest.ResponseRecorder {
	t.Helper()
	if inner == nil {
		inner = okHandler
	}
	rec := httptest.NewRecorder()
	mw(inner).ServeHTTP(rec, req)
	return rec
}

func hashKey(t *testing.T, key string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash key: %v", err)
	}
	return string(h)
}

// TestCORSMiddleware_AllowedOrigin verifies an allow-listed origin is echoed back.
func TestCORSMiddleware_AllowedOrigin(t *testing.T) {
	mw := middleware.CORSMiddleware([]string{"https://georisk.example"})

	req := httptest.NewRequest(http.MethodGet, "/query/health", nil)
	req.Header.Set("Origin", "https://georisk.example")
	rec := call(t, mw, req, nil)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://georisk.example" {
		t.Errorf("expected origin to be echoed, got %q", got)
	}
}

// TestCORSMiddleware_UnknownOrigin verifies other origins get no allow header.
func TestCORSMiddleware_UnknownOrigin(t *testing.T) {
	mw := middleware.CORSMiddleware([]string{"https://georisk.example"})

	req := httptest.NewRequest(http.MethodGet, "/query/health", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec := call(t, mw, req, nil)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("expected no allow-origin header, got %q", got)
	}
}

// TestCORSMiddleware_Preflight verifies OPTIONS short-circuits with 204.
func TestCORSMiddleware_Preflight(t *testing.T) {
	mw := middleware.CORSMiddleware(nil)

	req := httptest.NewRequest(http.MethodOptions, "/query", nil)
	rec := call(t, mw, req, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("inner handler should not run for preflight")
	}))

	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
}

func TestAllowedOrigins_FromEnv(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example/ , https://b.example,, ")

	got := middleware.AllowedOrigins()
	if len(got) != 2 || got[0] != "https://a.example" || got[1] != "https://b.example" {
		t.Errorf("unexpected origins %v", got)
	}
}

// TestAPIKeyMiddleware_Disabled verifies an empty hash lets everything through.
func TestAPIKeyMiddleware_Disabled(t *testing.T) {
	mw := middleware.APIKeyMiddleware("")

	rec := call(t, mw, httptest.NewRequest(http.MethodPost, "/query", nil), nil)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestAPIKeyMiddleware_MissingKey(t *testing.T) {
	mw := middleware.APIKeyMiddleware(hashKey(t, "s3cret"))

	rec := call(t, mw, httptest.NewRequest(http.MethodPost, "/query", nil), nil)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestAPIKeyMiddleware_WrongKey(t *testing.T) {
	mw := middleware.APIKeyMiddleware(hashKey(t, "s3cret"))

	req := httptest.NewRequest(http.MethodPost, "/query", nil)
	req.Header.Set("X-Api-Key", "guess")
	rec := call(t, mw, req, nil)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

// TestAPIKeyMiddleware_ValidKey verifies the caller identity reaches the context.
func TestAPIKeyMiddleware_ValidKey(t *testing.T) {
	mw := middleware.APIKeyMiddleware(hashKey(t, "s3cret"))

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if client, ok := utils.GetClientFromContext(r.Context()); !ok || client != "api-key" {
			http.Error(w, "client not in context", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/query", nil)
		req.Header.Set("X-Api-Key", "s3cret")
		rec := call(t, mw, req, inner)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d; body: %s", i, rec.Code, rec.Body.String())
		}
	}
}

// TestRateLimitMiddleware_Burst verifies requests beyond the burst get 429
// and that limits are tracked per client.
func TestRateLimitMiddleware_Burst(t *testing.T) {
	mw := middleware.RateLimitMiddleware(0.001, 2)
	handler := mw(okHandler)

	send := func(remote string) int {
		req := httptest.NewRequest(http.MethodPost, "/query", nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < 2; i++ {
		if code := send("10.0.0.1:5000"); code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, code)
		}
	}
	if code := send("10.0.0.1:5001"); code != http.StatusTooManyRequests {
		t.Errorf("expected 429 after burst, got %d", code)
	}
	if code := send("10.0.0.2:5000"); code != http.StatusOK {
		t.Errorf("expected a different client to pass, got %d", code)
	}
}

func TestRateLimitMiddleware_Disabled(t *testing.T) {
	mw := middleware.RateLimitMiddleware(0, 0)

	for i := 0; i < 5; i++ {
		rec := call(t, mw, httptest.NewRequest(http.MethodPost, "/query", nil), nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
	}
}
