package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"filestash/internal/store"
)

func TestCORS_AllowedOrigin(t *testing.T) {
	srv := New(Config{
		AllowedOrigin:  "http://app.example.com",
		MaxUploadBytes: 1 << 20,
	}, store.NewMemoryStore(), NewLogger(io.Discard, LogLevelError, false))

	req := httptest.NewRequest(http.MethodGet, "/get-files", nil)
	req.Header.Set("Origin", "http://app.example.com")
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "http://app.example.com" {
		t.Errorf("Access-Control-Allow-Origin: got %q", got)
	}
}

func TestCORS_DisallowedOrigin(t *testing.T) {
	srv := New(Config{
		AllowedOrigin:  "http://app.example.com",
		MaxUploadBytes: 1 << 20,
	}, store.NewMemoryStore(), NewLogger(io.Discard, LogLevelError, false))

	req := httptest.NewRequest(http.MethodGet, "/get-files", nil)
	req.Header.Set("Origin", "http://evil.example.com")
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("disallowed origin must not be echoed, got %q", got)
	}
}

func TestCORS_Preflight(t *testing.T) {
	srv := newTestServer(t, store.NewMemoryStore())

	req := httptest.NewRequest(http.MethodOptions, "/file-upload", nil)
	req.Header.Set("Origin", "http://anywhere.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("preflight: expected 204, got %d", rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Methods"); got == "" {
		t.Error("preflight response missing Access-Control-Allow-Methods")
	}
}
