package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"filestash/internal/codec"
	"filestash/internal/store"
)

func TestDownload_NotFound(t *testing.T) {
	srv := newTestServer(t, store.NewMemoryStore())

	req := httptest.NewRequest(http.MethodGet, "/download/never-uploaded.txt", nil)
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	if got := strings.TrimSpace(rr.Body.String()); got != "File not found" {
		t.Errorf("body: got %q, want %q", got, "File not found")
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("404 must be plain text, got %q", ct)
	}
}

func TestDownload_PercentEncodedName(t *testing.T) {
	srv := newTestServer(t, store.NewMemoryStore())

	rr := doUpload(t, srv, "my report.pdf", codec.Encode([]byte("%PDF")), "application/pdf")
	if rr.Code != http.StatusOK {
		t.Fatalf("upload: expected 200, got %d", rr.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/download/my%20report.pdf", nil)
	dr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(dr, req)

	if dr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", dr.Code, dr.Body.String())
	}
	if dr.Body.String() != "%PDF" {
		t.Errorf("body mismatch: %q", dr.Body.String())
	}
	if cd := dr.Header().Get("Content-Disposition"); cd != `attachment; filename="my report.pdf"` {
		t.Errorf("Content-Disposition: got %q", cd)
	}
}

func TestDownload_BinaryFidelity(t *testing.T) {
	srv := newTestServer(t, store.NewMemoryStore())

	payload := make([]byte, 256)
	for i := range payload {
		payload[i] = byte(i)
	}

	rr := doUpload(t, srv, "all-bytes.bin", codec.Encode(payload), "")
	if rr.Code != http.StatusOK {
		t.Fatalf("upload: expected 200, got %d", rr.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/download/all-bytes.bin", nil)
	dr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(dr, req)

	got := dr.Body.Bytes()
	if len(got) != len(payload) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(payload))
	}
	for i := range payload {
		if got[i] != payload[i] {
			t.Fatalf("byte %d differs: got %#x, want %#x", i, got[i], payload[i])
		}
	}
}

func TestDownload_StoreFailureIsPlainText(t *testing.T) {
	st := store.NewMemoryStore()
	st.FindErr = errors.New("backend gone")
	srv := newTestServer(t, st)

	req := httptest.NewRequest(http.MethodGet, "/download/a.txt", nil)
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("500 on download must be plain text, got %q", ct)
	}
	if strings.Contains(rr.Body.String(), "backend gone") {
		t.Error("response leaks persistence detail")
	}
}
