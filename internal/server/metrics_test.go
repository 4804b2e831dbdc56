package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"filestash/internal/codec"
	"filestash/internal/store"
)

func TestMetricsCountTransfers(t *testing.T) {
	srv := newTestServer(t, store.NewMemoryStore())

	doUpload(t, srv, "m.txt", codec.Encode([]byte("12345")), "text/plain")

	req := httptest.NewRequest(http.MethodGet, "/download/m.txt", nil)
	srv.Handler().ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodGet, "/download/missing.txt", nil)
	srv.Handler().ServeHTTP(httptest.NewRecorder(), req)

	snap := srv.metrics.Snapshot()
	if snap.UploadsTotal != 1 {
		t.Errorf("UploadsTotal: got %d, want 1", snap.UploadsTotal)
	}
	if snap.UploadBytesTotal != 5 {
		t.Errorf("UploadBytesTotal: got %d, want 5", snap.UploadBytesTotal)
	}
	if snap.DownloadsTotal != 1 {
		t.Errorf("DownloadsTotal: got %d, want 1", snap.DownloadsTotal)
	}
	if snap.DownloadErrorsTotal != 1 {
		t.Errorf("DownloadErrorsTotal: got %d, want 1", snap.DownloadErrorsTotal)
	}
	if snap.RequestsTotal != 3 {
		t.Errorf("RequestsTotal: got %d, want 3", snap.RequestsTotal)
	}
	if snap.RequestErrors4xx != 1 {
		t.Errorf("RequestErrors4xx: got %d, want 1", snap.RequestErrors4xx)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, store.NewMemoryStore())
	doUpload(t, srv, "m.txt", codec.Encode([]byte("x")), "")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "fstash_uploads_total 1") {
		t.Errorf("metrics output missing upload counter:\n%s", body)
	}
	if !strings.Contains(body, `fstash_info{version="test"`) {
		t.Error("metrics output missing build info gauge")
	}
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t, store.NewMemoryStore())

	for _, path := range []string{"/health", "/ready", "/live"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rr := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, rr.Code)
		}
	}
}
