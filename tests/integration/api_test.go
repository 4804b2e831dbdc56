//go:build integration
// +build integration

package integration

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"filestash/internal/server"
	"filestash/internal/store"
)

// TestAPIWorkflow tests the complete upload, list, and download
// workflow over a real HTTP server backed by the memory store.
func TestAPIWorkflow(t *testing.T) {
	srv := server.New(server.Config{
		AllowedOrigin:  "*",
		MaxUploadBytes: 1 << 20,
		Build:          server.BuildInfo{Version: "integration"},
	}, store.NewMemoryStore(), server.NewLogger(io.Discard, server.LogLevelError, false))

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	client := &http.Client{Timeout: 30 * time.Second}

	t.Run("Health Check", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/ready")
		if err != nil {
			t.Fatalf("health check failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Errorf("expected status 200, got %d", resp.StatusCode)
		}
	})

	payload := []byte("integration payload \x00\x01\xfe\xff")

	t.Run("Upload", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{
			"name":        "it.bin",
			"fileData":    base64.StdEncoding.EncodeToString(payload),
			"contentType": "application/x-test",
		})

		resp, err := client.Post(ts.URL+"/file-upload", "application/json", bytes.NewReader(body))
		if err != nil {
			t.Fatalf("upload failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			raw, _ := io.ReadAll(resp.Body)
			t.Fatalf("expected status 200, got %d: %s", resp.StatusCode, raw)
		}

		var result struct {
			Success bool   `json:"success"`
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			t.Fatalf("failed to decode upload response: %v", err)
		}
		if !result.Success {
			t.Fatalf("upload not successful: %s", result.Message)
		}
	})

	t.Run("List", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/get-files")
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		defer resp.Body.Close()

		var entries []struct {
			Name        string `json:"name"`
			Data        string `json:"data"`
			ContentType string `json:"contentType"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
			t.Fatalf("failed to decode list response: %v", err)
		}
		if len(entries) != 1 {
			t.Fatalf("expected 1 entry, got %d", len(entries))
		}
		if entries[0].Name != "it.bin" || entries[0].ContentType != "application/x-test" {
			t.Errorf("unexpected entry: %+v", entries[0])
		}
		if entries[0].Data != base64.StdEncoding.EncodeToString(payload) {
			t.Error("listed data is not the encoding of the uploaded payload")
		}
	})

	t.Run("Download", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/download/it.bin")
		if err != nil {
			t.Fatalf("download failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected status 200, got %d", resp.StatusCode)
		}

		got, err := io.ReadAll(resp.Body)
		if err != nil {
			t.Fatalf("failed to read download body: %v", err)
		}
		if !bytes.Equal(got, payload) {
			t.Errorf("downloaded bytes differ from uploaded payload")
		}
		if ct := resp.Header.Get("Content-Type"); ct != "application/x-test" {
			t.Errorf("Content-Type: got %q", ct)
		}
		if cd := resp.Header.Get("Content-Disposition"); cd != `attachment; filename="it.bin"` {
			t.Errorf("Content-Disposition: got %q", cd)
		}
	})

	t.Run("Download Unknown Name", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/download/nope.bin")
		if err != nil {
			t.Fatalf("download failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", resp.StatusCode)
		}
	})
}
