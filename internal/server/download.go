package server

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"filestash/internal/store"
)

// handleDownload handles GET /download/{name}. The payload is already
// raw bytes in the store, so it streams out as-is with the stored
// content type and an attachment disposition carrying the original
// name. Failures here are plain text, matching the binary body.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	name := chi.URLParam(r, "name")
	// chi hands back the raw path segment; percent-decoding is this
	// boundary's job, not the store's.
	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	}
	if name == "" {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	rec, err := s.store.FindByName(r.Context(), name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.metrics.RecordDownloadError()
			http.Error(w, "File not found", http.StatusNotFound)
			return
		}
		rid := RequestIDFromContext(r.Context())
		log.Printf("rid=%s msg=download_failed name=%q err=%v", rid, name, err)
		s.metrics.RecordDownloadError()
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	contentType := rec.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(rec.Payload)))

	// Encourage safe download behavior in browsers.
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, rec.Name))

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(rec.Payload)

	s.metrics.RecordDownload(int64(len(rec.Payload)), time.Since(start))
}
