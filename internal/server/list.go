package server

import (
	"log"
	"net/http"
	"time"

	"filestash/internal/codec"
)

// fileEntry is one element of the GET /get-files response.
type fileEntry struct {
	Name        string `json:"name"`
	Data        string `json:"data"`
	ContentType string `json:"contentType"`
}

// handleList handles GET /get-files: every stored record with its full
// payload re-encoded for transport, in the store's retrieval order.
// Clients wanting newest-first reorder on their side. Full-payload
// listing is the literal contract here; it does not paginate.
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	records, err := s.store.ListAll(r.Context())
	if err != nil {
		rid := RequestIDFromContext(r.Context())
		log.Printf("rid=%s msg=list_failed err=%v", rid, err)
		s.metrics.RecordListError()
		writeJSON(w, http.StatusInternalServerError, listError{Message: "failed to list files"})
		return
	}

	// Encode is total, so past this point the response cannot fail.
	entries := make([]fileEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, fileEntry{
			Name:        rec.Name,
			Data:        codec.Encode(rec.Payload),
			ContentType: rec.ContentType,
		})
	}

	s.metrics.RecordList(time.Since(start))
	writeJSON(w, http.StatusOK, entries)
}
