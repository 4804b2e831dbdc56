package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"filestash/internal/codec"
	"filestash/internal/store"
)

// uploadRequest carries one file: the name it will be retrieved under,
// the transport-encoded payload, and an optional content type.
type uploadRequest struct {
	Name        string `json:"name"`
	FileData    string `json:"fileData"`
	ContentType string `json:"contentType"`
}

// handleUpload handles POST /file-upload. The payload arrives base64
// encoded inside the JSON body; it is decoded once here and stored as
// raw bytes, so downloads never touch the codec. Bad encoding is a
// client error (400), only store failures become 500s.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	var req uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.metrics.RecordUploadError()
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge, uploadResult{Success: false, Message: "file too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, uploadResult{Success: false, Message: "invalid request body"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.ContentType = strings.TrimSpace(req.ContentType)

	if req.Name == "" || req.FileData == "" {
		s.metrics.RecordUploadError()
		writeJSON(w, http.StatusBadRequest, uploadResult{Success: false, Message: "name and fileData are required"})
		return
	}

	payload, err := codec.Decode(req.FileData)
	if err != nil {
		s.metrics.RecordUploadError()
		writeJSON(w, http.StatusBadRequest, uploadResult{Success: false, Message: "fileData is not valid base64"})
		return
	}

	contentType := req.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	id, err := s.store.Insert(r.Context(), store.Record{
		Name:        req.Name,
		ContentType: contentType,
		Payload:     payload,
	})
	if err != nil {
		// Full cause stays in the server log; the client gets a
		// generic message.
		rid := RequestIDFromContext(r.Context())
		log.Printf("rid=%s msg=upload_insert_failed name=%q err=%v", rid, req.Name, err)
		s.metrics.RecordUploadError()
		writeJSON(w, http.StatusInternalServerError, uploadResult{Success: false, Message: "failed to store file"})
		return
	}

	s.logger.Info("file uploaded", map[string]any{
		"id":    id.String(),
		"name":  req.Name,
		"bytes": len(payload),
	})
	s.metrics.RecordUpload(int64(len(payload)), time.Since(start))

	writeJSON(w, http.StatusOK, uploadResult{Success: true, Message: "file uploaded"})
}
