package server

import (
	"encoding/json"
	"net/http"
)

// uploadResult is the JSON body for both upload outcomes; JSON
// endpoints fail in JSON, only the raw-binary download fails in plain
// text.
type uploadResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// listError is the JSON error body for the list endpoint.
type listError struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
