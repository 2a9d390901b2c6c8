package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"slidedeck/internal/services"
	"slidedeck/internal/validation"
)

// maxBodyBytes bounds request bodies; image components carry data URIs.
const maxBodyBytes = 16 << 20

// Response is the envelope every JSON endpoint answers with
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   []string    `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("Failed to write response: %v", err)
	}
}

func respondOK(w http.ResponseWriter, status int, message string, data interface{}) {
	writeJSON(w, status, Response{Success: true, Message: message, Data: data})
}

func respondFail(w http.ResponseWriter, status int, message string, details ...string) {
	writeJSON(w, status, Response{Success: false, Message: message, Error: details})
}

// respondError maps service errors onto status codes
func respondError(w http.ResponseWriter, err error) {
	var verr *validation.Error
	switch {
	case errors.Is(err, services.ErrNotFound):
		respondFail(w, http.StatusNotFound, "Presentation not found")
	case errors.As(err, &verr):
		respondFail(w, http.StatusBadRequest, "Validation failed", verr.Messages()...)
	default:
		log.Printf("Request failed: %v", err)
		respondFail(w, http.StatusInternalServerError, "Internal server error", err.Error())
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondFail(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return false
	}
	return true
}
