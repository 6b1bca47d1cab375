package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"starmap-service/internal/domain"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// writeDomainError maps classified failures onto HTTP status codes. Anything
// unclassified is an internal error and only its log line carries detail.
func writeDomainError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrSectorNotFound):
		writeError(w, r, http.StatusNotFound, "sector not found")
	case errors.Is(err, domain.ErrWorldNotFound):
		writeError(w, r, http.StatusNotFound, "world not found")
	case errors.Is(err, domain.ErrNoRoute):
		writeError(w, r, http.StatusNotFound, "no route within jump range")
	case errors.Is(err, domain.ErrInvalidHex),
		errors.Is(err, domain.ErrInvalidUWP),
		errors.Is(err, domain.ErrInvalidSector):
		writeError(w, r, http.StatusBadRequest, err.Error())
	default:
		log.Printf("%s failed: %v", op, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}
