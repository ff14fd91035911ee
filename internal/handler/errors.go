package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/spartacusmuoz/transferte-prenota/internal/domain"
)

// ErrorDetail is the machine-readable part of an error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the JSON envelope for every non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// writeJSON encodes v as the response body with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps a service error to its HTTP status and error code.
// Unrecognized errors become opaque 500s — internal details never leak to
// the client; the slog middleware has already logged the request.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error: ErrorDetail{Code: "validation_error", Message: errorMessage(err)},
		})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, ErrorResponse{
			Error: ErrorDetail{Code: "not_found", Message: errorMessage(err)},
		})
	case errors.Is(err, domain.ErrForbidden):
		writeJSON(w, http.StatusForbidden, ErrorResponse{
			Error: ErrorDetail{Code: "forbidden", Message: errorMessage(err)},
		})
	case errors.Is(err, domain.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error: ErrorDetail{Code: "unauthorized", Message: errorMessage(err)},
		})
	case errors.Is(err, domain.ErrConflict):
		writeJSON(w, http.StatusConflict, ErrorResponse{
			Error: ErrorDetail{Code: "conflict", Message: errorMessage(err)},
		})
	default:
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error: ErrorDetail{Code: "internal_error", Message: "internal server error"},
		})
	}
}

// writeRequestError answers a request rejected before reaching the service
// layer (malformed body, bad path parameter).
func writeRequestError(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
		Error: ErrorDetail{Code: "validation_error", Message: message},
	})
}

// errorMessage strips the internal call-path prefixes from a wrapped error,
// e.g. "service.TripService.Create: repo.TripRepo.GetByID: not found"
// → "not found". Prefixes are recognized as dotted identifiers like
// "service.TripService.Create"; the human-readable tail is kept verbatim.
func errorMessage(err error) string {
	msg := err.Error()
	for {
		head, tail, ok := strings.Cut(msg, ": ")
		if !ok || strings.ContainsRune(head, ' ') || !strings.ContainsRune(head, '.') {
			return msg
		}
		msg = tail
	}
}
