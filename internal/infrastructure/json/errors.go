package json

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
)

// ErrorResponse carries a single human-readable detail string. The field name
// matches what the existing clients parse on failure.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

func WriteError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Detail: detail})
}

func WriteValidationError(w http.ResponseWriter, err error) {
	WriteError(w, http.StatusBadRequest, err.Error())
}

func WriteBadRequestError(w http.ResponseWriter, detail string) {
	WriteError(w, http.StatusBadRequest, detail)
}

func WriteNotFoundError(w http.ResponseWriter, detail string) {
	WriteError(w, http.StatusNotFound, detail)
}

func WriteInternalError(w http.ResponseWriter, err error) {
	log.Printf("Internal error: %v", err)
	WriteError(w, http.StatusInternalServerError, "An unexpected error occurred")
}

func WriteRateLimitError(w http.ResponseWriter, retryAfter int) {
	if retryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	}
	WriteError(w, http.StatusTooManyRequests, "Too many requests. Please try again later.")
}
