package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/avolkovx/listsync/internal/common"
)

type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps service error kinds to HTTP statuses. The services never
// know about HTTP; the mapping lives entirely here.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrNotFound), errors.Is(err, common.ErrTokenNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrNoPermission), errors.Is(err, common.ErrOwnerBlocked):
		return http.StatusForbidden
	case errors.Is(err, common.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, common.ErrTokenExpired):
		return http.StatusGone
	case errors.Is(err, common.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrUnauthorized), errors.Is(err, common.ErrInvalidToken):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		// Internal details stay in the logs.
		msg = "internal error"
	}
	writeJSON(w, status, errorResponse{Error: msg})
}
