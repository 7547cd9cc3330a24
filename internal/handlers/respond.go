package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/jackmarxreacher-creator/rby-sub001/internal/lifecycle"
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, lifecycle.Result{OK: false, Message: message})
}

// resultStatus maps a refused mutation's message back to an HTTP status.
// The message itself is what the console shows the user.
func resultStatus(res lifecycle.Result) int {
	if res.OK {
		return http.StatusOK
	}
	switch res.Message {
	case lifecycle.ErrUnauthorized.Error():
		return http.StatusUnauthorized
	case lifecycle.ErrNotFound.Error():
		return http.StatusNotFound
	case lifecycle.ErrReferentialConflict.Error():
		return http.StatusConflict
	case lifecycle.ErrValidation.Error():
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
