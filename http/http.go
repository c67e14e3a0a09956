// Package http serves the pdfrules HTTP API using gorilla/mux with CORS
// handled by rs/cors.
package http

import (
	"encoding/json"
	"net/http"

	"github.com/fwojciec/pdfrules"
)

// errorResponse is the body of every error reply.
type errorResponse struct {
	Error string `json:"error"`
}

// writeError writes a JSON error body with the given status.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorStatus maps an application error code to an HTTP status.
func errorStatus(err error) int {
	switch pdfrules.ErrorCode(err) {
	case pdfrules.EINVALID:
		return http.StatusBadRequest
	case pdfrules.ENOTFOUND, pdfrules.EFILENOTFOUND:
		return http.StatusNotFound
	case pdfrules.ECONFLICT:
		return http.StatusConflict
	case pdfrules.ENOTIMPLEMENTED:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
