package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime"
	"net/http"

	"loan-origination/domain"
	"loan-origination/logging"
	"loan-origination/service"
)

const (
	KindInvalidRequest     = "InvalidRequest"
	KindUnsupportedMedia   = "UnsupportedMediaType"
	KindNoAffordableTenure = "NoAffordableTenure"
	KindRateLimited        = "RateLimited"
	KindInternal           = "Internal"

	maxBodyBytes = 1 << 20
)

// decodeJSON reads a JSON body into dst and writes the error response itself
// when it fails.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		writeError(w, r, http.StatusUnsupportedMediaType, KindUnsupportedMedia, "Content-Type must be application/json")
		return false
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		logging.FromContext(r.Context()).DebugContext(r.Context(), "error decoding request body", "error", err)
		writeError(w, r, http.StatusBadRequest, KindInvalidRequest, "invalid request body")
		return false
	}
	return true
}

// writeJSON encodes into a buffer first so a failed encode can still send a 500.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		logging.FromContext(r.Context()).ErrorContext(r.Context(), "error encoding response", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		logging.FromContext(r.Context()).WarnContext(r.Context(), "error writing response", "error", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, kind string, message string) {
	writeJSON(w, r, status, ErrorResponse{Error: message, Kind: kind})
}

// writeServiceError maps service and domain errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if kind, ok := domain.KindOf(err); ok {
		writeError(w, r, http.StatusBadRequest, string(kind), err.Error())
		return
	}

	switch {
	case errors.Is(err, service.ErrInvalidPreference), errors.Is(err, service.ErrInvalidMaxPayment):
		writeError(w, r, http.StatusBadRequest, KindInvalidRequest, err.Error())
	case errors.Is(err, service.ErrNoAffordableTenure):
		writeError(w, r, http.StatusUnprocessableEntity, KindNoAffordableTenure, err.Error())
	default:
		logging.FromContext(r.Context()).ErrorContext(r.Context(), "request failed", "error", err)
		writeError(w, r, http.StatusInternalServerError, KindInternal, "internal server error")
	}
}
