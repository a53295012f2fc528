package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"storefront/internal/api"
	"storefront/pkg/logging"
)

// errorResponse is the structured error payload shared by all endpoints.
type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("HTTP", err, "Failed to encode response")
	}
}

// writeRaw relays an upstream JSON body verbatim.
func writeRaw(w http.ResponseWriter, status int, body json.RawMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		logging.Error("HTTP", err, "Failed to write relayed response")
	}
}

// writeError maps the error taxonomy to status codes and the {error, details}
// payload. Unknown errors become opaque 500s; the detail stays in the log.
func writeError(w http.ResponseWriter, err error) {
	var (
		inputErr       *api.ClientInputError
		notAuthErr     *api.NotAuthenticatedError
		notFoundErr    *api.NotFoundError
		unavailableErr *api.StoreUnavailableError
		upstreamErr    *api.UpstreamError
	)

	switch {
	case errors.As(err, &inputErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: inputErr.Message})
	case errors.As(err, &notAuthErr):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: notAuthErr.Error()})
	case errors.As(err, &notFoundErr):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: notFoundErr.Error()})
	case errors.As(err, &unavailableErr):
		logging.Error("HTTP", err, "Session store unavailable")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: unavailableErr.Error()})
	case errors.As(err, &upstreamErr):
		logging.Error("HTTP", err, "Upstream commerce call failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:   upstreamErr.Error(),
			Details: upstreamErr.Detail,
		})
	default:
		logging.Error("HTTP", err, "Unhandled error")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
	}
}
