package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"fleetrent-backend/internal/domain"
	"fleetrent-backend/internal/logger"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			logger.Error("Failed to encode response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}

// writeError maps a service error to an HTTP status by its kind.
func writeError(w http.ResponseWriter, err error) {
	var derr *domain.Error
	if errors.As(err, &derr) {
		switch derr.Kind {
		case domain.ErrKindValidation:
			jsonError(w, http.StatusBadRequest, derr.Message)
			return
		case domain.ErrKindNotFound:
			jsonError(w, http.StatusNotFound, derr.Message)
			return
		case domain.ErrKindConflict:
			jsonError(w, http.StatusConflict, derr.Message)
			return
		}
	}
	logger.Error("Internal error", "error", err)
	jsonError(w, http.StatusInternalServerError, "internal server error")
}
