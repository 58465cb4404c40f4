package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Zlatonn/warranty-checker/internal/model"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// jsonValidationErrors writes a 422 with the complete error list, so the
// client can show every problem at once.
func jsonValidationErrors(w http.ResponseWriter, errs model.ValidationErrors) {
	jsonResponse(w, http.StatusUnprocessableEntity, map[string]any{"errors": errs.Messages()})
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}
