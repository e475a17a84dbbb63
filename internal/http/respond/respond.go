package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hongminglow/learnhub-be/internal/apperr"
)

// ErrorBody is the JSON shape of every failed request.
type ErrorBody struct {
	Message string              `json:"message"`
	Code    string              `json:"code,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// JSON writes payload with the given status. Encode failures go to the
// process default slog logger, which cmd/server points at the configured one.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("respond: encode payload failed", "error", err)
	}
}

// NoContent writes a bare 204.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error maps err onto the error taxonomy and writes it. Anything outside the
// taxonomy is reported as a generic internal error.
func Error(w http.ResponseWriter, err error) {
	appErr := apperr.From(err)
	if appErr == nil {
		appErr = apperr.Internal(nil)
	}
	JSON(w, appErr.Kind.Status(), ErrorBody{
		Message: appErr.Message,
		Code:    appErr.Code,
		Errors:  appErr.Fields,
	})
}
