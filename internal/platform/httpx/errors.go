// Package httpx provides HTTP response utilities.
package httpx

import (
	"errors"
	"net/http"

	"github.com/RianNegreiros/ai-powered-task-app/internal/shared"
)

// RespondError maps domain errors to HTTP responses using RFC7807.
// Status-code mapping is transport policy; the services only return
// typed sentinels from internal/shared.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrUserExists), errors.Is(err, shared.ErrTagExists):
		Problem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, shared.ErrInvalidCredentials), errors.Is(err, shared.ErrUnauthorized):
		Problem(w, http.StatusUnauthorized, "Unauthorized", err.Error())
	case errors.Is(err, shared.ErrUserNotFound),
		errors.Is(err, shared.ErrTaskNotFound),
		errors.Is(err, shared.ErrTagNotFound),
		errors.Is(err, shared.ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, shared.ErrValidation):
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
