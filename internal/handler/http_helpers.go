package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"bilingual-reader/internal/domain"
	apperrors "bilingual-reader/pkg/errors"
	"bilingual-reader/pkg/logger"
)

type contextKey string

const userContextKey contextKey = "user"

// GetUserFromContext extracts the authenticated user from request context
func GetUserFromContext(r *http.Request) (*domain.SupabaseUser, bool) {
	user, ok := r.Context().Value(userContextKey).(*domain.SupabaseUser)
	return user, ok
}

// writeError writes an error response (helper function)
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// toAppError classifies a service error into an application error.
func toAppError(err error) *apperrors.AppError {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return apperrors.NewValidationError(validationErr.Error())
	case errors.Is(err, domain.ErrInvalidAlignmentMode),
		errors.Is(err, domain.ErrInvalidImageMatchMode),
		errors.Is(err, domain.ErrSentenceSplitterUnavailable):
		return apperrors.NewValidationError(err.Error())
	case errors.Is(err, domain.ErrUnsupportedFormat),
		errors.Is(err, domain.ErrUnsupportedLanguage):
		return apperrors.NewUnsupportedError(err.Error(), err)
	case errors.Is(err, domain.ErrInvalidFile):
		return apperrors.NewProcessingError(err.Error(), err)
	case errors.Is(err, domain.ErrSourceNotFound):
		return apperrors.NewNotFoundError(err.Error())
	case errors.Is(err, domain.ErrStorageNotConfigured):
		return apperrors.NewNetworkError(err.Error(), err)
	case errors.Is(err, domain.ErrInvalidToken):
		return apperrors.NewUnauthorizedError("Invalid token")
	default:
		return apperrors.NewInternalError("Internal server error", err)
	}
}

// writeAppError writes err with the status code of its classification.
// Internal errors are logged and never echoed to the client.
func writeAppError(w http.ResponseWriter, r *http.Request, log domain.Logger, err error) {
	appErr := toAppError(err)
	if appErr.Type == apperrors.ErrorTypeInternal {
		fields := []interface{}{"request_id", logger.GetRequestID(r.Context()), "path", r.URL.Path}
		if user, ok := GetUserFromContext(r); ok {
			fields = append(fields, "user_id", user.ID)
		}
		log.Error("Request failed", err, fields...)
	}
	writeError(w, appErr.StatusCode, appErr.Message)
}
