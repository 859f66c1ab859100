package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/dev-profiles/internal/logger"
	"github.com/MKhiriev/dev-profiles/internal/service"
	"github.com/MKhiriev/dev-profiles/internal/store"
	"github.com/MKhiriev/dev-profiles/internal/utils"
	"github.com/MKhiriev/dev-profiles/internal/validators"
	"github.com/MKhiriev/dev-profiles/models"
)

// invalidCredentialsMessage is the only login failure text a client ever sees.
const invalidCredentialsMessage = "Invalid credentials"

// errorStatuses is matched top to bottom; the first sentinel err wraps wins.
var errorStatuses = []struct {
	err    error
	status int
}{
	{ErrInvalidJSON, http.StatusBadRequest},
	{utils.ErrEmptyBody, http.StatusBadRequest},

	{service.ErrInvalidDataProvided, http.StatusBadRequest},
	{service.ErrDuplicateCredential, http.StatusBadRequest},
	{service.ErrInvalidCredentials, http.StatusUnauthorized},
	{service.ErrInvalidRefreshToken, http.StatusUnauthorized},
	{service.ErrMissingIdentity, http.StatusUnauthorized},
	{service.ErrTokenIsExpiredOrInvalid, http.StatusForbidden},
	{service.ErrForbidden, http.StatusForbidden},
	{service.ErrTokenCreationFailed, http.StatusInternalServerError},

	{service.ErrAccountNotFound, http.StatusNotFound},
	{service.ErrProfileNotFound, http.StatusNotFound},

	{service.ErrGitHubUsernameRequired, http.StatusBadRequest},
	{service.ErrInvalidGitHubURL, http.StatusBadRequest},
	{service.ErrGitHubUserNotFound, http.StatusNotFound},
	{service.ErrGitHubUnavailable, http.StatusBadGateway},

	{service.ErrContactDeliveryFailed, http.StatusInternalServerError},
	{service.ErrVersionIsNotSpecified, http.StatusInternalServerError},

	{store.ErrAccountNotFound, http.StatusNotFound},
	{store.ErrBuildingSQLQuery, http.StatusInternalServerError},
	{store.ErrExecutingQuery, http.StatusInternalServerError},
	{store.ErrScanningRows, http.StatusInternalServerError},
}

// lookupError returns the status and message of the first sentinel in
// errorStatuses that err wraps.
func lookupError(err error) (int, string, bool) {
	for _, entry := range errorStatuses {
		if errors.Is(err, entry.err) {
			return entry.status, entry.err.Error(), true
		}
	}
	return http.StatusInternalServerError, "", false
}

// errorResponse converts err into the status and body sent to the client.
// Internal failures get a generic message; login failures are collapsed
// into a single message so lockout state never leaks.
func errorResponse(err error) (int, models.ErrorResponse) {
	var validationErr *validators.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest, models.ErrorResponse{
			Error:   validators.ErrValidation.Error(),
			Details: validationErr.Details,
		}
	}

	var duplicateErr *service.DuplicateCredentialError
	if errors.As(err, &duplicateErr) {
		return http.StatusBadRequest, models.ErrorResponse{Error: duplicateErr.Error()}
	}

	if errors.Is(err, service.ErrInvalidCredentials) {
		return http.StatusUnauthorized, models.ErrorResponse{Error: invalidCredentialsMessage}
	}

	status, message, ok := lookupError(err)
	if !ok || status == http.StatusInternalServerError {
		return status, models.ErrorResponse{Error: http.StatusText(status)}
	}
	return status, models.ErrorResponse{Error: message}
}

// writeError logs err with the request-scoped logger and writes the mapped
// JSON error body.
func writeError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	status, body := errorResponse(err)

	log := logger.FromRequest(r)
	if status >= http.StatusInternalServerError {
		log.Err(err).Int("status", status).Msg(msg)
	} else {
		log.Warn().Err(err).Int("status", status).Msg(msg)
	}

	utils.WriteJSON(w, body, status)
}
