package handler

import (
	"errors"
	"net/http"

	"cloudnote/internal/domain"
	"cloudnote/internal/httputil"
)

// handleError converts domain errors to HTTP responses.
// Unclassified errors are 500s carrying the raw message.
func handleError(w http.ResponseWriter, err error) {
	var (
		sharedErr *domain.AlreadySharedError
		httpErr   domain.HTTPError
	)

	switch {
	case errors.As(err, &sharedErr):
		httputil.RespondErrorWithExtras(w, sharedErr.StatusCode(), sharedErr.Message, map[string]interface{}{
			"snapshotId": sharedErr.SnapshotID,
		})
	case errors.As(err, &httpErr):
		httputil.RespondError(w, httpErr.StatusCode(), httpErr.Error())
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrConflict):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	default:
		httputil.RespondError(w, http.StatusInternalServerError, err.Error())
	}
}
