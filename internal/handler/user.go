package handler

import (
	"log/slog"
	"net/http"

	"cloudnote/internal/domain/models"
	"cloudnote/internal/domain/services"
	"cloudnote/internal/httputil"
)

// UserHandler handles identity and profile HTTP requests
type UserHandler struct {
	service services.UserProfileService
	logger  *slog.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(service services.UserProfileService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		logger:  logger,
	}
}

// GetIdentity echoes the verified token identity
// GET /api/auth/profile
func (h *UserHandler) GetIdentity(w http.ResponseWriter, r *http.Request) {
	identity := httputil.GetIdentity(r)
	if identity == nil {
		httputil.RespondError(w, http.StatusUnauthorized, "No token provided")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, identity)
}

// GetProfile retrieves the caller's stored profile
// GET /api/users/profile
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.GetProfile(r.Context(), httputil.GetIdentity(r))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, profile)
}

// UpdateProfile updates the caller's profile
// PUT /api/users/profile
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateProfileRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	profile, err := h.service.UpdateProfile(r.Context(), httputil.GetIdentity(r), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, profile)
}
