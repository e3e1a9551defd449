package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"cloudnote/internal/auth"
	"cloudnote/internal/domain/models"
	"cloudnote/internal/httputil"
)

// RequireAuth verifies the Firebase ID token in the Authorization header
// and stores the caller's identity in the request context
func RequireAuth(verifier auth.JWTVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				httputil.RespondError(w, http.StatusUnauthorized, "No token provided")
				return
			}

			claims, err := verifier.VerifyToken(strings.TrimSpace(token))
			if err != nil {
				logger.Debug("token rejected", "path", r.URL.Path, "error", err)
				httputil.RespondError(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			r = httputil.WithIdentity(r, &models.Identity{
				UserID:  claims.GetUserID(),
				Email:   claims.Email,
				Name:    claims.Name,
				Picture: claims.Picture,
			})
			next.ServeHTTP(w, r)
		})
	}
}

// AdminChecker decides whether an email is on the admin allow-list
type AdminChecker interface {
	IsAdmin(email string) bool
}

// RequireAdmin rejects callers whose email is not allow-listed.
// Must run after RequireAuth.
func RequireAdmin(admins AdminChecker, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := httputil.GetIdentity(r)
			if identity == nil || !admins.IsAdmin(identity.Email) {
				if identity != nil {
					logger.Warn("non-admin access attempt", "user_id", identity.UserID, "path", r.URL.Path)
				}
				httputil.RespondError(w, http.StatusForbidden, "Admin access required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
