package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cloudnote/internal/domain"
	"cloudnote/internal/domain/models"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// firebaseIssuerPrefix is followed by the Firebase project ID in the iss claim
const firebaseIssuerPrefix = "https://securetoken.google.com/"

// FirebaseJWTVerifier verifies Firebase Authentication ID tokens locally
// against the keys Google publishes as a JWKS.
type FirebaseJWTVerifier struct {
	keyfunc   jwt.Keyfunc
	projectID string
	parser    *jwt.Parser
	logger    *slog.Logger
}

// NewJWTVerifier creates a verifier that fetches public keys from jwksURL.
// keyfunc v3 caches the keys and refreshes them in the background.
func NewJWTVerifier(jwksURL, projectID string, logger *slog.Logger) (JWTVerifier, error) {
	if jwksURL == "" {
		return nil, errors.New("JWKS URL cannot be empty")
	}
	if projectID == "" {
		return nil, errors.New("firebase project ID cannot be empty")
	}

	jwks, err := keyfunc.NewDefaultCtx(context.Background(), []string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("failed to create JWKS client: %w", err)
	}

	logger.Info("JWT verifier initialized", "jwks_url", jwksURL, "project_id", projectID)
	return NewJWTVerifierWithKeyfunc(jwks.Keyfunc, projectID, logger), nil
}

// NewJWTVerifierWithKeyfunc creates a verifier over an existing key lookup
func NewJWTVerifierWithKeyfunc(kf jwt.Keyfunc, projectID string, logger *slog.Logger) *FirebaseJWTVerifier {
	return &FirebaseJWTVerifier{
		keyfunc:   kf,
		projectID: projectID,
		parser: jwt.NewParser(
			// Firebase only signs with RS256; pinning it prevents algorithm confusion
			jwt.WithValidMethods([]string{"RS256"}),
			jwt.WithIssuer(firebaseIssuerPrefix+projectID),
			jwt.WithAudience(projectID),
			jwt.WithExpirationRequired(),
			jwt.WithIssuedAt(),
			jwt.WithLeeway(30*time.Second),
		),
		logger: logger,
	}
}

// VerifyToken validates a Firebase ID token and extracts its claims
func (v *FirebaseJWTVerifier) VerifyToken(tokenString string) (*models.FirebaseClaims, error) {
	claims := &models.FirebaseClaims{}
	token, err := v.parser.ParseWithClaims(tokenString, claims, v.keyfunc)
	if err != nil {
		v.logger.Debug("token parse failed", "error", err.Error())
		return nil, domain.ErrUnauthorized
	}

	if !token.Valid {
		v.logger.Debug("token is invalid after parsing")
		return nil, domain.ErrUnauthorized
	}

	// Firebase uid lives in sub and must be non-empty
	if claims.Subject == "" {
		v.logger.Debug("token missing subject claim")
		return nil, domain.ErrUnauthorized
	}

	if claims.AuthTime > 0 && time.Unix(claims.AuthTime, 0).After(time.Now().Add(30*time.Second)) {
		v.logger.Warn("token auth_time is in the future", "user_id", claims.Subject)
		return nil, domain.ErrUnauthorized
	}

	return claims, nil
}

// Close releases resources held by the verifier.
// keyfunc v3 manages its own refresh goroutine, so this is a no-op.
func (v *FirebaseJWTVerifier) Close() error {
	v.logger.Info("JWT verifier closed")
	return nil
}
