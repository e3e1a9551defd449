package auth

import "cloudnote/internal/domain/models"

// JWTVerifier defines the interface for ID token verification.
// The middleware stays agnostic of how keys are fetched and cached.
type JWTVerifier interface {
	// VerifyToken validates a token string and returns the parsed claims.
	// Returns domain.ErrUnauthorized if the token is invalid, expired, or has an invalid signature.
	VerifyToken(tokenString string) (*models.FirebaseClaims, error)

	// Close releases any resources held by the verifier (e.g., HTTP connections for JWKS).
	Close() error
}
