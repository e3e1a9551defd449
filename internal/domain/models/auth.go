package models

import "github.com/golang-jwt/jwt/v5"

// FirebaseClaims represents the claims of a Firebase Authentication ID token.
// See: https://firebase.google.com/docs/auth/admin/verify-id-tokens
type FirebaseClaims struct {
	jwt.RegisteredClaims        // sub = Firebase uid, iss, aud, exp, iat
	Email                string `json:"email"`
	EmailVerified        bool   `json:"email_verified"`
	Name                 string `json:"name"`
	Picture              string `json:"picture"`
	AuthTime             int64  `json:"auth_time"`
	Firebase             struct {
		SignInProvider string `json:"sign_in_provider"`
	} `json:"firebase"`
}

// GetUserID returns the Firebase uid from the subject claim.
func (c *FirebaseClaims) GetUserID() string {
	return c.Subject
}
