package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"cloudnote/internal/domain"
	"cloudnote/internal/domain/models"

	"github.com/golang-jwt/jwt/v5"
)

func newTestVerifier(t *testing.T) (*FirebaseJWTVerifier, *rsa.PrivateKey) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	kf := func(token *jwt.Token) (interface{}, error) {
		if token.Header["kid"] != "test-kid" {
			return nil, errors.New("unknown kid")
		}
		return &key.PublicKey, nil
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewJWTVerifierWithKeyfunc(kf, "cloudnote-test", logger), key
}

func sign(t *testing.T, key *rsa.PrivateKey, method jwt.SigningMethod, claims *models.FirebaseClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(method, claims)
	token.Header["kid"] = "test-kid"
	s, err := token.SignedString(key)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func validClaims() *models.FirebaseClaims {
	now := time.Now()
	return &models.FirebaseClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "uid-123",
			Issuer:    "https://securetoken.google.com/cloudnote-test",
			Audience:  jwt.ClaimStrings{"cloudnote-test"},
			IssuedAt:  jwt.NewNumericDate(now.Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		Email:    "alice@example.com",
		AuthTime: now.Add(-time.Minute).Unix(),
	}
}

func TestFirebaseJWTVerifier(t *testing.T) {
	verifier, key := newTestVerifier(t)

	tests := []struct {
		name    string
		mutate  func(c *models.FirebaseClaims)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *models.FirebaseClaims) {}},
		{name: "wrong audience", mutate: func(c *models.FirebaseClaims) { c.Audience = jwt.ClaimStrings{"other"} }, wantErr: true},
		{name: "wrong issuer", mutate: func(c *models.FirebaseClaims) { c.Issuer = "https://securetoken.google.com/other" }, wantErr: true},
		{name: "expired", mutate: func(c *models.FirebaseClaims) { c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour)) }, wantErr: true},
		{name: "no subject", mutate: func(c *models.FirebaseClaims) { c.Subject = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := validClaims()
			tt.mutate(claims)

			got, err := verifier.VerifyToken(sign(t, key, jwt.SigningMethodRS256, claims))
			if tt.wantErr {
				if !errors.Is(err, domain.ErrUnauthorized) {
					t.Fatalf("error = %v, want ErrUnauthorized", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.GetUserID() != "uid-123" || got.Email != "alice@example.com" {
				t.Errorf("claims = %+v", got)
			}
		})
	}
}

func TestFirebaseJWTVerifier_RejectsOtherAlgorithms(t *testing.T) {
	verifier, key := newTestVerifier(t)

	token := sign(t, key, jwt.SigningMethodRS512, validClaims())
	if _, err := verifier.VerifyToken(token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("error = %v, want ErrUnauthorized", err)
	}
}
