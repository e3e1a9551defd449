package config

import (
	"os"
	"strconv"
	"strings"
)

// googleSecureTokenJWKS is where Google publishes the keys that sign Firebase ID tokens.
const googleSecureTokenJWKS = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	CORSOrigins string
	// Firebase Authentication
	FirebaseProjectID string
	FirebaseJWKSURL   string
	AdminEmails       []string
	// Backblaze B2 (optional; PDF uploads fall back to data URLs when unset)
	B2KeyID          string
	B2ApplicationKey string
	B2BucketName     string
	B2Region         string
	B2Endpoint       string
	B2PublicURL      string
	// Operational
	RunMigrations bool
	LogDir        string
	LogMaxFiles   int
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:              getEnv("PORT", "5000"),
		Environment:       env,
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		CORSOrigins:       getEnv("CORS_ORIGINS", "http://localhost:5173"),
		FirebaseProjectID: getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseJWKSURL:   getEnv("FIREBASE_JWKS_URL", googleSecureTokenJWKS),
		AdminEmails:       splitList(getEnv("ADMIN_EMAILS", "")),
		B2KeyID:           getEnv("B2_KEY_ID", ""),
		B2ApplicationKey:  getEnv("B2_APPLICATION_KEY", ""),
		B2BucketName:      getEnv("B2_BUCKET_NAME", ""),
		B2Region:          getEnv("B2_REGION", ""),
		B2Endpoint:        getEnv("B2_ENDPOINT", ""),
		B2PublicURL:       getEnv("B2_PUBLIC_URL", ""),
		RunMigrations:     getEnv("RUN_MIGRATIONS", "true") == "true",
		LogDir:            getEnv("LOG_DIR", ""),
		LogMaxFiles:       getEnvInt("LOG_MAX_FILES", 10),
	}
}

// B2Enabled reports whether every Backblaze setting needed for uploads is present
func (c *Config) B2Enabled() bool {
	if c.B2KeyID == "" || c.B2ApplicationKey == "" || c.B2BucketName == "" {
		return false
	}
	return c.B2Region != "" || c.B2Endpoint != ""
}

// IsAdmin reports whether email is on the admin allow-list (case-insensitive)
func (c *Config) IsAdmin(email string) bool {
	if email == "" {
		return false
	}
	for _, admin := range c.AdminEmails {
		if strings.EqualFold(admin, email) {
			return true
		}
	}
	return false
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
