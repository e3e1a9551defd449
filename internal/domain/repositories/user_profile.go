package repositories

import (
	"context"

	"cloudnote/internal/domain/models"
)

// UserProfileRepository defines the interface for user profile data access
type UserProfileRepository interface {
	// GetByUserID retrieves a profile.
	// Returns nil if the user has never saved one.
	GetByUserID(ctx context.Context, userID string) (*models.UserProfile, error)

	// Upsert creates or replaces a profile
	Upsert(ctx context.Context, profile *models.UserProfile) error

	// List returns every known profile, oldest first
	List(ctx context.Context) ([]models.UserProfile, error)

	Count(ctx context.Context) (int, error)
}
