package services

import (
	"context"

	"cloudnote/internal/domain/models"
)

// UserProfileService handles user profile business logic
type UserProfileService interface {
	// GetProfile merges the stored profile over the token identity
	GetProfile(ctx context.Context, identity *models.Identity) (*models.UserProfile, error)

	// UpdateProfile saves the profile and propagates name/photo to the caller's published snapshots
	UpdateProfile(ctx context.Context, identity *models.Identity, req *models.UpdateProfileRequest) (*models.UserProfile, error)

	// AuthorDisplay resolves the name and photo shown on published content.
	// Falls back to email, then "Anonymous".
	AuthorDisplay(ctx context.Context, userID, email string) (string, *string, error)
}

// AdminService exposes read-only usage data to allow-listed admins
type AdminService interface {
	Stats(ctx context.Context) (*models.AdminStats, error)
	ListUsers(ctx context.Context) ([]models.UserProfile, error)
	GetUser(ctx context.Context, userID string) (*AdminUserDetail, error)
}

// AdminUserDetail is one profile plus its content counts
type AdminUserDetail struct {
	models.UserProfile
	NotesCount   int `json:"notesCount"`
	FoldersCount int `json:"foldersCount"`
}
