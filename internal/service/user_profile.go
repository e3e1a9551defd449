package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cloudnote/internal/domain/models"
	"cloudnote/internal/domain/repositories"
	sharingRepo "cloudnote/internal/domain/repositories/sharing"
	"cloudnote/internal/domain/services"
)

const (
	anonymousAuthor = "Anonymous"
	defaultTheme    = "default"
)

// UserProfileService implements the UserProfileService interface
type UserProfileService struct {
	profileRepo      repositories.UserProfileRepository
	globalNoteRepo   sharingRepo.GlobalNoteRepository
	globalFolderRepo sharingRepo.GlobalFolderRepository
	logger           *slog.Logger
}

// NewUserProfileService creates a new user profile service
func NewUserProfileService(
	profileRepo repositories.UserProfileRepository,
	globalNoteRepo sharingRepo.GlobalNoteRepository,
	globalFolderRepo sharingRepo.GlobalFolderRepository,
	logger *slog.Logger,
) services.UserProfileService {
	return &UserProfileService{
		profileRepo:      profileRepo,
		globalNoteRepo:   globalNoteRepo,
		globalFolderRepo: globalFolderRepo,
		logger:           logger,
	}
}

// GetProfile merges the stored profile over the token identity
func (s *UserProfileService) GetProfile(ctx context.Context, identity *models.Identity) (*models.UserProfile, error) {
	stored, err := s.profileRepo.GetByUserID(ctx, identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	profile := s.defaultProfile(identity)
	if stored == nil {
		s.logger.Debug("no profile found, returning identity", "user_id", identity.UserID)
		return profile, nil
	}

	if stored.DisplayName != "" {
		profile.DisplayName = stored.DisplayName
	}
	if stored.PhotoURL != "" {
		profile.PhotoURL = stored.PhotoURL
	}
	if stored.Theme != "" {
		profile.Theme = stored.Theme
	}
	profile.CreatedAt = stored.CreatedAt
	profile.UpdatedAt = stored.UpdatedAt

	return profile, nil
}

// UpdateProfile saves the profile, then rewrites author fields on the caller's snapshots
func (s *UserProfileService) UpdateProfile(ctx context.Context, identity *models.Identity, req *models.UpdateProfileRequest) (*models.UserProfile, error) {
	existing, err := s.profileRepo.GetByUserID(ctx, identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("get existing profile: %w", err)
	}

	profile := &models.UserProfile{
		UserID: identity.UserID,
		Email:  identity.Email,
		Theme:  defaultTheme,
	}
	if existing != nil {
		profile.DisplayName = existing.DisplayName
		profile.PhotoURL = existing.PhotoURL
		if existing.Theme != "" {
			profile.Theme = existing.Theme
		}
	}

	if req.DisplayName != nil {
		profile.DisplayName = *req.DisplayName
	}
	if req.PhotoURL != nil {
		profile.PhotoURL = *req.PhotoURL
	}
	if req.Theme != nil && *req.Theme != "" {
		profile.Theme = *req.Theme
	}

	if err := s.profileRepo.Upsert(ctx, profile); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}

	s.logger.Info("profile updated", "user_id", identity.UserID)

	if req.DisplayName != nil || req.PhotoURL != nil {
		s.propagateAuthor(ctx, profile)
	}

	return profile, nil
}

// propagateAuthor rewrites author display fields on every published snapshot.
// Failures are logged; the profile itself is already saved.
func (s *UserProfileService) propagateAuthor(ctx context.Context, profile *models.UserProfile) {
	name := authorName(profile.DisplayName, profile.Email)
	photo := optionalString(profile.PhotoURL)

	notes, err := s.globalNoteRepo.UpdateAuthor(ctx, profile.UserID, name, photo)
	if err != nil {
		s.logger.Error("failed to update author on global notes", "user_id", profile.UserID, "error", err)
	}
	folders, err := s.globalFolderRepo.UpdateAuthor(ctx, profile.UserID, name, photo)
	if err != nil {
		s.logger.Error("failed to update author on global folders", "user_id", profile.UserID, "error", err)
	}

	s.logger.Info("author updated on global items",
		"user_id", profile.UserID,
		"notes", notes,
		"folders", folders,
	)
}

// AuthorDisplay resolves the name and photo shown on published content
func (s *UserProfileService) AuthorDisplay(ctx context.Context, userID, email string) (string, *string, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return "", nil, fmt.Errorf("get profile: %w", err)
	}
	if profile == nil {
		return authorName("", email), nil, nil
	}
	return authorName(profile.DisplayName, email), optionalString(profile.PhotoURL), nil
}

func (s *UserProfileService) defaultProfile(identity *models.Identity) *models.UserProfile {
	now := time.Now()
	return &models.UserProfile{
		UserID:      identity.UserID,
		Email:       identity.Email,
		DisplayName: identity.Name,
		PhotoURL:    identity.Picture,
		Theme:       defaultTheme,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func authorName(displayName, email string) string {
	switch {
	case displayName != "":
		return displayName
	case email != "":
		return email
	default:
		return anonymousAuthor
	}
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
