package service

import (
	"context"
	"fmt"
	"log/slog"

	"cloudnote/internal/domain"
	"cloudnote/internal/domain/models"
	"cloudnote/internal/domain/repositories"
	notebookRepo "cloudnote/internal/domain/repositories/notebook"
	sharingRepo "cloudnote/internal/domain/repositories/sharing"
	"cloudnote/internal/domain/services"
)

type adminService struct {
	profileRepo      repositories.UserProfileRepository
	noteRepo         notebookRepo.NoteRepository
	folderRepo       notebookRepo.FolderRepository
	globalNoteRepo   sharingRepo.GlobalNoteRepository
	globalFolderRepo sharingRepo.GlobalFolderRepository
	logger           *slog.Logger
}

// NewAdminService creates the read-only admin service
func NewAdminService(
	profileRepo repositories.UserProfileRepository,
	noteRepo notebookRepo.NoteRepository,
	folderRepo notebookRepo.FolderRepository,
	globalNoteRepo sharingRepo.GlobalNoteRepository,
	globalFolderRepo sharingRepo.GlobalFolderRepository,
	logger *slog.Logger,
) services.AdminService {
	return &adminService{
		profileRepo:      profileRepo,
		noteRepo:         noteRepo,
		folderRepo:       folderRepo,
		globalNoteRepo:   globalNoteRepo,
		globalFolderRepo: globalFolderRepo,
		logger:           logger,
	}
}

func (s *adminService) Stats(ctx context.Context) (*models.AdminStats, error) {
	var (
		stats models.AdminStats
		err   error
	)

	if stats.TotalUsers, err = s.profileRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	if stats.TotalNotes, err = s.noteRepo.Count(ctx, ""); err != nil {
		return nil, fmt.Errorf("count notes: %w", err)
	}
	if stats.TotalFolders, err = s.folderRepo.Count(ctx, ""); err != nil {
		return nil, fmt.Errorf("count folders: %w", err)
	}
	if stats.TotalGlobalNotes, err = s.globalNoteRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("count global notes: %w", err)
	}
	if stats.TotalGlobalFolders, err = s.globalFolderRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("count global folders: %w", err)
	}

	s.logger.Debug("admin stats computed", "users", stats.TotalUsers, "notes", stats.TotalNotes)
	return &stats, nil
}

func (s *adminService) ListUsers(ctx context.Context) ([]models.UserProfile, error) {
	users, err := s.profileRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// GetUser returns a profile with its note and folder counts
func (s *adminService) GetUser(ctx context.Context, userID string) (*services.AdminUserDetail, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if profile == nil {
		return nil, &domain.NotFoundError{Message: "User not found"}
	}

	notes, err := s.noteRepo.Count(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count notes: %w", err)
	}
	folders, err := s.folderRepo.Count(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count folders: %w", err)
	}

	return &services.AdminUserDetail{
		UserProfile:  *profile,
		NotesCount:   notes,
		FoldersCount: folders,
	}, nil
}
