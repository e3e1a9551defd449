package notebook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"cloudnote/internal/domain"
	"cloudnote/internal/domain/models/notebook"
	"cloudnote/internal/domain/repositories"
	notebookRepo "cloudnote/internal/domain/repositories/notebook"
	sharingRepo "cloudnote/internal/domain/repositories/sharing"
	"cloudnote/internal/domain/services"
	notebookSvc "cloudnote/internal/domain/services/notebook"
	sharingSvc "cloudnote/internal/domain/services/sharing"

	"github.com/google/uuid"
)

const defaultFolderName = "New Folder"

type folderService struct {
	folderRepo       notebookRepo.FolderRepository
	noteRepo         notebookRepo.NoteRepository
	globalFolderRepo sharingRepo.GlobalFolderRepository
	txManager        repositories.TransactionManager
	authorizer       services.ResourceAuthorizer
	profiles         services.UserProfileService
	builder          notebookSvc.StructureBuilder
	syncer           sharingSvc.Syncer
	logger           *slog.Logger
}

// NewFolderService creates a new folder service
func NewFolderService(
	folderRepo notebookRepo.FolderRepository,
	noteRepo notebookRepo.NoteRepository,
	globalFolderRepo sharingRepo.GlobalFolderRepository,
	txManager repositories.TransactionManager,
	authorizer services.ResourceAuthorizer,
	profiles services.UserProfileService,
	builder notebookSvc.StructureBuilder,
	syncer sharingSvc.Syncer,
	logger *slog.Logger,
) notebookSvc.FolderService {
	return &folderService{
		folderRepo:       folderRepo,
		noteRepo:         noteRepo,
		globalFolderRepo: globalFolderRepo,
		txManager:        txManager,
		authorizer:       authorizer,
		profiles:         profiles,
		builder:          builder,
		syncer:           syncer,
		logger:           logger,
	}
}

// ListFolders lists the caller's folders directly under parentID
func (s *folderService) ListFolders(ctx context.Context, userID string, parentID *string) ([]notebook.Folder, error) {
	folders, err := s.folderRepo.ListChildren(ctx, normalizeID(parentID), userID)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	return folders, nil
}

// CreateFolder creates a new folder
func (s *folderService) CreateFolder(ctx context.Context, req *notebookSvc.CreateFolderRequest) (*notebook.Folder, error) {
	name := defaultFolderName
	if req.Name != nil {
		name = *req.Name
	}
	name, err := validateFolderName(name)
	if err != nil {
		return nil, err
	}

	parentID := normalizeID(req.ParentID)
	if parentID != nil {
		if err := s.checkParent(ctx, req.OwnerID, *parentID); err != nil {
			return nil, err
		}
	}

	folder := &notebook.Folder{
		OwnerID:  req.OwnerID,
		Name:     name,
		ParentID: parentID,
	}
	if err := s.folderRepo.Create(ctx, folder); err != nil {
		return nil, fmt.Errorf("create folder: %w", err)
	}

	s.logger.Info("folder created",
		"id", folder.ID,
		"name", folder.Name,
		"owner_id", folder.OwnerID,
		"parent_id", folder.ParentID,
	)

	return folder, nil
}

// GetFolder returns a folder the caller owns, or one anyone has published
func (s *folderService) GetFolder(ctx context.Context, userID, folderID string) (*notebook.Folder, error) {
	folder, err := s.folderRepo.GetByID(ctx, folderID)
	if err != nil {
		return nil, err
	}
	if folder.OwnerID == userID {
		return folder, nil
	}

	published, err := s.globalFolderRepo.ExistsForFolder(ctx, folderID)
	if err != nil {
		return nil, fmt.Errorf("check global folder: %w", err)
	}
	if !published {
		return nil, &domain.ForbiddenError{Message: "Unauthorized"}
	}
	return folder, nil
}

// UpdateFolder renames or moves a folder, then refreshes published snapshots
func (s *folderService) UpdateFolder(ctx context.Context, userID, folderID string, req *notebookSvc.UpdateFolderRequest) (*notebook.Folder, error) {
	folder, err := s.authorizer.CanAccessFolder(ctx, userID, folderID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name, err := validateFolderName(*req.Name)
		if err != nil {
			return nil, err
		}
		folder.Name = name
	}

	if req.ParentIDSet {
		parentID := normalizeID(req.ParentID)
		if parentID != nil {
			// Only direct self-reference is rejected; deeper cycles are tolerated on write
			if *parentID == folderID {
				return nil, &domain.ValidationError{Message: "Folder cannot be its own parent"}
			}
			if err := s.checkParent(ctx, userID, *parentID); err != nil {
				return nil, err
			}
		}
		folder.ParentID = parentID
	}

	if err := s.folderRepo.Update(ctx, folder); err != nil {
		return nil, fmt.Errorf("update folder: %w", err)
	}

	s.logger.Info("folder updated",
		"id", folder.ID,
		"name", folder.Name,
		"parent_id", folder.ParentID,
	)

	if synced, err := s.syncer.SyncFolder(ctx, userID, folderID); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error("failed to auto-sync folder to global",
				"id", folderID,
				"error", err,
			)
		}
	} else {
		s.logger.Info("auto-synced folder to global", "id", folderID, "snapshots", synced)
	}

	return folder, nil
}

// DeleteFolder deletes a folder and the notes directly inside it.
// Sub-folders are left in place.
func (s *folderService) DeleteFolder(ctx context.Context, userID, folderID string) (int, error) {
	if _, err := s.authorizer.CanAccessFolder(ctx, userID, folderID); err != nil {
		return 0, err
	}

	var notesDeleted int
	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		n, err := s.noteRepo.DeleteByFolder(ctx, folderID)
		if err != nil {
			return fmt.Errorf("delete folder notes: %w", err)
		}
		notesDeleted = n

		return s.folderRepo.Delete(ctx, folderID)
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("folder deleted",
		"id", folderID,
		"owner_id", userID,
		"notes_deleted", notesDeleted,
	)

	return notesDeleted, nil
}

// ShareFolder returns the folder's private share token, creating it once
func (s *folderService) ShareFolder(ctx context.Context, userID, folderID string) (string, error) {
	folder, err := s.authorizer.CanAccessFolder(ctx, userID, folderID)
	if err != nil {
		return "", err
	}

	if folder.ShareToken != nil && *folder.ShareToken != "" {
		return *folder.ShareToken, nil
	}

	token := uuid.NewString()
	if err := s.folderRepo.SetShareToken(ctx, folderID, token); err != nil {
		return "", fmt.Errorf("set share token: %w", err)
	}

	s.logger.Info("share token generated", "folder_id", folderID)
	return token, nil
}

// GetSharedFolder resolves a private share token and builds the current subtree
func (s *folderService) GetSharedFolder(ctx context.Context, token string) (*notebookSvc.SharedFolder, error) {
	folder, err := s.folderRepo.GetByShareToken(ctx, token)
	if err != nil {
		return nil, err
	}

	name, photo, err := s.profiles.AuthorDisplay(ctx, folder.OwnerID, "")
	if err != nil {
		return nil, fmt.Errorf("resolve author: %w", err)
	}

	structure, err := s.builder.Build(ctx, folder.ID, folder.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("build folder structure: %w", err)
	}

	return &notebookSvc.SharedFolder{
		Folder:         *folder,
		Structure:      structure,
		AuthorName:     name,
		AuthorPhotoURL: photo,
		RequiresAuth:   true,
	}, nil
}

func (s *folderService) checkParent(ctx context.Context, userID, parentID string) error {
	parent, err := s.folderRepo.GetByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &domain.NotFoundError{Message: "Parent folder not found"}
		}
		return err
	}
	if parent.OwnerID != userID {
		return &domain.ForbiddenError{Message: "Unauthorized"}
	}
	return nil
}
