package sharing

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"cloudnote/internal/config"
	"cloudnote/internal/domain"
	"cloudnote/internal/domain/models/notebook"
	"cloudnote/internal/domain/models/sharing"
	"cloudnote/internal/domain/repositories"
	notebookRepo "cloudnote/internal/domain/repositories/notebook"
	sharingRepo "cloudnote/internal/domain/repositories/sharing"
	"cloudnote/internal/domain/services"
	notebookSvc "cloudnote/internal/domain/services/notebook"
	sharingSvc "cloudnote/internal/domain/services/sharing"

	"github.com/google/uuid"
)

// GlobalService publishes snapshots to the global feed and keeps them in sync.
// It implements both sharingSvc.GlobalService and sharingSvc.Syncer.
type GlobalService struct {
	noteRepo         notebookRepo.NoteRepository
	folderRepo       notebookRepo.FolderRepository
	globalNoteRepo   sharingRepo.GlobalNoteRepository
	globalFolderRepo sharingRepo.GlobalFolderRepository
	txManager        repositories.TransactionManager
	authorizer       services.ResourceAuthorizer
	profiles         services.UserProfileService
	builder          notebookSvc.StructureBuilder
	logger           *slog.Logger
}

var (
	_ sharingSvc.GlobalService = (*GlobalService)(nil)
	_ sharingSvc.Syncer        = (*GlobalService)(nil)
)

// NewGlobalService creates a new global feed service
func NewGlobalService(
	noteRepo notebookRepo.NoteRepository,
	folderRepo notebookRepo.FolderRepository,
	globalNoteRepo sharingRepo.GlobalNoteRepository,
	globalFolderRepo sharingRepo.GlobalFolderRepository,
	txManager repositories.TransactionManager,
	authorizer services.ResourceAuthorizer,
	profiles services.UserProfileService,
	builder notebookSvc.StructureBuilder,
	logger *slog.Logger,
) *GlobalService {
	return &GlobalService{
		noteRepo:         noteRepo,
		folderRepo:       folderRepo,
		globalNoteRepo:   globalNoteRepo,
		globalFolderRepo: globalFolderRepo,
		txManager:        txManager,
		authorizer:       authorizer,
		profiles:         profiles,
		builder:          builder,
		logger:           logger,
	}
}

// Feed merges the newest notes and folders, newest first, capped at limit
func (s *GlobalService) Feed(ctx context.Context, limit int) ([]sharing.FeedItem, error) {
	if limit <= 0 {
		limit = config.DefaultGlobalFeedLimit
	}

	notes, err := s.globalNoteRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list global notes: %w", err)
	}
	folders, err := s.globalFolderRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list global folders: %w", err)
	}

	items := make([]sharing.FeedItem, 0, len(notes)+len(folders))
	for i := range notes {
		items = append(items, sharing.FeedItem{ItemType: sharing.FeedItemNote, Note: &notes[i]})
	}
	for i := range folders {
		items = append(items, sharing.FeedItem{ItemType: sharing.FeedItemFolder, Folder: &folders[i]})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt().After(items[j].CreatedAt())
	})
	if len(items) > limit {
		items = items[:limit]
	}

	s.logger.Debug("global items fetched", "notes", len(notes), "folders", len(folders))
	return items, nil
}

// ShareNote publishes a copy of the caller's note.
// There is no duplicate guard: sharing twice yields two snapshots.
func (s *GlobalService) ShareNote(ctx context.Context, publisher sharingSvc.Publisher, noteID string) (*sharing.ShareResult, error) {
	if noteID == "" {
		return nil, &domain.ValidationError{Message: "Note ID is required"}
	}

	note, err := s.authorizer.CanAccessNote(ctx, publisher.UserID, noteID)
	if err != nil {
		return nil, err
	}

	author, err := s.author(ctx, publisher)
	if err != nil {
		return nil, err
	}

	global := &sharing.GlobalNote{
		OriginalNoteID: note.ID,
		Author:         author,
		ShareToken:     uuid.NewString(),
	}
	global.ApplyNote(note)

	if err := s.globalNoteRepo.Create(ctx, global); err != nil {
		return nil, fmt.Errorf("create global note: %w", err)
	}

	s.logger.Info("note shared to global",
		"id", global.ID,
		"note_id", noteID,
		"author_id", publisher.UserID,
	)

	return &sharing.ShareResult{
		ID:         global.ID,
		ShareToken: global.ShareToken,
		Message:    "Note shared to global feed",
	}, nil
}

// ShareFolder publishes the caller's folder with its subtree materialized.
// At most one snapshot exists per (folder, author).
func (s *GlobalService) ShareFolder(ctx context.Context, publisher sharingSvc.Publisher, folderID string) (*sharing.ShareResult, error) {
	if folderID == "" {
		return nil, &domain.ValidationError{Message: "Folder ID is required"}
	}

	folder, err := s.authorizer.CanAccessFolder(ctx, publisher.UserID, folderID)
	if err != nil {
		return nil, err
	}

	if err := s.checkNotShared(ctx, folderID, publisher.UserID); err != nil {
		return nil, err
	}

	author, err := s.author(ctx, publisher)
	if err != nil {
		return nil, err
	}

	// Built before the transaction opens; the builder fans out across connections
	structure, err := s.builder.Build(ctx, folderID, publisher.UserID)
	if err != nil {
		return nil, fmt.Errorf("build folder structure: %w", err)
	}

	global := &sharing.GlobalFolder{
		OriginalFolderID: folder.ID,
		Name:             folder.Name,
		NoteCount:        structure.NoteCount(),
		Structure:        structure,
		Author:           author,
		ShareToken:       uuid.NewString(),
	}

	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if err := s.checkNotShared(ctx, folderID, publisher.UserID); err != nil {
			return err
		}
		return s.globalFolderRepo.Create(ctx, global)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("folder shared to global",
		"id", global.ID,
		"folder_id", folderID,
		"author_id", publisher.UserID,
		"note_count", global.NoteCount,
	)

	return &sharing.ShareResult{
		ID:         global.ID,
		ShareToken: global.ShareToken,
		Message:    "Folder shared to global feed",
	}, nil
}

func (s *GlobalService) checkNotShared(ctx context.Context, folderID, authorID string) error {
	existing, err := s.globalFolderRepo.ListByOriginal(ctx, folderID, authorID)
	if err != nil {
		return fmt.Errorf("check existing global folder: %w", err)
	}
	if len(existing) > 0 {
		return &domain.AlreadySharedError{
			Message:    "Folder already shared to global",
			SnapshotID: existing[0].ID,
		}
	}
	return nil
}

// SyncNote overwrites every snapshot of noteID published by userID
func (s *GlobalService) SyncNote(ctx context.Context, userID, noteID string) (int, error) {
	snapshots, err := s.globalNoteRepo.ListByOriginal(ctx, noteID, userID)
	if err != nil {
		return 0, fmt.Errorf("list global notes: %w", err)
	}
	if len(snapshots) == 0 {
		return 0, &domain.NotFoundError{Message: "Global note not found"}
	}

	note, err := s.noteRepo.GetByID(ctx, noteID)
	if err != nil {
		return 0, err
	}

	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		for i := range snapshots {
			snapshots[i].ApplyNote(note)
			if err := s.globalNoteRepo.UpdateContent(ctx, &snapshots[i]); err != nil {
				return fmt.Errorf("update global note %s: %w", snapshots[i].ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("note synced to global", "note_id", noteID, "snapshots", len(snapshots))
	return len(snapshots), nil
}

// SyncFolder rebuilds every snapshot of folderID published by userID
func (s *GlobalService) SyncFolder(ctx context.Context, userID, folderID string) (int, error) {
	snapshots, err := s.globalFolderRepo.ListByOriginal(ctx, folderID, userID)
	if err != nil {
		return 0, fmt.Errorf("list global folders: %w", err)
	}
	if len(snapshots) == 0 {
		return 0, &domain.NotFoundError{Message: "Global folder not found"}
	}

	folder, err := s.folderRepo.GetByID(ctx, folderID)
	if err != nil {
		return 0, err
	}

	structure, err := s.builder.Build(ctx, folderID, userID)
	if err != nil {
		return 0, fmt.Errorf("build folder structure: %w", err)
	}
	noteCount := structure.NoteCount()

	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		for i := range snapshots {
			snapshots[i].Name = folder.Name
			snapshots[i].NoteCount = noteCount
			snapshots[i].Structure = structure
			if err := s.globalFolderRepo.UpdateSnapshot(ctx, &snapshots[i]); err != nil {
				return fmt.Errorf("update global folder %s: %w", snapshots[i].ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("folder synced to global",
		"folder_id", folderID,
		"snapshots", len(snapshots),
		"note_count", noteCount,
	)
	return len(snapshots), nil
}

// UnshareNote removes the caller's snapshots of noteID
func (s *GlobalService) UnshareNote(ctx context.Context, userID, noteID string) error {
	var deleted int
	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		n, err := s.globalNoteRepo.DeleteByOriginal(ctx, noteID, userID)
		deleted = n
		return err
	})
	if err != nil {
		return fmt.Errorf("delete global notes: %w", err)
	}
	if deleted == 0 {
		return &domain.NotFoundError{Message: "Global note not found"}
	}

	s.logger.Info("note removed from global", "note_id", noteID, "deleted", deleted)
	return nil
}

// UnshareFolder removes the caller's snapshots of folderID
func (s *GlobalService) UnshareFolder(ctx context.Context, userID, folderID string) error {
	var deleted int
	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		n, err := s.globalFolderRepo.DeleteByOriginal(ctx, folderID, userID)
		deleted = n
		return err
	})
	if err != nil {
		return fmt.Errorf("delete global folders: %w", err)
	}
	if deleted == 0 {
		return &domain.NotFoundError{Message: "Global folder not found"}
	}

	s.logger.Info("folder removed from global", "folder_id", folderID, "deleted", deleted)
	return nil
}

// IsNoteShared reports whether the caller has published noteID
func (s *GlobalService) IsNoteShared(ctx context.Context, userID, noteID string) (bool, error) {
	snapshots, err := s.globalNoteRepo.ListByOriginal(ctx, noteID, userID)
	if err != nil {
		return false, fmt.Errorf("check global status: %w", err)
	}
	return len(snapshots) > 0, nil
}

func (s *GlobalService) GetGlobalNote(ctx context.Context, id string) (*sharing.GlobalNote, error) {
	return s.globalNoteRepo.GetByID(ctx, id)
}

func (s *GlobalService) GetGlobalNoteByToken(ctx context.Context, token string) (*sharing.GlobalNote, error) {
	return s.globalNoteRepo.GetByShareToken(ctx, token)
}

func (s *GlobalService) GetGlobalFolder(ctx context.Context, id string) (*sharing.GlobalFolder, error) {
	return s.globalFolderRepo.GetByID(ctx, id)
}

func (s *GlobalService) GetGlobalFolderByToken(ctx context.Context, token string) (*sharing.GlobalFolder, error) {
	return s.globalFolderRepo.GetByShareToken(ctx, token)
}

// ListGlobalFolderNotes reads the original folder's current notes, not the frozen structure
func (s *GlobalService) ListGlobalFolderNotes(ctx context.Context, globalFolderID string) ([]notebook.Note, error) {
	global, err := s.globalFolderRepo.GetByID(ctx, globalFolderID)
	if err != nil {
		return nil, err
	}

	notes, err := s.noteRepo.ListByFolder(ctx, global.OriginalFolderID, "")
	if err != nil {
		return nil, fmt.Errorf("list folder notes: %w", err)
	}
	return notes, nil
}

// ListGlobalFolderSubfolders reads the original folder's current sub-folders
func (s *GlobalService) ListGlobalFolderSubfolders(ctx context.Context, globalFolderID string) ([]notebook.Folder, error) {
	global, err := s.globalFolderRepo.GetByID(ctx, globalFolderID)
	if err != nil {
		return nil, err
	}

	folders, err := s.folderRepo.ListChildren(ctx, &global.OriginalFolderID, "")
	if err != nil {
		return nil, fmt.Errorf("list subfolders: %w", err)
	}
	return folders, nil
}

func (s *GlobalService) author(ctx context.Context, publisher sharingSvc.Publisher) (sharing.Author, error) {
	name, photo, err := s.profiles.AuthorDisplay(ctx, publisher.UserID, publisher.Email)
	if err != nil {
		return sharing.Author{}, fmt.Errorf("resolve author: %w", err)
	}
	return sharing.Author{
		AuthorID:       publisher.UserID,
		AuthorName:     name,
		AuthorPhotoURL: photo,
	}, nil
}
