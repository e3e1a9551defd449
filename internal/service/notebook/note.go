package notebook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"cloudnote/internal/domain"
	"cloudnote/internal/domain/models/notebook"
	notebookRepo "cloudnote/internal/domain/repositories/notebook"
	"cloudnote/internal/domain/services"
	notebookSvc "cloudnote/internal/domain/services/notebook"
	sharingSvc "cloudnote/internal/domain/services/sharing"
	"cloudnote/internal/service/notebook/content"

	"github.com/google/uuid"
)

const defaultNoteTitle = "Untitled Note"

type noteService struct {
	noteRepo   notebookRepo.NoteRepository
	folderRepo notebookRepo.FolderRepository
	authorizer services.ResourceAuthorizer
	profiles   services.UserProfileService
	syncer     sharingSvc.Syncer
	sanitizer  *content.HTMLSanitizer
	exporter   *content.MarkdownExporter
	logger     *slog.Logger
}

// NewNoteService creates a new note service
func NewNoteService(
	noteRepo notebookRepo.NoteRepository,
	folderRepo notebookRepo.FolderRepository,
	authorizer services.ResourceAuthorizer,
	profiles services.UserProfileService,
	syncer sharingSvc.Syncer,
	sanitizer *content.HTMLSanitizer,
	exporter *content.MarkdownExporter,
	logger *slog.Logger,
) notebookSvc.NoteService {
	return &noteService{
		noteRepo:   noteRepo,
		folderRepo: folderRepo,
		authorizer: authorizer,
		profiles:   profiles,
		syncer:     syncer,
		sanitizer:  sanitizer,
		exporter:   exporter,
		logger:     logger,
	}
}

// ListNotes returns the caller's notes matching the filter
func (s *noteService) ListNotes(ctx context.Context, filter *notebook.NoteFilter) ([]notebook.Note, error) {
	filter.FolderID = normalizeID(filter.FolderID)
	notes, err := s.noteRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

// CreateNote creates a new note
func (s *noteService) CreateNote(ctx context.Context, req *notebookSvc.CreateNoteRequest) (*notebook.Note, error) {
	note := &notebook.Note{
		OwnerID:  req.OwnerID,
		Title:    defaultNoteTitle,
		FolderID: normalizeID(req.FolderID),
		Tags:     req.Tags,
		Type:     notebook.NoteTypeText,
		FileURL:  normalizeID(req.FileURL),
		FileName: normalizeID(req.FileName),
	}
	if req.Title != nil {
		note.Title = *req.Title
	}
	if req.Content != nil {
		note.Content = *req.Content
	}
	if req.Type != nil && *req.Type != "" {
		note.Type = notebook.NoteType(*req.Type)
	}
	if note.Tags == nil {
		note.Tags = []string{}
	}

	if err := validateNote(note); err != nil {
		return nil, err
	}

	if note.FolderID != nil {
		if err := s.checkFolder(ctx, req.OwnerID, *note.FolderID); err != nil {
			return nil, err
		}
	}

	note.Content = s.sanitizer.Sanitize(note.Content)

	if err := s.noteRepo.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}

	s.logger.Info("note created",
		"id", note.ID,
		"owner_id", note.OwnerID,
		"folder_id", note.FolderID,
	)

	return note, nil
}

// GetNote retrieves a note owned by the caller
func (s *noteService) GetNote(ctx context.Context, userID, noteID string) (*notebook.Note, error) {
	return s.authorizer.CanAccessNote(ctx, userID, noteID)
}

// UpdateNote applies a partial update and refreshes published snapshots
func (s *noteService) UpdateNote(ctx context.Context, userID, noteID string, req *notebookSvc.UpdateNoteRequest) (*notebook.Note, error) {
	note, err := s.authorizer.CanAccessNote(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}

	if req.FolderIDSet {
		req.FolderID = normalizeID(req.FolderID)
		if req.FolderID != nil {
			if err := s.checkFolder(ctx, userID, *req.FolderID); err != nil {
				return nil, err
			}
		}
		note.FolderID = req.FolderID
	}

	if req.Title != nil {
		note.Title = *req.Title
	}
	if req.Content != nil {
		note.Content = *req.Content
	}
	if req.TagsSet {
		note.Tags = req.Tags
		if note.Tags == nil {
			note.Tags = []string{}
		}
	}
	if req.IsArchived != nil {
		note.IsArchived = *req.IsArchived
	}
	if req.IsFavorite != nil {
		note.IsFavorite = *req.IsFavorite
	}
	if req.IsGlobal != nil {
		note.IsGlobal = *req.IsGlobal
	}
	if req.Type != nil && *req.Type != "" {
		note.Type = notebook.NoteType(*req.Type)
	}
	if req.FileURLSet {
		note.FileURL = req.FileURL
	}
	if req.FileNameSet {
		note.FileName = req.FileName
	}

	if err := validateNote(note); err != nil {
		return nil, err
	}

	if req.Content != nil {
		note.Content = s.sanitizer.Sanitize(note.Content)
	}

	if err := s.noteRepo.Update(ctx, note); err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}

	s.logger.Info("note updated", "id", note.ID, "owner_id", userID)

	// Published copies follow the note; the note update itself already succeeded
	if synced, err := s.syncer.SyncNote(ctx, userID, noteID); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error("failed to auto-sync note to global",
				"id", noteID,
				"error", err,
			)
		}
	} else {
		s.logger.Info("auto-synced note to global", "id", noteID, "snapshots", synced)
	}

	return note, nil
}

// DeleteNote deletes a note owned by the caller
func (s *noteService) DeleteNote(ctx context.Context, userID, noteID string) error {
	if _, err := s.authorizer.CanAccessNote(ctx, userID, noteID); err != nil {
		return err
	}

	if err := s.noteRepo.Delete(ctx, noteID); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}

	s.logger.Info("note deleted", "id", noteID, "owner_id", userID)
	return nil
}

// ShareNote returns the note's private share token, creating it once
func (s *noteService) ShareNote(ctx context.Context, userID, noteID string) (string, error) {
	note, err := s.authorizer.CanAccessNote(ctx, userID, noteID)
	if err != nil {
		return "", err
	}

	if note.ShareToken != nil && *note.ShareToken != "" {
		return *note.ShareToken, nil
	}

	token := uuid.NewString()
	if err := s.noteRepo.SetShareToken(ctx, noteID, token); err != nil {
		return "", fmt.Errorf("set share token: %w", err)
	}

	s.logger.Info("share token generated", "id", noteID)
	return token, nil
}

// GetSharedNote resolves a private share token
func (s *noteService) GetSharedNote(ctx context.Context, token string) (*notebookSvc.SharedNote, error) {
	note, err := s.noteRepo.GetByShareToken(ctx, token)
	if err != nil {
		return nil, err
	}

	name, photo, err := s.profiles.AuthorDisplay(ctx, note.OwnerID, "")
	if err != nil {
		return nil, fmt.Errorf("resolve author: %w", err)
	}

	return &notebookSvc.SharedNote{
		Note:           *note,
		AuthorName:     name,
		AuthorPhotoURL: photo,
		RequiresAuth:   true,
	}, nil
}

var slugUnsafe = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// ExportNote renders the caller's note as a Markdown download
func (s *noteService) ExportNote(ctx context.Context, userID, noteID string) (*notebookSvc.NoteExport, error) {
	note, err := s.authorizer.CanAccessNote(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}

	markdown, err := s.exporter.Export(note)
	if err != nil {
		return nil, fmt.Errorf("export note: %w", err)
	}

	slug := strings.Trim(slugUnsafe.ReplaceAllString(strings.ToLower(note.Title), "-"), "-")
	if slug == "" {
		slug = "note"
	}

	return &notebookSvc.NoteExport{
		FileName: slug + ".md",
		Markdown: markdown,
	}, nil
}

// checkFolder verifies a target folder exists and belongs to userID
func (s *noteService) checkFolder(ctx context.Context, userID, folderID string) error {
	folder, err := s.folderRepo.GetByID(ctx, folderID)
	if err != nil {
		return err
	}
	if folder.OwnerID != userID {
		return &domain.ForbiddenError{Message: "Unauthorized - folder does not belong to user"}
	}
	return nil
}

func validateNote(note *notebook.Note) error {
	fields := &noteFields{
		Title:   note.Title,
		Content: note.Content,
		FileURL: deref(note.FileURL),
		Tags:    note.Tags,
		Type:    string(note.Type),
	}
	if err := fields.Validate(); err != nil {
		return validationError(err)
	}
	return nil
}
