package auth

import (
	"context"

	"cloudnote/internal/domain"
	"cloudnote/internal/domain/models/notebook"
	notebookRepo "cloudnote/internal/domain/repositories/notebook"
)

// OwnerBasedAuthorizer implements ResourceAuthorizer using ownership checks.
// A user can access a note or folder only if they own it.
type OwnerBasedAuthorizer struct {
	noteRepo   notebookRepo.NoteRepository
	folderRepo notebookRepo.FolderRepository
}

// NewOwnerBasedAuthorizer creates a new ownership-based authorizer
func NewOwnerBasedAuthorizer(
	noteRepo notebookRepo.NoteRepository,
	folderRepo notebookRepo.FolderRepository,
) *OwnerBasedAuthorizer {
	return &OwnerBasedAuthorizer{
		noteRepo:   noteRepo,
		folderRepo: folderRepo,
	}
}

// CanAccessNote loads the note and checks the caller owns it
func (a *OwnerBasedAuthorizer) CanAccessNote(ctx context.Context, userID, noteID string) (*notebook.Note, error) {
	note, err := a.noteRepo.GetByID(ctx, noteID)
	if err != nil {
		return nil, err
	}

	if note.OwnerID == "" || note.OwnerID != userID {
		return nil, &domain.ForbiddenError{Message: "Unauthorized"}
	}
	return note, nil
}

// CanAccessFolder loads the folder and checks the caller owns it
func (a *OwnerBasedAuthorizer) CanAccessFolder(ctx context.Context, userID, folderID string) (*notebook.Folder, error) {
	folder, err := a.folderRepo.GetByID(ctx, folderID)
	if err != nil {
		return nil, err
	}

	if folder.OwnerID == "" || folder.OwnerID != userID {
		return nil, &domain.ForbiddenError{Message: "Unauthorized"}
	}
	return folder, nil
}
