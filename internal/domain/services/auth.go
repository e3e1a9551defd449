package services

import (
	"context"

	"cloudnote/internal/domain/models/notebook"
)

// ResourceAuthorizer checks if a user can access resources.
// Current implementation: ownership-based (user owns the note or folder).
//
// Each check returns the loaded resource so callers don't fetch it twice.
// A missing resource is ErrNotFound; a resource owned by someone else is ErrForbidden.
type ResourceAuthorizer interface {
	// CanAccessNote checks if user owns the note
	CanAccessNote(ctx context.Context, userID, noteID string) (*notebook.Note, error)

	// CanAccessFolder checks if user owns the folder
	CanAccessFolder(ctx context.Context, userID, folderID string) (*notebook.Folder, error)
}
