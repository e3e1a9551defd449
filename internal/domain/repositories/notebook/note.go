package notebook

import (
	"context"

	"cloudnote/internal/domain/models/notebook"
)

// NoteRepository defines data access operations for notes
type NoteRepository interface {
	// Create inserts a note and fills in its ID and timestamps
	Create(ctx context.Context, note *notebook.Note) error

	// GetByID retrieves a note by ID regardless of owner.
	// Ownership is checked by the caller (ResourceAuthorizer).
	GetByID(ctx context.Context, id string) (*notebook.Note, error)

	// GetByShareToken retrieves a note by its private share token
	GetByShareToken(ctx context.Context, token string) (*notebook.Note, error)

	// List returns one owner's notes matching the filter, newest first
	List(ctx context.Context, filter *notebook.NoteFilter) ([]notebook.Note, error)

	// ListByFolder returns the notes directly inside folderID, oldest first.
	// An empty ownerID lists every owner's notes.
	ListByFolder(ctx context.Context, folderID, ownerID string) ([]notebook.Note, error)

	// Update persists every mutable field of the note
	Update(ctx context.Context, note *notebook.Note) error

	// SetShareToken stores a private share token and its timestamp
	SetShareToken(ctx context.Context, id, token string) error

	// Delete removes a note
	Delete(ctx context.Context, id string) error

	// DeleteByFolder removes every note directly inside folderID and returns how many
	DeleteByFolder(ctx context.Context, folderID string) (int, error)

	// Count returns the number of notes owned by ownerID, or all notes when empty
	Count(ctx context.Context, ownerID string) (int, error)
}
