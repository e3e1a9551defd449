package notebook

import (
	"context"

	"cloudnote/internal/domain/models/notebook"
)

// NoteService handles note business logic
type NoteService interface {
	// ListNotes returns the caller's notes matching the filter
	ListNotes(ctx context.Context, filter *notebook.NoteFilter) ([]notebook.Note, error)

	// CreateNote creates a note, optionally inside one of the caller's folders
	CreateNote(ctx context.Context, req *CreateNoteRequest) (*notebook.Note, error)

	// GetNote retrieves a note owned by userID
	GetNote(ctx context.Context, userID, noteID string) (*notebook.Note, error)

	// UpdateNote applies a partial update, then refreshes any published snapshots
	UpdateNote(ctx context.Context, userID, noteID string, req *UpdateNoteRequest) (*notebook.Note, error)

	// DeleteNote deletes a note
	DeleteNote(ctx context.Context, userID, noteID string) error

	// ShareNote returns the note's private share token, generating it on first use
	ShareNote(ctx context.Context, userID, noteID string) (string, error)

	// GetSharedNote resolves a private share token (no ownership check)
	GetSharedNote(ctx context.Context, token string) (*SharedNote, error)

	// ExportNote renders the note as Markdown with YAML frontmatter
	ExportNote(ctx context.Context, userID, noteID string) (*NoteExport, error)
}

// CreateNoteRequest represents a note creation request
type CreateNoteRequest struct {
	OwnerID  string   `json:"-"` // Set by handler from auth context
	Title    *string  `json:"title"`
	Content  *string  `json:"content"`
	FolderID *string  `json:"folderId"`
	Tags     []string `json:"tags"`
	Type     *string  `json:"type"`
	FileURL  *string  `json:"fileUrl"`
	FileName *string  `json:"fileName"`
}

// UpdateNoteRequest represents a partial note update.
// Nullable fields carry a Set flag so that an explicit null can clear them.
// This is transport-agnostic - handler maps from httputil.OptionalString.
type UpdateNoteRequest struct {
	Title       *string
	Content     *string
	Tags        []string
	TagsSet     bool
	IsArchived  *bool
	IsFavorite  *bool
	IsGlobal    *bool
	Type        *string
	FolderID    *string
	FolderIDSet bool
	FileURL     *string
	FileURLSet  bool
	FileName    *string
	FileNameSet bool
}

// SharedNote is a note opened through its private share link
type SharedNote struct {
	notebook.Note
	AuthorName     string  `json:"authorName"`
	AuthorPhotoURL *string `json:"authorPhotoURL"`
	RequiresAuth   bool    `json:"requiresAuth"`
}

// NoteExport is a rendered Markdown download
type NoteExport struct {
	FileName string
	Markdown []byte
}
