package sharing

import (
	"context"

	"cloudnote/internal/domain/models/sharing"
)

// GlobalNoteRepository defines data access operations for published note snapshots
type GlobalNoteRepository interface {
	// Create inserts a snapshot and fills in its ID and timestamps
	Create(ctx context.Context, note *sharing.GlobalNote) error

	GetByID(ctx context.Context, id string) (*sharing.GlobalNote, error)

	GetByShareToken(ctx context.Context, token string) (*sharing.GlobalNote, error)

	// ListByOriginal returns every snapshot of noteID published by authorID
	ListByOriginal(ctx context.Context, noteID, authorID string) ([]sharing.GlobalNote, error)

	// ListRecent returns the newest snapshots first
	ListRecent(ctx context.Context, limit int) ([]sharing.GlobalNote, error)

	// UpdateContent rewrites the projected note fields and bumps updated_at
	UpdateContent(ctx context.Context, note *sharing.GlobalNote) error

	// UpdateAuthor rewrites author display fields on every snapshot by authorID
	UpdateAuthor(ctx context.Context, authorID, name string, photoURL *string) (int, error)

	// DeleteByOriginal removes every snapshot of noteID published by authorID
	DeleteByOriginal(ctx context.Context, noteID, authorID string) (int, error)

	Count(ctx context.Context) (int, error)
}
