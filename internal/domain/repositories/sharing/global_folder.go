package sharing

import (
	"context"

	"cloudnote/internal/domain/models/sharing"
)

// GlobalFolderRepository defines data access operations for published folder snapshots
type GlobalFolderRepository interface {
	// Create inserts a snapshot. Returns *domain.AlreadySharedError when the
	// author already published this folder.
	Create(ctx context.Context, folder *sharing.GlobalFolder) error

	GetByID(ctx context.Context, id string) (*sharing.GlobalFolder, error)

	GetByShareToken(ctx context.Context, token string) (*sharing.GlobalFolder, error)

	// ListByOriginal returns every snapshot of folderID published by authorID
	ListByOriginal(ctx context.Context, folderID, authorID string) ([]sharing.GlobalFolder, error)

	// ExistsForFolder reports whether anyone published folderID
	ExistsForFolder(ctx context.Context, folderID string) (bool, error)

	// ListRecent returns the newest snapshots first
	ListRecent(ctx context.Context, limit int) ([]sharing.GlobalFolder, error)

	// UpdateSnapshot rewrites name, note count and structure and bumps updated_at
	UpdateSnapshot(ctx context.Context, folder *sharing.GlobalFolder) error

	// UpdateAuthor rewrites author display fields on every snapshot by authorID
	UpdateAuthor(ctx context.Context, authorID, name string, photoURL *string) (int, error)

	// DeleteByOriginal removes every snapshot of folderID published by authorID
	DeleteByOriginal(ctx context.Context, folderID, authorID string) (int, error)

	Count(ctx context.Context) (int, error)
}
