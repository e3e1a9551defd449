package notebook

import (
	"context"

	"cloudnote/internal/domain/models/notebook"
)

// FolderRepository defines data access operations for folders
type FolderRepository interface {
	// Create inserts a folder and fills in its ID and timestamps
	Create(ctx context.Context, folder *notebook.Folder) error

	// GetByID retrieves a folder by ID regardless of owner
	GetByID(ctx context.Context, id string) (*notebook.Folder, error)

	// GetByShareToken retrieves a folder by its private share token
	GetByShareToken(ctx context.Context, token string) (*notebook.Folder, error)

	// ListChildren lists immediate child folders, oldest first.
	// parentID nil lists root folders. An empty ownerID lists every owner's folders.
	ListChildren(ctx context.Context, parentID *string, ownerID string) ([]notebook.Folder, error)

	// Update persists name and parent
	Update(ctx context.Context, folder *notebook.Folder) error

	// SetShareToken stores a private share token and its timestamp
	SetShareToken(ctx context.Context, id, token string) error

	// Delete removes a folder (sub-folders are left untouched)
	Delete(ctx context.Context, id string) error

	// Count returns the number of folders owned by ownerID, or all folders when empty
	Count(ctx context.Context, ownerID string) (int, error)
}
