package notebook

import (
	"context"

	"cloudnote/internal/domain/models/notebook"
)

// StructureBuilder materializes a folder subtree into a nested FolderStructure
type StructureBuilder interface {
	// Build returns the sub-folders and notes under folderID, recursively.
	// Only folders and notes owned by ownerID are included. Read-only.
	Build(ctx context.Context, folderID, ownerID string) (notebook.FolderStructure, error)
}
