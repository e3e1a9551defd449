package notebook

import (
	"context"

	"cloudnote/internal/domain/models/notebook"
)

// FolderService handles folder business logic
type FolderService interface {
	// ListFolders lists the caller's folders directly under parentID (nil = root)
	ListFolders(ctx context.Context, userID string, parentID *string) ([]notebook.Folder, error)

	// CreateFolder creates a folder, optionally under one of the caller's folders
	CreateFolder(ctx context.Context, req *CreateFolderRequest) (*notebook.Folder, error)

	// GetFolder retrieves a folder the caller owns, or any folder published to the global feed
	GetFolder(ctx context.Context, userID, folderID string) (*notebook.Folder, error)

	// UpdateFolder renames or moves a folder, then refreshes any published snapshots
	UpdateFolder(ctx context.Context, userID, folderID string, req *UpdateFolderRequest) (*notebook.Folder, error)

	// DeleteFolder deletes a folder and the notes directly inside it.
	// Returns the number of notes deleted.
	DeleteFolder(ctx context.Context, userID, folderID string) (int, error)

	// ShareFolder returns the folder's private share token, generating it on first use
	ShareFolder(ctx context.Context, userID, folderID string) (string, error)

	// GetSharedFolder resolves a private share token with a live subtree
	GetSharedFolder(ctx context.Context, token string) (*SharedFolder, error)
}

// CreateFolderRequest represents a folder creation request
type CreateFolderRequest struct {
	OwnerID  string  `json:"-"`
	Name     *string `json:"name"`
	ParentID *string `json:"parentId"`
}

// UpdateFolderRequest represents a rename and/or move.
// ParentIDSet distinguishes "move to root" (nil) from "leave parent alone".
type UpdateFolderRequest struct {
	Name        *string
	ParentID    *string
	ParentIDSet bool
}

// SharedFolder is a folder opened through its private share link
type SharedFolder struct {
	notebook.Folder
	Structure      notebook.FolderStructure `json:"structure"`
	AuthorName     string                   `json:"authorName"`
	AuthorPhotoURL *string                  `json:"authorPhotoURL"`
	RequiresAuth   bool                     `json:"requiresAuth"`
}
