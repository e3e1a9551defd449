package sharing

import (
	"context"

	"cloudnote/internal/domain/models/notebook"
	"cloudnote/internal/domain/models/sharing"
)

// Publisher is the caller publishing to the global feed
type Publisher struct {
	UserID string
	Email  string
}

// GlobalService handles publishing to and reading from the global feed
type GlobalService interface {
	// Feed returns the newest published notes and folders, merged by created-at
	Feed(ctx context.Context, limit int) ([]sharing.FeedItem, error)

	// ShareNote publishes a snapshot of the caller's note.
	// Publishing the same note twice creates two snapshots.
	ShareNote(ctx context.Context, publisher Publisher, noteID string) (*sharing.ShareResult, error)

	// ShareFolder publishes a snapshot of the caller's folder subtree.
	// Fails with *domain.AlreadySharedError when already published by the caller.
	ShareFolder(ctx context.Context, publisher Publisher, folderID string) (*sharing.ShareResult, error)

	// UnshareNote removes every snapshot of noteID published by the caller
	UnshareNote(ctx context.Context, userID, noteID string) error

	// UnshareFolder removes every snapshot of folderID published by the caller
	UnshareFolder(ctx context.Context, userID, folderID string) error

	// IsNoteShared reports whether the caller has published noteID
	IsNoteShared(ctx context.Context, userID, noteID string) (bool, error)

	GetGlobalNote(ctx context.Context, id string) (*sharing.GlobalNote, error)
	GetGlobalNoteByToken(ctx context.Context, token string) (*sharing.GlobalNote, error)
	GetGlobalFolder(ctx context.Context, id string) (*sharing.GlobalFolder, error)
	GetGlobalFolderByToken(ctx context.Context, token string) (*sharing.GlobalFolder, error)

	// ListGlobalFolderNotes re-queries the notes currently inside the published folder
	ListGlobalFolderNotes(ctx context.Context, globalFolderID string) ([]notebook.Note, error)

	// ListGlobalFolderSubfolders re-queries the folders currently inside the published folder
	ListGlobalFolderSubfolders(ctx context.Context, globalFolderID string) ([]notebook.Folder, error)
}

// Syncer refreshes published snapshots from their sources
type Syncer interface {
	// SyncNote overwrites every snapshot of noteID published by userID.
	// Returns ErrNotFound when there is none.
	SyncNote(ctx context.Context, userID, noteID string) (int, error)

	// SyncFolder rebuilds every snapshot of folderID published by userID.
	// Returns ErrNotFound when there is none.
	SyncFolder(ctx context.Context, userID, folderID string) (int, error)
}
