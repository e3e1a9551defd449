package notebook

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"cloudnote/internal/domain"
	notebookSvc "cloudnote/internal/domain/services/notebook"
	sharingSvc "cloudnote/internal/domain/services/sharing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFolder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	folder, err := env.folders.CreateFolder(ctx, &notebookSvc.CreateFolderRequest{OwnerID: "alice"})
	require.NoError(t, err)
	assert.Equal(t, "New Folder", folder.Name)

	folder, err = env.folders.CreateFolder(ctx, &notebookSvc.CreateFolderRequest{OwnerID: "alice", Name: strPtr("  Trips  ")})
	require.NoError(t, err)
	assert.Equal(t, "Trips", folder.Name)

	tests := []struct {
		name    string
		req     notebookSvc.CreateFolderRequest
		wantErr error
	}{
		{"blank name", notebookSvc.CreateFolderRequest{Name: strPtr("   ")}, domain.ErrValidation},
		{"long name", notebookSvc.CreateFolderRequest{Name: strPtr(strings.Repeat("n", 101))}, domain.ErrValidation},
		{"missing parent", notebookSvc.CreateFolderRequest{ParentID: strPtr("nope")}, domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			req.OwnerID = "alice"
			_, err := env.folders.CreateFolder(ctx, &req)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestUpdateFolder_SelfParentRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	folder := env.mustFolder(t, "alice", "Loop", nil)

	_, err := env.folders.UpdateFolder(ctx, "alice", folder.ID, &notebookSvc.UpdateFolderRequest{
		ParentID:    &folder.ID,
		ParentIDSet: true,
	})
	var vErr *domain.ValidationError
	require.True(t, errors.As(err, &vErr), "got %v", err)
	assert.Equal(t, "Folder cannot be its own parent", vErr.Message)
}

func TestUpdateFolder_MoveAndSync(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	root := env.mustFolder(t, "alice", "Root", nil)
	other := env.mustFolder(t, "alice", "Other", nil)
	env.mustNote(t, "alice", "n1", &root.ID)

	shared, err := env.global.ShareFolder(ctx, sharingSvc.Publisher{UserID: "alice"}, root.ID)
	require.NoError(t, err)

	env.mustNote(t, "alice", "n2", &root.ID)
	moved, err := env.folders.UpdateFolder(ctx, "alice", root.ID, &notebookSvc.UpdateFolderRequest{
		Name:        strPtr("Renamed"),
		ParentID:    &other.ID,
		ParentIDSet: true,
	})
	require.NoError(t, err)
	assert.Equal(t, other.ID, *moved.ParentID)

	global, err := env.global.GetGlobalFolder(ctx, shared.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", global.Name)
	assert.Equal(t, 2, global.NoteCount)
	assert.Len(t, global.Structure.Notes, 2)
}

func TestUpdateFolder_SnapshotTimestampsAdvance(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	clock := env.useClock(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	created := clock.now()

	root := env.mustFolder(t, "alice", "Root", nil)
	assert.Equal(t, created, root.CreatedAt)
	assert.Equal(t, created, root.UpdatedAt)

	shared, err := env.global.ShareFolder(ctx, sharingSvc.Publisher{UserID: "alice"}, root.ID)
	require.NoError(t, err)

	renamed := clock.advance(time.Minute)
	moved, err := env.folders.UpdateFolder(ctx, "alice", root.ID, &notebookSvc.UpdateFolderRequest{Name: strPtr("Renamed")})
	require.NoError(t, err)
	assert.Equal(t, renamed, moved.UpdatedAt)
	assert.Equal(t, created, moved.CreatedAt)

	global, err := env.global.GetGlobalFolder(ctx, shared.ID)
	require.NoError(t, err)
	assert.Equal(t, renamed, global.UpdatedAt, "implicit sync on update")
	assert.Equal(t, created, global.CreatedAt)

	env.mustNote(t, "alice", "late", &root.ID)
	synced := clock.advance(time.Minute)
	_, err = env.global.SyncFolder(ctx, "alice", root.ID)
	require.NoError(t, err)

	global, err = env.global.GetGlobalFolder(ctx, shared.ID)
	require.NoError(t, err)
	assert.Equal(t, synced, global.UpdatedAt, "explicit sync")
	assert.Equal(t, 1, global.NoteCount)
}

func TestDeleteFolder_KeepsSubfolders(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	root := env.mustFolder(t, "alice", "Root", nil)
	child := env.mustFolder(t, "alice", "Child", &root.ID)
	env.mustNote(t, "alice", "n1", &root.ID)
	env.mustNote(t, "alice", "n2", &root.ID)
	nested := env.mustNote(t, "alice", "nested", &child.ID)

	deleted, err := env.folders.DeleteFolder(ctx, "alice", root.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	_, err = env.folderRepo.GetByID(ctx, root.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = env.folderRepo.GetByID(ctx, child.ID)
	assert.NoError(t, err, "sub-folders survive")
	_, err = env.noteRepo.GetByID(ctx, nested.ID)
	assert.NoError(t, err, "notes in sub-folders survive")
}

func TestGetFolder_PublishedIsReadable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	folder := env.mustFolder(t, "alice", "Public later", nil)

	_, err := env.folders.GetFolder(ctx, "bob", folder.ID)
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	_, err = env.global.ShareFolder(ctx, sharingSvc.Publisher{UserID: "alice"}, folder.ID)
	require.NoError(t, err)

	got, err := env.folders.GetFolder(ctx, "bob", folder.ID)
	require.NoError(t, err)
	assert.Equal(t, folder.ID, got.ID)
}

func TestGetSharedFolder_LiveStructure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	root := env.mustFolder(t, "alice", "Root", nil)
	sub := env.mustFolder(t, "alice", "Sub", &root.ID)

	token, err := env.folders.ShareFolder(ctx, "alice", root.ID)
	require.NoError(t, err)

	env.mustNote(t, "alice", "added after sharing", &sub.ID)

	shared, err := env.folders.GetSharedFolder(ctx, token)
	require.NoError(t, err)
	assert.True(t, shared.RequiresAuth)
	require.Len(t, shared.Structure.Folders, 1)
	assert.Len(t, shared.Structure.Folders[0].Notes, 1)
}
