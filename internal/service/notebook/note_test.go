package notebook

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"cloudnote/internal/domain"
	"cloudnote/internal/domain/models/notebook"
	notebookSvc "cloudnote/internal/domain/services/notebook"
	sharingSvc "cloudnote/internal/domain/services/sharing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateNote_Defaults(t *testing.T) {
	env := newTestEnv(t)

	note, err := env.notes.CreateNote(context.Background(), &notebookSvc.CreateNoteRequest{OwnerID: "alice"})
	require.NoError(t, err)

	assert.Equal(t, "Untitled Note", note.Title)
	assert.Equal(t, notebook.NoteTypeText, note.Type)
	assert.Nil(t, note.FolderID)
	assert.Equal(t, []string{}, note.Tags)
	assert.NotEmpty(t, note.ID)
}

func TestCreateNote_Validation(t *testing.T) {
	env := newTestEnv(t)
	manyTags := make([]string, 21)
	for i := range manyTags {
		manyTags[i] = "t"
	}

	tests := []struct {
		name string
		req  notebookSvc.CreateNoteRequest
	}{
		{"title too long", notebookSvc.CreateNoteRequest{Title: strPtr(strings.Repeat("a", 201))}},
		{"content too large", notebookSvc.CreateNoteRequest{Content: strPtr(strings.Repeat("a", 1<<20+1))}},
		{"too many tags", notebookSvc.CreateNoteRequest{Tags: manyTags}},
		{"tag too long", notebookSvc.CreateNoteRequest{Tags: []string{strings.Repeat("x", 31)}}},
		{"unknown type", notebookSvc.CreateNoteRequest{Type: strPtr("video")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			req.OwnerID = "alice"
			_, err := env.notes.CreateNote(context.Background(), &req)
			assert.True(t, errors.Is(err, domain.ErrValidation), "got %v", err)
		})
	}
}

func TestCreateNote_FolderChecks(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	bobs := env.mustFolder(t, "bob", "Bob's", nil)

	_, err := env.notes.CreateNote(ctx, &notebookSvc.CreateNoteRequest{OwnerID: "alice", FolderID: strPtr("missing")})
	assert.True(t, errors.Is(err, domain.ErrNotFound), "got %v", err)

	_, err = env.notes.CreateNote(ctx, &notebookSvc.CreateNoteRequest{OwnerID: "alice", FolderID: &bobs.ID})
	assert.True(t, errors.Is(err, domain.ErrForbidden), "got %v", err)
}

func TestCreateNote_SanitizesContent(t *testing.T) {
	env := newTestEnv(t)

	note, err := env.notes.CreateNote(context.Background(), &notebookSvc.CreateNoteRequest{
		OwnerID: "alice",
		Content: strPtr(`<p>hi</p><script>alert(1)</script>`),
	})
	require.NoError(t, err)
	assert.Equal(t, "<p>hi</p>", note.Content)
}

func TestUpdateNote_PartialAndClearFolder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	folder := env.mustFolder(t, "alice", "Work", nil)

	note, err := env.notes.CreateNote(ctx, &notebookSvc.CreateNoteRequest{
		OwnerID:  "alice",
		Title:    strPtr("draft"),
		FolderID: &folder.ID,
		Tags:     []string{"a"},
	})
	require.NoError(t, err)

	fav := true
	updated, err := env.notes.UpdateNote(ctx, "alice", note.ID, &notebookSvc.UpdateNoteRequest{
		IsFavorite:  &fav,
		FolderIDSet: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "draft", updated.Title)
	assert.True(t, updated.IsFavorite)
	assert.Nil(t, updated.FolderID)
	assert.Equal(t, []string{"a"}, updated.Tags)

	_, err = env.notes.UpdateNote(ctx, "bob", note.ID, &notebookSvc.UpdateNoteRequest{Title: strPtr("x")})
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestUpdateNote_GlobalFlag(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	note := env.mustNote(t, "alice", "flagged", nil)
	require.False(t, note.IsGlobal)

	tests := []struct {
		name string
		req  *notebookSvc.UpdateNoteRequest
		want bool
	}{
		{"set", &notebookSvc.UpdateNoteRequest{IsGlobal: boolPtr(true)}, true},
		{"absent keeps value", &notebookSvc.UpdateNoteRequest{Title: strPtr("renamed")}, true},
		{"clear", &notebookSvc.UpdateNoteRequest{IsGlobal: boolPtr(false)}, false},
	}
	for _, tt := range tests {
		updated, err := env.notes.UpdateNote(ctx, "alice", note.ID, tt.req)
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.want, updated.IsGlobal, tt.name)

		stored, err := env.noteRepo.GetByID(ctx, note.ID)
		require.NoError(t, err)
		assert.Equal(t, tt.want, stored.IsGlobal, tt.name)
	}
}

func TestUpdateNote_SyncsPublishedCopy(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	note, err := env.notes.CreateNote(ctx, &notebookSvc.CreateNoteRequest{OwnerID: "alice", Title: strPtr("before")})
	require.NoError(t, err)

	shared, err := env.global.ShareNote(ctx, sharingSvc.Publisher{UserID: "alice", Email: "a@example.com"}, note.ID)
	require.NoError(t, err)

	_, err = env.notes.UpdateNote(ctx, "alice", note.ID, &notebookSvc.UpdateNoteRequest{Title: strPtr("after")})
	require.NoError(t, err)

	global, err := env.global.GetGlobalNote(ctx, shared.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", global.Title)
	assert.Equal(t, note.ID, global.OriginalNoteID)
	assert.Equal(t, "alice", global.AuthorID)
}

func TestUpdateNote_TimestampsAdvance(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	clock := env.useClock(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	created := clock.now()

	note, err := env.notes.CreateNote(ctx, &notebookSvc.CreateNoteRequest{OwnerID: "alice", Title: strPtr("v1")})
	require.NoError(t, err)
	assert.Equal(t, created, note.CreatedAt)
	assert.Equal(t, created, note.UpdatedAt)

	shared, err := env.global.ShareNote(ctx, sharingSvc.Publisher{UserID: "alice"}, note.ID)
	require.NoError(t, err)
	global, err := env.global.GetGlobalNote(ctx, shared.ID)
	require.NoError(t, err)
	assert.Equal(t, created, global.UpdatedAt)

	edited := clock.advance(time.Hour)
	updated, err := env.notes.UpdateNote(ctx, "alice", note.ID, &notebookSvc.UpdateNoteRequest{Title: strPtr("v2")})
	require.NoError(t, err)
	assert.Equal(t, created, updated.CreatedAt)
	assert.Equal(t, edited, updated.UpdatedAt)

	global, err = env.global.GetGlobalNote(ctx, shared.ID)
	require.NoError(t, err)
	assert.Equal(t, edited, global.UpdatedAt, "implicit sync on update")
	assert.Equal(t, created, global.CreatedAt)

	synced := clock.advance(time.Hour)
	count, err := env.global.SyncNote(ctx, "alice", note.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	global, err = env.global.GetGlobalNote(ctx, shared.ID)
	require.NoError(t, err)
	assert.Equal(t, synced, global.UpdatedAt, "explicit sync")
	assert.True(t, global.UpdatedAt.After(global.CreatedAt))
}

func TestUpdateNote_UnpublishedIsNotAnError(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	note := env.mustNote(t, "alice", "plain", nil)
	_, err := env.notes.UpdateNote(ctx, "alice", note.ID, &notebookSvc.UpdateNoteRequest{Title: strPtr("still plain")})
	require.NoError(t, err)
}

func TestShareNote_TokenIsStable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	note := env.mustNote(t, "alice", "secret", nil)

	first, err := env.notes.ShareNote(ctx, "alice", note.ID)
	require.NoError(t, err)
	second, err := env.notes.ShareNote(ctx, "alice", note.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	shared, err := env.notes.GetSharedNote(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, note.ID, shared.ID)
	assert.Equal(t, "Anonymous", shared.AuthorName)
	assert.True(t, shared.RequiresAuth)

	_, err = env.notes.GetSharedNote(ctx, "nope")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestExportNote(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	note, err := env.notes.CreateNote(ctx, &notebookSvc.CreateNoteRequest{
		OwnerID: "alice",
		Title:   strPtr("My First Note!"),
		Content: strPtr("<p>Hello <strong>world</strong></p>"),
	})
	require.NoError(t, err)

	export, err := env.notes.ExportNote(ctx, "alice", note.ID)
	require.NoError(t, err)
	assert.Equal(t, "my-first-note.md", export.FileName)
	assert.Contains(t, string(export.Markdown), "title: My First Note!")
	assert.Contains(t, string(export.Markdown), "Hello **world**")
}
