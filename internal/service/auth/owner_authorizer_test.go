package auth

import (
	"context"
	"errors"
	"testing"

	"cloudnote/internal/domain"
	"cloudnote/internal/domain/models/notebook"
	"cloudnote/internal/repository/memory"
)

func TestOwnerBasedAuthorizer(t *testing.T) {
	store := memory.NewStore()
	notes := memory.NewNoteRepository(store)
	folders := memory.NewFolderRepository(store)
	ctx := context.Background()

	note := &notebook.Note{OwnerID: "alice", Title: "mine"}
	if err := notes.Create(ctx, note); err != nil {
		t.Fatalf("create note: %v", err)
	}
	folder := &notebook.Folder{OwnerID: "alice", Name: "mine"}
	if err := folders.Create(ctx, folder); err != nil {
		t.Fatalf("create folder: %v", err)
	}

	authz := NewOwnerBasedAuthorizer(notes, folders)

	tests := []struct {
		name    string
		check   func() error
		wantErr error
	}{
		{"owner reads note", func() error { _, err := authz.CanAccessNote(ctx, "alice", note.ID); return err }, nil},
		{"stranger reads note", func() error { _, err := authz.CanAccessNote(ctx, "bob", note.ID); return err }, domain.ErrForbidden},
		{"missing note", func() error { _, err := authz.CanAccessNote(ctx, "alice", "nope"); return err }, domain.ErrNotFound},
		{"owner reads folder", func() error { _, err := authz.CanAccessFolder(ctx, "alice", folder.ID); return err }, nil},
		{"stranger reads folder", func() error { _, err := authz.CanAccessFolder(ctx, "bob", folder.ID); return err }, domain.ErrForbidden},
		{"missing folder", func() error { _, err := authz.CanAccessFolder(ctx, "alice", "nope"); return err }, domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.check()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
