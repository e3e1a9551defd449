package main

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cloudnote/internal/domain/models"
	"cloudnote/internal/domain/models/notebook"
	"cloudnote/internal/repository/memory"
	"cloudnote/internal/service"
	serviceAuth "cloudnote/internal/service/auth"
	serviceNotebook "cloudnote/internal/service/notebook"
	"cloudnote/internal/service/notebook/content"
	serviceSharing "cloudnote/internal/service/sharing"
)

func TestSeeder_Run(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore()
	noteRepo := memory.NewNoteRepository(store)
	folderRepo := memory.NewFolderRepository(store)
	globalNotes := memory.NewGlobalNoteRepository(store)
	globalFolders := memory.NewGlobalFolderRepository(store)
	txManager := memory.NewTransactionManager(store)

	authorizer := serviceAuth.NewOwnerBasedAuthorizer(noteRepo, folderRepo)
	profiles := service.NewUserProfileService(memory.NewUserProfileRepository(store), globalNotes, globalFolders, logger)
	sanitizer := content.NewHTMLSanitizer()
	builder := serviceNotebook.NewStructureBuilder(folderRepo, noteRepo, logger)
	global := serviceSharing.NewGlobalService(noteRepo, folderRepo, globalNotes, globalFolders, txManager, authorizer, profiles, builder, logger)

	s := &seeder{
		notes:    serviceNotebook.NewNoteService(noteRepo, folderRepo, authorizer, profiles, global, sanitizer, content.NewMarkdownExporter(sanitizer), logger),
		folders:  serviceNotebook.NewFolderService(folderRepo, noteRepo, globalFolders, txManager, authorizer, profiles, builder, global, logger),
		global:   global,
		profiles: profiles,
	}

	identity := &models.Identity{UserID: "seed", Email: "seed@example.com"}
	result, err := s.run(ctx, identity, "Seed User", true)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Folders)
	assert.Equal(t, 5, result.Notes)
	require.Len(t, result.RootFolderIDs, 2)

	root, err := noteRepo.List(ctx, &notebook.NoteFilter{OwnerID: "seed"})
	require.NoError(t, err)
	require.Len(t, root, 1)
	assert.Equal(t, "Welcome to CloudNote", root[0].Title)

	feed, err := global.Feed(ctx, 0)
	require.NoError(t, err)
	require.Len(t, feed, 2)

	recipes, err := globalFolders.ListByOriginal(ctx, result.RootFolderIDs[0], "seed")
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, 3, recipes[0].NoteCount)
	assert.Equal(t, "Seed User", recipes[0].AuthorName)
}
