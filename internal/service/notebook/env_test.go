package notebook

import (
	"io"
	"log/slog"
	"testing"
	"time"

	notebookRepo "cloudnote/internal/domain/repositories/notebook"
	sharingRepo "cloudnote/internal/domain/repositories/sharing"
	notebookSvc "cloudnote/internal/domain/services/notebook"
	"cloudnote/internal/repository/memory"
	"cloudnote/internal/service"
	"cloudnote/internal/service/auth"
	"cloudnote/internal/service/notebook/content"
	"cloudnote/internal/service/sharing"
)

type testEnv struct {
	store         *memory.Store
	noteRepo      notebookRepo.NoteRepository
	folderRepo    notebookRepo.FolderRepository
	globalNotes   sharingRepo.GlobalNoteRepository
	globalFolders sharingRepo.GlobalFolderRepository
	builder       notebookSvc.StructureBuilder
	global        *sharing.GlobalService
	notes         notebookSvc.NoteService
	folders       notebookSvc.FolderService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore()
	env := &testEnv{
		store:         store,
		noteRepo:      memory.NewNoteRepository(store),
		folderRepo:    memory.NewFolderRepository(store),
		globalNotes:   memory.NewGlobalNoteRepository(store),
		globalFolders: memory.NewGlobalFolderRepository(store),
	}
	txManager := memory.NewTransactionManager(store)
	authorizer := auth.NewOwnerBasedAuthorizer(env.noteRepo, env.folderRepo)
	profiles := service.NewUserProfileService(memory.NewUserProfileRepository(store), env.globalNotes, env.globalFolders, logger)
	sanitizer := content.NewHTMLSanitizer()

	env.builder = NewStructureBuilder(env.folderRepo, env.noteRepo, logger)
	env.global = sharing.NewGlobalService(
		env.noteRepo, env.folderRepo, env.globalNotes, env.globalFolders,
		txManager, authorizer, profiles, env.builder, logger,
	)
	env.notes = NewNoteService(
		env.noteRepo, env.folderRepo, authorizer, profiles, env.global,
		sanitizer, content.NewMarkdownExporter(sanitizer), logger,
	)
	env.folders = NewFolderService(
		env.folderRepo, env.noteRepo, env.globalFolders, txManager,
		authorizer, profiles, env.builder, env.global, logger,
	)
	return env
}

// manualClock is a store clock the test moves by hand
type manualClock struct {
	current time.Time
}

func (c *manualClock) now() time.Time { return c.current }

func (c *manualClock) advance(d time.Duration) time.Time {
	c.current = c.current.Add(d)
	return c.current
}

func (e *testEnv) useClock(start time.Time) *manualClock {
	c := &manualClock{current: start}
	e.store.SetClock(c.now)
	return c
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }
