package handler

import (
	"log/slog"
	"net/http"

	"cloudnote/internal/auth"
	"cloudnote/internal/httputil"
	"cloudnote/internal/middleware"
)

// Handlers groups every HTTP handler mounted by NewRouter
type Handlers struct {
	Notes       *NoteHandler
	Folders     *FolderHandler
	Global      *GlobalHandler
	Users       *UserHandler
	Admin       *AdminHandler
	Attachments *AttachmentHandler
	Health      *HealthHandler
}

// NewRouter registers all routes (Go 1.22+ enhanced patterns).
// Authenticated routes are wrapped individually; public ones are not.
func NewRouter(h Handlers, verifier auth.JWTVerifier, admins middleware.AdminChecker, logger *slog.Logger) *http.ServeMux {
	requireAuth := middleware.RequireAuth(verifier, logger)
	requireAdmin := middleware.RequireAdmin(admins, logger)

	protect := func(fn http.HandlerFunc) http.Handler {
		return requireAuth(fn)
	}
	adminOnly := func(fn http.HandlerFunc) http.Handler {
		return requireAuth(requireAdmin(fn))
	}

	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", h.Health.Health)

	// Note routes
	mux.Handle("GET /api/notes", protect(h.Notes.ListNotes))
	mux.Handle("POST /api/notes", protect(h.Notes.CreateNote))
	mux.Handle("GET /api/notes/{id}", protect(h.Notes.GetNote))
	mux.Handle("PUT /api/notes/{id}", protect(h.Notes.UpdateNote))
	mux.Handle("DELETE /api/notes/{id}", protect(h.Notes.DeleteNote))
	mux.Handle("POST /api/notes/{id}/share", protect(h.Notes.ShareNote))
	// /shared/{token} and /{id}/export overlap as patterns, so one route dispatches both
	mux.HandleFunc("GET /api/notes/{id}/{sub}", noteSubresource(h.Notes, protect(h.Notes.ExportNote)))

	// Folder routes
	mux.Handle("GET /api/folders", protect(h.Folders.ListFolders))
	mux.Handle("POST /api/folders", protect(h.Folders.CreateFolder))
	mux.HandleFunc("GET /api/folders/shared/{token}", h.Folders.GetSharedFolder)
	mux.Handle("GET /api/folders/{id}", protect(h.Folders.GetFolder))
	mux.Handle("PUT /api/folders/{id}", protect(h.Folders.UpdateFolder))
	mux.Handle("DELETE /api/folders/{id}", protect(h.Folders.DeleteFolder))
	mux.Handle("POST /api/folders/{id}/share", protect(h.Folders.ShareFolder))

	// Global feed routes
	mux.HandleFunc("GET /api/global", h.Global.Feed)
	mux.Handle("POST /api/global", protect(h.Global.ShareNote))
	mux.Handle("POST /api/global/folder", protect(h.Global.ShareFolder))
	mux.Handle("POST /api/global/sync/{noteId}", protect(h.Global.SyncNote))
	mux.Handle("POST /api/global/sync/folder/{folderId}", protect(h.Global.SyncFolder))
	mux.Handle("DELETE /api/global/{noteId}", protect(h.Global.UnshareNote))
	mux.Handle("DELETE /api/global/folder/{folderId}", protect(h.Global.UnshareFolder))
	mux.Handle("GET /api/global/check/{noteId}", protect(h.Global.CheckNote))
	mux.HandleFunc("GET /api/global/{id}", h.Global.GetNote)
	mux.HandleFunc("GET /api/global/folders/{id}", h.Global.GetFolder)
	mux.HandleFunc("GET /api/global/folders/{id}/notes", h.Global.ListFolderNotes)
	mux.HandleFunc("GET /api/global/folders/{id}/subfolders", h.Global.ListFolderSubfolders)
	mux.HandleFunc("GET /api/global/share/note/{token}", h.Global.GetNoteByToken)
	mux.HandleFunc("GET /api/global/share/folder/{token}", h.Global.GetFolderByToken)

	// User routes
	mux.Handle("GET /api/auth/profile", protect(h.Users.GetIdentity))
	mux.Handle("GET /api/users/profile", protect(h.Users.GetProfile))
	mux.Handle("PUT /api/users/profile", protect(h.Users.UpdateProfile))

	// Admin routes
	mux.Handle("GET /api/admin/stats", adminOnly(h.Admin.Stats))
	mux.Handle("GET /api/admin/users", adminOnly(h.Admin.ListUsers))
	mux.Handle("GET /api/admin/users/{uid}", adminOnly(h.Admin.GetUser))

	// Attachment routes (PDF reads are public so they open in an iframe or a plain link)
	mux.Handle("POST /api/upload/pdf", protect(h.Attachments.UploadPDF))
	mux.HandleFunc("GET /api/pdf/view/{fileName...}", h.Attachments.ViewPDF)
	mux.HandleFunc("GET /api/pdf/download/{fileName...}", h.Attachments.DownloadPDF)

	return mux
}

func noteSubresource(notes *NoteHandler, export http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.PathValue("id") == "shared":
			r.SetPathValue("token", r.PathValue("sub"))
			notes.GetSharedNote(w, r)
		case r.PathValue("sub") == "export":
			export.ServeHTTP(w, r)
		default:
			httputil.RespondError(w, http.StatusNotFound, "Not found")
		}
	}
}
