package handler

import (
	"log/slog"
	"net/http"

	sharingSvc "cloudnote/internal/domain/services/sharing"
	"cloudnote/internal/httputil"
)

// GlobalHandler serves the public feed and the publish/sync/unshare actions
type GlobalHandler struct {
	globalService sharingSvc.GlobalService
	syncer        sharingSvc.Syncer
	logger        *slog.Logger
}

// NewGlobalHandler creates a new global feed handler
func NewGlobalHandler(globalService sharingSvc.GlobalService, syncer sharingSvc.Syncer, logger *slog.Logger) *GlobalHandler {
	return &GlobalHandler{
		globalService: globalService,
		syncer:        syncer,
		logger:        logger,
	}
}

// Feed returns the newest published notes and folders, merged
// GET /api/global?limit=20
func (h *GlobalHandler) Feed(w http.ResponseWriter, r *http.Request) {
	limit, err := httputil.QueryInt(r, "limit", 0)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, err := h.globalService.Feed(r.Context(), limit)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, items)
}

type shareNoteBody struct {
	NoteID string `json:"noteId"`
}

type shareFolderBody struct {
	FolderID string `json:"folderId"`
}

// ShareNote publishes a snapshot of a note
// POST /api/global
func (h *GlobalHandler) ShareNote(w http.ResponseWriter, r *http.Request) {
	var body shareNoteBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.globalService.ShareNote(r.Context(), publisher(r), body.NoteID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, result)
}

// ShareFolder publishes a snapshot of a folder subtree
// POST /api/global/folder
func (h *GlobalHandler) ShareFolder(w http.ResponseWriter, r *http.Request) {
	var body shareFolderBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.globalService.ShareFolder(r.Context(), publisher(r), body.FolderID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, result)
}

// SyncNote refreshes the caller's snapshots of a note
// POST /api/global/sync/{noteId}
func (h *GlobalHandler) SyncNote(w http.ResponseWriter, r *http.Request) {
	updated, err := h.syncer.SyncNote(r.Context(), httputil.GetUserID(r), r.PathValue("noteId"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondMessage(w, http.StatusOK, "Global note synced", map[string]interface{}{"updated": updated})
}

// SyncFolder rebuilds the caller's snapshots of a folder
// POST /api/global/sync/folder/{folderId}
func (h *GlobalHandler) SyncFolder(w http.ResponseWriter, r *http.Request) {
	updated, err := h.syncer.SyncFolder(r.Context(), httputil.GetUserID(r), r.PathValue("folderId"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondMessage(w, http.StatusOK, "Global folder synced", map[string]interface{}{"updated": updated})
}

// UnshareNote removes the caller's snapshots of a note
// DELETE /api/global/{noteId}
func (h *GlobalHandler) UnshareNote(w http.ResponseWriter, r *http.Request) {
	if err := h.globalService.UnshareNote(r.Context(), httputil.GetUserID(r), r.PathValue("noteId")); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondMessage(w, http.StatusOK, "Note removed from global feed", nil)
}

// UnshareFolder removes the caller's snapshot of a folder
// DELETE /api/global/folder/{folderId}
func (h *GlobalHandler) UnshareFolder(w http.ResponseWriter, r *http.Request) {
	if err := h.globalService.UnshareFolder(r.Context(), httputil.GetUserID(r), r.PathValue("folderId")); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondMessage(w, http.StatusOK, "Folder removed from global feed", nil)
}

// CheckNote reports whether the caller has published the note
// GET /api/global/check/{noteId}
func (h *GlobalHandler) CheckNote(w http.ResponseWriter, r *http.Request) {
	shared, err := h.globalService.IsNoteShared(r.Context(), httputil.GetUserID(r), r.PathValue("noteId"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]bool{"isGlobal": shared})
}

// GetNote returns a published note
// GET /api/global/{id}
func (h *GlobalHandler) GetNote(w http.ResponseWriter, r *http.Request) {
	note, err := h.globalService.GetGlobalNote(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, note)
}

// GetFolder returns a published folder snapshot
// GET /api/global/folders/{id}
func (h *GlobalHandler) GetFolder(w http.ResponseWriter, r *http.Request) {
	folder, err := h.globalService.GetGlobalFolder(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, folder)
}

// GetNoteByToken returns a published note by its share token
// GET /api/global/share/note/{token}
func (h *GlobalHandler) GetNoteByToken(w http.ResponseWriter, r *http.Request) {
	note, err := h.globalService.GetGlobalNoteByToken(r.Context(), r.PathValue("token"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, note)
}

// GetFolderByToken returns a published folder by its share token
// GET /api/global/share/folder/{token}
func (h *GlobalHandler) GetFolderByToken(w http.ResponseWriter, r *http.Request) {
	folder, err := h.globalService.GetGlobalFolderByToken(r.Context(), r.PathValue("token"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, folder)
}

// ListFolderNotes re-queries the notes currently inside a published folder.
// The result can differ from the frozen snapshot structure.
// GET /api/global/folders/{id}/notes
func (h *GlobalHandler) ListFolderNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.globalService.ListGlobalFolderNotes(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, notes)
}

// ListFolderSubfolders re-queries the current sub-folders of a published folder
// GET /api/global/folders/{id}/subfolders
func (h *GlobalHandler) ListFolderSubfolders(w http.ResponseWriter, r *http.Request) {
	folders, err := h.globalService.ListGlobalFolderSubfolders(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, folders)
}

func publisher(r *http.Request) sharingSvc.Publisher {
	p := sharingSvc.Publisher{}
	if identity := httputil.GetIdentity(r); identity != nil {
		p.UserID = identity.UserID
		p.Email = identity.Email
	}
	return p
}
