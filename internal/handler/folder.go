package handler

import (
	"log/slog"
	"net/http"

	notebookSvc "cloudnote/internal/domain/services/notebook"
	"cloudnote/internal/httputil"
)

// FolderHandler handles folder HTTP requests
type FolderHandler struct {
	folderService notebookSvc.FolderService
	logger        *slog.Logger
}

// NewFolderHandler creates a new folder handler
func NewFolderHandler(folderService notebookSvc.FolderService, logger *slog.Logger) *FolderHandler {
	return &FolderHandler{
		folderService: folderService,
		logger:        logger,
	}
}

// ListFolders lists the caller's folders under parentId (root when absent)
// GET /api/folders?parentId=
func (h *FolderHandler) ListFolders(w http.ResponseWriter, r *http.Request) {
	folders, err := h.folderService.ListFolders(r.Context(), httputil.GetUserID(r), httputil.QueryID(r, "parentId"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, folders)
}

// CreateFolder creates a new folder
// POST /api/folders
func (h *FolderHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	var req notebookSvc.CreateFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.OwnerID = httputil.GetUserID(r)

	folder, err := h.folderService.CreateFolder(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, folder)
}

// GetFolder retrieves a folder
// GET /api/folders/{id}
func (h *FolderHandler) GetFolder(w http.ResponseWriter, r *http.Request) {
	folder, err := h.folderService.GetFolder(r.Context(), httputil.GetUserID(r), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, folder)
}

type updateFolderBody struct {
	Name     *string                 `json:"name"`
	ParentID httputil.OptionalString `json:"parentId"`
}

// UpdateFolder renames and/or moves a folder
// PUT /api/folders/{id}
func (h *FolderHandler) UpdateFolder(w http.ResponseWriter, r *http.Request) {
	var body updateFolderBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req := &notebookSvc.UpdateFolderRequest{
		Name:        body.Name,
		ParentID:    body.ParentID.Value,
		ParentIDSet: body.ParentID.Present,
	}

	id := r.PathValue("id")
	if _, err := h.folderService.UpdateFolder(r.Context(), httputil.GetUserID(r), id, req); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondMessage(w, http.StatusOK, "Folder updated successfully", map[string]interface{}{"id": id})
}

// DeleteFolder deletes a folder and the notes directly inside it
// DELETE /api/folders/{id}
func (h *FolderHandler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	deleted, err := h.folderService.DeleteFolder(r.Context(), httputil.GetUserID(r), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondMessage(w, http.StatusOK, "Folder deleted successfully", map[string]interface{}{
		"id":           id,
		"notesDeleted": deleted,
	})
}

// ShareFolder returns the folder's private share token
// POST /api/folders/{id}/share
func (h *FolderHandler) ShareFolder(w http.ResponseWriter, r *http.Request) {
	token, err := h.folderService.ShareFolder(r.Context(), httputil.GetUserID(r), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondMessage(w, http.StatusOK, "Share token generated", map[string]interface{}{"shareToken": token})
}

// GetSharedFolder opens a folder through its private share token (public)
// GET /api/folders/shared/{token}
func (h *FolderHandler) GetSharedFolder(w http.ResponseWriter, r *http.Request) {
	shared, err := h.folderService.GetSharedFolder(r.Context(), r.PathValue("token"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, shared)
}
