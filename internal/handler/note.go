package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"cloudnote/internal/domain/models/notebook"
	notebookSvc "cloudnote/internal/domain/services/notebook"
	"cloudnote/internal/httputil"
)

// NoteHandler handles note HTTP requests
type NoteHandler struct {
	noteService notebookSvc.NoteService
	logger      *slog.Logger
}

// NewNoteHandler creates a new note handler
func NewNoteHandler(noteService notebookSvc.NoteService, logger *slog.Logger) *NoteHandler {
	return &NoteHandler{
		noteService: noteService,
		logger:      logger,
	}
}

// ListNotes lists the caller's notes
// GET /api/notes
//
// Query parameters:
//   - folderId: folder ID, or "null"/absent for root-level notes
//   - isArchived, isFavorite: "true" | "false"
//   - tags: comma-separated, any match
//   - fromDate, toDate: RFC 3339 bounds on updatedAt
//   - sortBy: "updatedAt" (default) | "createdAt"
//   - limit: default 100
func (h *NoteHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	filter, err := parseNoteFilter(r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	filter.OwnerID = httputil.GetUserID(r)

	notes, err := h.noteService.ListNotes(r.Context(), filter)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, notes)
}

func parseNoteFilter(r *http.Request) (*notebook.NoteFilter, error) {
	filter := &notebook.NoteFilter{
		FolderID: httputil.QueryID(r, "folderId"),
		Tags:     httputil.QueryList(r, "tags"),
		SortBy:   notebook.SortByUpdatedAt,
	}

	archived, err := httputil.QueryBool(r, "isArchived")
	if err != nil {
		return nil, err
	}
	if archived != nil {
		filter.IsArchived = *archived
	}

	if filter.IsFavorite, err = httputil.QueryBool(r, "isFavorite"); err != nil {
		return nil, err
	}
	if filter.From, err = httputil.QueryTime(r, "fromDate"); err != nil {
		return nil, err
	}
	if filter.To, err = httputil.QueryTime(r, "toDate"); err != nil {
		return nil, err
	}
	if filter.Limit, err = httputil.QueryInt(r, "limit", 0); err != nil {
		return nil, err
	}

	switch sortBy := r.URL.Query().Get("sortBy"); sortBy {
	case "", string(notebook.SortByUpdatedAt):
	case string(notebook.SortByCreatedAt):
		filter.SortBy = notebook.SortByCreatedAt
	default:
		return nil, fmt.Errorf("sortBy must be createdAt or updatedAt")
	}

	return filter, nil
}

// CreateNote creates a new note
// POST /api/notes
func (h *NoteHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req notebookSvc.CreateNoteRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.OwnerID = httputil.GetUserID(r)

	note, err := h.noteService.CreateNote(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, note)
}

// GetNote retrieves one of the caller's notes
// GET /api/notes/{id}
func (h *NoteHandler) GetNote(w http.ResponseWriter, r *http.Request) {
	note, err := h.noteService.GetNote(r.Context(), httputil.GetUserID(r), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, note)
}

// updateNoteBody distinguishes absent fields from explicit nulls
type updateNoteBody struct {
	Title      *string                  `json:"title"`
	Content    *string                  `json:"content"`
	Tags       httputil.OptionalStrings `json:"tags"`
	IsArchived *bool                    `json:"isArchived"`
	IsFavorite *bool                    `json:"isFavorite"`
	IsGlobal   *bool                    `json:"isGlobal"`
	Type       *string                  `json:"type"`
	FolderID   httputil.OptionalString  `json:"folderId"`
	FileURL    httputil.OptionalString  `json:"fileUrl"`
	FileName   httputil.OptionalString  `json:"fileName"`
}

// UpdateNote applies a partial update
// PUT /api/notes/{id}
func (h *NoteHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	var body updateNoteBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req := &notebookSvc.UpdateNoteRequest{
		Title:       body.Title,
		Content:     body.Content,
		Tags:        body.Tags.Values,
		TagsSet:     body.Tags.Present,
		IsArchived:  body.IsArchived,
		IsFavorite:  body.IsFavorite,
		IsGlobal:    body.IsGlobal,
		Type:        body.Type,
		FolderID:    body.FolderID.Value,
		FolderIDSet: body.FolderID.Present,
		FileURL:     body.FileURL.Value,
		FileURLSet:  body.FileURL.Present,
		FileName:    body.FileName.Value,
		FileNameSet: body.FileName.Present,
	}

	id := r.PathValue("id")
	if _, err := h.noteService.UpdateNote(r.Context(), httputil.GetUserID(r), id, req); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondMessage(w, http.StatusOK, "Note updated successfully", map[string]interface{}{"id": id})
}

// DeleteNote deletes one of the caller's notes
// DELETE /api/notes/{id}
func (h *NoteHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.noteService.DeleteNote(r.Context(), httputil.GetUserID(r), id); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondMessage(w, http.StatusOK, "Note deleted successfully", map[string]interface{}{"id": id})
}

// ShareNote returns the note's private share token
// POST /api/notes/{id}/share
func (h *NoteHandler) ShareNote(w http.ResponseWriter, r *http.Request) {
	token, err := h.noteService.ShareNote(r.Context(), httputil.GetUserID(r), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondMessage(w, http.StatusOK, "Share token generated", map[string]interface{}{"shareToken": token})
}

// GetSharedNote opens a note through its private share token (public)
// GET /api/notes/shared/{token}
func (h *NoteHandler) GetSharedNote(w http.ResponseWriter, r *http.Request) {
	note, err := h.noteService.GetSharedNote(r.Context(), r.PathValue("token"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, note)
}

// ExportNote downloads the note as Markdown
// GET /api/notes/{id}/export
func (h *NoteHandler) ExportNote(w http.ResponseWriter, r *http.Request) {
	export, err := h.noteService.ExportNote(r.Context(), httputil.GetUserID(r), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.FileName))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(export.Markdown)
}
