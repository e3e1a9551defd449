package handler

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path"

	"cloudnote/internal/config"
	"cloudnote/internal/domain/services"
	"cloudnote/internal/httputil"
)

// AttachmentHandler handles PDF upload and viewing
type AttachmentHandler struct {
	store  services.AttachmentStore
	logger *slog.Logger
}

// NewAttachmentHandler creates a new attachment handler
func NewAttachmentHandler(store services.AttachmentStore, logger *slog.Logger) *AttachmentHandler {
	return &AttachmentHandler{
		store:  store,
		logger: logger,
	}
}

// UploadPDF stores the multipart field "pdf"
// POST /api/upload/pdf
func (h *AttachmentHandler) UploadPDF(w http.ResponseWriter, r *http.Request) {
	// Leave room for the multipart envelope around the file
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadBytes+1<<20)

	file, header, err := r.FormFile("pdf")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.RespondError(w, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		httputil.RespondError(w, http.StatusBadRequest, "No PDF file uploaded")
		return
	}
	defer func() { _ = file.Close() }()

	if header.Size > config.MaxUploadBytes {
		httputil.RespondError(w, http.StatusRequestEntityTooLarge, "File too large")
		return
	}
	if header.Header.Get("Content-Type") != "application/pdf" {
		httputil.RespondError(w, http.StatusBadRequest, "Only PDF files are allowed")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Failed to read uploaded file")
		return
	}

	stored, err := h.store.Upload(r.Context(), httputil.GetUserID(r), header.Filename, "application/pdf", data)
	if err != nil {
		h.logger.Error("pdf upload failed", "error", err, "user_id", httputil.GetUserID(r))
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to upload PDF")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, stored)
}

// ViewPDF streams a stored PDF inline
// GET /api/pdf/view/{fileName...}
func (h *AttachmentHandler) ViewPDF(w http.ResponseWriter, r *http.Request) {
	h.serveStored(w, r, "inline")
}

// DownloadPDF streams a stored PDF as a file download named after the object
// GET /api/pdf/download/{fileName...}
func (h *AttachmentHandler) DownloadPDF(w http.ResponseWriter, r *http.Request) {
	disposition := mime.FormatMediaType("attachment", map[string]string{
		"filename": path.Base(r.PathValue("fileName")),
	})
	h.serveStored(w, r, disposition)
}

func (h *AttachmentHandler) serveStored(w http.ResponseWriter, r *http.Request, disposition string) {
	fileName := r.PathValue("fileName")
	body, contentType, err := h.store.Open(r.Context(), fileName)
	if err != nil {
		h.logger.Warn("pdf read failed", "file_name", fileName, "error", err)
		handleError(w, err)
		return
	}
	defer func() { _ = body.Close() }()

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", disposition)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, body); err != nil {
		h.logger.Warn("pdf stream interrupted", "file_name", fileName, "error", err)
	}
}
