package attachment

import (
	"context"
	"encoding/base64"
	"io"
	"log/slog"
	"regexp"

	"cloudnote/internal/domain"
	"cloudnote/internal/domain/services"
)

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// SanitizeFileName replaces every character outside [a-zA-Z0-9.-] with '_'
func SanitizeFileName(name string) string {
	return unsafeFileChars.ReplaceAllString(name, "_")
}

// InlineStore keeps nothing server-side: the file travels back as a base64 data URL
type InlineStore struct{}

func NewInlineStore() *InlineStore {
	return &InlineStore{}
}

var _ services.AttachmentStore = (*InlineStore)(nil)

func (s *InlineStore) Upload(ctx context.Context, ownerID, originalName, contentType string, data []byte) (*services.StoredFile, error) {
	if contentType == "" {
		contentType = "application/pdf"
	}
	return &services.StoredFile{
		FileName: originalName,
		FileURL:  "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data),
		Size:     int64(len(data)),
	}, nil
}

func (s *InlineStore) Open(ctx context.Context, fileName string) (io.ReadCloser, string, error) {
	return nil, "", &domain.NotFoundError{Message: "File not found"}
}

// FallbackStore uploads through primary and degrades to an inline data URL when it fails
type FallbackStore struct {
	primary  services.AttachmentStore
	fallback services.AttachmentStore
	logger   *slog.Logger
}

func NewFallbackStore(primary services.AttachmentStore, logger *slog.Logger) *FallbackStore {
	return &FallbackStore{
		primary:  primary,
		fallback: NewInlineStore(),
		logger:   logger,
	}
}

var _ services.AttachmentStore = (*FallbackStore)(nil)

func (s *FallbackStore) Upload(ctx context.Context, ownerID, originalName, contentType string, data []byte) (*services.StoredFile, error) {
	stored, err := s.primary.Upload(ctx, ownerID, originalName, contentType, data)
	if err == nil {
		return stored, nil
	}

	s.logger.Warn("upload failed, falling back to data url",
		"owner_id", ownerID,
		"file_name", originalName,
		"error", err,
	)
	return s.fallback.Upload(ctx, ownerID, originalName, contentType, data)
}

func (s *FallbackStore) Open(ctx context.Context, fileName string) (io.ReadCloser, string, error) {
	return s.primary.Open(ctx, fileName)
}
