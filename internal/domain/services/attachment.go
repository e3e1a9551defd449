package services

import (
	"context"
	"io"
)

// StoredFile describes an uploaded attachment
type StoredFile struct {
	FileName string `json:"fileName"`
	FileURL  string `json:"fileUrl"`
	Size     int64  `json:"size"`
}

// AttachmentStore persists uploaded PDFs
type AttachmentStore interface {
	// Upload stores data under a unique name derived from ownerID and originalName
	Upload(ctx context.Context, ownerID, originalName, contentType string, data []byte) (*StoredFile, error)

	// Open streams a stored file. The caller closes the reader.
	Open(ctx context.Context, fileName string) (io.ReadCloser, string, error)
}
