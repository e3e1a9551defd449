package attachment

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"cloudnote/internal/domain"
	"cloudnote/internal/domain/services"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// B2Config holds the Backblaze credentials and target bucket.
// Backblaze exposes every bucket through its S3-compatible API at
// s3.<region>.backblazeb2.com.
type B2Config struct {
	KeyID          string
	ApplicationKey string
	BucketName     string
	Region         string // e.g. us-west-004
	Endpoint       string // optional, defaults to s3.<Region>.backblazeb2.com
	PublicURL      string // optional base for returned file URLs
	Insecure       bool   // plain HTTP, for local S3 stand-ins
}

func (c B2Config) endpoint() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	return "s3." + c.Region + ".backblazeb2.com"
}

// B2Store stores attachments in a Backblaze B2 bucket over the S3 API
type B2Store struct {
	client    *minio.Client
	bucket    string
	publicURL string
	logger    *slog.Logger
	now       func() time.Time
}

// NewB2Store creates a B2-backed attachment store
func NewB2Store(cfg B2Config, logger *slog.Logger) (*B2Store, error) {
	if cfg.BucketName == "" {
		return nil, fmt.Errorf("b2 bucket name is required")
	}

	client, err := minio.New(cfg.endpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.KeyID, cfg.ApplicationKey, ""),
		Secure: !cfg.Insecure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create b2 client: %w", err)
	}

	publicURL := strings.TrimRight(cfg.PublicURL, "/")
	if publicURL == "" {
		publicURL = client.EndpointURL().String() + "/" + cfg.BucketName
	}

	return &B2Store{
		client:    client,
		bucket:    cfg.BucketName,
		publicURL: publicURL,
		logger:    logger,
		now:       time.Now,
	}, nil
}

var _ services.AttachmentStore = (*B2Store)(nil)

// Upload stores data under pdfs/<owner>/<millis>_<sanitized name>
func (s *B2Store) Upload(ctx context.Context, ownerID, originalName, contentType string, data []byte) (*services.StoredFile, error) {
	if contentType == "" {
		contentType = "application/pdf"
	}
	key := objectKey(ownerID, originalName, s.now())

	info, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:          contentType,
		DisableContentSha256: true,
	})
	if err != nil {
		return nil, fmt.Errorf("b2 upload: %w", err)
	}

	s.logger.Info("pdf uploaded to b2",
		"file_name", key,
		"etag", info.ETag,
		"size", info.Size,
	)

	return &services.StoredFile{
		FileName: originalName,
		FileURL:  s.publicURL + "/" + escapeKey(key),
		Size:     int64(len(data)),
	}, nil
}

// Open downloads a stored file by object key
func (s *B2Store) Open(ctx context.Context, fileName string) (io.ReadCloser, string, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, fileName, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", fmt.Errorf("b2 download: %w", err)
	}

	// GetObject is lazy; Stat issues the request and surfaces missing keys
	stat, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		if isMissingObject(err) {
			return nil, "", &domain.NotFoundError{Message: "File not found"}
		}
		return nil, "", fmt.Errorf("b2 download: %w", err)
	}

	contentType := stat.ContentType
	if contentType == "" {
		contentType = "application/pdf"
	}
	return obj, contentType, nil
}

func isMissingObject(err error) bool {
	var resp minio.ErrorResponse
	if !errors.As(err, &resp) {
		return false
	}
	return resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound
}

// escapeKey percent-encodes each path segment, keeping the slashes
func escapeKey(key string) string {
	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}

func objectKey(ownerID, originalName string, now time.Time) string {
	return "pdfs/" + ownerID + "/" + strconv.FormatInt(now.UnixMilli(), 10) + "_" + SanitizeFileName(originalName)
}
