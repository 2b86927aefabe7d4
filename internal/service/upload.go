package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/elisereads/elisereads-server/internal/blob"
	domainerrors "github.com/elisereads/elisereads-server/internal/errors"
	"github.com/elisereads/elisereads-server/internal/media/images"
)

// UploadService accepts image uploads into the blob store.
type UploadService struct {
	blobs     blob.Store
	publicURL string
	maxBytes  int64
	logger    *slog.Logger
}

// NewUploadService creates a new upload service. Bodies larger than
// maxBytes are rejected.
func NewUploadService(blobs blob.Store, publicURL string, maxBytes int64, logger *slog.Logger) *UploadService {
	return &UploadService{
		blobs:     blobs,
		publicURL: publicURL,
		maxBytes:  maxBytes,
		logger:    discardLogger(logger),
	}
}

// UploadResult describes a stored image.
type UploadResult struct {
	StorageID string `json:"storageId"`
	URL       string `json:"url"`
	BlurHash  string `json:"blurHash"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

// MaxBytes returns the upload size limit.
func (s *UploadService) MaxBytes() int64 {
	return s.maxBytes
}

// Store validates an image and saves it under a fresh storage ID.
func (s *UploadService) Store(ctx context.Context, contentType string, data []byte) (*UploadResult, error) {
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}
	if _, ok := images.AllowedContentTypes[contentType]; !ok {
		return nil, domainerrors.Validationf("unsupported content type %q: use image/jpeg, image/png, image/gif or image/webp", contentType)
	}
	if len(data) == 0 {
		return nil, domainerrors.Validation("empty upload")
	}
	if int64(len(data)) > s.maxBytes {
		return nil, domainerrors.Validationf("upload exceeds %d bytes", s.maxBytes)
	}

	info, err := images.Inspect(data)
	if err != nil {
		return nil, domainerrors.Validation("file is not a valid image").WithCause(err)
	}
	if !images.MatchesContentType(contentType, info.Format) {
		return nil, domainerrors.Validationf("content type %s does not match %s image data", contentType, info.Format)
	}

	key := blob.NewKey()
	if err := s.blobs.Put(ctx, key, contentType, data); err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	s.logger.Info("image uploaded",
		"storage_id", key,
		"content_type", contentType,
		"bytes", len(data),
		"width", info.Width,
		"height", info.Height,
	)
	return &UploadResult{
		StorageID: key,
		URL:       blob.URL(s.publicURL, key),
		BlurHash:  info.BlurHash,
		Width:     info.Width,
		Height:    info.Height,
	}, nil
}

// Get returns a stored blob.
func (s *UploadService) Get(ctx context.Context, storageID string) (*blob.Object, error) {
	obj, err := s.blobs.Get(ctx, storageID)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) || errors.Is(err, blob.ErrInvalidKey) {
			return nil, domainerrors.NotFound("Upload not found")
		}
		return nil, fmt.Errorf("get upload: %w", err)
	}
	return obj, nil
}
