package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/elisereads/elisereads-server/internal/service"
)

func (s *Server) registerUploadRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "uploadImage",
		Method:        http.MethodPost,
		Path:          "/api/v1/uploads",
		Summary:       "Upload image",
		Description:   "Stores a JPEG, PNG, GIF or WebP image sent as the raw request body",
		Tags:          []string{"Uploads"},
		Security:      bearer,
		DefaultStatus: http.StatusCreated,
		// One byte over the limit so oversized bodies reach the service and
		// get its message instead of a bare 413.
		MaxBodyBytes: s.services.Upload.MaxBytes() + 1,
	}, s.handleUploadImage)

	huma.Register(s.api, huma.Operation{
		OperationID: "getUpload",
		Method:      http.MethodGet,
		Path:        "/api/v1/uploads/{storageId}",
		Summary:     "Get uploaded image",
		Description: "Streams an uploaded image. Honours If-None-Match.",
		Tags:        []string{"Uploads"},
	}, s.handleGetUpload)
}

// === DTOs ===

// UploadImageInput is a raw image body.
type UploadImageInput struct {
	ContentType string `header:"Content-Type"`
	RawBody     []byte
}

// UploadResultOutput wraps the stored image description for Huma.
type UploadResultOutput struct {
	Body *service.UploadResult
}

// GetUploadInput addresses one stored image.
type GetUploadInput struct {
	StorageID   string `path:"storageId" doc:"Storage ID returned by the upload"`
	IfNoneMatch string `header:"If-None-Match"`
}

// UploadOutput is the raw image.
type UploadOutput struct {
	Status       int
	ContentType  string `header:"Content-Type"`
	ETag         string `header:"ETag"`
	CacheControl string `header:"Cache-Control"`
	Body         []byte
}

// === Handlers ===

func (s *Server) handleUploadImage(ctx context.Context, input *UploadImageInput) (*UploadResultOutput, error) {
	if _, err := RequireOwner(ctx); err != nil {
		return nil, err
	}

	result, err := s.services.Upload.Store(ctx, input.ContentType, input.RawBody)
	if err != nil {
		return nil, err
	}
	return &UploadResultOutput{Body: result}, nil
}

func (s *Server) handleGetUpload(ctx context.Context, input *GetUploadInput) (*UploadOutput, error) {
	obj, err := s.services.Upload.Get(ctx, input.StorageID)
	if err != nil {
		return nil, err
	}

	etag := obj.ETag()
	out := &UploadOutput{
		Status:       http.StatusOK,
		ETag:         etag,
		CacheControl: CacheImmutable,
	}
	if etagMatches(input.IfNoneMatch, etag) {
		out.Status = http.StatusNotModified
		return out, nil
	}

	out.ContentType = obj.ContentType
	out.Body = obj.Data
	return out, nil
}

// etagMatches reports whether an If-None-Match header names etag.
func etagMatches(header, etag string) bool {
	for candidate := range strings.SplitSeq(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}
