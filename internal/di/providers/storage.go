package providers

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/elisereads/elisereads-server/internal/blob"
	"github.com/elisereads/elisereads-server/internal/config"
	"github.com/elisereads/elisereads-server/internal/logger"
)

// ProvideBlobStore provides the image blob store selected by configuration.
func ProvideBlobStore(i do.Injector) (blob.Store, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	switch cfg.Storage.Driver {
	case config.StorageDriverS3:
		s3cfg := cfg.Storage.S3
		store, err := blob.NewS3(context.Background(), blob.S3Config{
			Bucket:          s3cfg.Bucket,
			Region:          s3cfg.Region,
			Endpoint:        s3cfg.Endpoint,
			AccessKeyID:     s3cfg.AccessKeyID,
			SecretAccessKey: s3cfg.SecretAccessKey,
		})
		if err != nil {
			return nil, fmt.Errorf("create S3 blob store: %w", err)
		}
		log.Info("Blob storage initialized", "driver", store.Name(), "bucket", s3cfg.Bucket)
		return store, nil

	default:
		dir := filepath.Join(cfg.Data.BasePath, "uploads")
		store, err := blob.NewFilesystem(dir)
		if err != nil {
			return nil, fmt.Errorf("create filesystem blob store: %w", err)
		}
		log.Info("Blob storage initialized", "driver", store.Name(), "path", dir)
		return store, nil
	}
}
