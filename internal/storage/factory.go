package storage

import (
	"context"

	appconfig "github.com/fedutinova/medlens/internal/config"
)

func NewStorage(ctx context.Context, cfg appconfig.Config) (Storage, error) {
	if usesS3(cfg.StorageMode) {
		return NewS3Storage(ctx, cfg)
	}
	return NewLocalStorage(cfg.LocalStorageDir)
}

// GetStorageType names the backend for the startup log.
func GetStorageType(cfg appconfig.Config) string {
	if !usesS3(cfg.StorageMode) {
		return "Local Filesystem"
	}
	if isLocalStack(cfg.S3Endpoint) {
		return "LocalStack S3"
	}
	return "AWS S3"
}

func usesS3(mode string) bool {
	switch mode {
	case "s3", "aws", "localstack":
		return true
	}
	return false
}
