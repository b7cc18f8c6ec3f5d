// Package storage stages uploaded files until they have been forwarded to
// the AI gateway.
package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Storage interface {
	UploadFile(ctx context.Context, filename string, content io.Reader, contentType string) (*UploadResult, error)
	GetFile(ctx context.Context, key string) (io.ReadCloser, error)
	DeleteFile(ctx context.Context, key string) error
}

type UploadResult struct {
	Key  string
	Size int64
}

// keyExt is what a staged key may end with; anything else is dropped.
var keyExt = regexp.MustCompile(`^\.[a-z0-9]{1,10}$`)

// generateKey names a staged file by upload time plus a short random
// suffix, keeping the original extension when it is a plain one.
func generateKey(filename string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	if !keyExt.MatchString(ext) {
		ext = ""
	}
	uniqueID := uuid.New().String()[:8]
	return fmt.Sprintf("%d_%s%s", time.Now().UnixMilli(), uniqueID, ext)
}
