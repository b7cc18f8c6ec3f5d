// Package upload receives a single multipart file, stages it in storage and
// removes it again once the AI call is done.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"sync/atomic"

	"github.com/fedutinova/medlens/internal/common"
	"github.com/fedutinova/medlens/internal/storage"
	"github.com/fedutinova/medlens/internal/validation"
	"github.com/gabriel-vasile/mimetype"
)

// multipart overhead allowed on top of the file size limit
const formOverhead = 1 << 20

type Upload struct {
	Key              string
	OriginalFilename string
	MIMEType         string
	Size             int64

	cleaned atomic.Bool
}

type Receiver struct {
	store    storage.Storage
	maxBytes int64
}

func NewReceiver(store storage.Storage, maxBytes int64) *Receiver {
	return &Receiver{store: store, maxBytes: maxBytes}
}

// Receive stages the file sent in the given form field. A request without
// that field, or without a multipart body at all, yields common.ErrNoFile.
func (rc *Receiver) Receive(w http.ResponseWriter, r *http.Request, field string) (*Upload, error) {
	if rc.maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, rc.maxBytes+formOverhead)
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.Is(err, http.ErrNotMultipart):
			return nil, common.ErrNoFile
		case errors.As(err, &tooLarge):
			return nil, common.ErrFileTooLarge
		default:
			return nil, fmt.Errorf("failed to parse form: %w", errors.Join(common.ErrBadRequest, err))
		}
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			slog.Warn("failed to remove multipart temp files", "error", err)
		}
	}()

	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, common.ErrNoFile
		}
		return nil, fmt.Errorf("failed to read form file: %w", errors.Join(common.ErrBadRequest, err))
	}
	defer file.Close()

	mimeType, err := resolveMIMEType(header.Header.Get("Content-Type"), file)
	if err != nil {
		return nil, common.WrapInternal("detect content type", err)
	}

	if err := validation.ValidateUpload(field, header.Filename, header.Size, rc.maxBytes, mimeType); err != nil {
		return nil, err
	}

	res, err := rc.store.UploadFile(r.Context(), header.Filename, file, mimeType)
	if err != nil {
		return nil, common.WrapInternal("stage upload", err)
	}

	slog.Info("upload staged",
		"field", field,
		"key", res.Key,
		"filename", header.Filename,
		"mime_type", mimeType,
		"size", res.Size)

	return &Upload{
		Key:              res.Key,
		OriginalFilename: header.Filename,
		MIMEType:         mimeType,
		Size:             res.Size,
	}, nil
}

// Open returns the staged content for forwarding to the gateway.
func (rc *Receiver) Open(ctx context.Context, u *Upload) (io.ReadCloser, error) {
	body, err := rc.store.GetFile(ctx, u.Key)
	if err != nil {
		return nil, common.WrapInternal("open staged upload", err)
	}
	return body, nil
}

// Cleanup deletes the staged file. Only the first call has an effect and
// failures are logged, never returned.
func (rc *Receiver) Cleanup(ctx context.Context, u *Upload) {
	if u == nil || !u.cleaned.CompareAndSwap(false, true) {
		return
	}
	// the request may already be cancelled; deletion must still happen
	ctx = context.WithoutCancel(ctx)
	if err := rc.store.DeleteFile(ctx, u.Key); err != nil {
		slog.Error("File deletion failed", "key", u.Key, "error", err)
	}
}

// resolveMIMEType trusts the declared part type unless it is missing or
// generic, in which case the content is sniffed.
func resolveMIMEType(declared string, file io.ReadSeeker) (string, error) {
	if declared != "" {
		if mt, _, err := mime.ParseMediaType(declared); err == nil && mt != "application/octet-stream" {
			return mt, nil
		}
	}

	detected, err := mimetype.DetectReader(file)
	if err != nil {
		return "", err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	mt, _, err := mime.ParseMediaType(detected.String())
	if err != nil {
		return detected.String(), nil
	}
	return mt, nil
}
