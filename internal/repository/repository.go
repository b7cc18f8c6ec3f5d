package repository

import (
	"context"
	"fmt"

	"github.com/fedutinova/medlens/internal/database"
	"github.com/fedutinova/medlens/internal/models"
	"github.com/google/uuid"
)

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 200
)

type Repository struct {
	db *database.DB
}

func New(db *database.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func (r *Repository) RecordAnalysis(ctx context.Context, a *models.Analysis) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}

	query := `
		INSERT INTO analyses (id, kind, status, provider, model, original_filename, mime_type,
			file_size, prompt_length, response_length, tokens_used, processing_time_ms, cached, error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW())
		RETURNING created_at
	`

	return r.db.Pool().QueryRow(ctx, query,
		a.ID,
		a.Kind,
		a.Status,
		a.Provider,
		a.Model,
		a.OriginalFilename,
		a.MIMEType,
		a.FileSize,
		a.PromptLength,
		a.ResponseLength,
		a.TokensUsed,
		a.ProcessingTimeMs,
		a.Cached,
		a.Error,
	).Scan(&a.CreatedAt)
}

// ClampLimit maps a requested page size onto [1, MaxHistoryLimit].
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		return MaxHistoryLimit
	}
	return limit
}

func (r *Repository) ListRecent(ctx context.Context, limit int) ([]models.Analysis, error) {
	query := `
		SELECT id, kind, status, provider, model, original_filename, mime_type, file_size,
			prompt_length, response_length, tokens_used, processing_time_ms, cached, error, created_at
		FROM analyses
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.Pool().Query(ctx, query, ClampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query analyses: %w", err)
	}
	defer rows.Close()

	analyses := make([]models.Analysis, 0)
	for rows.Next() {
		var a models.Analysis
		err := rows.Scan(
			&a.ID,
			&a.Kind,
			&a.Status,
			&a.Provider,
			&a.Model,
			&a.OriginalFilename,
			&a.MIMEType,
			&a.FileSize,
			&a.PromptLength,
			&a.ResponseLength,
			&a.TokensUsed,
			&a.ProcessingTimeMs,
			&a.Cached,
			&a.Error,
			&a.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		analyses = append(analyses, a)
	}

	return analyses, rows.Err()
}
