package models

import (
	"time"

	"github.com/google/uuid"
)

// Analysis is one completed or failed call to an analyze endpoint. The
// generated text itself is not kept.
type Analysis struct {
	ID               uuid.UUID `json:"id"`
	Kind             string    `json:"kind"`
	Status           string    `json:"status"`
	Provider         string    `json:"provider,omitempty"`
	Model            string    `json:"model,omitempty"`
	OriginalFilename string    `json:"original_filename,omitempty"`
	MIMEType         string    `json:"mime_type,omitempty"`
	FileSize         int64     `json:"file_size,omitempty"`
	PromptLength     int       `json:"prompt_length"`
	ResponseLength   int       `json:"response_length"`
	TokensUsed       int       `json:"tokens_used,omitempty"`
	ProcessingTimeMs int       `json:"processing_time_ms"`
	Cached           bool      `json:"cached"`
	Error            string    `json:"error,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusRejected  = "rejected"
)
