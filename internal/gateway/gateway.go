// Package gateway talks to the generative-AI provider. Handlers only see the
// Gateway interface; providers are chosen at startup.
package gateway

import (
	"context"
	"fmt"
	"io"

	"github.com/fedutinova/medlens/internal/config"
)

// FileRef points at a file the provider can read while generating.
type FileRef struct {
	Name        string
	URI         string
	MIMEType    string
	DisplayName string
	// Text carries inline content for providers without a file store.
	Text string
}

type Result struct {
	Text             string
	Model            string
	TokensUsed       int
	ProcessingTimeMs int
}

type Gateway interface {
	Upload(ctx context.Context, r io.Reader, mimeType, displayName string) (FileRef, error)
	Generate(ctx context.Context, prompt string, files ...FileRef) (*Result, error)
	Provider() string
	Close() error
}

func New(ctx context.Context, cfg config.Config) (Gateway, error) {
	switch cfg.AIProvider {
	case config.ProviderOpenAI:
		return NewOpenAI(cfg.OpenAIAPIKey, cfg.AIModel), nil
	case config.ProviderGemini, "":
		return NewGemini(ctx, cfg.GeminiAPIKey, cfg.AIModel)
	default:
		return nil, fmt.Errorf("unknown AI provider: %s", cfg.AIProvider)
	}
}
