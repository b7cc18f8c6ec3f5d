package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/fedutinova/medlens/internal/common"
	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type Gemini struct {
	client *genai.Client
	model  string
}

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.New("missing Gemini API key")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini init: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) Provider() string { return "gemini" }

func (g *Gemini) Close() error { return g.client.Close() }

func (g *Gemini) Upload(ctx context.Context, r io.Reader, mimeType, displayName string) (FileRef, error) {
	f, err := g.client.UploadFile(ctx, "", r, &genai.UploadFileOptions{
		DisplayName: displayName,
		MIMEType:    mimeType,
	})
	if err != nil {
		slog.Error("gemini file upload failed", "display_name", displayName, "mime_type", mimeType, "error", err)
		return FileRef{}, common.WrapGateway(err)
	}

	slog.Info("file uploaded to gemini", "name", f.Name, "mime_type", f.MIMEType, "size_bytes", f.SizeBytes)

	return FileRef{
		Name:        f.Name,
		URI:         f.URI,
		MIMEType:    f.MIMEType,
		DisplayName: displayName,
	}, nil
}

func (g *Gemini) Generate(ctx context.Context, prompt string, files ...FileRef) (*Result, error) {
	start := time.Now()
	model := g.client.GenerativeModel(g.model)

	parts := []genai.Part{genai.Text(prompt)}
	for _, f := range files {
		if f.URI != "" {
			parts = append(parts, genai.FileData{MIMEType: f.MIMEType, URI: f.URI})
		} else if f.Text != "" {
			parts = append(parts, genai.Text(f.Text))
		}
	}

	slog.Info("sending request to gemini", "model", g.model, "prompt_length", len(prompt), "files", len(files))

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		slog.Error("gemini generate failed", "model", g.model, "error", err)
		return nil, common.WrapGateway(err)
	}

	text, err := responseText(resp)
	if err != nil {
		return nil, common.WrapGateway(err)
	}

	tokens := 0
	if resp.UsageMetadata != nil {
		tokens = int(resp.UsageMetadata.TotalTokenCount)
	}

	slog.Info("received response from gemini",
		"model", g.model,
		"tokens_used", tokens,
		"response_length", len(text))

	return &Result{
		Text:             text,
		Model:            g.model,
		TokensUsed:       tokens,
		ProcessingTimeMs: int(time.Since(start).Milliseconds()),
	}, nil
}

// responseText joins the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
			return "", fmt.Errorf("gemini: prompt blocked: %s", resp.PromptFeedback.BlockReason)
		}
		return "", errors.New("gemini: empty response")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	return sb.String(), nil
}
