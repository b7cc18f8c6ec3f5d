package gateway

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/fedutinova/medlens/internal/common"
	"github.com/sashabaranov/go-openai"
)

// maxInlineImage bounds the base64 payload OpenAI accepts in a data URL.
const maxInlineImage = 20 * 1024 * 1024

// OpenAI has no file store for chat input, so Upload inlines the file.
type OpenAI struct {
	client *openai.Client
	model  string
}

func NewOpenAI(apiKey, model string) *OpenAI {
	return &OpenAI{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (o *OpenAI) Provider() string { return "openai" }

func (o *OpenAI) Close() error { return nil }

func (o *OpenAI) Upload(ctx context.Context, r io.Reader, mimeType, displayName string) (FileRef, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return FileRef{}, fmt.Errorf("failed to read file data: %w", err)
	}
	return inlineFileRef(data, mimeType, displayName)
}

func inlineFileRef(data []byte, mimeType, displayName string) (FileRef, error) {
	if len(data) == 0 {
		return FileRef{}, fmt.Errorf("file is empty: %s", displayName)
	}

	ref := FileRef{Name: displayName, DisplayName: displayName, MIMEType: mimeType}

	switch {
	case isImageType(mimeType):
		encoded := base64.StdEncoding.EncodeToString(data)
		if len(encoded) > maxInlineImage {
			return FileRef{}, fmt.Errorf("image too large: %d bytes (encoded)", len(encoded))
		}
		ref.URI = fmt.Sprintf("data:%s;base64,%s", mimeType, encoded)
	case isTextType(mimeType):
		ref.Text = fmt.Sprintf("File content (%s):\n%s", displayName, string(data))
	default:
		ref.Text = fmt.Sprintf("File: %s (type: %s, size: %d bytes) - Content not directly readable", displayName, mimeType, len(data))
	}
	return ref, nil
}

func (o *OpenAI) Generate(ctx context.Context, prompt string, files ...FileRef) (*Result, error) {
	start := time.Now()

	content := []openai.ChatMessagePart{{
		Type: openai.ChatMessagePartTypeText,
		Text: prompt,
	}}
	for _, f := range files {
		switch {
		case f.URI != "":
			content = append(content, openai.ChatMessagePart{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL:    f.URI,
					Detail: openai.ImageURLDetailHigh,
				},
			})
		case f.Text != "":
			content = append(content, openai.ChatMessagePart{
				Type: openai.ChatMessagePartTypeText,
				Text: f.Text,
			})
		}
	}

	slog.Info("sending request to OpenAI", "model", o.model, "prompt_length", len(prompt), "content_parts", len(content))

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{{
			Role:         openai.ChatMessageRoleUser,
			MultiContent: content,
		}},
		MaxTokens: 4000,
	})
	if err != nil {
		slog.Error("OpenAI API error", "error", err, "model", o.model)
		return nil, common.WrapGateway(err)
	}

	if len(resp.Choices) == 0 {
		return nil, common.WrapGateway(errors.New("no response from OpenAI"))
	}

	text := resp.Choices[0].Message.Content
	slog.Info("received response from OpenAI",
		"model", resp.Model,
		"tokens_used", resp.Usage.TotalTokens,
		"response_length", len(text))

	return &Result{
		Text:             text,
		Model:            resp.Model,
		TokensUsed:       resp.Usage.TotalTokens,
		ProcessingTimeMs: int(time.Since(start).Milliseconds()),
	}, nil
}

func isImageType(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	}
	return false
}

func isTextType(contentType string) bool {
	switch contentType {
	case "text/plain", "application/json", "text/csv":
		return true
	}
	return false
}
