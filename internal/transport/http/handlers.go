package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fedutinova/medlens/internal/auth"
	"github.com/fedutinova/medlens/internal/common"
	"github.com/fedutinova/medlens/internal/config"
	"github.com/fedutinova/medlens/internal/gateway"
	"github.com/fedutinova/medlens/internal/models"
	"github.com/fedutinova/medlens/internal/prompt"
	"github.com/fedutinova/medlens/internal/redis"
	"github.com/fedutinova/medlens/internal/upload"
	"github.com/fedutinova/medlens/internal/validation"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

// Non-standard failure statuses kept for client compatibility: callers
// tell the endpoints apart by them.
const (
	StatusFileAnalysisFailed = http.StatusLoopDetected        // 508
	StatusTextAnalysisFailed = http.StatusInsufficientStorage // 507
)

const msgNoFile = "No file uploaded"

type ResponseCache interface {
	GetResponse(ctx context.Context, model, prompt string) (string, error)
	StoreResponse(ctx context.Context, model, prompt, text string) error
}

type HistoryStore interface {
	RecordAnalysis(ctx context.Context, a *models.Analysis) error
	ListRecent(ctx context.Context, limit int) ([]models.Analysis, error)
}

// Handlers is built once at startup and only read afterwards. Filter,
// Cache and History are optional and may be nil.
type Handlers struct {
	Gateway gateway.Gateway
	Uploads *upload.Receiver
	Prompts *prompt.Builder
	Filter  *prompt.QuestionFilter
	Cache   ResponseCache
	History HistoryStore
	Config  config.Config
}

func (h *Handlers) Routers(r chi.Router) {
	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)

	r.Route("/api", func(r chi.Router) {
		if h.Config.RateLimitPerMin > 0 {
			r.Use(httprate.LimitByIP(h.Config.RateLimitPerMin, time.Minute))
		}

		r.Post("/analyze-image", h.analyzeImage)
		r.Post("/analyze-text", h.analyzeText)
		r.Post("/analyze-report", h.analyzeReport)

		r.With(
			auth.JWTMiddleware(h.Config.JWTSecret, h.Config.JWTIssuer),
			auth.RequirePerm(h.Config.JWTSecret, auth.PermHistoryRead),
		).Get("/history", h.getHistory)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("encode response", "err", err)
	}
}

func (h *Handlers) analyzeImage(w http.ResponseWriter, r *http.Request) {
	h.analyzeFile(w, r, prompt.KindImage, "image")
}

func (h *Handlers) analyzeReport(w http.ResponseWriter, r *http.Request) {
	h.analyzeFile(w, r, prompt.KindReport, "report")
}

func (h *Handlers) analyzeFile(w http.ResponseWriter, r *http.Request, kind prompt.Kind, field string) {
	u, err := h.Uploads.Receive(w, r, field)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrNoFile):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": msgNoFile})
		case common.IsBadRequest(err):
			writeJSON(w, http.StatusBadRequest, map[string]string{"err": err.Error()})
		default:
			slog.Error("failed to receive upload", "kind", kind, "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"err": err.Error()})
		}
		return
	}
	defer h.Uploads.Cleanup(r.Context(), u)

	record := &models.Analysis{
		Kind:             string(kind),
		Model:            h.Config.AIModel,
		OriginalFilename: u.OriginalFilename,
		MIMEType:         u.MIMEType,
		FileSize:         u.Size,
	}

	res, err := h.generateWithFile(r.Context(), kind, u, record)
	h.Uploads.Cleanup(r.Context(), u)

	if err != nil {
		slog.Error("file analysis failed", "kind", kind, "key", u.Key, "upstream", common.IsGateway(err), "error", err)
		record.Status = models.StatusFailed
		record.Error = err.Error()
		h.recordHistory(r.Context(), record)
		writeJSON(w, StatusFileAnalysisFailed, map[string]string{"err": err.Error()})
		return
	}

	h.completeRecord(record, res)
	h.recordHistory(r.Context(), record)
	writeJSON(w, http.StatusOK, map[string]string{"response": res.Text})
}

func (h *Handlers) generateWithFile(ctx context.Context, kind prompt.Kind, u *upload.Upload, record *models.Analysis) (*gateway.Result, error) {
	instruction, err := h.Prompts.Build(kind, "")
	if err != nil {
		return nil, err
	}
	record.PromptLength = len(instruction)

	ctx, cancel := h.gatewayContext(ctx)
	defer cancel()

	body, err := h.Uploads.Open(ctx, u)
	if err != nil {
		return nil, err
	}
	ref, err := h.Gateway.Upload(ctx, body, u.MIMEType, u.OriginalFilename)
	body.Close()
	if err != nil {
		return nil, err
	}

	return h.Gateway.Generate(ctx, instruction, ref)
}

func (h *Handlers) analyzeText(w http.ResponseWriter, r *http.Request) {
	var req validation.TextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"err": "invalid request body"})
		return
	}

	if err := validation.ValidateTextRequest(req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"err": err.Error()})
		return
	}

	// the filter sees the extracted prompt; an empty one falls back to the preamble
	if h.Filter != nil && strings.TrimSpace(req.Prompt) != "" && !h.Filter.Match(req.Prompt) {
		slog.Info("question rejected by filter", "prompt_length", len(req.Prompt))
		h.recordHistory(r.Context(), &models.Analysis{
			Kind:         string(prompt.KindText),
			Status:       models.StatusRejected,
			Model:        h.Config.AIModel,
			PromptLength: len(req.Prompt),
			Error:        common.ErrRejectedQuestion.Error(),
		})
		writeJSON(w, http.StatusBadRequest, map[string]string{"err": common.ErrRejectedQuestion.Error()})
		return
	}

	instruction, err := h.Prompts.Build(prompt.KindText, req.Prompt)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"err": err.Error()})
		return
	}

	record := &models.Analysis{
		Kind:         string(prompt.KindText),
		Model:        h.Config.AIModel,
		PromptLength: len(instruction),
	}

	if text, ok := h.cachedResponse(r.Context(), instruction); ok {
		record.Status = models.StatusCompleted
		record.Cached = true
		record.ResponseLength = len(text)
		h.recordHistory(r.Context(), record)
		writeJSON(w, http.StatusOK, map[string]string{"response": text})
		return
	}

	ctx, cancel := h.gatewayContext(r.Context())
	res, err := h.Gateway.Generate(ctx, instruction)
	cancel()
	if err != nil {
		slog.Error("text analysis failed", "upstream", common.IsGateway(err), "error", err)
		record.Status = models.StatusFailed
		record.Error = err.Error()
		h.recordHistory(r.Context(), record)
		writeJSON(w, StatusTextAnalysisFailed, map[string]string{"err": err.Error()})
		return
	}

	h.storeResponse(r.Context(), instruction, res.Text)
	h.completeRecord(record, res)
	h.recordHistory(r.Context(), record)
	writeJSON(w, http.StatusOK, map[string]string{"response": res.Text})
}

func (h *Handlers) getHistory(w http.ResponseWriter, r *http.Request) {
	if h.History == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "history is disabled"})
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be an integer"})
			return
		}
		limit = n
	}

	analyses, err := h.History.ListRecent(r.Context(), limit)
	if err != nil {
		slog.Error("failed to list history", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, analyses)
}

// gatewayContext bounds provider calls when GATEWAY_TIMEOUT is set.
func (h *Handlers) gatewayContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.Config.GatewayTimeout > 0 {
		return context.WithTimeout(ctx, h.Config.GatewayTimeout)
	}
	return context.WithCancel(ctx)
}

func (h *Handlers) cachedResponse(ctx context.Context, instruction string) (string, bool) {
	if h.Cache == nil {
		return "", false
	}
	text, err := h.Cache.GetResponse(ctx, h.Config.AIModel, instruction)
	if err != nil {
		if !errors.Is(err, redis.ErrCacheMiss) {
			slog.Warn("response cache lookup failed", "error", err)
		}
		return "", false
	}
	slog.Debug("response served from cache", "prompt_length", len(instruction))
	return text, true
}

func (h *Handlers) storeResponse(ctx context.Context, instruction, text string) {
	if h.Cache == nil {
		return
	}
	if err := h.Cache.StoreResponse(ctx, h.Config.AIModel, instruction, text); err != nil {
		slog.Warn("failed to cache response", "error", err)
	}
}

func (h *Handlers) completeRecord(record *models.Analysis, res *gateway.Result) {
	record.Status = models.StatusCompleted
	record.Provider = h.Gateway.Provider()
	if res.Model != "" {
		record.Model = res.Model
	}
	record.ResponseLength = len(res.Text)
	record.TokensUsed = res.TokensUsed
	record.ProcessingTimeMs = res.ProcessingTimeMs
}

func (h *Handlers) recordHistory(ctx context.Context, record *models.Analysis) {
	if h.History == nil {
		return
	}
	if record.Provider == "" {
		record.Provider = h.Gateway.Provider()
	}
	if err := h.History.RecordAnalysis(context.WithoutCancel(ctx), record); err != nil {
		slog.Error("failed to record analysis", "kind", record.Kind, "error", err)
	}
}
