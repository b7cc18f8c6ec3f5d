package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/fedutinova/medlens/internal/common"
	"github.com/fedutinova/medlens/internal/config"
	"github.com/fedutinova/medlens/internal/gateway"
	"github.com/fedutinova/medlens/internal/models"
	"github.com/fedutinova/medlens/internal/prompt"
	"github.com/fedutinova/medlens/internal/redis"
	"github.com/fedutinova/medlens/internal/storage"
	"github.com/fedutinova/medlens/internal/upload"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBytes = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0x0d, 0x49, 0x48, 0x44, 0x52}

type generateCall struct {
	prompt string
	files  []gateway.FileRef
}

type fakeGateway struct {
	mu          sync.Mutex
	uploads     map[string][]byte
	generates   []generateCall
	uploadErr   error
	generateErr error
	reply       func(prompt string, files []gateway.FileRef) string
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{uploads: make(map[string][]byte)}
}

func (f *fakeGateway) Upload(ctx context.Context, r io.Reader, mimeType, displayName string) (gateway.FileRef, error) {
	if f.uploadErr != nil {
		return gateway.FileRef{}, common.WrapGateway(f.uploadErr)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return gateway.FileRef{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	name := fmt.Sprintf("files/%d", len(f.uploads)+1)
	f.uploads[name] = data
	return gateway.FileRef{Name: name, URI: "https://example.test/" + name, MIMEType: mimeType, DisplayName: displayName}, nil
}

func (f *fakeGateway) Generate(ctx context.Context, p string, files ...gateway.FileRef) (*gateway.Result, error) {
	f.mu.Lock()
	f.generates = append(f.generates, generateCall{prompt: p, files: files})
	f.mu.Unlock()

	if f.generateErr != nil {
		return nil, common.WrapGateway(f.generateErr)
	}
	text := "ok"
	if f.reply != nil {
		text = f.reply(p, files)
	}
	return &gateway.Result{Text: text, Model: "fake-model", TokensUsed: 42}, nil
}

func (f *fakeGateway) Provider() string { return "fake" }
func (f *fakeGateway) Close() error     { return nil }

func (f *fakeGateway) calls() []generateCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]generateCall(nil), f.generates...)
}

type fakeHistory struct {
	mu      sync.Mutex
	records []models.Analysis
}

func (f *fakeHistory) RecordAnalysis(ctx context.Context, a *models.Analysis) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, *a)
	return nil
}

func (f *fakeHistory) ListRecent(ctx context.Context, limit int) ([]models.Analysis, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Analysis(nil), f.records...), nil
}

type fakeCache struct {
	entries map[string]string
}

func (f *fakeCache) GetResponse(ctx context.Context, model, p string) (string, error) {
	if text, ok := f.entries[model+"|"+p]; ok {
		return text, nil
	}
	return "", redis.ErrCacheMiss
}

func (f *fakeCache) StoreResponse(ctx context.Context, model, p, text string) error {
	f.entries[model+"|"+p] = text
	return nil
}

type testEnv struct {
	handlers *Handlers
	gateway  *fakeGateway
	dir      string
	router   http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)

	gw := newFakeGateway()
	h := &Handlers{
		Gateway: gw,
		Uploads: upload.NewReceiver(store, 1<<20),
		Prompts: prompt.NewBuilder(),
		Config:  config.Config{AIModel: "fake-model"},
	}
	r := chi.NewRouter()
	h.Routers(r)
	return &testEnv{handlers: h, gateway: gw, dir: dir, router: r}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) stagedFiles(t *testing.T) []string {
	entries, err := os.ReadDir(e.dir)
	require.NoError(t, err)
	var names []string
	for _, en := range entries {
		names = append(names, en.Name())
	}
	return names
}

func fileRequest(t *testing.T, path, field, filename, contentType string, data []byte) *http.Request {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, field, filename))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func textRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/analyze-text", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	var out map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestAnalyzeText_EmptyPromptUsesPreamble(t *testing.T) {
	for _, body := range []string{`{}`, `{"prompt":""}`, `{"prompt":"   \n\t"}`, ``} {
		env := newTestEnv(t)
		env.gateway.reply = func(p string, _ []gateway.FileRef) string { return "echo: " + p }

		rec := env.do(textRequest(body))
		require.Equal(t, http.StatusOK, rec.Code, "body %q: %s", body, rec.Body.String())

		calls := env.gateway.calls()
		require.Len(t, calls, 1)
		assert.Equal(t, prompt.ChatPreamble, calls[0].prompt)
		assert.Equal(t, "echo: "+prompt.ChatPreamble, decode(t, rec)["response"])
	}
}

func TestAnalyzeText_AppendsUserPrompt(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(textRequest(`{"prompt":"Is it safe to run with a sprained ankle?"}`))
	require.Equal(t, http.StatusOK, rec.Code)

	calls := env.gateway.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, prompt.ChatPreamble+"\n\nIs it safe to run with a sprained ankle?", calls[0].prompt)
	assert.Empty(t, calls[0].files)
}

func TestAnalyzeText_GatewayFailure(t *testing.T) {
	env := newTestEnv(t)
	env.gateway.generateErr = errors.New("quota exceeded")

	rec := env.do(textRequest(`{"prompt":"hello"}`))
	assert.Equal(t, StatusTextAnalysisFailed, rec.Code)
	assert.Equal(t, "quota exceeded", decode(t, rec)["err"])
}

func TestAnalyzeText_InvalidBody(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(textRequest(`{"prompt":`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, env.gateway.calls())

	rec = env.do(textRequest(`{"prompt":"` + strings.Repeat("x", 9000) + `"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, env.gateway.calls())
}

func TestAnalyzeText_QuestionFilter(t *testing.T) {
	env := newTestEnv(t)
	env.handlers.Filter = prompt.NewQuestionFilter()

	rec := env.do(textRequest(`{"prompt":"Tell me a joke"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, common.ErrRejectedQuestion.Error(), decode(t, rec)["err"])
	assert.Empty(t, env.gateway.calls())

	rec = env.do(textRequest(`{"prompt":"What are the causes of diabetes"}`))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(textRequest(`{}`))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, env.gateway.calls(), 2)
}

func TestAnalyzeText_RejectedQuestionIsRecorded(t *testing.T) {
	env := newTestEnv(t)
	history := &fakeHistory{}
	env.handlers.History = history
	env.handlers.Filter = prompt.NewQuestionFilter()

	rec := env.do(textRequest(`{"prompt":"Write me a poem"}`))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	require.Len(t, history.records, 1)
	assert.Equal(t, models.StatusRejected, history.records[0].Status)
	assert.Equal(t, string(prompt.KindText), history.records[0].Kind)
}

func TestAnalyzeText_CacheHitSkipsGateway(t *testing.T) {
	env := newTestEnv(t)
	env.handlers.Cache = &fakeCache{entries: make(map[string]string)}

	rec := env.do(textRequest(`{"prompt":"How can I prevent colds"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(textRequest(`{"prompt":"How can I prevent colds"}`))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Len(t, env.gateway.calls(), 1)
	assert.Equal(t, "ok", decode(t, rec)["response"])
}

func TestAnalyzeReport_NoFile(t *testing.T) {
	env := newTestEnv(t)

	reqs := []*http.Request{
		httptest.NewRequest(http.MethodPost, "/api/analyze-report", nil),
		fileRequest(t, "/api/analyze-report", "image", "knee.png", "image/png", pngBytes),
	}
	for _, req := range reqs {
		rec := env.do(req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, map[string]string{"error": "No file uploaded"}, decode(t, rec))
	}

	assert.Empty(t, env.gateway.calls())
	assert.Empty(t, env.gateway.uploads)
	assert.Empty(t, env.stagedFiles(t))
}

func TestAnalyzeImage_NoFile(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodPost, "/api/analyze-image", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No file uploaded", decode(t, rec)["error"])
	assert.Empty(t, env.gateway.calls())
}

func TestAnalyzeImage_Success(t *testing.T) {
	env := newTestEnv(t)
	history := &fakeHistory{}
	env.handlers.History = history

	rec := env.do(fileRequest(t, "/api/analyze-image", "image", "wrist.png", "image/png", pngBytes))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "ok", decode(t, rec)["response"])

	calls := env.gateway.calls()
	require.Len(t, calls, 1)
	img, _ := env.handlers.Prompts.Template(prompt.KindImage)
	assert.Equal(t, img, calls[0].prompt)
	require.Len(t, calls[0].files, 1)
	assert.Equal(t, "image/png", calls[0].files[0].MIMEType)
	assert.Equal(t, "wrist.png", calls[0].files[0].DisplayName)
	assert.Equal(t, pngBytes, env.gateway.uploads[calls[0].files[0].Name])

	assert.Empty(t, env.stagedFiles(t), "staged upload must be removed")

	require.Len(t, history.records, 1)
	assert.Equal(t, models.StatusCompleted, history.records[0].Status)
	assert.Equal(t, "image-analysis", history.records[0].Kind)
	assert.Equal(t, 42, history.records[0].TokensUsed)
}

func TestAnalyzeFile_BackslashFilenameIsStillCleanedUp(t *testing.T) {
	for _, name := range []string{`scan.png\x`, `..\..\scan.png`, `scan\.png`} {
		env := newTestEnv(t)

		rec := env.do(fileRequest(t, "/api/analyze-image", "image", name, "image/png", pngBytes))
		require.Equal(t, http.StatusOK, rec.Code, "filename %q: %s", name, rec.Body.String())
		require.Len(t, env.gateway.calls(), 1)
		assert.Empty(t, env.stagedFiles(t), "filename %q left a staged file", name)
	}
}

func TestAnalyzeReport_Success(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(fileRequest(t, "/api/analyze-report", "report", "cbc.pdf", "application/pdf", []byte("%PDF-1.4 hemoglobin 13.2")))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	calls := env.gateway.calls()
	require.Len(t, calls, 1)
	rep, _ := env.handlers.Prompts.Template(prompt.KindReport)
	assert.Equal(t, rep, calls[0].prompt)
	assert.Empty(t, env.stagedFiles(t))
}

func TestAnalyzeFile_GatewayFailureStillCleansUp(t *testing.T) {
	for _, tc := range []struct {
		name      string
		uploadErr error
		genErr    error
	}{
		{"upload fails", errors.New("invalid input"), nil},
		{"generate fails", nil, errors.New("quota exceeded")},
	} {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t)
			history := &fakeHistory{}
			env.handlers.History = history
			env.gateway.uploadErr = tc.uploadErr
			env.gateway.generateErr = tc.genErr

			rec := env.do(fileRequest(t, "/api/analyze-report", "report", "lipids.txt", "text/plain", []byte("LDL 160")))
			assert.Equal(t, StatusFileAnalysisFailed, rec.Code)
			assert.NotEmpty(t, decode(t, rec)["err"])
			assert.Empty(t, env.stagedFiles(t))

			require.Len(t, history.records, 1)
			assert.Equal(t, models.StatusFailed, history.records[0].Status)
		})
	}
}

func TestAnalyzeFile_UnsupportedType(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(fileRequest(t, "/api/analyze-image", "image", "virus.exe", "application/x-msdownload", []byte("MZ")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["err"], "unsupported content type")
	assert.Empty(t, env.gateway.calls())
	assert.Empty(t, env.stagedFiles(t))
}

func TestAnalyzeFile_ConcurrentRequestsKeepFilesApart(t *testing.T) {
	env := newTestEnv(t)
	env.gateway.reply = func(_ string, files []gateway.FileRef) string {
		return files[0].DisplayName
	}

	const n = 20
	var wg sync.WaitGroup
	results := make([]string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			path, field := "/api/analyze-image", "image"
			if i%2 == 1 {
				path, field = "/api/analyze-report", "report"
			}
			name := fmt.Sprintf("file-%02d.txt", i)
			rec := env.do(fileRequest(t, path, field, name, "text/plain", []byte(name)))
			if rec.Code == http.StatusOK {
				var out map[string]string
				_ = json.Unmarshal(rec.Body.Bytes(), &out)
				results[i] = out["response"]
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		assert.Equal(t, fmt.Sprintf("file-%02d.txt", i), results[i])
	}

	env.gateway.mu.Lock()
	defer env.gateway.mu.Unlock()
	for _, call := range env.gateway.generates {
		ref := call.files[0]
		assert.Equal(t, ref.DisplayName, string(env.gateway.uploads[ref.Name]))
	}
	assert.Empty(t, env.stagedFiles(t))
}

func TestGetHistory(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/history", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	history := &fakeHistory{}
	env.handlers.History = history
	env.do(textRequest(`{"prompt":"hi"}`))

	rec = env.do(httptest.NewRequest(http.MethodGet, "/api/history?limit=5", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var got []models.Analysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "text-chat", got[0].Kind)
	assert.Equal(t, "fake", got[0].Provider)

	rec = env.do(httptest.NewRequest(http.MethodGet, "/api/history?limit=lots", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthAndReady(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(httptest.NewRequest(http.MethodGet, "/ready", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var status HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, StatusHealthy, status.Status)
	assert.Equal(t, StatusHealthy, status.Checks["gateway"].Status)
}
