package app_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpserver "github.com/smarthire/ai-interviewer/internal/adapter/httpserver"
	"github.com/smarthire/ai-interviewer/internal/adapter/repo/memstore"
	"github.com/smarthire/ai-interviewer/internal/app"
	"github.com/smarthire/ai-interviewer/internal/config"
	"github.com/smarthire/ai-interviewer/internal/domain"
	"github.com/smarthire/ai-interviewer/internal/usecase"
)

type routerChat struct{}

func (routerChat) Generate(domain.Context, []domain.Message) (string, error) {
	return "Tell me more.", nil
}

type routerEmbedder struct{}

func (routerEmbedder) Embed(_ domain.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1}
	}
	return out, nil
}

type routerGrammar struct{}

func (routerGrammar) Check(domain.Context, string) (int, error) { return 0, nil }

type routerTone struct{}

func (routerTone) Classify(_ domain.Context, _ string, labels []string) ([]domain.LabelScore, error) {
	out := make([]domain.LabelScore, 0, len(labels))
	for i, l := range labels {
		out = append(out, domain.LabelScore{Label: l, Score: 0.5 - 0.01*float64(i)})
	}
	return out, nil
}

type routerExtractor struct{}

func (routerExtractor) Extract(domain.Context, string) ([]domain.Entity, []string, error) {
	return nil, nil, nil
}

type routerTranscripts struct{}

func (routerTranscripts) Persist(domain.Context, string, []domain.Message) error { return nil }

func newRouter(ready app.Readiness) http.Handler {
	svc := usecase.NewSessionService(
		memstore.New(),
		routerTranscripts{},
		routerChat{},
		usecase.NewAnalyzer(routerEmbedder{}, routerGrammar{}, routerTone{}, routerExtractor{}),
		usecase.NewPromptBuilder(usecase.DefaultCatalog()),
	)
	cfg := config.Config{CORSAllowOrigins: "*", RateLimitPerMin: 100, MaxAnswerChars: 4000}
	return app.BuildRouter(cfg, httpserver.NewServer(cfg, svc), ready)
}

func TestRouter_Healthz(t *testing.T) {
	t.Parallel()
	h := newRouter(app.Readiness{})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestRouter_Readyz(t *testing.T) {
	t.Parallel()
	h := newRouter(app.Readiness{})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	failing := newRouter(app.Readiness{DB: func(context.Context) error { return errors.New("down") }})
	rec = httptest.NewRecorder()
	failing.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "db")
}

func TestRouter_InterviewFlow(t *testing.T) {
	t.Parallel()
	h := newRouter(app.Readiness{})

	start := httptest.NewRequest(http.MethodPost, "/v1/interviews", strings.NewReader(`{"session_id":"s1","job_role":"Frontend Developer","level":"Junior"}`))
	start.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, start)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	answer := httptest.NewRequest(http.MethodPost, "/v1/interviews/s1/answers", strings.NewReader(`{"answer":"I build React apps with hooks and context."}`))
	answer.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, answer)
	require.Equal(t, http.StatusOK, rec.Code)

	get := httptest.NewRequest(http.MethodGet, "/v1/interviews/s1", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, get)
	require.Equal(t, http.StatusOK, rec.Code)

	del := httptest.NewRequest(http.MethodDelete, "/v1/interviews/s1", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, del)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	t.Parallel()
	h := newRouter(app.Readiness{})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestParseOrigins(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"*"}, app.ParseOrigins(""))
	assert.Equal(t, []string{"*"}, app.ParseOrigins("*"))
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, app.ParseOrigins("https://a.example, https://b.example"))
	assert.Equal(t, []string{"*"}, app.ParseOrigins(" , "))
}
