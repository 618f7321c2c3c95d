package openai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smarthire/ai-interviewer/internal/adapter/ai/openai"
	"github.com/smarthire/ai-interviewer/internal/config"
	"github.com/smarthire/ai-interviewer/internal/domain"
)

func testConfig(baseURL string) config.Config {
	return config.Config{
		AppEnv:            "test",
		OpenAIAPIKey:      "test-key",
		OpenAIBaseURL:     baseURL,
		ChatModel:         "gpt-4.1-nano",
		ChatTemperature:   0.7,
		ChatMaxTokens:     512,
		ChatContextTokens: 8000,
		EmbeddingsModel:   "text-embedding-3-small",
	}
}

type chatRequest struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func TestGenerate_Success(t *testing.T) {
	t.Parallel()
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"Tell me about closures."}}]}`))
	}))
	defer srv.Close()

	c := openai.New(testConfig(srv.URL))
	reply, err := c.Generate(context.Background(), []domain.Message{
		{Role: domain.RoleSystem, Content: "You are an interviewer."},
		{Role: domain.RoleUser, Content: "Hi, I am a frontend developer."},
	})
	require.NoError(t, err)
	assert.Equal(t, "Tell me about closures.", reply)
	assert.Equal(t, "gpt-4.1-nano", got.Model)
	assert.Equal(t, 512, got.MaxTokens)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
}

func TestGenerate_RetriesOn429(t *testing.T) {
	t.Parallel()
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt64(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer srv.Close()

	c := openai.New(testConfig(srv.URL))
	reply, err := c.Generate(context.Background(), []domain.Message{
		{Role: domain.RoleSystem, Content: "sys"},
		{Role: domain.RoleUser, Content: "hi"},
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", reply)
	assert.Equal(t, int64(2), atomic.LoadInt64(&calls))
}

func TestGenerate_4xxIsPermanent(t *testing.T) {
	t.Parallel()
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt64(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := openai.New(testConfig(srv.URL))
	_, err := c.Generate(context.Background(), []domain.Message{
		{Role: domain.RoleSystem, Content: "sys"},
		{Role: domain.RoleUser, Content: "hi"},
	})
	require.Error(t, err)
	assert.Equal(t, int64(1), atomic.LoadInt64(&calls))
}

func TestGenerate_MissingKey(t *testing.T) {
	t.Parallel()
	cfg := testConfig("http://unused")
	cfg.OpenAIAPIKey = ""
	c := openai.New(cfg)
	_, err := c.Generate(context.Background(), []domain.Message{{Role: domain.RoleUser, Content: "hi"}})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestGenerate_TrimsOldTurnsKeepsSystem(t *testing.T) {
	t.Parallel()
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.ChatContextTokens = 60
	c := openai.New(cfg)

	_, err := c.Generate(context.Background(), []domain.Message{
		{Role: domain.RoleSystem, Content: "You are an interviewer."},
		{Role: domain.RoleAssistant, Content: "This is a very old assistant turn with plenty of words that should be dropped first from the context window."},
		{Role: domain.RoleUser, Content: "An equally old user answer with many filler words that push the log well over the configured token budget."},
		{Role: domain.RoleUser, Content: "latest answer"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, got.Messages)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Less(t, len(got.Messages), 4)
	assert.Equal(t, "latest answer", got.Messages[len(got.Messages)-1].Content)
}

func TestEmbed_Success(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/embeddings", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":[{"embedding":[0.1,0.2]},{"embedding":[0.3,0.4]}]}`))
	}))
	defer srv.Close()

	c := openai.New(testConfig(srv.URL))
	vecs, err := c.Embed(context.Background(), []string{"question", "answer"})
	require.NoError(t, err)
	require.Len(t, vecs, 2)
	assert.InDelta(t, 0.1, vecs[0][0], 1e-6)
	assert.InDelta(t, 0.4, vecs[1][1], 1e-6)
}

func TestEmbed_VectorCountMismatch(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"embedding":[0.1]}]}`))
	}))
	defer srv.Close()

	c := openai.New(testConfig(srv.URL))
	_, err := c.Embed(context.Background(), []string{"q", "a"})
	require.Error(t, err)
}
