package zeroshot_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smarthire/ai-interviewer/internal/adapter/nlp/zeroshot"
	"github.com/smarthire/ai-interviewer/internal/config"
	"github.com/smarthire/ai-interviewer/internal/domain"
)

func testConfig(baseURL string) config.Config {
	return config.Config{
		AppEnv:        "test",
		HFAPIKey:      "hf-key",
		HFBaseURL:     baseURL,
		ZeroShotModel: "facebook/bart-large-mnli",
	}
}

func TestClassify_RankedLabels(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/models/facebook/bart-large-mnli", r.URL.Path)
		require.Equal(t, "Bearer hf-key", r.Header.Get("Authorization"))

		var req struct {
			Inputs     string `json:"inputs"`
			Parameters struct {
				CandidateLabels []string `json:"candidate_labels"`
			} `json:"parameters"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"confident", "uncertain"}, req.Parameters.CandidateLabels)

		_, _ = w.Write([]byte(`{"labels":["confident","uncertain"],"scores":[0.91,0.09]}`))
	}))
	defer srv.Close()

	c := zeroshot.New(testConfig(srv.URL))
	ranked, err := c.Classify(context.Background(), "I shipped this feature end to end.", []string{"confident", "uncertain"})
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, domain.LabelScore{Label: "confident", Score: 0.91}, ranked[0])
}

func TestClassify_RetriesWhileModelLoads(t *testing.T) {
	t.Parallel()
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt64(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":"Model is currently loading"}`))
			return
		}
		_, _ = w.Write([]byte(`{"labels":["clear"],"scores":[0.8]}`))
	}))
	defer srv.Close()

	c := zeroshot.New(testConfig(srv.URL))
	ranked, err := c.Classify(context.Background(), "text", []string{"clear"})
	require.NoError(t, err)
	assert.Equal(t, "clear", ranked[0].Label)
	assert.Equal(t, int64(2), atomic.LoadInt64(&calls))
}

func TestClassify_MalformedResponse(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"labels":["a","b"],"scores":[0.5]}`))
	}))
	defer srv.Close()

	c := zeroshot.New(testConfig(srv.URL))
	_, err := c.Classify(context.Background(), "text", []string{"a", "b"})
	require.Error(t, err)
}

func TestClassify_NoLabels(t *testing.T) {
	t.Parallel()
	c := zeroshot.New(testConfig("http://unused"))
	_, err := c.Classify(context.Background(), "text", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}
