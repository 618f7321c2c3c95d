// Package openai implements the chat and embeddings ports against the
// OpenAI API (or any OpenAI-compatible gateway).
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	backoff "github.com/cenkalti/backoff/v4"

	"log/slog"

	"github.com/smarthire/ai-interviewer/internal/adapter/ai/tokencount"
	"github.com/smarthire/ai-interviewer/internal/adapter/observability"
	"github.com/smarthire/ai-interviewer/internal/config"
	"github.com/smarthire/ai-interviewer/internal/domain"
)

// Client implements domain.ChatModel and domain.Embedder.
type Client struct {
	cfg     config.Config
	chatHC  *http.Client
	embedHC *http.Client
	tokens  *tokencount.Counter
}

// New constructs a client with sensible timeouts.
func New(cfg config.Config) *Client {
	return &Client{
		cfg:     cfg,
		chatHC:  &http.Client{Timeout: 60 * time.Second},
		embedHC: &http.Client{Timeout: 30 * time.Second},
		tokens:  tokencount.NewCounter(),
	}
}

// getBackoffConfig returns a configured ExponentialBackOff based on the
// current environment.
func (c *Client) getBackoffConfig() *backoff.ExponentialBackOff {
	expo := backoff.NewExponentialBackOff()

	maxElapsedTime, initialInterval, maxInterval, multiplier := c.cfg.GetAIBackoffConfig()
	expo.MaxElapsedTime = maxElapsedTime
	expo.InitialInterval = initialInterval
	expo.MaxInterval = maxInterval
	expo.Multiplier = multiplier

	return expo
}

// Generate calls the chat completions endpoint with the full message
// log and returns the assistant reply. The log is trimmed to the
// configured context budget before sending: the system message always
// survives, the oldest turns after it are dropped first.
func (c *Client) Generate(ctx domain.Context, messages []domain.Message) (string, error) {
	if c.cfg.OpenAIAPIKey == "" || c.cfg.ChatModel == "" {
		slog.Error("OpenAI API key or chat model missing", slog.String("provider", "openai"), slog.Bool("has_api_key", c.cfg.OpenAIAPIKey != ""), slog.String("model", c.cfg.ChatModel))
		return "", fmt.Errorf("%w: OPENAI_API_KEY or CHAT_MODEL missing", domain.ErrInvalidArgument)
	}

	trimmed := c.trimToBudget(messages)
	wire := make([]map[string]string, 0, len(trimmed))
	for _, m := range trimmed {
		wire = append(wire, map[string]string{"role": string(m.Role), "content": m.Content})
	}
	body := map[string]any{
		"model":       c.cfg.ChatModel,
		"temperature": c.cfg.ChatTemperature,
		"max_tokens":  c.cfg.ChatMaxTokens,
		"messages":    wire,
	}
	b, _ := json.Marshal(body)

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	op := func() error {
		start := time.Now()
		// Recreate request each attempt to avoid reusing consumed bodies.
		r, _ := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.OpenAIBaseURL+"/chat/completions", bytes.NewReader(b))
		r.Header.Set("Authorization", "Bearer "+c.cfg.OpenAIAPIKey)
		r.Header.Set("Content-Type", "application/json")
		resp, err := c.chatHC.Do(r)
		observability.AIRequestsTotal.WithLabelValues("openai", "chat").Inc()
		observability.AIRequestDuration.WithLabelValues("openai", "chat").Observe(time.Since(start).Seconds())
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()

		bodyBytes, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if resp.StatusCode == http.StatusTooManyRequests {
			// Retryable: let backoff handle retries.
			slog.Warn("ai provider rate limited", slog.String("provider", "openai"), slog.String("op", "chat"), slog.Int("status", resp.StatusCode), slog.String("x_request_id", resp.Header.Get("X-Request-Id")))
			return fmt.Errorf("%w: chat status 429", domain.ErrUpstreamRateLimit)
		}
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			// Client error: non-retryable.
			slog.Warn("ai provider 4xx", slog.String("provider", "openai"), slog.String("op", "chat"), slog.Int("status", resp.StatusCode), slog.String("model", c.cfg.ChatModel), slog.String("body", snippet(bodyBytes)))
			return backoff.Permanent(fmt.Errorf("chat status %d", resp.StatusCode))
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			// 5xx and others: retryable.
			slog.Error("ai provider non-2xx", slog.String("provider", "openai"), slog.String("op", "chat"), slog.Int("status", resp.StatusCode), slog.String("model", c.cfg.ChatModel), slog.String("body", snippet(bodyBytes)))
			return fmt.Errorf("chat status %d", resp.StatusCode)
		}
		if err := json.Unmarshal(bodyBytes, &out); err != nil {
			slog.Error("ai provider decode error", slog.String("provider", "openai"), slog.String("op", "chat"), slog.Any("error", err))
			return err
		}
		return nil
	}
	expo := c.getBackoffConfig()
	bo := backoff.WithContext(expo, ctx)

	if err := backoff.Retry(op, bo); err != nil {
		slog.Error("OpenAI chat failed after retries", slog.String("provider", "openai"), slog.Any("error", err))
		return "", classify("chat", err)
	}

	if len(out.Choices) == 0 {
		return "", fmt.Errorf("op=openai.chat: empty choices")
	}
	return out.Choices[0].Message.Content, nil
}

// Embed calls the embeddings endpoint and returns one vector per input.
func (c *Client) Embed(ctx domain.Context, texts []string) ([][]float32, error) {
	if c.cfg.OpenAIAPIKey == "" || c.cfg.EmbeddingsModel == "" {
		slog.Error("OpenAI API key or embeddings model missing", slog.String("provider", "openai"), slog.Bool("has_api_key", c.cfg.OpenAIAPIKey != ""), slog.String("model", c.cfg.EmbeddingsModel))
		return nil, fmt.Errorf("%w: OPENAI_API_KEY or EMBEDDINGS_MODEL missing", domain.ErrInvalidArgument)
	}
	body := map[string]any{
		"model": c.cfg.EmbeddingsModel,
		"input": texts,
	}
	b, _ := json.Marshal(body)
	var out struct {
		Data []struct {
			Embedding []float64 `json:"embedding"`
		} `json:"data"`
	}
	op := func() error {
		start := time.Now()
		r, _ := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.OpenAIBaseURL+"/embeddings", bytes.NewReader(b))
		r.Header.Set("Authorization", "Bearer "+c.cfg.OpenAIAPIKey)
		r.Header.Set("Content-Type", "application/json")
		resp, err := c.embedHC.Do(r)
		observability.AIRequestsTotal.WithLabelValues("openai", "embed").Inc()
		observability.AIRequestDuration.WithLabelValues("openai", "embed").Observe(time.Since(start).Seconds())
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()

		bodyBytes, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if resp.StatusCode == http.StatusTooManyRequests {
			slog.Warn("ai provider rate limited", slog.String("provider", "openai"), slog.String("op", "embed"), slog.Int("status", resp.StatusCode), slog.String("x_request_id", resp.Header.Get("X-Request-Id")))
			return fmt.Errorf("%w: embed status 429", domain.ErrUpstreamRateLimit)
		}
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			slog.Warn("ai provider 4xx", slog.String("provider", "openai"), slog.String("op", "embed"), slog.Int("status", resp.StatusCode), slog.String("model", c.cfg.EmbeddingsModel), slog.String("body", snippet(bodyBytes)))
			return backoff.Permanent(fmt.Errorf("embed status %d", resp.StatusCode))
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			slog.Error("ai provider non-2xx", slog.String("provider", "openai"), slog.String("op", "embed"), slog.Int("status", resp.StatusCode), slog.String("model", c.cfg.EmbeddingsModel), slog.String("body", snippet(bodyBytes)))
			return fmt.Errorf("embed status %d", resp.StatusCode)
		}
		if err := json.Unmarshal(bodyBytes, &out); err != nil {
			slog.Error("ai provider decode error", slog.String("provider", "openai"), slog.String("op", "embed"), slog.Any("error", err))
			return err
		}
		return nil
	}
	expo := c.getBackoffConfig()
	bo := backoff.WithContext(expo, ctx)

	if err := backoff.Retry(op, bo); err != nil {
		slog.Error("OpenAI embed failed after retries", slog.String("provider", "openai"), slog.Any("error", err))
		return nil, classify("embed", err)
	}

	if len(out.Data) != len(texts) {
		return nil, fmt.Errorf("op=openai.embed: got %d vectors for %d inputs", len(out.Data), len(texts))
	}
	res := make([][]float32, len(out.Data))
	for i := range out.Data {
		v := make([]float32, len(out.Data[i].Embedding))
		for j := range out.Data[i].Embedding {
			v[j] = float32(out.Data[i].Embedding[j])
		}
		res[i] = v
	}
	return res, nil
}

// trimToBudget drops the oldest non-system turns until the log fits the
// configured token budget. Trimming never touches the system message at
// index 0 and never drops the latest user turn.
func (c *Client) trimToBudget(messages []domain.Message) []domain.Message {
	budget := c.cfg.ChatContextTokens
	if budget <= 0 || len(messages) <= 2 {
		return messages
	}
	n, err := c.tokens.CountMessageTokens(messages, c.cfg.ChatModel)
	if err != nil {
		slog.Warn("token counting failed, sending full log", slog.Any("error", err))
		return messages
	}
	if n <= budget {
		return messages
	}

	trimmed := append([]domain.Message(nil), messages...)
	for len(trimmed) > 2 && n > budget {
		// Remove the message right after the system prompt.
		trimmed = append(trimmed[:1], trimmed[2:]...)
		n, err = c.tokens.CountMessageTokens(trimmed, c.cfg.ChatModel)
		if err != nil {
			return trimmed
		}
	}
	slog.Debug("trimmed chat context",
		slog.Int("kept_messages", len(trimmed)),
		slog.Int("dropped_messages", len(messages)-len(trimmed)),
		slog.Int("tokens", n))
	return trimmed
}

// classify maps retry-exhausted transport errors onto the domain
// sentinels the HTTP layer translates to status codes.
func classify(op string, err error) error {
	switch {
	case errors.Is(err, domain.ErrUpstreamRateLimit):
		return fmt.Errorf("op=openai.%s: %w", op, err)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("op=openai.%s: %w: %v", op, domain.ErrUpstreamTimeout, err)
	default:
		var ne interface{ Timeout() bool }
		if errors.As(err, &ne) && ne.Timeout() {
			return fmt.Errorf("op=openai.%s: %w: %v", op, domain.ErrUpstreamTimeout, err)
		}
		return fmt.Errorf("op=openai.%s: %w", op, err)
	}
}

func snippet(b []byte) string {
	if len(b) > 512 {
		b = b[:512]
	}
	return string(b)
}
