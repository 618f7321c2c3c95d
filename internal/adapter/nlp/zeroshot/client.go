// Package zeroshot implements tone classification against the Hugging
// Face inference API using a zero-shot NLI model.
package zeroshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	backoff "github.com/cenkalti/backoff/v4"

	"log/slog"

	"github.com/smarthire/ai-interviewer/internal/adapter/observability"
	"github.com/smarthire/ai-interviewer/internal/config"
	"github.com/smarthire/ai-interviewer/internal/domain"
)

// Client implements domain.ToneClassifier.
type Client struct {
	cfg config.Config
	hc  *http.Client
}

// New constructs a zero-shot classification client.
func New(cfg config.Config) *Client {
	return &Client{cfg: cfg, hc: &http.Client{Timeout: 30 * time.Second}}
}

// Classify runs zero-shot classification of text over candidate labels
// and returns them ranked by score, best first. The inference API
// returns parallel labels and scores arrays already sorted.
func (c *Client) Classify(ctx domain.Context, text string, labels []string) ([]domain.LabelScore, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("%w: no candidate labels", domain.ErrInvalidArgument)
	}
	body := map[string]any{
		"inputs": text,
		"parameters": map[string]any{
			"candidate_labels": labels,
		},
	}
	b, _ := json.Marshal(body)

	var out struct {
		Labels []string  `json:"labels"`
		Scores []float64 `json:"scores"`
	}
	url := c.cfg.HFBaseURL + "/models/" + c.cfg.ZeroShotModel
	op := func() error {
		start := time.Now()
		r, _ := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
		if c.cfg.HFAPIKey != "" {
			r.Header.Set("Authorization", "Bearer "+c.cfg.HFAPIKey)
		}
		r.Header.Set("Content-Type", "application/json")
		resp, err := c.hc.Do(r)
		observability.AIRequestsTotal.WithLabelValues("huggingface", "zeroshot").Inc()
		observability.AIRequestDuration.WithLabelValues("huggingface", "zeroshot").Observe(time.Since(start).Seconds())
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()

		bodyBytes, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			slog.Warn("zero-shot provider rate limited", slog.String("provider", "huggingface"), slog.Int("status", resp.StatusCode))
			return fmt.Errorf("%w: zeroshot status 429", domain.ErrUpstreamRateLimit)
		case resp.StatusCode == http.StatusServiceUnavailable:
			// The inference API answers 503 while a cold model loads.
			slog.Warn("zero-shot model loading", slog.String("model", c.cfg.ZeroShotModel), slog.Int("status", resp.StatusCode))
			return fmt.Errorf("zeroshot status %d", resp.StatusCode)
		case resp.StatusCode >= 400 && resp.StatusCode < 500:
			slog.Warn("zero-shot provider 4xx", slog.String("provider", "huggingface"), slog.Int("status", resp.StatusCode), slog.String("model", c.cfg.ZeroShotModel))
			return backoff.Permanent(fmt.Errorf("zeroshot status %d", resp.StatusCode))
		case resp.StatusCode < 200 || resp.StatusCode >= 300:
			slog.Error("zero-shot provider non-2xx", slog.String("provider", "huggingface"), slog.Int("status", resp.StatusCode), slog.String("model", c.cfg.ZeroShotModel))
			return fmt.Errorf("zeroshot status %d", resp.StatusCode)
		}
		if err := json.Unmarshal(bodyBytes, &out); err != nil {
			slog.Error("zero-shot decode error", slog.String("provider", "huggingface"), slog.Any("error", err))
			return err
		}
		return nil
	}
	expo := backoff.NewExponentialBackOff()
	maxElapsedTime, initialInterval, maxInterval, multiplier := c.cfg.GetAIBackoffConfig()
	expo.MaxElapsedTime = maxElapsedTime
	expo.InitialInterval = initialInterval
	expo.MaxInterval = maxInterval
	expo.Multiplier = multiplier
	if err := backoff.Retry(op, backoff.WithContext(expo, ctx)); err != nil {
		return nil, fmt.Errorf("op=zeroshot.classify: %w", err)
	}

	if len(out.Labels) == 0 || len(out.Labels) != len(out.Scores) {
		return nil, fmt.Errorf("op=zeroshot.classify: malformed response: %d labels, %d scores", len(out.Labels), len(out.Scores))
	}
	ranked := make([]domain.LabelScore, len(out.Labels))
	for i := range out.Labels {
		ranked[i] = domain.LabelScore{Label: out.Labels[i], Score: out.Scores[i]}
	}
	return ranked, nil
}
