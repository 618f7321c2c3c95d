// Package languagetool implements grammar checking against the
// LanguageTool HTTP API.
package languagetool

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"log/slog"

	"github.com/smarthire/ai-interviewer/internal/adapter/observability"
	"github.com/smarthire/ai-interviewer/internal/config"
	"github.com/smarthire/ai-interviewer/internal/domain"
)

// Client implements domain.GrammarChecker.
type Client struct {
	cfg config.Config
	hc  *http.Client
}

// New constructs a LanguageTool client.
func New(cfg config.Config) *Client {
	return &Client{cfg: cfg, hc: &http.Client{Timeout: 15 * time.Second}}
}

// Check submits text to /v2/check and returns the number of reported
// issues. The scoring formula only needs the issue count, so matches
// are not inspected beyond their cardinality.
func (c *Client) Check(ctx domain.Context, text string) (int, error) {
	if strings.TrimSpace(text) == "" {
		return 0, nil
	}
	form := url.Values{}
	form.Set("text", text)
	form.Set("language", c.cfg.GrammarLanguage)

	start := time.Now()
	r, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.LanguageToolURL+"/v2/check", strings.NewReader(form.Encode()))
	if err != nil {
		return 0, fmt.Errorf("op=languagetool.check: %w", err)
	}
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := c.hc.Do(r)
	observability.AIRequestsTotal.WithLabelValues("languagetool", "check").Inc()
	observability.AIRequestDuration.WithLabelValues("languagetool", "check").Observe(time.Since(start).Seconds())
	if err != nil {
		return 0, fmt.Errorf("op=languagetool.check: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusTooManyRequests {
		slog.Warn("languagetool rate limited", slog.Int("status", resp.StatusCode))
		return 0, fmt.Errorf("op=languagetool.check: %w: status 429", domain.ErrUpstreamRateLimit)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		slog.Error("languagetool non-2xx", slog.Int("status", resp.StatusCode), slog.String("body", string(body)))
		return 0, fmt.Errorf("op=languagetool.check: status %d", resp.StatusCode)
	}

	var out struct {
		Matches []json.RawMessage `json:"matches"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("op=languagetool.check: decode: %w", err)
	}
	return len(out.Matches), nil
}
