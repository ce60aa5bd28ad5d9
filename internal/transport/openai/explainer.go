// Package openai implements the explanation provider on top of the
// OpenAI-compatible chat completions API.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/scentlab/fragrec/internal/domain"
	"github.com/scentlab/fragrec/internal/metrics"
)

const (
	defaultModel   = "gpt-4o-mini"
	defaultTimeout = 30 * time.Second

	systemPrompt = "You are a concise expert on fragrances."
)

// Explainer generates short per-candidate justifications via chat
// completions with a strict JSON response contract.
type Explainer struct {
	client  *openai.Client
	apiKey  string
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

// Config holds the explanation provider settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
	Logger  *zap.Logger
}

// NewExplainer creates an OpenAI-compatible explanation provider.
func NewExplainer(cfg *Config) *Explainer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Explainer{
		client:  openai.NewClientWithConfig(clientCfg),
		apiKey:  cfg.APIKey,
		model:   model,
		timeout: timeout,
		logger:  logger,
	}
}

// IsAvailable implements domain.Explainer.
func (e *Explainer) IsAvailable() bool { return e.apiKey != "" }

// Explain implements domain.Explainer. Returns exactly one string per
// candidate, in order; entries the model skipped come back empty. The
// call is bounded by the configured timeout and holds no shared state
// while waiting.
func (e *Explainer) Explain(
	ctx context.Context, ec domain.ExplainContext, candidates []domain.Candidate,
) ([]string, error) {
	if !e.IsAvailable() {
		return nil, domain.ErrExplainerUnavailable
	}
	if len(candidates) == 0 {
		return []string{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(ec, candidates)},
		},
		Temperature:    0.4,
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	}

	start := time.Now()
	resp, err := e.client.CreateChatCompletion(ctx, req)
	metrics.ExplainRequestDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		return nil, parseAPIError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty completion: %w", domain.ErrExplainerBadResponse)
	}

	texts, err := parseBullets(resp.Choices[0].Message.Content, len(candidates))
	if err != nil {
		return nil, err
	}
	return texts, nil
}

// buildPrompt renders the consultant prompt. The model sees only the
// already-ranked candidate summaries, never raw catalog rows.
func buildPrompt(ec domain.ExplainContext, candidates []domain.Candidate) string {
	orDash := func(vals []string) string {
		if len(vals) == 0 {
			return "—"
		}
		return strings.Join(vals, ", ")
	}
	budget := ec.Budget
	if budget == "" {
		budget = "unspecified"
	}

	var b strings.Builder
	b.WriteString("You are a professional fragrance consultant.\n")
	b.WriteString("For EACH candidate, write 2 short bullet points (<= 18 words each).\n")
	b.WriteString("Be specific and grounded in given accords & price range. " +
		"Mention use-case fit (office/date/summer/winter) and budget fit if relevant.\n")
	b.WriteString("You MAY compare to the user's liked perfumes, but do not invent new notes or prices.\n\n")
	fmt.Fprintf(&b, "User liked: %s\n", orDash(ec.Liked))
	fmt.Fprintf(&b, "Use-cases: %s\n", orDash(ec.UseCases))
	fmt.Fprintf(&b, "Preferred notes: %s\n", orDash(ec.PreferredNotes))
	fmt.Fprintf(&b, "Budget: %s\n\n", budget)
	b.WriteString("Candidates (use ONLY this data):\n")
	for i, c := range candidates {
		fmt.Fprintf(&b, "%d. %s %s | accords: %s | price_range: %.0f–%.0f PLN\n",
			i+1, c.Brand, c.Name, strings.Join(c.Accords, ", "), c.PriceRange[0], c.PriceRange[1])
	}
	b.WriteString("\nReturn strict JSON exactly as: " +
		`{"list":[{"bullets":["...","..."]}, ...]} (same order as candidates).`)
	return b.String()
}

// parseBullets decodes the strict-JSON reply and renders at most two
// bullets per candidate. Entries the model omitted or malformed become
// empty strings so the output always aligns with the input slice.
func parseBullets(raw string, n int) ([]string, error) {
	var parsed struct {
		List []struct {
			Bullets []string `json:"bullets"`
		} `json:"list"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("decode completion: %w", domain.ErrExplainerBadResponse)
	}
	if parsed.List == nil {
		return nil, fmt.Errorf("missing list field: %w", domain.ErrExplainerBadResponse)
	}

	out := make([]string, n)
	for i := 0; i < n && i < len(parsed.List); i++ {
		var lines []string
		for _, bullet := range parsed.List[i].Bullets {
			if b := strings.TrimSpace(bullet); b != "" {
				lines = append(lines, "• "+b)
			}
			if len(lines) == 2 {
				break
			}
		}
		out[i] = strings.Join(lines, "\n")
	}
	return out, nil
}

// parseAPIError extracts a human-readable error from the API response.
// Everything is wrapped with domain.ErrExplainerUnavailable so callers
// can degrade uniformly.
func parseAPIError(err error) error {
	wrap := domain.ErrExplainerUnavailable

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("completion API error %d: %s: %w",
			reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("completion API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("completion request failed: %v: %w", err, wrap)
}
