package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aibuddy/aibuddy-api/internal/core/domain"
	"github.com/aibuddy/aibuddy-api/internal/core/ports"
)

const (
	DefaultEndpoint    = "https://models.inference.ai.azure.com/chat/completions"
	DefaultModel       = "gpt-4o"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 400
	DefaultTimeout     = 60 * time.Second

	maxErrorBody    = 64 << 10
	maxResponseBody = 4 << 20
)

// Config describes the chat-completion endpoint. Zero values fall back to the
// defaults above; a nil Temperature means DefaultTemperature.
type Config struct {
	Endpoint    string
	Model       string
	APIToken    string
	Temperature *float64
	MaxTokens   int
	Timeout     time.Duration
}

// Gateway is an OpenAI-compatible chat-completion client.
type Gateway struct {
	cfg         Config
	temperature float64
	httpClient  *http.Client
}

var _ ports.CompletionGateway = (*Gateway)(nil)

// Option configures the gateway.
type Option func(*Gateway)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(g *Gateway) { g.httpClient = c }
}

func New(cfg Config, opts ...Option) *Gateway {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	g := &Gateway{
		cfg:         cfg,
		temperature: DefaultTemperature,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
	}
	if cfg.Temperature != nil {
		g.temperature = *cfg.Temperature
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type apiRequest struct {
	Model       string       `json:"model"`
	Messages    []apiMessage `json:"messages"`
	Temperature float64      `json:"temperature"`
	MaxTokens   int          `json:"max_tokens"`
	Stream      bool         `json:"stream"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type apiResponse struct {
	Choices []struct {
		Message *struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends one non-streaming completion request. It never retries.
func (g *Gateway) Complete(ctx context.Context, req ports.CompletionRequest) (string, error) {
	body, err := json.Marshal(apiRequest{
		Model:       g.cfg.Model,
		Messages:    []apiMessage{{Role: "user", Content: BuildInstruction(req.Prompt, req.Document)}},
		Temperature: g.temperature,
		MaxTokens:   g.cfg.MaxTokens,
		Stream:      false,
	})
	if err != nil {
		return "", fmt.Errorf("llm: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("llm: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.cfg.APIToken)

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return "", &domain.TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return "", &domain.TransportError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", upstreamError(resp.StatusCode, raw)
	}

	var out apiResponse
	if err := json.Unmarshal(raw, &out); err != nil || len(out.Choices) == 0 {
		return "", upstreamError(resp.StatusCode, raw)
	}
	msg := out.Choices[0].Message
	if msg == nil || msg.Content == nil {
		return "", upstreamError(resp.StatusCode, raw)
	}

	return strings.TrimSpace(*msg.Content), nil
}

func upstreamError(status int, body []byte) error {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return &domain.UpstreamError{StatusCode: status, Body: string(body)}
}
