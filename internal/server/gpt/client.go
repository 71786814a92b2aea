// Package gpt is the client for the GPT-compatible chat-completion endpoint
// that produces the counselor replies. It is the only component that performs
// outbound network I/O.
package gpt

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/doralyyyyy/Psych-Doctor/internal/logging"
)

// Roles used in the chat-completion message sequence.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one role-tagged entry in the model input.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Fixed sampling parameters for counselor replies.
const (
	temperature = 0.8
	topP        = 0.9
	maxTokens   = 500
)

// Notices returned in place of a reply when the model cannot be called.
// These are user-visible strings, not errors.
const (
	NoticeNotConfigured = "（后端提示：尚未配置 GPT_API_KEY，无法调用大模型。请联系管理员。）"
	NoticeCallFailed    = "（后端提示：调用大模型接口失败了，可以稍后再试，或联系管理员检查配置。）"
)

// ErrNoAPIKey reports that no credential is configured. ChatCompletion
// returns it without attempting the network call.
var ErrNoAPIKey = errors.New("gpt: api key is not configured")

// chatRequest is the minimal request shape for the Chat Completions endpoint.
type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	TopP        float64   `json:"top_p"`
	MaxTokens   int       `json:"max_tokens"`
}

// chatResponse is the minimal response shape returned by the Chat Completions endpoint.
type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// HTTPStatusError captures non-2xx upstream responses with status-aware context.
type HTTPStatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("gpt: unexpected status %d from %s: %s", e.StatusCode, e.URL, e.Body)
}

// Client calls one chat-completion endpoint with fixed sampling parameters.
// It never reads the environment; all settings come from the constructor.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	logger     logging.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the default HTTP client (used in tests).
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient builds a Client for the given endpoint. An empty apiKey is
// allowed: calls then degrade to NoticeNotConfigured instead of failing.
func NewClient(baseURL, apiKey, model string, timeout time.Duration, logger logging.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSpace(baseURL),
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With("module", "gpt_client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func chatURL(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + "/chat/completions"
}

// ChatCompletion sends the ordered message sequence and returns the trimmed
// text of the first completion choice. It is the typed-outcome layer: callers
// that must never fail use Reply instead.
func (c *Client) ChatCompletion(ctx context.Context, messages []Message) (string, error) {
	if c.apiKey == "" {
		return "", ErrNoAPIKey
	}

	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: temperature,
		TopP:        topP,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("gpt: marshal request: %w", err)
	}

	url := chatURL(c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("gpt: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("gpt: request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("gpt: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &HTTPStatusError{StatusCode: resp.StatusCode, URL: url, Body: string(raw)}
	}

	var payload chatResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", fmt.Errorf("gpt: decode response: %w", err)
	}
	if len(payload.Choices) == 0 {
		return "", errors.New("gpt: no choices in response")
	}

	return strings.TrimSpace(payload.Choices[0].Message.Content), nil
}

// Reply is the absorbing layer the turn pipeline calls: it always returns
// some text. A missing credential yields NoticeNotConfigured; any other
// failure is logged and yields NoticeCallFailed. Errors never escape.
func (c *Client) Reply(ctx context.Context, messages []Message) string {
	text, err := c.ChatCompletion(ctx, messages)
	if err != nil {
		if errors.Is(err, ErrNoAPIKey) {
			return NoticeNotConfigured
		}
		c.logger.Error(ctx, "gpt call failed", "error", err.Error())
		return NoticeCallFailed
	}
	return text
}
