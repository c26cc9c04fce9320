package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// maxResponseSize caps the completion response body read.
const maxResponseSize = 4 * 1024 * 1024 // 4MB

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is a chat completion request. Temperature nil uses the endpoint
// default; MaxTokens 0 leaves the limit unset.
type Request struct {
	Messages    []Message
	Temperature *float64
	MaxTokens   int
}

// Response is the completion result.
type Response struct {
	Content    string
	Model      string
	TokensUsed int
}

// Completer is the capability the enrichment components are built on.
// Calls fail with UpstreamError; they are never retried.
type Completer interface {
	Complete(ctx context.Context, req Request) (*Response, error)
}

// Client talks to an OpenAI-compatible chat completions endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	logger     *slog.Logger
}

type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(client *Client) {
		client.httpClient = c
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(client *Client) {
		client.logger = logger
	}
}

// NewClient creates a completions client. model names the model requested
// from the endpoint, e.g. "gpt-4".
func NewClient(baseURL, apiKey, model string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature *float64  `json:"temperature,omitempty"`
	MaxTokens   *int      `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

// Complete sends a single completion request. A timeout or any transport or
// HTTP-level failure comes back as UpstreamError; there is no retry.
func (c *Client) Complete(ctx context.Context, req Request) (*Response, error) {
	if len(req.Messages) == 0 {
		return nil, NewUpstreamError(fmt.Errorf("at least one message is required"))
	}

	requestID := uuid.New().String()

	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    req.Messages,
		Temperature: req.Temperature,
		MaxTokens:   maxTokensPtr(req.MaxTokens),
	})
	if err != nil {
		return nil, NewUpstreamError(fmt.Errorf("build request body: %w", err))
	}

	url := completionsURL(c.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, NewUpstreamError(fmt.Errorf("create HTTP request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	c.logger.Debug("sending completion request",
		"request_id", requestID,
		"model", c.model,
		"messages", len(req.Messages))

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, NewUpstreamError(fmt.Errorf("HTTP request failed: %w", err))
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseSize))
	if err != nil {
		return nil, NewUpstreamError(fmt.Errorf("read response body: %w", err))
	}

	if httpResp.StatusCode != http.StatusOK {
		snippet := string(respBody)
		if len(snippet) > 200 {
			snippet = snippet[:200] + "..."
		}
		c.logger.Warn("completion request failed",
			"request_id", requestID,
			"status", httpResp.StatusCode)
		return nil, NewUpstreamError(fmt.Errorf("completion API error (status %d): %s", httpResp.StatusCode, snippet))
	}

	var resp chatResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, NewUpstreamError(fmt.Errorf("decode completion response: %w", err))
	}
	if len(resp.Choices) == 0 {
		return nil, NewUpstreamError(fmt.Errorf("no choices in completion response"))
	}

	return &Response{
		Content:    resp.Choices[0].Message.Content,
		Model:      resp.Model,
		TokensUsed: resp.Usage.TotalTokens,
	}, nil
}

func completionsURL(baseURL string) string {
	baseURL = strings.TrimSuffix(baseURL, "/")
	if strings.HasSuffix(baseURL, "/chat/completions") {
		return baseURL
	}
	return baseURL + "/chat/completions"
}

func maxTokensPtr(n int) *int {
	if n <= 0 {
		return nil
	}
	return &n
}
