package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/tenxcards/cards-api/internal/config"
	"github.com/tenxcards/cards-api/internal/generation"
)

// Default model parameters used until Configure overrides them.
const (
	defaultSystemMessage = "You are a helpful assistant."
	defaultTemperature   = 0.7
	defaultMaxTokens     = 1000
)

// Default retry policy for gateway requests.
var defaultRetryOptions = RetryOptions{
	MaxRetries:   3,
	InitialDelay: time.Second,
	MaxDelay:     5 * time.Second,
}

// Client talks to an OpenRouter-compatible chat-completions endpoint. It owns
// the request shaping, the retry policy, and the normalization of the
// provider's heterogeneous response shapes into a canonical proposal list.
//
// A Client is configured once during wiring and then used from request
// handlers; Configure is not safe for concurrent use with SendMessage.
type Client struct {
	apiKey     string
	apiURL     string
	httpClient *http.Client
	logger     *slog.Logger

	model          string
	temperature    float64
	maxTokens      int
	systemMessage  string
	responseFormat *ResponseFormat
	retry          RetryOptions
}

// New creates a Client from LLM configuration. The API key is required.
func New(cfg config.LLMConfig, log *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: API key is required", generation.ErrInvalidConfig)
	}
	if cfg.APIURL == "" {
		return nil, fmt.Errorf("%w: API URL is required", generation.ErrInvalidConfig)
	}

	if log == nil {
		log = slog.Default()
	}

	c := &Client{
		apiKey:        cfg.APIKey,
		apiURL:        cfg.APIURL,
		httpClient:    &http.Client{},
		logger:        log.With(slog.String("component", "openrouter_client")),
		model:         cfg.Model,
		temperature:   defaultTemperature,
		maxTokens:     defaultMaxTokens,
		systemMessage: defaultSystemMessage,
		retry:         defaultRetryOptions,
	}

	if cfg.Temperature > 0 {
		c.temperature = cfg.Temperature
	}
	if cfg.MaxTokens > 0 {
		c.maxTokens = cfg.MaxTokens
	}
	if cfg.MaxRetries > 0 {
		c.retry.MaxRetries = cfg.MaxRetries
	}
	if cfg.RetryInitialDelayMs > 0 {
		c.retry.InitialDelay = time.Duration(cfg.RetryInitialDelayMs) * time.Millisecond
	}
	if cfg.RetryMaxDelayMs > 0 {
		c.retry.MaxDelay = time.Duration(cfg.RetryMaxDelayMs) * time.Millisecond
	}

	return c, nil
}

// Configure merges the recognized options into the current configuration.
// Unset options keep their prior values.
func (c *Client) Configure(opts ConfigOptions) {
	if opts.Model != "" {
		c.model = opts.Model
	}
	if opts.Temperature != nil {
		c.temperature = *opts.Temperature
	}
	if opts.MaxTokens > 0 {
		c.maxTokens = opts.MaxTokens
	}
	if opts.ResponseFormat != nil {
		c.responseFormat = opts.ResponseFormat
	}
	if opts.SystemMessage != "" {
		c.systemMessage = opts.SystemMessage
	}
}

// SendMessage sends the content as a user message and returns the normalized
// result. All failures, including retry exhaustion and unrecognizable
// response shapes, surface as a Result with StatusError.
func (c *Client) SendMessage(ctx context.Context, content string) Result {
	payload := c.buildRequestPayload(content)

	body, err := c.sendRequestWithRetry(ctx, payload)
	if err != nil {
		c.logger.WarnContext(ctx, "gateway request failed",
			slog.String("model", c.model),
			slog.String("error", err.Error()))
		return errorResult(err)
	}

	return c.handleResponse(ctx, body)
}

// buildRequestPayload assembles the request body from the current
// configuration plus the user content.
func (c *Client) buildRequestPayload(content string) requestPayload {
	return requestPayload{
		Model: c.model,
		Messages: []Message{
			{Role: RoleSystem, Content: c.systemMessage},
			{Role: RoleUser, Content: content},
		},
		Temperature:    c.temperature,
		MaxTokens:      c.maxTokens,
		ResponseFormat: c.responseFormat,
	}
}

// sendRequestWithRetry runs the bounded retry loop: up to MaxRetries
// attempts with exponential backoff capped at MaxDelay. Any transport error
// or non-2xx status is retryable; after the last attempt the final error is
// returned.
func (c *Client) sendRequestWithRetry(ctx context.Context, payload requestPayload) ([]byte, error) {
	var lastErr error
	delay := c.retry.InitialDelay

	for attempt := 1; attempt <= c.retry.MaxRetries; attempt++ {
		body, err := c.sendRequest(ctx, payload)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if attempt == c.retry.MaxRetries {
			break
		}

		c.logger.DebugContext(ctx, "retrying gateway request",
			slog.Int("attempt", attempt),
			slog.Duration("delay", delay),
			slog.String("error", err.Error()))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}

		delay *= 2
		if delay > c.retry.MaxDelay {
			delay = c.retry.MaxDelay
		}
	}

	return nil, lastErr
}

// schemaCompatibilityError reports whether the upstream rejected our
// json_schema response format. Some providers only support a subset of JSON
// Schema and fail on the additionalProperties keyword; the payload is then
// re-sent without the structured-format constraint.
func schemaCompatibilityError(message string) bool {
	return strings.Contains(message, "additionalProperties")
}

// sendRequest performs one POST to the chat-completions endpoint and returns
// the raw response body on a 2xx status.
func (c *Client) sendRequest(ctx context.Context, payload requestPayload) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read gateway response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errBody struct {
			Error *apiError `json:"error"`
		}
		message := fmt.Sprintf("gateway returned status %d", resp.StatusCode)
		if err := json.Unmarshal(body, &errBody); err == nil &&
			errBody.Error != nil && errBody.Error.Message != "" {
			message = errBody.Error.Message
		}

		if payload.ResponseFormat != nil && schemaCompatibilityError(message) {
			c.logger.InfoContext(ctx, "provider rejected response_format schema, resending without it")
			fallback := payload
			fallback.ResponseFormat = nil
			return c.sendRequest(ctx, fallback)
		}

		return nil, errors.New(message)
	}

	return body, nil
}

// handleResponse parses the raw response body, locates the content string,
// and normalizes it into the canonical proposal payload.
func (c *Client) handleResponse(ctx context.Context, body []byte) Result {
	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return errorResult(fmt.Errorf("failed to parse gateway response: %w", err))
	}

	if resp.Error != nil {
		return errorResult(fmt.Errorf("gateway error: %s", resp.Error.Message))
	}

	content := extractContent(resp)
	if content == "" {
		return errorResult(errors.New("no message content in gateway response"))
	}

	cards, err := NormalizeProposals([]byte(content))
	if err != nil {
		c.logger.WarnContext(ctx, "unrecognized response shape",
			slog.Int("content_length", len(content)),
			slog.String("error", err.Error()))
		return errorResult(err)
	}

	return Result{
		Status: StatusSuccess,
		Data:   ProposalPayload{Flashcards: cards},
	}
}

// extractContent locates the model output across the known response shapes.
func extractContent(resp chatResponse) string {
	if len(resp.Choices) > 0 && resp.Choices[0].Message.Content != "" {
		return resp.Choices[0].Message.Content
	}
	if resp.Message != nil && resp.Message.Content != "" {
		return resp.Message.Content
	}
	return resp.Content
}

func errorResult(err error) Result {
	return Result{
		Status: StatusError,
		Error:  err.Error(),
	}
}
