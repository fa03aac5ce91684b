package openrouter

import (
	"time"

	"github.com/tenxcards/cards-api/internal/generation"
)

// Message is a single chat-completion message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Chat message roles accepted by the gateway.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// JSONSchema describes a structured-output schema for providers that support
// the json_schema response format.
type JSONSchema struct {
	Name   string         `json:"name"`
	Strict bool           `json:"strict"`
	Schema map[string]any `json:"schema"`
}

// ResponseFormat constrains the shape of the model's response.
type ResponseFormat struct {
	Type       string      `json:"type"`
	JSONSchema *JSONSchema `json:"json_schema,omitempty"`
}

// requestPayload is the JSON body sent to the chat-completions endpoint.
type requestPayload struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

// apiError is the error object returned by the gateway in failure bodies.
type apiError struct {
	Message string `json:"message"`
	Code    any    `json:"code,omitempty"`
}

// chatResponse covers the response shapes the gateway is known to produce.
// Providers behind the gateway differ: content usually sits under
// choices[0].message.content, but some put it under message.content or a
// top-level content key.
type chatResponse struct {
	Error   *apiError `json:"error,omitempty"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices,omitempty"`
	Message *struct {
		Content string `json:"content"`
	} `json:"message,omitempty"`
	Content string `json:"content,omitempty"`
}

// Status discriminates success from failure in a Result.
type Status string

// Result status values
const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// ProposalPayload is the canonical data shape every recognized response is
// normalized into.
type ProposalPayload struct {
	Flashcards []generation.ProposedCard `json:"flashcards"`
}

// Result is the outcome of a SendMessage call. SendMessage never panics and
// never returns a raw error; callers branch on Status.
type Result struct {
	Status Status          `json:"status"`
	Data   ProposalPayload `json:"data"`
	Error  string          `json:"error,omitempty"`
}

// ConfigOptions carries optional client reconfiguration. Zero-valued fields
// leave the current setting unchanged.
type ConfigOptions struct {
	Model          string
	Temperature    *float64
	MaxTokens      int
	ResponseFormat *ResponseFormat
	SystemMessage  string
}

// RetryOptions bounds the retry loop around individual gateway requests.
type RetryOptions struct {
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
}
