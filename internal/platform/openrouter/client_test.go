package openrouter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenxcards/cards-api/internal/config"
	"github.com/tenxcards/cards-api/internal/generation"
)

// testLLMConfig returns a config pointing at the given test server with
// near-zero retry delays.
func testLLMConfig(url string) config.LLMConfig {
	return config.LLMConfig{
		APIKey:              "test-key",
		APIURL:              url,
		Model:               "openai/gpt-4o-mini",
		Temperature:         0.7,
		MaxTokens:           1000,
		MaxRetries:          3,
		RetryInitialDelayMs: 1,
		RetryMaxDelayMs:     2,
		TimeoutSeconds:      60,
	}
}

// chatSuccessBody wraps the given content string in the standard
// choices[0].message.content envelope.
func chatSuccessBody(t *testing.T, content string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
	require.NoError(t, err)
	return body
}

func TestSendMessageSuccess(t *testing.T) {
	var gotAuth atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		_, _ = w.Write(chatSuccessBody(t,
			`{"flashcards":[{"front":"Front text","back":"Back text"}]}`))
	}))
	defer server.Close()

	client, err := New(testLLMConfig(server.URL), nil)
	require.NoError(t, err)

	result := client.SendMessage(context.Background(), "some source text")
	require.Equal(t, StatusSuccess, result.Status)
	require.Len(t, result.Data.Flashcards, 1)
	assert.Equal(t, "Front text", result.Data.Flashcards[0].Front)
	assert.Equal(t, "Bearer test-key", gotAuth.Load())
}

func TestSendMessageRetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write(chatSuccessBody(t,
			`{"flashcards":[{"front":"Front text","back":"Back text"}]}`))
	}))
	defer server.Close()

	client, err := New(testLLMConfig(server.URL), nil)
	require.NoError(t, err)

	result := client.SendMessage(context.Background(), "some source text")
	assert.Equal(t, StatusSuccess, result.Status)
	assert.Equal(t, int32(3), calls.Load(), "two failures plus the final success")
}

func TestSendMessageExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"message":"upstream unavailable"}}`))
	}))
	defer server.Close()

	client, err := New(testLLMConfig(server.URL), nil)
	require.NoError(t, err)

	result := client.SendMessage(context.Background(), "some source text")
	assert.Equal(t, StatusError, result.Status)
	assert.Contains(t, result.Error, "upstream unavailable")
	assert.Equal(t, int32(3), calls.Load(), "exactly MaxRetries attempts")
}

func TestSendMessageResponseFormatFallback(t *testing.T) {
	var sawResponseFormat, sawFallback atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))

		if _, ok := payload["response_format"]; ok {
			sawResponseFormat.Store(true)
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(
				`{"error":{"message":"schema does not support additionalProperties"}}`))
			return
		}

		sawFallback.Store(true)
		_, _ = w.Write(chatSuccessBody(t,
			`{"flashcards":[{"front":"Front text","back":"Back text"}]}`))
	}))
	defer server.Close()

	client, err := New(testLLMConfig(server.URL), nil)
	require.NoError(t, err)
	client.Configure(ConfigOptions{ResponseFormat: flashcardsResponseFormat})

	result := client.SendMessage(context.Background(), "some source text")
	assert.Equal(t, StatusSuccess, result.Status)
	assert.True(t, sawResponseFormat.Load(), "first request carries response_format")
	assert.True(t, sawFallback.Load(), "fallback request drops response_format")
}

func TestSendMessageUnparsableContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(chatSuccessBody(t, "sorry, I cannot help with that"))
	}))
	defer server.Close()

	client, err := New(testLLMConfig(server.URL), nil)
	require.NoError(t, err)

	result := client.SendMessage(context.Background(), "some source text")
	assert.Equal(t, StatusError, result.Status)
	assert.NotEmpty(t, result.Error)
	assert.Empty(t, result.Data.Flashcards)
}

func TestSendMessageAlternateContentLocations(t *testing.T) {
	cards := `{"flashcards":[{"front":"Front text","back":"Back text"}]}`

	tests := []struct {
		name string
		body string
	}{
		{
			name: "content under message",
			body: `{"message":{"content":` + mustQuote(cards) + `}}`,
		},
		{
			name: "top-level content",
			body: `{"content":` + mustQuote(cards) + `}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			client, err := New(testLLMConfig(server.URL), nil)
			require.NoError(t, err)

			result := client.SendMessage(context.Background(), "some source text")
			require.Equal(t, StatusSuccess, result.Status)
			assert.Len(t, result.Data.Flashcards, 1)
		})
	}
}

func TestConfigureMergesOptions(t *testing.T) {
	client, err := New(testLLMConfig("http://localhost:1"), nil)
	require.NoError(t, err)

	temp := 0.2
	client.Configure(ConfigOptions{
		Model:       "anthropic/claude-3-haiku",
		Temperature: &temp,
	})

	assert.Equal(t, "anthropic/claude-3-haiku", client.model)
	assert.Equal(t, 0.2, client.temperature)
	// Unset options keep prior values.
	assert.Equal(t, 1000, client.maxTokens)
	assert.Equal(t, defaultSystemMessage, client.systemMessage)

	client.Configure(ConfigOptions{MaxTokens: 500})
	assert.Equal(t, "anthropic/claude-3-haiku", client.model, "model unchanged")
	assert.Equal(t, 500, client.maxTokens)
}

func TestNewRequiresAPIKey(t *testing.T) {
	cfg := testLLMConfig("http://localhost:1")
	cfg.APIKey = ""

	_, err := New(cfg, nil)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
}

func TestGeneratorGenerateProposals(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write(chatSuccessBody(t,
				`{"flashcards":[{"front":"Front text","back":"Back text"}]}`))
		}))
		defer server.Close()

		gen, err := NewGenerator(testLLMConfig(server.URL), nil)
		require.NoError(t, err)

		cards, err := gen.GenerateProposals(context.Background(), "long source text")
		require.NoError(t, err)
		assert.Len(t, cards, 1)
	})

	t.Run("gateway failure surfaces as error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		gen, err := NewGenerator(testLLMConfig(server.URL), nil)
		require.NoError(t, err)

		_, err = gen.GenerateProposals(context.Background(), "long source text")
		assert.ErrorIs(t, err, generation.ErrGenerationFailed)
	})

	t.Run("empty source text rejected without a request", func(t *testing.T) {
		gen, err := NewGenerator(testLLMConfig("http://localhost:1"), nil)
		require.NoError(t, err)

		_, err = gen.GenerateProposals(context.Background(), "")
		assert.ErrorIs(t, err, generation.ErrGenerationFailed)
	})
}

// mustQuote JSON-encodes a string literal.
func mustQuote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
