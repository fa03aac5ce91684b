package openrouter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tenxcards/cards-api/internal/config"
	"github.com/tenxcards/cards-api/internal/generation"
)

// systemPrompt fixes the model's role for flashcard generation.
const systemPrompt = "You are an assistant that creates study flashcards. " +
	"Given source text, produce concise question/answer pairs covering its key facts. " +
	"Respond with JSON of the form {\"flashcards\": [{\"front\": \"...\", \"back\": \"...\"}]} " +
	"and nothing else."

// userPromptPrefix introduces the source text in the user message.
const userPromptPrefix = "Create flashcards from the following text:\n\n"

// flashcardsResponseFormat asks providers with structured-output support to
// constrain the response to the canonical shape. Providers with partial
// schema support reject it; the client falls back automatically.
var flashcardsResponseFormat = &ResponseFormat{
	Type: "json_schema",
	JSONSchema: &JSONSchema{
		Name:   "flashcards_response",
		Strict: true,
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"flashcards": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"front": map[string]any{"type": "string"},
							"back":  map[string]any{"type": "string"},
						},
						"required": []string{"front", "back"},
					},
				},
			},
			"required": []string{"flashcards"},
		},
	},
}

// Generator adapts the Client onto the generation.Generator boundary with a
// fixed instructional prompt.
type Generator struct {
	client *Client
	logger *slog.Logger
}

// NewGenerator creates a flashcard Generator backed by an OpenRouter client
// configured from cfg.
func NewGenerator(cfg config.LLMConfig, log *slog.Logger) (*Generator, error) {
	if log == nil {
		log = slog.Default()
	}

	client, err := New(cfg, log)
	if err != nil {
		return nil, err
	}

	client.Configure(ConfigOptions{
		SystemMessage:  systemPrompt,
		ResponseFormat: flashcardsResponseFormat,
	})

	return &Generator{
		client: client,
		logger: log.With(slog.String("component", "openrouter_generator")),
	}, nil
}

var _ generation.Generator = (*Generator)(nil)

// GenerateProposals implements generation.Generator.
func (g *Generator) GenerateProposals(
	ctx context.Context,
	sourceText string,
) ([]generation.ProposedCard, error) {
	if sourceText == "" {
		return nil, fmt.Errorf("%w: source text is empty", generation.ErrGenerationFailed)
	}

	result := g.client.SendMessage(ctx, userPromptPrefix+sourceText)
	if result.Status != StatusSuccess {
		return nil, fmt.Errorf("%w: %s", generation.ErrGenerationFailed, result.Error)
	}

	cards := result.Data.Flashcards
	if len(cards) == 0 {
		return nil, fmt.Errorf("%w: model returned no flashcards", generation.ErrInvalidResponse)
	}

	g.logger.InfoContext(ctx, "flashcard proposals generated",
		slog.Int("count", len(cards)))
	return cards, nil
}
