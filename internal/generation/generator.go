package generation

import "context"

// ProposedCard is a raw front/back pair produced by a language model, before
// any generation bookkeeping is attached.
type ProposedCard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// Generator defines the interface for producing flashcard proposals from
// source text. It is the boundary between the application core and external
// LLM gateways; implementations live under internal/platform.
type Generator interface {
	// GenerateProposals creates flashcard proposals from the provided source
	// text. Returns at least one card on success, or an error from errors.go
	// describing why generation failed.
	GenerateProposals(ctx context.Context, sourceText string) ([]ProposedCard, error)
}
