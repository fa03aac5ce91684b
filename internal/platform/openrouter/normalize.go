package openrouter

import (
	"encoding/json"
	"fmt"

	"github.com/tenxcards/cards-api/internal/generation"
)

// extractFunc is one strategy for locating a flashcard list inside a decoded
// response content document. It returns the cards and true on a match.
type extractFunc func(raw json.RawMessage) ([]generation.ProposedCard, bool)

// extractors are tried in order; the first match wins. Adding support for a
// new upstream shape means appending one entry here.
var extractors = []extractFunc{
	extractCanonical,
	extractTopLevelArray,
	extractNestedArray,
}

// NormalizeProposals parses the content document produced by the model and
// normalizes any recognized shape into a flat proposal list. Recognized
// shapes are the canonical {"flashcards": [...]} object, a top-level array of
// {front, back} pairs, and an array of pairs nested under an arbitrary key.
// Already-canonical input round-trips unchanged.
func NormalizeProposals(content []byte) ([]generation.ProposedCard, error) {
	var raw json.RawMessage
	if err := json.Unmarshal(content, &raw); err != nil {
		return nil, fmt.Errorf("%w: content is not valid JSON: %v",
			generation.ErrInvalidResponse, err)
	}

	for _, extract := range extractors {
		if cards, ok := extract(raw); ok {
			return cards, nil
		}
	}

	return nil, fmt.Errorf("%w: no flashcard list found in response",
		generation.ErrInvalidResponse)
}

// validCards reports whether the list is non-empty and every entry carries
// both a front and a back.
func validCards(cards []generation.ProposedCard) bool {
	if len(cards) == 0 {
		return false
	}
	for _, card := range cards {
		if card.Front == "" || card.Back == "" {
			return false
		}
	}
	return true
}

// extractCanonical matches the canonical {"flashcards": [...]} object.
func extractCanonical(raw json.RawMessage) ([]generation.ProposedCard, bool) {
	var doc struct {
		Flashcards []generation.ProposedCard `json:"flashcards"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, false
	}
	if !validCards(doc.Flashcards) {
		return nil, false
	}
	return doc.Flashcards, true
}

// extractTopLevelArray matches a bare array of {front, back} pairs.
func extractTopLevelArray(raw json.RawMessage) ([]generation.ProposedCard, bool) {
	var cards []generation.ProposedCard
	if err := json.Unmarshal(raw, &cards); err != nil {
		return nil, false
	}
	if !validCards(cards) {
		return nil, false
	}
	return cards, true
}

// extractNestedArray matches an object with a pair array under any key, e.g.
// {"cards": [...]} or {"items": [...]}.
func extractNestedArray(raw json.RawMessage) ([]generation.ProposedCard, bool) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, false
	}

	for _, value := range doc {
		var cards []generation.ProposedCard
		if err := json.Unmarshal(value, &cards); err != nil {
			continue
		}
		if validCards(cards) {
			return cards, true
		}
	}

	return nil, false
}
