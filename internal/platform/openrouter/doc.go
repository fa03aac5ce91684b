// Package openrouter implements a client for an OpenRouter-compatible
// chat-completions gateway: request shaping, bearer auth, bounded retries
// with exponential backoff, a structured-output compatibility fallback, and
// normalization of the provider's variant response shapes into a canonical
// flashcard proposal list.
package openrouter
