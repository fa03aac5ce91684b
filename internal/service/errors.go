package service

import "errors"

// Service-level sentinel errors.
var (
	// ErrGenerationTimeout is returned when a generation attempt exceeds the
	// configured overall deadline. It is distinguishable from upstream gateway
	// failures so callers can report it as such.
	ErrGenerationTimeout = errors.New("flashcard generation timed out")

	// ErrGenerationNotOwned is returned when a flashcard references a
	// generation that does not exist or belongs to a different user.
	ErrGenerationNotOwned = errors.New(
		"referenced generation does not exist or does not belong to the user")

	// ErrInvalidSourceTransition is returned when an update tries to mark a
	// flashcard with a source the user cannot assign directly.
	ErrInvalidSourceTransition = errors.New(
		"flashcard source can only be changed to manual or ai-edited")
)
