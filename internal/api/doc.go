// Package api contains the HTTP handlers, request/response models, and error
// mapping for the public REST surface: authentication, flashcard generation,
// and flashcard collection management.
package api
