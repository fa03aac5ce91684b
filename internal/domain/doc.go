// Package domain contains the core entities of the application: users,
// flashcards, and generation attempts. Entities validate themselves and know
// nothing about persistence or transport.
package domain
