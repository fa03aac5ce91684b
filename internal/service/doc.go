// Package service contains application use cases built on the store and
// generation boundaries: orchestrating flashcard generation attempts and
// curating a user's saved flashcard collection.
package service
