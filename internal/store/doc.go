// Package store defines persistence interfaces and shared store errors.
// Concrete implementations live under internal/platform/postgres.
package store
