// Package generation defines the boundary between the application core and
// external LLM gateways used to produce flashcard proposals. Concrete
// gateway clients live under internal/platform and implement the Generator
// interface defined here.
package generation
