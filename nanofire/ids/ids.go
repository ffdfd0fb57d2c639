// Package ids provides identifier generation for new documents.
package ids

import "github.com/google/uuid"

// Generator produces identifiers that are unique within a store
type Generator interface {
	NewID() string
}

// UUIDGenerator generates random version 4 UUIDs
type UUIDGenerator struct{}

// NewID implements Generator.NewID
func (UUIDGenerator) NewID() string {
	return uuid.New().String()
}

// GeneratorFunc adapts a plain function to the Generator interface.
// Tests use it for deterministic identifiers.
type GeneratorFunc func() string

// NewID implements Generator.NewID
func (f GeneratorFunc) NewID() string {
	return f()
}
