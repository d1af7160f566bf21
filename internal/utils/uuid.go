// Package utils holds small helpers shared across the engine.
package utils

import "github.com/google/uuid"

// UUIDGenerator issues vault entry IDs. IDs are UUIDv7 so they sort by
// creation time; if the v7 source fails a random v4 is used.
type UUIDGenerator struct {
	newV7 func() (uuid.UUID, error)
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{newV7: uuid.NewV7}
}

func (g *UUIDGenerator) Generate() string {
	v7, err := g.newV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
