package utils

import "github.com/google/uuid"

// UUIDGenerator produces account identifiers.
//
// Version 7 UUIDs are time-ordered, which keeps the primary key index of the
// accounts table append-mostly.
type UUIDGenerator struct {
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// Generate returns a new UUIDv7 string, or a random v4 UUID if the v7
// generator fails to read the clock sequence.
func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
