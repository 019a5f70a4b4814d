package domain

import "github.com/google/uuid"

// IDGenerator produces identifiers for newly constructed entities.
type IDGenerator func() string

// NewUUID generates a random (version 4) UUID string.
func NewUUID() string {
	return uuid.NewString()
}
