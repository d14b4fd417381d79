package service

import (
	"strings"

	"github.com/google/uuid"
)

// CodeGenerator produces unique, human-readable confirmation codes. It is
// injected so the code format can change without touching the booking
// transaction.
type CodeGenerator interface {
	Generate() (string, error)
}

// UUIDCodeGenerator derives an 8-character uppercase code from a random
// UUID. A unique index on registrations.confirmation_code backs the
// uniqueness guarantee.
type UUIDCodeGenerator struct{}

// Generate returns a fresh confirmation code.
func (UUIDCodeGenerator) Generate() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return strings.ToUpper(id.String()[:8]), nil
}
