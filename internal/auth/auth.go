package auth

import (
	"errors"

	"github.com/google/uuid"
)

// Identity is the verified caller, read-only for the duration of a request.
type Identity struct {
	UserID uuid.UUID
}

var ErrUnauthenticated = errors.New("unauthenticated")

// Verifier turns a raw bearer credential into a verified Identity.
// Implementations must return ErrUnauthenticated (possibly wrapped) for any
// missing, malformed, expired or otherwise unverifiable credential; no retries.
type Verifier interface {
	Verify(token string) (Identity, error)
}
