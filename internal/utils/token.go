package utils // package utils provides helper functions for token and identifier generation

import (
    "github.com/google/uuid" // uuid generates RFC 4122 identifiers
)

// NewTokenID returns a fresh UUIDv4 string.  It is used both as the jti
// claim embedded in access tokens (the key later matched against the
// revocation ledger) and as the opaque value carried inside magic links.
// Every call produces a distinct identifier.
func NewTokenID() string {
    return uuid.NewString()
}
