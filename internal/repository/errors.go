// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// services and handlers to distinguish between different failure
// scenarios. For example, ErrEmailExists signals that a registration
// cannot proceed because the address is already taken, while
// ErrLinkUsed reports that a magic link lost the race to be consumed.
package repository

import "errors"

// ErrEmailExists is returned when an insert into the users table hits
// the unique email constraint. Handlers should translate this into an
// HTTP 409 response.
var ErrEmailExists = errors.New("email already registered")

// ErrUserNotFound is returned when a user lookup by id or email matches
// no row.
var ErrUserNotFound = errors.New("user not found")

// ErrLinkNotFound is returned when no magic link matches the presented
// token or email.
var ErrLinkNotFound = errors.New("magic link not found")

// ErrLinkUsed is returned by the conditional mark-used update when the
// link was already consumed by an earlier (or concurrent) verification.
var ErrLinkUsed = errors.New("magic link already used")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers should translate this into an
// HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a write is blocked by dependent state,
// such as deleting a university that still has professors. Handlers
// should translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")
