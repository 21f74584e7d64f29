// Package auth implements the authentication and session-invalidation
// core: credential login, JWT issuance with unique token identifiers,
// logout-time revocation, and the single-use magic-link flow for email
// verification. Handlers translate the sentinel errors below into HTTP
// status codes.
package auth

import "errors"

// Authentication failures (HTTP 401). Login failures deliberately share
// one generic message so the response never reveals which half of the
// credential pair was wrong.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidLink        = errors.New("invalid verification link")
	ErrLinkUsed           = errors.New("verification link has already been used")
	ErrLinkExpired        = errors.New("verification link has expired")
)

// Authorization failures (HTTP 403): the caller's identity is known or
// irrelevant, but the action is disallowed.
var (
	ErrAdminRequired = errors.New("only administrators can create other administrators")
	ErrTokenRevoked  = errors.New("token has been revoked")
)

// ErrEmailAlreadyVerified rejects a resend request for an address that
// is already confirmed (HTTP 400).
var ErrEmailAlreadyVerified = errors.New("email already verified")
