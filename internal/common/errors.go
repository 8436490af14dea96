// Package common defines shared constants and sentinel errors used across
// the listsync server layers. Callers should use errors.Is to match these
// values; the transport layer maps them to HTTP statuses.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Duplicate list identity, duplicate permission row with allowUpdate=false,
	// or duplicate contact without update permission.
	ErrAlreadyExists = errors.New("already exists")

	// The list's owner is ignored by the requesting user. Blocking overrides
	// any permission row the requester may hold.
	ErrOwnerBlocked = errors.New("list owner is blocked")

	// Share-token lifecycle errors. Expired is distinct from unknown so that
	// clients can show "link expired" instead of "link invalid".
	ErrTokenExpired  = errors.New("share token expired")
	ErrTokenNotFound = errors.New("share token not found")

	ErrInvalidInput = errors.New("invalid input")

	// Service-level errors (generic/internal flow control).
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")

	// Auth errors (invalid or malformed access token).
	ErrInvalidToken = errors.New("invalid token")
)

// ErrNoPermission is the base error for failed permission checks. Match with
// errors.Is; the concrete NoPermissionError carries the missing flags.
var ErrNoPermission = errors.New("no permission")

// NoPermissionError reports which permission flags the acting user was missing.
type NoPermissionError struct {
	Required int
}

func (e *NoPermissionError) Error() string {
	return fmt.Sprintf("no permission: required flags %05b", e.Required)
}

func (e *NoPermissionError) Unwrap() error {
	return ErrNoPermission
}
