// Package auth implements session tokens, the active-token allow-list and
// the role based authorization decisions used by the HTTP handlers.
package auth

import "errors"

// ErrInvalidToken is returned by the codec for anything that is not a
// token we signed.  The authentication middleware turns it into an
// anonymous request; it is never shown to clients.
var ErrInvalidToken = errors.New("invalid token")

// ErrAuthFailed is returned by Login for an unknown email or a wrong
// password.  Handlers must not reveal which of the two it was.
var ErrAuthFailed = errors.New("invalid credentials")

// ErrForbidden is returned by Authorize when a requirement is not met.
// Handlers translate it into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrStorageUnavailable wraps credential store failures on the write path
// (login, logout, token issuance).  The operation may be retried.
var ErrStorageUnavailable = errors.New("credential store unavailable")
