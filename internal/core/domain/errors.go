package domain

import "errors"

// ErrSessionExpired is returned by the authenticated client after a 401: the
// session has been cleared and a redirect to the login route issued, so the
// caller should not report the failure again.
var ErrSessionExpired = errors.New("session expired")

var ErrNotAuthenticated = errors.New("not authenticated")
var ErrForbidden = errors.New("access forbidden")
var ErrValidation = errors.New("validation failed")

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
