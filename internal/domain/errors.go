package domain

import "errors"

// Failure taxonomy. Callers wrap with %w and branch with errors.Is.
var (
	// ErrUpstreamAuth: Strava rejected the authorization code or credentials.
	ErrUpstreamAuth = errors.New("upstream auth rejected")
	// ErrStorageUnavailable: mongo unreachable; writes fail loudly, reads degrade.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrStaleCredential: stored access token expired, no refresh flow exists.
	ErrStaleCredential = errors.New("stale credential")
	// ErrUpstreamQuery: transient failure listing a user's efforts.
	ErrUpstreamQuery = errors.New("upstream query failed")
)
