package session

import "errors"

var (
	// ErrNotFound is returned by stores when no value exists for a key.
	ErrNotFound = errors.New("session: key not found")
	// ErrSessionMissing signals that the logged-in user's record could not be
	// read or parsed. Submissions must stop before any network call.
	ErrSessionMissing = errors.New("session: missing or invalid session")
)
