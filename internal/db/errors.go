package db

import "errors"

// Sentinel errors callers branch on
var (
	// ErrSessionClosed is returned when a closed session is asked for a page
	ErrSessionClosed = errors.New("session is closed")
	// ErrConversationNotFound is returned when a session is opened on a
	// conversation the archive has never seen
	ErrConversationNotFound = errors.New("conversation not found")
)
