package chat

import "errors"

// Sentinel errors surfaced to callers. Everything else the orchestrator
// encounters (failed summarization, failed extraction, malformed journal
// JSON) is absorbed with a safe default: context continuity is best-effort,
// never a hard dependency for the session to keep functioning.
var (
	// ErrInvalidInput indicates a missing session ID or empty message.
	// Rejected before any memory mutation.
	ErrInvalidInput = errors.New("chat: invalid input")

	// ErrModelUnavailable indicates the completion call itself failed.
	// The user's turn stays recorded; no assistant turn is committed.
	ErrModelUnavailable = errors.New("chat: model unavailable")

	// ErrSessionNotFound indicates an operation on a session that does
	// not exist.
	ErrSessionNotFound = errors.New("chat: session not found")
)
