package spellfix

import "errors"

var (
	// ErrStale means the buffer changed while a check was in flight; the
	// result was discarded.
	ErrStale = errors.New("spellfix: text changed during check")
	// ErrSessionNotFound is returned for unknown or evicted session IDs.
	ErrSessionNotFound = errors.New("spellfix: session not found")
	// ErrEmptyText means there was nothing to check.
	ErrEmptyText = errors.New("spellfix: empty text")
)
