package service

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the confession service. The transport layer maps
// each to a status code and never sees store internals directly.
var (
	ErrValidation   = errors.New("missing required field")
	ErrModeration   = errors.New("inappropriate content detected")
	ErrInvalidID    = errors.New("invalid confession id")
	ErrUnauthorized = errors.New("unauthorized")
	ErrAlreadyVoted = errors.New("already voted")
	ErrNotFound     = errors.New("confession not found")
)

// RateLimitError reports a submission rejected by the per-IP cooldown,
// carrying the seconds until the client may try again.
type RateLimitError struct {
	RetryAfter int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited, retry in %d seconds", e.RetryAfter)
}
