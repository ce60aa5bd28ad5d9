package domain

import "errors"

var (
	// ErrExplainerUnavailable signals a missing or unconfigured explanation provider.
	ErrExplainerUnavailable = errors.New("explanation provider unavailable")
	// ErrExplainerBadResponse signals a malformed explanation provider response.
	ErrExplainerBadResponse = errors.New("malformed explanation response")
)
