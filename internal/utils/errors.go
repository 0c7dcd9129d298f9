package utils

import "errors"

// Common application errors used across services.
var (
	ErrInvalidToken    = errors.New("INVALID_TOKEN")
	ErrTokenExpired    = errors.New("TOKEN_EXPIRED")
	ErrInvalidKind     = errors.New("INVALID_KIND")
	ErrHistoryDisabled = errors.New("HISTORY_DISABLED")
)
