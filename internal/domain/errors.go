package domain

import "errors"

var (
	ErrRateNotFound     = errors.New("rate not found")
	ErrInvalidRate      = errors.New("invalid rate")
	ErrRetriesExhausted = errors.New("retries exhausted")
	ErrPublishFailed    = errors.New("failed to publish quote")
)
