package utils

import (
	"context"
	"time"

	"github.com/nodewee/plaque-translator/pkg/constants"
)

// SimpleErrorHandler retries operations with a linear backoff
type SimpleErrorHandler struct {
	maxRetries int
	baseDelay  time.Duration
}

// NewSimpleErrorHandler creates a handler that allows maxRetries extra attempts
func NewSimpleErrorHandler(maxRetries int) *SimpleErrorHandler {
	return &SimpleErrorHandler{
		maxRetries: maxRetries,
		baseDelay:  constants.DefaultRetryBaseDelay,
	}
}

// WithBaseDelay overrides the delay unit between attempts
func (h *SimpleErrorHandler) WithBaseDelay(delay time.Duration) *SimpleErrorHandler {
	h.baseDelay = delay
	return h
}

// WithRetryContext runs fn until it succeeds, returns a non-retryable error,
// exhausts its attempts or ctx is done.
func (h *SimpleErrorHandler) WithRetryContext(ctx context.Context, fn func() error) error {
	var lastErr error

	for attempt := 0; attempt <= h.maxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if !h.IsRetryable(err) {
			return err
		}

		if attempt < h.maxRetries {
			delay := h.baseDelay * time.Duration(attempt+1)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return lastErr
}

// IsRetryable reports whether an error is worth another attempt
func (h *SimpleErrorHandler) IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if IsRecoverable(err) {
		return true
	}

	switch GetErrorType(err) {
	case ErrorTypeTimeout, ErrorTypeNetwork:
		return true
	default:
		return false
	}
}
