package ai

import (
	"errors"
	"fmt"
)

// ErrNotConfigured means no API credential is set. Callers must not burn
// retry attempts on it — the next call will fail the same way.
var ErrNotConfigured = errors.New("completion service credential is not configured")

// ServiceError wraps a transport-level failure from the completion
// service (network, auth, empty response). Retryable by callers.
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("ai %s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }
