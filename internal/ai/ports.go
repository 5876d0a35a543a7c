package ai

import "context"

// AI — the external completion service; knows nothing about reviews or the DB.
// One call, one completion, no retries — retrying is the caller's job.
type AI interface {
	// Complete sends a system instruction plus a user prompt and returns the
	// generated text. Fails with ErrNotConfigured when no credential is
	// available, or with *ServiceError on any transport-level failure.
	Complete(ctx context.Context, systemPrompt, userPrompt string, temperature float32, maxTokens int) (string, error)

	// Configured reports whether a credential is available, so callers can
	// reject work up front instead of degrading.
	Configured() bool
}
