package feedback

import (
	"context"
	"time"
)

// Review is the validated input: rating 1..5, trimmed non-empty text.
// The HTTP boundary enforces both before the core is invoked.
type Review struct {
	Rating int
	Text   string
}

// RatingPrediction is the model's own star estimate for the review text.
// Absence (a failed prediction) is a nil *RatingPrediction, never a zero
// value — "not predicted" must stay distinguishable from a low prediction.
type RatingPrediction struct {
	Stars       int
	Explanation string
}

// GeneratedContent fields are never empty: each is either validated model
// output or a bracket-tagged fallback string.
type GeneratedContent struct {
	Reply              string
	Summary            string
	RecommendedActions string
}

type Submission struct {
	ID         int64
	Review     Review
	Prediction *RatingPrediction
	Content    GeneratedContent
	CreatedAt  time.Time
}

// Listing is the admin view of all stored submissions.
type Listing struct {
	Submissions []Submission
	Total       int
	ByRating    map[int]int
}

// ProbeResult carries single-attempt diagnostic output for /api/test-ai.
type ProbeResult struct {
	Summary string
	Reply   string
}

// Repo — persistence. Save assigns ID and CreatedAt.
type Repo interface {
	Save(ctx context.Context, sub *Submission) error
	List(ctx context.Context) ([]Submission, error)
}

// Service — orchestration of the AI pipeline for one review.
type Service interface {
	ProcessSubmission(ctx context.Context, review Review) (*Submission, error)
	ListSubmissions(ctx context.Context) (*Listing, error)
	Probe(ctx context.Context) ProbeResult
	AIConfigured() bool
}
