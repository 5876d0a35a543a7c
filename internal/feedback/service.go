package feedback

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/feedbacklab/feedback-ai-bridge/internal/ai"
)

type service struct {
	repo    Repo
	ai      ai.AI
	log     *zap.Logger
	metrics *Metrics

	predictPolicy retryPolicy
	replyPolicy   retryPolicy
	summaryPolicy retryPolicy
	actionsPolicy retryPolicy
}

func NewService(repo Repo, aiClient ai.AI, log *zap.Logger, metrics *Metrics) Service {
	return &service{
		repo:          repo,
		ai:            aiClient,
		log:           log,
		metrics:       metrics,
		predictPolicy: retryPolicy{maxAttempts: 3, backoff: time.Second},
		replyPolicy:   retryPolicy{maxAttempts: 3, backoff: 2 * time.Second},
		summaryPolicy: retryPolicy{maxAttempts: 3, backoff: 2 * time.Second},
		actionsPolicy: retryPolicy{maxAttempts: 3, backoff: time.Second},
	}
}

func (s *service) AIConfigured() bool { return s.ai.Configured() }

// ProcessSubmission runs the four generation operations for one review
// and persists the composite result. AI failures degrade to fallback
// content and never fail the submission; only a missing credential
// (checked before any generation) or a storage failure is fatal.
func (s *service) ProcessSubmission(ctx context.Context, review Review) (*Submission, error) {
	if !s.ai.Configured() {
		s.metrics.submission("rejected_not_configured")
		return nil, ai.ErrNotConfigured
	}

	s.log.Info("processing submission",
		zap.Int("rating", review.Rating),
		zap.Int("review_chars", len(review.Text)),
	)

	sub := &Submission{Review: review}

	// The four operations have no data dependency on each other; each
	// goroutine writes its own field and never returns an error.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sub.Prediction = s.predictRating(gctx, review.Text)
		return nil
	})
	g.Go(func() error {
		sub.Content.Reply = s.generateReply(gctx, review)
		return nil
	})
	g.Go(func() error {
		sub.Content.Summary = s.generateSummary(gctx, review.Text)
		return nil
	})
	g.Go(func() error {
		sub.Content.RecommendedActions = s.generateActions(gctx, review)
		return nil
	})
	_ = g.Wait()

	if sub.Prediction == nil {
		s.log.Warn("rating prediction absent, continuing without it")
	}

	if err := s.repo.Save(ctx, sub); err != nil {
		s.metrics.submission("storage_error")
		s.log.Error("saving submission failed", zap.Error(err))
		// The generated content is returned alongside the error so the
		// boundary can hand it back instead of discarding it.
		return sub, fmt.Errorf("saving submission: %w", err)
	}

	s.metrics.submission("stored")
	s.log.Info("submission stored", zap.Int64("id", sub.ID))
	return sub, nil
}

func (s *service) ListSubmissions(ctx context.Context) (*Listing, error) {
	subs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing submissions: %w", err)
	}

	byRating := map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
	for _, sub := range subs {
		byRating[sub.Review.Rating]++
	}

	return &Listing{
		Submissions: subs,
		Total:       len(subs),
		ByRating:    byRating,
	}, nil
}

// Probe generates a summary and a reply for a canned review with a
// single attempt each. Diagnostic only; fallbacks come back as-is.
func (s *service) Probe(ctx context.Context) ProbeResult {
	probe := Review{Rating: 5, Text: "The food was amazing and service was excellent!"}

	single := *s
	single.summaryPolicy = s.summaryPolicy.withAttempts(1)
	single.replyPolicy = s.replyPolicy.withAttempts(1)

	return ProbeResult{
		Summary: single.generateSummary(ctx, probe.Text),
		Reply:   single.generateReply(ctx, probe),
	}
}
