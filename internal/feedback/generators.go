package feedback

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/feedbacklab/feedback-ai-bridge/internal/ai"
)

// generatorSpec describes one content generation operation: sampling
// parameters, the acceptance threshold, and the retry budget. minChars
// is exclusive — output must be strictly longer after trimming.
type generatorSpec struct {
	name        string
	temperature float32
	maxTokens   int
	minChars    int
	policy      retryPolicy
}

// Fallback strings are bracket-tagged so operators and downstream
// consumers can tell degraded output from genuine model output without
// reading logs. Each generator's fallbacks are distinct.
func replyNotConfiguredFallback(rating int) string {
	return fmt.Sprintf("[API Key Not Configured] Thank you for your %d-star review. We appreciate your feedback.", rating)
}

func replyFailedFallback(rating int) string {
	return fmt.Sprintf("[AI Response Generation Failed - Check Logs] Thank you for your %d-star review. We appreciate your feedback.", rating)
}

func summaryNotConfiguredFallback(reviewText string) string {
	return "[API Key Not Configured] Review about: " + truncate(reviewText, 50) + "..."
}

func summaryFailedFallback(reviewText string) string {
	return "[AI Summary Generation Failed - Check Logs] Review about: " + truncate(reviewText, 50) + "..."
}

const actionsNotConfiguredFallback = "[API Key Not Configured]\n- Review feedback internally\n- Follow up with customer if needed"

const actionsFailedFallback = "[AI Actions Generation Failed - Check Logs]\n- Review feedback internally\n- Follow up with customer if needed\n- Implement improvements based on feedback"

// generateReply writes the customer-facing response: 2-3 sentences,
// tone calibrated to the rating band.
func (s *service) generateReply(ctx context.Context, review Review) string {
	spec := generatorSpec{
		name:        opReply,
		temperature: 0.8,
		maxTokens:   250,
		minChars:    20,
		policy:      s.replyPolicy,
	}
	return s.generateText(ctx, spec,
		replySystemPrompt,
		buildReplyPrompt(review.Rating, review.Text),
		replyNotConfiguredFallback(review.Rating),
		replyFailedFallback(review.Rating),
	)
}

// generateSummary condenses the review into one natural sentence.
func (s *service) generateSummary(ctx context.Context, reviewText string) string {
	spec := generatorSpec{
		name:        opSummary,
		temperature: 0.5,
		maxTokens:   80,
		minChars:    10,
		policy:      s.summaryPolicy,
	}
	return s.generateText(ctx, spec,
		summarySystemPrompt,
		buildSummaryPrompt(reviewText),
		summaryNotConfiguredFallback(reviewText),
		summaryFailedFallback(reviewText),
	)
}

// generateActions produces the 2-3 item bulleted action list.
func (s *service) generateActions(ctx context.Context, review Review) string {
	spec := generatorSpec{
		name:        opActions,
		temperature: 0.6,
		maxTokens:   250,
		minChars:    0,
		policy:      s.actionsPolicy,
	}
	return s.generateText(ctx, spec,
		actionsSystemPrompt,
		buildActionsPrompt(review.Rating, review.Text),
		actionsNotConfiguredFallback,
		actionsFailedFallback,
	)
}

// generateText is the shared retry-validate-fallback loop. It never
// returns an error: the orchestrator must always be able to complete a
// submission, so failure is absorbed into the fallback value.
func (s *service) generateText(
	ctx context.Context,
	spec generatorSpec,
	systemPrompt string,
	userPrompt string,
	notConfiguredFallback string,
	failedFallback string,
) string {
	var out string

	err := spec.policy.run(func(attempt int) error {
		if attempt > 1 {
			s.metrics.retry(spec.name)
		}
		s.log.Info("generating content",
			zap.String("op", spec.name),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", spec.policy.maxAttempts),
		)

		raw, err := s.ai.Complete(ctx, systemPrompt, userPrompt, spec.temperature, spec.maxTokens)
		if err != nil {
			s.metrics.attempt(spec.name, outcomeError)
			s.log.Warn("generation call failed",
				zap.String("op", spec.name),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			return err
		}

		text := strings.TrimSpace(raw)
		if len(text) <= spec.minChars {
			s.metrics.attempt(spec.name, outcomeMalformed)
			s.log.Warn("generation output too short",
				zap.String("op", spec.name),
				zap.Int("attempt", attempt),
				zap.Int("chars", len(text)),
			)
			return fmt.Errorf("%w: %d chars, need more than %d", errMalformed, len(text), spec.minChars)
		}

		s.metrics.attempt(spec.name, outcomeOK)
		out = text
		return nil
	})
	if err != nil {
		s.metrics.fallback(spec.name, fallbackReason(err))
		if errors.Is(err, ai.ErrNotConfigured) {
			s.log.Error("generation skipped, credential not configured", zap.String("op", spec.name))
			return notConfiguredFallback
		}
		s.log.Error("generation exhausted, using fallback",
			zap.String("op", spec.name),
			zap.Error(err),
		)
		return failedFallback
	}
	return out
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
