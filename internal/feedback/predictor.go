package feedback

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// errMalformed marks retryable shape failures: unparseable JSON,
// out-of-range stars, text below the acceptance threshold.
var errMalformed = errors.New("malformed model output")

const (
	predictTemperature = 0
	predictMaxTokens   = 150
)

// predictRating asks the model to classify the review into 1..5 stars.
// Absence (nil) after the retry budget is spent is a normal outcome and
// never blocks the rest of the pipeline.
func (s *service) predictRating(ctx context.Context, reviewText string) *RatingPrediction {
	var out *RatingPrediction

	err := s.predictPolicy.run(func(attempt int) error {
		if attempt > 1 {
			s.metrics.retry(opPredict)
		}
		s.log.Info("predicting rating",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", s.predictPolicy.maxAttempts),
		)

		raw, err := s.ai.Complete(ctx, ratingSystemPrompt, buildRatingPrompt(reviewText), predictTemperature, predictMaxTokens)
		if err != nil {
			s.metrics.attempt(opPredict, outcomeError)
			s.log.Warn("rating prediction call failed", zap.Int("attempt", attempt), zap.Error(err))
			return err
		}

		pred, err := parseRatingPrediction(raw)
		if err != nil {
			s.metrics.attempt(opPredict, outcomeMalformed)
			s.log.Warn("rating prediction output rejected", zap.Int("attempt", attempt), zap.Error(err))
			return err
		}

		s.metrics.attempt(opPredict, outcomeOK)
		out = pred
		return nil
	})
	if err != nil {
		s.metrics.fallback(opPredict, fallbackReason(err))
		s.log.Error("rating prediction exhausted, continuing without prediction", zap.Error(err))
		return nil
	}
	return out
}

// parseRatingPrediction validates the strict-JSON envelope. A leading or
// trailing code fence is tolerated as formatting drift.
func parseRatingPrediction(raw string) (*RatingPrediction, error) {
	text := stripCodeFence(raw)

	var payload struct {
		PredictedStars json.RawMessage `json:"predicted_stars"`
		Explanation    *string         `json:"explanation"`
	}
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformed, err)
	}

	if len(payload.PredictedStars) == 0 {
		return nil, fmt.Errorf("%w: predicted_stars missing", errMalformed)
	}
	if payload.Explanation == nil {
		return nil, fmt.Errorf("%w: explanation missing", errMalformed)
	}

	stars, err := coerceStars(payload.PredictedStars)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformed, err)
	}
	if stars < 1 || stars > 5 {
		return nil, fmt.Errorf("%w: predicted_stars %d out of range", errMalformed, stars)
	}

	return &RatingPrediction{Stars: stars, Explanation: *payload.Explanation}, nil
}

// coerceStars accepts the number the prompt demands plus the string and
// float shapes models actually emit ("4", 4.0).
func coerceStars(raw json.RawMessage) (int, error) {
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return int(f), nil
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		n, err := strconv.Atoi(strings.TrimSpace(str))
		if err != nil {
			return 0, fmt.Errorf("predicted_stars %q is not an integer", str)
		}
		return n, nil
	}
	return 0, errors.New("predicted_stars is neither number nor string")
}

// stripCodeFence removes an enclosing markdown fence (```json ... ``` or
// ``` ... ```) if present. Unfenced input passes through untouched.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
