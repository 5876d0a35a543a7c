package feedback

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/feedbacklab/feedback-ai-bridge/internal/ai"
)

type Handler struct {
	svc            Service
	maxReviewChars int
	log            *zap.Logger
}

func NewHandler(svc Service, maxReviewChars int, log *zap.Logger) *Handler {
	return &Handler{
		svc:            svc,
		maxReviewChars: maxReviewChars,
		log:            log,
	}
}

type submissionPayload struct {
	ID                    int64   `json:"id"`
	Rating                int     `json:"rating"`
	ReviewText            string  `json:"review_text"`
	PredictedRating       *int    `json:"predicted_rating,omitempty"`
	PredictionExplanation *string `json:"prediction_explanation,omitempty"`
	AIResponse            string  `json:"ai_response"`
	AISummary             string  `json:"ai_summary"`
	AIRecommendedActions  string  `json:"ai_recommended_actions"`
	CreatedAt             string  `json:"created_at"`
}

func toPayload(sub *Submission) submissionPayload {
	p := submissionPayload{
		ID:                   sub.ID,
		Rating:               sub.Review.Rating,
		ReviewText:           sub.Review.Text,
		AIResponse:           sub.Content.Reply,
		AISummary:            sub.Content.Summary,
		AIRecommendedActions: sub.Content.RecommendedActions,
		CreatedAt:            sub.CreatedAt.Format(time.RFC3339),
	}
	if sub.Prediction != nil {
		p.PredictedRating = &sub.Prediction.Stars
		p.PredictionExplanation = &sub.Prediction.Explanation
	}
	return p
}

// SubmitReview accepts a review, runs the AI pipeline, and returns the
// stored submission. The boundary owns input validation; the core
// trusts the Review it receives.
func (h *Handler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Rating     int    `json:"rating"`
		ReviewText string `json:"review_text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	if body.Rating < 1 || body.Rating > 5 {
		writeError(w, http.StatusBadRequest, "rating must be between 1 and 5")
		return
	}
	text := strings.TrimSpace(body.ReviewText)
	if text == "" {
		writeError(w, http.StatusBadRequest, "review text cannot be empty")
		return
	}
	if utf8.RuneCountInString(text) > h.maxReviewChars {
		writeError(w, http.StatusBadRequest, "review text is too long")
		return
	}

	sub, err := h.svc.ProcessSubmission(r.Context(), Review{Rating: body.Rating, Text: text})
	if err != nil {
		if errors.Is(err, ai.ErrNotConfigured) {
			writeError(w, http.StatusInternalServerError, "server configuration error: API key not configured")
			return
		}
		// Storage failure after generation: the content exists but was
		// not persisted; the client should retry the whole request.
		h.log.Error("submission failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to save submission")
		return
	}

	writeJSON(w, http.StatusOK, toPayload(sub))
}

// ListSubmissions returns every stored submission for the admin view,
// newest first, with a per-rating histogram.
func (h *Handler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	listing, err := h.svc.ListSubmissions(r.Context())
	if err != nil {
		h.log.Error("listing submissions failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "database error while fetching submissions")
		return
	}

	payloads := make([]submissionPayload, 0, len(listing.Submissions))
	for i := range listing.Submissions {
		payloads = append(payloads, toPayload(&listing.Submissions[i]))
	}

	byRating := make(map[string]int, len(listing.ByRating))
	for rating, count := range listing.ByRating {
		byRating[strconv.Itoa(rating)] = count
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"submissions": payloads,
		"total":       listing.Total,
		"by_rating":   byRating,
	})
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	keyStatus := "missing"
	if h.svc.AIConfigured() {
		keyStatus = "configured"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"api_key":   keyStatus,
	})
}

// TestAI runs one single-attempt generation of each kind so operators
// can check the upstream connection without submitting a review.
func (h *Handler) TestAI(w http.ResponseWriter, r *http.Request) {
	result := h.svc.Probe(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "success",
		"summary":         result.Summary,
		"response":        result.Reply,
		"api_key_present": h.svc.AIConfigured(),
	})
}

func (h *Handler) Index(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "AI Feedback System API",
		"endpoints": map[string]string{
			"submit":      "/api/submit",
			"submissions": "/api/submissions",
			"health":      "/api/health",
			"metrics":     "/metrics",
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
