package feedback

import "github.com/go-chi/chi/v5"

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/api/submit", h.SubmitReview)
	r.Get("/api/submissions", h.ListSubmissions)
	r.Get("/api/health", h.Health)
	r.Get("/api/test-ai", h.TestAI)
	r.Get("/", h.Index)
}
