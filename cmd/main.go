package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/feedbacklab/feedback-ai-bridge/internal/ai"
	"github.com/feedbacklab/feedback-ai-bridge/internal/config"
	"github.com/feedbacklab/feedback-ai-bridge/internal/feedback"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger, err := newLogger()
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer logger.Sync()

	// --- DB ---
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("db open error", zap.Error(err))
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		logger.Fatal("db ping error", zap.Error(err))
	}
	if err := feedback.EnsureSchema(ctx, db); err != nil {
		logger.Fatal("db schema error", zap.Error(err))
	}

	// --- Metrics ---
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	// --- Feedback module wiring ---
	repo := feedback.NewRepo(db)
	aiClient := ai.NewOpenAIClient(
		cfg.OpenAIAPIKey,
		cfg.OpenAIModel,
		cfg.OpenAIBaseURL,
		cfg.AIRequestTimeout,
		logger.Named("ai"),
	)
	metrics := feedback.NewMetrics(registry)
	svc := feedback.NewService(repo, aiClient, logger.Named("feedback"), metrics)
	handler := feedback.NewHandler(svc, cfg.MaxReviewChars, logger.Named("http"))

	feedback.RegisterRoutes(r, handler)

	// --- ops endpoints ---
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	logger.Info("listening", zap.String("port", cfg.Port))
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

func newLogger() (*zap.Logger, error) {
	if os.Getenv("APP_ENV") == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
