package feedback

import (
	"context"
	"database/sql"
	"fmt"
)

type repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) Repo {
	return &repo{db: db}
}

// EnsureSchema creates the submissions table and adds the prediction
// columns when missing, mirroring earlier deployments that predate them.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS submissions (
			id BIGSERIAL PRIMARY KEY,
			rating INTEGER NOT NULL,
			review_text TEXT NOT NULL,
			predicted_rating INTEGER,
			prediction_explanation TEXT,
			ai_response TEXT NOT NULL,
			ai_summary TEXT NOT NULL,
			ai_recommended_actions TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`ALTER TABLE submissions ADD COLUMN IF NOT EXISTS predicted_rating INTEGER`,
		`ALTER TABLE submissions ADD COLUMN IF NOT EXISTS prediction_explanation TEXT`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensuring submissions schema: %w", err)
		}
	}
	return nil
}

func (r *repo) Save(ctx context.Context, sub *Submission) error {
	var stars sql.NullInt64
	var explanation sql.NullString
	if sub.Prediction != nil {
		stars = sql.NullInt64{Int64: int64(sub.Prediction.Stars), Valid: true}
		explanation = sql.NullString{String: sub.Prediction.Explanation, Valid: true}
	}

	row := r.db.QueryRowContext(ctx, `
		INSERT INTO submissions
			(rating, review_text, predicted_rating, prediction_explanation,
			 ai_response, ai_summary, ai_recommended_actions)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`,
		sub.Review.Rating,
		sub.Review.Text,
		stars,
		explanation,
		sub.Content.Reply,
		sub.Content.Summary,
		sub.Content.RecommendedActions,
	)

	if err := row.Scan(&sub.ID, &sub.CreatedAt); err != nil {
		return fmt.Errorf("inserting submission: %w", err)
	}
	return nil
}

func (r *repo) List(ctx context.Context) ([]Submission, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, rating, review_text, predicted_rating, prediction_explanation,
		       ai_response, ai_summary, ai_recommended_actions, created_at
		FROM submissions
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying submissions: %w", err)
	}
	defer rows.Close()

	var out []Submission
	for rows.Next() {
		var sub Submission
		var stars sql.NullInt64
		var explanation sql.NullString
		if err := rows.Scan(
			&sub.ID,
			&sub.Review.Rating,
			&sub.Review.Text,
			&stars,
			&explanation,
			&sub.Content.Reply,
			&sub.Content.Summary,
			&sub.Content.RecommendedActions,
			&sub.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning submission: %w", err)
		}
		if stars.Valid {
			sub.Prediction = &RatingPrediction{
				Stars:       int(stars.Int64),
				Explanation: explanation.String,
			}
		}
		out = append(out, sub)
	}

	return out, rows.Err()
}
