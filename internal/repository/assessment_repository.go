package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Assessment mirrors the 'assessments' table. Responses and resources are
// kept as raw JSON: the store never interprets them, it only guarantees
// they round-trip to the caller exactly as submitted/produced. AIAnalysis
// is NULL when the advisory call failed and the fallback result was stored.
type Assessment struct {
	ID              string
	UserID          string
	Category        string
	RiskLevel       string
	Score           int
	Responses       json.RawMessage
	AIAnalysis      sql.NullString
	Recommendations []string
	Resources       json.RawMessage
	CreatedAt       time.Time
	ExpiresAt       time.Time
}

// AssessmentSummary is the compact shape returned in history listings.
type AssessmentSummary struct {
	ID          string
	Category    string
	RiskLevel   string
	Score       int
	CompletedAt time.Time
}

// CategoryStats aggregates one user's assessments per category.
type CategoryStats struct {
	Category       string
	Count          int
	AverageScore   float64
	LastAssessment time.Time
}

type AssessmentRepo struct{ DB *sql.DB }

func NewAssessmentRepo(db *sql.DB) *AssessmentRepo { return &AssessmentRepo{DB: db} }

const assessmentColumns = "id,user_id,category,risk_level,score,responses,ai_analysis,recommendations,resources,created_at,expires_at"

// Insert persists an assessment with explicit created/expiry timestamps and
// returns the generated id. Rows are immutable once written.
func (r *AssessmentRepo) Insert(ctx context.Context, a Assessment) (string, error) {
	id := uuid.NewString()
	recs, err := json.Marshal(a.Recommendations)
	if err != nil {
		return "", err
	}
	resources := a.Resources
	if len(resources) == 0 {
		resources = json.RawMessage("[]")
	}
	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO assessments (id,user_id,category,risk_level,score,responses,ai_analysis,recommendations,resources,created_at,expires_at) VALUES (?,?,?,?,?,?,?,?,?,?,?)",
		id, a.UserID, a.Category, a.RiskLevel, a.Score, string(a.Responses), a.AIAnalysis,
		string(recs), string(resources), a.CreatedAt, a.ExpiresAt)
	if err != nil {
		if isFKViolation(err) {
			return "", ErrNotFound
		}
		return "", err
	}
	return id, nil
}

// GetByID fetches one assessment.
func (r *AssessmentRepo) GetByID(ctx context.Context, id string) (Assessment, error) {
	var a Assessment
	var responses, recs, resources string
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+assessmentColumns+" FROM assessments WHERE id=? LIMIT 1", id).
		Scan(&a.ID, &a.UserID, &a.Category, &a.RiskLevel, &a.Score, &responses, &a.AIAnalysis,
			&recs, &resources, &a.CreatedAt, &a.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Assessment{}, ErrNotFound
	}
	if err != nil {
		return Assessment{}, err
	}
	a.Responses = json.RawMessage(responses)
	a.Resources = json.RawMessage(resources)
	a.Recommendations = parseTags(recs)
	return a, nil
}

// History returns up to limit summaries (newest first) plus the total count
// of assessments the user has ever submitted.
func (r *AssessmentRepo) History(ctx context.Context, userID string, limit int) ([]AssessmentSummary, int, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,category,risk_level,score,created_at FROM assessments WHERE user_id=? ORDER BY created_at DESC LIMIT ?",
		userID, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []AssessmentSummary{}
	for rows.Next() {
		var s AssessmentSummary
		if err := rows.Scan(&s.ID, &s.Category, &s.RiskLevel, &s.Score, &s.CompletedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM assessments WHERE user_id=?", userID).Scan(&total); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// ListByCategory returns a user's assessments in one category, newest first.
func (r *AssessmentRepo) ListByCategory(ctx context.Context, userID, category string) ([]Assessment, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+assessmentColumns+" FROM assessments WHERE user_id=? AND category=? ORDER BY created_at DESC",
		userID, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Assessment{}
	for rows.Next() {
		var a Assessment
		var responses, recs, resources string
		if err := rows.Scan(&a.ID, &a.UserID, &a.Category, &a.RiskLevel, &a.Score, &responses,
			&a.AIAnalysis, &recs, &resources, &a.CreatedAt, &a.ExpiresAt); err != nil {
			return nil, err
		}
		a.Responses = json.RawMessage(responses)
		a.Resources = json.RawMessage(resources)
		a.Recommendations = parseTags(recs)
		out = append(out, a)
	}
	return out, rows.Err()
}

// Delete removes an assessment.
func (r *AssessmentRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM assessments WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Stats aggregates count, average score and last submission time per
// category for one user.
func (r *AssessmentRepo) Stats(ctx context.Context, userID string) ([]CategoryStats, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT category, COUNT(*), AVG(score), MAX(created_at) FROM assessments WHERE user_id=? GROUP BY category",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []CategoryStats{}
	for rows.Next() {
		var s CategoryStats
		if err := rows.Scan(&s.Category, &s.Count, &s.AverageScore, &s.LastAssessment); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
