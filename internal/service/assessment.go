// Package service holds the assessment workflow: the one component in this
// system with decision logic. Submission composes a user lookup, a single
// best-effort advisory call with a deterministic fallback, persistence with
// a 30-day expiry and an audit log append.
package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/staysafe/stay-safe-api/internal/advisory"
	"github.com/staysafe/stay-safe-api/internal/repository"
)

// ErrForbidden is returned when a caller addresses an assessment owned by a
// different user. Ownership is enforced here, in the workflow, so no call
// site can forget the check.
var ErrForbidden = errors.New("forbidden")

// ErrInvalidCategory rejects a submission whose category is outside the
// fixed enumeration.
var ErrInvalidCategory = errors.New("invalid assessment category")

// ErrEmptyResponses rejects a submission with no answered questions.
// Checked before any persistence or external call.
var ErrEmptyResponses = errors.New("responses must be a non-empty array")

// assessmentCategories is the fixed enumeration of questionnaire types.
var assessmentCategories = map[string]bool{
	"contraception":    true,
	"sti-risk":         true,
	"pregnancy":        true,
	"menstrual-health": true,
	"sexual-health":    true,
	"mental-health":    true,
	"general-wellness": true,
}

// ValidCategory reports whether c names a known questionnaire type.
func ValidCategory(c string) bool { return assessmentCategories[c] }

// The fallback result substituted when the advisory call fails for any
// reason. Assessment submission never blocks on third-party availability.
const fallbackAnalysis = "AI analysis is currently unavailable. Please consult with a healthcare provider for personalized advice."

func fallbackRecommendations() []string {
	return []string{
		"Schedule a consultation with a healthcare provider",
		"Keep track of your health concerns",
		"Stay informed about sexual and reproductive health",
	}
}

const assessmentTTL = 30 * 24 * time.Hour

// Analyzer is the advisory capability the workflow depends on.
type Analyzer interface {
	AnalyzeAssessment(ctx context.Context, actx advisory.Context) (advisory.Result, error)
}

// UserDirectory resolves the submitting user's demographics.
type UserDirectory interface {
	GetByID(ctx context.Context, id string) (repository.User, error)
}

// AssessmentStore is the persistence surface of the workflow.
type AssessmentStore interface {
	Insert(ctx context.Context, a repository.Assessment) (string, error)
	GetByID(ctx context.Context, id string) (repository.Assessment, error)
	History(ctx context.Context, userID string, limit int) ([]repository.AssessmentSummary, int, error)
	ListByCategory(ctx context.Context, userID, category string) ([]repository.Assessment, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context, userID string) ([]repository.CategoryStats, error)
}

// InteractionLog appends to the user-interaction audit trail.
type InteractionLog interface {
	Log(ctx context.Context, userID, interactionType, resourceID string) error
}

// EventPublisher announces completed assessments to interested consumers.
// Publishing is strictly best-effort.
type EventPublisher func(ctx context.Context, assessment repository.Assessment) error

// AssessmentService implements the workflow. All collaborators are injected
// at construction; Publisher and Log may be nil in tests.
type AssessmentService struct {
	Users        UserDirectory
	Store        AssessmentStore
	Interactions InteractionLog
	Advisor      Analyzer
	Publish      EventPublisher
	Logger       *zap.Logger
}

// Submit runs the full submission contract and returns the stored record,
// re-read from the store so the caller sees exactly what was durably
// written.
func (s *AssessmentService) Submit(ctx context.Context, userID, category string, responses []advisory.QuestionResponse) (repository.Assessment, error) {
	if !ValidCategory(category) {
		return repository.Assessment{}, ErrInvalidCategory
	}
	if len(responses) == 0 {
		return repository.Assessment{}, ErrEmptyResponses
	}

	// The one place a missing collaborator aborts the whole operation.
	user, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return repository.Assessment{}, err
	}

	result, aiFailed := s.analyze(ctx, user, category, responses)

	rawResponses, err := json.Marshal(responses)
	if err != nil {
		return repository.Assessment{}, err
	}
	rawResources, err := json.Marshal(result.Resources)
	if err != nil {
		return repository.Assessment{}, err
	}

	now := time.Now().UTC()
	record := repository.Assessment{
		UserID:          userID,
		Category:        category,
		RiskLevel:       result.RiskLevel,
		Score:           result.Score,
		Responses:       rawResponses,
		Recommendations: result.Recommendations,
		Resources:       rawResources,
		CreatedAt:       now,
		ExpiresAt:       now.Add(assessmentTTL),
	}
	if !aiFailed {
		record.AIAnalysis = sql.NullString{String: result.Analysis, Valid: true}
	}

	id, err := s.Store.Insert(ctx, record)
	if err != nil {
		return repository.Assessment{}, err
	}

	if s.Interactions != nil {
		if err := s.Interactions.Log(ctx, userID, "assessment", id); err != nil {
			s.Logger.Warn("interaction log append failed", zap.Error(err))
		}
	}

	stored, err := s.Store.GetByID(ctx, id)
	if err != nil {
		return repository.Assessment{}, err
	}

	if s.Publish != nil {
		if err := s.Publish(ctx, stored); err != nil {
			s.Logger.Warn("assessment event publish failed", zap.Error(err))
		}
	}
	return stored, nil
}

// analyze attempts the advisory call once. Any failure substitutes the
// deterministic fallback; the second return reports whether that happened.
func (s *AssessmentService) analyze(ctx context.Context, user repository.User, category string, responses []advisory.QuestionResponse) (advisory.Result, bool) {
	result, err := s.Advisor.AnalyzeAssessment(ctx, advisory.Context{
		UserAge:    user.Age,
		UserGender: user.Gender.String,
		Category:   category,
		Responses:  responses,
	})
	if err != nil {
		s.Logger.Warn("advisory analysis failed, using fallback", zap.Error(err))
		return advisory.Result{
			Analysis:        fallbackAnalysis,
			RiskLevel:       advisory.RiskModerate,
			Score:           50,
			Recommendations: fallbackRecommendations(),
			Resources:       []advisory.Resource{},
		}, true
	}
	s.Logger.Info("advisory analysis succeeded",
		zap.String("risk_level", result.RiskLevel), zap.Int("score", result.Score))
	return result, false
}

// GetByID returns one assessment, enforcing that callerID owns it.
func (s *AssessmentService) GetByID(ctx context.Context, callerID, id string) (repository.Assessment, error) {
	a, err := s.Store.GetByID(ctx, id)
	if err != nil {
		return repository.Assessment{}, err
	}
	if a.UserID != callerID {
		return repository.Assessment{}, ErrForbidden
	}
	return a, nil
}

// History returns up to limit summaries plus the total count.
func (s *AssessmentService) History(ctx context.Context, userID string, limit int) ([]repository.AssessmentSummary, int, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.Store.History(ctx, userID, limit)
}

// ByCategory returns the caller's assessments in one category.
func (s *AssessmentService) ByCategory(ctx context.Context, userID, category string) ([]repository.Assessment, error) {
	if !ValidCategory(category) {
		return nil, ErrInvalidCategory
	}
	return s.Store.ListByCategory(ctx, userID, category)
}

// Delete removes an assessment after the ownership check.
func (s *AssessmentService) Delete(ctx context.Context, callerID, id string) error {
	a, err := s.Store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if a.UserID != callerID {
		return ErrForbidden
	}
	return s.Store.Delete(ctx, id)
}

// Stats aggregates the caller's submissions per category.
func (s *AssessmentService) Stats(ctx context.Context, userID string) ([]repository.CategoryStats, error) {
	return s.Store.Stats(ctx, userID)
}
