package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/staysafe/stay-safe-api/internal/advisory"
	"github.com/staysafe/stay-safe-api/internal/middleware"
	"github.com/staysafe/stay-safe-api/internal/repository"
	"github.com/staysafe/stay-safe-api/internal/service"
)

// AssessmentHandler exposes the assessment workflow over HTTP. Ownership
// checks live inside the service; this layer only translates errors.
type AssessmentHandler struct {
	Svc *service.AssessmentService
}

func NewAssessmentHandler(svc *service.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{Svc: svc}
}

type submitAssessmentReq struct {
	Category  string                      `json:"category" validate:"required"`
	Responses []advisory.QuestionResponse `json:"responses"`
}

type assessmentResp struct {
	ID              string          `json:"id"`
	UserID          string          `json:"userId"`
	Category        string          `json:"category"`
	RiskLevel       string          `json:"riskLevel"`
	Score           int             `json:"score"`
	Responses       json.RawMessage `json:"responses"`
	AIAnalysis      *string         `json:"aiAnalysis,omitempty"`
	Recommendations []string        `json:"recommendations"`
	Resources       json.RawMessage `json:"resources"`
	CreatedAt       time.Time       `json:"createdAt"`
	ExpiresAt       time.Time       `json:"expiresAt"`
}

type assessmentSummaryResp struct {
	ID          string    `json:"id"`
	Category    string    `json:"category"`
	RiskLevel   string    `json:"riskLevel"`
	Score       int       `json:"score"`
	CompletedAt time.Time `json:"completedAt"`
}

type historyResp struct {
	UserID           string                  `json:"userId"`
	Assessments      []assessmentSummaryResp `json:"assessments"`
	TotalAssessments int                     `json:"totalAssessments"`
}

type categoryStatsResp struct {
	Category       string    `json:"category"`
	Count          int       `json:"count"`
	AverageScore   float64   `json:"averageScore"`
	LastAssessment time.Time `json:"lastAssessment"`
}

// Submit runs the submission workflow for the authenticated user and
// returns the stored record.
func (h *AssessmentHandler) Submit(c echo.Context) error {
	var req submitAssessmentReq
	if !bindAndValidate(c, &req) {
		return nil
	}

	stored, err := h.Svc.Submit(c.Request().Context(), middleware.UserID(c), req.Category, req.Responses)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCategory), errors.Is(err, service.ErrEmptyResponses):
			return fail(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, repository.ErrNotFound):
			return fail(c, http.StatusNotFound, "user not found")
		}
		return fail(c, http.StatusInternalServerError, "assessment submission failed")
	}
	return respond(c, http.StatusCreated, toAssessment(stored))
}

// GetByID returns one assessment owned by the caller.
func (h *AssessmentHandler) GetByID(c echo.Context) error {
	a, err := h.Svc.GetByID(c.Request().Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		return assessmentError(c, err)
	}
	return respond(c, http.StatusOK, toAssessment(a))
}

// History lists the caller's recent assessments plus a total count.
func (h *AssessmentHandler) History(c echo.Context) error {
	limit := intQuery(c, "limit", 10)
	summaries, total, err := h.Svc.History(c.Request().Context(), middleware.UserID(c), limit)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "query failed")
	}
	out := make([]assessmentSummaryResp, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, assessmentSummaryResp{
			ID: s.ID, Category: s.Category, RiskLevel: s.RiskLevel, Score: s.Score, CompletedAt: s.CompletedAt,
		})
	}
	return respond(c, http.StatusOK, historyResp{
		UserID:           middleware.UserID(c),
		Assessments:      out,
		TotalAssessments: total,
	})
}

// ByCategory lists the caller's assessments in one category.
func (h *AssessmentHandler) ByCategory(c echo.Context) error {
	list, err := h.Svc.ByCategory(c.Request().Context(), middleware.UserID(c), c.Param("category"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidCategory) {
			return fail(c, http.StatusBadRequest, err.Error())
		}
		return fail(c, http.StatusInternalServerError, "query failed")
	}
	out := make([]assessmentResp, 0, len(list))
	for _, a := range list {
		out = append(out, toAssessment(a))
	}
	return respond(c, http.StatusOK, out)
}

// Stats aggregates the caller's submissions per category.
func (h *AssessmentHandler) Stats(c echo.Context) error {
	stats, err := h.Svc.Stats(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "query failed")
	}
	out := make([]categoryStatsResp, 0, len(stats))
	for _, s := range stats {
		out = append(out, categoryStatsResp{
			Category: s.Category, Count: s.Count, AverageScore: s.AverageScore, LastAssessment: s.LastAssessment,
		})
	}
	return respond(c, http.StatusOK, out)
}

// Delete removes one assessment owned by the caller.
func (h *AssessmentHandler) Delete(c echo.Context) error {
	if err := h.Svc.Delete(c.Request().Context(), middleware.UserID(c), c.Param("id")); err != nil {
		return assessmentError(c, err)
	}
	return respond(c, http.StatusOK, echo.Map{"message": "assessment deleted successfully"})
}

func assessmentError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return fail(c, http.StatusNotFound, "assessment not found")
	case errors.Is(err, service.ErrForbidden):
		return fail(c, http.StatusForbidden, "access denied")
	}
	return fail(c, http.StatusInternalServerError, "query failed")
}

func toAssessment(a repository.Assessment) assessmentResp {
	resp := assessmentResp{
		ID:              a.ID,
		UserID:          a.UserID,
		Category:        a.Category,
		RiskLevel:       a.RiskLevel,
		Score:           a.Score,
		Responses:       a.Responses,
		Recommendations: a.Recommendations,
		Resources:       a.Resources,
		CreatedAt:       a.CreatedAt,
		ExpiresAt:       a.ExpiresAt,
	}
	if a.AIAnalysis.Valid {
		resp.AIAnalysis = &a.AIAnalysis.String
	}
	return resp
}
