package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/staysafe/stay-safe-api/internal/advisory"
	"github.com/staysafe/stay-safe-api/internal/middleware"
	"github.com/staysafe/stay-safe-api/internal/repository"
)

// AIHandler exposes the free-form advisory endpoints. Unlike assessment
// submission these have no fallback: an upstream failure surfaces as a 502.
type AIHandler struct {
	Users    *repository.UserRepo
	Advisory *advisory.Client
}

func NewAIHandler(users *repository.UserRepo, client *advisory.Client) *AIHandler {
	return &AIHandler{Users: users, Advisory: client}
}

type chatReq struct {
	Message string             `json:"message" validate:"required"`
	History []advisory.Message `json:"history"`
}

// Chat forwards a user message plus prior turns to the advisory service
// and returns the raw reply.
func (h *AIHandler) Chat(c echo.Context) error {
	var req chatReq
	if !bindAndValidate(c, &req) {
		return nil
	}

	reply, err := h.Advisory.Chat(c.Request().Context(), req.Message, req.History)
	if err != nil {
		return fail(c, http.StatusBadGateway, "advisory service unavailable")
	}
	return respond(c, http.StatusOK, echo.Map{
		"message":   reply,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthTips generates personalized tips from the caller's profile. Tip
// generation failures resolve to an empty list, never an error.
func (h *AIHandler) HealthTips(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	user, err := h.Users.GetByID(ctx, middleware.UserID(c))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, "user not found")
		}
		return fail(c, http.StatusInternalServerError, "query failed")
	}

	tips := h.Advisory.HealthTips(c.Request().Context(), user.Age, user.Gender.String)
	return respond(c, http.StatusOK, echo.Map{"tips": tips})
}
