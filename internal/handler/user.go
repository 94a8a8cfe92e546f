package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/staysafe/stay-safe-api/internal/config"
	"github.com/staysafe/stay-safe-api/internal/middleware"
	"github.com/staysafe/stay-safe-api/internal/repository"
	"github.com/staysafe/stay-safe-api/internal/utils"
)

// UserHandler bundles dependencies for identity endpoints.
type UserHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewUserHandler(cfg config.Config, users *repository.UserRepo) *UserHandler {
	return &UserHandler{Cfg: cfg, Users: users}
}

// ----- DTOs -----

type registerReq struct {
	Username      string  `json:"username" validate:"required,min=3,max=50"`
	Email         *string `json:"email" validate:"omitempty,email"`
	Age           int     `json:"age" validate:"required,min=13,max=120"`
	Gender        *string `json:"gender" validate:"omitempty,oneof=male female non-binary prefer-not-to-say other"`
	Password      string  `json:"password" validate:"required,min=8,password"`
	TermsAccepted bool    `json:"termsAccepted" validate:"eq=true"`
}

type loginReq struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=8"`
}

type updateProfileReq struct {
	Username *string `json:"username" validate:"omitempty,min=3,max=50"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Age      *int    `json:"age" validate:"omitempty,min=13,max=120"`
	Gender   *string `json:"gender" validate:"omitempty,oneof=male female non-binary prefer-not-to-say other"`
	Location *string `json:"location"`
}

type updatePreferencesReq struct {
	NotificationsEnabled *bool   `json:"notificationsEnabled"`
	DataSharing          *bool   `json:"dataSharing"`
	Language             *string `json:"language" validate:"omitempty,min=2,max=10"`
	Theme                *string `json:"theme" validate:"omitempty,oneof=light dark system"`
	PrivacyLevel         *string `json:"privacyLevel" validate:"omitempty,oneof=minimal standard maximum"`
}

type profileResp struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     *string   `json:"email,omitempty"`
	Age       int       `json:"age"`
	Gender    *string   `json:"gender,omitempty"`
	Location  *string   `json:"location,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type preferencesResp struct {
	UserID               string `json:"userId"`
	NotificationsEnabled bool   `json:"notificationsEnabled"`
	DataSharing          bool   `json:"dataSharing"`
	Language             string `json:"language"`
	Theme                string `json:"theme"`
	PrivacyLevel         string `json:"privacyLevel"`
}

type authResp struct {
	User  profileResp `json:"user"`
	Token string      `json:"token"`
}

// Register creates the user with default preferences and returns the
// profile plus a session token. Duplicate username/email surfaces as a 409
// from the store's unique constraint; there is no pre-check.
func (h *UserHandler) Register(c echo.Context) error {
	var req registerReq
	if !bindAndValidate(c, &req) {
		return nil
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	id, err := h.Users.Create(ctx, repository.NewUser{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Age:      req.Age,
		Gender:   req.Gender,
	}, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return fail(c, http.StatusConflict, "username or email already exists")
		}
		return fail(c, http.StatusInternalServerError, "create user failed")
	}

	user, err := h.Users.GetByID(ctx, id)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "load user failed")
	}
	token, err := utils.NewSessionToken(h.Cfg.JWTSecret, id, h.Cfg.TokenTTLDays)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "issue token failed")
	}
	return respond(c, http.StatusCreated, authResp{User: toProfile(user), Token: token.Token})
}

// Login verifies the password hash. Unknown username and wrong password are
// indistinguishable to the caller.
func (h *UserHandler) Login(c echo.Context) error {
	var req loginReq
	if !bindAndValidate(c, &req) {
		return nil
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	user, err := h.Users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusUnauthorized, "invalid username or password")
		}
		return fail(c, http.StatusInternalServerError, "query failed")
	}
	if !utils.VerifyPassword(user.PasswordHash, req.Password) {
		return fail(c, http.StatusUnauthorized, "invalid username or password")
	}

	token, err := utils.NewSessionToken(h.Cfg.JWTSecret, user.ID, h.Cfg.TokenTTLDays)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "issue token failed")
	}
	return respond(c, http.StatusOK, authResp{User: toProfile(user), Token: token.Token})
}

// Me returns the authenticated user's profile.
func (h *UserHandler) Me(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	user, err := h.Users.GetByID(ctx, middleware.UserID(c))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, "user not found")
		}
		return fail(c, http.StatusInternalServerError, "query failed")
	}
	return respond(c, http.StatusOK, toProfile(user))
}

// UpdateMe applies a partial profile update. Zero changed fields still
// returns the current record.
func (h *UserHandler) UpdateMe(c echo.Context) error {
	var req updateProfileReq
	if !bindAndValidate(c, &req) {
		return nil
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	user, err := h.Users.Update(ctx, middleware.UserID(c), repository.UserUpdate{
		Username: req.Username,
		Email:    req.Email,
		Age:      req.Age,
		Gender:   req.Gender,
		Location: req.Location,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return fail(c, http.StatusNotFound, "user not found")
		case errors.Is(err, repository.ErrDuplicate):
			return fail(c, http.StatusConflict, "username or email already exists")
		}
		return fail(c, http.StatusInternalServerError, "update failed")
	}
	return respond(c, http.StatusOK, toProfile(user))
}

// DeleteMe removes the account. Preferences, assessments, bookmarks and
// interactions cascade with it.
func (h *UserHandler) DeleteMe(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Users.Delete(ctx, middleware.UserID(c)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, "user not found")
		}
		return fail(c, http.StatusInternalServerError, "delete failed")
	}
	return respond(c, http.StatusOK, echo.Map{"message": "account deleted successfully"})
}

// GetPreferences returns the caller's preferences record.
func (h *UserHandler) GetPreferences(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	prefs, err := h.Users.GetPreferences(ctx, middleware.UserID(c))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, "preferences not found")
		}
		return fail(c, http.StatusInternalServerError, "query failed")
	}
	return respond(c, http.StatusOK, toPreferences(prefs))
}

// UpdatePreferences applies a partial preferences update.
func (h *UserHandler) UpdatePreferences(c echo.Context) error {
	var req updatePreferencesReq
	if !bindAndValidate(c, &req) {
		return nil
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	prefs, err := h.Users.UpdatePreferences(ctx, middleware.UserID(c), repository.PreferencesUpdate{
		NotificationsEnabled: req.NotificationsEnabled,
		DataSharing:          req.DataSharing,
		Language:             req.Language,
		Theme:                req.Theme,
		PrivacyLevel:         req.PrivacyLevel,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, "preferences not found")
		}
		return fail(c, http.StatusInternalServerError, "update failed")
	}
	return respond(c, http.StatusOK, toPreferences(prefs))
}

// ----- helpers -----

func toProfile(u repository.User) profileResp {
	return profileResp{
		ID:        u.ID,
		Username:  u.Username,
		Email:     nullStr(u.Email),
		Age:       u.Age,
		Gender:    nullStr(u.Gender),
		Location:  nullStr(u.Location),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toPreferences(p repository.Preferences) preferencesResp {
	return preferencesResp{
		UserID:               p.UserID,
		NotificationsEnabled: p.NotificationsEnabled,
		DataSharing:          p.DataSharing,
		Language:             p.Language,
		Theme:                p.Theme,
		PrivacyLevel:         p.PrivacyLevel,
	}
}

func nullStr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

func nullFloat(nf sql.NullFloat64) *float64 {
	if !nf.Valid {
		return nil
	}
	return &nf.Float64
}

// reqCtx bounds one handler's database work.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}
