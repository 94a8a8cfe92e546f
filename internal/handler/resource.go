package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/staysafe/stay-safe-api/internal/repository"
)

// ResourceHandler serves the campus resource directory. All routes are
// public reads.
type ResourceHandler struct {
	Resources *repository.ResourceRepo
}

func NewResourceHandler(resources *repository.ResourceRepo) *ResourceHandler {
	return &ResourceHandler{Resources: resources}
}

type resourceResp struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Type            string    `json:"type"`
	Category        string    `json:"category"`
	Address         string    `json:"address"`
	City            string    `json:"city"`
	Phone           *string   `json:"phone,omitempty"`
	Email           *string   `json:"email,omitempty"`
	Website         *string   `json:"website,omitempty"`
	Hours           *string   `json:"hours,omitempty"`
	Services        []string  `json:"services"`
	CostInfo        *string   `json:"costInfo,omitempty"`
	StudentFriendly bool      `json:"studentFriendly"`
	FreeServices    []string  `json:"freeServices,omitempty"`
	Latitude        *float64  `json:"latitude,omitempty"`
	Longitude       *float64  `json:"longitude,omitempty"`
	Verified        bool      `json:"verified"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// List returns resources filtered by type, category, city, student
// friendliness and free-text search.
func (h *ResourceHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	resources, err := h.Resources.List(ctx, repository.ResourceFilter{
		Type:            c.QueryParam("type"),
		Category:        c.QueryParam("category"),
		City:            c.QueryParam("city"),
		StudentFriendly: boolQuery(c, "studentFriendly"),
		Search:          c.QueryParam("search"),
		Limit:           intQuery(c, "limit", 100),
	})
	if err != nil {
		return fail(c, http.StatusInternalServerError, "database error")
	}
	return respond(c, http.StatusOK, toResources(resources))
}

// ByID returns one resource.
func (h *ResourceHandler) ByID(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	res, err := h.Resources.GetByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, "resource not found")
		}
		return fail(c, http.StatusInternalServerError, "database error")
	}
	return respond(c, http.StatusOK, toResource(res))
}

// ByType lists resources of one type.
func (h *ResourceHandler) ByType(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	resources, err := h.Resources.ListByType(ctx, c.Param("type"), intQuery(c, "limit", 20))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "database error")
	}
	return respond(c, http.StatusOK, toResources(resources))
}

// ByCategory lists resources in one category.
func (h *ResourceHandler) ByCategory(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	resources, err := h.Resources.ListByCategory(ctx, c.Param("category"), intQuery(c, "limit", 20))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "database error")
	}
	return respond(c, http.StatusOK, toResources(resources))
}

func toResource(r repository.CampusResource) resourceResp {
	return resourceResp{
		ID:              r.ID,
		Name:            r.Name,
		Type:            r.Type,
		Category:        r.Category,
		Address:         r.Address,
		City:            r.City,
		Phone:           nullStr(r.Phone),
		Email:           nullStr(r.Email),
		Website:         nullStr(r.Website),
		Hours:           nullStr(r.Hours),
		Services:        r.Services,
		CostInfo:        nullStr(r.CostInfo),
		StudentFriendly: r.StudentFriendly,
		FreeServices:    r.FreeServices,
		Latitude:        nullFloat(r.Latitude),
		Longitude:       nullFloat(r.Longitude),
		Verified:        r.Verified,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func toResources(list []repository.CampusResource) []resourceResp {
	out := make([]resourceResp, 0, len(list))
	for _, r := range list {
		out = append(out, toResource(r))
	}
	return out
}
