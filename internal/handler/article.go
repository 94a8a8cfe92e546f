package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/staysafe/stay-safe-api/internal/middleware"
	"github.com/staysafe/stay-safe-api/internal/repository"
)

// ArticleHandler serves the read-only article library plus per-user
// bookmarks.
type ArticleHandler struct {
	Articles *repository.ArticleRepo
}

func NewArticleHandler(articles *repository.ArticleRepo) *ArticleHandler {
	return &ArticleHandler{Articles: articles}
}

type articleResp struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Category    string    `json:"category"`
	Subcategory *string   `json:"subcategory,omitempty"`
	Content     string    `json:"content"`
	Summary     string    `json:"summary"`
	Author      string    `json:"author"`
	ReadTime    int       `json:"readTime"`
	Tags        []string  `json:"tags"`
	Featured    bool      `json:"featured"`
	ImageURL    *string   `json:"imageUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type bookmarkResp struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ArticleID string    `json:"articleId"`
	CreatedAt time.Time `json:"createdAt"`
}

// List returns articles, optionally filtered by category, featured flag,
// free-text search and limit/offset.
func (h *ArticleHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	articles, err := h.Articles.List(ctx, repository.ArticleFilter{
		Category: c.QueryParam("category"),
		Featured: boolQuery(c, "featured"),
		Search:   c.QueryParam("search"),
		Limit:    intQuery(c, "limit", 50),
		Offset:   intQuery(c, "offset", 0),
	})
	if err != nil {
		return fail(c, http.StatusInternalServerError, "database error")
	}
	return respond(c, http.StatusOK, toArticles(articles))
}

// Featured returns the featured selection, newest first.
func (h *ArticleHandler) Featured(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	articles, err := h.Articles.Featured(ctx, intQuery(c, "limit", 6))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "database error")
	}
	return respond(c, http.StatusOK, toArticles(articles))
}

// BySlug returns one article by its unique slug.
func (h *ArticleHandler) BySlug(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	article, err := h.Articles.GetBySlug(ctx, c.Param("slug"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, "article not found")
		}
		return fail(c, http.StatusInternalServerError, "database error")
	}
	return respond(c, http.StatusOK, toArticle(article))
}

// AddBookmark saves an article for the caller. A second bookmark on the
// same article is a 409.
func (h *ArticleHandler) AddBookmark(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	bookmark, err := h.Articles.AddBookmark(ctx, middleware.UserID(c), c.Param("articleId"))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return fail(c, http.StatusConflict, "article already bookmarked")
		case errors.Is(err, repository.ErrNotFound):
			return fail(c, http.StatusNotFound, "article not found")
		}
		return fail(c, http.StatusInternalServerError, "database error")
	}
	return respond(c, http.StatusCreated, bookmarkResp{
		ID: bookmark.ID, UserID: bookmark.UserID, ArticleID: bookmark.ArticleID, CreatedAt: bookmark.CreatedAt,
	})
}

// RemoveBookmark deletes a bookmark; removing a non-existent one is a
// silent no-op.
func (h *ArticleHandler) RemoveBookmark(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Articles.RemoveBookmark(ctx, middleware.UserID(c), c.Param("articleId")); err != nil {
		return fail(c, http.StatusInternalServerError, "database error")
	}
	return respond(c, http.StatusOK, echo.Map{"message": "bookmark removed"})
}

// MyBookmarks lists the caller's bookmarked articles.
func (h *ArticleHandler) MyBookmarks(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	articles, err := h.Articles.BookmarksFor(ctx, middleware.UserID(c))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "database error")
	}
	return respond(c, http.StatusOK, toArticles(articles))
}

func toArticle(a repository.Article) articleResp {
	return articleResp{
		ID:          a.ID,
		Title:       a.Title,
		Slug:        a.Slug,
		Category:    a.Category,
		Subcategory: nullStr(a.Subcategory),
		Content:     a.Content,
		Summary:     a.Summary,
		Author:      a.Author,
		ReadTime:    a.ReadTime,
		Tags:        a.Tags,
		Featured:    a.Featured,
		ImageURL:    nullStr(a.ImageURL),
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func toArticles(list []repository.Article) []articleResp {
	out := make([]articleResp, 0, len(list))
	for _, a := range list {
		out = append(out, toArticle(a))
	}
	return out
}
