package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func boolPtr(b bool) *bool { return &b }

func TestArticleListQuery(t *testing.T) {
	t.Run("no filter", func(t *testing.T) {
		query, args := articleListQuery(ArticleFilter{})
		assert.Equal(t, "SELECT "+articleColumns+" FROM articles WHERE 1=1 ORDER BY created_at DESC", query)
		assert.Empty(t, args)
	})

	t.Run("category and featured", func(t *testing.T) {
		query, args := articleListQuery(ArticleFilter{Category: "contraception", Featured: boolPtr(true)})
		assert.Contains(t, query, "AND category=?")
		assert.Contains(t, query, "AND featured=?")
		assert.Equal(t, []any{"contraception", true}, args)
	})

	t.Run("search lowercases and wraps term", func(t *testing.T) {
		query, args := articleListQuery(ArticleFilter{Search: "HPV Vaccine"})
		assert.Contains(t, query, "LOWER(title) LIKE ?")
		assert.Contains(t, query, "LOWER(content) LIKE ?")
		assert.Contains(t, query, "LOWER(tags) LIKE ?")
		assert.Equal(t, []any{"%hpv vaccine%", "%hpv vaccine%", "%hpv vaccine%"}, args)
	})

	t.Run("offset requires limit", func(t *testing.T) {
		query, args := articleListQuery(ArticleFilter{Offset: 20})
		assert.NotContains(t, query, "OFFSET")
		assert.Empty(t, args)

		query, args = articleListQuery(ArticleFilter{Limit: 10, Offset: 20})
		assert.Contains(t, query, "LIMIT ? OFFSET ?")
		assert.Equal(t, []any{10, 20}, args)
	})
}

func TestResourceListQuery(t *testing.T) {
	t.Run("no filter keeps default ordering", func(t *testing.T) {
		query, args := resourceListQuery(ResourceFilter{})
		assert.Equal(t, "SELECT "+resourceColumns+" FROM campus_resources WHERE 1=1"+resourceOrder, query)
		assert.Empty(t, args)
	})

	t.Run("all filters stack", func(t *testing.T) {
		query, args := resourceListQuery(ResourceFilter{
			Type:            "clinic",
			Category:        "testing",
			City:            "Nairobi",
			StudentFriendly: boolPtr(true),
			Search:          "HIV",
			Limit:           25,
		})
		assert.Contains(t, query, "AND type=?")
		assert.Contains(t, query, "AND category=?")
		assert.Contains(t, query, "AND city=?")
		assert.Contains(t, query, "AND student_friendly=?")
		assert.Contains(t, query, "LOWER(name) LIKE ?")
		assert.Contains(t, query, "LIMIT ?")
		assert.Equal(t, []any{"clinic", "testing", "Nairobi", true, "%hiv%", "%hiv%", "%hiv%", 25}, args)
	})

	t.Run("student friendly sorts before alphabetical", func(t *testing.T) {
		assert.Equal(t, " ORDER BY student_friendly DESC, verified DESC, name ASC", resourceOrder)
	})
}

func TestParseTags(t *testing.T) {
	assert.Equal(t, []string{"sti", "testing"}, parseTags(`["sti","testing"]`))
	assert.Empty(t, parseTags(""))
	assert.Empty(t, parseTags("not json"))
}
