package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Article mirrors the 'articles' table. Tags are stored as a JSON array in
// a text column, matching the catalog's seed format.
type Article struct {
	ID          string
	Title       string
	Slug        string
	Category    string
	Subcategory sql.NullString
	Content     string
	Summary     string
	Author      string
	ReadTime    int
	Tags        []string
	Featured    bool
	ImageURL    sql.NullString
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Bookmark mirrors the 'article_bookmarks' join table.
type Bookmark struct {
	ID        string
	UserID    string
	ArticleID string
	CreatedAt time.Time
}

// ArticleFilter narrows List results. Nil/empty fields are ignored. Search
// is a case-insensitive substring match over title, content and tags.
type ArticleFilter struct {
	Category string
	Featured *bool
	Search   string
	Limit    int
	Offset   int
}

type ArticleRepo struct{ DB *sql.DB }

func NewArticleRepo(db *sql.DB) *ArticleRepo { return &ArticleRepo{DB: db} }

const articleColumns = "id,title,slug,category,subcategory,content,summary,author,read_time,tags,featured,image_url,created_at,updated_at"

// articleListQuery builds the filtered SELECT for List. Split out so the
// filter-to-SQL mapping stays testable without a database.
func articleListQuery(f ArticleFilter) (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT " + articleColumns + " FROM articles WHERE 1=1")
	args := []any{}
	if f.Category != "" {
		b.WriteString(" AND category=?")
		args = append(args, f.Category)
	}
	if f.Featured != nil {
		b.WriteString(" AND featured=?")
		args = append(args, *f.Featured)
	}
	if f.Search != "" {
		b.WriteString(" AND (LOWER(title) LIKE ? OR LOWER(content) LIKE ? OR LOWER(tags) LIKE ?)")
		term := "%" + strings.ToLower(f.Search) + "%"
		args = append(args, term, term, term)
	}
	b.WriteString(" ORDER BY created_at DESC")
	if f.Limit > 0 {
		b.WriteString(" LIMIT ?")
		args = append(args, f.Limit)
		if f.Offset > 0 {
			b.WriteString(" OFFSET ?")
			args = append(args, f.Offset)
		}
	}
	return b.String(), args
}

// List returns articles matching the filter, newest first.
func (r *ArticleRepo) List(ctx context.Context, f ArticleFilter) ([]Article, error) {
	query, args := articleListQuery(f)
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanArticles(rows)
}

// Featured returns up to limit featured articles, newest first.
func (r *ArticleRepo) Featured(ctx context.Context, limit int) ([]Article, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+articleColumns+" FROM articles WHERE featured=1 ORDER BY created_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanArticles(rows)
}

// GetBySlug fetches one article by its unique slug.
func (r *ArticleRepo) GetBySlug(ctx context.Context, slug string) (Article, error) {
	return scanArticle(r.DB.QueryRowContext(ctx,
		"SELECT "+articleColumns+" FROM articles WHERE slug=? LIMIT 1", slug))
}

// GetByID fetches one article by id.
func (r *ArticleRepo) GetByID(ctx context.Context, id string) (Article, error) {
	return scanArticle(r.DB.QueryRowContext(ctx,
		"SELECT "+articleColumns+" FROM articles WHERE id=? LIMIT 1", id))
}

// Create inserts an article. Used by content seeding only; end users never
// write to the catalog.
func (r *ArticleRepo) Create(ctx context.Context, a Article) (string, error) {
	id := uuid.NewString()
	tags, err := json.Marshal(a.Tags)
	if err != nil {
		return "", err
	}
	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO articles (id,title,slug,category,subcategory,content,summary,author,read_time,tags,featured,image_url) VALUES (?,?,?,?,?,?,?,?,?,?,?,?)",
		id, a.Title, a.Slug, a.Category, a.Subcategory, a.Content, a.Summary, a.Author, a.ReadTime, string(tags), a.Featured, a.ImageURL)
	if err != nil {
		if isDuplicateKey(err) {
			return "", ErrDuplicate
		}
		return "", err
	}
	return id, nil
}

// AddBookmark records that a user saved an article. A second bookmark on
// the same (user, article) pair is ErrDuplicate; bookmarking an article
// that does not exist is ErrNotFound.
func (r *ArticleRepo) AddBookmark(ctx context.Context, userID, articleID string) (Bookmark, error) {
	b := Bookmark{ID: uuid.NewString(), UserID: userID, ArticleID: articleID, CreatedAt: time.Now().UTC()}
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO article_bookmarks (id,user_id,article_id,created_at) VALUES (?,?,?,?)",
		b.ID, b.UserID, b.ArticleID, b.CreatedAt)
	if err != nil {
		if isDuplicateKey(err) {
			return Bookmark{}, ErrDuplicate
		}
		if isFKViolation(err) {
			return Bookmark{}, ErrNotFound
		}
		return Bookmark{}, err
	}
	return b, nil
}

// RemoveBookmark deletes a bookmark. Removing one that does not exist is a
// silent no-op.
func (r *ArticleRepo) RemoveBookmark(ctx context.Context, userID, articleID string) error {
	_, err := r.DB.ExecContext(ctx,
		"DELETE FROM article_bookmarks WHERE user_id=? AND article_id=?", userID, articleID)
	return err
}

// BookmarksFor returns the articles a user has bookmarked, most recently
// bookmarked first.
func (r *ArticleRepo) BookmarksFor(ctx context.Context, userID string) ([]Article, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT a.id,a.title,a.slug,a.category,a.subcategory,a.content,a.summary,a.author,a.read_time,a.tags,a.featured,a.image_url,a.created_at,a.updated_at "+
			"FROM articles a INNER JOIN article_bookmarks b ON a.id=b.article_id WHERE b.user_id=? ORDER BY b.created_at DESC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanArticles(rows)
}

func scanArticle(row *sql.Row) (Article, error) {
	var a Article
	var tags string
	err := row.Scan(&a.ID, &a.Title, &a.Slug, &a.Category, &a.Subcategory, &a.Content, &a.Summary,
		&a.Author, &a.ReadTime, &tags, &a.Featured, &a.ImageURL, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Article{}, ErrNotFound
	}
	if err != nil {
		return Article{}, err
	}
	a.Tags = parseTags(tags)
	return a, nil
}

func scanArticles(rows *sql.Rows) ([]Article, error) {
	out := []Article{}
	for rows.Next() {
		var a Article
		var tags string
		if err := rows.Scan(&a.ID, &a.Title, &a.Slug, &a.Category, &a.Subcategory, &a.Content, &a.Summary,
			&a.Author, &a.ReadTime, &tags, &a.Featured, &a.ImageURL, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		a.Tags = parseTags(tags)
		out = append(out, a)
	}
	return out, rows.Err()
}

func parseTags(raw string) []string {
	tags := []string{}
	if raw != "" {
		_ = json.Unmarshal([]byte(raw), &tags)
	}
	return tags
}
