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

// CampusResource mirrors the 'campus_resources' table: a physical or
// hotline service (clinic, pharmacy, counseling center) with location and
// contact metadata. Service lists are stored as JSON arrays in text columns.
type CampusResource struct {
	ID              string
	Name            string
	Type            string // on-campus | clinic | pharmacy | counseling | hotline
	Category        string // testing | contraception | counseling | emergency | general
	Address         string
	City            string
	Phone           sql.NullString
	Email           sql.NullString
	Website         sql.NullString
	Hours           sql.NullString
	Services        []string
	CostInfo        sql.NullString
	StudentFriendly bool
	FreeServices    []string
	Latitude        sql.NullFloat64
	Longitude       sql.NullFloat64
	Verified        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ResourceFilter narrows List results; empty fields are ignored.
type ResourceFilter struct {
	Type            string
	Category        string
	City            string
	StudentFriendly *bool
	Search          string
	Limit           int
}

type ResourceRepo struct{ DB *sql.DB }

func NewResourceRepo(db *sql.DB) *ResourceRepo { return &ResourceRepo{DB: db} }

const resourceColumns = "id,name,type,category,address,city,phone,email,website,hours,services,cost_info,student_friendly,free_services,latitude,longitude,verified,created_at,updated_at"

// Student-friendly and verified resources sort first, then alphabetical.
const resourceOrder = " ORDER BY student_friendly DESC, verified DESC, name ASC"

// resourceListQuery builds the filtered SELECT for List.
func resourceListQuery(f ResourceFilter) (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT " + resourceColumns + " FROM campus_resources WHERE 1=1")
	args := []any{}
	if f.Type != "" {
		b.WriteString(" AND type=?")
		args = append(args, f.Type)
	}
	if f.Category != "" {
		b.WriteString(" AND category=?")
		args = append(args, f.Category)
	}
	if f.City != "" {
		b.WriteString(" AND city=?")
		args = append(args, f.City)
	}
	if f.StudentFriendly != nil {
		b.WriteString(" AND student_friendly=?")
		args = append(args, *f.StudentFriendly)
	}
	if f.Search != "" {
		b.WriteString(" AND (LOWER(name) LIKE ? OR LOWER(services) LIKE ? OR LOWER(address) LIKE ?)")
		term := "%" + strings.ToLower(f.Search) + "%"
		args = append(args, term, term, term)
	}
	b.WriteString(resourceOrder)
	if f.Limit > 0 {
		b.WriteString(" LIMIT ?")
		args = append(args, f.Limit)
	}
	return b.String(), args
}

// List returns resources matching the filter.
func (r *ResourceRepo) List(ctx context.Context, f ResourceFilter) ([]CampusResource, error) {
	query, args := resourceListQuery(f)
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanResources(rows)
}

// GetByID fetches one resource.
func (r *ResourceRepo) GetByID(ctx context.Context, id string) (CampusResource, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+resourceColumns+" FROM campus_resources WHERE id=? LIMIT 1", id)
	res, err := scanResourceRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return CampusResource{}, ErrNotFound
	}
	return res, err
}

// ListByType returns up to limit resources of one type.
func (r *ResourceRepo) ListByType(ctx context.Context, typ string, limit int) ([]CampusResource, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+resourceColumns+" FROM campus_resources WHERE type=?"+resourceOrder+" LIMIT ?", typ, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanResources(rows)
}

// ListByCategory returns up to limit resources in one category.
func (r *ResourceRepo) ListByCategory(ctx context.Context, category string, limit int) ([]CampusResource, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+resourceColumns+" FROM campus_resources WHERE category=?"+resourceOrder+" LIMIT ?", category, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanResources(rows)
}

// Create inserts a resource. Seeding only. A second resource with an
// already-taken name is ErrDuplicate.
func (r *ResourceRepo) Create(ctx context.Context, res CampusResource) (string, error) {
	id := uuid.NewString()
	services, err := json.Marshal(res.Services)
	if err != nil {
		return "", err
	}
	var freeServices any
	if len(res.FreeServices) > 0 {
		b, err := json.Marshal(res.FreeServices)
		if err != nil {
			return "", err
		}
		freeServices = string(b)
	}
	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO campus_resources (id,name,type,category,address,city,phone,email,website,hours,services,cost_info,student_friendly,free_services,latitude,longitude,verified) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)",
		id, res.Name, res.Type, res.Category, res.Address, res.City, res.Phone, res.Email, res.Website,
		res.Hours, string(services), res.CostInfo, res.StudentFriendly, freeServices, res.Latitude, res.Longitude, res.Verified)
	if err != nil {
		if isDuplicateKey(err) {
			return "", ErrDuplicate
		}
		return "", err
	}
	return id, nil
}

func scanResourceRow(row *sql.Row) (CampusResource, error) {
	var res CampusResource
	var services string
	var freeServices sql.NullString
	err := row.Scan(&res.ID, &res.Name, &res.Type, &res.Category, &res.Address, &res.City,
		&res.Phone, &res.Email, &res.Website, &res.Hours, &services, &res.CostInfo,
		&res.StudentFriendly, &freeServices, &res.Latitude, &res.Longitude, &res.Verified,
		&res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return CampusResource{}, err
	}
	res.Services = parseTags(services)
	if freeServices.Valid {
		res.FreeServices = parseTags(freeServices.String)
	}
	return res, nil
}

func scanResources(rows *sql.Rows) ([]CampusResource, error) {
	out := []CampusResource{}
	for rows.Next() {
		var res CampusResource
		var services string
		var freeServices sql.NullString
		if err := rows.Scan(&res.ID, &res.Name, &res.Type, &res.Category, &res.Address, &res.City,
			&res.Phone, &res.Email, &res.Website, &res.Hours, &services, &res.CostInfo,
			&res.StudentFriendly, &freeServices, &res.Latitude, &res.Longitude, &res.Verified,
			&res.CreatedAt, &res.UpdatedAt); err != nil {
			return nil, err
		}
		res.Services = parseTags(services)
		if freeServices.Valid {
			res.FreeServices = parseTags(freeServices.String)
		}
		out = append(out, res)
	}
	return out, rows.Err()
}
