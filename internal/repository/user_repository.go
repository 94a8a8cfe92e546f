package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/staysafe/stay-safe-api/internal/utils"
)

// User mirrors the 'users' table.
type User struct {
	ID           string
	Username     string
	Email        sql.NullString
	PasswordHash string
	Age          int
	Gender       sql.NullString
	Location     sql.NullString
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Preferences mirrors the 'user_preferences' table. One row per user,
// created with defaults at registration.
type Preferences struct {
	UserID               string
	NotificationsEnabled bool
	DataSharing          bool
	Language             string
	Theme                string
	PrivacyLevel         string
}

// NewUser carries the fields accepted at registration.
type NewUser struct {
	Username string
	Email    *string
	Password string
	Age      int
	Gender   *string
}

// UserUpdate carries optional profile changes; nil means "leave unchanged".
type UserUpdate struct {
	Username *string
	Email    *string
	Age      *int
	Gender   *string
	Location *string
}

// PreferencesUpdate carries optional preference changes.
type PreferencesUpdate struct {
	NotificationsEnabled *bool
	DataSharing          *bool
	Language             *string
	Theme                *string
	PrivacyLevel         *string
}

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,username,email,password_hash,age,gender,location,created_at,updated_at"

// Create inserts the user row plus its default preferences row and returns
// the generated id. A duplicate username or email surfaces as ErrDuplicate
// straight from the unique constraint.
func (r *UserRepo) Create(ctx context.Context, n NewUser, bcryptCost int) (string, error) {
	hash, err := utils.HashPassword(n.Password, bcryptCost)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	username := strings.TrimSpace(n.Username)

	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO users (id, username, email, password_hash, age, gender) VALUES (?,?,?,?,?,?)",
		id, username, nullable(n.Email), hash, n.Age, nullable(n.Gender))
	if err != nil {
		if isDuplicateKey(err) {
			return "", ErrDuplicate
		}
		return "", err
	}
	if _, err := r.DB.ExecContext(ctx,
		"INSERT INTO user_preferences (user_id) VALUES (?)", id); err != nil {
		return "", err
	}
	return id, nil
}

// GetByUsername fetches a user by exact username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username=? LIMIT 1", strings.TrimSpace(username)))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// Update applies a partial profile update. An update with no changed fields
// is a no-op that still returns the current row.
func (r *UserRepo) Update(ctx context.Context, id string, upd UserUpdate) (User, error) {
	sets := make([]string, 0, 5)
	args := make([]any, 0, 6)
	if upd.Username != nil {
		sets = append(sets, "username=?")
		args = append(args, strings.TrimSpace(*upd.Username))
	}
	if upd.Email != nil {
		sets = append(sets, "email=?")
		args = append(args, *upd.Email)
	}
	if upd.Age != nil {
		sets = append(sets, "age=?")
		args = append(args, *upd.Age)
	}
	if upd.Gender != nil {
		sets = append(sets, "gender=?")
		args = append(args, *upd.Gender)
	}
	if upd.Location != nil {
		sets = append(sets, "location=?")
		args = append(args, *upd.Location)
	}
	if len(sets) > 0 {
		args = append(args, id)
		res, err := r.DB.ExecContext(ctx,
			"UPDATE users SET "+strings.Join(sets, ", ")+" WHERE id=?", args...)
		if err != nil {
			if isDuplicateKey(err) {
				return User{}, ErrDuplicate
			}
			return User{}, err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			// Could also mean the values already matched; re-read settles it.
			if _, err := r.GetByID(ctx, id); err != nil {
				return User{}, err
			}
		}
	}
	return r.GetByID(ctx, id)
}

// Delete removes the user. Preferences, assessments, bookmarks and
// interactions go with it via ON DELETE CASCADE.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetPreferences fetches the preferences row owned by a user.
func (r *UserRepo) GetPreferences(ctx context.Context, userID string) (Preferences, error) {
	var p Preferences
	err := r.DB.QueryRowContext(ctx,
		"SELECT user_id,notifications_enabled,data_sharing,language,theme,privacy_level FROM user_preferences WHERE user_id=? LIMIT 1",
		userID).Scan(&p.UserID, &p.NotificationsEnabled, &p.DataSharing, &p.Language, &p.Theme, &p.PrivacyLevel)
	if errors.Is(err, sql.ErrNoRows) {
		return Preferences{}, ErrNotFound
	}
	return p, err
}

// UpdatePreferences applies a partial preferences update and returns the
// resulting row. Zero changed fields is a read.
func (r *UserRepo) UpdatePreferences(ctx context.Context, userID string, upd PreferencesUpdate) (Preferences, error) {
	sets := make([]string, 0, 5)
	args := make([]any, 0, 6)
	if upd.NotificationsEnabled != nil {
		sets = append(sets, "notifications_enabled=?")
		args = append(args, *upd.NotificationsEnabled)
	}
	if upd.DataSharing != nil {
		sets = append(sets, "data_sharing=?")
		args = append(args, *upd.DataSharing)
	}
	if upd.Language != nil {
		sets = append(sets, "language=?")
		args = append(args, *upd.Language)
	}
	if upd.Theme != nil {
		sets = append(sets, "theme=?")
		args = append(args, *upd.Theme)
	}
	if upd.PrivacyLevel != nil {
		sets = append(sets, "privacy_level=?")
		args = append(args, *upd.PrivacyLevel)
	}
	if len(sets) > 0 {
		args = append(args, userID)
		if _, err := r.DB.ExecContext(ctx,
			"UPDATE user_preferences SET "+strings.Join(sets, ", ")+" WHERE user_id=?", args...); err != nil {
			return Preferences{}, err
		}
	}
	return r.GetPreferences(ctx, userID)
}

func (r *UserRepo) scanOne(row *sql.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Age, &u.Gender, &u.Location, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

// nullable converts an optional string into a driver-friendly value.
func nullable(s *string) any {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}
