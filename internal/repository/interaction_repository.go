package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

// InteractionRepo writes the append-only 'user_interactions' audit trail.
// Nothing in the serving path reads these rows back.
type InteractionRepo struct{ DB *sql.DB }

func NewInteractionRepo(db *sql.DB) *InteractionRepo { return &InteractionRepo{DB: db} }

// Log appends one interaction. resourceID may be empty when the interaction
// has no subject row.
func (r *InteractionRepo) Log(ctx context.Context, userID, interactionType, resourceID string) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO user_interactions (id,user_id,interaction_type,resource_id) VALUES (?,?,?,?)",
		uuid.NewString(), userID, interactionType, nullable(&resourceID))
	return err
}
