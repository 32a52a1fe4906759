package store

import (
	"context"

	"github.com/google/uuid"
)

type AuditStore struct {
	db DB
}

func NewAuditStore(db DB) *AuditStore {
	return &AuditStore{db: db}
}

type AuditLog struct {
	ID          string  `db:"id" json:"id"`
	ActorUserID *string `db:"actor_user_id" json:"actor_user_id,omitempty"`
	Action      string  `db:"action" json:"action"`
	EntityType  string  `db:"entity_type" json:"entity_type"`
	EntityID    string  `db:"entity_id" json:"entity_id"`
	Data        string  `db:"data" json:"data"`
	CreatedAt   any     `db:"created_at" json:"created_at"`
}

func (s *AuditStore) Log(ctx context.Context, tx Execer, actorID, action, entityType, entityID, data string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO audit_logs (id, actor_user_id, action, entity_type, entity_id, data)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, uuid.NewString(), actorID, action, entityType, entityID, data)
	return err
}

func (s *AuditStore) List(ctx context.Context, limit, offset int) ([]AuditLog, error) {
	var rows []AuditLog
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, actor_user_id, action, entity_type, entity_id, data, created_at
		FROM audit_logs
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
