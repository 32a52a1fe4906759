package store

import (
	"context"
	"database/sql"
	"time"
)

type TransactionStore struct {
	db DB
}

func NewTransactionStore(db DB) *TransactionStore {
	return &TransactionStore{db: db}
}

type TransactionInput struct {
	ID          string
	UserID      string
	JobID       *string
	Type        string
	Status      string
	Amount      int64
	Description string
	Metadata    string
	CompletedAt *time.Time
}

// TransactionWithJob is a ledger row joined with the job it references.
type TransactionWithJob struct {
	ID          string     `db:"id"`
	UserID      string     `db:"user_id"`
	JobID       *string    `db:"job_id"`
	JobTitle    *string    `db:"job_title"`
	Type        string     `db:"type"`
	Status      string     `db:"status"`
	Amount      int64      `db:"amount"`
	Description string     `db:"description"`
	Metadata    string     `db:"metadata"`
	CreatedAt   time.Time  `db:"created_at"`
	CompletedAt *time.Time `db:"completed_at"`
}

func (s *TransactionStore) Create(ctx context.Context, tx Execer, input TransactionInput) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO transactions (id, user_id, job_id, type, status, amount, description, metadata, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, input.ID, input.UserID, input.JobID, input.Type, input.Status, input.Amount,
		input.Description, input.Metadata, input.CompletedAt)
	return err
}

// EarningExists reports whether an earning transaction in the given status
// already exists for (user, job). Absence is not an error.
func (s *TransactionStore) EarningExists(ctx context.Context, q Getter, userID, jobID, status string) (bool, error) {
	var id string
	err := q.GetContext(ctx, &id, `
		SELECT id
		FROM transactions
		WHERE user_id = $1 AND job_id = $2 AND type = 'earning' AND status = $3
	`, userID, jobID, status)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ClosePendingEarning retires the pending earning row for (user, job) once
// the completed earning supersedes it. Only status and completed_at change;
// ledger rows are otherwise immutable. Zero rows affected is fine; there may
// be nothing pending.
func (s *TransactionStore) ClosePendingEarning(ctx context.Context, tx Execer, userID, jobID string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE transactions
		SET status = 'cancelled', completed_at = NOW()
		WHERE user_id = $1 AND job_id = $2 AND type = 'earning' AND status = 'pending'
	`, userID, jobID)
	return err
}

func (s *TransactionStore) ListByUser(ctx context.Context, userID, txType string, limit, offset int) ([]TransactionWithJob, error) {
	query := `
		SELECT t.id, t.user_id, t.job_id, j.title AS job_title,
		       t.type, t.status, t.amount, t.description, t.metadata,
		       t.created_at, t.completed_at
		FROM transactions t
		LEFT JOIN jobs j ON j.id = t.job_id
		WHERE t.user_id = $1
	`
	args := []any{userID}
	if txType != "" {
		query += " AND t.type = $2 ORDER BY t.created_at DESC LIMIT $3 OFFSET $4"
		args = append(args, txType, limit, offset)
	} else {
		query += " ORDER BY t.created_at DESC LIMIT $2 OFFSET $3"
		args = append(args, limit, offset)
	}
	var rows []TransactionWithJob
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	return rows, nil
}
