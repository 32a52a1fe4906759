package store

import (
	"context"
	"time"

	"jobfinder/internal/models"
)

type WithdrawalStore struct {
	db DB
}

func NewWithdrawalStore(db DB) *WithdrawalStore {
	return &WithdrawalStore{db: db}
}

type WithdrawalInput struct {
	ID            string
	UserID        string
	Amount        int64
	UpiID         *string
	BankName      *string
	BankAccountNo *string
	Status        string
	Reference     string
	CompletedAt   *time.Time
}

func (s *WithdrawalStore) Create(ctx context.Context, tx Execer, input WithdrawalInput) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO withdrawals (id, user_id, amount, upi_id, bank_name, bank_account_no, status, reference, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, input.ID, input.UserID, input.Amount, input.UpiID, input.BankName, input.BankAccountNo,
		input.Status, input.Reference, input.CompletedAt)
	return err
}

func (s *WithdrawalStore) ListByUser(ctx context.Context, userID string) ([]models.Withdrawal, error) {
	var rows []models.Withdrawal
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, amount, upi_id, bank_name, bank_account_no, status, reference, created_at, completed_at
		FROM withdrawals
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
