package store

import (
	"context"

	"jobfinder/internal/models"
)

type WalletStore struct {
	db DB
}

func NewWalletStore(db DB) *WalletStore {
	return &WalletStore{db: db}
}

func (s *WalletStore) Create(ctx context.Context, tx Execer, id, userID string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO wallets (id, user_id, balance, total_earned, pending_amount)
		VALUES ($1, $2, 0, 0, 0)
	`, id, userID)
	return err
}

func (s *WalletStore) GetByUser(ctx context.Context, userID string) (models.Wallet, error) {
	var row models.Wallet
	err := s.db.GetContext(ctx, &row, `
		SELECT id, user_id, balance, total_earned, pending_amount, created_at, updated_at
		FROM wallets
		WHERE user_id = $1
	`, userID)
	if err != nil {
		return models.Wallet{}, err
	}
	return row, nil
}

// AddPending accrues a pending payment. Returns rows affected so callers can
// distinguish a missing wallet row from a successful accrual.
func (s *WalletStore) AddPending(ctx context.Context, tx Execer, userID string, amount int64) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE wallets
		SET pending_amount = pending_amount + $1, updated_at = NOW()
		WHERE user_id = $2
	`, amount, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// SettleEarning is the single settlement path: credits balance and lifetime
// earnings and releases the matching pending amount, clamped at zero.
func (s *WalletStore) SettleEarning(ctx context.Context, tx Execer, userID string, amount int64) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE wallets
		SET balance = balance + $1,
		    total_earned = total_earned + $1,
		    pending_amount = GREATEST(pending_amount - $1, 0),
		    updated_at = NOW()
		WHERE user_id = $2
	`, amount, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DebitBalance withdraws funds conditionally; zero rows affected means the
// balance was insufficient (or the wallet does not exist).
func (s *WalletStore) DebitBalance(ctx context.Context, tx Execer, userID string, amount int64) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE wallets
		SET balance = balance - $1, updated_at = NOW()
		WHERE user_id = $2 AND balance >= $1
	`, amount, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
