package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"jobfinder/internal/db"
	"jobfinder/internal/models"
	"jobfinder/internal/money"
	"jobfinder/internal/store"
	"jobfinder/internal/validator"
	"jobfinder/internal/websocket"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidDestination  = errors.New("invalid withdrawal destination")
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrJobNotActive        = errors.New("job is not active")
	ErrNotJobOwner         = errors.New("job does not belong to user")
	ErrAlreadyDecided      = errors.New("engagement already decided")
	ErrOwnJob              = errors.New("cannot engage with own job")
	ErrNotParticipant      = errors.New("not a participant of this completion")
	ErrAlreadyRated        = errors.New("completion already rated")
)

type WalletStore interface {
	GetByUser(ctx context.Context, userID string) (models.Wallet, error)
	AddPending(ctx context.Context, tx store.Execer, userID string, amount int64) (int64, error)
	SettleEarning(ctx context.Context, tx store.Execer, userID string, amount int64) (int64, error)
	DebitBalance(ctx context.Context, tx store.Execer, userID string, amount int64) (int64, error)
}

type TransactionStore interface {
	Create(ctx context.Context, tx store.Execer, input store.TransactionInput) error
	EarningExists(ctx context.Context, q store.Getter, userID, jobID, status string) (bool, error)
	ClosePendingEarning(ctx context.Context, tx store.Execer, userID, jobID string) error
}

type WithdrawalStore interface {
	Create(ctx context.Context, tx store.Execer, input store.WithdrawalInput) error
}

type CompletionStore interface {
	Create(ctx context.Context, tx store.Execer, input store.CompletionInput) error
	Exists(ctx context.Context, jobID, finderID string) (bool, error)
	ExistsTx(ctx context.Context, tx store.Getter, jobID, finderID string) (bool, error)
	MarkPaid(ctx context.Context, tx store.Execer, completionID string) error
	GetByID(ctx context.Context, completionID string) (models.JobCompletion, error)
	SetRating(ctx context.Context, tx store.Execer, completionID string, byPoster bool, rating int) (int64, error)
}

type AuditStore interface {
	Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error
}

type WalletHub interface {
	BroadcastWallet(userID string, update websocket.WalletUpdate)
}

// WalletService owns every mutation of wallet balances and the invariants
// tying them to the transaction ledger.
type WalletService struct {
	txRunner     db.TxRunner
	wallets      WalletStore
	transactions TransactionStore
	withdrawals  WithdrawalStore
	completions  CompletionStore
	audit        AuditStore
	hub          WalletHub
}

func NewWalletService(txRunner db.TxRunner, wallets WalletStore, transactions TransactionStore, withdrawals WithdrawalStore, completions CompletionStore, audit AuditStore, hub WalletHub) *WalletService {
	return &WalletService{
		txRunner:     txRunner,
		wallets:      wallets,
		transactions: transactions,
		withdrawals:  withdrawals,
		completions:  completions,
		audit:        audit,
		hub:          hub,
	}
}

// IsJobCompleted reports whether a completion record exists for the pair.
// Absence is an answer, not an error.
func (s *WalletService) IsJobCompleted(ctx context.Context, jobID, finderID string) (bool, error) {
	return s.completions.Exists(ctx, jobID, finderID)
}

// GetWallet returns the wallet for a user. Callers render ErrWalletNotFound
// as zero balances.
func (s *WalletService) GetWallet(ctx context.Context, userID string) (models.Wallet, error) {
	wallet, err := s.wallets.GetByUser(ctx, userID)
	if err == sql.ErrNoRows {
		return models.Wallet{}, ErrWalletNotFound
	}
	if err != nil {
		return models.Wallet{}, err
	}
	return wallet, nil
}

// AddPendingPayment accrues amount into the finder's pending balance and
// records a pending earning transaction. Calling it again for the same
// (user, job) is a no-op: the existing pending earning row short-circuits,
// and a concurrent race resolves through the partial unique index on
// pending earnings.
func (s *WalletService) AddPendingPayment(ctx context.Context, userID, jobID string, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		exists, err := s.transactions.EarningExists(ctx, tx, userID, jobID, models.TransactionStatusPending)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}
		rows, err := s.wallets.AddPending(ctx, tx, userID, amount)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrWalletNotFound
		}
		metadata, _ := json.Marshal(map[string]string{"job_id": jobID})
		return s.transactions.Create(ctx, tx, store.TransactionInput{
			ID:          uuid.NewString(),
			UserID:      userID,
			JobID:       &jobID,
			Type:        models.TransactionTypeEarning,
			Status:      models.TransactionStatusPending,
			Amount:      amount,
			Description: "Pending payment for job approval",
			Metadata:    string(metadata),
		})
	})
	if isUniqueViolation(err) {
		// Lost the race to another accrual for the same job; the winner's
		// write is the one that counts.
		return nil
	}
	if err != nil {
		return err
	}
	s.pushWallet(ctx, userID)
	return nil
}

type WithdrawRequest struct {
	UserID        string
	Amount        int64
	UpiID         string
	BankName      string
	BankAccountNo string
}

// WithdrawFunds debits the balance, records the withdrawal and appends the
// matching ledger entry, all in one transaction. The debit is conditional on
// sufficient balance, so the wallet can never go negative.
func (s *WalletService) WithdrawFunds(ctx context.Context, req WithdrawRequest) (string, error) {
	if req.Amount <= 0 {
		return "", ErrInvalidAmount
	}
	if err := validator.ValidateDestination(req.UpiID, req.BankName, req.BankAccountNo); err != nil {
		return "", ErrInvalidDestination
	}
	reference := withdrawalReference()
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		rows, err := s.wallets.DebitBalance(ctx, tx, req.UserID, req.Amount)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrInsufficientBalance
		}
		now := time.Now().UTC()
		withdrawalID := uuid.NewString()
		if err := s.withdrawals.Create(ctx, tx, store.WithdrawalInput{
			ID:            withdrawalID,
			UserID:        req.UserID,
			Amount:        req.Amount,
			UpiID:         optional(req.UpiID),
			BankName:      optional(req.BankName),
			BankAccountNo: optional(req.BankAccountNo),
			Status:        models.WithdrawalStatusCompleted,
			Reference:     reference,
			CompletedAt:   &now,
		}); err != nil {
			return err
		}
		metadata, _ := json.Marshal(map[string]string{
			"withdrawal_id":   withdrawalID,
			"upi_id":          req.UpiID,
			"bank_name":       req.BankName,
			"bank_account_no": req.BankAccountNo,
		})
		if err := s.transactions.Create(ctx, tx, store.TransactionInput{
			ID:          uuid.NewString(),
			UserID:      req.UserID,
			Type:        models.TransactionTypeWithdrawal,
			Status:      models.TransactionStatusCompleted,
			Amount:      req.Amount,
			Description: "Withdrawal from wallet to " + destinationLabel(req),
			Metadata:    string(metadata),
			CompletedAt: &now,
		}); err != nil {
			return err
		}
		return s.audit.Log(ctx, tx, req.UserID, "withdraw", "withdrawal", withdrawalID, string(metadata))
	})
	if err != nil {
		return "", err
	}
	s.pushWallet(ctx, req.UserID)
	return reference, nil
}

func (s *WalletService) pushWallet(ctx context.Context, userID string) {
	wallet, err := s.wallets.GetByUser(ctx, userID)
	if err != nil {
		log.Printf("wallet push skipped for %s: %v", userID, err)
		return
	}
	s.hub.BroadcastWallet(userID, walletUpdate(wallet))
}

func walletUpdate(wallet models.Wallet) websocket.WalletUpdate {
	return websocket.WalletUpdate{
		Balance:       money.FormatMinor(wallet.Balance),
		TotalEarned:   money.FormatMinor(wallet.TotalEarned),
		PendingAmount: money.FormatMinor(wallet.PendingAmount),
	}
}

func destinationLabel(req WithdrawRequest) string {
	if req.UpiID != "" {
		return "UPI: " + req.UpiID
	}
	return "Bank: " + req.BankName
}

// withdrawalReference mints the synthetic reference recorded on withdrawal
// rows, e.g. "WD1724832000000".
func withdrawalReference() string {
	return fmt.Sprintf("WD%d", time.Now().UnixMilli())
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == "23505"
}
