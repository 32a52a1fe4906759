package services

import (
	"context"
	"encoding/json"
	"time"

	"jobfinder/internal/db"
	"jobfinder/internal/models"
	"jobfinder/internal/money"
	"jobfinder/internal/store"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type JobStore interface {
	GetByID(ctx context.Context, jobID string) (models.Job, error)
	GetForUpdate(ctx context.Context, tx store.Getter, jobID string) (models.Job, error)
	MarkCompleted(ctx context.Context, tx store.Execer, jobID string) (int64, error)
	UpdateBudget(ctx context.Context, tx store.Execer, jobID string, budget int64) error
}

type NotificationStore interface {
	Create(ctx context.Context, tx store.Execer, input store.NotificationInput) error
}

// SettlementService drives the job-completion transition: completion record,
// earning transaction, wallet credit and job status flip run inside a single
// serializable transaction, so a mid-sequence failure leaves no partial
// state. The guards make retries and duplicate clicks no-ops.
type SettlementService struct {
	txRunner      db.TxRunner
	jobs          JobStore
	completions   CompletionStore
	transactions  TransactionStore
	wallets       WalletStore
	notifications NotificationStore
	audit         AuditStore
	hub           WalletHub
}

func NewSettlementService(txRunner db.TxRunner, jobs JobStore, completions CompletionStore, transactions TransactionStore, wallets WalletStore, notifications NotificationStore, audit AuditStore, hub WalletHub) *SettlementService {
	return &SettlementService{
		txRunner:      txRunner,
		jobs:          jobs,
		completions:   completions,
		transactions:  transactions,
		wallets:       wallets,
		notifications: notifications,
		audit:         audit,
		hub:           hub,
	}
}

type CompleteJobRequest struct {
	JobID       string
	FinderID    string
	PosterID    string
	FinalAmount int64
	Notes       string
}

// CompleteJob settles a job for a finder. A job already settled for the pair,
// or already marked completed, yields success without side effects.
func (s *SettlementService) CompleteJob(ctx context.Context, req CompleteJobRequest) error {
	if req.FinalAmount <= 0 {
		return ErrInvalidAmount
	}
	var credited bool
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		settled, err := s.completions.ExistsTx(ctx, tx, req.JobID, req.FinderID)
		if err != nil {
			return err
		}
		if settled {
			return nil
		}
		job, err := s.jobs.GetForUpdate(ctx, tx, req.JobID)
		if err != nil {
			return err
		}
		if job.PostedBy != req.PosterID {
			return ErrNotJobOwner
		}
		if job.Status == models.JobStatusCompleted {
			return nil
		}
		if job.Status == models.JobStatusCancelled {
			return ErrJobNotActive
		}
		completionID := uuid.NewString()
		if err := s.completions.Create(ctx, tx, store.CompletionInput{
			ID:              completionID,
			JobID:           req.JobID,
			FinderID:        req.FinderID,
			PosterID:        req.PosterID,
			FinalAmount:     req.FinalAmount,
			CompletionNotes: req.Notes,
		}); err != nil {
			return err
		}
		earned, err := s.transactions.EarningExists(ctx, tx, req.FinderID, req.JobID, models.TransactionStatusCompleted)
		if err != nil {
			return err
		}
		if !earned {
			if err := s.creditEarning(ctx, tx, req, job.Title, completionID); err != nil {
				return err
			}
			credited = true
		}
		if _, err := s.jobs.MarkCompleted(ctx, tx, req.JobID); err != nil {
			return err
		}
		if err := s.notifications.Create(ctx, tx, store.NotificationInput{
			ID:      uuid.NewString(),
			UserID:  req.FinderID,
			Title:   "Payment received",
			Message: "You received " + money.FormatMinor(req.FinalAmount) + " for " + job.Title,
			Type:    "payment",
		}); err != nil {
			return err
		}
		data, _ := json.Marshal(map[string]string{
			"completion_id": completionID,
			"finder_id":     req.FinderID,
		})
		return s.audit.Log(ctx, tx, req.PosterID, "complete_job", "job", req.JobID, string(data))
	})
	if isUniqueViolation(err) {
		// A concurrent settlement won the (job_id, finder_id) insert; the job
		// is settled either way.
		return nil
	}
	if err != nil {
		return err
	}
	if credited {
		s.pushWallet(ctx, req.FinderID)
	}
	return nil
}

// creditEarning appends the completed earning, retires the pending earning
// row it supersedes, settles the wallet and marks the completion paid.
func (s *SettlementService) creditEarning(ctx context.Context, tx *sqlx.Tx, req CompleteJobRequest, jobTitle, completionID string) error {
	now := time.Now().UTC()
	metadata, _ := json.Marshal(map[string]string{"completion_id": completionID})
	if err := s.transactions.ClosePendingEarning(ctx, tx, req.FinderID, req.JobID); err != nil {
		return err
	}
	if err := s.transactions.Create(ctx, tx, store.TransactionInput{
		ID:          uuid.NewString(),
		UserID:      req.FinderID,
		JobID:       &req.JobID,
		Type:        models.TransactionTypeEarning,
		Status:      models.TransactionStatusCompleted,
		Amount:      req.FinalAmount,
		Description: "Payment received for " + jobTitle,
		Metadata:    string(metadata),
		CompletedAt: &now,
	}); err != nil {
		return err
	}
	rows, err := s.wallets.SettleEarning(ctx, tx, req.FinderID, req.FinalAmount)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrWalletNotFound
	}
	return s.completions.MarkPaid(ctx, tx, completionID)
}

// RateCompletion stores the rating one party gives the other. Each side
// rates at most once.
func (s *SettlementService) RateCompletion(ctx context.Context, completionID, raterID string, rating int) error {
	if rating < 1 || rating > 5 {
		return ErrInvalidAmount
	}
	completion, err := s.completions.GetByID(ctx, completionID)
	if err != nil {
		return err
	}
	var byPoster bool
	switch raterID {
	case completion.PosterID:
		byPoster = true
	case completion.FinderID:
		byPoster = false
	default:
		return ErrNotParticipant
	}
	return s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		rows, err := s.completions.SetRating(ctx, tx, completionID, byPoster, rating)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrAlreadyRated
		}
		return nil
	})
}

func (s *SettlementService) pushWallet(ctx context.Context, userID string) {
	wallet, err := s.wallets.GetByUser(ctx, userID)
	if err != nil {
		return
	}
	s.hub.BroadcastWallet(userID, walletUpdate(wallet))
}
