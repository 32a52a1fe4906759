package services

import (
	"context"
	"encoding/json"
	"log"

	"jobfinder/internal/db"
	"jobfinder/internal/models"
	"jobfinder/internal/money"
	"jobfinder/internal/store"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type EngagementStore interface {
	CreateApplication(ctx context.Context, tx store.Execer, input store.ApplicationInput) error
	CreateNegotiation(ctx context.Context, tx store.Execer, input store.NegotiationInput) error
	GetApplication(ctx context.Context, applicationID string) (models.Application, error)
	GetNegotiation(ctx context.Context, negotiationID string) (models.Negotiation, error)
	DecideApplication(ctx context.Context, tx store.Execer, applicationID, status string) (int64, error)
	DecideNegotiation(ctx context.Context, tx store.Execer, negotiationID, status string) (int64, error)
}

// PendingPaymentAdder is the slice of the wallet engine the engagement
// machine needs after an approval or acceptance.
type PendingPaymentAdder interface {
	AddPendingPayment(ctx context.Context, userID, jobID string, amount int64) error
}

// EngagementService governs the application and negotiation lifecycles:
// pending -> approved/accepted/rejected, all transitions terminal. Approval
// and acceptance accrue a pending payment to the finder; that accrual runs
// after the status flip and is deliberately not rolled back on failure, so a
// decided engagement always stays decided.
type EngagementService struct {
	txRunner      db.TxRunner
	engagements   EngagementStore
	jobs          JobStore
	wallet        PendingPaymentAdder
	notifications NotificationStore
	audit         AuditStore
}

func NewEngagementService(txRunner db.TxRunner, engagements EngagementStore, jobs JobStore, wallet PendingPaymentAdder, notifications NotificationStore, audit AuditStore) *EngagementService {
	return &EngagementService{
		txRunner:      txRunner,
		engagements:   engagements,
		jobs:          jobs,
		wallet:        wallet,
		notifications: notifications,
		audit:         audit,
	}
}

type ApplyRequest struct {
	JobID          string
	FinderID       string
	FinderName     string
	Message        string
	StudentEmail   string
	StudentContact string
}

func (s *EngagementService) Apply(ctx context.Context, req ApplyRequest) (string, error) {
	job, err := s.jobs.GetByID(ctx, req.JobID)
	if err != nil {
		return "", err
	}
	if job.Status != models.JobStatusActive {
		return "", ErrJobNotActive
	}
	if job.PostedBy == req.FinderID {
		return "", ErrOwnJob
	}
	applicationID := uuid.NewString()
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.engagements.CreateApplication(ctx, tx, store.ApplicationInput{
			ID:             applicationID,
			JobID:          req.JobID,
			FinderID:       req.FinderID,
			FinderName:     req.FinderName,
			Message:        req.Message,
			StudentEmail:   req.StudentEmail,
			StudentContact: req.StudentContact,
		})
	})
	if err != nil {
		return "", err
	}
	return applicationID, nil
}

type NegotiateRequest struct {
	JobID          string
	FinderID       string
	FinderName     string
	ProposedAmount int64
	Message        string
	StudentEmail   string
	StudentContact string
}

func (s *EngagementService) Negotiate(ctx context.Context, req NegotiateRequest) (string, error) {
	if req.ProposedAmount <= 0 {
		return "", ErrInvalidAmount
	}
	job, err := s.jobs.GetByID(ctx, req.JobID)
	if err != nil {
		return "", err
	}
	if job.Status != models.JobStatusActive {
		return "", ErrJobNotActive
	}
	if job.PostedBy == req.FinderID {
		return "", ErrOwnJob
	}
	negotiationID := uuid.NewString()
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.engagements.CreateNegotiation(ctx, tx, store.NegotiationInput{
			ID:             negotiationID,
			JobID:          req.JobID,
			FinderID:       req.FinderID,
			FinderName:     req.FinderName,
			ProposedAmount: req.ProposedAmount,
			Message:        req.Message,
			StudentEmail:   req.StudentEmail,
			StudentContact: req.StudentContact,
		})
	})
	if err != nil {
		return "", err
	}
	return negotiationID, nil
}

// ApproveApplication flips a pending application to approved, then accrues
// the job budget as a pending payment for the finder. A failed accrual
// leaves the approval standing; a retry of the accrual path is idempotent.
func (s *EngagementService) ApproveApplication(ctx context.Context, applicationID, posterID string) error {
	application, err := s.engagements.GetApplication(ctx, applicationID)
	if err != nil {
		return err
	}
	job, err := s.jobs.GetByID(ctx, application.JobID)
	if err != nil {
		return err
	}
	if job.PostedBy != posterID {
		return ErrNotJobOwner
	}
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		rows, err := s.engagements.DecideApplication(ctx, tx, applicationID, models.ApplicationStatusApproved)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrAlreadyDecided
		}
		if err := s.notifications.Create(ctx, tx, store.NotificationInput{
			ID:      uuid.NewString(),
			UserID:  application.FinderID,
			Title:   "Application approved",
			Message: "Your application for " + job.Title + " was approved",
			Type:    "engagement",
		}); err != nil {
			return err
		}
		data, _ := json.Marshal(map[string]string{"finder_id": application.FinderID})
		return s.audit.Log(ctx, tx, posterID, "approve_application", "application", applicationID, string(data))
	})
	if err != nil {
		return err
	}
	if err := s.wallet.AddPendingPayment(ctx, application.FinderID, application.JobID, job.Budget); err != nil {
		log.Printf("pending payment after approval of %s failed: %v", applicationID, err)
	}
	return nil
}

func (s *EngagementService) RejectApplication(ctx context.Context, applicationID, posterID string) error {
	application, err := s.engagements.GetApplication(ctx, applicationID)
	if err != nil {
		return err
	}
	job, err := s.jobs.GetByID(ctx, application.JobID)
	if err != nil {
		return err
	}
	if job.PostedBy != posterID {
		return ErrNotJobOwner
	}
	return s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		rows, err := s.engagements.DecideApplication(ctx, tx, applicationID, models.ApplicationStatusRejected)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrAlreadyDecided
		}
		return s.audit.Log(ctx, tx, posterID, "reject_application", "application", applicationID, "{}")
	})
}

// AcceptNegotiation flips a pending negotiation to accepted, overwrites the
// job budget with the proposed amount, then accrues the proposed amount as a
// pending payment. Budget overwrite and status flip share a transaction; the
// accrual runs after it and is not rolled back on failure.
func (s *EngagementService) AcceptNegotiation(ctx context.Context, negotiationID, posterID string) error {
	negotiation, err := s.engagements.GetNegotiation(ctx, negotiationID)
	if err != nil {
		return err
	}
	job, err := s.jobs.GetByID(ctx, negotiation.JobID)
	if err != nil {
		return err
	}
	if job.PostedBy != posterID {
		return ErrNotJobOwner
	}
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		rows, err := s.engagements.DecideNegotiation(ctx, tx, negotiationID, models.NegotiationStatusAccepted)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrAlreadyDecided
		}
		if err := s.jobs.UpdateBudget(ctx, tx, negotiation.JobID, negotiation.ProposedAmount); err != nil {
			return err
		}
		if err := s.notifications.Create(ctx, tx, store.NotificationInput{
			ID:      uuid.NewString(),
			UserID:  negotiation.FinderID,
			Title:   "Negotiation accepted",
			Message: "Your offer of " + money.FormatMinor(negotiation.ProposedAmount) + " for " + job.Title + " was accepted",
			Type:    "engagement",
		}); err != nil {
			return err
		}
		data, _ := json.Marshal(map[string]string{"finder_id": negotiation.FinderID})
		return s.audit.Log(ctx, tx, posterID, "accept_negotiation", "negotiation", negotiationID, string(data))
	})
	if err != nil {
		return err
	}
	if err := s.wallet.AddPendingPayment(ctx, negotiation.FinderID, negotiation.JobID, negotiation.ProposedAmount); err != nil {
		log.Printf("pending payment after acceptance of %s failed: %v", negotiationID, err)
	}
	return nil
}

func (s *EngagementService) RejectNegotiation(ctx context.Context, negotiationID, posterID string) error {
	negotiation, err := s.engagements.GetNegotiation(ctx, negotiationID)
	if err != nil {
		return err
	}
	job, err := s.jobs.GetByID(ctx, negotiation.JobID)
	if err != nil {
		return err
	}
	if job.PostedBy != posterID {
		return ErrNotJobOwner
	}
	return s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		rows, err := s.engagements.DecideNegotiation(ctx, tx, negotiationID, models.NegotiationStatusRejected)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrAlreadyDecided
		}
		return s.audit.Log(ctx, tx, posterID, "reject_negotiation", "negotiation", negotiationID, "{}")
	})
}
