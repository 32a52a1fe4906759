package handlers

import (
	"context"

	"jobfinder/internal/models"
	"jobfinder/internal/services"
	"jobfinder/internal/store"
)

type UserStore interface {
	Create(ctx context.Context, tx store.Execer, id, username, email, role, passwordHash string) error
	GetByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, userID string) (models.User, error)
}

type WalletStore interface {
	Create(ctx context.Context, tx store.Execer, id, userID string) error
}

type JobStore interface {
	Create(ctx context.Context, tx store.Execer, input store.JobInput) error
	GetByID(ctx context.Context, jobID string) (models.Job, error)
	ListActive(ctx context.Context) ([]models.Job, error)
	ListByPoster(ctx context.Context, posterID string) ([]models.Job, error)
}

type TransactionStore interface {
	ListByUser(ctx context.Context, userID, txType string, limit, offset int) ([]store.TransactionWithJob, error)
}

type WithdrawalStore interface {
	ListByUser(ctx context.Context, userID string) ([]models.Withdrawal, error)
}

type CompletionStore interface {
	ListByParticipant(ctx context.Context, userID string) ([]models.JobCompletion, error)
}

type EngagementStore interface {
	ListApplicationsByJob(ctx context.Context, jobID string) ([]models.Application, error)
	ListNegotiationsByJob(ctx context.Context, jobID string) ([]models.Negotiation, error)
	ListConfirmedByUser(ctx context.Context, userID string) ([]models.Engagement, error)
}

type NotificationStore interface {
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Notification, error)
	MarkRead(ctx context.Context, tx store.Execer, notificationID, userID string) (int64, error)
}

type AuditStore interface {
	Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error
}

type WalletService interface {
	GetWallet(ctx context.Context, userID string) (models.Wallet, error)
	AddPendingPayment(ctx context.Context, userID, jobID string, amount int64) error
	WithdrawFunds(ctx context.Context, req services.WithdrawRequest) (string, error)
	IsJobCompleted(ctx context.Context, jobID, finderID string) (bool, error)
}

type SettlementService interface {
	CompleteJob(ctx context.Context, req services.CompleteJobRequest) error
	RateCompletion(ctx context.Context, completionID, raterID string, rating int) error
}

type EngagementService interface {
	Apply(ctx context.Context, req services.ApplyRequest) (string, error)
	Negotiate(ctx context.Context, req services.NegotiateRequest) (string, error)
	ApproveApplication(ctx context.Context, applicationID, posterID string) error
	RejectApplication(ctx context.Context, applicationID, posterID string) error
	AcceptNegotiation(ctx context.Context, negotiationID, posterID string) error
	RejectNegotiation(ctx context.Context, negotiationID, posterID string) error
}
