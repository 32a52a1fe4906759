package handlers

import (
	"context"
	"time"

	"jobfinder/internal/config"
	"jobfinder/internal/models"
	"jobfinder/internal/services"
	"jobfinder/internal/store"
	"jobfinder/internal/websocket"

	"github.com/jmoiron/sqlx"
)

type fakeTxRunner struct {
	withTxFn func(ctx context.Context, fn func(*sqlx.Tx) error) error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.withTxFn != nil {
		return f.withTxFn(ctx, fn)
	}
	return fn(nil)
}

type stubUserStore struct {
	createFn     func(ctx context.Context, tx store.Execer, id, username, email, role, passwordHash string) error
	getByEmailFn func(ctx context.Context, email string) (models.User, error)
	getByIDFn    func(ctx context.Context, userID string) (models.User, error)
}

func (s stubUserStore) Create(ctx context.Context, tx store.Execer, id, username, email, role, passwordHash string) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, id, username, email, role, passwordHash)
}

func (s stubUserStore) GetByEmail(ctx context.Context, email string) (models.User, error) {
	if s.getByEmailFn == nil {
		return models.User{}, nil
	}
	return s.getByEmailFn(ctx, email)
}

func (s stubUserStore) GetByID(ctx context.Context, userID string) (models.User, error) {
	if s.getByIDFn == nil {
		return models.User{ID: userID}, nil
	}
	return s.getByIDFn(ctx, userID)
}

type stubWalletStore struct {
	createFn func(ctx context.Context, tx store.Execer, id, userID string) error
}

func (s stubWalletStore) Create(ctx context.Context, tx store.Execer, id, userID string) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, id, userID)
}

type stubJobStore struct {
	createFn       func(ctx context.Context, tx store.Execer, input store.JobInput) error
	getByIDFn      func(ctx context.Context, jobID string) (models.Job, error)
	listActiveFn   func(ctx context.Context) ([]models.Job, error)
	listByPosterFn func(ctx context.Context, posterID string) ([]models.Job, error)
}

func (s stubJobStore) Create(ctx context.Context, tx store.Execer, input store.JobInput) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, input)
}

func (s stubJobStore) GetByID(ctx context.Context, jobID string) (models.Job, error) {
	if s.getByIDFn == nil {
		return models.Job{ID: jobID, Status: models.JobStatusActive}, nil
	}
	return s.getByIDFn(ctx, jobID)
}

func (s stubJobStore) ListActive(ctx context.Context) ([]models.Job, error) {
	if s.listActiveFn == nil {
		return nil, nil
	}
	return s.listActiveFn(ctx)
}

func (s stubJobStore) ListByPoster(ctx context.Context, posterID string) ([]models.Job, error) {
	if s.listByPosterFn == nil {
		return nil, nil
	}
	return s.listByPosterFn(ctx, posterID)
}

type stubTransactionStore struct {
	listByUserFn func(ctx context.Context, userID, txType string, limit, offset int) ([]store.TransactionWithJob, error)
}

func (s stubTransactionStore) ListByUser(ctx context.Context, userID, txType string, limit, offset int) ([]store.TransactionWithJob, error) {
	if s.listByUserFn == nil {
		return nil, nil
	}
	return s.listByUserFn(ctx, userID, txType, limit, offset)
}

type stubWithdrawalStore struct {
	listByUserFn func(ctx context.Context, userID string) ([]models.Withdrawal, error)
}

func (s stubWithdrawalStore) ListByUser(ctx context.Context, userID string) ([]models.Withdrawal, error) {
	if s.listByUserFn == nil {
		return nil, nil
	}
	return s.listByUserFn(ctx, userID)
}

type stubCompletionStore struct {
	listByParticipantFn func(ctx context.Context, userID string) ([]models.JobCompletion, error)
}

func (s stubCompletionStore) ListByParticipant(ctx context.Context, userID string) ([]models.JobCompletion, error) {
	if s.listByParticipantFn == nil {
		return nil, nil
	}
	return s.listByParticipantFn(ctx, userID)
}

type stubEngagementStore struct {
	listApplicationsFn func(ctx context.Context, jobID string) ([]models.Application, error)
	listNegotiationsFn func(ctx context.Context, jobID string) ([]models.Negotiation, error)
	listConfirmedFn    func(ctx context.Context, userID string) ([]models.Engagement, error)
}

func (s stubEngagementStore) ListApplicationsByJob(ctx context.Context, jobID string) ([]models.Application, error) {
	if s.listApplicationsFn == nil {
		return nil, nil
	}
	return s.listApplicationsFn(ctx, jobID)
}

func (s stubEngagementStore) ListNegotiationsByJob(ctx context.Context, jobID string) ([]models.Negotiation, error) {
	if s.listNegotiationsFn == nil {
		return nil, nil
	}
	return s.listNegotiationsFn(ctx, jobID)
}

func (s stubEngagementStore) ListConfirmedByUser(ctx context.Context, userID string) ([]models.Engagement, error) {
	if s.listConfirmedFn == nil {
		return nil, nil
	}
	return s.listConfirmedFn(ctx, userID)
}

type stubNotificationStore struct {
	listByUserFn func(ctx context.Context, userID string, limit, offset int) ([]models.Notification, error)
	markReadFn   func(ctx context.Context, tx store.Execer, notificationID, userID string) (int64, error)
}

func (s stubNotificationStore) ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Notification, error) {
	if s.listByUserFn == nil {
		return nil, nil
	}
	return s.listByUserFn(ctx, userID, limit, offset)
}

func (s stubNotificationStore) MarkRead(ctx context.Context, tx store.Execer, notificationID, userID string) (int64, error) {
	if s.markReadFn == nil {
		return 1, nil
	}
	return s.markReadFn(ctx, tx, notificationID, userID)
}

type stubAuditStore struct {
	logFn func(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error
}

func (s stubAuditStore) Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error {
	if s.logFn == nil {
		return nil
	}
	return s.logFn(ctx, tx, actorID, action, entityType, entityID, data)
}

type stubWalletService struct {
	getWalletFn         func(ctx context.Context, userID string) (models.Wallet, error)
	addPendingPaymentFn func(ctx context.Context, userID, jobID string, amount int64) error
	withdrawFundsFn     func(ctx context.Context, req services.WithdrawRequest) (string, error)
	isJobCompletedFn    func(ctx context.Context, jobID, finderID string) (bool, error)
}

func (s stubWalletService) GetWallet(ctx context.Context, userID string) (models.Wallet, error) {
	if s.getWalletFn == nil {
		return models.Wallet{UserID: userID}, nil
	}
	return s.getWalletFn(ctx, userID)
}

func (s stubWalletService) AddPendingPayment(ctx context.Context, userID, jobID string, amount int64) error {
	if s.addPendingPaymentFn == nil {
		return nil
	}
	return s.addPendingPaymentFn(ctx, userID, jobID, amount)
}

func (s stubWalletService) WithdrawFunds(ctx context.Context, req services.WithdrawRequest) (string, error) {
	if s.withdrawFundsFn == nil {
		return "WD1", nil
	}
	return s.withdrawFundsFn(ctx, req)
}

func (s stubWalletService) IsJobCompleted(ctx context.Context, jobID, finderID string) (bool, error) {
	if s.isJobCompletedFn == nil {
		return false, nil
	}
	return s.isJobCompletedFn(ctx, jobID, finderID)
}

type stubSettlementService struct {
	completeJobFn    func(ctx context.Context, req services.CompleteJobRequest) error
	rateCompletionFn func(ctx context.Context, completionID, raterID string, rating int) error
}

func (s stubSettlementService) CompleteJob(ctx context.Context, req services.CompleteJobRequest) error {
	if s.completeJobFn == nil {
		return nil
	}
	return s.completeJobFn(ctx, req)
}

func (s stubSettlementService) RateCompletion(ctx context.Context, completionID, raterID string, rating int) error {
	if s.rateCompletionFn == nil {
		return nil
	}
	return s.rateCompletionFn(ctx, completionID, raterID, rating)
}

type stubEngagementService struct {
	applyFn             func(ctx context.Context, req services.ApplyRequest) (string, error)
	negotiateFn         func(ctx context.Context, req services.NegotiateRequest) (string, error)
	approveFn           func(ctx context.Context, applicationID, posterID string) error
	rejectApplicationFn func(ctx context.Context, applicationID, posterID string) error
	acceptFn            func(ctx context.Context, negotiationID, posterID string) error
	rejectNegotiationFn func(ctx context.Context, negotiationID, posterID string) error
}

func (s stubEngagementService) Apply(ctx context.Context, req services.ApplyRequest) (string, error) {
	if s.applyFn == nil {
		return "app-1", nil
	}
	return s.applyFn(ctx, req)
}

func (s stubEngagementService) Negotiate(ctx context.Context, req services.NegotiateRequest) (string, error) {
	if s.negotiateFn == nil {
		return "neg-1", nil
	}
	return s.negotiateFn(ctx, req)
}

func (s stubEngagementService) ApproveApplication(ctx context.Context, applicationID, posterID string) error {
	if s.approveFn == nil {
		return nil
	}
	return s.approveFn(ctx, applicationID, posterID)
}

func (s stubEngagementService) RejectApplication(ctx context.Context, applicationID, posterID string) error {
	if s.rejectApplicationFn == nil {
		return nil
	}
	return s.rejectApplicationFn(ctx, applicationID, posterID)
}

func (s stubEngagementService) AcceptNegotiation(ctx context.Context, negotiationID, posterID string) error {
	if s.acceptFn == nil {
		return nil
	}
	return s.acceptFn(ctx, negotiationID, posterID)
}

func (s stubEngagementService) RejectNegotiation(ctx context.Context, negotiationID, posterID string) error {
	if s.rejectNegotiationFn == nil {
		return nil
	}
	return s.rejectNegotiationFn(ctx, negotiationID, posterID)
}

type handlerStubs struct {
	users         stubUserStore
	wallets       stubWalletStore
	jobs          stubJobStore
	transactions  stubTransactionStore
	withdrawals   stubWithdrawalStore
	completions   stubCompletionStore
	engagements   stubEngagementStore
	notifications stubNotificationStore
	audit         stubAuditStore
	walletSvc     stubWalletService
	settlementSvc stubSettlementService
	engagementSvc stubEngagementService
	txRunner      fakeTxRunner
}

func newTestHandler(stubs handlerStubs) *Handler {
	cfg := config.Config{
		AppEnv:         "test",
		Port:           "0",
		JWTSecret:      "secret",
		TokenTTL:       time.Minute,
		AllowedOrigins: "*",
	}
	return New(stubs.txRunner, cfg, stubs.users, stubs.wallets, stubs.jobs, stubs.transactions,
		stubs.withdrawals, stubs.completions, stubs.engagements, stubs.notifications, stubs.audit,
		stubs.walletSvc, stubs.settlementSvc, stubs.engagementSvc, websocket.NewHub())
}
