package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"jobfinder/internal/middleware"
	"jobfinder/internal/models"
	"jobfinder/internal/services"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) GetWallet(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	wallet, err := h.walletSvc.GetWallet(r.Context(), userID)
	if err != nil {
		// A user without a wallet row shows zero balances.
		if err != services.ErrWalletNotFound {
			respondError(w, http.StatusInternalServerError, "unable to load wallet")
			return
		}
		wallet = models.Wallet{UserID: userID}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"id":             wallet.ID,
		"user_id":        wallet.UserID,
		"balance":        formatAmount(wallet.Balance),
		"total_earned":   formatAmount(wallet.TotalEarned),
		"pending_amount": formatAmount(wallet.PendingAmount),
		"updated_at":     wallet.UpdatedAt,
	})
}

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	limit := parseInt(r.URL.Query().Get("limit"), 50)
	offset := parseInt(r.URL.Query().Get("offset"), 0)
	txType := r.URL.Query().Get("type")
	transactions, err := h.transactions.ListByUser(r.Context(), userID, txType, limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load transactions")
		return
	}
	normalized := make([]map[string]any, 0, len(transactions))
	for _, txn := range transactions {
		normalized = append(normalized, map[string]any{
			"id":           txn.ID,
			"job_id":       txn.JobID,
			"job_title":    txn.JobTitle,
			"type":         txn.Type,
			"status":       txn.Status,
			"amount":       formatAmount(txn.Amount),
			"description":  txn.Description,
			"created_at":   txn.CreatedAt,
			"completed_at": txn.CompletedAt,
		})
	}
	respondJSON(w, http.StatusOK, normalized)
}

func (h *Handler) ListPendingPayments(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	limit := parseInt(r.URL.Query().Get("limit"), 100)
	transactions, err := h.transactions.ListByUser(r.Context(), userID, models.TransactionTypeEarning, limit, 0)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load pending payments")
		return
	}
	pending := make([]map[string]any, 0)
	for _, txn := range transactions {
		if txn.Status != models.TransactionStatusPending {
			continue
		}
		pending = append(pending, map[string]any{
			"id":         txn.ID,
			"job_id":     txn.JobID,
			"job_title":  txn.JobTitle,
			"amount":     formatAmount(txn.Amount),
			"created_at": txn.CreatedAt,
		})
	}
	respondJSON(w, http.StatusOK, pending)
}

func (h *Handler) ListWithdrawals(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	withdrawals, err := h.withdrawals.ListByUser(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load withdrawals")
		return
	}
	respondJSON(w, http.StatusOK, withdrawals)
}

type withdrawRequest struct {
	Amount        string `json:"amount"`
	UpiID         string `json:"upi_id"`
	BankName      string `json:"bank_name"`
	BankAccountNo string `json:"bank_account_no"`
}

func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req withdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	amountMinor, err := parseAmountMinor(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_amount")
		return
	}
	reference, err := h.walletSvc.WithdrawFunds(r.Context(), services.WithdrawRequest{
		UserID:        userID,
		Amount:        amountMinor,
		UpiID:         req.UpiID,
		BankName:      req.BankName,
		BankAccountNo: req.BankAccountNo,
	})
	if err != nil {
		switch err {
		case services.ErrInvalidAmount:
			respondError(w, http.StatusBadRequest, "invalid_amount")
		case services.ErrInvalidDestination:
			respondError(w, http.StatusBadRequest, "invalid_destination")
		case services.ErrInsufficientBalance:
			respondError(w, http.StatusBadRequest, "insufficient_balance")
		case services.ErrWalletNotFound:
			respondError(w, http.StatusNotFound, "wallet_not_found")
		default:
			respondError(w, http.StatusInternalServerError, "withdrawal_failed")
		}
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"reference": reference})
}

type pendingPaymentRequest struct {
	FinderID string `json:"finder_id"`
	Amount   string `json:"amount"`
}

// CreatePendingPayment accrues the pending earning for a finder on the
// poster's job. The accrue-once guard makes repeat calls harmless, so this
// also recovers an accrual that failed after an engagement decision.
func (h *Handler) CreatePendingPayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req pendingPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.FinderID == "" {
		respondError(w, http.StatusBadRequest, "finder_id is required")
		return
	}
	amountMinor, err := parseAmountMinor(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_amount")
		return
	}
	jobID := chi.URLParam(r, "id")
	job, err := h.jobs.GetByID(r.Context(), jobID)
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(w, http.StatusNotFound, "job not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load job")
		return
	}
	if job.PostedBy != userID {
		respondError(w, http.StatusForbidden, "job_access_denied")
		return
	}
	if err := h.walletSvc.AddPendingPayment(r.Context(), req.FinderID, jobID, amountMinor); err != nil {
		switch err {
		case services.ErrInvalidAmount:
			respondError(w, http.StatusBadRequest, "invalid_amount")
		case services.ErrWalletNotFound:
			respondError(w, http.StatusNotFound, "wallet_not_found")
		default:
			respondError(w, http.StatusInternalServerError, "accrual_failed")
		}
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"status": "pending"})
}

func (h *Handler) ListCompletedJobs(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	completions, err := h.completions.ListByParticipant(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load completed jobs")
		return
	}
	respondJSON(w, http.StatusOK, completions)
}
