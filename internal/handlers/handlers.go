package handlers

import (
	"encoding/json"
	"net/http"

	"jobfinder/internal/config"
	"jobfinder/internal/db"
	"jobfinder/internal/money"
	"jobfinder/internal/websocket"
)

type Handler struct {
	txRunner      db.TxRunner
	cfg           config.Config
	users         UserStore
	wallets       WalletStore
	jobs          JobStore
	transactions  TransactionStore
	withdrawals   WithdrawalStore
	completions   CompletionStore
	engagements   EngagementStore
	notifications NotificationStore
	audit         AuditStore
	walletSvc     WalletService
	settlementSvc SettlementService
	engagementSvc EngagementService
	hub           *websocket.Hub
}

func New(txRunner db.TxRunner, cfg config.Config, users UserStore, wallets WalletStore, jobs JobStore, transactions TransactionStore, withdrawals WithdrawalStore, completions CompletionStore, engagements EngagementStore, notifications NotificationStore, audit AuditStore, walletSvc WalletService, settlementSvc SettlementService, engagementSvc EngagementService, hub *websocket.Hub) *Handler {
	return &Handler{
		txRunner:      txRunner,
		cfg:           cfg,
		users:         users,
		wallets:       wallets,
		jobs:          jobs,
		transactions:  transactions,
		withdrawals:   withdrawals,
		completions:   completions,
		engagements:   engagements,
		notifications: notifications,
		audit:         audit,
		walletSvc:     walletSvc,
		settlementSvc: settlementSvc,
		engagementSvc: engagementSvc,
		hub:           hub,
	}
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func formatAmount(minor int64) string {
	return money.FormatMinor(minor)
}
