package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jobfinder/internal/config"
	"jobfinder/internal/db"
	"jobfinder/internal/handlers"
	"jobfinder/internal/services"
	"jobfinder/internal/store"
	"jobfinder/internal/websocket"
)

func main() {
	cfg := config.Load()
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer database.Close()

	users := store.NewUserStore(database)
	wallets := store.NewWalletStore(database)
	jobs := store.NewJobStore(database)
	transactions := store.NewTransactionStore(database)
	withdrawals := store.NewWithdrawalStore(database)
	completions := store.NewCompletionStore(database)
	engagements := store.NewEngagementStore(database)
	notifications := store.NewNotificationStore(database)
	audit := store.NewAuditStore(database)
	txRunner := db.NewTxRunner(database)
	hub := websocket.NewHub()

	walletSvc := services.NewWalletService(txRunner, wallets, transactions, withdrawals, completions, audit, hub)
	settlementSvc := services.NewSettlementService(txRunner, jobs, completions, transactions, wallets, notifications, audit, hub)
	engagementSvc := services.NewEngagementService(txRunner, engagements, jobs, walletSvc, notifications, audit)

	handler := handlers.New(txRunner, cfg, users, wallets, jobs, transactions, withdrawals, completions, engagements, notifications, audit, walletSvc, settlementSvc, engagementSvc, hub)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("jobfinder API listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	<-shutdown

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}
