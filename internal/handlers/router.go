package handlers

import (
	"net/http"

	"jobfinder/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.Logger)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{h.cfg.AllowedOrigins},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	router.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.With(middleware.Auth(h.cfg.JWTSecret)).Get("/me", h.Me)
	})

	router.Route("/jobs", func(r chi.Router) {
		r.Use(middleware.Auth(h.cfg.JWTSecret))
		r.Get("/", h.ListJobs)
		r.With(middleware.RequireRole("poster")).Post("/", h.CreateJob)
		r.With(middleware.RequireRole("poster")).Get("/mine", h.ListMyJobs)
		r.Get("/{id}", h.GetJob)
		r.Get("/{id}/completed", h.JobCompleted)
		r.With(middleware.RequireRole("poster")).Post("/{id}/complete", h.CompleteJob)
		r.With(middleware.RequireRole("poster")).Post("/{id}/pending-payments", h.CreatePendingPayment)
		r.Get("/{id}/applications", h.ListApplications)
		r.Get("/{id}/negotiations", h.ListNegotiations)
		r.With(middleware.RequireRole("finder")).Post("/{id}/applications", h.Apply)
		r.With(middleware.RequireRole("finder")).Post("/{id}/negotiations", h.Negotiate)
	})

	router.With(middleware.Auth(h.cfg.JWTSecret), middleware.RequireRole("poster")).
		Post("/applications/{id}/approve", h.ApproveApplication)
	router.With(middleware.Auth(h.cfg.JWTSecret), middleware.RequireRole("poster")).
		Post("/applications/{id}/reject", h.RejectApplication)
	router.With(middleware.Auth(h.cfg.JWTSecret), middleware.RequireRole("poster")).
		Post("/negotiations/{id}/accept", h.AcceptNegotiation)
	router.With(middleware.Auth(h.cfg.JWTSecret), middleware.RequireRole("poster")).
		Post("/negotiations/{id}/reject", h.RejectNegotiation)

	router.Route("/wallet", func(r chi.Router) {
		r.Use(middleware.Auth(h.cfg.JWTSecret))
		r.Get("/", h.GetWallet)
		r.Get("/transactions", h.ListTransactions)
		r.Get("/pending-payments", h.ListPendingPayments)
		r.Get("/withdrawals", h.ListWithdrawals)
		r.Post("/withdraw", h.Withdraw)
		r.Get("/completed-jobs", h.ListCompletedJobs)
	})

	router.With(middleware.Auth(h.cfg.JWTSecret)).Get("/engagements", h.ListEngagements)
	router.With(middleware.Auth(h.cfg.JWTSecret)).Post("/completions/{id}/rate", h.RateCompletion)
	router.With(middleware.Auth(h.cfg.JWTSecret)).Get("/notifications", h.ListNotifications)
	router.With(middleware.Auth(h.cfg.JWTSecret)).Post("/notifications/{id}/read", h.MarkNotificationRead)
	router.Get("/ws/wallet", h.WSWallet)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return router
}
