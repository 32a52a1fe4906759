package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"jobfinder/internal/middleware"
	"jobfinder/internal/services"
	"jobfinder/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type createJobRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Location    string `json:"location"`
	Budget      string `json:"budget"`
}

func (h *Handler) CreateJob(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req createJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Title == "" {
		respondError(w, http.StatusBadRequest, "title is required")
		return
	}
	budgetMinor, err := parseAmountMinor(req.Budget)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_amount")
		return
	}
	jobID := uuid.NewString()
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		if err := h.jobs.Create(r.Context(), tx, store.JobInput{
			ID:          jobID,
			Title:       req.Title,
			Description: req.Description,
			Category:    req.Category,
			Location:    req.Location,
			Budget:      budgetMinor,
			PostedBy:    userID,
		}); err != nil {
			return err
		}
		data, _ := json.Marshal(map[string]string{
			"title":  req.Title,
			"budget": formatAmount(budgetMinor),
		})
		return h.audit.Log(r.Context(), tx, userID, "create_job", "job", jobID, string(data))
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to create job")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"job_id": jobID})
}

func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.jobs.ListActive(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load jobs")
		return
	}
	respondJSON(w, http.StatusOK, jobs)
}

func (h *Handler) ListMyJobs(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	jobs, err := h.jobs.ListByPoster(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load jobs")
		return
	}
	respondJSON(w, http.StatusOK, jobs)
}

func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	job, err := h.jobs.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(w, http.StatusNotFound, "job not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load job")
		return
	}
	respondJSON(w, http.StatusOK, job)
}

func (h *Handler) JobCompleted(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	finderID := r.URL.Query().Get("finder_id")
	if finderID == "" {
		finderID = userID
	}
	completed, err := h.walletSvc.IsJobCompleted(r.Context(), chi.URLParam(r, "id"), finderID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to check completion")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"completed": completed})
}

type completeJobRequest struct {
	FinderID    string `json:"finder_id"`
	FinalAmount string `json:"final_amount"`
	Notes       string `json:"notes"`
}

func (h *Handler) CompleteJob(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req completeJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.FinderID == "" {
		respondError(w, http.StatusBadRequest, "finder_id is required")
		return
	}
	amountMinor, err := parseAmountMinor(req.FinalAmount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_amount")
		return
	}
	err = h.settlementSvc.CompleteJob(r.Context(), services.CompleteJobRequest{
		JobID:       chi.URLParam(r, "id"),
		FinderID:    req.FinderID,
		PosterID:    userID,
		FinalAmount: amountMinor,
		Notes:       req.Notes,
	})
	if err != nil {
		switch err {
		case services.ErrNotJobOwner:
			respondError(w, http.StatusForbidden, "job_access_denied")
		case services.ErrJobNotActive:
			respondError(w, http.StatusConflict, "job_not_active")
		case services.ErrInvalidAmount:
			respondError(w, http.StatusBadRequest, "invalid_amount")
		case services.ErrWalletNotFound:
			respondError(w, http.StatusNotFound, "wallet_not_found")
		case sql.ErrNoRows:
			respondError(w, http.StatusNotFound, "job not found")
		default:
			respondError(w, http.StatusInternalServerError, "completion_failed")
		}
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "completed"})
}

type rateCompletionRequest struct {
	Rating int `json:"rating"`
}

func (h *Handler) RateCompletion(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req rateCompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	err := h.settlementSvc.RateCompletion(r.Context(), chi.URLParam(r, "id"), userID, req.Rating)
	if err != nil {
		switch err {
		case services.ErrInvalidAmount:
			respondError(w, http.StatusBadRequest, "invalid_rating")
		case services.ErrNotParticipant:
			respondError(w, http.StatusForbidden, "not_a_participant")
		case services.ErrAlreadyRated:
			respondError(w, http.StatusConflict, "already_rated")
		case sql.ErrNoRows:
			respondError(w, http.StatusNotFound, "completion not found")
		default:
			respondError(w, http.StatusInternalServerError, "rating_failed")
		}
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "rated"})
}
