package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"

	"jobfinder/internal/middleware"
	"jobfinder/internal/services"

	"github.com/go-chi/chi/v5"
)

type applyRequest struct {
	Message        string `json:"message"`
	StudentEmail   string `json:"student_email"`
	StudentContact string `json:"student_contact"`
}

func (h *Handler) Apply(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req applyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load user")
		return
	}
	applicationID, err := h.engagementSvc.Apply(r.Context(), services.ApplyRequest{
		JobID:          chi.URLParam(r, "id"),
		FinderID:       userID,
		FinderName:     user.Username,
		Message:        req.Message,
		StudentEmail:   req.StudentEmail,
		StudentContact: req.StudentContact,
	})
	if err != nil {
		respondEngagementError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"application_id": applicationID})
}

type negotiateRequest struct {
	ProposedAmount string `json:"proposed_amount"`
	Message        string `json:"message"`
	StudentEmail   string `json:"student_email"`
	StudentContact string `json:"student_contact"`
}

func (h *Handler) Negotiate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req negotiateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	amountMinor, err := parseAmountMinor(req.ProposedAmount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_amount")
		return
	}
	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load user")
		return
	}
	negotiationID, err := h.engagementSvc.Negotiate(r.Context(), services.NegotiateRequest{
		JobID:          chi.URLParam(r, "id"),
		FinderID:       userID,
		FinderName:     user.Username,
		ProposedAmount: amountMinor,
		Message:        req.Message,
		StudentEmail:   req.StudentEmail,
		StudentContact: req.StudentContact,
	})
	if err != nil {
		respondEngagementError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"negotiation_id": negotiationID})
}

func (h *Handler) ListApplications(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
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
	applications, err := h.engagements.ListApplicationsByJob(r.Context(), jobID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load applications")
		return
	}
	respondJSON(w, http.StatusOK, applications)
}

func (h *Handler) ListNegotiations(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
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
	negotiations, err := h.engagements.ListNegotiationsByJob(r.Context(), jobID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load negotiations")
		return
	}
	respondJSON(w, http.StatusOK, negotiations)
}

func (h *Handler) ApproveApplication(w http.ResponseWriter, r *http.Request) {
	h.decideEngagement(w, r, h.engagementSvc.ApproveApplication, "approved")
}

func (h *Handler) RejectApplication(w http.ResponseWriter, r *http.Request) {
	h.decideEngagement(w, r, h.engagementSvc.RejectApplication, "rejected")
}

func (h *Handler) AcceptNegotiation(w http.ResponseWriter, r *http.Request) {
	h.decideEngagement(w, r, h.engagementSvc.AcceptNegotiation, "accepted")
}

func (h *Handler) RejectNegotiation(w http.ResponseWriter, r *http.Request) {
	h.decideEngagement(w, r, h.engagementSvc.RejectNegotiation, "rejected")
}

func (h *Handler) decideEngagement(w http.ResponseWriter, r *http.Request, decide func(ctx context.Context, id, posterID string) error, status string) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := decide(r.Context(), chi.URLParam(r, "id"), userID); err != nil {
		respondEngagementError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": status})
}

func (h *Handler) ListEngagements(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	engagements, err := h.engagements.ListConfirmedByUser(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load engagements")
		return
	}
	respondJSON(w, http.StatusOK, engagements)
}

func respondEngagementError(w http.ResponseWriter, err error) {
	switch err {
	case services.ErrJobNotActive:
		respondError(w, http.StatusConflict, "job_not_active")
	case services.ErrOwnJob:
		respondError(w, http.StatusBadRequest, "cannot_engage_own_job")
	case services.ErrNotJobOwner:
		respondError(w, http.StatusForbidden, "job_access_denied")
	case services.ErrAlreadyDecided:
		respondError(w, http.StatusConflict, "already_decided")
	case services.ErrInvalidAmount:
		respondError(w, http.StatusBadRequest, "invalid_amount")
	case sql.ErrNoRows:
		respondError(w, http.StatusNotFound, "not found")
	default:
		respondError(w, http.StatusInternalServerError, "engagement_failed")
	}
}
