package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"jobfinder/internal/models"
	"jobfinder/internal/services"
	"jobfinder/internal/store"

	"github.com/go-chi/chi/v5"
)

func withRouteParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestCreateJobSuccess(t *testing.T) {
	var created store.JobInput
	auditActions := make([]string, 0, 1)
	handler := newTestHandler(handlerStubs{
		jobs: stubJobStore{
			createFn: func(_ context.Context, _ store.Execer, input store.JobInput) error {
				created = input
				return nil
			},
		},
		audit: stubAuditStore{
			logFn: func(_ context.Context, _ store.Execer, _, action, _, _, _ string) error {
				auditActions = append(auditActions, action)
				return nil
			},
		},
	})

	body := []byte(`{"title":"Fix the fence","description":"Back garden","category":"repair","location":"Pune","budget":"500"}`)
	req := authedRequest(http.MethodPost, "/jobs", body, "poster-1", "poster")
	rr := httptest.NewRecorder()
	handler.CreateJob(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if created.Title != "Fix the fence" || created.Budget != 50000 || created.PostedBy != "poster-1" {
		t.Fatalf("unexpected job input: %+v", created)
	}
	if len(auditActions) != 1 || auditActions[0] != "create_job" {
		t.Fatalf("unexpected audit actions: %v", auditActions)
	}
	var payload map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload["job_id"] == "" {
		t.Fatal("expected job_id")
	}
}

func TestCreateJobRejectsZeroBudget(t *testing.T) {
	created := 0
	handler := newTestHandler(handlerStubs{
		jobs: stubJobStore{
			createFn: func(context.Context, store.Execer, store.JobInput) error {
				created++
				return nil
			},
		},
	})

	body := []byte(`{"title":"Fix the fence","budget":"0"}`)
	req := authedRequest(http.MethodPost, "/jobs", body, "poster-1", "poster")
	rr := httptest.NewRecorder()
	handler.CreateJob(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if created != 0 {
		t.Fatalf("expected no job created, got %d", created)
	}
}

func TestGetJobNotFound(t *testing.T) {
	handler := newTestHandler(handlerStubs{
		jobs: stubJobStore{
			getByIDFn: func(context.Context, string) (models.Job, error) {
				return models.Job{}, sql.ErrNoRows
			},
		},
	})

	req := authedRequest(http.MethodGet, "/jobs/missing", nil, "user-1", "finder")
	req = withRouteParam(req, "id", "missing")
	rr := httptest.NewRecorder()
	handler.GetJob(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestCompleteJobSuccess(t *testing.T) {
	var captured services.CompleteJobRequest
	handler := newTestHandler(handlerStubs{
		settlementSvc: stubSettlementService{
			completeJobFn: func(_ context.Context, req services.CompleteJobRequest) error {
				captured = req
				return nil
			},
		},
	})

	body := []byte(`{"finder_id":"finder-1","final_amount":"500","notes":"done"}`)
	req := authedRequest(http.MethodPost, "/jobs/job-1/complete", body, "poster-1", "poster")
	req = withRouteParam(req, "id", "job-1")
	rr := httptest.NewRecorder()
	handler.CompleteJob(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if captured.JobID != "job-1" || captured.FinderID != "finder-1" || captured.PosterID != "poster-1" {
		t.Fatalf("unexpected completion request: %+v", captured)
	}
	if captured.FinalAmount != 50000 || captured.Notes != "done" {
		t.Fatalf("unexpected amount or notes: %+v", captured)
	}
}

func TestCompleteJobErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"not owner", services.ErrNotJobOwner, http.StatusForbidden, "job_access_denied"},
		{"already completed", services.ErrJobNotActive, http.StatusConflict, "job_not_active"},
		{"bad amount", services.ErrInvalidAmount, http.StatusBadRequest, "invalid_amount"},
		{"no wallet", services.ErrWalletNotFound, http.StatusNotFound, "wallet_not_found"},
		{"missing job", sql.ErrNoRows, http.StatusNotFound, "job not found"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := newTestHandler(handlerStubs{
				settlementSvc: stubSettlementService{
					completeJobFn: func(context.Context, services.CompleteJobRequest) error {
						return tc.err
					},
				},
			})
			body := []byte(`{"finder_id":"finder-1","final_amount":"500"}`)
			req := authedRequest(http.MethodPost, "/jobs/job-1/complete", body, "poster-1", "poster")
			req = withRouteParam(req, "id", "job-1")
			rr := httptest.NewRecorder()
			handler.CompleteJob(rr, req)
			if rr.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, rr.Code)
			}
			if !strings.Contains(rr.Body.String(), tc.wantBody) {
				t.Fatalf("expected body to mention %q, got %s", tc.wantBody, rr.Body.String())
			}
		})
	}
}

func TestCompleteJobRequiresFinder(t *testing.T) {
	called := false
	handler := newTestHandler(handlerStubs{
		settlementSvc: stubSettlementService{
			completeJobFn: func(context.Context, services.CompleteJobRequest) error {
				called = true
				return nil
			},
		},
	})

	body := []byte(`{"final_amount":"500"}`)
	req := authedRequest(http.MethodPost, "/jobs/job-1/complete", body, "poster-1", "poster")
	req = withRouteParam(req, "id", "job-1")
	rr := httptest.NewRecorder()
	handler.CompleteJob(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if called {
		t.Fatal("expected settlement to be skipped without finder_id")
	}
}

func TestJobCompletedDefaultsToCaller(t *testing.T) {
	var gotJobID, gotFinderID string
	handler := newTestHandler(handlerStubs{
		walletSvc: stubWalletService{
			isJobCompletedFn: func(_ context.Context, jobID, finderID string) (bool, error) {
				gotJobID, gotFinderID = jobID, finderID
				return true, nil
			},
		},
	})

	req := authedRequest(http.MethodGet, "/jobs/job-1/completed", nil, "finder-1", "finder")
	req = withRouteParam(req, "id", "job-1")
	rr := httptest.NewRecorder()
	handler.JobCompleted(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if gotJobID != "job-1" || gotFinderID != "finder-1" {
		t.Fatalf("unexpected lookup: job=%q finder=%q", gotJobID, gotFinderID)
	}
	var payload map[string]bool
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !payload["completed"] {
		t.Fatal("expected completed true")
	}
}

func TestRateCompletionErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"out of range", services.ErrInvalidAmount, http.StatusBadRequest},
		{"outsider", services.ErrNotParticipant, http.StatusForbidden},
		{"second rating", services.ErrAlreadyRated, http.StatusConflict},
		{"missing completion", sql.ErrNoRows, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := newTestHandler(handlerStubs{
				settlementSvc: stubSettlementService{
					rateCompletionFn: func(context.Context, string, string, int) error {
						return tc.err
					},
				},
			})
			body := []byte(`{"rating":5}`)
			req := authedRequest(http.MethodPost, "/completions/comp-1/rate", body, "poster-1", "poster")
			req = withRouteParam(req, "id", "comp-1")
			rr := httptest.NewRecorder()
			handler.RateCompletion(rr, req)
			if rr.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, rr.Code)
			}
		})
	}
}
