package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"jobfinder/internal/models"
)

func TestEngagementStoreCreateApplicationPending(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "INSERT INTO applications") || !strings.Contains(query, "'pending'") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 7 || args[0] != "app-1" {
				t.Fatalf("unexpected args: %#v", args)
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewEngagementStore(stubDB{})
	err := store.CreateApplication(ctx, execer, ApplicationInput{ID: "app-1", JobID: "job-1", FinderID: "finder-1", FinderName: "sam"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEngagementStoreCreateNegotiationPending(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "INSERT INTO negotiations") || !strings.Contains(query, "'pending'") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 8 || args[4] != int64(30000) {
				t.Fatalf("unexpected args: %#v", args)
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewEngagementStore(stubDB{})
	err := store.CreateNegotiation(ctx, execer, NegotiationInput{ID: "neg-1", JobID: "job-1", FinderID: "finder-1", ProposedAmount: 30000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEngagementStoreDecideApplicationOnlyPending(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "WHERE id = $2 AND status = 'pending'") {
				t.Fatalf("expected pending guard, got: %s", query)
			}
			if args[0] != "approved" || args[1] != "app-1" {
				t.Fatalf("unexpected args: %#v", args)
			}
			return stubResult{rows: 0}, nil
		},
	}
	store := NewEngagementStore(stubDB{})
	rows, err := store.DecideApplication(ctx, execer, "app-1", "approved")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows != 0 {
		t.Fatalf("expected 0 rows for decided application, got %d", rows)
	}
}

func TestEngagementStoreDecideNegotiationOnlyPending(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "UPDATE negotiations") || !strings.Contains(query, "status = 'pending'") {
				t.Fatalf("unexpected query: %s", query)
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewEngagementStore(stubDB{})
	rows, err := store.DecideNegotiation(ctx, execer, "neg-1", "accepted")
	if err != nil || rows != 1 {
		t.Fatalf("unexpected result: rows=%d err=%v", rows, err)
	}
}

func TestEngagementStoreListConfirmedTagged(t *testing.T) {
	ctx := context.Background()
	store := NewEngagementStore(stubDB{
		selectFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "'application' AS kind") || !strings.Contains(query, "'negotiation' AS kind") {
				t.Fatalf("expected tagged kinds in query: %s", query)
			}
			if !strings.Contains(query, "UNION ALL") {
				t.Fatalf("expected union of both engagement shapes: %s", query)
			}
			if !strings.Contains(query, "j.budget AS final_amount") || !strings.Contains(query, "n.proposed_amount AS final_amount") {
				t.Fatalf("expected per-kind final amounts: %s", query)
			}
			if len(args) != 1 || args[0] != "user-1" {
				t.Fatalf("unexpected args: %#v", args)
			}
			*dest.(*[]models.Engagement) = []models.Engagement{
				{Kind: models.EngagementNegotiation, ID: "neg-1", FinalAmount: 30000},
			}
			return nil
		},
	})
	rows, err := store.ListConfirmedByUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0].Kind != models.EngagementNegotiation {
		t.Fatalf("unexpected rows: %#v", rows)
	}
}
