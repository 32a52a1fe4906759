package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"
)

func TestNotificationStoreCreate(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "INSERT INTO notifications") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 5 || args[1] != "finder-1" || args[4] != "payment" {
				t.Fatalf("unexpected args: %#v", args)
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewNotificationStore(stubDB{})
	err := store.Create(ctx, execer, NotificationInput{
		ID:      "note-1",
		UserID:  "finder-1",
		Title:   "Payment settled",
		Message: "Your earning for Fix the fence is available",
		Type:    "payment",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNotificationStoreMarkReadScopedToOwner(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "SET read = TRUE") || !strings.Contains(query, "AND user_id = $2") {
				t.Fatalf("unexpected query: %s", query)
			}
			if args[0] != "note-1" || args[1] != "finder-1" {
				t.Fatalf("unexpected args: %#v", args)
			}
			return stubResult{rows: 0}, nil
		},
	}
	store := NewNotificationStore(stubDB{})
	rows, err := store.MarkRead(ctx, execer, "note-1", "finder-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows != 0 {
		t.Fatalf("expected 0 rows for foreign notification, got %d", rows)
	}
}
