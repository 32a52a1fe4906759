package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"jobfinder/internal/models"
)

func TestUserStoreCreate(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "INSERT INTO users") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 5 || args[0] != "user-1" || args[1] != "alice" || args[3] != "finder" {
				t.Fatalf("unexpected args: %#v", args)
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewUserStore(stubDB{})
	if err := store.Create(ctx, execer, "user-1", "alice", "alice@example.com", "finder", "hash"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUserStoreGetByEmail(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore(stubDB{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "FROM users") || !strings.Contains(query, "WHERE email = $1") {
				t.Fatalf("unexpected query: %s", query)
			}
			if !strings.Contains(query, "password_hash") {
				t.Fatalf("expected password_hash in login lookup: %s", query)
			}
			*(dest.(*models.User)) = models.User{ID: "user-1", Email: args[0].(string), Role: "poster", PasswordHash: "hash"}
			return nil
		},
	})
	user, err := store.GetByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != "user-1" || user.Role != "poster" || user.PasswordHash != "hash" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestUserStoreGetByIDOmitsPasswordHash(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore(stubDB{
		getFn: func(_ context.Context, dest any, query string, _ ...any) error {
			if !strings.Contains(query, "WHERE id = $1") {
				t.Fatalf("unexpected query: %s", query)
			}
			if strings.Contains(query, "password_hash") {
				t.Fatalf("profile lookup should not select password_hash: %s", query)
			}
			*(dest.(*models.User)) = models.User{ID: "user-1", Username: "alice"}
			return nil
		},
	})
	user, err := store.GetByID(ctx, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Username != "alice" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestUserStoreGetByEmailNotFound(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore(stubDB{
		getFn: func(context.Context, any, string, ...any) error {
			return sql.ErrNoRows
		},
	})
	if _, err := store.GetByEmail(ctx, "ghost@example.com"); err != sql.ErrNoRows {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}
