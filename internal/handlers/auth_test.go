package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"jobfinder/internal/auth"
	"jobfinder/internal/middleware"
	"jobfinder/internal/models"
	"jobfinder/internal/store"

	"github.com/lib/pq"
)

func TestRegisterSuccess(t *testing.T) {
	createdUsers := 0
	createdWallets := 0
	auditActions := make([]string, 0, 1)
	handler := newTestHandler(handlerStubs{
		users: stubUserStore{
			createFn: func(_ context.Context, _ store.Execer, _, username, email, role, passwordHash string) error {
				if username != "alice" || email != "alice@example.com" || role != "finder" {
					t.Fatalf("unexpected user fields: %s %s %s", username, email, role)
				}
				if passwordHash == "" || passwordHash == "pass1234" {
					t.Fatalf("expected hashed password, got %q", passwordHash)
				}
				createdUsers++
				return nil
			},
		},
		wallets: stubWalletStore{
			createFn: func(_ context.Context, _ store.Execer, _, userID string) error {
				if userID == "" {
					t.Fatal("expected wallet owner id")
				}
				createdWallets++
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

	body := []byte(`{"username":"alice","email":"alice@example.com","password":"pass1234","role":"finder"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	handler.Register(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var payload map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload["token"] == "" {
		t.Fatal("expected token")
	}
	claims, err := auth.ParseToken("secret", payload["token"])
	if err != nil {
		t.Fatalf("failed to parse issued token: %v", err)
	}
	if claims.Role != "finder" {
		t.Fatalf("expected finder role in token, got %q", claims.Role)
	}
	if createdUsers != 1 || createdWallets != 1 {
		t.Fatalf("unexpected create counts: users=%d wallets=%d", createdUsers, createdWallets)
	}
	if len(auditActions) != 1 || auditActions[0] != "register" {
		t.Fatalf("unexpected audit actions: %v", auditActions)
	}
}

func TestRegisterDuplicateUser(t *testing.T) {
	handler := newTestHandler(handlerStubs{
		users: stubUserStore{
			createFn: func(context.Context, store.Execer, string, string, string, string, string) error {
				return &pq.Error{Code: "23505"}
			},
		},
	})

	body := []byte(`{"username":"alice","email":"alice@example.com","password":"pass1234","role":"poster"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	handler.Register(rr, req)
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rr.Code)
	}
}

func TestRegisterInvalidRole(t *testing.T) {
	createdUsers := 0
	handler := newTestHandler(handlerStubs{
		users: stubUserStore{
			createFn: func(context.Context, store.Execer, string, string, string, string, string) error {
				createdUsers++
				return nil
			},
		},
	})

	body := []byte(`{"username":"alice","email":"alice@example.com","password":"pass1234","role":"admin"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	handler.Register(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if createdUsers != 0 {
		t.Fatalf("expected no user created, got %d", createdUsers)
	}
}

func TestLoginSuccess(t *testing.T) {
	passwordHash, err := auth.HashPassword("pass1234")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	handler := newTestHandler(handlerStubs{
		users: stubUserStore{
			getByEmailFn: func(context.Context, string) (models.User, error) {
				return models.User{ID: "user-1", Role: "poster", PasswordHash: passwordHash}, nil
			},
		},
	})

	body := []byte(`{"email":"alice@example.com","password":"pass1234"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	handler.Login(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var payload map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	claims, err := auth.ParseToken("secret", payload["token"])
	if err != nil {
		t.Fatalf("failed to parse issued token: %v", err)
	}
	if claims.UserID != "user-1" || claims.Role != "poster" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	handler := newTestHandler(handlerStubs{
		users: stubUserStore{
			getByEmailFn: func(context.Context, string) (models.User, error) {
				return models.User{}, sql.ErrNoRows
			},
		},
	})

	body := []byte(`{"email":"alice@example.com","password":"pass1234"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	handler.Login(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	passwordHash, err := auth.HashPassword("pass1234")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	handler := newTestHandler(handlerStubs{
		users: stubUserStore{
			getByEmailFn: func(context.Context, string) (models.User, error) {
				return models.User{ID: "user-1", Role: "finder", PasswordHash: passwordHash}, nil
			},
		},
	})

	body := []byte(`{"email":"alice@example.com","password":"wrongpass"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	handler.Login(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestMe(t *testing.T) {
	handler := newTestHandler(handlerStubs{
		users: stubUserStore{
			getByIDFn: func(_ context.Context, userID string) (models.User, error) {
				return models.User{ID: userID, Username: "alice", Email: "alice@example.com", Role: "finder"}, nil
			},
		},
	})

	token, err := auth.GenerateToken("secret", "user-1", "finder", time.Minute)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	middleware.Auth("secret")(http.HandlerFunc(handler.Me)).ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var user models.User
	if err := json.NewDecoder(rr.Body).Decode(&user); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if user.ID != "user-1" || user.Username != "alice" {
		t.Fatalf("unexpected user payload: %+v", user)
	}
}

func TestWSWalletMissingToken(t *testing.T) {
	handler := newTestHandler(handlerStubs{})
	req := httptest.NewRequest(http.MethodGet, "/ws/wallet", nil)
	rr := httptest.NewRecorder()
	handler.WSWallet(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestWSWalletInvalidToken(t *testing.T) {
	handler := newTestHandler(handlerStubs{})
	req := httptest.NewRequest(http.MethodGet, "/ws/wallet?token=not-a-jwt", nil)
	rr := httptest.NewRecorder()
	handler.WSWallet(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}
