package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/paykash-service/internal/auth"
	"github.com/spec-kit/paykash-service/internal/domain"
	"github.com/spec-kit/paykash-service/internal/service"
)

func newDirectoryApp(t *testing.T, users *memoryUserRepository) (*fiber.App, *auth.TokenManager) {
	t.Helper()
	tokens := auth.NewTokenManager("test-secret", time.Hour, 24*time.Hour)
	gates := auth.NewMiddleware(tokens, users)
	h := NewUsersHandler(service.NewUserService(users))

	app := newTestApp()
	app.Get("/users",
		gates.RequireAuthenticated,
		gates.RequireRole(domain.RoleAdmin),
		h.List)
	app.Get("/user/:id", h.Get)
	return app, tokens
}

func seedUser(t *testing.T, users *memoryUserRepository, email string, role domain.Role) *domain.User {
	t.Helper()
	user := &domain.User{
		Name:    "Seed",
		Email:   email,
		PINHash: "$2a$04$notverifiedbythesetests..............",
		Role:    role,
		Status:  domain.UserStatusActive,
	}
	if err := users.Create(context.Background(), user); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return user
}

func TestGetUser_UnknownIDReturnsNull(t *testing.T) {
	app, _ := newDirectoryApp(t, newMemoryUserRepository())

	req := httptest.NewRequest("GET", "/user/no-such-id", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %v, want %v", resp.StatusCode, http.StatusOK)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("io.ReadAll() error = %v", err)
	}
	if strings.TrimSpace(string(body)) != "null" {
		t.Errorf("body = %q, want null", body)
	}
}

func TestGetUser_KnownID(t *testing.T) {
	users := newMemoryUserRepository()
	seeded := seedUser(t, users, "a@x.com", domain.RoleUser)
	app, _ := newDirectoryApp(t, users)

	req := httptest.NewRequest("GET", "/user/"+seeded.ID, nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %v, want %v", resp.StatusCode, http.StatusOK)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `"a@x.com"`) {
		t.Errorf("body = %s, want record for a@x.com", body)
	}
	if strings.Contains(string(body), "$2a$") {
		t.Errorf("body leaks PIN hash: %s", body)
	}
}

func TestListUsers_AdminGate(t *testing.T) {
	users := newMemoryUserRepository()
	seedUser(t, users, "member@x.com", domain.RoleUser)
	admin := seedUser(t, users, "admin@x.com", domain.RoleAdmin)
	member, err := users.GetByEmail(context.Background(), "member@x.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}

	app, tokens := newDirectoryApp(t, users)

	adminToken, _, err := tokens.IssueSessionToken(admin)
	if err != nil {
		t.Fatalf("IssueSessionToken() error = %v", err)
	}
	memberToken, _, err := tokens.IssueSessionToken(member)
	if err != nil {
		t.Fatalf("IssueSessionToken() error = %v", err)
	}

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
	}{
		{name: "no credential", authHeader: "", expectedStatus: http.StatusUnauthorized},
		{name: "invalid credential", authHeader: "Bearer garbage", expectedStatus: http.StatusForbidden},
		{name: "authenticated non-admin", authHeader: "Bearer " + memberToken, expectedStatus: http.StatusForbidden},
		{name: "admin", authHeader: "Bearer " + adminToken, expectedStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/users", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			resp, err := app.Test(req, -1)
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.expectedStatus {
				t.Errorf("status = %v, want %v", resp.StatusCode, tt.expectedStatus)
			}

			if tt.expectedStatus == http.StatusOK {
				body, _ := io.ReadAll(resp.Body)
				if !strings.Contains(string(body), "member@x.com") || !strings.Contains(string(body), "admin@x.com") {
					t.Errorf("body = %s, want both directory records", body)
				}
			}
		})
	}
}
