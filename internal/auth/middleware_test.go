package auth

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/paykash-service/internal/domain"
)

// mockUserRepository implements repository.UserRepository for gate tests.
type mockUserRepository struct {
	getByEmailFunc func(ctx context.Context, email string) (*domain.User, error)
}

func (m *mockUserRepository) Create(context.Context, *domain.User) error { return errors.New("not implemented") }
func (m *mockUserRepository) Update(context.Context, *domain.User) error { return errors.New("not implemented") }
func (m *mockUserRepository) GetByID(context.Context, string) (*domain.User, error) {
	return nil, errors.New("not implemented")
}
func (m *mockUserRepository) List(context.Context) ([]*domain.User, error) {
	return nil, errors.New("not implemented")
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.getByEmailFunc != nil {
		return m.getByEmailFunc(ctx, email)
	}
	return nil, pgx.ErrNoRows
}

func newGateApp(t *testing.T, users *mockUserRepository, role domain.Role) (*fiber.App, *TokenManager) {
	t.Helper()
	tokens := NewTokenManager("test-secret", time.Hour, 24*time.Hour)
	m := NewMiddleware(tokens, users)

	app := fiber.New()
	handlers := []fiber.Handler{m.RequireAuthenticated}
	if role != "" {
		handlers = append(handlers, m.RequireRole(role))
	}
	handlers = append(handlers, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/protected", handlers...)
	return app, tokens
}

func TestRequireAuthenticated(t *testing.T) {
	tokens := NewTokenManager("test-secret", time.Hour, 24*time.Hour)
	otherTokens := NewTokenManager("other-secret", time.Hour, 24*time.Hour)

	validToken, _, err := tokens.IssueSessionToken(&domain.User{ID: "u1", Email: "a@x.com", Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("IssueSessionToken() error = %v", err)
	}
	foreignToken, _, err := otherTokens.IssueSessionToken(&domain.User{ID: "u1", Email: "a@x.com", Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("IssueSessionToken() error = %v", err)
	}

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "missing authorization header",
			authHeader:     "",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "Unauthorized access",
		},
		{
			name:           "invalid token",
			authHeader:     "Bearer not-a-token",
			expectedStatus: http.StatusForbidden,
			expectedBody:   "forbidden access",
		},
		{
			name:           "token signed with different secret",
			authHeader:     "Bearer " + foreignToken,
			expectedStatus: http.StatusForbidden,
			expectedBody:   "forbidden access",
		},
		{
			name:           "valid token without bearer scheme",
			authHeader:     validToken,
			expectedStatus: http.StatusForbidden,
			expectedBody:   "forbidden access",
		},
		{
			name:           "wrong scheme",
			authHeader:     "Basic " + validToken,
			expectedStatus: http.StatusForbidden,
			expectedBody:   "forbidden access",
		},
		{
			name:           "valid bearer token",
			authHeader:     "Bearer " + validToken,
			expectedStatus: http.StatusOK,
			expectedBody:   `"ok"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _ := newGateApp(t, &mockUserRepository{}, "")

			req := httptest.NewRequest("GET", "/protected", nil)
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

			body, err := io.ReadAll(resp.Body)
			if err != nil {
				t.Fatalf("io.ReadAll() error = %v", err)
			}
			if !strings.Contains(string(body), tt.expectedBody) {
				t.Errorf("body = %v, want to contain %v", string(body), tt.expectedBody)
			}
		})
	}
}

func TestRequireAuthenticated_AttachesClaims(t *testing.T) {
	tokens := NewTokenManager("test-secret", time.Hour, 24*time.Hour)
	m := NewMiddleware(tokens, &mockUserRepository{})

	token, _, err := tokens.IssueSessionToken(&domain.User{ID: "u-42", Email: "claims@x.com", Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("IssueSessionToken() error = %v", err)
	}

	var captured *Claims
	app := fiber.New()
	app.Get("/protected", m.RequireAuthenticated, func(c *fiber.Ctx) error {
		claims, ok := ClaimsFromContext(c)
		if !ok {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "no claims"})
		}
		captured = claims
		return c.JSON(fiber.Map{"status": "ok"})
	})

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %v, want %v", resp.StatusCode, http.StatusOK)
	}
	if captured == nil {
		t.Fatal("claims not set in context")
	}
	if captured.Subject != "u-42" || captured.Email != "claims@x.com" {
		t.Errorf("claims = %+v, want subject u-42 / email claims@x.com", captured)
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name           string
		tokenRole      domain.Role
		directoryUser  *domain.User
		directoryErr   error
		expectedStatus int
	}{
		{
			name:           "directory admin passes",
			tokenRole:      domain.RoleAdmin,
			directoryUser:  &domain.User{ID: "u1", Email: "a@x.com", Role: domain.RoleAdmin},
			expectedStatus: http.StatusOK,
		},
		{
			// The token still claims admin, but the directory has since
			// demoted the account. The live role wins.
			name:           "stale admin claim rejected",
			tokenRole:      domain.RoleAdmin,
			directoryUser:  &domain.User{ID: "u1", Email: "a@x.com", Role: domain.RoleUser},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "non admin rejected",
			tokenRole:      domain.RoleUser,
			directoryUser:  &domain.User{ID: "u1", Email: "a@x.com", Role: domain.RoleUser},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "account deleted after issuance",
			tokenRole:      domain.RoleAdmin,
			directoryErr:   pgx.ErrNoRows,
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &mockUserRepository{
				getByEmailFunc: func(ctx context.Context, email string) (*domain.User, error) {
					if tt.directoryErr != nil {
						return nil, tt.directoryErr
					}
					return tt.directoryUser, nil
				},
			}
			app, tokens := newGateApp(t, users, domain.RoleAdmin)

			token, _, err := tokens.IssueSessionToken(&domain.User{ID: "u1", Email: "a@x.com", Role: tt.tokenRole})
			if err != nil {
				t.Fatalf("IssueSessionToken() error = %v", err)
			}

			req := httptest.NewRequest("GET", "/protected", nil)
			req.Header.Set("Authorization", "Bearer "+token)

			resp, err := app.Test(req, -1)
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.expectedStatus {
				t.Errorf("status = %v, want %v", resp.StatusCode, tt.expectedStatus)
			}
		})
	}
}
