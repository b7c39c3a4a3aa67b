package ratelimit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type stubLimiter struct {
	result *Result
	err    error
}

func (s *stubLimiter) Allow(context.Context, string) (*Result, error) {
	return s.result, s.err
}

func TestLoginLimit(t *testing.T) {
	tests := []struct {
		name           string
		limiter        Limiter
		expectedStatus int
		retryAfter     string
	}{
		{
			name:           "allowed",
			limiter:        &stubLimiter{result: &Result{Allowed: true, Remaining: 3}},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "denied",
			limiter:        &stubLimiter{result: &Result{Allowed: false, RetryAfter: 42 * time.Second}},
			expectedStatus: http.StatusTooManyRequests,
			retryAfter:     "42",
		},
		{
			name:           "denied with sub-second retry",
			limiter:        &stubLimiter{result: &Result{Allowed: false, RetryAfter: 200 * time.Millisecond}},
			expectedStatus: http.StatusTooManyRequests,
			retryAfter:     "1",
		},
		{
			// Redis being down must not lock accounts out of login.
			name:           "limiter failure fails open",
			limiter:        &stubLimiter{err: errors.New("redis down")},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "nil limiter passes through",
			limiter:        nil,
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Post("/login", LoginLimit(tt.limiter, zap.NewNop()), func(c *fiber.Ctx) error {
				return c.JSON(fiber.Map{"success": true})
			})

			req := httptest.NewRequest("POST", "/login", nil)
			resp, err := app.Test(req, -1)
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.expectedStatus {
				t.Errorf("status = %v, want %v", resp.StatusCode, tt.expectedStatus)
			}
			if tt.retryAfter != "" && resp.Header.Get("Retry-After") != tt.retryAfter {
				t.Errorf("Retry-After = %q, want %q", resp.Header.Get("Retry-After"), tt.retryAfter)
			}
		})
	}
}
