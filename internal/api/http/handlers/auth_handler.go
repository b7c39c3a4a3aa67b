package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/paykash-service/internal/api/dto"
	"github.com/spec-kit/paykash-service/internal/config"
	"github.com/spec-kit/paykash-service/internal/service"
	apperrors "github.com/spec-kit/paykash-service/pkg/util/errorutil"
)

const sessionCookieName = "token"

// AuthHandler exposes registration, login, logout, token minting, and PIN
// reset endpoints.
type AuthHandler struct {
	auth *service.AuthService
	app  config.AppConfig
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(authService *service.AuthService, appCfg config.AppConfig) *AuthHandler {
	return &AuthHandler{auth: authService, app: appCfg}
}

// Register handles POST /register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" || req.Email == "" || req.PIN == "" {
		return apperrors.NewValidationError("name, email, pin required", nil)
	}

	user, err := h.auth.Register(c.Context(), req.Name, req.Email, req.Mobile, req.PIN)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			return apperrors.NewConflict("email already registered", nil)
		}
		return apperrors.MapError(err)
	}

	return c.JSON(user)
}

// Login handles POST /login. Unknown email and wrong PIN produce the same
// response so the endpoint cannot be used to enumerate accounts.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil || req.Email == "" || req.PIN == "" {
		return c.Status(http.StatusBadRequest).JSON(dto.LoginResponse{
			Success: false,
			Message: "Invalid email or PIN",
		})
	}

	_, token, _, err := h.auth.Login(c.Context(), req.Email, req.PIN)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return c.Status(http.StatusBadRequest).JSON(dto.LoginResponse{
				Success: false,
				Message: "Invalid email or PIN",
			})
		}
		return c.Status(http.StatusInternalServerError).JSON(dto.LoginResponse{
			Success: false,
			Message: "Server error",
		})
	}

	return c.JSON(dto.LoginResponse{Success: true, Token: token})
}

// Logout handles GET /logout. The server holds no session state; the handler
// only instructs the client to drop its session cookie, so repeated calls are
// harmless.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sameSite := fiber.CookieSameSiteStrictMode
	if h.app.Production() {
		sameSite = fiber.CookieSameSiteNoneMode
	}
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   h.app.Production(),
		SameSite: sameSite,
	})

	return c.JSON(fiber.Map{"success": true})
}

// MintToken handles POST /jwt, issuing a long-lived service token.
func (h *AuthHandler) MintToken(c *fiber.Ctx) error {
	var req dto.MintTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" {
		return apperrors.NewValidationError("email required", nil)
	}

	token, err := h.auth.MintServiceToken(c.Context(), req.Email)
	if err != nil {
		return apperrors.MapError(err)
	}

	return c.JSON(dto.MintTokenResponse{Token: token.Value})
}

// RequestPINReset handles POST /auth/pin/reset/request. The response never
// reveals whether the email has an account; issued tokens travel through the
// notification channel, not the response body.
func (h *AuthHandler) RequestPINReset(c *fiber.Ctx) error {
	var req dto.PINResetRequest
	if err := c.BodyParser(&req); err != nil || req.Email == "" {
		return apperrors.NewValidationError("email required", nil)
	}

	if _, err := h.auth.RequestPINReset(c.Context(), req.Email); err != nil {
		return apperrors.MapError(err)
	}

	return c.JSON(fiber.Map{"success": true})
}

// ConfirmPINReset handles POST /auth/pin/reset/confirm.
func (h *AuthHandler) ConfirmPINReset(c *fiber.Ctx) error {
	var req dto.PINResetConfirm
	if err := c.BodyParser(&req); err != nil || req.Token == "" || req.NewPIN == "" {
		return apperrors.NewValidationError("token and new_pin required", nil)
	}

	if err := h.auth.ConfirmPINReset(c.Context(), req.Token, req.NewPIN); err != nil {
		if errors.Is(err, service.ErrResetTokenInvalid) {
			return apperrors.NewValidationError("reset token expired or used", nil)
		}
		return apperrors.MapError(err)
	}

	return c.JSON(fiber.Map{"success": true})
}
