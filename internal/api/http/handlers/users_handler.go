package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/paykash-service/internal/service"
	apperrors "github.com/spec-kit/paykash-service/pkg/util/errorutil"
)

// UsersHandler exposes directory reads.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs the handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{users: userService}
}

// List handles GET /users. The route is admin-gated by the router.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.users.List(c.Context())
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(users)
}

// Get handles GET /user/:id. An unknown id yields a null body, not an error.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	user, err := h.users.Get(c.Context(), c.Params("id"))
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(user)
}
