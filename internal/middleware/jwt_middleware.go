package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"bloglist/internal/apperror"
	"bloglist/internal/models"
	"bloglist/internal/services"
)

const userKey = "user"

// AuthRequired is a Fiber middleware that resolves the bearer token to a user
// and stores it for subsequent handlers. Requests without a valid token are
// rejected with 401.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := authService.Authenticate(c.UserContext(), bearerToken(c))
		if err != nil {
			return err
		}

		c.Locals(userKey, user)
		return c.Next()
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header. A header with another scheme is returned whole so that it fails
// token parsing.
func bearerToken(c *fiber.Ctx) string {
	header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	scheme, token, found := strings.Cut(header, " ")
	if found && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}
	return header
}

// CurrentUser returns the user stored by AuthRequired.
func CurrentUser(c *fiber.Ctx) (*models.User, error) {
	user, ok := c.Locals(userKey).(*models.User)
	if !ok || user == nil {
		return nil, apperror.Unauthorized("authentication required")
	}
	return user, nil
}
