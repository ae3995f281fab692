package middleware

import (
	"propertyflow-backend/internal/jwt"
	"propertyflow-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const accountIDLocal = "account_id"

// RequireAuth resolves the bearer token to an account id and stores it in
// Locals. Returns 401 with the standard error format on any failure.
func RequireAuth(manager *jwt.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := jwt.ExtractTokenFromHeader(c.Get("Authorization"))
		if err != nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		accountID, err := manager.Verify(token)
		if err != nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		c.Locals(accountIDLocal, accountID)
		return c.Next()
	}
}

// AccountID returns the authenticated account id from Locals
// (uuid.Nil if the request did not pass RequireAuth).
func AccountID(c *fiber.Ctx) uuid.UUID {
	if id, ok := c.Locals(accountIDLocal).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

// SetAccountID injects an account id into Locals. Test hook.
func SetAccountID(c *fiber.Ctx, id uuid.UUID) {
	c.Locals(accountIDLocal, id)
}
