package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"runtracker/internal/auth"
)

const userIDKey = "user_id"

// RequireSession validates the session token from X-Auth-Token or an
// Authorization bearer header and stores the user id in locals
func RequireSession(secret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Get("X-Auth-Token")
		if token == "" {
			token = bearerFromHeader(c.Get(fiber.HeaderAuthorization))
		}
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Authentication required")
		}

		claims, err := auth.ParseToken(secret, token)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
		}

		c.Locals(userIDKey, claims.UserID)
		return c.Next()
	}
}

func userID(c *fiber.Ctx) string {
	id, _ := c.Locals(userIDKey).(string)
	return id
}

func bearerFromHeader(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
