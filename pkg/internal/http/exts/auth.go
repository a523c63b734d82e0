package exts

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"git.entraide.dev/community/pkg/internal/models"
	"git.entraide.dev/community/pkg/internal/services"
)

const TokenCookieName = "entraide_token"

func getRequestToken(c *fiber.Ctx) string {
	if header := c.Get(fiber.HeaderAuthorization); len(header) > 0 {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return c.Cookies(TokenCookieName)
}

// ContextMiddleware loads the account behind the request token into c.Locals("user").
// Requests with a missing or invalid token go on unauthenticated.
func ContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := getRequestToken(c)
		if len(token) == 0 {
			return c.Next()
		}

		id, err := services.ParseUserToken(token)
		if err != nil {
			return c.Next()
		}

		user, err := services.GetUser(id)
		if err != nil {
			log.Debug().Err(err).Uint("user", id).Msg("Token refers to an unknown account.")
			return c.Next()
		}
		if user.IsBanned() || user.IsAnonymized() {
			return c.Next()
		}

		c.Locals("user", user)
		return c.Next()
	}
}

func GetCurrentUser(c *fiber.Ctx) (models.User, bool) {
	user, ok := c.Locals("user").(models.User)
	return user, ok
}

func EnsureAuthenticated(c *fiber.Ctx) error {
	if _, ok := GetCurrentUser(c); !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "you must sign in first")
	}
	return nil
}

func EnsureAdmin(c *fiber.Ctx) error {
	if err := EnsureAuthenticated(c); err != nil {
		return err
	}
	if user, _ := GetCurrentUser(c); !user.IsAdmin() {
		return fiber.NewError(fiber.StatusForbidden, "administrator role is required")
	}
	return nil
}
