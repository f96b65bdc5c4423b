package web

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/GoInvenTree/GoInvenTree/internal/web/handler/login"
	"github.com/GoInvenTree/GoInvenTree/internal/web/session"
)

// publicPaths lists path prefixes served without authentication.
var publicPaths = []string{
	login.Path,
	"/logout",
	"/checkalive",
	"/metrics",
}

// AuthMiddleware is a Fiber middleware that checks for user authentication.
// Requests without a valid session receive 401; public paths pass through.
func AuthMiddleware(c *fiber.Ctx) error {
	originalURL := strings.ToLower(c.OriginalURL())

	for _, p := range publicPaths {
		if strings.HasPrefix(originalURL, p) {
			return c.Next()
		}
	}

	// get session cookie
	loginCookie := c.Cookies("session")
	if loginCookie == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	// check session validity
	sessData := new(session.Data)
	if err := sessData.Read(loginCookie); err != nil || sessData.User.ID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	c.Locals("CurrentUser", sessData.User)

	return c.Next()
}
