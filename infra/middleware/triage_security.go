// Package middleware provides the HTTP middleware stack: error handling,
// request identity and logging, auth, and rate limiting.
package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// SecurityHeaders sets baseline security headers on every response.
func SecurityHeaders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("Cache-Control", "no-store")
		return c.Next()
	}
}

// ValidateContentType rejects non-JSON bodies on mutating requests.
func ValidateContentType() fiber.Handler {
	return func(c *fiber.Ctx) error {
		method := c.Method()
		if method != fiber.MethodPost && method != fiber.MethodPut && method != fiber.MethodPatch {
			return c.Next()
		}
		if len(c.Body()) == 0 {
			return c.Next()
		}

		contentType := c.Get("Content-Type")
		if contentType == "" {
			return fiber.NewError(fiber.StatusUnsupportedMediaType, "Content-Type header required")
		}
		if contentType != fiber.MIMEApplicationJSON &&
			contentType != fiber.MIMEApplicationJSONCharsetUTF8 {
			return fiber.NewError(fiber.StatusUnsupportedMediaType, "Content-Type must be application/json")
		}
		return c.Next()
	}
}
