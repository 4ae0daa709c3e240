// Package middleware provides the HTTP middleware stack: error handling,
// request identity and logging, auth, and rate limiting.
package middleware

import (
	"strings"

	"triage_server/pkg/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// JWTAuth validates a Bearer token signed with the shared HS256 secret.
// An empty secret disables auth entirely, for local development.
func JWTAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if secret == "" {
			return c.Next()
		}

		header := c.Get("Authorization")
		if header == "" {
			return apperr.Unauthorized("missing authorization header")
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		if tokenString == header {
			return apperr.Unauthorized("invalid authorization header format")
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil || !token.Valid {
			return apperr.InvalidToken("invalid or expired token")
		}

		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			if sub, ok := claims["sub"].(string); ok {
				c.Locals("subject", sub)
			}
		}

		return c.Next()
	}
}
