package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"studyhub/internal/session"
)

// IdentityLocalKey is the Fiber locals key holding the caller's session.Identity.
const IdentityLocalKey = "identity"

// Authenticate resolves the bearer token once per request. Requests without
// an Authorization header pass through anonymously; a malformed or invalid
// token is answered with 401. The identity is placed in the user context so
// session.ContextProvider can find it.
func Authenticate(v *session.Verifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return c.Next()
		}

		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "malformed authorization header")
		}

		id, err := v.Verify(strings.TrimSpace(token))
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		c.Locals(IdentityLocalKey, id)
		c.SetUserContext(session.WithIdentity(c.UserContext(), id))
		return c.Next()
	}
}
