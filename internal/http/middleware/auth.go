package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"justifacil/internal/auth"
	"justifacil/internal/model"
)

const (
	// SessionCookie holds the session token set at login.
	SessionCookie = "session"
	// UserLocalKey is the Fiber locals key holding the authenticated *model.User.
	UserLocalKey = "user"
	// LoginPath is where anonymous requests to gated routes are sent.
	LoginPath = "/login"
)

// MsgNoPermission is flashed when a role gate rejects a request.
const MsgNoPermission = "No tienes permisos para acceder a esta sección."

// UserLookup loads the account behind a session token.
type UserLookup interface {
	Get(ctx context.Context, id int64) (*model.User, error)
}

// CurrentUser returns the authenticated user or nil.
func CurrentUser(c *fiber.Ctx) *model.User {
	u, _ := c.Locals(UserLocalKey).(*model.User)
	return u
}

func bearerToken(c *fiber.Ctx) string {
	h := c.Get(fiber.HeaderAuthorization)
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// Authenticate resolves the session cookie or a Bearer token into an active user.
// Requests without a valid token continue anonymously.
func Authenticate(tokens *auth.TokenManager, users UserLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := bearerToken(c)
		if raw == "" {
			raw = c.Cookies(SessionCookie)
		}
		if raw == "" {
			return c.Next()
		}

		claims, err := tokens.Parse(raw)
		if err != nil {
			return c.Next()
		}
		id, err := claims.UserID()
		if err != nil {
			return c.Next()
		}
		u, err := users.Get(c.UserContext(), id)
		if err != nil || u == nil || !u.IsActive {
			return c.Next()
		}
		c.Locals(UserLocalKey, u)
		return c.Next()
	}
}

// RequireRole lets through authenticated users whose role is in roles; an empty
// list admits any authenticated user. Anonymous callers go to the login page and
// callers with another role go back to their landing page with an error flash.
func RequireRole(roles ...model.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := CurrentUser(c)
		if u == nil {
			return c.Redirect(LoginPath, fiber.StatusFound)
		}
		if len(roles) == 0 {
			return c.Next()
		}
		for _, r := range roles {
			if u.Role == r {
				return c.Next()
			}
		}
		SetFlash(c, FlashError, MsgNoPermission)
		return c.Redirect(u.Role.LandingPath(), fiber.StatusFound)
	}
}
