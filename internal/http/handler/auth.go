package handler

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"justifacil/internal/http/middleware"
	"justifacil/internal/model"
	"justifacil/internal/service"
)

// MsgLoggedOut is flashed after logout.
const MsgLoggedOut = "Has cerrado sesión correctamente."

// SessionOptions controls the session cookie.
type SessionOptions struct {
	TTL    time.Duration
	Secure bool
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token    string      `json:"token"`
	Redirect string      `json:"redirect"`
	User     *model.User `json:"user"`
}

// LoginPage lists pending flash messages for the login screen.
func LoginPage() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"messages": middleware.Flashes(c)})
	}
}

// Login exchanges credentials for a session cookie.
//
//	@Summary	Log in
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		loginRequest	true	"Credentials"
//	@Success	200		{object}	loginResponse
//	@Failure	401		{object}	errorPayload
//	@Router		/login [post]
func Login(users service.UserService, opts SessionOptions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		}
		req.Username = strings.TrimSpace(req.Username)
		if req.Username == "" || req.Password == "" {
			return writeError(c, fiber.StatusBadRequest, "CREDENTIALS_REQUIRED", "username and password are required")
		}

		u, token, err := users.Login(c.UserContext(), req.Username, req.Password)
		if err != nil {
			return respondError(c, err)
		}

		c.Cookie(&fiber.Cookie{
			Name:     middleware.SessionCookie,
			Value:    token,
			Path:     "/",
			Expires:  time.Now().Add(opts.TTL),
			HTTPOnly: true,
			Secure:   opts.Secure,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
		return c.JSON(loginResponse{Token: token, Redirect: u.Role.LandingPath(), User: u})
	}
}

// Logout clears the session cookie.
func Logout(opts SessionOptions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Cookie(&fiber.Cookie{
			Name:     middleware.SessionCookie,
			Value:    "",
			Path:     "/",
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
			HTTPOnly: true,
			Secure:   opts.Secure,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
		middleware.SetFlash(c, middleware.FlashInfo, MsgLoggedOut)
		return c.Redirect(middleware.LoginPath, fiber.StatusSeeOther)
	}
}

// Home sends the caller to the landing page of their role.
func Home() fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := middleware.CurrentUser(c)
		if u == nil {
			return c.Redirect(middleware.LoginPath, fiber.StatusFound)
		}
		return c.Redirect(u.Role.LandingPath(), fiber.StatusFound)
	}
}
