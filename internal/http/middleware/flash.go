package middleware

import (
	"encoding/base64"
	"encoding/json"

	"github.com/gofiber/fiber/v2"
)

// FlashCookie carries one-shot messages across a redirect.
const FlashCookie = "flash"

const flashLocalKey = "flash_out"

// Flash levels.
const (
	FlashSuccess = "success"
	FlashInfo    = "info"
	FlashError   = "error"
)

// Flash is a one-shot user message.
type Flash struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// SetFlash queues a message for the next request.
func SetFlash(c *fiber.Ctx, level, message string) {
	out, _ := c.Locals(flashLocalKey).([]Flash)
	out = append(out, Flash{Level: level, Message: message})
	c.Locals(flashLocalKey, out)

	c.Cookie(&fiber.Cookie{
		Name:     FlashCookie,
		Value:    EncodeFlashes(out),
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// Flashes returns and clears the messages queued by the previous request.
func Flashes(c *fiber.Ctx) []Flash {
	raw := c.Cookies(FlashCookie)
	if raw == "" {
		return nil
	}
	if _, pending := c.Locals(flashLocalKey).([]Flash); !pending {
		c.ClearCookie(FlashCookie)
	}
	return DecodeFlashes(raw)
}

// EncodeFlashes serialises messages into a cookie-safe value.
func EncodeFlashes(f []Flash) string {
	b, _ := json.Marshal(f)
	return base64.RawURLEncoding.EncodeToString(b)
}

// DecodeFlashes is the inverse of EncodeFlashes. Garbage decodes to nil.
func DecodeFlashes(v string) []Flash {
	b, err := base64.RawURLEncoding.DecodeString(v)
	if err != nil {
		return nil
	}
	var out []Flash
	if err := json.Unmarshal(b, &out); err != nil {
		return nil
	}
	return out
}
