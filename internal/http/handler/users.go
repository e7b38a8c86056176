package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"justifacil/internal/model"
	"justifacil/internal/service"
)

// UsersByRole lists the accounts of one role (estudiante, profesor, coordinador, administrativo).
func UsersByRole(users service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := model.Role(strings.ToUpper(c.Params("rol")))
		items, err := users.ListByRole(c.UserContext(), role)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"rol": role, "data": items})
	}
}
