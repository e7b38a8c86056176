package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"justifacil/internal/model"
	"justifacil/internal/service"
)

type externalResponse struct {
	OK    bool   `json:"ok"`
	ID    int64  `json:"id,omitempty"`
	Error string `json:"error,omitempty"`
}

func externalFailure(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(externalResponse{OK: false, Error: msg})
}

// ExternalReception files a justification sent by the WhatsApp integration.
// Every failure answers 400 with {ok:false,error}.
//
//	@Summary	External ingestion
//	@Tags		justificaciones
//	@Accept		json
//	@Produce	json
//	@Param		body	body		service.ExternalInput	true	"Payload"
//	@Success	200		{object}	externalResponse
//	@Failure	400		{object}	externalResponse
//	@Router		/justificaciones/whatsapp/recepcion [post]
func ExternalReception(svc service.JustificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.ExternalInput
		if err := c.BodyParser(&in); err != nil {
			return externalFailure(c, "JSON inválido")
		}

		j, err := svc.ExternalCreate(c.UserContext(), in)
		if err != nil {
			var ve *model.ValidationError
			switch {
			case errors.Is(err, model.ErrNotFound):
				return externalFailure(c, "Usuario no encontrado")
			case errors.As(err, &ve):
				return externalFailure(c, ve.Error())
			default:
				return externalFailure(c, "No se pudo registrar la justificación")
			}
		}
		return c.JSON(externalResponse{OK: true, ID: j.ID})
	}
}
