package handler

import (
	"errors"
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"justifacil/internal/http/middleware"
	"justifacil/internal/model"
	"justifacil/internal/service"
)

// Flash texts of the justification screens.
const (
	MsgCreated        = "Justificación enviada correctamente."
	MsgApproved       = "Justificación aprobada y notificación enviada."
	MsgRejected       = "Justificación rechazada y notificación enviada."
	MsgCannotView     = "No tienes permisos para ver esta justificación."
	MsgAlreadyDecided = "La justificación ya fue revisada."
)

// listPayload is the JSON body of the dashboard views.
type listPayload struct {
	Items    []model.Justification `json:"data"`
	Query    string                `json:"q,omitempty"`
	Messages []middleware.Flash    `json:"messages,omitempty"`
}

type detailPayload struct {
	*model.Justification
	Messages []middleware.Flash `json:"messages,omitempty"`
}

func detailPath(id int64) string {
	return fmt.Sprintf("/justificaciones/detalle/%d", id)
}

func parseID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	return id, err == nil && id > 0
}

// denyView flashes the visibility error and sends the caller home.
func denyView(c *fiber.Ctx) error {
	middleware.SetFlash(c, middleware.FlashError, MsgCannotView)
	return c.Redirect("/home", fiber.StatusFound)
}

// CreateJustification files a justification from a multipart form.
//
//	@Summary	File a justification
//	@Tags		justificaciones
//	@Accept		multipart/form-data
//	@Param		fecha_inicio	formData	string	true	"YYYY-MM-DD"
//	@Param		fecha_fin		formData	string	false	"YYYY-MM-DD"
//	@Param		motivo			formData	string	true	"Reason"
//	@Param		descripcion		formData	string	false	"Description"
//	@Param		archivo			formData	file	false	"PDF or PNG"
//	@Success	303
//	@Failure	400	{object}	validationPayload
//	@Failure	502	{object}	errorPayload
//	@Router		/justificaciones/nueva [post]
func CreateJustification(svc service.JustificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		in := service.CreateInput{
			StartDate:   c.FormValue("fecha_inicio"),
			EndDate:     c.FormValue("fecha_fin"),
			Reason:      c.FormValue("motivo"),
			Description: c.FormValue("descripcion"),
		}

		if fh, err := c.FormFile("archivo"); err == nil {
			f, err := fh.Open()
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
			}
			defer f.Close()
			in.File = &service.Upload{
				Filename:    fh.Filename,
				ContentType: fh.Header.Get("Content-Type"),
				Size:        fh.Size,
				Body:        f,
			}
		}

		j, err := svc.Create(c.UserContext(), middleware.CurrentUser(c), in)
		if err != nil {
			return respondError(c, err)
		}
		middleware.SetFlash(c, middleware.FlashSuccess, MsgCreated)
		return c.Redirect(detailPath(j.ID), fiber.StatusSeeOther)
	}
}

// StudentDashboard lists the caller's own justifications.
func StudentDashboard(svc service.JustificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.ListOwn(c.UserContext(), middleware.CurrentUser(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(listPayload{Items: items, Messages: middleware.Flashes(c)})
	}
}

// ListJustifications pages through what the caller may see.
//
//	@Summary	Visible justifications
//	@Tags		justificaciones
//	@Produce	json
//	@Param		limit	query		int	false	"Page size"	default(10)
//	@Param		offset	query		int	false	"Offset"	default(0)
//	@Success	200		{object}	service.JustificationListResult
//	@Failure	400		{object}	errorPayload
//	@Router		/justificaciones/mis [get]
func ListJustifications(svc service.JustificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.ListVisible(c.UserContext(), middleware.CurrentUser(c), limit, offset)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(res)
	}
}

// GetJustification returns one justification with its documents.
//
//	@Summary	Justification detail
//	@Tags		justificaciones
//	@Produce	json
//	@Param		id	path		int	true	"Justification ID"
//	@Success	200	{object}	model.Justification
//	@Failure	404	{object}	errorPayload
//	@Router		/justificaciones/detalle/{id} [get]
func GetJustification(svc service.JustificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		j, err := svc.Get(c.UserContext(), middleware.CurrentUser(c), id)
		if err != nil {
			if errors.Is(err, model.ErrForbidden) {
				return denyView(c)
			}
			return respondError(c, err)
		}
		return c.JSON(detailPayload{Justification: j, Messages: middleware.Flashes(c)})
	}
}

// DownloadDocument streams an attached file from storage.
func DownloadDocument(svc service.JustificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		rc, doc, err := svc.OpenDocument(c.UserContext(), middleware.CurrentUser(c), id)
		if err != nil {
			if errors.Is(err, model.ErrForbidden) {
				return denyView(c)
			}
			return respondError(c, err)
		}

		name := path.Base(doc.FilePath)
		c.Type(strings.TrimPrefix(path.Ext(name), "."))
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", name))
		// fasthttp closes rc once the body is written.
		return c.SendStream(rc)
	}
}

// CoordinatorQueue lists pending justifications, oldest first.
func CoordinatorQueue(svc service.JustificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.ListPending(c.UserContext(), middleware.CurrentUser(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(listPayload{Items: items, Messages: middleware.Flashes(c)})
	}
}

func decide(svc service.JustificationService, approve bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		comment := strings.TrimSpace(c.FormValue("comentarios_coordinador"))
		actor := middleware.CurrentUser(c)

		var err error
		if approve {
			_, err = svc.Approve(c.UserContext(), actor, id, comment)
		} else {
			_, err = svc.Reject(c.UserContext(), actor, id, comment)
		}
		switch {
		case err == nil:
		case errors.Is(err, model.ErrInvalidTransition):
			middleware.SetFlash(c, middleware.FlashError, MsgAlreadyDecided)
			return c.Redirect(model.CoordinatorQueuePath, fiber.StatusSeeOther)
		default:
			return respondError(c, err)
		}

		if approve {
			middleware.SetFlash(c, middleware.FlashSuccess, MsgApproved)
		} else {
			middleware.SetFlash(c, middleware.FlashInfo, MsgRejected)
		}
		return c.Redirect(model.CoordinatorQueuePath, fiber.StatusSeeOther)
	}
}

// ApproveJustification marks a pending justification approved and notifies its owner.
//
//	@Summary	Approve
//	@Tags		coordinador
//	@Param		id						path		int		true	"Justification ID"
//	@Param		comentarios_coordinador	formData	string	false	"Comment"
//	@Success	303
//	@Router		/justificaciones/coordinador/revisar/{id}/aprobar [post]
func ApproveJustification(svc service.JustificationService) fiber.Handler {
	return decide(svc, true)
}

// RejectJustification marks a pending justification rejected and notifies its owner.
func RejectJustification(svc service.JustificationService) fiber.Handler {
	return decide(svc, false)
}

// ProfessorDashboard lists every justification, filtered by ?q= on the username.
func ProfessorDashboard(svc service.JustificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := strings.TrimSpace(c.Query("q"))
		items, err := svc.ListForProfessor(c.UserContext(), middleware.CurrentUser(c), q)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(listPayload{Items: items, Query: q, Messages: middleware.Flashes(c)})
	}
}
