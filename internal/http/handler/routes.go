package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"justifacil/internal/auth"
	"justifacil/internal/http/middleware"
	"justifacil/internal/model"
	"justifacil/internal/service"
)

// Deps groups what the routes need.
type Deps struct {
	DB             *sql.DB
	Tokens         *auth.TokenManager
	Users          service.UserService
	Justifications service.JustificationService
	Session        SessionOptions
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, d Deps) {
	app.Get("/health", HealthCheck(d.DB))
	app.Get("/healthz", LivenessProbe())

	// Unauthenticated ingestion channel.
	app.Post("/justificaciones/whatsapp/recepcion", ExternalReception(d.Justifications))

	app.Get("/login", LoginPage())
	app.Post("/login", Login(d.Users, d.Session))

	authed := app.Group("", middleware.Authenticate(d.Tokens, d.Users))
	authed.Post("/logout", Logout(d.Session))
	authed.Get("/home", middleware.RequireRole(), Home())

	submit := middleware.RequireRole(model.RoleStudent, model.RoleAdministrative)
	coord := middleware.RequireRole(model.RoleCoordinator)
	anyone := middleware.RequireRole()

	j := authed.Group("/justificaciones")
	j.Get("/", submit, StudentDashboard(d.Justifications))
	j.Post("/nueva", submit, CreateJustification(d.Justifications))
	j.Get("/mis", anyone, ListJustifications(d.Justifications))
	j.Get("/detalle/:id", anyone, GetJustification(d.Justifications))
	j.Get("/documentos/:id/archivo", anyone, DownloadDocument(d.Justifications))
	j.Get("/coordinador", coord, CoordinatorQueue(d.Justifications))
	j.Post("/coordinador/revisar/:id/aprobar", coord, ApproveJustification(d.Justifications))
	j.Post("/coordinador/revisar/:id/rechazar", coord, RejectJustification(d.Justifications))
	j.Get("/profesor", middleware.RequireRole(model.RoleProfessor), ProfessorDashboard(d.Justifications))

	authed.Get("/usuarios/:rol", coord, UsersByRole(d.Users))
}
