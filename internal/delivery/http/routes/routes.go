package routes

import (
	"job-tracker/internal/delivery/http/handler"
	"job-tracker/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/static"
)

// Registry holds every HTTP entry point. Nil handlers are skipped.
type Registry struct {
	Health       *handler.HealthHandler
	Auth         *handler.AuthHandler
	Users        *handler.UserHandler
	Applications *handler.ApplicationHandler
	Stats        *handler.StatsHandler
	Resumes      *handler.ResumeHandler
	WS           fiber.Handler
	AuthMW       *middleware.AuthMiddleware

	// BlobDir is served under /blobs when the local blob backend is used.
	BlobDir string
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerBlobs(app)
	if r.WS != nil {
		app.Get("/ws", r.WS)
	}
	r.registerAPI(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	if r.Health != nil {
		r.Health.RegisterRoutes(app)
	}
}

func (r *Registry) registerBlobs(app *fiber.App) {
	if r.BlobDir == "" {
		return
	}
	app.Use("/blobs", static.New(r.BlobDir, static.Config{Browse: false}))
}

func (r *Registry) registerAPI(app *fiber.App) {
	v1 := app.Group("/api/v1")

	if r.Auth != nil {
		r.Auth.RegisterRoutes(v1.Group("/auth"))
	}

	protected := v1
	if r.AuthMW != nil {
		protected = v1.Group("", r.AuthMW.Middleware())
	}
	if r.Users != nil {
		r.Users.RegisterRoutes(protected)
	}
	if r.Applications != nil {
		r.Applications.RegisterRoutes(protected)
	}
	if r.Stats != nil {
		r.Stats.RegisterRoutes(protected)
	}
	if r.Resumes != nil {
		r.Resumes.RegisterRoutes(protected)
	}
}
