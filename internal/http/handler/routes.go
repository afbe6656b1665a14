package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"studyhub/internal/service"
)

// RegisterRoutes attaches the HTTP routes to app. Handlers stay thin: they
// translate HTTP to service calls and service outcomes to status codes.
func RegisterRoutes(app *fiber.App, db Pinger, catalog service.Catalog, uploader service.Uploader, log zerolog.Logger) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	api := app.Group("/api")

	api.Get("/semesters", ListSemesters())
	api.Get("/subjects/:code", GetSubject())

	api.Get("/search", Search(catalog))
	api.Get("/subject/:subject", Browse(catalog))
	api.Get("/subject/:subject/search", ScopedSearch(catalog))

	api.Get("/resources/:id", GetResource(catalog))
	api.Get("/resources/:id/file", DownloadFile(catalog))

	api.Post("/uploads", UploadBatch(uploader, log))
}
