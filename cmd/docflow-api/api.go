// Package main provides the Docflow API server implementation.
package main

import (
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/selvklart/docflow/pkg/engine"
	"github.com/selvklart/docflow/pkg/web"
)

type API struct {
	logger   *slog.Logger
	engine   *engine.Engine
	validate *validator.Validate
}

func NewAPI(logger *slog.Logger, eng *engine.Engine) *API {
	return &API{
		logger:   logger,
		engine:   eng,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	handlers := web.NewAPIHandlers(a.logger, a.engine, a.validate)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Docflow API")
	})

	d := app.Group("/documents/:id/workflow")
	d.Get("/", handlers.GetWorkflowStatus)
	d.Post("/begin", handlers.BeginWorkflow)
	d.Post("/assignees", handlers.AddAssignees)
	d.Delete("/assignees", handlers.RemoveAssignees)
	d.Post("/advance", handlers.AdvanceWorkflow)
	d.Get("/next", handlers.GetNextStep)
	d.Post("/complete", handlers.CompleteWorkflow)
	d.Delete("/", handlers.CancelWorkflow)

	w := app.Group("/workflow")
	w.Get("/states", handlers.GetStates)
	w.Get("/documents", handlers.GetDocumentsByState)

	app.Get("/health", handlers.HealthCheck)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	err := app.Listen(":" + strconv.Itoa(port))

	return err
}
