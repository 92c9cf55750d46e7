package http

import "github.com/gofiber/fiber/v2"

// NewRouter builds the fiber app with all launch routes registered.
func NewRouter(h *LaunchHandler) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	api := app.Group("/api")
	v1 := api.Group("/v1")

	v1.Post("/builds", h.BuildImage)
	v1.Post("/runs", h.ComposeRun)

	containers := v1.Group("/containers")
	containers.Get("/", h.ListContainers)
	containers.Post("/", h.StartContainer)
	containers.Delete("/:id", h.StopContainer)
	containers.Get("/:id/logs", h.GetContainerLogs)

	return app
}
