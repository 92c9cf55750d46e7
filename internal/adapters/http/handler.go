package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/tracefold/launchdock/internal/core/domain"
	"github.com/tracefold/launchdock/internal/core/ports"
)

// ComposeFunc produces the escaped container-runtime invocation for a built
// image. Injected so the handler stays independent of the docker CLI shape.
type ComposeFunc func(image domain.ImageReference, project domain.LaunchProject, settings ports.Settings, dockerArgs map[string]any) domain.RunCommand

// LaunchHandler exposes the build and launch operations over HTTP.
type LaunchHandler struct {
	builder  ports.ImageBuilder
	resolver ports.ImageResolver
	service  ports.ContainerService
	settings ports.Settings
	compose  ComposeFunc
}

func NewLaunchHandler(builder ports.ImageBuilder, resolver ports.ImageResolver, service ports.ContainerService, settings ports.Settings, compose ComposeFunc) *LaunchHandler {
	return &LaunchHandler{
		builder:  builder,
		resolver: resolver,
		service:  service,
		settings: settings,
		compose:  compose,
	}
}

type BuildRequest struct {
	domain.LaunchProject
	BaseImage string `json:"base_image"`
	CopyCode  bool   `json:"copy_code"`
	EntryCmd  string `json:"entry_cmd"`
	Source    string `json:"source"` // "dockerfile" (default) or "repository"
}

// BuildImage builds or resolves an image for the posted project.
func (h *LaunchHandler) BuildImage(c *fiber.Ctx) error {
	var req BuildRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, domain.UsageErrorf("invalid request body"))
	}
	project := req.LaunchProject
	if project.ProjectDir == "" {
		return fail(c, domain.UsageErrorf("project_dir is required"))
	}
	project.EnsureRunID()

	switch req.Source {
	case "", "dockerfile":
		if req.BaseImage == "" {
			return fail(c, domain.UsageErrorf("base_image is required for a dockerfile build"))
		}
		ref, err := h.builder.BuildImage(c.Context(), project, req.BaseImage, req.CopyCode)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"image":  ref.String(),
			"run_id": project.RunID,
		})
	case "repository":
		id, err := h.resolver.ResolveImage(c.Context(), project, req.EntryCmd)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"image":  id,
			"run_id": project.RunID,
		})
	default:
		return fail(c, domain.UsageErrorf("unknown build source %q", req.Source))
	}
}

type RunRequest struct {
	domain.LaunchProject
	Image      string         `json:"image"`
	DockerArgs map[string]any `json:"docker_args"`
}

// ComposeRun returns the escaped `docker run` invocation for a built image.
func (h *LaunchHandler) ComposeRun(c *fiber.Ctx) error {
	var req RunRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, domain.UsageErrorf("invalid request body"))
	}
	if req.Image == "" {
		return fail(c, domain.UsageErrorf("image is required"))
	}
	project := req.LaunchProject
	project.EnsureRunID()
	if project.DockerImage == "" {
		project.DockerImage = req.Image
	}

	cmd := h.compose(domain.ParseImageReference(req.Image), project, h.settings, req.DockerArgs)
	return c.JSON(fiber.Map{
		"command": cmd,
		"run_id":  project.RunID,
	})
}

type StartContainerRequest struct {
	Image string   `json:"image"`
	Env   []string `json:"env"`
}

// StartContainer pulls the requested image and starts a container from it.
func (h *LaunchHandler) StartContainer(c *fiber.Ctx) error {
	var req StartContainerRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, domain.UsageErrorf("invalid request body"))
	}
	if req.Image == "" {
		return fail(c, domain.UsageErrorf("image is required"))
	}

	containerID, err := h.service.StartContainer(c.Context(), req.Image, req.Env)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":    containerID,
		"image": req.Image,
	})
}

// ListContainers returns the containers known to the runtime.
func (h *LaunchHandler) ListContainers(c *fiber.Ctx) error {
	containers, err := h.service.ListContainers(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(containers)
}

// StopContainer stops a running container.
func (h *LaunchHandler) StopContainer(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return fail(c, domain.UsageErrorf("container id is required"))
	}
	if err := h.service.StopContainer(c.Context(), id); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

// GetContainerLogs streams a container's logs as plain text.
func (h *LaunchHandler) GetContainerLogs(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return fail(c, domain.UsageErrorf("container id is required"))
	}
	logs, err := h.service.GetContainerLogs(c.Context(), id)
	if err != nil {
		return fail(c, err)
	}
	c.Set("Content-Type", "text/plain")
	return c.SendStream(logs)
}

// fail maps error kinds onto HTTP statuses.
func fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrUsage):
		status = fiber.StatusBadRequest
	case errors.Is(err, domain.ErrDependencyMissing):
		status = fiber.StatusFailedDependency
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
