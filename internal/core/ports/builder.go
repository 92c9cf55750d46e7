package ports

import (
	"context"

	"github.com/tracefold/launchdock/internal/core/domain"
)

// ImageBuilder defines operations for building container images from a
// project directory and a base image.
type ImageBuilder interface {
	// BuildImage assembles a build context for the project and builds a
	// tagged Docker image on top of baseImage. When copyCode is set the
	// project code is copied into the image. It returns the reference of
	// the built image or an error.
	BuildImage(ctx context.Context, project domain.LaunchProject, baseImage string, copyCode bool) (domain.ImageReference, error)
}
