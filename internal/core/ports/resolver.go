package ports

import (
	"context"

	"github.com/tracefold/launchdock/internal/core/domain"
)

// ImageResolver defines the alternate image path for projects whose
// environment is defined by a source repository rather than a Dockerfile.
type ImageResolver interface {
	// ResolveImage converts the project directory into a Docker image and
	// returns the resolved image identifier.
	ResolveImage(ctx context.Context, project domain.LaunchProject, entryCmd string) (string, error)
}
