package domain

import (
	"strings"

	"github.com/google/uuid"
)

// Well-known names inside a generated build context. The Dockerfile name is
// deliberately distinctive so it never collides with a user-authored one.
const (
	GeneratedDockerfileName = "Dockerfile.wandb-autogenerated"
	ProjectTarArchiveName   = "wandb-project-docker-build-context"
	ProjectContentsDirName  = "wandb-project-contents"
	DefaultConfigPath       = "launch_override_config.json"
)

// LaunchProject describes a single run to be built and launched. It is
// treated as an immutable value for the duration of a build.
type LaunchProject struct {
	ProjectDir     string         `json:"project_dir"`
	Name           string         `json:"name"`
	DockerImage    string         `json:"docker_image"`
	RunID          string         `json:"run_id"`
	TargetProject  string         `json:"target_project"`
	TargetEntity   string         `json:"target_entity"`
	OverrideConfig map[string]any `json:"override_config"`
	Runtime        string         `json:"runtime"`
	DockerUserID   int            `json:"docker_user_id"`
}

// EnsureRunID fills in a generated run identifier when the caller supplied
// none, so downstream consumers never see an empty run id.
func (p *LaunchProject) EnsureRunID() {
	if p.RunID == "" {
		p.RunID = NewRunID()
	}
}

// ImageName returns the docker repository name used for images built for
// this project's run.
func (p LaunchProject) ImageName() string {
	return "wandb_launch_" + p.RunID
}

// NewRunID returns a short random run identifier.
func NewRunID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
