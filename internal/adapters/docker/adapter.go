package docker

import (
	"context"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/tracefold/launchdock/internal/core/domain"
)

// Adapter implements ports.ContainerService using the Docker SDK.
type Adapter struct {
	cli *client.Client
}

// NewAdapter creates a new Docker adapter instance.
func NewAdapter() (*Adapter, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, errors.Wrap(err, "create docker client")
	}
	return &Adapter{cli: cli}, nil
}

// ValidateInstallation verifies that the docker executable is discoverable
// on the host machine.
func ValidateInstallation() error {
	if _, err := exec.LookPath("docker"); err != nil {
		return domain.ExecutionErrorf(
			"could not find docker executable, ensure docker is installed as per the instructions at https://docs.docker.com/install/overview/")
	}
	return nil
}

// ValidateEnv ensures a project declaring a docker environment carries an
// image reference.
func ValidateEnv(project domain.LaunchProject) error {
	if project.DockerImage == "" {
		return domain.ExecutionErrorf(
			"launch project with docker environment must specify the docker image to use via the docker_image field")
	}
	return nil
}

// PullImage pulls the requested image, with or without an explicit tag.
func (a *Adapter) PullImage(ctx context.Context, image string) error {
	ref := domain.ParseImageReference(image)
	log.Infof("pulling image %s", ref)
	reader, err := a.cli.ImagePull(ctx, ref.String(), types.ImagePullOptions{})
	if err != nil {
		return domain.LaunchErrorf("docker server returned error: %v", err)
	}
	defer reader.Close()
	// The pull only completes once the status stream is drained.
	_, err = io.Copy(io.Discard, reader)
	return err
}

// ListContainers returns the containers known to the daemon.
func (a *Adapter) ListContainers(ctx context.Context) ([]domain.Container, error) {
	containers, err := a.cli.ContainerList(ctx, types.ContainerListOptions{})
	if err != nil {
		return nil, errors.Wrap(err, "list containers")
	}

	var result []domain.Container
	for _, c := range containers {
		name := ""
		if len(c.Names) > 0 {
			name = strings.TrimPrefix(c.Names[0], "/")
		}
		result = append(result, domain.Container{
			ID:     c.ID[:12],
			Name:   name,
			Image:  c.Image,
			Status: c.Status,
			State:  c.State,
		})
	}
	return result, nil
}

// StartContainer creates and starts a container from the given image with
// the supplied environment.
func (a *Adapter) StartContainer(ctx context.Context, image string, env []string) (string, error) {
	if err := a.PullImage(ctx, image); err != nil {
		return "", err
	}

	resp, err := a.cli.ContainerCreate(ctx, &container.Config{
		Image: image,
		Env:   env,
	}, nil, nil, nil, "")
	if err != nil {
		return "", errors.Wrap(err, "create container")
	}

	if err := a.cli.ContainerStart(ctx, resp.ID, types.ContainerStartOptions{}); err != nil {
		return "", errors.Wrap(err, "start container")
	}
	return resp.ID, nil
}

// StopContainer stops a running container.
func (a *Adapter) StopContainer(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return a.cli.ContainerStop(ctx, id, container.StopOptions{})
}

// GetContainerLogs returns a stream of container logs.
func (a *Adapter) GetContainerLogs(ctx context.Context, id string) (io.ReadCloser, error) {
	options := types.ContainerLogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Timestamps: true,
	}
	return a.cli.ContainerLogs(ctx, id, options)
}
