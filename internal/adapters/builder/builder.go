package builder

import (
	"context"
	"io"
	"os"
	"path"
	"strings"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/client"
	"github.com/go-git/go-git/v5"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/tracefold/launchdock/internal/core/domain"
)

// Adapter builds launch images through the Docker daemon.
type Adapter struct {
	cli *client.Client
}

func NewBuilderAdapter() (*Adapter, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, errors.Wrap(err, "create docker client")
	}
	return &Adapter{cli: cli}, nil
}

// BuildImage assembles a build context for the project and builds a tagged
// image on top of baseImage. The context tarball is deleted after the build
// call returns, success or failure; a deletion failure is logged, not raised.
func (a *Adapter) BuildImage(ctx context.Context, project domain.LaunchProject, baseImage string, copyCode bool) (domain.ImageReference, error) {
	ref := imageRef(project.ImageName(), project.ProjectDir)
	dockerfile := generateDockerfile(project, baseImage, copyCode)

	ctxPath, err := CreateBuildContext(project.ProjectDir, dockerfile, project.Runtime, project.OverrideConfig)
	if err != nil {
		return domain.ImageReference{}, err
	}
	defer func() {
		if err := os.Remove(ctxPath); err != nil {
			log.WithError(err).Infof("temporary docker context file %s was not deleted", ctxPath)
		}
	}()

	buildCtx, err := os.Open(ctxPath)
	if err != nil {
		return domain.ImageReference{}, errors.Wrap(err, "open build context")
	}
	defer buildCtx.Close()

	log.Infof("building docker image %s", ref)
	resp, err := a.cli.ImageBuild(ctx, buildCtx, types.ImageBuildOptions{
		Tags:        []string{ref.String()},
		Dockerfile:  path.Join(domain.ProjectTarArchiveName, domain.GeneratedDockerfileName),
		Remove:      true,
		ForceRemove: true,
	})
	if err != nil {
		return domain.ImageReference{}, domain.LaunchErrorf("error communicating with docker client: %v", err)
	}
	defer resp.Body.Close()

	// The build only completes once the response stream is drained.
	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return domain.ImageReference{}, domain.LaunchErrorf("error streaming docker build: %v", err)
	}
	return ref, nil
}

// imageRef derives the image reference for name, tagging it with the first
// seven characters of the working directory's HEAD commit when one is
// discoverable.
func imageRef(name, workDir string) domain.ImageReference {
	if name == "" {
		name = "docker-project"
	}
	ref := domain.ImageReference{Repository: strings.ReplaceAll(name, " ", "-")}
	if commit := headCommit(workDir); len(commit) >= 7 {
		ref.Tag = commit[:7]
	}
	return ref
}

// headCommit returns the HEAD commit hash of the repository containing
// workDir, or "" when none is discoverable.
func headCommit(workDir string) string {
	repo, err := git.PlainOpenWithOptions(workDir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return ""
	}
	head, err := repo.Head()
	if err != nil {
		return ""
	}
	return head.Hash().String()
}
