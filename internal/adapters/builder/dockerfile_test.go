package builder

import (
	"path"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracefold/launchdock/internal/core/domain"
)

func TestGenerateDockerfileBareBase(t *testing.T) {
	got := generateDockerfile(domain.LaunchProject{}, "python:3.9", false)
	assert.Equal(t, "FROM python:3.9\n", got)
}

func TestGenerateDockerfileFullShape(t *testing.T) {
	project := domain.LaunchProject{
		Name:           "my run",
		OverrideConfig: map[string]any{"lr": 0.1},
	}
	got := generateDockerfile(project, "python:3.9", true)

	workdir := containerWorkdir()
	want := "FROM python:3.9\n" +
		"COPY " + path.Join(domain.ProjectTarArchiveName, domain.DefaultConfigPath) + " " + workdir + "\n" +
		"COPY " + domain.ProjectTarArchiveName + "/ " + workdir + "\n" +
		"WORKDIR " + workdir + "\n" +
		"ENV WANDB_NAME=my run\n"
	assert.Equal(t, want, got)
}

func TestGenerateDockerfileLineOrder(t *testing.T) {
	project := domain.LaunchProject{OverrideConfig: map[string]any{"epochs": 3}}
	got := generateDockerfile(project, "busybox", true)

	from := strings.Index(got, "FROM ")
	config := strings.Index(got, "COPY "+domain.ProjectTarArchiveName+"/"+domain.DefaultConfigPath)
	code := strings.Index(got, "COPY "+domain.ProjectTarArchiveName+"/ ")
	workdir := strings.Index(got, "WORKDIR ")
	require.GreaterOrEqual(t, from, 0)
	require.Greater(t, config, from)
	require.Greater(t, code, config)
	require.Greater(t, workdir, code)
}

func TestGenerateDockerfileOmitsUntriggeredLines(t *testing.T) {
	got := generateDockerfile(domain.LaunchProject{Name: "solo"}, "busybox", false)
	assert.Equal(t, "FROM busybox\nENV WANDB_NAME=solo\n", got)
	assert.NotContains(t, got, "COPY")
	assert.NotContains(t, got, "WORKDIR")
}

func TestDockerfileRender(t *testing.T) {
	d := NewDockerfile("alpine:3.20").
		Copy("src/", "/app").
		Workdir("/app").
		Env("MODE", "launch")
	assert.Equal(t, "FROM alpine:3.20\nCOPY src/ /app\nWORKDIR /app\nENV MODE=launch\n", d.Render())
}
