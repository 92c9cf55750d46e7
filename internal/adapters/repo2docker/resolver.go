package repo2docker

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/tracefold/launchdock/internal/core/domain"
)

const executable = "jupyter-repo2docker"

// repo2docker reports the outcome on stderr; the build either tags a fresh
// image or reuses a cached one.
var (
	successTagged  = regexp.MustCompile(`Successfully tagged (.+):latest`)
	reusedExisting = regexp.MustCompile(`Reusing existing image \((.+)\)`)
)

// Resolver converts a source repository into a docker image by shelling out
// to jupyter-repo2docker.
type Resolver struct {
	// Progress receives the converter's stderr output line by line as it
	// arrives. Defaults to os.Stdout.
	Progress io.Writer
}

func NewResolver() *Resolver {
	return &Resolver{Progress: os.Stdout}
}

// ResolveImage runs the converter over the project directory and returns the
// resolved image identifier. The supplied context is the caller's timeout
// and cancellation policy; cancelling it kills the converter.
func (r *Resolver) ResolveImage(ctx context.Context, project domain.LaunchProject, entryCmd string) (string, error) {
	if _, err := exec.LookPath(executable); err != nil {
		return "", domain.DependencyErrorf(
			"launching from a repository requires additional dependencies, install with pip install \"wandb[launch]\"")
	}

	cmd := exec.CommandContext(ctx, executable,
		"--no-run",
		fmt.Sprintf("--user-id=%d", project.DockerUserID),
		project.ProjectDir,
		fmt.Sprintf("%q", entryCmd),
	)
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return "", errors.Wrap(err, "open repo2docker stderr")
	}

	log.Info("generating docker image, this may take a few minutes")
	if err := cmd.Start(); err != nil {
		return "", errors.Wrap(err, "start repo2docker")
	}

	out := r.Progress
	if out == nil {
		out = os.Stdout
	}
	var captured strings.Builder
	scanner := bufio.NewScanner(stderr)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		fmt.Fprintln(out, line)
		captured.WriteString(line)
	}
	// The converter signals the outcome in its output, not its exit code.
	_ = cmd.Wait()
	if err := scanner.Err(); err != nil {
		return "", errors.Wrap(err, "read repo2docker output")
	}
	return ParseImageID(captured.String())
}

// ParseImageID extracts the resolved image identifier from the converter's
// accumulated stderr text. A freshly tagged image takes priority over a
// reused one.
func ParseImageID(output string) (string, error) {
	if m := successTagged.FindStringSubmatch(output); m != nil {
		return m[1], nil
	}
	if m := reusedExisting.FindStringSubmatch(output); m != nil {
		return m[1], nil
	}
	return "", domain.LaunchErrorf("error running repo2docker: %s", output)
}
