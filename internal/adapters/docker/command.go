package docker

import (
	"fmt"
	"runtime"
	"sort"
	"strings"

	"github.com/alessio/shellescape"

	"github.com/tracefold/launchdock/internal/core/domain"
	"github.com/tracefold/launchdock/internal/core/ports"
)

const devRewriteURL = "http://host.docker.internal:9002"

// ComposeRunCommand constructs the `docker run` argument list for a built
// image, injecting the environment variables that let the launched container
// report back to the tracking backend. Every token is shell-escaped.
func ComposeRunCommand(image domain.ImageReference, project domain.LaunchProject, settings ports.Settings, dockerArgs map[string]any) domain.RunCommand {
	return composeRunCommand(image, project, settings, dockerArgs, runtime.GOOS)
}

func composeRunCommand(image domain.ImageReference, project domain.LaunchProject, settings ports.Settings, dockerArgs map[string]any, hostOS string) domain.RunCommand {
	cmd := []string{"docker", "run", "--rm"}

	envs := []string{
		"WANDB_BASE_URL=" + resolveBaseURL(settings.BaseURL(), hostOS),
		"WANDB_API_KEY=" + settings.APIKey(),
		"WANDB_PROJECT=" + project.TargetProject,
		"WANDB_ENTITY=" + project.TargetEntity,
		"WANDB_LAUNCH=true",
		"WANDB_LAUNCH_CONFIG_PATH=" + domain.DefaultConfigPath,
		"WANDB_RUN_ID=" + project.RunID,
		"WANDB_DOCKER=" + project.DockerImage,
	}
	for _, e := range envs {
		cmd = append(cmd, "--env", e)
	}

	names := make([]string, 0, len(dockerArgs))
	for name := range dockerArgs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		value := dockerArgs[name]
		flag := "--" + name
		if len(name) == 1 {
			flag = "-" + name
		}
		if b, ok := value.(bool); ok {
			// Passed just the name as a boolean flag; false drops it.
			if b {
				cmd = append(cmd, flag)
			}
			continue
		}
		cmd = append(cmd, flag, fmt.Sprint(value))
	}

	cmd = append(cmd, image.String())

	escaped := make(domain.RunCommand, 0, len(cmd))
	for _, token := range cmd {
		escaped = append(escaped, shellescape.Quote(token))
	}
	return escaped
}

// resolveBaseURL rewrites the tracking backend URL to one the launched
// container can reach. On desktop docker a loopback address only resolves
// inside the container itself.
func resolveBaseURL(baseURL, hostOS string) string {
	switch {
	case isLocalURL(baseURL) && hostOS == "darwin":
		if port := portOf(baseURL); port != "" {
			return "http://host.docker.internal:" + port
		}
		return "http://host.docker.internal"
	case isDevURL(baseURL):
		return devRewriteURL
	}
	return baseURL
}

// portOf returns the trailing port of a URL, or "" when none is present.
func portOf(s string) string {
	i := strings.LastIndex(s, ":")
	if i < 0 {
		return ""
	}
	port := s[i+1:]
	if port == "" || strings.Contains(port, "/") {
		return ""
	}
	for _, r := range port {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return port
}

func isLocalURL(s string) bool {
	return strings.Contains(s, "localhost") || strings.Contains(s, "127.0.0.1")
}

func isDevURL(s string) bool {
	return strings.Contains(s, "wandb.test")
}
