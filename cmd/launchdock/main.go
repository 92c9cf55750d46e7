package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tracefold/launchdock/internal/adapters/builder"
	"github.com/tracefold/launchdock/internal/adapters/docker"
	launchhttp "github.com/tracefold/launchdock/internal/adapters/http"
	"github.com/tracefold/launchdock/internal/adapters/repo2docker"
	"github.com/tracefold/launchdock/internal/config"
	"github.com/tracefold/launchdock/internal/core/domain"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		log.WithError(err).Error("command failed")
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		configPath string
		logLevel   string
	)

	root := &cobra.Command{
		Use:           "launchdock",
		Short:         "Build and launch docker images for tracked experiment runs",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to the agent config file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log verbosity (debug, info, warn, error)")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		level, err := log.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		log.SetLevel(level)
		return nil
	}

	root.AddCommand(
		newServeCommand(&configPath),
		newBuildCommand(&configPath),
		newRunCommand(&configPath),
	)
	return root
}

func newServeCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the launch agent HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if err := docker.ValidateInstallation(); err != nil {
				return err
			}

			containerAdapter, err := docker.NewAdapter()
			if err != nil {
				return err
			}
			builderAdapter, err := builder.NewBuilderAdapter()
			if err != nil {
				return err
			}
			handler := launchhttp.NewLaunchHandler(
				builderAdapter,
				repo2docker.NewResolver(),
				containerAdapter,
				cfg,
				docker.ComposeRunCommand,
			)

			app := launchhttp.NewRouter(handler)
			go func() {
				<-cmd.Context().Done()
				_ = app.Shutdown()
			}()

			log.Infof("launch agent listening on %s", cfg.ListenAddr)
			return app.Listen(cfg.ListenAddr)
		},
	}
}

func newBuildCommand(configPath *string) *cobra.Command {
	var (
		baseImage  string
		copyCode   bool
		name       string
		runID      string
		runtimeStr string
		entryCmd   string
		fromRepo   bool
		userID     int
	)

	cmd := &cobra.Command{
		Use:   "build <project-dir>",
		Args:  cobra.ExactArgs(1),
		Short: "Build a docker image for a project directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			project := domain.LaunchProject{
				ProjectDir:   args[0],
				Name:         name,
				RunID:        runID,
				Runtime:      runtimeStr,
				DockerUserID: userID,
			}
			project.EnsureRunID()

			ctx := cmd.Context()
			if timeout := time.Duration(cfg.BuildTimeout); timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			if fromRepo {
				resolver := repo2docker.NewResolver()
				id, err := resolver.ResolveImage(ctx, project, entryCmd)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), id)
				return nil
			}

			if err := docker.ValidateInstallation(); err != nil {
				return err
			}
			builderAdapter, err := builder.NewBuilderAdapter()
			if err != nil {
				return err
			}
			ref, err := builderAdapter.BuildImage(ctx, project, baseImage, copyCode)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ref.String())
			return nil
		},
	}

	cmd.Flags().StringVar(&baseImage, "base-image", "", "Base image to build on top of")
	cmd.Flags().BoolVar(&copyCode, "copy-code", true, "Copy the project code into the image")
	cmd.Flags().StringVar(&name, "name", "", "Run name")
	cmd.Flags().StringVar(&runID, "run-id", "", "Run identifier (generated when omitted)")
	cmd.Flags().StringVar(&runtimeStr, "runtime", "", "Runtime marker written into the build context")
	cmd.Flags().StringVar(&entryCmd, "entry-cmd", "", "Entry point command (repository builds)")
	cmd.Flags().BoolVar(&fromRepo, "repository", false, "Resolve the image with repo2docker instead of a dockerfile build")
	cmd.Flags().IntVar(&userID, "user-id", 0, "User id inside the image (repository builds)")
	return cmd
}

func newRunCommand(configPath *string) *cobra.Command {
	var (
		targetProject string
		targetEntity  string
		runID         string
		dockerArgs    []string
	)

	cmd := &cobra.Command{
		Use:   "run <image>",
		Args:  cobra.ExactArgs(1),
		Short: "Print the docker run invocation for a built image",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			project := domain.LaunchProject{
				DockerImage:   args[0],
				RunID:         runID,
				TargetProject: targetProject,
				TargetEntity:  targetEntity,
			}
			project.EnsureRunID()
			if err := docker.ValidateEnv(project); err != nil {
				return err
			}

			extra := make(map[string]any, len(dockerArgs))
			for _, arg := range dockerArgs {
				name, value, found := strings.Cut(arg, "=")
				if !found {
					extra[name] = true
					continue
				}
				extra[name] = value
			}

			runCmd := docker.ComposeRunCommand(domain.ParseImageReference(args[0]), project, cfg, extra)
			fmt.Fprintln(cmd.OutOrStdout(), runCmd.String())
			return nil
		},
	}

	cmd.Flags().StringVar(&targetProject, "project", "", "Target tracking project")
	cmd.Flags().StringVar(&targetEntity, "entity", "", "Target tracking entity")
	cmd.Flags().StringVar(&runID, "run-id", "", "Run identifier (generated when omitted)")
	cmd.Flags().StringArrayVar(&dockerArgs, "docker-arg", nil, "Extra docker run flag, name or name=value (repeatable)")
	return cmd
}
