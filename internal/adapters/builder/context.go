package builder

import (
	"archive/tar"
	"compress/gzip"
	"encoding/json"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/tracefold/launchdock/internal/core/domain"
)

type archiveFunc func(w io.Writer, sourceDir, archiveName string) error

// CreateBuildContext prepares a docker build context for the project
// directory: the project tree is copied into a fresh working directory, the
// generated Dockerfile plus the optional config and runtime files are
// injected, and the result is archived into a gzip tarball under the fixed
// top-level archive name. It returns the tarball path; deleting the tarball
// is the caller's responsibility. The intermediate working directory is
// removed on every path, including archive failure.
func CreateBuildContext(projectDir, dockerfile, runtime string, overrideConfig map[string]any) (string, error) {
	return createBuildContext(projectDir, dockerfile, runtime, overrideConfig, "", writeTarGz)
}

func createBuildContext(projectDir, dockerfile, runtime string, overrideConfig map[string]any, tmpDir string, archive archiveFunc) (string, error) {
	workDir, err := os.MkdirTemp(tmpDir, "launchdock-build-*")
	if err != nil {
		return "", errors.Wrap(err, "create build workspace")
	}
	defer os.RemoveAll(workDir)

	contents := filepath.Join(workDir, domain.ProjectContentsDirName)
	if err := os.Mkdir(contents, 0o755); err != nil {
		return "", errors.Wrap(err, "create contents directory")
	}
	if err := os.CopyFS(contents, os.DirFS(projectDir)); err != nil {
		return "", errors.Wrapf(err, "copy project %s", projectDir)
	}

	if len(overrideConfig) > 0 {
		raw, err := json.Marshal(overrideConfig)
		if err != nil {
			return "", errors.Wrap(err, "serialize override config")
		}
		if err := os.WriteFile(filepath.Join(contents, domain.DefaultConfigPath), raw, 0o644); err != nil {
			return "", errors.Wrap(err, "write override config")
		}
	}
	if runtime != "" {
		if err := os.WriteFile(filepath.Join(contents, "runtime.txt"), []byte(runtime), 0o644); err != nil {
			return "", errors.Wrap(err, "write runtime file")
		}
	}
	if err := os.WriteFile(filepath.Join(contents, domain.GeneratedDockerfileName), []byte(dockerfile), 0o644); err != nil {
		return "", errors.Wrap(err, "write generated dockerfile")
	}

	out, err := os.CreateTemp(tmpDir, "launchdock-context-*.tgz")
	if err != nil {
		return "", errors.Wrap(err, "create context archive")
	}
	if err := archive(out, contents, domain.ProjectTarArchiveName); err != nil {
		out.Close()
		os.Remove(out.Name())
		return "", errors.Wrap(err, "archive build context")
	}
	if err := out.Close(); err != nil {
		os.Remove(out.Name())
		return "", errors.Wrap(err, "close context archive")
	}
	return out.Name(), nil
}

// writeTarGz archives sourceDir into w as a gzip tarball whose entries all
// live under the archiveName top-level directory.
func writeTarGz(w io.Writer, sourceDir, archiveName string) error {
	gz := gzip.NewWriter(w)
	tw := tar.NewWriter(gz)

	err := filepath.WalkDir(sourceDir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(sourceDir, p)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		hdr.Name = path.Join(archiveName, filepath.ToSlash(rel))
		if d.IsDir() {
			hdr.Name += "/"
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		f, err := os.Open(p)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(tw, f)
		return err
	})
	if err != nil {
		return err
	}
	if err := tw.Close(); err != nil {
		return err
	}
	return gz.Close()
}
