package builder

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracefold/launchdock/internal/core/domain"
)

func readTarGz(t *testing.T, path string) map[string][]byte {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	defer gz.Close()

	entries := map[string][]byte{}
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		if hdr.Typeflag == tar.TypeDir {
			entries[hdr.Name] = nil
			continue
		}
		body, err := io.ReadAll(tr)
		require.NoError(t, err)
		entries[hdr.Name] = body
	}
	return entries
}

func newProjectDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "train.py"), []byte("print('hi')\n"), 0o644))
	return dir
}

func TestCreateBuildContextArchiveLayout(t *testing.T) {
	src := newProjectDir(t)

	ctxPath, err := CreateBuildContext(src, "FROM busybox\n", "python-3.9", map[string]any{"epochs": 3})
	require.NoError(t, err)
	defer os.Remove(ctxPath)

	entries := readTarGz(t, ctxPath)
	prefix := domain.ProjectTarArchiveName + "/"
	assert.Equal(t, "FROM busybox\n", string(entries[prefix+domain.GeneratedDockerfileName]))
	assert.Equal(t, "python-3.9", string(entries[prefix+"runtime.txt"]))
	assert.JSONEq(t, `{"epochs":3}`, string(entries[prefix+domain.DefaultConfigPath]))
	assert.Contains(t, entries, prefix+"train.py")

	for name := range entries {
		assert.True(t, name == domain.ProjectTarArchiveName+"/" ||
			len(name) > len(prefix) && name[:len(prefix)] == prefix,
			"entry %s escapes the archive root", name)
	}
}

func TestCreateBuildContextOmitsOptionalFiles(t *testing.T) {
	src := newProjectDir(t)

	ctxPath, err := CreateBuildContext(src, "FROM busybox\n", "", nil)
	require.NoError(t, err)
	defer os.Remove(ctxPath)

	entries := readTarGz(t, ctxPath)
	prefix := domain.ProjectTarArchiveName + "/"
	assert.NotContains(t, entries, prefix+"runtime.txt")
	assert.NotContains(t, entries, prefix+domain.DefaultConfigPath)
	assert.Contains(t, entries, prefix+domain.GeneratedDockerfileName)
}

func TestCreateBuildContextUnreadableSource(t *testing.T) {
	_, err := CreateBuildContext(filepath.Join(t.TempDir(), "missing"), "FROM busybox\n", "", nil)
	require.Error(t, err)
}

func TestCreateBuildContextCleansWorkspaceOnArchiveFailure(t *testing.T) {
	src := newProjectDir(t)
	tmp := t.TempDir()
	failing := func(io.Writer, string, string) error { return errors.New("disk full") }

	_, err := createBuildContext(src, "FROM busybox\n", "", nil, tmp, failing)
	require.Error(t, err)

	leftover, err := os.ReadDir(tmp)
	require.NoError(t, err)
	assert.Empty(t, leftover, "workspace not cleaned up after archive failure")
}
