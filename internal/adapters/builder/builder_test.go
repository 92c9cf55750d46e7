package builder

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commitFixtureRepo(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "train.py"), []byte("print('hi')\n"), 0o644))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("train.py")
	require.NoError(t, err)
	hash, err := wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "ci", Email: "ci@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return dir, hash.String()
}

func TestImageRefTagsWithShortCommit(t *testing.T) {
	dir, hash := commitFixtureRepo(t)

	ref := imageRef("my launch project", dir)
	assert.Equal(t, "my-launch-project", ref.Repository)
	assert.Equal(t, hash[:7], ref.Tag)
	assert.Equal(t, "my-launch-project:"+hash[:7], ref.String())
}

func TestImageRefWithoutDiscoverableCommit(t *testing.T) {
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	ref := imageRef("proj", dir)
	assert.Equal(t, "proj", ref.Repository)
	assert.Empty(t, ref.Tag)
	assert.NotContains(t, ref.String(), ":")
}

func TestImageRefDefaultsEmptyName(t *testing.T) {
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	ref := imageRef("", dir)
	assert.Equal(t, "docker-project", ref.Repository)
}
