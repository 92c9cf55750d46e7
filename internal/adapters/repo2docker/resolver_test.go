package repo2docker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracefold/launchdock/internal/core/domain"
)

func TestParseImageIDFreshlyTagged(t *testing.T) {
	id, err := ParseImageID("Step 12/12 : done Successfully tagged myimage:latest")
	require.NoError(t, err)
	assert.Equal(t, "myimage", id)
}

func TestParseImageIDReusedImage(t *testing.T) {
	id, err := ParseImageID("Picked up existing build Reusing existing image (abc123)")
	require.NoError(t, err)
	assert.Equal(t, "abc123", id)
}

func TestParseImageIDTaggedTakesPriority(t *testing.T) {
	out := "Reusing existing image (old456) Successfully tagged fresh:latest"
	id, err := ParseImageID(out)
	require.NoError(t, err)
	assert.Equal(t, "fresh", id)
}

func TestParseImageIDNoMatch(t *testing.T) {
	out := "build exploded: no space left on device"
	_, err := ParseImageID(out)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLaunch)
	assert.Contains(t, err.Error(), out)
}

func TestResolveImageMissingConverter(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	r := NewResolver()
	_, err := r.ResolveImage(context.Background(), domain.LaunchProject{ProjectDir: t.TempDir()}, "python train.py")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDependencyMissing)
	assert.Contains(t, err.Error(), "wandb[launch]")
}
