package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnsureRunIDGeneratesWhenEmpty(t *testing.T) {
	p := LaunchProject{}
	p.EnsureRunID()
	assert.Len(t, p.RunID, 8)

	other := LaunchProject{}
	other.EnsureRunID()
	assert.NotEqual(t, p.RunID, other.RunID)
}

func TestEnsureRunIDKeepsExisting(t *testing.T) {
	p := LaunchProject{RunID: "abc123"}
	p.EnsureRunID()
	assert.Equal(t, "abc123", p.RunID)
	assert.Equal(t, "wandb_launch_abc123", p.ImageName())
}

func TestParseImageReference(t *testing.T) {
	ref := ParseImageReference("busybox:1.36")
	assert.Equal(t, "busybox", ref.Repository)
	assert.Equal(t, "1.36", ref.Tag)
	assert.Equal(t, "busybox:1.36", ref.String())

	ref = ParseImageReference("busybox")
	assert.Equal(t, "busybox", ref.Repository)
	assert.Empty(t, ref.Tag)
	assert.Equal(t, "busybox", ref.String())
}
