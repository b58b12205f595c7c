package upload

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFileName(t *testing.T) {
	name, err := NewFileName(".png")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, ".png"))
	assert.False(t, strings.Contains(name, ".."))

	other, err := NewFileName("png")
	require.NoError(t, err)
	assert.NotEqual(t, name, other)

	bare, err := NewFileName("")
	require.NoError(t, err)
	assert.NotContains(t, bare, ".")
}

func TestUpstreamError(t *testing.T) {
	err := NewUpstreamError("imgbb", "Invalid API v1 key.")
	assert.Equal(t, "imgbb upload failed: Invalid API v1 key.", err.Error())
}
