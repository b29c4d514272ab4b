package platform

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectOverride(t *testing.T) {
	t.Setenv(OverrideEnv, "linux")
	assert.Equal(t, "linux", Detect())
}

func TestDetectDefault(t *testing.T) {
	t.Setenv(OverrideEnv, "")
	assert.Equal(t, runtime.GOOS, Detect())
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported("darwin"))
	assert.False(t, Supported("linux"))
	assert.False(t, Supported("windows"))
	assert.False(t, Supported(""))
}
