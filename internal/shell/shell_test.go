package shell

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mac-provision/internal/runner"
	"mac-provision/internal/runner/runnertest"
)

func TestDetect(t *testing.T) {
	tests := map[string]string{
		"/bin/zsh":                "zsh",
		"/usr/local/bin/bash":     "bash",
		"/opt/homebrew/bin/fish":  "zsh",
		"":                        "zsh",
		"/bin/zsh-but-not-really": "zsh",
	}
	for env, want := range tests {
		assert.Equal(t, want, Detect(env), env)
	}
}

func TestProfilePath(t *testing.T) {
	assert.Equal(t, "/Users/dev/.zshrc", ProfilePath("zsh", "/Users/dev"))
	assert.Equal(t, "/Users/dev/.bash_profile", ProfilePath("bash", "/Users/dev"))
	assert.Equal(t, "/Users/dev/.zshrc", ProfilePath("tcsh", "/Users/dev"))
}

func TestReloadSourcesProfile(t *testing.T) {
	fake := &runnertest.Fake{}
	require.NoError(t, Reload(context.Background(), fake, "zsh", "/Users/dev/.zshrc"))
	assert.Equal(t, []string{`zsh -c . "$1" zsh /Users/dev/.zshrc`}, fake.Ran)
}

func TestReloadReportsSourceFailure(t *testing.T) {
	fake := &runnertest.Fake{Fail: map[string]int{`bash -c . "$1" bash /p`: 2}}
	err := Reload(context.Background(), fake, "bash", "/p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to source /p")
}

func TestReloadRealShell(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile")
	require.NoError(t, os.WriteFile(path, []byte("export RELOAD_TEST=1\nalias ll='ls -l'\n"), 0644))
	require.NoError(t, Reload(context.Background(), runner.Exec{}, "sh", path))

	require.NoError(t, os.WriteFile(path, []byte("if then fi\n"), 0644))
	assert.Error(t, Reload(context.Background(), runner.Exec{}, "sh", path))
}
