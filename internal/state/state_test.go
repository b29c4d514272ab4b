package state

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	st := New()
	st.LastRun = now
	st.StepDone("update", now)
	st.StepDone("safe-directory", now.Add(-time.Minute))
	st.BlockApplied("python", "/Users/dev/.zshrc", []string{`alias python="python3"`}, now)
	require.NoError(t, SaveState(path, st))

	loaded := LoadState(path)
	assert.True(t, now.Equal(loaded.LastRun))
	assert.Equal(t, []string{"safe-directory", "update"}, loaded.StepNames())
	assert.Equal(t, []string{"python"}, loaded.BlockNames())
	assert.Equal(t, "/Users/dev/.zshrc", loaded.Blocks["python"].Profile)
}

func TestLoadStateMissing(t *testing.T) {
	st := LoadState(filepath.Join(t.TempDir(), "missing.json"))
	require.NotNil(t, st.Steps)
	require.NotNil(t, st.Blocks)
	assert.True(t, st.LastRun.IsZero())
}

func TestLoadStateNullMaps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"steps": null, "blocks": null}`), 0644))

	st := LoadState(path)
	assert.NotNil(t, st.Steps)
	assert.NotNil(t, st.Blocks)
}

func TestLoadStateCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0644))

	st := LoadState(path)
	assert.Empty(t, st.Steps)
}

func TestBlockAppliedCopiesLines(t *testing.T) {
	st := New()
	lines := []string{"a"}
	st.BlockApplied("x", "/p", lines, time.Now())
	lines[0] = "changed"
	assert.Equal(t, []string{"a"}, st.Blocks["x"].Lines)
}
