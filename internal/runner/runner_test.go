package runner

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandString(t *testing.T) {
	assert.Equal(t, "brew", Command{Name: "brew"}.String())
	assert.Equal(t, "brew install --cask temurin", Command{Name: "brew", Args: []string{"install", "--cask", "temurin"}}.String())
}

func TestExecRunCapturesOutput(t *testing.T) {
	res, err := Exec{}.Run(context.Background(), Command{Name: "sh", Args: []string{"-c", "echo hello"}})
	require.NoError(t, err)
	assert.Equal(t, "hello\n", res.Stdout)
	assert.Equal(t, 0, res.ExitCode)
}

func TestExecRunPassesEnv(t *testing.T) {
	res, err := Exec{}.Run(context.Background(), Command{
		Name: "sh",
		Args: []string{"-c", "echo $PROVISION_TEST_VALUE"},
		Env:  []string{"PROVISION_TEST_VALUE=42"},
	})
	require.NoError(t, err)
	assert.Equal(t, "42\n", res.Stdout)
}

func TestExecRunNonZeroExit(t *testing.T) {
	res, err := Exec{}.Run(context.Background(), Command{Name: "sh", Args: []string{"-c", "echo boom >&2; exit 3"}})
	require.Error(t, err)

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 3, exitErr.ExitCode)
	assert.Equal(t, 3, res.ExitCode)
	assert.Contains(t, err.Error(), "boom")
}

func TestExecRunMissingBinary(t *testing.T) {
	_, err := Exec{}.Run(context.Background(), Command{Name: "definitely-not-a-real-binary-xyz"})
	require.Error(t, err)

	var exitErr *ExitError
	assert.False(t, errors.As(err, &exitErr))
}

func TestDryRunRecordsWithoutRunning(t *testing.T) {
	d := &DryRun{}
	res, err := d.Run(context.Background(), Command{Name: "brew", Args: []string{"update"}})
	require.NoError(t, err)
	assert.Equal(t, "brew update", res.Command)
	require.Len(t, d.Ran, 1)
	assert.Equal(t, "brew", d.Ran[0].Name)
}

func TestExecRunInteractiveDoesNotCapture(t *testing.T) {
	res, err := Exec{}.Run(context.Background(), Command{Name: "sh", Args: []string{"-c", "true"}, Interactive: true})
	require.NoError(t, err)
	assert.Empty(t, res.Stdout)
	assert.Equal(t, 0, res.ExitCode)
}
