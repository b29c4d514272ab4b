package provisioner

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mac-provision/internal/brew"
	"mac-provision/internal/config"
	"mac-provision/internal/runner"
	"mac-provision/internal/runner/runnertest"
)

const brewBin = "/opt/homebrew/bin/brew"

var getSafe = "git config --global --get-all safe.directory"

func testConfig() config.Brew {
	return config.Brew{
		Prefix:        "/opt/homebrew",
		InstallURL:    "https://example.com/install.sh",
		SafeDirectory: "/opt/homebrew",
		Taps:          []string{"homebrew/cask-versions", "homebrew/services"},
		Packages: []config.PackageSpec{
			{Name: "ruby"},
			{Name: "temurin", Flavor: config.Cask},
			{Name: "python"},
		},
	}
}

func newFake() *runnertest.Fake {
	return &runnertest.Fake{
		Paths: map[string]string{"brew": brewBin},
		Fail:  map[string]int{getSafe: 1},
	}
}

func TestRunOrder(t *testing.T) {
	fake := newFake()
	p := New(brew.New(fake, "/opt/homebrew"), testConfig())

	var done []string
	p.OnStepDone = func(step string) { done = append(done, step) }

	require.NoError(t, p.Run(context.Background()))
	assert.Equal(t, []string{
		getSafe,
		"git config --global --add safe.directory /opt/homebrew",
		brewBin + " analytics off",
		brewBin + " tap homebrew/cask-versions",
		brewBin + " tap homebrew/services",
		brewBin + " update",
		brewBin + " install ruby",
		brewBin + " upgrade ruby",
		brewBin + " unlink ruby",
		brewBin + " link ruby",
		brewBin + " install python",
		brewBin + " upgrade python",
		brewBin + " unlink python",
		brewBin + " link python",
		brewBin + " install --cask temurin",
		brewBin + " upgrade --cask temurin",
		brewBin + " reinstall --cask temurin",
		brewBin + " cleanup",
	}, fake.Ran)
	assert.Equal(t, p.StepNames(), done)
}

func TestStepNames(t *testing.T) {
	p := New(brew.New(newFake(), ""), testConfig())
	assert.Equal(t, []string{
		StepSafeDirectory, StepPackageManager, StepAnalytics, StepTaps,
		StepUpdate, StepPackages, StepCasks, StepCleanup,
	}, p.StepNames())
}

func TestInstallsPackageManagerWhenAbsent(t *testing.T) {
	fake := &runnertest.Fake{Fail: map[string]int{getSafe: 1}}
	p := New(brew.New(fake, "/opt/homebrew"), config.Brew{InstallURL: "https://example.com/install.sh", SafeDirectory: "/opt/homebrew"})

	require.NoError(t, p.Run(context.Background()))
	assert.Contains(t, fake.Ran, "curl -fsSL https://example.com/install.sh")
	last := fake.Commands[len(fake.Commands)-1]
	assert.Equal(t, "brew cleanup", last.String())
	var installer []runner.Command
	for _, c := range fake.Commands {
		if c.Name == "/bin/bash" {
			installer = append(installer, c)
		}
	}
	require.Len(t, installer, 1)
	assert.True(t, installer[0].Interactive)
}

func TestSkipsPackageManagerInstallWhenPresent(t *testing.T) {
	fake := newFake()
	p := New(brew.New(fake, "/opt/homebrew"), testConfig())

	require.NoError(t, p.Run(context.Background()))
	for _, line := range fake.Ran {
		assert.NotContains(t, line, "curl")
	}
}

func TestAlreadyInstalledPackageStillUpgradedAndRelinked(t *testing.T) {
	fake := newFake()
	fake.Output = map[string]string{brewBin + " install ruby": "Warning: ruby 3.3.0 is already installed and up-to-date.\n"}
	cfg := testConfig()
	cfg.Packages = []config.PackageSpec{{Name: "ruby"}}
	p := New(brew.New(fake, "/opt/homebrew"), cfg)

	require.NoError(t, p.Run(context.Background()))
	assert.Contains(t, fake.Ran, brewBin+" upgrade ruby")
	assert.Contains(t, fake.Ran, brewBin+" unlink ruby")
	assert.Contains(t, fake.Ran, brewBin+" link ruby")
}

func TestFailFast(t *testing.T) {
	fake := newFake()
	fake.Fail[brewBin+" update"] = 1
	p := New(brew.New(fake, "/opt/homebrew"), testConfig())

	err := p.Run(context.Background())
	require.Error(t, err)

	var stepErr *StepError
	require.True(t, errors.As(err, &stepErr))
	assert.Equal(t, StepUpdate, stepErr.Step)

	var exitErr *runner.ExitError
	assert.True(t, errors.As(err, &exitErr))

	assert.Equal(t, brewBin+" update", fake.Ran[len(fake.Ran)-1])
	assert.NotContains(t, fake.Ran, brewBin+" cleanup")
}

func TestPackageFailureNamesPackage(t *testing.T) {
	fake := newFake()
	fake.Fail[brewBin+" link python"] = 1
	p := New(brew.New(fake, "/opt/homebrew"), testConfig())

	err := p.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step packages failed: python")
	assert.NotContains(t, fake.Ran, brewBin+" install --cask temurin")
}

func TestSafeDirectoryAlreadyTrusted(t *testing.T) {
	fake := &runnertest.Fake{
		Paths:  map[string]string{"brew": brewBin},
		Output: map[string]string{getSafe: "/somewhere/else\n/opt/homebrew\n"},
	}
	p := New(brew.New(fake, "/opt/homebrew"), testConfig())

	require.NoError(t, p.Run(context.Background()))
	assert.NotContains(t, fake.Ran, "git config --global --add safe.directory /opt/homebrew")
}

func TestSafeDirectoryGitFailure(t *testing.T) {
	fake := newFake()
	fake.Fail[getSafe] = 128
	p := New(brew.New(fake, "/opt/homebrew"), testConfig())

	err := p.Run(context.Background())
	var stepErr *StepError
	require.True(t, errors.As(err, &stepErr))
	assert.Equal(t, StepSafeDirectory, stepErr.Step)
	assert.Len(t, fake.Ran, 1)
}
