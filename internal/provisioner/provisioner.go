package provisioner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mac-provision/internal/brew"
	"mac-provision/internal/config"
	"mac-provision/internal/logger"
	"mac-provision/internal/runner"
)

// Step names, in execution order.
const (
	StepSafeDirectory  = "safe-directory"
	StepPackageManager = "install-package-manager"
	StepAnalytics      = "analytics-off"
	StepTaps           = "taps"
	StepUpdate         = "update"
	StepPackages       = "packages"
	StepCasks          = "cask"
	StepCleanup        = "cleanup"
)

// Step is one named unit of the provisioning sequence.
type Step struct {
	Name string
	Run  func(ctx context.Context) error
}

// StepError reports which step aborted the run.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %s failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Provisioner runs the fixed provisioning sequence against Homebrew.
type Provisioner struct {
	Brew  *brew.Brew
	Steps []Step
	// OnStepDone, when set, is called after each step that succeeds.
	OnStepDone func(step string)
}

// New builds the provisioning sequence for cfg. The order of the steps is fixed.
func New(b *brew.Brew, cfg config.Brew) *Provisioner {
	p := &Provisioner{Brew: b}

	p.Steps = []Step{
		{StepSafeDirectory, func(ctx context.Context) error {
			return trustDirectory(ctx, b.Runner, cfg.SafeDirectory)
		}},
		{StepPackageManager, func(ctx context.Context) error {
			ran, err := b.EnsureInstalled(ctx, cfg.InstallURL)
			if err != nil {
				return err
			}
			if !ran {
				logger.Info("[INFO] Homebrew already installed at %s. Skipping.\n", b.Binary())
			}
			return nil
		}},
		{StepAnalytics, b.AnalyticsOff},
		{StepTaps, func(ctx context.Context) error {
			for _, tap := range cfg.Taps {
				if err := b.Tap(ctx, tap); err != nil {
					return err
				}
			}
			return nil
		}},
		{StepUpdate, b.Update},
		{StepPackages, ensureAll(b, cfg.Formulae())},
		{StepCasks, ensureAll(b, cfg.Casks())},
		{StepCleanup, b.Cleanup},
	}
	return p
}

// StepNames lists the steps in the order Run executes them.
func (p *Provisioner) StepNames() []string {
	names := make([]string, len(p.Steps))
	for i, s := range p.Steps {
		names[i] = s.Name
	}
	return names
}

// Run executes every step in order. The first failure aborts the remaining steps; nothing is
// rolled back.
func (p *Provisioner) Run(ctx context.Context) error {
	logger.Debug("[DEBUG] Provisioning %d steps\n", len(p.Steps))
	for _, step := range p.Steps {
		start := time.Now()
		logger.Info("[INFO] ==> %s\n", step.Name)
		logger.Run.WithField("step", step.Name).Info("step started")

		if err := step.Run(ctx); err != nil {
			logger.Run.WithField("step", step.Name).WithError(err).Error("step failed")
			return &StepError{Step: step.Name, Err: err}
		}

		logger.Run.WithField("step", step.Name).WithField("duration", time.Since(start)).Info("step finished")
		if p.OnStepDone != nil {
			p.OnStepDone(step.Name)
		}
	}
	return nil
}

func ensureAll(b *brew.Brew, pkgs []config.PackageSpec) func(context.Context) error {
	return func(ctx context.Context) error {
		for _, pkg := range pkgs {
			logger.Info("[INFO] Installing %s\n", pkg.Name)
			if err := b.Ensure(ctx, pkg); err != nil {
				return fmt.Errorf("%s: %w", pkg.Name, err)
			}
		}
		return nil
	}
}

// trustDirectory adds dir to git's global safe.directory list unless it is already there.
func trustDirectory(ctx context.Context, r runner.Runner, dir string) error {
	res, err := r.Run(ctx, runner.Command{Name: "git", Args: []string{"config", "--global", "--get-all", "safe.directory"}})
	if err != nil {
		// git exits 1 when the key is unset.
		var exitErr *runner.ExitError
		if !errors.As(err, &exitErr) || exitErr.ExitCode != 1 {
			return err
		}
	}
	for _, line := range strings.Split(res.Stdout, "\n") {
		if strings.TrimSpace(line) == dir {
			logger.Debug("[DEBUG] %s already trusted by git\n", dir)
			return nil
		}
	}
	_, err = r.Run(ctx, runner.Command{Name: "git", Args: []string{"config", "--global", "--add", "safe.directory", dir}})
	return err
}
