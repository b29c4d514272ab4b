package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"mac-provision/internal/archive"
	"mac-provision/internal/brew"
	"mac-provision/internal/config"
	"mac-provision/internal/logger"
	"mac-provision/internal/platform"
	"mac-provision/internal/profile"
	"mac-provision/internal/provisioner"
	"mac-provision/internal/runner"
	"mac-provision/internal/shell"
	"mac-provision/internal/state"
)

// App wires the provisioner, the profile editor and the reload step together.
type App struct {
	Config config.Config
	Runner runner.Runner
	// DryRun prints commands and profile edits without running or writing anything.
	DryRun bool

	GOOS     string
	GOARCH   string
	Home     string
	ShellEnv string
	Now      func() time.Time
	Out      io.Writer
}

// New returns an App for the current machine.
func New(cfg config.Config) (*App, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to find home directory: %w", err)
	}
	return &App{
		Config:   cfg,
		Runner:   runner.Exec{},
		GOOS:     platform.Detect(),
		GOARCH:   runtime.GOARCH,
		Home:     home,
		ShellEnv: os.Getenv("SHELL"),
		Now:      time.Now,
		Out:      os.Stdout,
	}, nil
}

// Skip prints the message shown instead of provisioning on an unsupported OS.
func Skip(w io.Writer, goos string) {
	fmt.Fprintf(w, "Skipping: detected %q, this tool only provisions macOS.\n", goos)
}

// Run provisions packages, rewrites the profile blocks and reloads the profile.
func (a *App) Run(ctx context.Context) error {
	return a.session(ctx, true, true)
}

// Packages runs only the provisioning sequence.
func (a *App) Packages(ctx context.Context) error {
	return a.session(ctx, true, false)
}

// Profile only rewrites the profile blocks and reloads the profile.
func (a *App) Profile(ctx context.Context) error {
	return a.session(ctx, false, true)
}

// session runs the requested parts behind the OS guard. On an unsupported OS it prints a skip
// message and returns nil without touching anything.
func (a *App) session(ctx context.Context, packages, editProfile bool) (err error) {
	if !platform.Supported(a.GOOS) {
		Skip(a.Out, a.GOOS)
		return nil
	}
	a.resolve()

	r := a.Runner
	st := state.New()
	if a.DryRun {
		r = &runner.DryRun{Lookup: a.Runner}
	} else {
		if err := logger.OpenRunLog(a.logFile(), a.Now()); err != nil {
			return err
		}
		defer func() {
			if cerr := logger.CloseRunLog(); err == nil && cerr != nil {
				err = cerr
			}
		}()
		st = state.LoadState(a.Config.StateFile)
		defer func() {
			st.LastRun = a.Now()
			if serr := state.SaveState(a.Config.StateFile, st); serr != nil {
				logger.Warn("[WARN] %v\n", serr)
			}
		}()
	}

	if packages {
		prov := provisioner.New(brew.New(r, a.Config.Brew.Prefix), a.Config.Brew)
		prov.OnStepDone = func(step string) { st.StepDone(step, a.Now()) }
		if err := prov.Run(ctx); err != nil {
			logger.Run.WithError(err).Error("provisioning aborted")
			return err
		}
	}
	if editProfile {
		if err := a.editProfile(ctx, r, st); err != nil {
			logger.Run.WithError(err).Error("profile update failed")
			return err
		}
	}
	logger.Run.Info("provisioning run finished")
	return nil
}

// resolve fills every config value derived from the machine.
func (a *App) resolve() {
	a.Config.ResolveBrew(a.GOARCH)
	p := &a.Config.Profile
	if p.Shell == "" {
		p.Shell = shell.Detect(a.ShellEnv)
	}
	if p.Path == "" {
		p.Path = shell.ProfilePath(p.Shell, a.Home)
	}
	p.Path = a.expandHome(p.Path)
	p.Spark.Home = a.expandHome(p.Spark.Home)
	if p.Spark.Archive != "" && !archive.IsRemote(p.Spark.Archive) {
		p.Spark.Archive = a.expandHome(p.Spark.Archive)
	}
}

func (a *App) expandHome(path string) string {
	if path == "~" {
		return a.Home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(a.Home, path[2:])
	}
	return path
}

func (a *App) logFile() string {
	if a.Config.LogFile != "" {
		return a.Config.LogFile
	}
	return logger.DefaultRunLogName(a.Now())
}

// Blocks returns the profile blocks to apply, in order. Call after resolve.
func (a *App) Blocks() []profile.Block {
	p := a.Config.Profile
	blocks := []profile.Block{
		profile.Ruby(a.Config.Brew.Prefix),
		profile.Python(),
		profile.Spark(p.Spark.Home),
	}
	if p.PySpark.Enabled {
		blocks = append(blocks, profile.PySpark(p.PySpark.Driver, p.PySpark.DriverOpts))
	}
	return blocks
}

func (a *App) editProfile(ctx context.Context, r runner.Runner, st *state.State) error {
	cfg := a.Config.Profile
	blocks := a.Blocks()
	if err := profile.Check(blocks); err != nil {
		return fmt.Errorf("refusing to edit %s: %w", cfg.Path, err)
	}

	logger.Info("[INFO] ==> profile %s\n", cfg.Path)
	p, err := profile.Load(cfg.Path)
	if err != nil {
		return err
	}
	for _, b := range blocks {
		p.ApplyBlock(b)
	}

	if a.DryRun {
		logger.Info("[DRY-RUN] would write %s:\n", cfg.Path)
		for _, line := range p.Lines() {
			logger.Info("[DRY-RUN]   %s\n", line)
		}
	} else {
		if err := p.Save(); err != nil {
			return err
		}
		for _, b := range blocks {
			st.BlockApplied(b.Name, cfg.Path, b.Lines, a.Now())
		}
		logger.Info("[INFO] Updated %s\n", cfg.Path)

		if cfg.Spark.Archive != "" {
			if _, err := archive.Install(ctx, cfg.Spark.Archive, cfg.Spark.Home); err != nil {
				return err
			}
		}
		if _, err := profile.MakeExecutable(cfg.Spark.Home); err != nil {
			return err
		}
	}

	return shell.Reload(ctx, r, cfg.Shell, cfg.Path)
}
