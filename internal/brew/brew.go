package brew

import (
	"context"
	"fmt"
	"path/filepath"

	"mac-provision/internal/config"
	"mac-provision/internal/runner"
)

// Brew drives the Homebrew CLI through a runner.
type Brew struct {
	Runner runner.Runner
	// Prefix is where brew lives when it is not on PATH yet (fresh install, unsourced shell).
	Prefix string
}

// New returns a Brew client using r.
func New(r runner.Runner, prefix string) *Brew {
	return &Brew{Runner: r, Prefix: prefix}
}

// lookup finds the brew binary on PATH, then under Prefix.
func (b *Brew) lookup() (string, bool) {
	if p, err := b.Runner.LookPath("brew"); err == nil {
		return p, true
	}
	if b.Prefix != "" {
		if p, err := b.Runner.LookPath(filepath.Join(b.Prefix, "bin", "brew")); err == nil {
			return p, true
		}
	}
	return "", false
}

// Binary returns the brew executable to invoke, falling back to plain "brew".
func (b *Brew) Binary() string {
	if p, ok := b.lookup(); ok {
		return p
	}
	return "brew"
}

// IsInstalled reports whether the brew binary can be found.
func (b *Brew) IsInstalled() bool {
	_, ok := b.lookup()
	return ok
}

func (b *Brew) run(ctx context.Context, args ...string) error {
	_, err := b.Runner.Run(ctx, runner.Command{Name: b.Binary(), Args: args})
	return err
}

// InstallSelf downloads the official install script and runs it with bash on the user's terminal,
// the same as typing /bin/bash -c "$(curl -fsSL <url>)". The installer asks for the admin password
// before creating the prefix, so it must be able to prompt.
func (b *Brew) InstallSelf(ctx context.Context, installURL string) error {
	res, err := b.Runner.Run(ctx, runner.Command{Name: "curl", Args: []string{"-fsSL", installURL}})
	if err != nil {
		return fmt.Errorf("failed to download the Homebrew installer: %w", err)
	}
	_, err = b.Runner.Run(ctx, runner.Command{
		Name:        "/bin/bash",
		Args:        []string{"-c", res.Stdout},
		Interactive: true,
	})
	return err
}

// EnsureInstalled installs brew only when the binary is absent. It reports whether an install ran.
func (b *Brew) EnsureInstalled(ctx context.Context, installURL string) (bool, error) {
	if b.IsInstalled() {
		return false, nil
	}
	if err := b.InstallSelf(ctx, installURL); err != nil {
		return false, err
	}
	return true, nil
}

// AnalyticsOff turns off Homebrew's usage reporting.
func (b *Brew) AnalyticsOff(ctx context.Context) error {
	return b.run(ctx, "analytics", "off")
}

// Tap adds a third-party repository of formulae and casks.
func (b *Brew) Tap(ctx context.Context, tap string) error {
	return b.run(ctx, "tap", tap)
}

// Update fetches the latest Homebrew and package index.
func (b *Brew) Update(ctx context.Context) error {
	return b.run(ctx, "update")
}

// Cleanup removes old versions and stale downloads.
func (b *Brew) Cleanup(ctx context.Context) error {
	return b.run(ctx, "cleanup")
}

// Install installs pkg. Installing an installed package is a no-op for brew.
func (b *Brew) Install(ctx context.Context, pkg config.PackageSpec) error {
	return b.run(ctx, withFlavor("install", pkg)...)
}

// Upgrade upgrades pkg. An up-to-date package is a no-op for brew.
func (b *Brew) Upgrade(ctx context.Context, pkg config.PackageSpec) error {
	return b.run(ctx, withFlavor("upgrade", pkg)...)
}

// Unlink removes the symlinks of formula pkg from the prefix.
func (b *Brew) Unlink(ctx context.Context, pkg config.PackageSpec) error {
	return b.run(ctx, "unlink", pkg.Name)
}

// Link symlinks the files of formula pkg into the prefix.
func (b *Brew) Link(ctx context.Context, pkg config.PackageSpec) error {
	return b.run(ctx, "link", pkg.Name)
}

// Relink removes then re-creates the symlinks exposing pkg's executables. Casks have no keg for
// brew link to work on, so a cask is reinstalled instead, which removes and re-creates its artifacts.
func (b *Brew) Relink(ctx context.Context, pkg config.PackageSpec) error {
	if pkg.IsCask() {
		return b.run(ctx, "reinstall", "--cask", pkg.Name)
	}
	if err := b.Unlink(ctx, pkg); err != nil {
		return err
	}
	return b.Link(ctx, pkg)
}

// Ensure runs install, upgrade and relink for pkg, stopping at the first failure.
func (b *Brew) Ensure(ctx context.Context, pkg config.PackageSpec) error {
	if err := b.Install(ctx, pkg); err != nil {
		return err
	}
	if err := b.Upgrade(ctx, pkg); err != nil {
		return err
	}
	return b.Relink(ctx, pkg)
}

func withFlavor(verb string, pkg config.PackageSpec) []string {
	if pkg.IsCask() {
		return []string{verb, "--cask", pkg.Name}
	}
	return []string{verb, pkg.Name}
}
