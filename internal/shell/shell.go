package shell

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"

	"mac-provision/internal/logger"
	"mac-provision/internal/runner"
)

// profileFiles maps supported shells to the profile file a login shell reads on macOS.
var profileFiles = map[string]string{
	"zsh":  ".zshrc",
	"bash": ".bash_profile",
}

// Detect returns the user's shell from the SHELL environment value: "zsh" or "bash",
// defaulting to "zsh" (the macOS default) when unknown.
func Detect(shellEnv string) string {
	logger.Debug("[DEBUG] Detected shell environment: %s\n", shellEnv)
	switch filepath.Base(shellEnv) {
	case "zsh":
		return "zsh"
	case "bash":
		return "bash"
	}
	if shellEnv != "" {
		logger.Warn("[WARN] Unsupported shell %q, defaulting to zsh\n", shellEnv)
	}
	return "zsh"
}

// ProfilePath returns the profile file for shell under home. Unknown shells get .zshrc.
func ProfilePath(shell, home string) string {
	name, ok := profileFiles[shell]
	if !ok {
		logger.Warn("[WARN] Unknown shell '%s', defaulting to '.zshrc'\n", shell)
		name = ".zshrc"
	}
	return filepath.Join(home, name)
}

// Reload sources the profile in a child shell so syntax errors surface, then tells the user how to
// pick up the changes: a child process cannot change the environment of the session that started it.
func Reload(ctx context.Context, r runner.Runner, shell, path string) error {
	// The path is passed as $1 so it never needs quoting.
	res, err := r.Run(ctx, runner.Command{Name: shell, Args: []string{"-c", `. "$1"`, shell, path}})
	if err != nil {
		return fmt.Errorf("failed to source %s: %w", path, err)
	}
	if out := strings.TrimSpace(res.Stdout); out != "" {
		logger.Debug("[DEBUG] %s output: %s\n", path, out)
	}
	logger.Run.WithField("profile", path).Info("profile reloaded")

	if term.IsTerminal(int(os.Stdout.Fd())) {
		logger.Info("[INFO] Profile updated. Run `source %s` or open a new terminal to use it.\n", path)
	}
	return nil
}
