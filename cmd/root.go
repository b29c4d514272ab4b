package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"mac-provision/internal/app"
	"mac-provision/internal/config"
	"mac-provision/internal/logger"
	"mac-provision/internal/platform"
)

// debug flag indicates whether debug logging should be enabled.
// It can be toggled via the `--debug` command-line flag.
var debug bool

// dryRun prints every command and profile edit without applying anything.
var dryRun bool

// configPath holds the path to a YAML file overriding the built-in defaults.
// It's passed via the `--config` or `-c` flag.
var configPath string

// logFile and statePath override the run log and state file locations from the config.
var (
	logFile   string
	statePath string
)

// rootCmd is the base command for the CLI tool `mac-provision`.
// Run without a subcommand it performs the full provisioning run.
var rootCmd = &cobra.Command{
	Use:   "mac-provision",
	Short: "Provision a macOS developer machine with Homebrew and a managed shell profile",
	Long: `mac-provision installs Homebrew and a fixed set of packages, then rewrites the
Ruby, Python, Spark and PySpark blocks of your shell profile and reloads it.
On any OS other than macOS it reports a skip message and changes nothing.`,
	SilenceUsage:  true,
	SilenceErrors: true,

	// PersistentPreRun is a hook that runs before any subcommand.
	// Here, we initialize the logger based on the debug flag.
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(debug)
	},
	RunE: guarded(func(ctx context.Context, a *app.App) error {
		return a.Run(ctx)
	}),
}

// guarded checks the OS before loading anything, so an unsupported machine gets the skip message
// and exit status 0 even when the config or home directory could not be loaded.
func guarded(run func(context.Context, *app.App) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if goos := platform.Detect(); !platform.Supported(goos) {
			app.Skip(cmd.OutOrStdout(), goos)
			return nil
		}
		a, err := newApp()
		if err != nil {
			return err
		}
		a.Out = cmd.OutOrStdout()
		return run(cmd.Context(), a)
	}
}

// newApp loads the configuration and applies the command-line overrides.
func newApp() (*app.App, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if logFile != "" {
		cfg.LogFile = logFile
	}
	if statePath != "" {
		cfg.StateFile = statePath
	}

	a, err := app.New(cfg)
	if err != nil {
		return nil, err
	}
	a.DryRun = dryRun
	return a, nil
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVar(&debug, "debug", false, "Enable debug logging")
	flags.BoolVar(&dryRun, "dry-run", false, "Print commands and profile changes without applying them")
	flags.StringVarP(&configPath, "config", "c", "", "Path to a configuration file overriding the defaults")
	flags.StringVar(&logFile, "log-file", "", "Run log file (default mac-provision-YYYY-MM-DD.log)")
	flags.StringVar(&statePath, "state", "", "State file recording completed steps (default state.json)")
}

// Execute runs the CLI. Any error is printed and the process exits with status 1.
// Interrupts cancel the context, which stops the running command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Error("[ERROR] %v\n", err)
		stop()
		os.Exit(1)
	}
}
