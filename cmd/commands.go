package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"mac-provision/internal/app"
)

// packagesCmd runs only the Homebrew provisioning sequence.
var packagesCmd = &cobra.Command{
	Use:   "packages",
	Short: "Install Homebrew, taps and packages without touching the shell profile",
	RunE: guarded(func(ctx context.Context, a *app.App) error {
		return a.Packages(ctx)
	}),
}

// profileCmd rewrites the managed profile blocks and reloads the profile.
var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Rewrite the managed shell profile blocks and reload the profile",
	RunE: guarded(func(ctx context.Context, a *app.App) error {
		return a.Profile(ctx)
	}),
}

// planCmd lists what a full run would do. It works on any OS.
var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the commands and profile blocks a full run would apply",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		a.Out = cmd.OutOrStdout()
		return a.Plan(cmd.Context())
	},
}

// statusCmd prints the record of the last run.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the steps and profile blocks recorded by the last run",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		a.Out = cmd.OutOrStdout()
		return a.Status()
	},
}

func init() {
	rootCmd.AddCommand(packagesCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(statusCmd)
}
