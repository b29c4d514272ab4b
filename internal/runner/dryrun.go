package runner

import (
	"context"

	"mac-provision/internal/logger"
)

// DryRun prints every command instead of running it and always succeeds.
// LookPath is delegated to Lookup so presence checks still reflect the real machine.
type DryRun struct {
	Lookup Runner
	Ran    []Command
	// Quiet suppresses the console line printed for each command.
	Quiet bool
}

// Run records cmd and prints it instead of executing it.
func (d *DryRun) Run(_ context.Context, cmd Command) (Result, error) {
	d.Ran = append(d.Ran, cmd)
	if !d.Quiet {
		logger.Info("[DRY-RUN] %s\n", cmd)
	}
	logger.Run.Infof("dry-run %s", cmd)
	return Result{Command: cmd.String()}, nil
}

// LookPath asks Lookup, or the real PATH when Lookup is nil.
func (d *DryRun) LookPath(name string) (string, error) {
	if d.Lookup == nil {
		return Exec{}.LookPath(name)
	}
	return d.Lookup.LookPath(name)
}
