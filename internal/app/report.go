package app

import (
	"context"
	"fmt"
	"time"

	"mac-provision/internal/brew"
	"mac-provision/internal/provisioner"
	"mac-provision/internal/runner"
	"mac-provision/internal/state"
)

// Plan prints every provisioning step with the commands it would run, then the profile blocks.
// It works on any OS and changes nothing.
func (a *App) Plan(ctx context.Context) error {
	a.resolve()

	d := &runner.DryRun{Lookup: a.Runner, Quiet: true}
	prov := provisioner.New(brew.New(d, a.Config.Brew.Prefix), a.Config.Brew)
	mark := 0
	prov.OnStepDone = func(step string) {
		fmt.Fprintf(a.Out, "%s:\n", step)
		for _, c := range d.Ran[mark:] {
			fmt.Fprintf(a.Out, "  %s\n", c)
		}
		mark = len(d.Ran)
	}
	if err := prov.Run(ctx); err != nil {
		return err
	}

	fmt.Fprintf(a.Out, "profile %s:\n", a.Config.Profile.Path)
	for _, b := range a.Blocks() {
		fmt.Fprintf(a.Out, "  %s\n", b.Marker)
		for _, line := range b.Lines {
			fmt.Fprintf(a.Out, "  %s\n", line)
		}
	}
	return nil
}

// Status prints the run record kept in the state file.
func (a *App) Status() error {
	st := state.LoadState(a.Config.StateFile)
	if st.LastRun.IsZero() {
		fmt.Fprintf(a.Out, "No recorded run in %s\n", a.Config.StateFile)
		return nil
	}

	fmt.Fprintf(a.Out, "Last run: %s\n", st.LastRun.Format(time.RFC1123))
	if len(st.Steps) > 0 {
		fmt.Fprintln(a.Out, "Steps:")
		for _, name := range st.StepNames() {
			fmt.Fprintf(a.Out, "  %-24s %s\n", name, st.Steps[name].CompletedAt.Format(time.RFC3339))
		}
	}
	if len(st.Blocks) > 0 {
		fmt.Fprintln(a.Out, "Profile blocks:")
		for _, name := range st.BlockNames() {
			b := st.Blocks[name]
			fmt.Fprintf(a.Out, "  %-24s %s (%d lines)\n", name, b.Profile, len(b.Lines))
		}
	}
	return nil
}
