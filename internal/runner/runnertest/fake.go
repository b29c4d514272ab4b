// Package runnertest provides a recording fake runner for tests.
package runnertest

import (
	"context"
	"fmt"
	"os/exec"

	"mac-provision/internal/runner"
)

// Fake records every command and answers from canned tables.
type Fake struct {
	// Ran lists every command line passed to Run, in order.
	Ran []string
	// Commands holds the same commands as Ran, unrendered.
	Commands []runner.Command
	// Fail maps a full command line to the exit code it should fail with.
	Fail map[string]int
	// Output maps a full command line to the stdout it should return.
	Output map[string]string
	// Paths maps executable names to the path LookPath reports. Missing names are not found.
	Paths map[string]string
}

// Run records cmd and answers from Fail and Output.
func (f *Fake) Run(_ context.Context, cmd runner.Command) (runner.Result, error) {
	line := cmd.String()
	f.Ran = append(f.Ran, line)
	f.Commands = append(f.Commands, cmd)
	res := runner.Result{Command: line, Stdout: f.Output[line]}
	if code, ok := f.Fail[line]; ok {
		res.ExitCode = code
		return res, &runner.ExitError{Command: line, ExitCode: code, Stderr: "fake failure"}
	}
	return res, nil
}

// LookPath answers from Paths.
func (f *Fake) LookPath(name string) (string, error) {
	if p, ok := f.Paths[name]; ok {
		return p, nil
	}
	return "", fmt.Errorf("%s: %w", name, exec.ErrNotFound)
}
