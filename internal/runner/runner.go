package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"mac-provision/internal/logger"
)

// Command describes one external command invocation.
type Command struct {
	Name string
	Args []string
	Env  []string // extra KEY=VALUE pairs appended to the current environment
	// Interactive attaches the terminal (stdin, stdout, stderr) instead of capturing output, so the
	// command can prompt, e.g. for a sudo password.
	Interactive bool
}

// String renders the command the way it would be typed in a shell.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Result holds the captured output and exit status of a command.
type Result struct {
	Command  string
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// Runner runs named commands and reports their exit status and output.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
	// LookPath reports the absolute path of an executable, or an error if it cannot be found.
	LookPath(name string) (string, error)
}

// ExitError is returned when a command ran but exited non-zero.
type ExitError struct {
	Command  string
	ExitCode int
	Stderr   string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s: exit status %d", e.Command, e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

// Exec runs commands on the local machine.
type Exec struct{}

// Run executes cmd and waits for it. Output is captured, not streamed.
func (Exec) Run(ctx context.Context, cmd Command) (Result, error) {
	start := time.Now()

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}
	var stdout, stderr strings.Builder
	if cmd.Interactive {
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
	} else {
		c.Stdout = &stdout
		c.Stderr = &stderr
	}

	logger.Debug("[DEBUG] Running command: %s\n", cmd)
	err := c.Run()

	result := Result{
		Command:  cmd.String(),
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode(err),
		Duration: time.Since(start),
	}
	logger.Run.WithField("exit_code", result.ExitCode).
		WithField("duration", result.Duration).
		Infof("ran %s", result.Command)

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return result, &ExitError{Command: result.Command, ExitCode: result.ExitCode, Stderr: result.Stderr}
		}
		return result, fmt.Errorf("failed to run %s: %w", result.Command, err)
	}
	return result, nil
}

// LookPath searches PATH for name.
func (Exec) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
