package main

import (
	"context"
	"errors"
	"os"
	"os/exec"
)

const (
	exitNotFound = 127
	exitUsage    = 2
)

// shellRunner runs a shell command with extra environment, returning its exit code.
type shellRunner func(ctx context.Context, command string, env []string) int

func runShell(ctx context.Context, command string, env []string) int {
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Env = append(os.Environ(), env...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return exitCode(cmd.Run())
}

func runCommand(ctx context.Context, command []string) int {
	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return exitCode(cmd.Run())
}

// exitCode maps the error from running a process to a shell style exit code.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code := exitErr.ExitCode(); code > 0 {
			return code
		}
		// Killed by a signal.
		return 1
	}
	return exitNotFound
}
