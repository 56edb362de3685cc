package app

import (
	"context"
	"io"
	"os"
	"os/exec"

	"templater/internal/debug"
)

// CommandResult is the outcome of one recorded command.
type CommandResult struct {
	// Command is the shell command string that ran.
	Command string
	// Err is nil on a zero exit status.
	Err error
}

// runnerOptions holds everything needed to run a command batch.
type runnerOptions struct {
	// Dir is the working directory for every command.
	Dir string
	// Commands are shell command strings, run in order.
	Commands []string
	// Env are KEY=VALUE pairs appended to the inherited environment.
	Env []string
	// StopOnError aborts the batch after the first non-zero exit.
	StopOnError bool
	// Stdout and Stderr receive command output.
	Stdout io.Writer
	Stderr io.Writer
}

// runCommands executes recorded commands through "sh -c", each with
// the working directory set to the expanded project root, inheriting
// the process environment plus the given overrides. By default a
// failing command is recorded and the batch continues.
func runCommands(ctx context.Context, opts runnerOptions) []CommandResult {
	env := append(os.Environ(), opts.Env...)

	var results []CommandResult
	for _, command := range opts.Commands {
		debug.Debug("[app] Running command: %s", command)

		cmd := exec.CommandContext(ctx, "sh", "-c", command)
		cmd.Dir = opts.Dir
		cmd.Env = env
		cmd.Stdout = opts.Stdout
		cmd.Stderr = opts.Stderr

		err := cmd.Run()
		results = append(results, CommandResult{Command: command, Err: err})

		if err != nil {
			debug.Debug("[app] Command failed: %s: %v", command, err)
			if opts.StopOnError {
				break
			}
		}
	}
	return results
}
