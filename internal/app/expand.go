package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"templater/internal/archive"
	"templater/internal/debug"
	"templater/internal/store"
)

// ExpandOptions holds options for materializing a template.
type ExpandOptions struct {
	// Name is the template to expand.
	Name string
	// Path is the parent directory for the new project. Defaults to ".".
	Path string
	// As overrides the new project directory name. Defaults to Name.
	As string
	// Env are KEY=VALUE pairs added to the environment of recorded commands.
	Env []string
	// NoExec skips running the recorded commands.
	NoExec bool
	// StopOnError aborts the command batch on the first failure
	// instead of the default report-and-continue behavior.
	StopOnError bool
	// Stdout and Stderr receive command output. Defaults to the
	// process streams when nil.
	Stdout io.Writer
	Stderr io.Writer
}

// ExpandResult holds the result of template expansion.
type ExpandResult struct {
	// TargetDir is the directory the template was expanded into.
	TargetDir string
	// Commands are the per-command execution outcomes, in order.
	Commands []CommandResult
	// Warnings are non-fatal problems encountered along the way.
	Warnings []string
}

// FailedCommands returns how many recorded commands exited non-zero.
func (r *ExpandResult) FailedCommands() int {
	failed := 0
	for _, result := range r.Commands {
		if result.Err != nil {
			failed++
		}
	}
	return failed
}

// Expand materializes a stored template into a fresh directory and
// runs its recorded commands. Command failures are reported in the
// result, not returned as errors: the batch is best-effort unless
// StopOnError is set.
func Expand(ctx context.Context, st *store.Store, opts ExpandOptions) (*ExpandResult, error) {
	debug.DebugSection("[app] Expand workflow start")
	debug.DebugValue("[app] Name", opts.Name)

	for _, pair := range opts.Env {
		if !strings.Contains(pair, "=") {
			return nil, NewInvalidArgumentError(fmt.Sprintf("environment override must be KEY=VALUE: %q", pair))
		}
	}

	meta, err := st.ReadMetadata(opts.Name)
	if err != nil {
		return nil, err
	}

	parent := opts.Path
	if parent == "" {
		parent = "."
	}
	dirName := opts.As
	if dirName == "" {
		dirName = opts.Name
	}
	target := filepath.Join(parent, dirName)

	debug.DebugValue("[app] Target", target)

	artifact, err := st.OpenArtifact(opts.Name)
	if err != nil {
		return nil, err
	}
	defer artifact.Close()

	if err := archive.Unpack(artifact, target); err != nil {
		return nil, err
	}

	result := &ExpandResult{TargetDir: target}

	// Record the use before running commands; a failing command is
	// still a use. The update is best-effort and never fails the expand.
	meta.Used = time.Now().Unix()
	if err := st.RewriteMetadata(opts.Name, meta); err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("failed to update last-used time: %v", err))
	}

	if opts.NoExec || len(meta.Commands) == 0 {
		debug.Debug("[app] Expand workflow completed (no commands run)")
		return result, nil
	}

	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	result.Commands = runCommands(ctx, runnerOptions{
		Dir:         target,
		Commands:    meta.Commands,
		Env:         opts.Env,
		StopOnError: opts.StopOnError,
		Stdout:      stdout,
		Stderr:      stderr,
	})

	debug.Debug("[app] Expand workflow completed")
	return result, nil
}
