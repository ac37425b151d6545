// Package hooks runs the user's post-save command.
package hooks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// Environment variables passed to the hook.
const (
	EnvFile      = "TASKER_FILE"
	EnvTaskCount = "TASKER_TASK_COUNT"
)

// Options describes one hook invocation.
type Options struct {
	Command   string // Shell command line; empty disables the hook
	TasksPath string // Task file that was just saved
	TaskCount int
	WorkDir   string // Defaults to the current directory
}

// Result describes what happened.
type Result struct {
	Ran      bool
	ExitCode int
	Output   string // Combined stdout and stderr, trimmed
}

// Invoke runs opts.Command through the platform shell. It does nothing if
// the command or the tasks path is empty. A non-zero exit is returned as an
// error together with the populated Result.
func Invoke(ctx context.Context, opts Options) (Result, error) {
	var result Result
	command := strings.TrimSpace(opts.Command)
	if command == "" || opts.TasksPath == "" {
		return result, nil
	}

	cmd := shellCommand(ctx, command)
	cmd.Dir = opts.WorkDir
	// Bound the wait for output pipes held open by orphaned children.
	cmd.WaitDelay = 2 * time.Second
	cmd.Env = append(os.Environ(),
		EnvFile+"="+opts.TasksPath,
		EnvTaskCount+"="+strconv.Itoa(opts.TaskCount),
	)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	result.Output = strings.TrimSpace(out.String())

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		result.Ran = true
		return result, nil
	case errors.As(err, &exitErr):
		result.Ran = true
		result.ExitCode = exitErr.ExitCode()
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, fmt.Errorf("hook interrupted: %w", ctxErr)
		}
		return result, fmt.Errorf("hook exited with code %d", result.ExitCode)
	default:
		return result, fmt.Errorf("start hook: %w", err)
	}
}

func shellCommand(ctx context.Context, command string) *exec.Cmd {
	if runtime.GOOS == "windows" {
		return exec.CommandContext(ctx, "cmd", "/C", command)
	}
	return exec.CommandContext(ctx, "sh", "-c", command)
}
