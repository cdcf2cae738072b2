// Package executor mediates between AI-suggested command text and actual
// process execution. Every execution path returns the same Result triple;
// command-level failures are classified into it instead of being raised, so
// call sites get a uniform ran-ok / ran-failed / user-declined outcome.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/chalbe-cli/chalbe/internal/ui"
)

// timeoutStatus is the conventional exit status for a timed-out command.
const timeoutStatus = 124

// Result is the normalized outcome of a command execution. Status is
// always defined; Stdout and Stderr are empty strings, never absent.
type Result struct {
	Status int
	Stdout string
	Stderr string
}

// Options controls a single Run call.
type Options struct {
	// Capture buffers stdout/stderr into the Result instead of passing
	// them through to the terminal.
	Capture bool

	// CheckExit logs a non-zero exit as an error. The Result carries the
	// real exit status either way.
	CheckExit bool

	// Timeout kills the command after the given duration, reporting
	// status 124. Zero means no limit.
	Timeout time.Duration
}

// ConfirmFunc answers a yes/no question with the given default.
type ConfirmFunc func(message string, defaultYes bool) (bool, error)

// Executor runs shell commands with an interactive confirmation gate.
type Executor struct {
	confirm ConfirmFunc
	out     io.Writer
	logger  *zap.Logger
}

// Option configures an Executor.
type Option func(*Executor)

// WithConfirm replaces the interactive confirmation collaborator.
func WithConfirm(fn ConfirmFunc) Option {
	return func(e *Executor) { e.confirm = fn }
}

// WithOutput redirects the executor's own messages (suggested command,
// abort notice).
func WithOutput(w io.Writer) Option {
	return func(e *Executor) { e.out = w }
}

// WithLogger sets the executor logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Executor) { e.logger = logger }
}

// New returns an Executor that prompts on the terminal and writes to
// stdout.
func New(opts ...Option) *Executor {
	e := &Executor{
		confirm: ui.Confirm,
		out:     os.Stdout,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes command through the platform shell. Full shell features
// (pipes, redirection) are available since suggestions may use them. Run
// never fails: not-found, permission, timeout and unexpected errors are
// all folded into the Result.
func (e *Executor) Run(command string, opts Options) Result {
	e.logger.Debug("running command", zap.String("command", command))

	shell, args := shellFor(command)

	ctx := context.Background()
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, shell, args...)

	var stdout, stderr bytes.Buffer
	if opts.Capture {
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	} else {
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		res.Status = 0

	case ctx.Err() == context.DeadlineExceeded:
		msg := fmt.Sprintf("Command timed out after %s: %s", opts.Timeout, command)
		e.logger.Error(msg)
		res.Status = timeoutStatus
		if res.Stderr != "" {
			res.Stderr = msg + "\n" + res.Stderr
		} else {
			res.Stderr = msg
		}

	case errors.As(err, &exitErr):
		code := exitErr.ExitCode()
		if code < 0 {
			// Killed by a signal other than our own timeout.
			res.Status = 1
			res.Stderr = fmt.Sprintf("Command terminated by signal: %s", command)
			e.logger.Error("command terminated by signal", zap.String("command", command))
			break
		}
		res.Status = code
		if opts.CheckExit {
			e.logger.Error("command failed",
				zap.String("command", command),
				zap.Int("status", code),
				zap.String("stderr", res.Stderr))
		}

	case errors.Is(err, exec.ErrNotFound):
		msg := fmt.Sprintf("Command not found: %q. Check if it's installed and in your PATH.", firstWord(command))
		e.logger.Error(msg)
		res.Status = 1
		res.Stderr = msg

	case errors.Is(err, os.ErrPermission):
		msg := fmt.Sprintf("Permission denied to execute command or shell: %q.", command)
		e.logger.Error(msg)
		res.Status = 1
		res.Stderr = msg

	default:
		msg := fmt.Sprintf("An unexpected error occurred while running command %q: %v", command, err)
		e.logger.Error(msg)
		res.Status = 1
		res.Stderr = msg
	}

	return res
}

// ConfirmAndRun displays the command and asks for confirmation before
// executing it with output captured. A declined confirmation is a normal
// outcome: status 0 with "Aborted by user" in stderr. A broken
// confirmation mechanism yields (1, "", message).
func (e *Executor) ConfirmAndRun(command string, skipConfirm bool) Result {
	cyan := color.New(color.FgCyan)
	cyan.Fprint(e.out, "Suggested command: ")
	fmt.Fprintln(e.out, command)

	if !skipConfirm {
		confirmed, err := e.confirm("Execute this command?", false)
		if err != nil {
			msg := fmt.Sprintf("Error during confirmation prompt: %v", err)
			e.logger.Error(msg)
			return Result{Status: 1, Stderr: msg}
		}
		if !confirmed {
			fmt.Fprintln(e.out, "Aborted by user.")
			return Result{Status: 0, Stderr: "Aborted by user"}
		}
	}

	return e.Run(command, Options{Capture: true})
}

// shellFor resolves the platform shell and its argument form, preferring
// $SHELL on Unix.
func shellFor(command string) (string, []string) {
	if runtime.GOOS == "windows" {
		return "cmd", []string{"/C", command}
	}
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
	}
	return shell, []string{"-c", command}
}

func firstWord(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return command
	}
	return fields[0]
}
