// Package exec provides subprocess execution with context cancellation and
// timeouts for pickers, item actions and external item programs.
package exec

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"

	"simplemenu/internal/errors"
	"simplemenu/internal/logging"
)

// Options configures a single process run.
type Options struct {
	// Timeout bounds the run. Zero means no timeout.
	Timeout time.Duration

	// Stdin is fed to the process when non-empty or when FeedStdin is set.
	Stdin string

	// FeedStdin feeds Stdin even when it is empty, so the child sees an
	// immediately closed stdin instead of inheriting the parent's.
	FeedStdin bool

	// CaptureOutput collects stdout/stderr instead of inheriting the
	// parent's streams.
	CaptureOutput bool

	// Interactive attaches the parent's terminal to the child. Used for
	// pickers that draw on the controlling tty (fzf).
	Interactive bool
}

// Result holds the outcome of a process run. A nonzero exit code is data, not
// an error: the navigation state machine interprets it.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
	TimedOut bool
}

// Runner executes external commands.
type Runner struct{}

// New creates a Runner.
func New() *Runner {
	return &Runner{}
}

// Run executes command with args. The process is forcibly terminated when the
// timeout elapses (tolerating it having already exited); the result then
// carries TimedOut. Failures to spawn are errors; nonzero exits are not.
func (r *Runner) Run(ctx context.Context, command string, args []string, opts Options) (*Result, error) {
	start := time.Now()

	runCtx := ctx
	var cancel context.CancelFunc
	if opts.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, command, args...)
	// CommandContext kills the process on deadline; Cancel/WaitDelay keep the
	// kill tolerant of a child that is already gone.
	cmd.WaitDelay = time.Second

	if opts.FeedStdin || opts.Stdin != "" {
		cmd.Stdin = strings.NewReader(opts.Stdin)
	} else if opts.Interactive {
		cmd.Stdin = os.Stdin
	}

	result := &Result{}
	var stdout, stderr strings.Builder
	if opts.CaptureOutput {
		cmd.Stdout = &stdout
		if opts.Interactive {
			// Pickers draw their interface on the terminal while we read
			// the selection from stdout.
			cmd.Stderr = os.Stderr
		} else {
			cmd.Stderr = &stderr
		}
	} else {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}

	err := cmd.Run()
	result.Duration = time.Since(start)
	result.Stdout = stdout.String()
	result.Stderr = stderr.String()

	if runCtx.Err() == context.DeadlineExceeded {
		result.TimedOut = true
		logging.L().Info("process timed out",
			zap.String("command", command),
			zap.Duration("timeout", opts.Timeout))
		return result, nil
	}

	if exitErr, ok := err.(*exec.ExitError); ok {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}
	if err != nil {
		return result, errors.Wrap(err, errors.ExecFailed, "failed to run command").
			WithDetails(command + " " + strings.Join(args, " "))
	}
	return result, nil
}

// RunShell executes a command line through the shell. Systemd unit toggles use
// it to mirror `systemctl --user ...` invocations.
func (r *Runner) RunShell(ctx context.Context, commandLine string, opts Options) (*Result, error) {
	return r.Run(ctx, "sh", []string{"-c", commandLine}, opts)
}

// SelfPath returns the absolute path of the running binary. Items that need
// privileged operations re-invoke it under sudo as `<self> helper ...`.
func SelfPath() string {
	if path, err := os.Executable(); err == nil {
		return path
	}
	return os.Args[0]
}
