package ui

import (
	"context"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	exe "simplemenu/internal/exec"
	"simplemenu/internal/logging"
)

// Fzf runs fzf as picker for terminal sessions. Key decisions travel on
// stdout through --expect: the first output line names the pressed key, the
// second carries the selection.
type Fzf struct {
	view
}

// Show renders the items through fzf and interprets its output.
func (f *Fzf) Show(ctx context.Context, timeout time.Duration) (Outcome, error) {
	apply := substitute
	if rawRequested() || onConsole() {
		apply = identity
	}
	renderLines(f.items, apply)

	args := []string{
		"--no-sort",
		"--no-multi",
		"--ignore-case",
		"--bind", "result:pos(" + strconv.Itoa(f.preselect()+1) + ")",
		"--header", f.title + " >",
		"--expect=f5,esc,ctrl-r,enter,ctrl-q",
	}
	result, err := f.runner.Run(ctx, "fzf", args, exe.Options{
		Timeout:       timeout,
		Stdin:         f.input(),
		FeedStdin:     true,
		CaptureOutput: true,
		Interactive:   true,
	})
	if err != nil {
		return Outcome{}, err
	}
	if result.TimedOut {
		return Outcome{Action: ActionRestart}, nil
	}

	logging.L().Info("fzf finished", zap.Int("exit_code", result.ExitCode))
	return f.interpret(result.Stdout), nil
}

// interpret maps fzf's stdout to a navigation outcome. The exit code is not
// consulted: with --expect every decision shows up in the output.
func (f *Fzf) interpret(stdout string) Outcome {
	var lines []string
	if stdout != "" {
		lines = strings.Split(strings.TrimRight(stdout, "\n"), "\n")
	}

	var key, selection string
	haveSelection := false
	if len(lines) > 0 {
		key = strings.TrimRight(lines[0], " \t\r")
		if len(lines) == 2 {
			// Pressing enter before fzf has read its input produces a key
			// line with no selection line.
			selection = strings.TrimRight(lines[1], " \t\r")
			haveSelection = true
		}
	}

	switch {
	case key == "ctrl-r" || key == "f5":
		return Outcome{Action: ActionRestart}
	case key == "ctrl-q":
		return Outcome{Action: ActionQuit}
	case key == "esc":
		return Outcome{Action: ActionBack}
	case haveSelection && selection != "":
		return Outcome{Action: ActionSelected, Item: f.byLine(selection)}
	case !haveSelection:
		return Outcome{Action: ActionRestart}
	default:
		return Outcome{Action: ActionBack}
	}
}
