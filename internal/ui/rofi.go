package ui

import (
	"context"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	exe "simplemenu/internal/exec"
	"simplemenu/internal/item"
	"simplemenu/internal/logging"
)

// Rofi runs the rofi dmenu as picker. Custom keybindings map Control-r to
// restart and Control-q to quit; Escape exits rofi with code 1 and maps to
// back.
type Rofi struct {
	view
}

// Show renders the items through rofi and interprets its exit state.
func (r *Rofi) Show(ctx context.Context, timeout time.Duration) (Outcome, error) {
	apply := substitute
	if rawRequested() {
		apply = identity
	}
	renderLines(r.items, apply)

	args := []string{
		"-dmenu",
		"-tokenize",
		"-i",
		"-p", r.title,
		"-selected-row", strconv.Itoa(r.preselect()),
		"-kb-custom-1", "Control-r",
		"-kb-custom-2", "Control-q",
	}
	result, err := r.runner.Run(ctx, "rofi", args, exe.Options{
		Timeout:       timeout,
		Stdin:         r.input(),
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

	logging.L().Info("rofi finished", zap.Int("exit_code", result.ExitCode))
	return r.interpret(result.ExitCode, result.Stdout), nil
}

// interpret maps rofi's exit code and stdout to a navigation outcome.
func (r *Rofi) interpret(exitCode int, stdout string) Outcome {
	line := strings.TrimRight(stdout, " \t\r\n")
	var selected item.Item
	if line != "" {
		selected = r.byLine(line)
	}

	var action Action
	switch {
	case exitCode == 10:
		action = ActionRestart
	case exitCode == 11:
		return Outcome{Action: ActionQuit}
	case exitCode == 1:
		action = ActionBack
	case line != "":
		action = ActionSelected
	default:
		action = ActionBack
	}

	// Typed text with no matching line falls through rofi as a selection;
	// treat it as a redraw.
	if line != "" && selected == nil {
		action = ActionRestart
	}
	if action != ActionSelected {
		selected = nil
	}
	return Outcome{Action: action, Item: selected}
}
