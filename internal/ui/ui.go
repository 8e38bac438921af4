// Package ui renders menu items through an interactive picker program and
// maps the picker's exit state back to a navigation action.
package ui

import (
	"context"
	"strings"
	"time"

	"simplemenu/internal/config"
	exe "simplemenu/internal/exec"
	"simplemenu/internal/item"
)

// Action is the navigation decision produced by one picker run.
type Action string

const (
	// ActionNone means the menu could not run; the navigation loop stops.
	ActionNone Action = ""
	// ActionSelected means the user picked an item.
	ActionSelected Action = "selected"
	// ActionRestart redraws the same menu with fresh item state.
	ActionRestart Action = "restart"
	// ActionBack returns to the parent menu.
	ActionBack Action = "back"
	// ActionQuit tears down the whole menu stack.
	ActionQuit Action = "quit"
)

// Outcome is the result of one picker run. Item is set only for
// ActionSelected, and may still be nil when the picker reported a selection
// that matches no rendered line.
type Outcome struct {
	Action Action
	Item   item.Item
}

// Picker shows the items once and reports the user's decision. A zero timeout
// waits forever; an expired timeout reports ActionRestart.
type Picker interface {
	Show(ctx context.Context, timeout time.Duration) (Outcome, error)
}

// New builds the picker selected by the configuration.
func New(cfg *config.Config, runner *exe.Runner, title, lastID string, items []item.Item) Picker {
	v := view{title: title, lastID: lastID, items: items, runner: runner}
	if cfg.Interface == config.InterfaceRofi {
		return &Rofi{view: v}
	}
	return &Fzf{view: v}
}

// view is the state shared by the picker adapters.
type view struct {
	title  string
	lastID string
	items  []item.Item
	runner *exe.Runner
}

// preselect returns the row index of the previously selected item, or 0.
func (v *view) preselect() int {
	for i, it := range v.items {
		if it.Identifier() == v.lastID {
			return i
		}
	}
	return 0
}

// input joins the rendered menu lines into the picker's stdin payload.
func (v *view) input() string {
	lines := make([]string, len(v.items))
	for i, it := range v.items {
		lines[i] = it.Text().Menu
	}
	return strings.Join(lines, "\n")
}

// byLine finds the item whose rendered line equals the picker's selection.
func (v *view) byLine(line string) item.Item {
	for _, it := range v.items {
		if it.Text().Menu == line {
			return it
		}
	}
	return nil
}
