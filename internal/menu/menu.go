// Package menu implements the navigable menu item: a composite that shows its
// children through a picker and drives the select/restart/back/quit loop.
package menu

import (
	"context"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"simplemenu/internal/errors"
	"simplemenu/internal/item"
	"simplemenu/internal/logging"
	"simplemenu/internal/token"
	"simplemenu/internal/ui"
)

// Entry is one child specification: a registry name plus its value. Menus
// that build their children internally set Make instead, bypassing the
// registry so their private item kinds stay out of user-facing names.
type Entry struct {
	Variant string
	Value   string
	Make    func() (item.Item, error)
}

// Menu is an executable item that presents child items. Executing it runs the
// navigation loop; children are re-instantiated from Entries on every redraw
// so their state is always fresh.
type Menu struct {
	item.Base

	Title       string
	KeepOpened  bool
	LoopTimeout time.Duration
	Entries     []Entry

	// SetItems rebuilds Entries just before each redraw. Specialized menus
	// assign it; nil keeps Entries as constructed.
	SetItems func(ctx context.Context) error

	// SetTitle adjusts Title just before each redraw.
	SetTitle func(ctx context.Context) error
}

// New constructs a menu whose children are given explicitly. The value may
// start with option pairs (title, keep-opened, loop-timeout).
func New(deps *item.Deps, value string, entries []Entry) (*Menu, error) {
	m, err := newMenu("menu", deps, value)
	if err != nil {
		return nil, err
	}
	m.Entries = entries
	return &m, nil
}

// NewBase builds the embedded menu state for specialized menu variants
// living in other packages.
func NewBase(variant string, deps *item.Deps, value string) (Menu, error) {
	return newMenu(variant, deps, value)
}

// newMenu builds the embedded menu state for a variant: decode the value,
// then consume the option pairs from its front.
func newMenu(variant string, deps *item.Deps, value string) (Menu, error) {
	m := Menu{Base: item.NewBase(variant, deps, value)}
	if err := m.parseOptions(); err != nil {
		return Menu{}, err
	}
	return m, nil
}

// parseOptions consumes leading option pairs from the decoded value and
// leaves the remainder in Value. Unknown leading tokens stop the scan.
func (m *Menu) parseOptions() error {
	m.Title = "Menu"
	m.KeepOpened = true
	m.LoopTimeout = 0

	delimiter := m.Delimiter()
	tokens := strings.Split(m.Value, delimiter)
	for len(tokens) > 0 {
		option := strings.ToLower(strings.TrimSpace(tokens[0]))
		if option != "title" && option != "keep-opened" && option != "loop-timeout" {
			break
		}
		if len(tokens) < 2 {
			return errors.DecodeError(m.Raw, "menu option "+option+" has no value")
		}
		value := tokens[1]
		switch option {
		case "title":
			m.Title = value
		case "keep-opened":
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return errors.DecodeError(m.Raw, "keep-opened wants an integer, got "+value)
			}
			m.KeepOpened = n != 0
		case "loop-timeout":
			seconds, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
			if err != nil {
				return errors.DecodeError(m.Raw, "loop-timeout wants a number, got "+value)
			}
			m.LoopTimeout = time.Duration(seconds * float64(time.Second))
		}
		tokens = tokens[2:]
	}
	m.Value = strings.Join(tokens, delimiter)
	return nil
}

// Execute runs the navigation loop. With a loop timeout the menu first cycles
// in monitoring mode, redrawing on every timeout; a selection there only
// stops the cycle. Afterwards the menu runs interactively until the user
// backs out, or after one selection when keep-opened is off.
func (m *Menu) Execute(ctx context.Context) error {
	selection := ""
	if m.LoopTimeout > 0 {
		// Monitoring mode keeps cycling until the user interacts; a
		// selection or escape drops into the interactive loop below.
		for {
			action, selected, err := m.show(ctx, selection, m.LoopTimeout)
			if err != nil {
				return err
			}
			selection = selected
			if action == ui.ActionBack || action == ui.ActionNone {
				break
			}
		}
	}

	for {
		action, selected, err := m.show(ctx, selection, 0)
		if err != nil {
			return err
		}
		selection = selected
		if !m.KeepOpened || action == ui.ActionBack || action == ui.ActionNone {
			return nil
		}
	}
}

// show performs one navigation step: clear the shared cache, rebuild the
// children, resolve their texts concurrently, run the picker and act on the
// outcome. It returns the action and the selected item's identifier, used to
// re-highlight the row on the next step.
func (m *Menu) show(ctx context.Context, lastID string, loopTimeout time.Duration) (ui.Action, string, error) {
	log := logging.L().With(zap.String("variant", m.Variant()), zap.String("title", m.Title))
	log.Debug("menu step start")

	m.Deps.Cache.Clear()
	if m.SetItems != nil {
		if err := m.SetItems(ctx); err != nil {
			return m.degrade(err)
		}
	}
	if m.SetTitle != nil {
		if err := m.SetTitle(ctx); err != nil {
			return m.degrade(err)
		}
	}

	children := make([]item.Item, 0, len(m.Entries))
	for _, entry := range m.Entries {
		var child item.Item
		var err error
		if entry.Make != nil {
			child, err = entry.Make()
		} else {
			child, err = m.Deps.New(entry.Variant, entry.Value)
		}
		if err != nil {
			return m.degrade(err)
		}
		children = append(children, child)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, child := range children {
		child := child
		g.Go(func() error {
			return item.ResolveText(gctx, child)
		})
	}
	if err := g.Wait(); err != nil {
		return m.degrade(err)
	}

	visible := make([]item.Item, 0, len(children))
	for _, child := range children {
		if child.Visible() {
			visible = append(visible, child)
		}
	}

	picker := ui.New(m.Deps.Config, m.Deps.Runner, m.Title, lastID, visible)
	outcome, err := picker.Show(ctx, loopTimeout)
	if err != nil {
		return ui.ActionNone, "", err
	}

	action := outcome.Action
	if action == ui.ActionSelected && loopTimeout > 0 {
		// In monitoring mode a selection only means "stop cycling"; the item
		// is not executed.
		action = ui.ActionBack
	}
	if action == ui.ActionQuit {
		return ui.ActionNone, "", errors.ErrQuit
	}

	selection := ""
	if outcome.Item != nil {
		selection = outcome.Item.Identifier()
	}
	log.Info("menu step finished",
		zap.String("action", string(action)),
		zap.String("selected", selection))

	if action == ui.ActionSelected && outcome.Item != nil &&
		outcome.Item.Text().Type != token.TypeNotification {
		if err := outcome.Item.Execute(ctx); err != nil {
			return ui.ActionNone, "", err
		}
	}
	return action, selection, nil
}

// degrade turns a recoverable child failure into a closed menu. Decode
// failures are the user's data, not a crash: log and stop this menu. Anything
// else propagates.
func (m *Menu) degrade(err error) (ui.Action, string, error) {
	if errors.IsType(err, errors.DecodeFailed) {
		logging.L().Error("could not read item text", zap.Error(err))
		return ui.ActionNone, "", nil
	}
	return ui.ActionNone, "", err
}
