// Package systemd implements the item that toggles a systemd unit between
// running and stopped.
package systemd

import (
	"context"
	"strings"

	"go.uber.org/zap"

	exe "simplemenu/internal/exec"
	"simplemenu/internal/item"
	"simplemenu/internal/logging"
	"simplemenu/internal/token"
)

// Unit toggles a systemd unit. A value prefixed with "user::" targets the
// user manager and is toggled directly; system units go through the
// privileged helper under sudo.
type Unit struct {
	item.Base

	unit        string
	user        bool
	subcategory string
}

// NewUnit constructs a systemd unit item.
func NewUnit(deps *item.Deps, value string) *Unit {
	u := &Unit{Base: item.NewBase("systemdunit", deps, value)}
	if strings.HasPrefix(u.Value, "user"+u.Delimiter()) {
		u.user = true
		u.unit = strings.TrimPrefix(u.Value, "user"+u.Delimiter())
		u.subcategory = "User"
	} else {
		u.unit = u.Value
	}
	return u
}

func (u *Unit) systemctl(ctx context.Context, args ...string) (bool, error) {
	if u.user {
		args = append([]string{"--user"}, args...)
	}
	result, err := u.Deps.Runner.Run(ctx, "systemctl", args, exe.Options{CaptureOutput: true})
	if err != nil {
		return false, err
	}
	return result.ExitCode == 0, nil
}

func (u *Unit) active(ctx context.Context) (bool, error) {
	return u.systemctl(ctx, "is-active", "--quiet", u.unit)
}

func (u *Unit) exists(ctx context.Context) (bool, error) {
	return u.systemctl(ctx, "cat", u.unit)
}

// ProduceText shows the unit as a toggle action with its current run state.
// A unit the manager does not know stays invisible.
func (u *Unit) ProduceText(ctx context.Context) error {
	u.Texts.Type = token.TypeAction
	u.Texts.Category = "Systemd"
	u.Texts.Subcategory = u.subcategory

	exists, err := u.exists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		u.Texts.Text = ""
		return nil
	}

	u.Texts.Text = strings.ReplaceAll(u.unit, ".service", "") + " (toggle)"
	active, err := u.active(ctx)
	if err != nil {
		return err
	}
	if active {
		u.Texts.Status = "<running>"
	} else {
		u.Texts.Status = "<stopped>"
	}
	return nil
}

// Execute toggles the unit. User units are stopped or started directly;
// system units are delegated to the helper, which enforces its allow list.
func (u *Unit) Execute(ctx context.Context) error {
	exists, err := u.exists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		logging.L().Info("systemd unit does not exist", zap.String("unit", u.unit))
		return nil
	}
	if u.user {
		return u.toggleUser(ctx)
	}
	return u.toggleSystem(ctx)
}

func (u *Unit) toggleUser(ctx context.Context) error {
	active, err := u.active(ctx)
	if err != nil {
		return err
	}
	verb := "start"
	if active {
		verb = "stop"
	}
	_, err = u.systemctl(ctx, verb, "--quiet", u.unit)
	return err
}

func (u *Unit) toggleSystem(ctx context.Context) error {
	logging.L().Info("toggling system unit through helper", zap.String("unit", u.unit))
	args := []string{exe.SelfPath(), "helper", "--systemd-unit-toggle", u.unit}
	_, err := u.Deps.Runner.Run(ctx, "sudo", args, exe.Options{})
	return err
}
