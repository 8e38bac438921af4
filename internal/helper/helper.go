// Package helper implements the privileged companion invoked as
// `sudo <self> helper ...`. It trusts only the system-wide configuration
// file, validates every name it receives and enforces the configured allow
// lists before touching systemd or zerotier.
package helper

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"slices"
	"strings"

	"simplemenu/internal/config"
	"simplemenu/internal/errors"
	exe "simplemenu/internal/exec"
)

var (
	validUnitName  = regexp.MustCompile(`^[a-zA-Z0-9_.$S-]+$`)
	validNetworkID = regexp.MustCompile(`^[a-z0-9]+$`)
)

// ValidateUnitName rejects unit names with characters outside the systemd
// unit charset before they reach a command line.
func ValidateUnitName(name string) error {
	if !validUnitName.MatchString(name) {
		return errors.New(errors.ConfigInvalid, "invalid unit name").WithDetails(name)
	}
	return nil
}

// ValidateNetworkID rejects malformed zerotier network ids.
func ValidateNetworkID(id string) error {
	if !validNetworkID.MatchString(id) {
		return errors.New(errors.ConfigInvalid, "invalid zerotier network id").WithDetails(id)
	}
	return nil
}

// Helper executes privileged actions against the system-wide allow lists.
type Helper struct {
	cfg    *config.Config
	runner *exe.Runner
}

// New loads the system-wide configuration and builds the helper. A missing
// /etc configuration file is a hard error: the helper never falls back to
// user-writable files.
func New() (*Helper, error) {
	cfg, err := config.LoadHelper()
	if err != nil {
		return nil, err
	}
	return &Helper{cfg: cfg, runner: exe.New()}, nil
}

// NewWithConfig builds a helper on an already-loaded configuration.
func NewWithConfig(cfg *config.Config, runner *exe.Runner) *Helper {
	return &Helper{cfg: cfg, runner: runner}
}

func (h *Helper) unitActive(ctx context.Context, unit string) (bool, error) {
	result, err := h.runner.Run(ctx, "systemctl", []string{"is-active", "--quiet", unit}, exe.Options{CaptureOutput: true})
	if err != nil {
		return false, err
	}
	return result.ExitCode == 0, nil
}

// SystemdUnitToggle starts or stops a system unit. A unit outside the allow
// list is denied loudly: an error that exits the helper nonzero.
func (h *Helper) SystemdUnitToggle(ctx context.Context, unit string) error {
	if err := ValidateUnitName(unit); err != nil {
		return err
	}
	if !slices.Contains(h.cfg.HelperSystemdToggleAllowed, unit) {
		return errors.New(errors.NotAllowed, "unit is not allowed to be toggled").WithDetails(unit)
	}

	active, err := h.unitActive(ctx, unit)
	if err != nil {
		return err
	}
	verb := "start"
	if active {
		verb = "stop"
	}
	_, err = h.runner.Run(ctx, "systemctl", []string{verb, "--quiet", unit}, exe.Options{})
	return err
}

func (h *Helper) listNetworks(ctx context.Context) (string, error) {
	result, err := h.runner.Run(ctx, "zerotier-cli", []string{"listnetworks"}, exe.Options{CaptureOutput: true})
	if err != nil {
		return "", err
	}
	if result.ExitCode != 0 {
		return "", errors.New(errors.ExecFailed, "zerotier-cli listnetworks failed").
			WithDetails(fmt.Sprintf("exit code %d", result.ExitCode))
	}
	return result.Stdout, nil
}

// ZerotierNetworkStatus prints "started", "stopped" or "zerotier-one is not
// running" to out. A network outside the allow list is denied silently: no
// output, no error, exit zero.
func (h *Helper) ZerotierNetworkStatus(ctx context.Context, network string, out io.Writer) error {
	if err := ValidateNetworkID(network); err != nil {
		return err
	}
	if !slices.Contains(h.cfg.HelperZerotierAllowed, network) {
		return nil
	}

	active, err := h.unitActive(ctx, "zerotier-one")
	if err != nil {
		return err
	}
	if !active {
		fmt.Fprintln(out, "zerotier-one is not running")
		return nil
	}

	networks, err := h.listNetworks(ctx)
	if err != nil {
		return err
	}
	if strings.Contains(networks, network) {
		fmt.Fprintln(out, "started")
	} else {
		fmt.Fprintln(out, "stopped")
	}
	return nil
}

// ZerotierNetworkToggle joins the network when not a member and leaves it
// otherwise. Denial is silent, like the status query.
func (h *Helper) ZerotierNetworkToggle(ctx context.Context, network string) error {
	if err := ValidateNetworkID(network); err != nil {
		return err
	}
	if !slices.Contains(h.cfg.HelperZerotierAllowed, network) {
		return nil
	}

	networks, err := h.listNetworks(ctx)
	if err != nil {
		return err
	}
	verb := "join"
	if strings.Contains(networks, network) {
		verb = "leave"
	}
	result, err := h.runner.Run(ctx, "zerotier-cli", []string{verb, network}, exe.Options{CaptureOutput: true})
	if err != nil {
		return err
	}
	if result.ExitCode != 0 {
		return errors.New(errors.ExecFailed, "zerotier-cli "+verb+" failed").
			WithDetails(fmt.Sprintf("exit code %d", result.ExitCode))
	}
	return nil
}
