// Package zerotier implements the item that joins or leaves a zerotier
// network. Status queries and toggles go through the privileged helper under
// sudo.
package zerotier

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"simplemenu/internal/errors"
	exe "simplemenu/internal/exec"
	"simplemenu/internal/item"
	"simplemenu/internal/logging"
	"simplemenu/internal/token"
)

// Network toggles membership of one zerotier network. The value is exactly
// "<network-id>::<display-name>".
type Network struct {
	item.Base

	networkID   string
	networkName string
}

// NewNetwork constructs a zerotier network item.
func NewNetwork(deps *item.Deps, value string) (*Network, error) {
	n := &Network{Base: item.NewBase("zerotiernetwork", deps, value)}
	fields := strings.Split(n.Value, n.Delimiter())
	if len(fields) != 2 {
		return nil, errors.DecodeError(value, "zerotier network wants exactly network-id and name")
	}
	n.networkID = fields[0]
	n.networkName = fields[1]
	return n, nil
}

// ProduceText asks the helper for the network status. When the zerotier-one
// service is down the item stays invisible.
func (n *Network) ProduceText(ctx context.Context) error {
	args := []string{exe.SelfPath(), "helper", "--zerotier-network-get", n.networkID}
	result, err := n.Deps.Runner.Run(ctx, "sudo", args, exe.Options{CaptureOutput: true})
	if err != nil {
		return err
	}

	switch strings.TrimSpace(result.Stdout) {
	case "started":
		n.Texts.Status = "<running>"
		n.Texts.Text = n.networkName + " (toggle)"
	case "stopped":
		n.Texts.Status = "<stopped>"
		n.Texts.Text = n.networkName + " (toggle)"
	case "zerotier-one is not running":
		n.Texts.Text = ""
	}

	n.Texts.Type = token.TypeAction
	n.Texts.Category = "Zerotier"
	n.Texts.Subcategory = "network"
	return nil
}

// Execute toggles the network through the helper.
func (n *Network) Execute(ctx context.Context) error {
	logging.L().Info("toggling zerotier network",
		zap.String("network_id", n.networkID),
		zap.String("network_name", n.networkName))
	args := []string{exe.SelfPath(), "helper", "--zerotier-network-toggle", n.networkID}
	_, err := n.Deps.Runner.Run(ctx, "sudo", args, exe.Options{})
	return err
}
