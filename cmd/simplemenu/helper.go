package main

import (
	"github.com/spf13/cobra"

	"simplemenu/internal/errors"
	"simplemenu/internal/helper"
)

func newHelperCmd() *cobra.Command {
	var (
		systemdUnitToggle     string
		zerotierNetworkGet    string
		zerotierNetworkToggle string
	)

	cmd := &cobra.Command{
		Use:   "helper",
		Short: "Privileged helper, meant to be invoked through sudo",
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := helper.New()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			switch {
			case systemdUnitToggle != "":
				return h.SystemdUnitToggle(ctx, systemdUnitToggle)
			case zerotierNetworkGet != "":
				return h.ZerotierNetworkStatus(ctx, zerotierNetworkGet, cmd.OutOrStdout())
			case zerotierNetworkToggle != "":
				return h.ZerotierNetworkToggle(ctx, zerotierNetworkToggle)
			default:
				return errors.New(errors.ConfigInvalid, "no helper action requested")
			}
		},
	}

	cmd.Flags().StringVar(&systemdUnitToggle, "systemd-unit-toggle", "", "toggle a system unit")
	cmd.Flags().StringVar(&zerotierNetworkGet, "zerotier-network-get", "", "print the status of a zerotier network")
	cmd.Flags().StringVar(&zerotierNetworkToggle, "zerotier-network-toggle", "", "join or leave a zerotier network")
	return cmd
}
