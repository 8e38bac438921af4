package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"simplemenu/internal/errors"
	"simplemenu/internal/menu"
	"simplemenu/internal/variants"
)

func newMenuCmd() *cobra.Command {
	var (
		title       string
		loopTimeout float64
		runOnce     bool
		types       []string
		values      []string
	)

	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Show a menu built from item specifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(types) != len(values) {
				return errors.New(errors.ConfigInvalid, "each item type must have one and only one value").
					WithDetails(fmt.Sprintf("%d types, %d values", len(types), len(values)))
			}
			for _, typ := range types {
				if !variants.Known(typ) {
					return errors.New(errors.UnknownItem, "invalid item type").WithDetails(typ)
				}
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			deps := variants.NewDeps(cfg)

			keepOpened := "1"
			if runOnce {
				keepOpened = "0"
			}
			value := strings.Join([]string{
				"title", title,
				"loop-timeout", strconv.FormatFloat(loopTimeout, 'f', -1, 64),
				"keep-opened", keepOpened,
			}, cfg.Delimiter())

			entries := make([]menu.Entry, len(types))
			for i := range types {
				entries[i] = menu.Entry{Variant: types[i], Value: values[i]}
			}

			root, err := menu.New(deps, value, entries)
			if err != nil {
				return err
			}
			return root.Execute(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&title, "title", "Menu", "menu title")
	cmd.Flags().Float64VarP(&loopTimeout, "loop-timeout", "l", 0,
		"run in loop mode, refreshing the menu every timeout seconds")
	cmd.Flags().BoolVarP(&runOnce, "run-once", "o", false, "close the menu after the first selection")
	cmd.Flags().StringArrayVarP(&types, "type", "t", nil,
		"item type, one of: "+strings.Join(variants.Names, ", "))
	cmd.Flags().StringArrayVarP(&values, "value", "v", nil, "item value, one per --type")
	cmd.MarkFlagRequired("type")
	cmd.MarkFlagRequired("value")
	return cmd
}
