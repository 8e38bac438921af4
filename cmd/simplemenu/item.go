package main

import (
	"github.com/spf13/cobra"

	"simplemenu/internal/variants"
)

func newItemCmd() *cobra.Command {
	var (
		typeName string
		value    string
	)

	cmd := &cobra.Command{
		Use:   "item",
		Short: "Execute a single item without showing a menu",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			deps := variants.NewDeps(cfg)
			it, err := deps.New(typeName, value)
			if err != nil {
				return err
			}
			return it.Execute(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&typeName, "type", "t", "", "item type")
	cmd.Flags().StringVarP(&value, "value", "v", "", "item value")
	cmd.MarkFlagRequired("type")
	cmd.MarkFlagRequired("value")
	return cmd
}
