package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rostercal/internal/config"
	appLog "rostercal/internal/log"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the rostercal config file",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init PATH",
		Short: "Write a default config file to PATH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if err := config.Save(path, config.DefaultConfig()); err != nil {
				return fmt.Errorf("config init: %w", err)
			}
			appLog.Info("default config written", "path", path)
			return nil
		},
	})

	return cmd
}
