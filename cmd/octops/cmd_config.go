package main

import (
	"github.com/spf13/cobra"
)

// newCmdConfig returns a command that reads, validates and prints the
// effective configuration.
func newCmdConfig() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Read and validate configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			b, err := cfg.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	}
}
