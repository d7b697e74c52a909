package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/yaegashi/octops/domain/model"
	"github.com/yaegashi/octops/usecase/inventory"
)

const inventoryTimeout = 30 * time.Second

func newCmdInventory() *cobra.Command {
	c := &cobra.Command{
		Use:     "inventory",
		Aliases: []string{"inv"},
		Short:   "Inspect recorded hosts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	c.AddCommand(newCmdInventoryList())
	c.AddCommand(newCmdInventoryGet())
	c.AddCommand(newCmdInventoryVM())
	c.AddCommand(newCmdInventoryExport())
	return c
}

func newCmdInventoryList() *cobra.Command {
	var backend, group string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded hosts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := &inventory.ListInput{Group: group}
			if backend != "" {
				kind, err := model.ParseBackendKind(backend)
				if err != nil {
					return err
				}
				in.Backend = kind
			}
			uc, closeStore, err := buildInventoryUseCase(cmd)
			if err != nil {
				return err
			}
			defer closeStore()
			ctx, cancel := context.WithTimeout(cmd.Context(), inventoryTimeout)
			defer cancel()
			out, err := uc.List(ctx, in)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			for _, h := range out.Hosts {
				if err := enc.Encode(h); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&backend, "backend", "", "Filter by backend ("+model.JoinValues(model.AllBackendKinds())+")")
	cmd.Flags().StringVar(&group, "group", "", "Filter by inventory group")
	return cmd
}

func newCmdInventoryGet() *cobra.Command {
	return &cobra.Command{
		Use:   "get <hostname>",
		Short: "Show a recorded host",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, closeStore, err := buildInventoryUseCase(cmd)
			if err != nil {
				return err
			}
			defer closeStore()
			ctx, cancel := context.WithTimeout(cmd.Context(), inventoryTimeout)
			defer cancel()
			out, err := uc.Get(ctx, &inventory.GetInput{Hostname: args[0]})
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out.Host)
		},
	}
}

func newCmdInventoryVM() *cobra.Command {
	return &cobra.Command{
		Use:   "vm",
		Short: "Show the active local VM",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, closeStore, err := buildInventoryUseCase(cmd)
			if err != nil {
				return err
			}
			defer closeStore()
			ctx, cancel := context.WithTimeout(cmd.Context(), inventoryTimeout)
			defer cancel()
			out, err := uc.ActiveVM(ctx)
			if err != nil {
				return err
			}
			if out.VM == nil {
				return model.ErrNoActiveVM
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out.VM)
		},
	}
}

func newCmdInventoryExport() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Rewrite the Ansible inventory file from recorded hosts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			uc, closeStore, err := buildInventoryUseCase(cmd)
			if err != nil {
				return err
			}
			defer closeStore()
			ctx, cleanup := withCmdRunLogger(cmd.Context(), "inventory.export", "")
			defer func() { cleanup(err) }()
			out, err := uc.Export(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d hosts\n", out.Hosts)
			return nil
		},
	}
}
