package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yaegashi/octops/domain/model"
	"github.com/yaegashi/octops/usecase/provision"
)

func newCmdProvisionDuffy() *cobra.Command {
	c := &cobra.Command{
		Use:   "duffy",
		Short: "Provision hosts leased from Duffy",
		Long: `Provision hosts leased from the Duffy service.

Duffy provisioning is supported for machines within the ci.centos.org
environment.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	c.AddCommand(newCmdProvisionDuffyAllInOne())
	c.AddCommand(newCmdProvisionDuffyRelease())
	return c
}

func newCmdProvisionDuffyAllInOne() *cobra.Command {
	var (
		osName, arch, flavor, stage string
		skipInventory               bool
		af                          automationFlags
	)
	cmd := &cobra.Command{
		Use:   "all-in-one",
		Short: "Provision a Duffy host for an All-In-One deployment",
		Long: `Provision a Duffy host for an All-In-One deployment.

An All-In-One deployment of OpenShift uses one host on which all cluster
components are provisioned.`,
		Example: `  octops provision duffy all-in-one --arch=x86_64 --flavor=medium`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			in := &provision.DuffyInput{SkipInventoryLookup: skipInventory, AutomationOptions: af.options()}
			if in.OperatingSystem, err = model.ParseOperatingSystem(osName, model.OSCentOS); err != nil {
				return err
			}
			if in.Architecture, err = model.ParseArchitecture(arch); err != nil {
				return err
			}
			if in.Flavor, err = model.ParseFlavor(flavor); err != nil {
				return err
			}
			if in.Stage, err = model.ParseStage(stage); err != nil {
				return err
			}

			uc, closeStore, err := buildProvisionUseCase(cmd, true)
			if err != nil {
				return err
			}
			defer closeStore()

			ctx, cleanup := withCmdRunLogger(cmd.Context(), "provision.duffy", string(in.Architecture)+"/"+string(in.Flavor))
			defer func() { cleanup(err) }()

			out, err := uc.Duffy(ctx, in)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if out.DryRun {
				fmt.Fprintln(w, "dry run: nothing recorded")
				return nil
			}
			fmt.Fprintf(w, "lease: %s\n", out.LeaseID)
			fmt.Fprintf(w, "hosts: %s\n", strings.Join(out.Hostnames, " "))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&osName, "os", "o", string(model.OSCentOS), "Host operating system (centos)")
	f.StringVarP(&arch, "arch", "a", string(model.ArchX86_64), "Host architecture ("+model.JoinValues(model.AllArchitectures())+")")
	f.StringVarP(&flavor, "flavor", "f", string(model.FlavorXramMedium), "Host flavor ("+model.JoinValues(model.AllFlavors())+")")
	f.StringVarP(&stage, "stage", "s", string(model.StageBare), "Image stage (bare)")
	f.BoolVar(&skipInventory, "skip-inventory", false, "Do not query the Duffy inventory for host addresses")
	af.register(f)
	return cmd
}

func newCmdProvisionDuffyRelease() *cobra.Command {
	var (
		leaseID string
		af      automationFlags
	)
	cmd := &cobra.Command{
		Use:   "release",
		Short: "Return leased Duffy hosts",
		Long:  "Return leased Duffy hosts. Without --lease every recorded lease is released.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			uc, closeStore, err := buildProvisionUseCase(cmd, true)
			if err != nil {
				return err
			}
			defer closeStore()

			ctx, cleanup := withCmdRunLogger(cmd.Context(), "provision.duffy.release", leaseID)
			defer func() { cleanup(err) }()

			out, err := uc.DuffyRelease(ctx, &provision.DuffyReleaseInput{LeaseID: leaseID, AutomationOptions: af.options()})
			if out == nil {
				return err
			}
			w := cmd.OutOrStdout()
			if out.DryRun {
				fmt.Fprintf(w, "dry run: would release %s\n", strings.Join(out.LeaseIDs, " "))
				fmt.Fprintf(w, "hosts: %s\n", strings.Join(out.Hostnames, " "))
				return err
			}
			if len(out.LeaseIDs) > 0 {
				fmt.Fprintf(w, "released: %s\n", strings.Join(out.LeaseIDs, " "))
				fmt.Fprintf(w, "hosts: %s\n", strings.Join(out.Hostnames, " "))
			}
			return err
		},
	}
	cmd.Flags().StringVar(&leaseID, "lease", "", "Release only this lease (ssid)")
	af.register(cmd.Flags())
	return cmd
}
