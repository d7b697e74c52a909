package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yaegashi/octops/domain/model"
	"github.com/yaegashi/octops/usecase/provision"
)

const vagrantLong = `Provisions a local VM using Vagrant.

The image stage selects how far along the sync, build and install
process the VM begins:

  - bare: bare operating system
  - base: RPM dependencies installed and configured, repositories cloned
  - install: artifacts and binaries built and installed from repositories

Only the bare stage is available for the vmware provider.`

const vagrantExample = `  # Provision a VM with default parameters (fedora, libvirt, install)
  octops provision vagrant

  # Provision a VM with custom parameters
  octops provision vagrant --os=centos --provider=virtualbox --stage=base

  # Tear down the currently running VM
  octops provision vagrant --destroy`

func newCmdProvisionVagrant() *cobra.Command {
	var (
		osName, provider, stage, arch, flavor, ip string
		destroy                                   bool
		af                                        automationFlags
	)
	cmd := &cobra.Command{
		Use:     "vagrant",
		Short:   "Bring up a local VM using Vagrant",
		Long:    vagrantLong,
		Example: vagrantExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			if destroy {
				return runVagrantDestroy(cmd, &af)
			}

			in := &provision.VagrantInput{NetworkAddress: ip, AutomationOptions: af.options()}
			if in.OperatingSystem, err = model.ParseOperatingSystem(osName, model.OSFedora, model.OSCentOS); err != nil {
				return err
			}
			if in.Provider, err = model.ParseProvider(provider); err != nil {
				return err
			}
			if in.Stage, err = model.ParseStage(stage, model.StageBare, model.StageBase, model.StageInstall); err != nil {
				return err
			}
			if in.Architecture, err = model.ParseArchitecture(arch); err != nil {
				return err
			}
			if in.Flavor, err = model.ParseFlavor(flavor); err != nil {
				return err
			}

			uc, closeStore, err := buildProvisionUseCase(cmd, false)
			if err != nil {
				return err
			}
			defer closeStore()

			ctx, cleanup := withCmdRunLogger(cmd.Context(), "provision.vagrant", uc.Env.VMHostname)
			defer func() { cleanup(err) }()

			out, err := uc.Vagrant(ctx, in)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if out.DryRun {
				fmt.Fprintln(w, "dry run: nothing recorded")
				return nil
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", out.VM.Hostname, out.VM.OperatingSystem, out.VM.Provider, out.VM.Stage)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&osName, "os", "o", string(model.OSFedora), "VM operating system (fedora|centos)")
	f.StringVarP(&provider, "provider", "p", string(model.ProviderLibvirt), "Virtualization provider ("+model.JoinValues(model.AllProviders())+")")
	f.StringVarP(&stage, "stage", "s", string(model.StageInstall), "VM image stage (bare|base|install)")
	f.StringVar(&arch, "arch", string(model.ArchX86_64), "VM architecture ("+model.JoinValues(model.AllArchitectures())+")")
	f.StringVar(&flavor, "flavor", string(model.FlavorMedium), "VM size class")
	f.StringVarP(&ip, "master-ip", "i", "10.245.2.2", "Desired IP of the VM")
	f.BoolVarP(&destroy, "destroy", "d", false, "Tear down the current VM")
	af.register(f)
	return cmd
}

func runVagrantDestroy(cmd *cobra.Command, af *automationFlags) (err error) {
	uc, closeStore, err := buildProvisionUseCase(cmd, false)
	if err != nil {
		return err
	}
	defer closeStore()

	ctx, cleanup := withCmdRunLogger(cmd.Context(), "provision.vagrant.destroy", uc.Env.VMHostname)
	defer func() { cleanup(err) }()

	out, err := uc.VagrantDestroy(ctx, &provision.VagrantDestroyInput{AutomationOptions: af.options()})
	if err != nil {
		return err
	}
	if out.DryRun {
		fmt.Fprintln(cmd.OutOrStdout(), "dry run: nothing recorded")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "destroyed %s\n", out.Hostname)
	return nil
}
