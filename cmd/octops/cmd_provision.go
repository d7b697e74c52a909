package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/yaegashi/octops/usecase/provision"
)

// newCmdProvision returns the parent command for provisioning backends.
func newCmdProvision() *cobra.Command {
	c := &cobra.Command{
		Use:   "provision",
		Short: "Provision hosts for CI workloads",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	c.AddCommand(newCmdProvisionVagrant())
	c.AddCommand(newCmdProvisionDuffy())
	c.AddCommand(newCmdProvisionRemote())
	return c
}

// automationFlags are the playbook flags shared by provisioning commands.
type automationFlags struct {
	verbose int
	dryRun  bool
	debug   bool
}

func (f *automationFlags) register(fs *pflag.FlagSet) {
	fs.CountVarP(&f.verbose, "verbose", "v", "Increase ansible-playbook verbosity (repeatable, up to -vvvvv)")
	fs.BoolVar(&f.dryRun, "dry-run", false, "Run playbooks in check mode and record nothing")
	fs.BoolVar(&f.debug, "debug", false, "Run playbooks with the debug strategy")
}

func (f *automationFlags) options() provision.AutomationOptions {
	return provision.AutomationOptions{Verbosity: f.verbose, DryRun: f.dryRun, Debug: f.debug}
}
