package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yaegashi/octops/domain/model"
	"github.com/yaegashi/octops/usecase/provision"
)

func newCmdProvisionRemote() *cobra.Command {
	var (
		hostname, osName, arch, stage string
		destroy                       bool
		af                            automationFlags
	)
	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Prepare an existing remote host",
		Example: `  octops provision remote --hostname ci-host.example.com --stage build
  octops provision remote --hostname ci-host.example.com --destroy`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			if hostname == "" {
				return &model.UsageError{Option: "hostname", Msg: "--hostname is required"}
			}
			uc, closeStore, err := buildProvisionUseCase(cmd, false)
			if err != nil {
				return err
			}
			defer closeStore()
			w := cmd.OutOrStdout()

			if destroy {
				ctx, cleanup := withCmdRunLogger(cmd.Context(), "provision.remote.destroy", hostname)
				defer func() { cleanup(err) }()
				out, err := uc.RemoteDestroy(ctx, &provision.RemoteDestroyInput{Hostname: hostname, AutomationOptions: af.options()})
				if err != nil {
					return err
				}
				if out.DryRun {
					fmt.Fprintln(w, "dry run: nothing recorded")
					return nil
				}
				fmt.Fprintf(w, "removed %s\n", out.Hostname)
				return nil
			}

			in := &provision.RemoteInput{Hostname: hostname, AutomationOptions: af.options()}
			if in.OperatingSystem, err = model.ParseOperatingSystem(osName); err != nil {
				return err
			}
			if in.Architecture, err = model.ParseArchitecture(arch); err != nil {
				return err
			}
			if in.Stage, err = model.ParseStage(stage); err != nil {
				return err
			}

			ctx, cleanup := withCmdRunLogger(cmd.Context(), "provision.remote", hostname)
			defer func() { cleanup(err) }()
			out, err := uc.Remote(ctx, in)
			if err != nil {
				return err
			}
			if out.DryRun {
				fmt.Fprintln(w, "dry run: nothing recorded")
				return nil
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", out.Host.ID, out.Host.OperatingSystem, out.Host.Stage)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&hostname, "hostname", "", "Host to prepare (required)")
	f.StringVarP(&osName, "os", "o", string(model.OSCentOS), "Host operating system ("+model.JoinValues(model.AllOperatingSystems())+")")
	f.StringVar(&arch, "arch", string(model.ArchX86_64), "Host architecture ("+model.JoinValues(model.AllArchitectures())+")")
	f.StringVarP(&stage, "stage", "s", string(model.StageBare), "Image stage ("+model.JoinValues(model.AllStages())+")")
	f.BoolVarP(&destroy, "destroy", "d", false, "Forget the host")
	af.register(f)
	return cmd
}
