// Package remote is the remote-host backend driver.
package remote

import (
	"context"
	"errors"

	backenddrv "github.com/yaegashi/octops/adapters/drivers/backend"
	"github.com/yaegashi/octops/domain/model"
	"github.com/yaegashi/octops/internal/logging"
)

const PlaybookUp = "provision/remote-up"

type driver struct {
	deps backenddrv.Deps
}

func init() {
	backenddrv.Register(model.BackendRemoteHost, New)
}

// New creates the remote-host driver.
func New(deps backenddrv.Deps) (backenddrv.Driver, error) {
	if deps.Runner == nil {
		return nil, errors.New("playbook runner is not configured")
	}
	return &driver{deps: deps}, nil
}

func (d *driver) Kind() model.BackendKind { return model.BackendRemoteHost }

// Dispatch prepares an existing host and returns its record.
func (d *driver) Dispatch(ctx context.Context, req model.ProvisioningRequest, params model.ParameterSet, opts model.DispatchOptions) ([]*model.HostRecord, error) {
	hostname := params.String("origin_ci_remote_hostname")
	if hostname == "" {
		return nil, errors.New("no remote hostname given")
	}
	if err := d.deps.Runner.Run(ctx, PlaybookUp, params, backenddrv.RunOptions(opts)); err != nil {
		return nil, err
	}
	if opts.DryRun {
		return nil, model.ErrDryRun
	}
	return []*model.HostRecord{{
		ID:              hostname,
		Backend:         model.BackendRemoteHost,
		OperatingSystem: req.OperatingSystem,
		Architecture:    req.Architecture,
		Flavor:          req.Flavor,
		Stage:           req.Stage,
		Groups:          backenddrv.Strings(params, "origin_ci_remote_groups"),
		Attributes:      map[string]string{model.AttrAddress: hostname},
		CreatedAt:       d.deps.Time(),
	}}, nil
}

// Teardown only forgets the host; the machine is owned by someone else.
func (d *driver) Teardown(ctx context.Context, hosts []*model.HostRecord, _ model.ParameterSet, opts model.DispatchOptions) error {
	for _, h := range hosts {
		logging.FromContext(ctx).Info(ctx, "releasing remote host", "host", h.ID)
	}
	if opts.DryRun {
		return model.ErrDryRun
	}
	return nil
}
