// Package vagrant is the local-hypervisor backend driver.
package vagrant

import (
	"context"
	"errors"

	backenddrv "github.com/yaegashi/octops/adapters/drivers/backend"
	"github.com/yaegashi/octops/domain/model"
)

const (
	PlaybookUp   = "provision/vagrant-up"
	PlaybookDown = "provision/vagrant-down"
)

type driver struct {
	deps backenddrv.Deps
}

func init() {
	backenddrv.Register(model.BackendLocalHypervisor, New)
}

// New creates the local-hypervisor driver.
func New(deps backenddrv.Deps) (backenddrv.Driver, error) {
	if deps.Runner == nil {
		return nil, errors.New("playbook runner is not configured")
	}
	return &driver{deps: deps}, nil
}

func (d *driver) Kind() model.BackendKind { return model.BackendLocalHypervisor }

// Dispatch brings up the VM and returns its record.
func (d *driver) Dispatch(ctx context.Context, req model.ProvisioningRequest, params model.ParameterSet, opts model.DispatchOptions) ([]*model.HostRecord, error) {
	hostname := params.String("origin_ci_vagrant_hostname")
	if hostname == "" {
		return nil, errors.New("no VM hostname configured")
	}
	if err := d.deps.Runner.Run(ctx, PlaybookUp, params, backenddrv.RunOptions(opts)); err != nil {
		return nil, err
	}
	if opts.DryRun {
		return nil, model.ErrDryRun
	}
	rec := &model.HostRecord{
		ID:              hostname,
		Backend:         model.BackendLocalHypervisor,
		OperatingSystem: req.OperatingSystem,
		Architecture:    req.Architecture,
		Flavor:          req.Flavor,
		Stage:           req.Stage,
		Provider:        req.Provider,
		Groups:          model.DefaultGroups(),
		Attributes:      map[string]string{},
		CreatedAt:       d.deps.Time(),
	}
	if ip := params.String("origin_ci_vagrant_ip"); ip != "" {
		rec.Attributes[model.AttrAddress] = ip
	}
	return []*model.HostRecord{rec}, nil
}

// Teardown destroys the VM. params must carry the Vagrant home directory.
func (d *driver) Teardown(ctx context.Context, _ []*model.HostRecord, params model.ParameterSet, opts model.DispatchOptions) error {
	if err := d.deps.Runner.Run(ctx, PlaybookDown, params, backenddrv.RunOptions(opts)); err != nil {
		return err
	}
	if opts.DryRun {
		return model.ErrDryRun
	}
	return nil
}
