package provision

import (
	"context"
	"errors"
	"fmt"

	"github.com/yaegashi/octops/domain/model"
)

// VagrantInput represents a request to bring up the local VM.
type VagrantInput struct {
	OperatingSystem model.OperatingSystem `json:"os"`
	Provider        model.Provider        `json:"provider"`
	Stage           model.Stage           `json:"stage"`
	Architecture    model.Architecture    `json:"arch"`
	Flavor          model.Flavor          `json:"flavor"`
	NetworkAddress  string                `json:"ip"`
	AutomationOptions
}

// VagrantOutput reports the VM that was brought up.
type VagrantOutput struct {
	Host   *model.HostRecord `json:"host,omitempty"`
	VM     *model.ActiveVM   `json:"vm,omitempty"`
	DryRun bool              `json:"dry_run"`
}

// Vagrant provisions the local-hypervisor VM and records it as active.
func (u *UseCase) Vagrant(ctx context.Context, in *VagrantInput) (*VagrantOutput, error) {
	if in == nil {
		return nil, fmt.Errorf("missing input")
	}
	req := model.ProvisioningRequest{
		Backend:         model.BackendLocalHypervisor,
		OperatingSystem: in.OperatingSystem,
		Architecture:    in.Architecture,
		Flavor:          in.Flavor,
		Stage:           in.Stage,
		Provider:        in.Provider,
		NetworkAddress:  in.NetworkAddress,
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	current, err := u.activeVM(ctx)
	switch {
	case err == nil:
		return nil, &model.UsageError{Msg: fmt.Sprintf("a VM is already active (%s); tear it down first with --destroy", current.Hostname)}
	case !errors.Is(err, model.ErrNoActiveVM):
		return nil, err
	}

	params := model.Translate(req, u.Env)
	hostname := params.String("origin_ci_vagrant_hostname")
	transition(ctx, hostname, model.VMAbsent, model.VMProvisioning)
	hosts, err := u.DispatchPort.Dispatch(ctx, req, params, in.dispatchOptions()...)
	if errors.Is(err, model.ErrDryRun) {
		transition(ctx, hostname, model.VMProvisioning, model.VMAbsent)
		return &VagrantOutput{DryRun: true}, nil
	}
	if err != nil {
		transition(ctx, hostname, model.VMProvisioning, model.VMAbsent)
		return nil, err
	}
	if len(hosts) != 1 {
		return nil, fmt.Errorf("expected one VM from the local hypervisor, got %d", len(hosts))
	}

	host := hosts[0]
	vm := &model.ActiveVM{
		Hostname:        host.ID,
		OperatingSystem: req.OperatingSystem,
		Provider:        req.Provider,
		Stage:           req.Stage,
		Architecture:    req.Architecture,
		Flavor:          req.Flavor,
		NetworkAddress:  req.NetworkAddress,
		State:           model.VMActive,
		CreatedAt:       u.now(),
	}
	if err := u.record(ctx, hosts, vm); err != nil {
		return nil, err
	}
	transition(ctx, host.ID, model.VMProvisioning, model.VMActive)
	return &VagrantOutput{Host: host, VM: vm}, nil
}

// VagrantDestroyInput represents a request to tear down the local VM.
type VagrantDestroyInput struct {
	AutomationOptions
}

// VagrantDestroyOutput reports the VM that was torn down.
type VagrantDestroyOutput struct {
	Hostname string `json:"hostname,omitempty"`
	DryRun   bool   `json:"dry_run"`
}

// VagrantDestroy tears down the active VM. It returns model.ErrNoActiveVM
// when none is recorded.
func (u *UseCase) VagrantDestroy(ctx context.Context, in *VagrantDestroyInput) (*VagrantDestroyOutput, error) {
	if in == nil {
		in = &VagrantDestroyInput{}
	}
	vm, err := u.activeVM(ctx)
	if err != nil {
		return nil, err
	}

	host := &model.HostRecord{
		ID:              vm.Hostname,
		Backend:         model.BackendLocalHypervisor,
		OperatingSystem: vm.OperatingSystem,
		Provider:        vm.Provider,
		Stage:           vm.Stage,
	}
	transition(ctx, vm.Hostname, model.VMActive, model.VMDestroying)
	err = u.DispatchPort.Teardown(ctx, model.BackendLocalHypervisor, []*model.HostRecord{host}, model.TeardownParameters(u.Env), in.dispatchOptions()...)
	if errors.Is(err, model.ErrDryRun) {
		transition(ctx, vm.Hostname, model.VMDestroying, model.VMActive)
		return &VagrantDestroyOutput{Hostname: vm.Hostname, DryRun: true}, nil
	}
	if err != nil {
		transition(ctx, vm.Hostname, model.VMDestroying, model.VMActive)
		return nil, err
	}
	if err := u.remove(ctx, []string{vm.Hostname}, true); err != nil {
		return nil, err
	}
	transition(ctx, vm.Hostname, model.VMDestroying, model.VMAbsent)
	return &VagrantDestroyOutput{Hostname: vm.Hostname}, nil
}
