package backenddrv

import (
	"context"
	"fmt"

	"github.com/yaegashi/octops/domain/model"
)

// dispatchPortAdapter implements model.DispatchPort backed by backend drivers.
type dispatchPortAdapter struct {
	deps Deps
}

// GetDispatchPort returns a DispatchPort that selects the driver by backend kind.
func GetDispatchPort(deps Deps) model.DispatchPort {
	return &dispatchPortAdapter{deps: deps}
}

func (a *dispatchPortAdapter) driver(kind model.BackendKind) (Driver, error) {
	factory, exists := GetDriverFactory(kind)
	if !exists {
		return nil, fmt.Errorf("%w: %s", model.ErrUnknownBackend, kind)
	}
	d, err := factory(a.deps)
	if err != nil {
		return nil, fmt.Errorf("failed to create driver %s: %w", kind, err)
	}
	return d, nil
}

func (a *dispatchPortAdapter) Dispatch(ctx context.Context, req model.ProvisioningRequest, params model.ParameterSet, opts ...model.DispatchOption) ([]*model.HostRecord, error) {
	d, err := a.driver(req.Backend)
	if err != nil {
		return nil, err
	}
	return d.Dispatch(ctx, req, params, model.ApplyDispatchOptions(opts...))
}

func (a *dispatchPortAdapter) Teardown(ctx context.Context, backend model.BackendKind, hosts []*model.HostRecord, params model.ParameterSet, opts ...model.DispatchOption) error {
	d, err := a.driver(backend)
	if err != nil {
		return err
	}
	return d.Teardown(ctx, hosts, params, model.ApplyDispatchOptions(opts...))
}
