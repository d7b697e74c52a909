package backenddrv

import (
	"context"
	"time"

	"github.com/yaegashi/octops/domain/model"
)

// Deps are the collaborators available to backend drivers.
type Deps struct {
	Lease  model.LeasePort      // leasing service, nil when not configured
	Runner model.AutomationPort // playbook runner
	Now    func() time.Time
}

// Driver abstracts backend-specific provisioning. Implementations live
// under adapters/drivers/backend/<name>.
type Driver interface {
	// Kind returns the backend identifier (e.g., "leased-host").
	Kind() model.BackendKind

	// Dispatch provisions hosts from translated parameters. In dry-run
	// mode it returns model.ErrDryRun after a successful check.
	Dispatch(ctx context.Context, req model.ProvisioningRequest, params model.ParameterSet, opts model.DispatchOptions) ([]*model.HostRecord, error)

	// Teardown releases hosts previously returned by Dispatch.
	Teardown(ctx context.Context, hosts []*model.HostRecord, params model.ParameterSet, opts model.DispatchOptions) error
}

// driverFactory is a constructor function for a backend driver.
type driverFactory func(deps Deps) (Driver, error)

// registry holds registered drivers by backend kind.
var registry = map[model.BackendKind]driverFactory{}

// Register makes a driver available for the given backend. Drivers should
// call this from their init() function.
func Register(kind model.BackendKind, factory driverFactory) {
	registry[kind] = factory
}

// GetDriverFactory returns the driver factory function for the given backend.
func GetDriverFactory(kind model.BackendKind) (driverFactory, bool) {
	factory, exists := registry[kind]
	return factory, exists
}

// Time returns the current time from Now, or the wall clock.
func (d Deps) Time() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}
