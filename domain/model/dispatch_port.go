package model

import "context"

// Operation-scoped options and functional option types.
type DispatchOptions struct {
	DryRun              bool
	Verbosity           int
	Debug               bool
	SkipInventoryLookup bool
}

type DispatchOption func(*DispatchOptions)

// Option helpers
func WithDispatchDryRun() DispatchOption {
	return func(o *DispatchOptions) { o.DryRun = true }
}
func WithDispatchVerbosity(v int) DispatchOption {
	return func(o *DispatchOptions) { o.Verbosity = v }
}
func WithDispatchDebug() DispatchOption {
	return func(o *DispatchOptions) { o.Debug = true }
}
func WithDispatchSkipInventoryLookup() DispatchOption {
	return func(o *DispatchOptions) { o.SkipInventoryLookup = true }
}

// ApplyDispatchOptions folds opts into a DispatchOptions value.
func ApplyDispatchOptions(opts ...DispatchOption) DispatchOptions {
	var o DispatchOptions
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

// DispatchPort is an interface (domain port) that hands a translated
// request to the backend selected by req.Backend.
type DispatchPort interface {
	// Dispatch provisions hosts. Records are returned only when every
	// external call succeeded.
	Dispatch(ctx context.Context, req ProvisioningRequest, params ParameterSet, opts ...DispatchOption) ([]*HostRecord, error)
	// Teardown releases hosts previously returned by Dispatch.
	Teardown(ctx context.Context, backend BackendKind, hosts []*HostRecord, params ParameterSet, opts ...DispatchOption) error
}

// HostProperties are per-host values assigned by the leasing service.
type HostProperties struct {
	Architecture Architecture
	Flavor       Flavor
	Address      string
}

// LeasePort is the host-leasing collaborator.
type LeasePort interface {
	Request(ctx context.Context, arch Architecture, flavor Flavor) (hostnames []string, leaseID string, err error)
	Inventory(ctx context.Context, leaseID string) (map[string]HostProperties, error)
	Release(ctx context.Context, leaseID string) error
}

// RunOptions tune a single playbook run.
type RunOptions struct {
	Verbosity int
	DryRun    bool
	Debug     bool
}

// AutomationPort is the playbook runner collaborator. playbook is a
// reference such as "provision/vagrant-up".
type AutomationPort interface {
	Run(ctx context.Context, playbook string, vars ParameterSet, opts RunOptions) error
}
