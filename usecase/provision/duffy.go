package provision

import (
	"context"
	"errors"
	"fmt"

	"github.com/yaegashi/octops/domain"
	"github.com/yaegashi/octops/domain/model"
)

// DuffyInput represents a request to lease an all-in-one host.
type DuffyInput struct {
	OperatingSystem     model.OperatingSystem `json:"os"`
	Architecture        model.Architecture    `json:"arch"`
	Flavor              model.Flavor          `json:"flavor"`
	Stage               model.Stage           `json:"stage"`
	SkipInventoryLookup bool                  `json:"skip_inventory_lookup"`
	AutomationOptions
}

// DuffyOutput reports the leased hosts.
type DuffyOutput struct {
	LeaseID   string              `json:"lease_id,omitempty"`
	Hostnames []string            `json:"hostnames,omitempty"`
	Hosts     []*model.HostRecord `json:"hosts,omitempty"`
	DryRun    bool                `json:"dry_run"`
}

// Duffy leases hosts from the leasing service and records them.
func (u *UseCase) Duffy(ctx context.Context, in *DuffyInput) (*DuffyOutput, error) {
	if in == nil {
		return nil, fmt.Errorf("missing input")
	}
	req := model.ProvisioningRequest{
		Backend:         model.BackendLeasedHost,
		OperatingSystem: in.OperatingSystem,
		Architecture:    in.Architecture,
		Flavor:          in.Flavor,
		Stage:           in.Stage,
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var extra []model.DispatchOption
	if in.SkipInventoryLookup {
		extra = append(extra, model.WithDispatchSkipInventoryLookup())
	}
	hosts, err := u.DispatchPort.Dispatch(ctx, req, model.Translate(req, u.Env), in.dispatchOptions(extra...)...)
	if errors.Is(err, model.ErrDryRun) {
		return &DuffyOutput{DryRun: true}, nil
	}
	if err != nil {
		return nil, err
	}
	if len(hosts) == 0 {
		return nil, fmt.Errorf("leasing service returned no hosts")
	}
	if err := u.record(ctx, hosts, nil); err != nil {
		return nil, err
	}
	return &DuffyOutput{LeaseID: leaseOf(hosts), Hostnames: hostIDs(hosts), Hosts: hosts}, nil
}

// DuffyReleaseInput represents a request to return leased hosts. An empty
// LeaseID releases every recorded lease.
type DuffyReleaseInput struct {
	LeaseID string `json:"lease_id"`
	AutomationOptions
}

// DuffyReleaseOutput reports the released hosts. On error it still lists
// the leases that were released and forgotten before the failure.
type DuffyReleaseOutput struct {
	LeaseIDs  []string `json:"lease_ids"`
	Hostnames []string `json:"hostnames"`
	DryRun    bool     `json:"dry_run"`
}

// DuffyRelease releases recorded leases one at a time and forgets the
// hosts of each released lease. Remaining leases are still attempted
// after a failure.
func (u *UseCase) DuffyRelease(ctx context.Context, in *DuffyReleaseInput) (*DuffyReleaseOutput, error) {
	if in == nil {
		in = &DuffyReleaseInput{}
	}
	var hosts []*model.HostRecord
	err := u.Store.Do(ctx, func(r *domain.Repositories) error {
		all, err := r.Host.List(ctx)
		if err != nil {
			return err
		}
		for _, h := range all {
			if h.Backend == model.BackendLeasedHost && (in.LeaseID == "" || h.LeaseID == in.LeaseID) {
				hosts = append(hosts, h)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(hosts) == 0 {
		if in.LeaseID != "" {
			return nil, fmt.Errorf("%w: lease %s", model.ErrNoLeasedHosts, in.LeaseID)
		}
		return nil, model.ErrNoLeasedHosts
	}

	var leases []string
	byLease := map[string][]*model.HostRecord{}
	for _, h := range hosts {
		if _, ok := byLease[h.LeaseID]; !ok {
			leases = append(leases, h.LeaseID)
		}
		byLease[h.LeaseID] = append(byLease[h.LeaseID], h)
	}

	// A lease is forgotten as soon as it is released.
	out := &DuffyReleaseOutput{LeaseIDs: []string{}, Hostnames: []string{}}
	var errs []error
	for _, id := range leases {
		group := byLease[id]
		err := u.DispatchPort.Teardown(ctx, model.BackendLeasedHost, group, nil, in.dispatchOptions()...)
		if errors.Is(err, model.ErrDryRun) {
			out.DryRun = true
			out.LeaseIDs = append(out.LeaseIDs, id)
			out.Hostnames = append(out.Hostnames, hostIDs(group)...)
			continue
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("release lease %s: %w", id, err))
			continue
		}
		if err := u.remove(ctx, hostIDs(group), false); err != nil {
			errs = append(errs, err)
			continue
		}
		out.LeaseIDs = append(out.LeaseIDs, id)
		out.Hostnames = append(out.Hostnames, hostIDs(group)...)
	}
	if len(errs) > 0 {
		return out, errors.Join(errs...)
	}
	return out, nil
}
