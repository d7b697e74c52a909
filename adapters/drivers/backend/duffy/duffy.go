// Package duffy is the leased-host backend driver.
package duffy

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	backenddrv "github.com/yaegashi/octops/adapters/drivers/backend"
	"github.com/yaegashi/octops/domain/model"
	"github.com/yaegashi/octops/internal/logging"
	"github.com/yaegashi/octops/internal/naming"
)

// PlaybookUp prepares leased hosts for an all-in-one deployment.
const PlaybookUp = "provision/duffy-up"

// driver leases pre-built hosts from the leasing service.
type driver struct {
	deps backenddrv.Deps
}

func init() {
	backenddrv.Register(model.BackendLeasedHost, New)
}

// New creates the leased-host driver.
func New(deps backenddrv.Deps) (backenddrv.Driver, error) {
	if deps.Lease == nil {
		return nil, errors.New("leasing client is not configured")
	}
	if deps.Runner == nil {
		return nil, errors.New("playbook runner is not configured")
	}
	return &driver{deps: deps}, nil
}

// Kind returns the backend identifier.
func (d *driver) Kind() model.BackendKind { return model.BackendLeasedHost }

// Dispatch leases hosts with the architecture and flavor from params and
// runs the all-in-one playbook against them. If the playbook fails the
// lease is returned before the error is reported.
func (d *driver) Dispatch(ctx context.Context, req model.ProvisioningRequest, params model.ParameterSet, opts model.DispatchOptions) ([]*model.HostRecord, error) {
	logger := logging.FromContext(ctx)
	arch := model.Architecture(params.String("origin_ci_duffy_arch"))
	flavor := model.Flavor(params.String("origin_ci_duffy_flavor"))

	labels := backenddrv.StringMap(params, "openshift_node_labels")
	for k, v := range labels {
		if err := naming.ValidateLabel(k, v); err != nil {
			return nil, err
		}
	}

	if opts.DryRun {
		logger.Info(ctx, "dry run: skipping host lease", "arch", arch, "flavor", flavor)
		return nil, model.ErrDryRun
	}

	hostnames, leaseID, err := d.deps.Lease.Request(ctx, arch, flavor)
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "leased hosts", "lease", leaseID, "hosts", hostnames)

	var props map[string]model.HostProperties
	if !opts.SkipInventoryLookup {
		props, err = d.deps.Lease.Inventory(ctx, leaseID)
		if err != nil {
			logger.Warn(ctx, "inventory lookup failed, using requested values", "lease", leaseID, "error", err)
			props = nil
		}
	}

	if err := d.deps.Runner.Run(ctx, PlaybookUp, upParams(params, hostnames, leaseID), backenddrv.RunOptions(opts)); err != nil {
		return nil, d.abandon(ctx, leaseID, err)
	}

	groups := backenddrv.Strings(params, "origin_ci_duffy_groups")
	now := d.deps.Time()
	out := make([]*model.HostRecord, 0, len(hostnames))
	for _, h := range hostnames {
		rec := &model.HostRecord{
			ID:              h,
			Backend:         model.BackendLeasedHost,
			LeaseID:         leaseID,
			OperatingSystem: req.OperatingSystem,
			Architecture:    arch,
			Flavor:          flavor,
			Stage:           req.Stage,
			Groups:          append([]string(nil), groups...),
			Attributes:      attributes(labels, params),
			CreatedAt:       now,
		}
		if p, ok := props[h]; ok {
			if p.Architecture != "" {
				rec.Architecture = p.Architecture
			}
			if p.Flavor != "" {
				rec.Flavor = p.Flavor
			}
			if p.Address != "" {
				rec.Attributes[model.AttrAddress] = p.Address
			}
		}
		out = append(out, rec)
	}
	return out, nil
}

// upParams adds the leased hosts to a copy of params.
func upParams(params model.ParameterSet, hostnames []string, leaseID string) model.ParameterSet {
	vars := make(model.ParameterSet, len(params)+2)
	for k, v := range params {
		vars[k] = v
	}
	vars["origin_ci_duffy_hosts"] = append([]string(nil), hostnames...)
	vars["origin_ci_duffy_lease_id"] = leaseID
	return vars
}

// abandon releases a lease whose hosts could not be prepared.
func (d *driver) abandon(ctx context.Context, leaseID string, cause error) error {
	if err := d.deps.Lease.Release(ctx, leaseID); err != nil {
		logging.FromContext(ctx).Error(ctx, "release after failed setup", "lease", leaseID, "error", err)
		return fmt.Errorf("%w (lease %s is still held, release it manually: %v)", cause, leaseID, err)
	}
	return fmt.Errorf("%w (lease %s released)", cause, leaseID)
}

func attributes(labels map[string]string, params model.ParameterSet) map[string]string {
	attrs := make(map[string]string, len(labels)+1)
	for k, v := range labels {
		attrs[k] = v
	}
	attrs[model.AttrSchedulable] = strconv.FormatBool(backenddrv.Bool(params, "openshift_schedulable"))
	return attrs
}

// Teardown releases every distinct lease held by hosts.
func (d *driver) Teardown(ctx context.Context, hosts []*model.HostRecord, _ model.ParameterSet, opts model.DispatchOptions) error {
	logger := logging.FromContext(ctx)
	var leases []string
	seen := map[string]bool{}
	for _, h := range hosts {
		if h.LeaseID == "" {
			return fmt.Errorf("host %s has no lease id", h.ID)
		}
		if !seen[h.LeaseID] {
			seen[h.LeaseID] = true
			leases = append(leases, h.LeaseID)
		}
	}
	if opts.DryRun {
		logger.Info(ctx, "dry run: skipping lease release", "leases", leases)
		return model.ErrDryRun
	}
	for _, id := range leases {
		if err := d.deps.Lease.Release(ctx, id); err != nil {
			return err
		}
		logger.Info(ctx, "released lease", "lease", id)
	}
	return nil
}
