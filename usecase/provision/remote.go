package provision

import (
	"context"
	"errors"
	"fmt"

	"github.com/yaegashi/octops/domain"
	"github.com/yaegashi/octops/domain/model"
)

// RemoteInput represents a request to prepare an existing host.
type RemoteInput struct {
	Hostname        string                `json:"hostname"`
	OperatingSystem model.OperatingSystem `json:"os"`
	Architecture    model.Architecture    `json:"arch"`
	Stage           model.Stage           `json:"stage"`
	AutomationOptions
}

// RemoteOutput reports the registered host.
type RemoteOutput struct {
	Host   *model.HostRecord `json:"host,omitempty"`
	DryRun bool              `json:"dry_run"`
}

// Remote prepares a remote host and records it.
func (u *UseCase) Remote(ctx context.Context, in *RemoteInput) (*RemoteOutput, error) {
	if in == nil {
		return nil, fmt.Errorf("missing input")
	}
	req := model.ProvisioningRequest{
		Backend:         model.BackendRemoteHost,
		OperatingSystem: in.OperatingSystem,
		Architecture:    in.Architecture,
		Stage:           in.Stage,
		Hostname:        in.Hostname,
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hosts, err := u.DispatchPort.Dispatch(ctx, req, model.Translate(req, u.Env), in.dispatchOptions()...)
	if errors.Is(err, model.ErrDryRun) {
		return &RemoteOutput{DryRun: true}, nil
	}
	if err != nil {
		return nil, err
	}
	if len(hosts) != 1 {
		return nil, fmt.Errorf("expected one remote host, got %d", len(hosts))
	}
	if err := u.record(ctx, hosts, nil); err != nil {
		return nil, err
	}
	return &RemoteOutput{Host: hosts[0]}, nil
}

// RemoteDestroyInput represents a request to forget a remote host.
type RemoteDestroyInput struct {
	Hostname string `json:"hostname"`
	AutomationOptions
}

// RemoteDestroyOutput reports the forgotten host.
type RemoteDestroyOutput struct {
	Hostname string `json:"hostname"`
	DryRun   bool   `json:"dry_run"`
}

// RemoteDestroy releases a recorded remote host. It returns
// model.ErrHostNotFound for hosts not recorded as remote hosts.
func (u *UseCase) RemoteDestroy(ctx context.Context, in *RemoteDestroyInput) (*RemoteDestroyOutput, error) {
	if in == nil || in.Hostname == "" {
		return nil, &model.UsageError{Option: "hostname", Msg: "--hostname is required"}
	}
	var host *model.HostRecord
	err := u.Store.Do(ctx, func(r *domain.Repositories) error {
		var err error
		host, err = r.Host.Get(ctx, in.Hostname)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", in.Hostname, err)
	}
	if host.Backend != model.BackendRemoteHost {
		return nil, fmt.Errorf("%s is a %s host: %w", in.Hostname, host.Backend, model.ErrHostNotFound)
	}

	err = u.DispatchPort.Teardown(ctx, model.BackendRemoteHost, []*model.HostRecord{host}, nil, in.dispatchOptions()...)
	if errors.Is(err, model.ErrDryRun) {
		return &RemoteDestroyOutput{Hostname: host.ID, DryRun: true}, nil
	}
	if err != nil {
		return nil, err
	}
	if err := u.remove(ctx, []string{host.ID}, false); err != nil {
		return nil, err
	}
	return &RemoteDestroyOutput{Hostname: host.ID}, nil
}
