package inventory

import (
	"context"

	"github.com/yaegashi/octops/domain"
	"github.com/yaegashi/octops/domain/model"
)

// ListInput defines optional filters for listing hosts.
type ListInput struct {
	// Backend restricts the result to one backend kind.
	Backend model.BackendKind `json:"backend,omitempty"`
	// Group restricts the result to members of an inventory group.
	Group string `json:"group,omitempty"`
}

// ListOutput wraps listed hosts.
type ListOutput struct {
	Hosts []*model.HostRecord `json:"hosts"`
}

// List returns recorded hosts ordered by creation time.
func (u *UseCase) List(ctx context.Context, in *ListInput) (*ListOutput, error) {
	if in == nil {
		in = &ListInput{}
	}
	var items []*model.HostRecord
	err := u.Store.Do(ctx, func(r *domain.Repositories) error {
		var err error
		items, err = r.Host.List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := &ListOutput{Hosts: []*model.HostRecord{}}
	for _, h := range items {
		if in.Backend != "" && h.Backend != in.Backend {
			continue
		}
		if in.Group != "" && !h.InGroup(in.Group) {
			continue
		}
		out.Hosts = append(out.Hosts, h)
	}
	return out, nil
}
