package inventory

import (
	"context"
	"errors"

	"github.com/yaegashi/octops/domain"
	"github.com/yaegashi/octops/domain/model"
)

// GetInput identifies the host to fetch.
type GetInput struct {
	Hostname string `json:"hostname"`
}

// GetOutput wraps the retrieved host.
type GetOutput struct {
	Host *model.HostRecord `json:"host"`
}

// Get retrieves a host by hostname.
func (u *UseCase) Get(ctx context.Context, in *GetInput) (*GetOutput, error) {
	if in == nil || in.Hostname == "" {
		return nil, model.ErrHostInvalid
	}
	var h *model.HostRecord
	err := u.Store.Do(ctx, func(r *domain.Repositories) error {
		var err error
		h, err = r.Host.Get(ctx, in.Hostname)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &GetOutput{Host: h}, nil
}

// ActiveVMOutput wraps the active local VM, if any.
type ActiveVMOutput struct {
	VM *model.ActiveVM `json:"vm"`
}

// ActiveVM returns the current local VM. VM is nil when the slot is empty.
func (u *UseCase) ActiveVM(ctx context.Context) (*ActiveVMOutput, error) {
	out := &ActiveVMOutput{}
	err := u.Store.Do(ctx, func(r *domain.Repositories) error {
		vm, err := r.ActiveVM.Get(ctx)
		if err != nil {
			return err
		}
		out.VM = vm
		return nil
	})
	if err != nil && !errors.Is(err, model.ErrNoActiveVM) {
		return nil, err
	}
	return out, nil
}
