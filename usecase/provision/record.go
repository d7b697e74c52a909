package provision

import (
	"context"
	"errors"
	"fmt"

	"github.com/yaegashi/octops/domain"
	"github.com/yaegashi/octops/domain/model"
	"github.com/yaegashi/octops/internal/logging"
)

// record adds hosts and optionally fills the VM slot in one scope, then
// re-exports the inventory. A store failure is a RecordError and an
// export failure after the commit is an ExportError.
func (u *UseCase) record(ctx context.Context, hosts []*model.HostRecord, vm *model.ActiveVM) error {
	err := u.Store.Do(ctx, func(r *domain.Repositories) error {
		for _, h := range hosts {
			if err := r.Host.Add(ctx, h); err != nil {
				return fmt.Errorf("add host %s: %w", h.ID, err)
			}
		}
		if vm != nil {
			if err := r.ActiveVM.Set(ctx, vm); err != nil {
				return fmt.Errorf("set active VM: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return &model.RecordError{Hosts: hostIDs(hosts), LeaseID: leaseOf(hosts), Err: err}
	}
	if err := u.export(ctx); err != nil {
		return &model.ExportError{Hosts: hostIDs(hosts), Err: err}
	}
	return nil
}

// remove drops ids and optionally clears the VM slot in one scope, then
// re-exports the inventory.
func (u *UseCase) remove(ctx context.Context, ids []string, clearVM bool) error {
	err := u.Store.Do(ctx, func(r *domain.Repositories) error {
		for _, id := range ids {
			if err := r.Host.Remove(ctx, id); err != nil && !errors.Is(err, model.ErrHostNotFound) {
				return fmt.Errorf("remove host %s: %w", id, err)
			}
		}
		if clearVM {
			return r.ActiveVM.Clear(ctx)
		}
		return nil
	})
	if err != nil {
		return &model.RecordError{Hosts: ids, Err: err}
	}
	if err := u.export(ctx); err != nil {
		return &model.ExportError{Hosts: ids, Err: err}
	}
	return nil
}

func (u *UseCase) export(ctx context.Context) error {
	if u.Exporter == nil {
		return nil
	}
	var hosts []*model.HostRecord
	if err := u.Store.Do(ctx, func(r *domain.Repositories) error {
		var err error
		hosts, err = r.Host.List(ctx)
		return err
	}); err != nil {
		return err
	}
	if err := u.Exporter.Export(ctx, hosts); err != nil {
		return fmt.Errorf("export inventory: %w", err)
	}
	return nil
}

func (u *UseCase) activeVM(ctx context.Context) (*model.ActiveVM, error) {
	var vm *model.ActiveVM
	err := u.Store.Do(ctx, func(r *domain.Repositories) error {
		var err error
		vm, err = r.ActiveVM.Get(ctx)
		return err
	})
	return vm, err
}

func transition(ctx context.Context, host string, from, to model.VMState) {
	logging.FromContext(ctx).Info(ctx, "vm state", "host", host, "from", from, "to", to)
}

func hostIDs(hosts []*model.HostRecord) []string {
	ids := make([]string, 0, len(hosts))
	for _, h := range hosts {
		ids = append(ids, h.ID)
	}
	return ids
}

func leaseOf(hosts []*model.HostRecord) string {
	for _, h := range hosts {
		if h.LeaseID != "" {
			return h.LeaseID
		}
	}
	return ""
}
