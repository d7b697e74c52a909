package inmem

import (
	"context"

	"github.com/yaegashi/octops/domain/model"
)

// ActiveVMRepository operates on the working copy of a Store.Do call.
type ActiveVMRepository struct {
	st *state
}

func (r *ActiveVMRepository) Get(_ context.Context) (*model.ActiveVM, error) {
	if r.st.vm == nil {
		return nil, model.ErrNoActiveVM
	}
	cp := *r.st.vm
	return &cp, nil
}

func (r *ActiveVMRepository) Set(_ context.Context, vm *model.ActiveVM) error {
	if vm == nil || vm.Hostname == "" {
		return model.ErrHostInvalid
	}
	cp := *vm
	r.st.vm = &cp
	r.st.changed = true
	return nil
}

func (r *ActiveVMRepository) Clear(_ context.Context) error {
	if r.st.vm == nil {
		return nil
	}
	r.st.vm = nil
	r.st.changed = true
	return nil
}
