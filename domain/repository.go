package domain

import (
	"context"

	"github.com/yaegashi/octops/domain/model"
)

// HostRepository stores and retrieves inventory hosts.
type HostRepository interface {
	// Add inserts h, replacing any host with the same ID.
	Add(ctx context.Context, h *model.HostRecord) error
	Get(ctx context.Context, id string) (*model.HostRecord, error)
	// List returns hosts ordered by creation time, then ID.
	List(ctx context.Context) ([]*model.HostRecord, error)
	Remove(ctx context.Context, id string) error
}

// ActiveVMRepository holds the single local-hypervisor VM slot.
type ActiveVMRepository interface {
	// Get returns model.ErrNoActiveVM when the slot is empty.
	Get(ctx context.Context) (*model.ActiveVM, error)
	Set(ctx context.Context, vm *model.ActiveVM) error
	Clear(ctx context.Context) error
}

// UnitOfWork coordinates transactional operations. Changes made through
// repos are persisted only when fn returns nil.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(repos *Repositories) error) error
}

// Repositories groups repository interfaces for use inside UnitOfWork.
type Repositories struct {
	Host     HostRepository
	ActiveVM ActiveVMRepository
}

// Store is a UnitOfWork backed by a closable resource.
type Store interface {
	UnitOfWork
	Close() error
}

// InventoryExporter renders the host list for downstream automation.
type InventoryExporter interface {
	Export(ctx context.Context, hosts []*model.HostRecord) error
}
