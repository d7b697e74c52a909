package inmem

import (
	"context"
	"sync"

	"github.com/yaegashi/octops/domain"
	"github.com/yaegashi/octops/domain/model"
)

// state is the data guarded by Store. Repositories operate on a private
// copy inside Do and the copy replaces the committed state on success.
type state struct {
	hosts   map[string]*model.HostRecord
	vm      *model.ActiveVM
	changed bool
}

func newState() *state {
	return &state{hosts: make(map[string]*model.HostRecord)}
}

func (s *state) clone() *state {
	cp := newState()
	for id, h := range s.hosts {
		cp.hosts[id] = h.Clone()
	}
	if s.vm != nil {
		vm := *s.vm
		cp.vm = &vm
	}
	return cp
}

// Store is a thread-safe in-memory implementation of domain.Store.
type Store struct {
	mu       sync.Mutex
	st       *state
	revision int64
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Do runs fn against a working copy and commits it when fn returns nil.
func (s *Store) Do(ctx context.Context, fn func(repos *domain.Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	work := s.st.clone()
	repos := &domain.Repositories{
		Host:     &HostRepository{st: work},
		ActiveVM: &ActiveVMRepository{st: work},
	}
	if err := fn(repos); err != nil {
		return err
	}
	if work.changed {
		work.changed = false
		s.st = work
		s.revision++
	}
	return nil
}

// Revision increments on every committed change.
func (s *Store) Revision() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

// Snapshot returns copies of the committed hosts and VM slot.
func (s *Store) Snapshot() ([]*model.HostRecord, *model.ActiveVM) {
	s.mu.Lock()
	defer s.mu.Unlock()
	hosts := sortedHosts(s.st.hosts)
	var vm *model.ActiveVM
	if s.st.vm != nil {
		cp := *s.st.vm
		vm = &cp
	}
	return hosts, vm
}

// Load replaces the committed state without bumping the revision.
func (s *Store) Load(hosts []*model.HostRecord, vm *model.ActiveVM) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := newState()
	for _, h := range hosts {
		st.hosts[h.ID] = h.Clone()
	}
	if vm != nil {
		cp := *vm
		st.vm = &cp
	}
	s.st = st
}

func (s *Store) Close() error { return nil }

// Compile-time assertions
var _ domain.Store = (*Store)(nil)
var _ domain.HostRepository = (*HostRepository)(nil)
var _ domain.ActiveVMRepository = (*ActiveVMRepository)(nil)
