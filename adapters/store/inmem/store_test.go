package inmem

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yaegashi/octops/domain"
	"github.com/yaegashi/octops/domain/model"
)

func TestStore_HostLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	err := s.Do(ctx, func(r *domain.Repositories) error {
		require.NoError(t, r.Host.Add(ctx, &model.HostRecord{ID: "b", Backend: model.BackendLeasedHost, CreatedAt: now}))
		return r.Host.Add(ctx, &model.HostRecord{ID: "a", Backend: model.BackendLeasedHost, CreatedAt: now, Groups: []string{"masters"}})
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), s.Revision())

	err = s.Do(ctx, func(r *domain.Repositories) error {
		hosts, err := r.Host.List(ctx)
		require.NoError(t, err)
		require.Len(t, hosts, 2)
		assert.Equal(t, "a", hosts[0].ID)
		assert.Equal(t, "b", hosts[1].ID)

		h, err := r.Host.Get(ctx, "a")
		require.NoError(t, err)
		h.Groups[0] = "mutated"
		again, _ := r.Host.Get(ctx, "a")
		assert.Equal(t, "masters", again.Groups[0])

		_, err = r.Host.Get(ctx, "missing")
		assert.ErrorIs(t, err, model.ErrHostNotFound)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), s.Revision(), "read-only scope must not bump the revision")

	err = s.Do(ctx, func(r *domain.Repositories) error {
		require.NoError(t, r.Host.Remove(ctx, "a"))
		return r.Host.Remove(ctx, "a")
	})
	assert.ErrorIs(t, err, model.ErrHostNotFound)

	hosts, _ := s.Snapshot()
	assert.Len(t, hosts, 2, "failed scope must not commit the first remove")
}

func TestStore_FailedScopeDiscardsChanges(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	boom := errors.New("boom")

	err := s.Do(ctx, func(r *domain.Repositories) error {
		require.NoError(t, r.Host.Add(ctx, &model.HostRecord{ID: "h1"}))
		require.NoError(t, r.ActiveVM.Set(ctx, &model.ActiveVM{Hostname: "vm", State: model.VMActive}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	hosts, vm := s.Snapshot()
	assert.Empty(t, hosts)
	assert.Nil(t, vm)
	assert.Equal(t, int64(0), s.Revision())
}

func TestStore_ActiveVM(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	require.NoError(t, s.Do(ctx, func(r *domain.Repositories) error {
		_, err := r.ActiveVM.Get(ctx)
		assert.ErrorIs(t, err, model.ErrNoActiveVM)
		assert.ErrorIs(t, r.ActiveVM.Set(ctx, &model.ActiveVM{}), model.ErrHostInvalid)
		return r.ActiveVM.Set(ctx, &model.ActiveVM{Hostname: "openshiftdevel", Provider: model.ProviderLibvirt, State: model.VMActive})
	}))

	_, vm := s.Snapshot()
	require.NotNil(t, vm)
	assert.Equal(t, "openshiftdevel", vm.Hostname)

	require.NoError(t, s.Do(ctx, func(r *domain.Repositories) error {
		return r.ActiveVM.Clear(ctx)
	}))
	_, vm = s.Snapshot()
	assert.Nil(t, vm)
}

func TestStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := NewStore().Do(ctx, func(*domain.Repositories) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
