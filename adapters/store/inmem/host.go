package inmem

import (
	"context"
	"sort"

	"github.com/yaegashi/octops/domain/model"
)

// HostRepository operates on the working copy of a Store.Do call.
type HostRepository struct {
	st *state
}

func (r *HostRepository) Add(_ context.Context, h *model.HostRecord) error {
	if h == nil || h.ID == "" {
		return model.ErrHostInvalid
	}
	r.st.hosts[h.ID] = h.Clone()
	r.st.changed = true
	return nil
}

func (r *HostRepository) Get(_ context.Context, id string) (*model.HostRecord, error) {
	v, ok := r.st.hosts[id]
	if !ok {
		return nil, model.ErrHostNotFound
	}
	return v.Clone(), nil
}

func (r *HostRepository) List(_ context.Context) ([]*model.HostRecord, error) {
	return sortedHosts(r.st.hosts), nil
}

func (r *HostRepository) Remove(_ context.Context, id string) error {
	if _, ok := r.st.hosts[id]; !ok {
		return model.ErrHostNotFound
	}
	delete(r.st.hosts, id)
	r.st.changed = true
	return nil
}

func sortedHosts(items map[string]*model.HostRecord) []*model.HostRecord {
	out := make([]*model.HostRecord, 0, len(items))
	for _, v := range items {
		out = append(out, v.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
