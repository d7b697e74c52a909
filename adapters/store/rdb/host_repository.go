package rdb

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/yaegashi/octops/domain"
	"github.com/yaegashi/octops/domain/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// HostRepository is a GORM-backed implementation of domain.HostRepository.
type HostRepository struct{ db *gorm.DB }

func NewHostRepository(db *gorm.DB) *HostRepository { return &HostRepository{db: db} }

func hostToRecord(h *model.HostRecord) (*HostRecord, error) {
	groups, err := json.Marshal(h.Groups)
	if err != nil {
		return nil, err
	}
	attrs, err := json.Marshal(h.Attributes)
	if err != nil {
		return nil, err
	}
	return &HostRecord{
		ID:              h.ID,
		Backend:         string(h.Backend),
		LeaseID:         h.LeaseID,
		OperatingSystem: string(h.OperatingSystem),
		Architecture:    string(h.Architecture),
		Flavor:          string(h.Flavor),
		Stage:           string(h.Stage),
		Provider:        string(h.Provider),
		Groups:          string(groups),
		Attributes:      string(attrs),
		CreatedAt:       h.CreatedAt,
	}, nil
}

func hostToModel(r *HostRecord) (*model.HostRecord, error) {
	h := &model.HostRecord{
		ID:              r.ID,
		Backend:         model.BackendKind(r.Backend),
		LeaseID:         r.LeaseID,
		OperatingSystem: model.OperatingSystem(r.OperatingSystem),
		Architecture:    model.Architecture(r.Architecture),
		Flavor:          model.Flavor(r.Flavor),
		Stage:           model.Stage(r.Stage),
		Provider:        model.Provider(r.Provider),
		CreatedAt:       r.CreatedAt,
	}
	if r.Groups != "" {
		if err := json.Unmarshal([]byte(r.Groups), &h.Groups); err != nil {
			return nil, err
		}
	}
	if r.Attributes != "" {
		if err := json.Unmarshal([]byte(r.Attributes), &h.Attributes); err != nil {
			return nil, err
		}
	}
	return h, nil
}

func (r *HostRepository) Add(ctx context.Context, h *model.HostRecord) error {
	if h == nil || h.ID == "" {
		return model.ErrHostInvalid
	}
	rec, err := hostToRecord(h)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(rec).Error
}

func (r *HostRepository) Get(ctx context.Context, id string) (*model.HostRecord, error) {
	var rec HostRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrHostNotFound
		}
		return nil, err
	}
	return hostToModel(&rec)
}

func (r *HostRepository) List(ctx context.Context) ([]*model.HostRecord, error) {
	var recs []HostRecord
	if err := r.db.WithContext(ctx).Order("created_at ASC").Order("id ASC").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]*model.HostRecord, 0, len(recs))
	for i := range recs {
		h, err := hostToModel(&recs[i])
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, nil
}

func (r *HostRepository) Remove(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&HostRecord{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return model.ErrHostNotFound
	}
	return nil
}

var _ domain.HostRepository = (*HostRepository)(nil)
