package rdb

import (
	"context"
	"errors"

	"github.com/yaegashi/octops/domain"
	"github.com/yaegashi/octops/domain/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const activeVMSlot = 1

// ActiveVMRepository is a GORM-backed implementation of domain.ActiveVMRepository.
type ActiveVMRepository struct{ db *gorm.DB }

func NewActiveVMRepository(db *gorm.DB) *ActiveVMRepository { return &ActiveVMRepository{db: db} }

func (r *ActiveVMRepository) Get(ctx context.Context) (*model.ActiveVM, error) {
	var rec ActiveVMRecord
	if err := r.db.WithContext(ctx).First(&rec, "slot = ?", activeVMSlot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNoActiveVM
		}
		return nil, err
	}
	return &model.ActiveVM{
		Hostname:        rec.Hostname,
		OperatingSystem: model.OperatingSystem(rec.OperatingSystem),
		Provider:        model.Provider(rec.Provider),
		Stage:           model.Stage(rec.Stage),
		Architecture:    model.Architecture(rec.Architecture),
		Flavor:          model.Flavor(rec.Flavor),
		NetworkAddress:  rec.NetworkAddress,
		State:           model.VMState(rec.State),
		CreatedAt:       rec.CreatedAt,
	}, nil
}

func (r *ActiveVMRepository) Set(ctx context.Context, vm *model.ActiveVM) error {
	if vm == nil || vm.Hostname == "" {
		return model.ErrHostInvalid
	}
	rec := &ActiveVMRecord{
		Slot:            activeVMSlot,
		Hostname:        vm.Hostname,
		OperatingSystem: string(vm.OperatingSystem),
		Provider:        string(vm.Provider),
		Stage:           string(vm.Stage),
		Architecture:    string(vm.Architecture),
		Flavor:          string(vm.Flavor),
		NetworkAddress:  vm.NetworkAddress,
		State:           string(vm.State),
		CreatedAt:       vm.CreatedAt,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(rec).Error
}

func (r *ActiveVMRepository) Clear(ctx context.Context) error {
	return r.db.WithContext(ctx).Delete(&ActiveVMRecord{}, "slot = ?", activeVMSlot).Error
}

var _ domain.ActiveVMRepository = (*ActiveVMRepository)(nil)
