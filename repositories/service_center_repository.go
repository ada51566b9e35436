package repositories

import (
	"context"
	"errors"

	"autocare/apperrors"
	"autocare/logger"
	"autocare/models/servicecenter"

	"gorm.io/gorm"
)

// ServiceCenterRepository reads service center and mechanic data.
type ServiceCenterRepository interface {
	FindByID(ctx context.Context, id uint) (*servicecenter.ServiceCenter, error)
	FindMechanic(ctx context.Context, mechanicID uint) (*servicecenter.Mechanic, error)
}

// GormServiceCenterRepository implements ServiceCenterRepository on GORM.
type GormServiceCenterRepository struct {
	db *gorm.DB
}

// NewServiceCenterRepository creates a new GORM-backed service center repository.
func NewServiceCenterRepository(db *gorm.DB) *GormServiceCenterRepository {
	return &GormServiceCenterRepository{db: db}
}

// FindByID loads a service center with its mechanics.
func (r *GormServiceCenterRepository) FindByID(ctx context.Context, id uint) (*servicecenter.ServiceCenter, error) {
	var center servicecenter.ServiceCenter
	err := r.db.WithContext(ctx).Preload("Mechanics").First(&center, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("service center %d", id)
		}
		logger.Error("ServiceCenterRepository.FindByID: DB error", err)
		return nil, err
	}
	return &center, nil
}

// FindMechanic loads a single mechanic row.
func (r *GormServiceCenterRepository) FindMechanic(ctx context.Context, mechanicID uint) (*servicecenter.Mechanic, error) {
	var mech servicecenter.Mechanic
	err := r.db.WithContext(ctx).First(&mech, mechanicID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("mechanic %d", mechanicID)
		}
		logger.Error("ServiceCenterRepository.FindMechanic: DB error", err)
		return nil, err
	}
	return &mech, nil
}

var _ ServiceCenterRepository = (*GormServiceCenterRepository)(nil)
