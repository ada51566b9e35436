package repositories

import (
	"context"
	"errors"

	"autocare/apperrors"
	"autocare/logger"
	"autocare/models/jobcard"

	"gorm.io/gorm"
)

// JobCardRepository handles job card storage.
type JobCardRepository interface {
	Create(ctx context.Context, card *jobcard.JobCard) error
	FindByID(ctx context.Context, id uint) (*jobcard.JobCard, error)
	ListByAppointment(ctx context.Context, appointmentID uint) ([]jobcard.JobCard, error)
	ListByAppointmentIDs(ctx context.Context, appointmentIDs []uint) ([]jobcard.JobCard, error)
	Delete(ctx context.Context, id uint) error
}

// GormJobCardRepository implements JobCardRepository on GORM.
type GormJobCardRepository struct {
	db *gorm.DB
}

// NewJobCardRepository creates a new GORM-backed job card repository.
func NewJobCardRepository(db *gorm.DB) *GormJobCardRepository {
	return &GormJobCardRepository{db: db}
}

func (r *GormJobCardRepository) Create(ctx context.Context, card *jobcard.JobCard) error {
	return r.db.WithContext(ctx).Create(card).Error
}

func (r *GormJobCardRepository) FindByID(ctx context.Context, id uint) (*jobcard.JobCard, error) {
	var card jobcard.JobCard
	err := r.db.WithContext(ctx).Preload("Parts").Preload("Parts.Part").First(&card, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("job card %d", id)
		}
		logger.Error("JobCardRepository.FindByID: DB error", err)
		return nil, err
	}
	return &card, nil
}

func (r *GormJobCardRepository) ListByAppointment(ctx context.Context, appointmentID uint) ([]jobcard.JobCard, error) {
	var cards []jobcard.JobCard
	err := r.db.WithContext(ctx).
		Preload("Parts").
		Preload("Parts.Part").
		Where("appointment_id = ?", appointmentID).
		Order("created_at ASC").
		Find(&cards).Error
	if err != nil {
		logger.Error("JobCardRepository.ListByAppointment: DB error", err)
		return nil, err
	}
	return cards, nil
}

// ListByAppointmentIDs feeds the recurring-issue aggregation; ordered by
// creation so first-seen tie-breaking is stable.
func (r *GormJobCardRepository) ListByAppointmentIDs(ctx context.Context, appointmentIDs []uint) ([]jobcard.JobCard, error) {
	if len(appointmentIDs) == 0 {
		return nil, nil
	}
	var cards []jobcard.JobCard
	err := r.db.WithContext(ctx).
		Where("appointment_id IN ?", appointmentIDs).
		Order("created_at ASC, id ASC").
		Find(&cards).Error
	if err != nil {
		logger.Error("JobCardRepository.ListByAppointmentIDs: DB error", err)
		return nil, err
	}
	return cards, nil
}

func (r *GormJobCardRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&jobcard.JobCard{}, id)
	if result.Error != nil {
		logger.Error("JobCardRepository.Delete: DB error", result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFoundf("job card %d", id)
	}
	return nil
}

var _ JobCardRepository = (*GormJobCardRepository)(nil)
