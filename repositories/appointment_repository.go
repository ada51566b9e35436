package repositories

import (
	"context"
	"errors"
	"time"

	"autocare/apperrors"
	apptModel "autocare/models/appointment"
	"autocare/logger"

	"gorm.io/gorm"
)

// AppointmentRepository is the storage contract the triage/SLA core consumes.
// The GORM implementation below is the only one used in production; tests use
// in-memory fakes.
type AppointmentRepository interface {
	Create(ctx context.Context, appt *apptModel.Appointment) error
	FindByID(ctx context.Context, id uint) (*apptModel.Appointment, error)
	ListByStatuses(ctx context.Context, statuses []apptModel.AppointmentStatus) ([]apptModel.Appointment, error)
	ListForServiceCenter(ctx context.Context, serviceCenterID uint, from, to time.Time) ([]apptModel.Appointment, error)

	// TransitionStatus applies the patch only if the stored status still equals
	// expectedStatus, and records the status event in the same transaction.
	// A stale expected status yields apperrors.ErrInvalidTransition; an unknown
	// id yields apperrors.ErrNotFound.
	TransitionStatus(ctx context.Context, id uint, expectedStatus apptModel.AppointmentStatus, patch map[string]interface{}, event *apptModel.AppointmentStatusEvent) error

	// UpdateIfStatusIn applies the patch only while the stored status is one of
	// allowedStatuses. Used for assignment and triage revisions, which do not
	// change the status itself.
	UpdateIfStatusIn(ctx context.Context, id uint, allowedStatuses []apptModel.AppointmentStatus, patch map[string]interface{}) error
}

// GormAppointmentRepository implements AppointmentRepository on GORM.
type GormAppointmentRepository struct {
	db *gorm.DB
}

// NewAppointmentRepository creates a new GORM-backed appointment repository.
func NewAppointmentRepository(db *gorm.DB) *GormAppointmentRepository {
	return &GormAppointmentRepository{db: db}
}

func (r *GormAppointmentRepository) getDB(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

// Create persists a newly filed appointment.
func (r *GormAppointmentRepository) Create(ctx context.Context, appt *apptModel.Appointment) error {
	if appt == nil || appt.OwnerID == 0 {
		return apperrors.Validationf("appointment owner is required")
	}
	return r.getDB(ctx).Create(appt).Error
}

// FindByID loads an appointment with its display relations.
func (r *GormAppointmentRepository) FindByID(ctx context.Context, id uint) (*apptModel.Appointment, error) {
	var appt apptModel.Appointment
	err := r.getDB(ctx).
		Preload("Owner").
		Preload("Vehicle").
		Preload("AssignedServiceCenter").
		Preload("Photos").
		First(&appt, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("appointment %d", id)
		}
		logger.Error("AppointmentRepository.FindByID: DB error", err)
		return nil, err
	}
	return &appt, nil
}

// ListByStatuses returns appointments in any of the given statuses,
// with owner/vehicle/center preloaded for triage display.
func (r *GormAppointmentRepository) ListByStatuses(ctx context.Context, statuses []apptModel.AppointmentStatus) ([]apptModel.Appointment, error) {
	var appts []apptModel.Appointment
	err := r.getDB(ctx).
		Preload("Owner").
		Preload("Vehicle").
		Preload("AssignedServiceCenter").
		Where("status IN ?", statuses).
		Order("requested_date ASC").
		Find(&appts).Error
	if err != nil {
		logger.Error("AppointmentRepository.ListByStatuses: DB error", err)
		return nil, err
	}
	return appts, nil
}

// ListForServiceCenter returns the center's appointments whose requested date
// falls inside [from, to], both endpoints inclusive.
func (r *GormAppointmentRepository) ListForServiceCenter(ctx context.Context, serviceCenterID uint, from, to time.Time) ([]apptModel.Appointment, error) {
	var appts []apptModel.Appointment
	err := r.getDB(ctx).
		Where("assigned_service_center_id = ?", serviceCenterID).
		Where("requested_date BETWEEN ? AND ?", from, to).
		Order("requested_date ASC").
		Find(&appts).Error
	if err != nil {
		logger.Error("AppointmentRepository.ListForServiceCenter: DB error", err)
		return nil, err
	}
	return appts, nil
}

// TransitionStatus is the compare-and-set transition. The UPDATE is guarded by
// the expected status so two racing transitions cannot both win; the loser
// observes zero affected rows and gets ErrInvalidTransition.
func (r *GormAppointmentRepository) TransitionStatus(ctx context.Context, id uint, expectedStatus apptModel.AppointmentStatus, patch map[string]interface{}, event *apptModel.AppointmentStatusEvent) error {
	return r.getDB(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&apptModel.Appointment{}).
			Where("id = ? AND status = ?", id, expectedStatus).
			Updates(patch)
		if result.Error != nil {
			logger.Error("AppointmentRepository.TransitionStatus: DB error", result.Error)
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&apptModel.Appointment{}).Where("id = ?", id).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return apperrors.NotFoundf("appointment %d", id)
			}
			return apperrors.InvalidTransitionf("appointment %d is no longer %s", id, expectedStatus)
		}
		if event != nil {
			if err := tx.Create(event).Error; err != nil {
				logger.Error("AppointmentRepository.TransitionStatus: status event insert failed", err)
				return err
			}
		}
		return nil
	})
}

// UpdateIfStatusIn applies a non-transition patch guarded by the allowed statuses.
func (r *GormAppointmentRepository) UpdateIfStatusIn(ctx context.Context, id uint, allowedStatuses []apptModel.AppointmentStatus, patch map[string]interface{}) error {
	result := r.getDB(ctx).Model(&apptModel.Appointment{}).
		Where("id = ? AND status IN ?", id, allowedStatuses).
		Updates(patch)
	if result.Error != nil {
		logger.Error("AppointmentRepository.UpdateIfStatusIn: DB error", result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.getDB(ctx).Model(&apptModel.Appointment{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return apperrors.NotFoundf("appointment %d", id)
		}
		return apperrors.InvalidTransitionf("appointment %d is not in an editable status", id)
	}
	return nil
}

var _ AppointmentRepository = (*GormAppointmentRepository)(nil)
