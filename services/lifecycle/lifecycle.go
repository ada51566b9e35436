// Package lifecycle governs appointment status transitions and the SLA side
// effects attached to them.
package lifecycle

import (
	"context"
	"fmt"
	"os"
	"time"

	"autocare/apperrors"
	apptModel "autocare/models/appointment"
	"autocare/repositories"
	"autocare/services/notification"
	"autocare/services/sla"
)

// Service implements the appointment lifecycle state machine:
// PENDING -> {APPROVED, REJECTED}; APPROVED -> InService -> COMPLETED.
// REJECTED and COMPLETED are terminal.
type Service struct {
	repo     repositories.AppointmentRepository
	notifier notification.Notifier
	now      func() time.Time
}

// NewService creates the lifecycle service.
func NewService(repo repositories.AppointmentRepository, notifier notification.Notifier) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		now:      time.Now,
	}
}

// Decide resolves a PENDING appointment to APPROVED or REJECTED.
//
// APPROVED requires an SLA deadline strictly in the future; the priority falls
// back to keyword classification when the operator supplies none. REJECTED
// needs no further fields and notifies the customer. The underlying update is
// compare-and-set against PENDING, so of two racing decisions exactly one
// survives and the other receives ErrInvalidTransition.
func (s *Service) Decide(ctx context.Context, appointmentID uint, decision apptModel.AppointmentStatus, priority *apptModel.Priority, slaDeadline *time.Time, decidedBy string) (*apptModel.Appointment, error) {
	if decision != apptModel.StatusApproved && decision != apptModel.StatusRejected {
		return nil, apperrors.Validationf("decision must be %s or %s", apptModel.StatusApproved, apptModel.StatusRejected)
	}

	appt, err := s.repo.FindByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appt.Status != apptModel.StatusPending {
		return nil, apperrors.InvalidTransitionf("appointment %d is %s, decisions are only legal from %s",
			appointmentID, appt.Status, apptModel.StatusPending)
	}

	now := s.now()
	patch := map[string]interface{}{
		"status":     decision,
		"updated_by": decidedBy,
	}
	event := &apptModel.AppointmentStatusEvent{
		AppointmentID: appointmentID,
		FromStatus:    apptModel.StatusPending,
		ToStatus:      decision,
		CreatedBy:     decidedBy,
	}

	if decision == apptModel.StatusApproved {
		if slaDeadline == nil {
			return nil, apperrors.Validationf("sla_deadline is required for approval")
		}
		if !slaDeadline.After(now) {
			return nil, apperrors.Validationf("sla_deadline must be in the future")
		}
		effective := sla.ClassifyPriority(appt.ServiceType)
		if priority != nil {
			if !priority.IsValid() {
				return nil, apperrors.Validationf("invalid priority %q", *priority)
			}
			effective = *priority
		}
		patch["priority"] = effective
		patch["sla_deadline"] = *slaDeadline
		event.Priority = &effective
		event.SlaDeadline = slaDeadline
	}

	if err := s.repo.TransitionStatus(ctx, appointmentID, apptModel.StatusPending, patch, event); err != nil {
		return nil, err
	}

	if decision == apptModel.StatusRejected {
		s.notifier.Notify(appt.Owner.Phone, notification.ChannelSMS,
			fmt.Sprintf("Your service request %s was rejected. Contact support for details.", appt.TrackingCode))
	} else {
		s.notifier.Notify(appt.Owner.Phone, notification.ChannelSMS,
			fmt.Sprintf("Your service request %s was approved. Promised completion: %s.",
				appt.TrackingCode, slaDeadline.Format("2006-01-02 15:04")))
	}

	return s.repo.FindByID(ctx, appointmentID)
}

// UpdateStatus moves an appointment to InService or COMPLETED.
//
// On COMPLETED the actual completion date is stamped, the breach flag is
// computed and persisted, the customer is notified, and admins are notified
// when the SLA was breached. Illegal transitions fail with
// ErrInvalidTransition and leave the record unchanged.
func (s *Service) UpdateStatus(ctx context.Context, appointmentID uint, newStatus apptModel.AppointmentStatus, updatedBy string) (*apptModel.Appointment, error) {
	if newStatus != apptModel.StatusInService && newStatus != apptModel.StatusCompleted {
		return nil, apperrors.Validationf("status must be %s or %s", apptModel.StatusInService, apptModel.StatusCompleted)
	}

	appt, err := s.repo.FindByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if !appt.Status.CanTransitionTo(newStatus) {
		return nil, apperrors.InvalidTransitionf("cannot move appointment %d from %s to %s",
			appointmentID, appt.Status, newStatus)
	}
	expected := appt.Status

	patch := map[string]interface{}{
		"status":     newStatus,
		"updated_by": updatedBy,
	}
	event := &apptModel.AppointmentStatusEvent{
		AppointmentID: appointmentID,
		FromStatus:    expected,
		ToStatus:      newStatus,
		Priority:      appt.Priority,
		SlaDeadline:   appt.SlaDeadline,
		CreatedBy:     updatedBy,
	}

	breached := false
	if newStatus == apptModel.StatusCompleted {
		completedAt := s.now()
		completed := *appt
		completed.ActualCompletionDate = &completedAt
		breached = sla.ComputeBreach(&completed, completedAt)

		patch["actual_completion_date"] = completedAt
		patch["sla_breached"] = breached
		event.SlaBreached = breached
	}

	if err := s.repo.TransitionStatus(ctx, appointmentID, expected, patch, event); err != nil {
		return nil, err
	}

	if newStatus == apptModel.StatusCompleted {
		s.notifier.Notify(appt.Owner.Phone, notification.ChannelSMS,
			fmt.Sprintf("Your vehicle service %s is complete and ready for pickup.", appt.TrackingCode))
		if breached {
			s.notifyAdminBreach(appt)
		}
	}

	return s.repo.FindByID(ctx, appointmentID)
}

// RevisePriority re-runs triage on an appointment. Allowed only while the
// status is PENDING or APPROVED; after InService the priority is frozen.
func (s *Service) RevisePriority(ctx context.Context, appointmentID uint, priority apptModel.Priority, updatedBy string) error {
	if !priority.IsValid() {
		return apperrors.Validationf("invalid priority %q", priority)
	}
	return s.repo.UpdateIfStatusIn(ctx, appointmentID,
		[]apptModel.AppointmentStatus{apptModel.StatusPending, apptModel.StatusApproved},
		map[string]interface{}{
			"priority":   priority,
			"updated_by": updatedBy,
		})
}

// notifyAdminBreach alerts the assigned center (when there is one) and the
// admin hotline. The breach alert is never skipped for lack of an assignment.
func (s *Service) notifyAdminBreach(appt *apptModel.Appointment) {
	message := fmt.Sprintf("SLA breached on appointment %s (%s).", appt.TrackingCode, appt.ServiceType)
	if appt.AssignedServiceCenter != nil {
		s.notifier.NotifyUrgent(appt.AssignedServiceCenter.Phone, notification.ChannelSMS, message)
	}
	s.notifier.NotifyUrgent(os.Getenv("ADMIN_ALERT_PHONE"), notification.ChannelSMS, message)
}
