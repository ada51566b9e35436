// Package assignment binds appointments to service centers and drives
// operator escalation.
package assignment

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"autocare/apperrors"
	apptModel "autocare/models/appointment"
	"autocare/repositories"
	"autocare/services/notification"
	"autocare/services/sla"
)

// Service is the assignment coordinator. Assignment is last-write-wins until
// the appointment enters service; no assignment history is kept here.
type Service struct {
	appts    repositories.AppointmentRepository
	centers  repositories.ServiceCenterRepository
	rules    repositories.EscalationRuleRepository
	notifier notification.Notifier
	now      func() time.Time
}

// NewService creates the assignment coordinator.
func NewService(appts repositories.AppointmentRepository, centers repositories.ServiceCenterRepository, rules repositories.EscalationRuleRepository, notifier notification.Notifier) *Service {
	return &Service{
		appts:    appts,
		centers:  centers,
		rules:    rules,
		notifier: notifier,
		now:      time.Now,
	}
}

// Assign binds the appointment to a service center and optionally a mechanic.
// Permitted only while the appointment is PENDING or APPROVED; calling again
// with a different center overwrites the prior assignment. The target center
// is notified fire-and-forget.
func (s *Service) Assign(ctx context.Context, appointmentID, serviceCenterID uint, mechanicID *uint, assignedBy string) (*apptModel.Appointment, error) {
	appt, err := s.appts.FindByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appt.Status != apptModel.StatusPending && appt.Status != apptModel.StatusApproved {
		return nil, apperrors.InvalidTransitionf("appointment %d is %s; assignment is only allowed before service starts",
			appointmentID, appt.Status)
	}

	center, err := s.centers.FindByID(ctx, serviceCenterID)
	if err != nil {
		return nil, err
	}

	patch := map[string]interface{}{
		"assigned_service_center_id": serviceCenterID,
		"updated_by":                 assignedBy,
	}
	if mechanicID != nil {
		mech, err := s.centers.FindMechanic(ctx, *mechanicID)
		if err != nil {
			return nil, err
		}
		if mech.ServiceCenterID != serviceCenterID {
			return nil, apperrors.Validationf("mechanic %d does not work at service center %d", *mechanicID, serviceCenterID)
		}
		patch["assigned_mechanic_id"] = *mechanicID
	}

	err = s.appts.UpdateIfStatusIn(ctx, appointmentID,
		[]apptModel.AppointmentStatus{apptModel.StatusPending, apptModel.StatusApproved}, patch)
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(center.Phone, notification.ChannelSMS,
		fmt.Sprintf("New assignment: appointment %s (%s).", appt.TrackingCode, appt.ServiceType))

	return s.appts.FindByID(ctx, appointmentID)
}

// Escalate confirms an appointment's escalated state. It fails with
// ErrPreconditionFailed when the live predicate does not currently hold, so
// retries are only safe after the precondition is re-verified. On success the
// breach flag is persisted and admins receive a high-priority notification.
func (s *Service) Escalate(ctx context.Context, appointmentID uint, escalatedBy string) (*apptModel.Appointment, error) {
	appt, err := s.appts.FindByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if !sla.IsEscalated(appt, now) {
		return nil, apperrors.PreconditionFailedf("appointment %d is not escalated", appointmentID)
	}

	if !appt.SlaBreached {
		err = s.appts.UpdateIfStatusIn(ctx, appointmentID,
			[]apptModel.AppointmentStatus{appt.Status},
			map[string]interface{}{
				"sla_breached": true,
				"updated_by":   escalatedBy,
			})
		if err != nil {
			return nil, err
		}
	}

	s.notifyEscalation(ctx, appt, now)

	return s.appts.FindByID(ctx, appointmentID)
}

// notifyEscalation alerts the admin hotline (always) and the assigned center
// (when there is one). Matched escalation rules annotate the alert so the
// admin sees which policy fired.
func (s *Service) notifyEscalation(ctx context.Context, appt *apptModel.Appointment, now time.Time) {
	message := fmt.Sprintf("ESCALATION: appointment %s (%s) requires urgent attention.",
		appt.TrackingCode, appt.ServiceType)

	rules, err := s.rules.ListEnabled(ctx)
	if err != nil {
		// Rule lookup failure degrades to the plain alert, never blocks escalation.
		rules = nil
	}
	if matched := sla.EvaluateRules(appt, rules, now); len(matched) > 0 {
		names := make([]string, 0, len(matched))
		for _, rule := range matched {
			names = append(names, rule.Name)
		}
		message = fmt.Sprintf("%s Rules: %s.", message, strings.Join(names, "; "))
	}

	if appt.AssignedServiceCenter != nil {
		s.notifier.NotifyUrgent(appt.AssignedServiceCenter.Phone, notification.ChannelSMS, message)
	}
	s.notifier.NotifyUrgent(os.Getenv("ADMIN_ALERT_PHONE"), notification.ChannelSMS, message)
}
